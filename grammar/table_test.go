package grammar

import (
	"errors"
	"testing"
)

func TestBuild_arithmeticGrammarHasNoConflicts(t *testing.T) {
	tab, err := Build(arithGrammar())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if tab.Parse.NumStates() == 0 {
		t.Fatalf("expected at least one state")
	}

	start, ok := tab.StartState("E")
	if !ok {
		t.Fatalf("expected a start state for E")
	}
	if start != 0 {
		t.Fatalf("expected the combined start state to be state 0, got %d", start)
	}
}

func TestBuild_actionAndGotoDomainsAreDisjoint(t *testing.T) {
	tab, err := Build(arithGrammar())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for n := StateNum(0); int(n) < tab.Parse.NumStates(); n++ {
		for _, sym := range tab.Parse.goTo[n] {
			_ = sym
		}
		for sym := range tab.Parse.action[n] {
			if sym.IsNonterminal() {
				t.Fatalf("state %d: ACTION should never be keyed by a nonterminal (%s)", n, tab.Symbols.ToText(sym))
			}
		}
		for sym := range tab.Parse.goTo[n] {
			if !sym.IsNonterminal() {
				t.Fatalf("state %d: GOTO should only be keyed by nonterminals (%s)", n, tab.Symbols.ToText(sym))
			}
		}
	}
}

func TestBuild_recursiveDescentGrammarHasNoConflicts(t *testing.T) {
	if _, err := Build(recursiveDescentGrammar()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
}

func TestBuild_ambiguousGrammarReportsShiftReduceConflict(t *testing.T) {
	g := Grammar{
		StartSymbols: []string{"S"},
		Terminals:    []TerminalDecl{{Name: "a", Pattern: "a"}},
		Productions: []NonterminalDecl{
			{Name: "S", Alternatives: []Production{Prod("S", "S"), Prod("a")}},
		},
	}
	_, err := Build(g)
	if err == nil {
		t.Fatalf("expected a conflict error for an ambiguous grammar")
	}
	var cerr *ConflictsError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected a *ConflictsError, got %T: %v", err, err)
	}
	if len(cerr.Conflicts) == 0 {
		t.Fatalf("expected at least one conflict")
	}
	var sawShiftReduce bool
	for _, c := range cerr.Conflicts {
		if c.Kind == ShiftReduceConflict {
			sawShiftReduce = true
		}
	}
	if !sawShiftReduce {
		t.Fatalf("expected a shift/reduce conflict among %v", cerr.Conflicts)
	}
}

func TestBuild_reduceReduceConflict(t *testing.T) {
	// Two productions reducible in the same state on an overlapping
	// FOLLOW set: S -> A | B, both A and B only ever derive "x", so the
	// state after shifting x must choose between reducing to A or to B.
	g := Grammar{
		StartSymbols: []string{"S"},
		Terminals:    []TerminalDecl{{Name: "x", Pattern: "x"}},
		Productions: []NonterminalDecl{
			{Name: "S", Alternatives: []Production{Prod("A"), Prod("B")}},
			{Name: "A", Alternatives: []Production{Prod("x")}},
			{Name: "B", Alternatives: []Production{Prod("x")}},
		},
	}
	_, err := Build(g)
	if err == nil {
		t.Fatalf("expected a conflict error")
	}
	var cerr *ConflictsError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected a *ConflictsError, got %T: %v", err, err)
	}
	var sawReduceReduce bool
	for _, c := range cerr.Conflicts {
		if c.Kind == ReduceReduceConflict {
			sawReduceReduce = true
		}
	}
	if !sawReduceReduce {
		t.Fatalf("expected a reduce/reduce conflict among %v", cerr.Conflicts)
	}
}

func TestBuild_acceptActionOnAugmentedStartReduction(t *testing.T) {
	tab, err := Build(arithGrammar())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	start, _ := tab.StartState("E")

	// Check both ends of parsing a minimal "id" input: the start state
	// shifts id, and the start state's goto-successor over E accepts on
	// EOF. The reductions through F, T, E in between are not driven here.
	idSym := symOf(t, tab.Symbols, "id")
	a, ok := tab.Parse.Action(start, idSym)
	if !ok || a.Kind != Shift {
		t.Fatalf("expected a shift on id from the start state, got %v (ok=%v)", a, ok)
	}

	eSym := symOf(t, tab.Symbols, "E")
	eState, ok := tab.Parse.Goto(start, eSym)
	if !ok {
		t.Fatalf("expected a goto on E from the start state")
	}
	acc, ok := tab.Parse.Action(eState, EOF)
	if !ok || acc.Kind != Accept {
		t.Fatalf("expected Accept on EOF after reducing to the start symbol, got %v (ok=%v)", acc, ok)
	}
}
