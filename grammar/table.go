package grammar

import (
	"fmt"
	"io"
	"sort"
)

// ActionKind distinguishes the three things an ACTION cell can hold.
type ActionKind uint8

const (
	Shift ActionKind = iota
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "?"
	}
}

// Action is one ACTION table cell: a shift to Target, a reduce by Prod,
// or an accept. Only the field relevant to Kind is meaningful.
type Action struct {
	Kind   ActionKind
	Target StateNum
	Prod   ProductionID
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %d", a.Target)
	case Reduce:
		return fmt.Sprintf("reduce %d", a.Prod)
	default:
		return "accept"
	}
}

// ParseTable is the synthesized ACTION/GOTO table: for every state, an
// action map keyed by terminal-or-EOF and a goto map keyed by
// nonterminal, with disjoint key domains.
type ParseTable struct {
	action []map[Symbol]Action
	goTo   []map[Symbol]StateNum
	prods  *productionSet

	// startStates maps every declared start symbol to the state a
	// parse beginning with it should push first. Every start symbol
	// shares state 0, the combined initial state, but the map is kept
	// explicit so callers never need to know that detail.
	startStates map[Symbol]StateNum
}

// NumStates is the number of rows in the table.
func (t *ParseTable) NumStates() int { return len(t.action) }

// Action looks up ACTION[state][sym]. sym must be a terminal or EOF.
func (t *ParseTable) Action(state StateNum, sym Symbol) (Action, bool) {
	a, ok := t.action[state][sym]
	return a, ok
}

// Goto looks up GOTO[state][sym]. sym must be a nonterminal.
func (t *ParseTable) Goto(state StateNum, sym Symbol) (StateNum, bool) {
	n, ok := t.goTo[state][sym]
	return n, ok
}

// StartState returns the state a parse over the named start symbol
// begins in, or false if sym was never declared as a start symbol.
func (t *ParseTable) StartState(sym Symbol) (StateNum, bool) {
	n, ok := t.startStates[sym]
	return n, ok
}

// Production looks up a production by id, for callers (the emitter, the
// runtime driver) that need its lhs/rhs after a Reduce action.
func (t *ParseTable) Production(id ProductionID) (*resolvedProduction, bool) {
	return t.prods.findByID(id)
}

// Synthesize walks the canonical collection and produces ACTION/GOTO
// entries for every state: a shift for every item dotted at a terminal,
// a goto for every item dotted at a nonterminal, a reduce for every
// completed non-augmented item across its lhs's FOLLOW set, and an
// accept for every completed augmented-start item. Every assignment is
// checked against whatever is already in that cell; conflicts are
// accumulated rather than stopping at the first one, so a caller sees
// the whole report in one ConflictsError.
func Synthesize(coll *CanonicalCollection, prods *productionSet, flw *Follow, startSymbols []Symbol) (*ParseTable, error) {
	n := coll.Len()
	t := &ParseTable{
		action:      make([]map[Symbol]Action, n),
		goTo:        make([]map[Symbol]StateNum, n),
		prods:       prods,
		startStates: map[Symbol]StateNum{},
	}
	for i := range t.action {
		t.action[i] = map[Symbol]Action{}
		t.goTo[i] = map[Symbol]StateNum{}
	}
	for _, s := range startSymbols {
		t.startStates[s] = StateNum(0)
	}

	var conflicts []*ConflictError

	setAction := func(state StateNum, sym Symbol, want Action) {
		have, exists := t.action[state][sym]
		if !exists {
			t.action[state][sym] = want
			return
		}
		if have == want {
			return
		}
		switch {
		case have.Kind == Shift || want.Kind == Shift:
			reduceProds := reduceSideProds(have, want)
			conflicts = append(conflicts, &ConflictError{
				Kind:        ShiftReduceConflict,
				State:       state,
				Symbol:      sym,
				ShiftTarget: shiftSide(have, want),
				ReduceProds: reduceProds,
			})
		default:
			conflicts = append(conflicts, &ConflictError{
				Kind:        ReduceReduceConflict,
				State:       state,
				Symbol:      sym,
				ReduceProds: []ProductionID{have.Prod, want.Prod},
			})
		}
	}

	for i := 0; i < n; i++ {
		state := StateNum(i)
		items := coll.State(state).Items()

		for sym, target := range coll.goTo[i] {
			if sym.IsTerminal() {
				setAction(state, sym, Action{Kind: Shift, Target: target})
			} else {
				t.goTo[i][sym] = target
			}
		}

		for _, it := range items {
			if !it.AtEnd() {
				continue
			}
			if it.IsAugmentedStart() {
				setAction(state, EOF, Action{Kind: Accept, Prod: it.ProductionID()})
				continue
			}
			fe := flw.Get(it.LHS())
			for _, sym := range fe.Symbols() {
				setAction(state, sym, Action{Kind: Reduce, Prod: it.ProductionID()})
			}
			if fe.HasEOF() {
				setAction(state, EOF, Action{Kind: Reduce, Prod: it.ProductionID()})
			}
		}
	}

	if len(conflicts) > 0 {
		sort.Slice(conflicts, func(i, j int) bool {
			if conflicts[i].State != conflicts[j].State {
				return conflicts[i].State < conflicts[j].State
			}
			return conflicts[i].Symbol.Less(conflicts[j].Symbol)
		})
		return nil, &ConflictsError{Conflicts: conflicts}
	}

	return t, nil
}

func shiftSide(have, want Action) StateNum {
	if have.Kind == Shift {
		return have.Target
	}
	return want.Target
}

func reduceSideProds(have, want Action) []ProductionID {
	if have.Kind == Reduce {
		return []ProductionID{have.Prod}
	}
	return []ProductionID{want.Prod}
}

// PrintTable renders ACTION and GOTO for every state, for debugging.
func PrintTable(w io.Writer, t *ParseTable, symTab *SymbolTable) {
	if w == nil {
		return
	}
	fmt.Fprintln(w, "ACTION:")
	for i, row := range t.action {
		fmt.Fprintf(w, "#%d:", i)
		var syms []Symbol
		for sym := range row {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(a, b int) bool { return syms[a].Less(syms[b]) })
		for _, sym := range syms {
			fmt.Fprintf(w, "  %s:%s", symTab.ToText(sym), row[sym])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "GOTO:")
	for i, row := range t.goTo {
		fmt.Fprintf(w, "#%d:", i)
		var syms []Symbol
		for sym := range row {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(a, b int) bool { return syms[a].Less(syms[b]) })
		for _, sym := range syms {
			fmt.Fprintf(w, "  %s:%d", symTab.ToText(sym), row[sym])
		}
		fmt.Fprintln(w)
	}
}
