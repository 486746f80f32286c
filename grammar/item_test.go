package grammar

import "testing"

func TestClosure_addsNonterminalProductions(t *testing.T) {
	vg := mustValidate(t, arithGrammar())

	e := symOf(t, vg.Symbols, "E")
	augE := vg.Augmented[e]
	augProd := vg.Productions.findByLHS(augE)[0]

	items := closure([]*LR0Item{{prod: augProd, dot: 0}}, vg.Productions)

	var sawEPlusT, sawT, sawLParen, sawID bool
	for _, it := range items {
		if it.LHS() != e && it.LHS().IsTerminal() {
			continue
		}
		name := vg.Symbols.ToText(it.LHS())
		switch name {
		case "E":
			if it.Dot() == 0 {
				rhsFirst := vg.Symbols.ToText(it.RHS()[0])
				if rhsFirst == "E" {
					sawEPlusT = true
				} else {
					sawT = true
				}
			}
		case "F":
			if it.Dot() == 0 && vg.Symbols.ToText(it.RHS()[0]) == "(" {
				sawLParen = true
			}
			if it.Dot() == 0 && vg.Symbols.ToText(it.RHS()[0]) == "id" {
				sawID = true
			}
		}
	}
	if !sawEPlusT || !sawT {
		t.Fatalf("closure should add both E alternatives at dot 0")
	}
	if !sawLParen || !sawID {
		t.Fatalf("closure should transitively add F's alternatives through T")
	}
}

func TestClosure_epsilonItemsAreBornReduced(t *testing.T) {
	g := Grammar{
		StartSymbols: []string{"S"},
		Terminals:    []TerminalDecl{{Name: "a", Pattern: "a"}},
		Productions: []NonterminalDecl{
			{Name: "S", Alternatives: []Production{Prod("a", "T")}},
			{Name: "T", Alternatives: []Production{Prod("ε")}},
		},
	}
	vg := mustValidate(t, g)
	s := symOf(t, vg.Symbols, "S")
	augS := vg.Augmented[s]
	augProd := vg.Productions.findByLHS(augS)[0]

	items := closure([]*LR0Item{{prod: augProd, dot: 0}}, vg.Productions)

	sProd := findProd(t, vg, "S", "a", "T")
	advanced := closure([]*LR0Item{{prod: sProd, dot: 1}}, vg.Productions)

	var found bool
	for _, it := range advanced {
		if vg.Symbols.ToText(it.LHS()) == "T" {
			found = true
			if !it.AtEnd() {
				t.Fatalf("an item for an epsilon production should be born already at its end")
			}
		}
	}
	if !found {
		t.Fatalf("closure should have added T -> ε")
	}
	_ = items
}

func TestItemSet_contentEqualityIndependentOfOrder(t *testing.T) {
	vg := mustValidate(t, arithGrammar())
	e := findProd(t, vg, "E", "E", "+", "T")
	tp := findProd(t, vg, "E", "T")

	a := newItemSet([]*LR0Item{{prod: e, dot: 0}, {prod: tp, dot: 0}})
	b := newItemSet([]*LR0Item{{prod: tp, dot: 0}, {prod: e, dot: 0}})

	if a.ID() != b.ID() {
		t.Fatalf("ItemSet ID should not depend on input order")
	}

	c := newItemSet([]*LR0Item{{prod: e, dot: 0}, {prod: e, dot: 0}, {prod: tp, dot: 0}})
	if a.ID() != c.ID() {
		t.Fatalf("ItemSet should dedup repeated items")
	}
}

func TestBuildCollection_singleStartEpsilonOnlyTwoStates(t *testing.T) {
	g := Grammar{
		StartSymbols: []string{"S"},
		Productions: []NonterminalDecl{
			{Name: "S", Alternatives: []Production{Prod("ε")}},
		},
	}
	vg := mustValidate(t, g)
	coll, err := buildCollection(vg.Productions, vg.StartSymbols, vg.Augmented, vg.Symbols)
	if err != nil {
		t.Fatalf("buildCollection failed: %v", err)
	}
	if coll.Len() != 2 {
		t.Fatalf("expected exactly two states (initial closure, accept), got %d", coll.Len())
	}
}

func TestBuildCollection_deterministicAcrossRuns(t *testing.T) {
	vg1 := mustValidate(t, arithGrammar())
	vg2 := mustValidate(t, arithGrammar())

	coll1, err := buildCollection(vg1.Productions, vg1.StartSymbols, vg1.Augmented, vg1.Symbols)
	if err != nil {
		t.Fatalf("buildCollection failed: %v", err)
	}
	coll2, err := buildCollection(vg2.Productions, vg2.StartSymbols, vg2.Augmented, vg2.Symbols)
	if err != nil {
		t.Fatalf("buildCollection failed: %v", err)
	}

	if coll1.Len() != coll2.Len() {
		t.Fatalf("two builds from equal input produced different state counts: %d vs %d", coll1.Len(), coll2.Len())
	}
	for i := 0; i < coll1.Len(); i++ {
		if coll1.State(StateNum(i)).ID() != coll2.State(StateNum(i)).ID() {
			t.Fatalf("state %d differs between two builds of the same grammar", i)
		}
	}
	if duplicateStates(coll1) {
		t.Fatalf("buildCollection produced two states with the same content id")
	}
}
