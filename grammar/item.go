package grammar

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/iptq/pgen/internal/idhash"
)

// LR0Item is one (production, dot position) pair: a snapshot of how far a
// parser has gotten through recognizing one alternative of a nonterminal.
// Items never reference each other; each points only at its production
// (which carries the assigned id), so a set of items is just data, not a
// graph.
type LR0Item struct {
	prod *resolvedProduction
	dot  int
}

// LHS is the nonterminal this item's production reduces to.
func (it *LR0Item) LHS() Symbol { return it.prod.lhs }

// RHS is this item's production's full right-hand side, dot position
// aside.
func (it *LR0Item) RHS() []Symbol { return it.prod.rhs }

// Dot is how many rhs symbols have been recognized so far.
func (it *LR0Item) Dot() int { return it.dot }

// IsAugmentedStart reports whether this item's production is one of the
// synthetic S' -> S productions introduced for a declared start symbol.
func (it *LR0Item) IsAugmentedStart() bool { return it.prod.isAugmentedStart }

// ProductionID is the id reduce actions built from this item refer to.
func (it *LR0Item) ProductionID() ProductionID { return it.prod.id }

// AtEnd reports whether the dot has reached the end of the rhs, meaning
// this item is ready to reduce.
func (it *LR0Item) AtEnd() bool { return it.dot >= len(it.prod.rhs) }

// DottedSymbol is the symbol immediately after the dot, or false if the
// dot is already at the end.
func (it *LR0Item) DottedSymbol() (Symbol, bool) {
	if it.AtEnd() {
		return Symbol{}, false
	}
	return it.prod.rhs[it.dot], true
}

// id is a stable content hash of the four fields that define item
// identity: which production, which dot position, and (implicitly,
// through the production) whether it is an augmented start. Two items
// built from equal input always hash the same, independent of pointer
// identity or map iteration order.
func (it *LR0Item) id() string {
	return idhash.Of(struct {
		LHS   uint32
		RHS   []uint32
		Dot   int
		Start bool
	}{
		LHS:   symID(it.prod.lhs),
		RHS:   symIDs(it.prod.rhs),
		Dot:   it.dot,
		Start: it.prod.isAugmentedStart,
	})
}

func symID(s Symbol) uint32 { return s.id | uint32(s.kind)<<28 }

func symIDs(syms []Symbol) []uint32 {
	out := make([]uint32, len(syms))
	for i, s := range syms {
		out[i] = symID(s)
	}
	return out
}

// advance returns the item with the dot moved one position to the
// right. Callers only call this when DottedSymbol() returned true.
func (it *LR0Item) advance() *LR0Item {
	return &LR0Item{prod: it.prod, dot: it.dot + 1}
}

func (it *LR0Item) String(symTab *SymbolTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ->", symTab.ToText(it.prod.lhs))
	for i, sym := range it.prod.rhs {
		if i == it.dot {
			b.WriteString(" .")
		}
		fmt.Fprintf(&b, " %s", symTab.ToText(sym))
	}
	if it.AtEnd() {
		b.WriteString(" .")
	}
	return b.String()
}

// ItemSet is a canonicalized, deduplicated, deterministically ordered
// collection of items: one node of the canonical collection. Two ItemSets
// built from the same underlying items, regardless of the order they were
// discovered in, compare equal via their ID.
type ItemSet struct {
	itemsID string
	items   []*LR0Item
}

// newItemSet dedups and sorts items by content id, then derives a set id
// from the sorted id sequence. Passing the same multiset of items twice,
// in any order, always yields an ItemSet with the same ID.
func newItemSet(items []*LR0Item) *ItemSet {
	byID := map[string]*LR0Item{}
	for _, it := range items {
		byID[it.id()] = it
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sorted := make([]*LR0Item, len(ids))
	for i, id := range ids {
		sorted[i] = byID[id]
	}

	return &ItemSet{
		itemsID: idhash.Of(ids),
		items:   sorted,
	}
}

// ID uniquely identifies this ItemSet's content, independent of discovery
// order.
func (s *ItemSet) ID() string { return s.itemsID }

// Items returns this set's items in deterministic (id-sorted) order.
func (s *ItemSet) Items() []*LR0Item { return s.items }

func itemSetCompare(a, b interface{}) int {
	sa, sb := a.(*ItemSet), b.(*ItemSet)
	switch {
	case sa.itemsID == sb.itemsID:
		return 0
	case sa.itemsID < sb.itemsID:
		return -1
	default:
		return 1
	}
}

// StateNum indexes a state of the canonical collection; it is also the
// row index of the synthesized ParseTable.
type StateNum int

// CanonicalCollection is the sequence of distinct LR(0) states discovered
// while building a ParseTable, in BFS order from the combined start
// state. State 0 is always the combined start state.
type CanonicalCollection struct {
	states []*ItemSet
	goTo   []map[Symbol]StateNum
	// edges records every discovered GOTO edge in discovery order (the
	// fixed terminal-then-nonterminal symbolUniverse order within each
	// state), for callers that need a deterministic traversal instead of
	// goTo's unordered map lookup (PrintCollection, in particular: Go's
	// map iteration order is randomized, which would make printed output
	// vary run to run despite the collection itself being deterministic).
	edges *arraylist.List
}

// edge is one discovered GOTO transition, in the order buildCollection
// found it.
type edge struct {
	from StateNum
	sym  Symbol
	to   StateNum
}

// Len is the number of states in the collection.
func (c *CanonicalCollection) Len() int { return len(c.states) }

// State returns the ItemSet for state n.
func (c *CanonicalCollection) State(n StateNum) *ItemSet { return c.states[n] }

// Goto returns the state GOTO(n, sym) transitions to, if any edge exists.
func (c *CanonicalCollection) Goto(n StateNum, sym Symbol) (StateNum, bool) {
	next, ok := c.goTo[n][sym]
	return next, ok
}

// closure computes the closure of a kernel item set: repeatedly, for
// every item whose dotted symbol is a nonterminal N, add a dot-0 item for
// every production of N, until no new items appear. A production whose
// sole rhs symbol is Epsilon is added already dot-advanced to the end,
// since there is no real input symbol to shift past it — it is reducible
// the instant it enters the set.
func closure(kernel []*LR0Item, prods *productionSet) []*LR0Item {
	seen := map[string]*LR0Item{}
	var out []*LR0Item
	var frontier []*LR0Item

	add := func(it *LR0Item) {
		id := it.id()
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = it
		out = append(out, it)
		frontier = append(frontier, it)
	}
	for _, it := range kernel {
		add(it)
	}

	for len(frontier) > 0 {
		cur := frontier
		frontier = nil
		for _, it := range cur {
			sym, ok := it.DottedSymbol()
			if !ok || !sym.IsNonterminal() {
				continue
			}
			for _, p := range prods.findByLHS(sym) {
				if p.isEmpty() {
					add(&LR0Item{prod: p, dot: 1})
					continue
				}
				add(&LR0Item{prod: p, dot: 0})
			}
		}
	}
	return out
}

// gotoSet computes GOTO(I, X): advance the dot in every item of I whose
// dotted symbol is X, then close the result. Returns nil if no item in I
// is dotted at X.
func gotoSet(items []*LR0Item, x Symbol, prods *productionSet) []*LR0Item {
	var kernel []*LR0Item
	for _, it := range items {
		sym, ok := it.DottedSymbol()
		if !ok || sym != x {
			continue
		}
		kernel = append(kernel, it.advance())
	}
	if len(kernel) == 0 {
		return nil
	}
	return closure(kernel, prods)
}

// buildCollection runs the canonical-collection construction: the start
// state is the closure of one dot-0 item per declared start symbol's
// augmented production, combined into a single kernel so that every
// start symbol shares the same state space. Discovery proceeds
// breadth-first, enumerating each state's outgoing symbols in a fixed
// order (every terminal by declaration order, then every nonterminal by
// declaration order) so that two builds from equal input always number
// states identically.
func buildCollection(prods *productionSet, startSymbols []Symbol, augmented map[Symbol]Symbol, symTab *SymbolTable) (*CanonicalCollection, error) {
	var kernel []*LR0Item
	for _, s := range startSymbols {
		augSym, ok := augmented[s]
		if !ok {
			return nil, fmt.Errorf("no augmented production recorded for start symbol %s", s)
		}
		aps := prods.findByLHS(augSym)
		if len(aps) != 1 {
			return nil, fmt.Errorf("expected exactly one augmented production for %s, found %d", s, len(aps))
		}
		kernel = append(kernel, &LR0Item{prod: aps[0], dot: 0})
	}

	start := newItemSet(closure(kernel, prods))

	coll := &CanonicalCollection{edges: arraylist.New()}
	indexOf := map[string]StateNum{}

	enqueue := func(set *ItemSet) StateNum {
		if n, ok := indexOf[set.ID()]; ok {
			return n
		}
		n := StateNum(len(coll.states))
		indexOf[set.ID()] = n
		coll.states = append(coll.states, set)
		coll.goTo = append(coll.goTo, map[Symbol]StateNum{})
		return n
	}
	enqueue(start)

	universe := symbolUniverse(symTab)

	for n := StateNum(0); int(n) < coll.Len(); n++ {
		items := coll.State(n).Items()
		for _, sym := range universe {
			next := gotoSet(items, sym, prods)
			if next == nil {
				continue
			}
			nextSet := newItemSet(next)
			target := enqueue(nextSet)
			coll.goTo[n][sym] = target
			coll.edges.Add(edge{from: n, sym: sym, to: target})
		}
	}

	return coll, nil
}

// symbolUniverse fixes the deterministic enumeration order used while
// discovering GOTO edges: every terminal in declaration order, then every
// nonterminal (including augmented starts) in declaration order. Epsilon
// never appears as a dotted symbol (empty productions are born already
// reduced, see closure) so it is never part of the symbol table's id
// space and is omitted automatically.
func symbolUniverse(symTab *SymbolTable) []Symbol {
	return append(symTab.OrderedTerminals(), symTab.OrderedNonterminals()...)
}

// PrintCollection renders every state's items and outgoing edges, for
// debugging, in state-number order.
func PrintCollection(w io.Writer, coll *CanonicalCollection, symTab *SymbolTable) {
	if w == nil {
		return
	}
	edgesByState := make([][]edge, len(coll.states))
	coll.edges.Each(func(_ int, v interface{}) {
		e := v.(edge)
		edgesByState[e.from] = append(edgesByState[e.from], e)
	})

	for n, set := range coll.states {
		fmt.Fprintf(w, "state %d:\n", n)
		for _, it := range set.Items() {
			fmt.Fprintf(w, "  %s\n", it.String(symTab))
		}
		for _, e := range edgesByState[n] {
			fmt.Fprintf(w, "  goto %s -> %d\n", symTab.ToText(e.sym), e.to)
		}
	}
}

// duplicateStates reports, for debugging/tests, whether any two distinct
// discovered states ended up sharing an ID — buildCollection's enqueue
// dedup means this should never happen, but a gods treeset gives an
// independent, content-ordered cross-check.
func duplicateStates(coll *CanonicalCollection) bool {
	seen := treeset.NewWith(itemSetCompare)
	for _, s := range coll.states {
		if seen.Contains(s) {
			return true
		}
		seen.Add(s)
	}
	return false
}
