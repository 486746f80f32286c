package grammar

import (
	"fmt"
	"io"
)

// Production is the user-facing, unresolved form of one alternative
// expansion of a nonterminal: an ordered, non-empty list of symbol names.
// Encode the empty string with a single-element RHS naming the epsilon
// glyph; a zero-length RHS is rejected by Validate.
type Production struct {
	RHS []string
}

// Prod is a small constructor so grammar literals read naturally:
// Prod("E", "Add", "T").
func Prod(rhs ...string) Production {
	return Production{RHS: rhs}
}

// ProductionID is the stable, globally unique handle Reduce actions refer
// to. Ids are assigned during validation by traversing nonterminals in
// insertion order and each one's alternatives in declaration order,
// counting from zero.
type ProductionID int

func (id ProductionID) Int() int { return int(id) }

// resolvedProduction pairs a validated production with its resolved symbol
// sequence and assigned id.
type resolvedProduction struct {
	id               ProductionID
	lhs              Symbol
	rhs              []Symbol
	isAugmentedStart bool
}

func (p *resolvedProduction) rhsLen() int { return len(p.rhs) }

// LHS is the nonterminal this production reduces to. Exported so callers
// outside package grammar (the runtime driver, the code emitter) can
// inspect a production returned from ParseTable.Production.
func (p *resolvedProduction) LHS() Symbol { return p.lhs }

// RHSLen is the number of symbols a Reduce by this production pops off
// the parse stack: zero for an epsilon production, whose item enters a
// state already reduced without anything having been shifted for it.
func (p *resolvedProduction) RHSLen() int {
	if p.isEmpty() {
		return 0
	}
	return len(p.rhs)
}

// isEmpty reports whether this production's sole rhs symbol is Epsilon,
// i.e. it derives the empty string.
func (p *resolvedProduction) isEmpty() bool {
	return len(p.rhs) == 1 && p.rhs[0].IsEpsilon()
}

// productionSet indexes resolved productions by id and by LHS, preserving
// the declaration order needed for deterministic closures and table
// layout.
type productionSet struct {
	byID  []*resolvedProduction
	byLHS map[Symbol][]*resolvedProduction
}

func newProductionSet() *productionSet {
	return &productionSet{
		byLHS: map[Symbol][]*resolvedProduction{},
	}
}

func (ps *productionSet) append(p *resolvedProduction) {
	ps.byID = append(ps.byID, p)
	ps.byLHS[p.lhs] = append(ps.byLHS[p.lhs], p)
}

func (ps *productionSet) findByID(id ProductionID) (*resolvedProduction, bool) {
	if id < 0 || int(id) >= len(ps.byID) {
		return nil, false
	}
	return ps.byID[id], true
}

func (ps *productionSet) findByLHS(lhs Symbol) []*resolvedProduction {
	return ps.byLHS[lhs]
}

func (ps *productionSet) all() []*resolvedProduction {
	return ps.byID
}

// PrintProductionSet renders every production in id order, for debugging.
func PrintProductionSet(w io.Writer, prods *productionSet, symTab *SymbolTable) {
	if w == nil {
		return
	}
	for _, p := range prods.all() {
		fmt.Fprintf(w, "#%d: %s →", p.id, symTab.ToText(p.lhs))
		for _, rhsSym := range p.rhs {
			fmt.Fprintf(w, " %s", symTab.ToText(rhsSym))
		}
		fmt.Fprintf(w, "\n")
	}
}
