package grammar

import "fmt"

// TerminalDecl names one terminal and its (opaque, pass-through) lexer
// pattern. Order within Grammar.Terminals is significant: it fixes the
// terminal's position in deterministic output.
type TerminalDecl struct {
	Name    string
	Pattern string
}

// NonterminalDecl names one nonterminal and its ordered list of
// alternative productions.
type NonterminalDecl struct {
	Name         string
	Alternatives []Production
}

// Grammar is the user-supplied specification consumed by Validate. It is
// immutable past the start of a build: nothing below mutates a Grammar
// value.
type Grammar struct {
	// StartSymbols is an ordered list of nonterminal names; duplicates
	// are tolerated (folded into one augmented start). One augmented
	// start production is introduced per distinct entry.
	StartSymbols []string
	// Terminals preserves declaration order; names must be unique.
	Terminals []TerminalDecl
	// Productions preserves declaration order for both nonterminals and,
	// within each, their alternatives; names must be unique and distinct
	// from every terminal name.
	Productions []NonterminalDecl
}

// ValidatedGrammar is the intermediate result of Validate, consumed by
// FIRST/FOLLOW computation, collection construction, and table synthesis.
// Build constructs one internally and discards it once the ParseTable is
// synthesized. It is exported so callers can run Validate themselves,
// inspect the result, and hand it to BuildFrom, and so tests can exercise
// FIRST/FOLLOW/collection construction in isolation from table synthesis.
type ValidatedGrammar struct {
	Symbols      *SymbolTable
	Patterns     map[Symbol]string
	Productions  *productionSet
	StartSymbols []Symbol          // original (non-augmented) start nonterminals, declared order
	Augmented    map[Symbol]Symbol // start nonterminal -> its augmented S'
}

// Validate builds the symbol resolution map, resolves every production's
// rhs, assigns production ids, and checks that every start symbol is a
// nonterminal. It is pure: no global state, no side effects, and it
// never mutates g.
func Validate(g Grammar) (*ValidatedGrammar, error) {
	if len(g.StartSymbols) == 0 {
		return nil, &GrammarError{Kind: NoStartSymbols}
	}

	symTab := newSymbolTable()
	patterns := map[Symbol]string{}

	// Step 1: terminals first, then nonterminals; a nonterminal name
	// that already resolved (to a terminal or an earlier nonterminal)
	// is a conflict.
	for _, t := range g.Terminals {
		if _, exists := symTab.text2Sym[t.Name]; exists {
			return nil, &GrammarError{Kind: NameConflict, Name: t.Name}
		}
		sym, err := symTab.registerTerminalSymbol(t.Name)
		if err != nil {
			return nil, err
		}
		patterns[sym] = t.Pattern
	}
	for _, n := range g.Productions {
		if _, exists := symTab.text2Sym[n.Name]; exists {
			return nil, &GrammarError{Kind: NameConflict, Name: n.Name}
		}
		if _, err := symTab.registerNonTerminalSymbol(n.Name); err != nil {
			return nil, err
		}
	}

	// Step 2 + 3: resolve every rhs and assign ids in declaration order.
	prods := newProductionSet()
	for _, n := range g.Productions {
		lhs, _ := symTab.ToSymbol(n.Name)
		for _, alt := range n.Alternatives {
			rhs, err := resolveRHS(alt.RHS, symTab)
			if err != nil {
				return nil, err
			}
			if len(rhs) == 0 {
				return nil, &GrammarError{Kind: EmptyProduction, Name: n.Name}
			}
			prods.append(&resolvedProduction{
				id:  ProductionID(len(prods.byID)),
				lhs: lhs,
				rhs: rhs,
			})
		}
	}

	// Step 4: start symbols must resolve to nonterminals; introduce one
	// augmented start production per distinct start symbol.
	var startSyms []Symbol
	augmented := map[Symbol]Symbol{}
	seenStart := map[string]bool{}
	for _, name := range g.StartSymbols {
		if seenStart[name] {
			continue
		}
		seenStart[name] = true

		sym, ok := symTab.ToSymbol(name)
		if !ok {
			return nil, &GrammarError{Kind: InvalidSymbol, Name: name}
		}
		if !sym.IsNonterminal() {
			return nil, &GrammarError{Kind: StartingTerminal, Name: name}
		}
		augName := name + "'"
		for {
			if _, clash := symTab.text2Sym[augName]; !clash {
				break
			}
			augName += "'"
		}
		augSym, err := symTab.registerNonTerminalSymbol(augName)
		if err != nil {
			return nil, err
		}
		prods.append(&resolvedProduction{
			id:               ProductionID(len(prods.byID)),
			lhs:              augSym,
			rhs:              []Symbol{sym},
			isAugmentedStart: true,
		})
		startSyms = append(startSyms, sym)
		augmented[sym] = augSym
	}

	return &ValidatedGrammar{
		Symbols:      symTab,
		Patterns:     patterns,
		Productions:  prods,
		StartSymbols: startSyms,
		Augmented:    augmented,
	}, nil
}

// resolveRHS maps a production's unresolved name sequence to Symbols. The
// literal epsilon glyph always resolves to Epsilon, even if never
// declared; any other unresolved name is InvalidSymbol.
func resolveRHS(names []string, symTab *SymbolTable) ([]Symbol, error) {
	rhs := make([]Symbol, 0, len(names))
	for _, name := range names {
		sym, ok := symTab.ToSymbol(name)
		if !ok {
			return nil, &GrammarError{Kind: InvalidSymbol, Name: name}
		}
		rhs = append(rhs, sym)
	}
	return rhs, nil
}

// Table bundles everything Build derives from a ValidatedGrammar: the
// synthesized ACTION/GOTO table plus the intermediate FIRST/FOLLOW sets
// and canonical collection, kept around for diagnostics (PrintXxx
// functions) and for the code emitter, which needs symbol names alongside
// the table.
type Table struct {
	Parse      *ParseTable
	Collection *CanonicalCollection
	Follow     *Follow
	First      *First
	Symbols    *SymbolTable
	// Patterns carries every terminal's lexer pattern through to callers
	// (the lexer and emit packages) that need it after the rest of
	// ValidatedGrammar has been discarded.
	Patterns map[Symbol]string
}

// StartState resolves a declared start-symbol name to the state a parse
// over it should begin in. It exists alongside ParseTable.StartState so
// callers that only have the user-facing name, not a resolved Symbol,
// don't need to thread a SymbolTable through themselves.
func (t *Table) StartState(name string) (StateNum, bool) {
	sym, ok := t.Symbols.ToSymbol(name)
	if !ok {
		return 0, false
	}
	return t.Parse.StartState(sym)
}

// Build is the pure Grammar -> (Table | error) entry point: single-
// threaded, synchronous, no shared mutable state escapes the call. It
// runs validation, then FIRST/FOLLOW, then canonical-collection
// construction, then table synthesis, short-circuiting on the first
// failure of any earlier stage.
func Build(g Grammar) (*Table, error) {
	vg, err := Validate(g)
	if err != nil {
		return nil, err
	}
	return BuildFrom(vg)
}

// BuildFrom runs the table-construction pipeline from an already-validated
// grammar, so callers that want to inspect FIRST/FOLLOW or the canonical
// collection independently of Build can call Validate once and reuse it.
func BuildFrom(vg *ValidatedGrammar) (*Table, error) {
	fst := computeFirst(vg.Productions)
	flw := computeFollow(vg.Productions, vg.StartSymbols, fst)

	coll, err := buildCollection(vg.Productions, vg.StartSymbols, vg.Augmented, vg.Symbols)
	if err != nil {
		return nil, fmt.Errorf("building canonical collection: %w", err)
	}

	ptab, err := Synthesize(coll, vg.Productions, flw, vg.StartSymbols)
	if err != nil {
		return nil, err
	}

	return &Table{
		Parse:      ptab,
		Collection: coll,
		Follow:     flw,
		First:      fst,
		Symbols:    vg.Symbols,
		Patterns:   vg.Patterns,
	}, nil
}
