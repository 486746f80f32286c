package grammar

import (
	"fmt"
	"io"
	"sort"
)

// FollowEntry is FOLLOW(N) for one nonterminal N: the set of terminals
// that can appear immediately after N in some sentential form, plus EOF
// if N can appear at the very end of input.
type FollowEntry struct {
	symbols map[Symbol]struct{}
	eof     bool
}

func newFollowEntry() *FollowEntry {
	return &FollowEntry{symbols: map[Symbol]struct{}{}}
}

// Symbols returns the terminals in this entry, excluding EOF.
func (e *FollowEntry) Symbols() []Symbol {
	out := make([]Symbol, 0, len(e.symbols))
	for s := range e.symbols {
		out = append(out, s)
	}
	return out
}

// HasEOF reports whether this nonterminal can appear at end of input.
func (e *FollowEntry) HasEOF() bool { return e.eof }

func (e *FollowEntry) add(sym Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *FollowEntry) addEOF() bool {
	if e.eof {
		return false
	}
	e.eof = true
	return true
}

// mergeFirst adds (fst \ {epsilon}) into e; epsilon's presence in fst is
// meaningless here and is simply skipped.
func (e *FollowEntry) mergeFirst(fst *FirstEntry) bool {
	changed := false
	for _, sym := range fst.Symbols() {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

// mergeFollow adds every terminal (and EOF, if present) of other into e.
func (e *FollowEntry) mergeFollow(other *FollowEntry) bool {
	changed := false
	for _, sym := range other.Symbols() {
		if e.add(sym) {
			changed = true
		}
	}
	if other.eof && e.addEOF() {
		changed = true
	}
	return changed
}

// Follow is the FOLLOW mapping for every nonterminal in a validated
// grammar.
type Follow struct {
	set map[Symbol]*FollowEntry
}

// Get returns FOLLOW(sym). It only has meaning for nonterminals; the
// entry for anything else is always empty.
func (f *Follow) Get(sym Symbol) *FollowEntry {
	if e, ok := f.set[sym]; ok {
		return e
	}
	return newFollowEntry()
}

// computeFollow runs the FOLLOW update pass to a fixed point.
// FOLLOW(S) is seeded with {$} for every start nonterminal S; every other
// nonterminal starts empty. Then, for every production A -> X1 X2 ... Xn,
// each nonterminal Xi gets (FIRST(Xi+1...Xn) \ {ε}) folded in, plus all of
// FOLLOW(A) whenever that suffix is empty or nullable.
func computeFollow(prods *productionSet, startSymbols []Symbol, fst *First) *Follow {
	flw := &Follow{set: map[Symbol]*FollowEntry{}}

	seed := func(sym Symbol) *FollowEntry {
		e, ok := flw.set[sym]
		if !ok {
			e = newFollowEntry()
			flw.set[sym] = e
		}
		return e
	}

	for _, s := range startSymbols {
		seed(s).addEOF()
	}
	for _, p := range prods.all() {
		seed(p.lhs)
		for _, sym := range p.rhs {
			if sym.IsNonterminal() {
				seed(sym)
			}
		}
	}

	for {
		changed := false
		for _, p := range prods.all() {
			for i, sym := range p.rhs {
				if !sym.IsNonterminal() {
					continue
				}
				suffix := p.rhs[i+1:]
				suffixFirst := fst.ofSequence(suffix)

				e := flw.set[sym]
				if e.mergeFirst(suffixFirst) {
					changed = true
				}
				if suffixFirst.HasEpsilon() {
					if e.mergeFollow(flw.set[p.lhs]) {
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	return flw
}

// PrintFollow renders every nonterminal's FOLLOW set, for debugging.
func PrintFollow(w io.Writer, flw *Follow, symTab *SymbolTable) {
	if w == nil {
		return
	}
	var nsyms []Symbol
	for nsym := range flw.set {
		nsyms = append(nsyms, nsym)
	}
	sort.Slice(nsyms, func(i, j int) bool { return nsyms[i].Less(nsyms[j]) })

	for _, nsym := range nsyms {
		fmt.Fprintf(w, "%s:", symTab.ToText(nsym))
		e := flw.Get(nsym)
		if e.eof {
			fmt.Fprintf(w, " $")
		}
		tsyms := e.Symbols()
		sort.Slice(tsyms, func(i, j int) bool { return tsyms[i].Less(tsyms[j]) })
		for _, tsym := range tsyms {
			fmt.Fprintf(w, " %s", symTab.ToText(tsym))
		}
		fmt.Fprintf(w, "\n")
	}
}
