package grammar

import "fmt"

// SymbolKind tags the four closed variants a Symbol can take.
type SymbolKind uint8

const (
	SymbolTerminal SymbolKind = iota
	SymbolNonterminal
	SymbolEpsilon
	SymbolEndOfInput
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolTerminal:
		return "terminal"
	case SymbolNonterminal:
		return "non-terminal"
	case SymbolEpsilon:
		return "epsilon"
	case SymbolEndOfInput:
		return "end-of-input"
	default:
		return "?"
	}
}

// epsilonGlyph and eofGlyph are the reserved display forms of the two
// sentinel symbols. A user-declared name may never equal either.
const (
	epsilonGlyph = "ε"
	eofGlyph     = "$"
)

// Symbol is a tagged value distinguishing a terminal, a nonterminal, the
// epsilon marker, or end-of-input. Equality and ordering are defined over
// the kind first, then over the interned id, so a bare Go struct compare
// (==) is already correct equality, and Less gives a total order.
// Epsilon and EOF are singletons that carry no id.
type Symbol struct {
	kind SymbolKind
	id   uint32
}

// Epsilon and EOF are the two sentinel symbols shared by every grammar.
var (
	Epsilon = Symbol{kind: SymbolEpsilon}
	EOF     = Symbol{kind: SymbolEndOfInput}
)

func (s Symbol) Kind() SymbolKind     { return s.kind }
func (s Symbol) IsTerminal() bool     { return s.kind == SymbolTerminal }
func (s Symbol) IsNonterminal() bool  { return s.kind == SymbolNonterminal }
func (s Symbol) IsEpsilon() bool      { return s.kind == SymbolEpsilon }
func (s Symbol) IsEOF() bool          { return s.kind == SymbolEndOfInput }

// Less gives Symbol a total order: by kind, then by interned id. Used to
// keep item sets, FIRST/FOLLOW dumps, and canonical-collection discovery
// order deterministic.
func (s Symbol) Less(o Symbol) bool {
	if s.kind != o.kind {
		return s.kind < o.kind
	}
	return s.id < o.id
}

// symbolCompare adapts Less to the three-way comparator shape expected by
// gods containers (github.com/emirpasic/gods/utils.Comparator).
func symbolCompare(a, b interface{}) int {
	sa, sb := a.(Symbol), b.(Symbol)
	switch {
	case sa == sb:
		return 0
	case sa.Less(sb):
		return -1
	default:
		return 1
	}
}

func (s Symbol) String() string {
	switch s.kind {
	case SymbolEpsilon:
		return epsilonGlyph
	case SymbolEndOfInput:
		return eofGlyph
	case SymbolTerminal:
		return fmt.Sprintf("t%d", s.id)
	case SymbolNonterminal:
		return fmt.Sprintf("n%d", s.id)
	default:
		return "?"
	}
}

// SymbolTable interns symbol names to small dense ids, so a Symbol can be
// compared and hashed without touching the backing string. It is local to
// a single build — never a process-wide registry — which keeps builds
// reentrant and deterministic: two tables built from equal input produce
// Symbols that behave identically even though they are distinct values.
type SymbolTable struct {
	text2Sym map[string]Symbol
	sym2Text map[Symbol]string
	nextT    uint32
	nextN    uint32
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym: map[string]Symbol{},
		sym2Text: map[Symbol]string{},
	}
}

// reserved reports whether text collides with a sentinel's display form.
func reserved(text string) bool {
	return text == epsilonGlyph || text == eofGlyph
}

func (t *SymbolTable) registerNonTerminalSymbol(text string) (Symbol, error) {
	if reserved(text) {
		return Symbol{}, fmt.Errorf("%q is reserved and cannot name a nonterminal", text)
	}
	if sym, ok := t.text2Sym[text]; ok {
		return sym, nil
	}
	sym := Symbol{kind: SymbolNonterminal, id: t.nextN}
	t.nextN++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	return sym, nil
}

func (t *SymbolTable) registerTerminalSymbol(text string) (Symbol, error) {
	if reserved(text) {
		return Symbol{}, fmt.Errorf("%q is reserved and cannot name a terminal", text)
	}
	if sym, ok := t.text2Sym[text]; ok {
		return sym, nil
	}
	sym := Symbol{kind: SymbolTerminal, id: t.nextT}
	t.nextT++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	return sym, nil
}

// ToSymbol resolves a declared name to its Symbol. The epsilon glyph always
// resolves to Epsilon, whether or not it was declared by the user.
func (t *SymbolTable) ToSymbol(text string) (Symbol, bool) {
	if text == epsilonGlyph {
		return Epsilon, true
	}
	sym, ok := t.text2Sym[text]
	return sym, ok
}

// OrderedTerminals returns every registered terminal in registration
// order. Because terminal ids are handed out sequentially starting at
// zero, this is just a range over the id space — no separate slice needs
// to be kept in step with registration.
func (t *SymbolTable) OrderedTerminals() []Symbol {
	out := make([]Symbol, t.nextT)
	for i := range out {
		out[i] = Symbol{kind: SymbolTerminal, id: uint32(i)}
	}
	return out
}

// OrderedNonterminals returns every registered nonterminal (including
// augmented start symbols introduced by Validate) in registration order.
func (t *SymbolTable) OrderedNonterminals() []Symbol {
	out := make([]Symbol, t.nextN)
	for i := range out {
		out[i] = Symbol{kind: SymbolNonterminal, id: uint32(i)}
	}
	return out
}

// ToText renders the display name of any Symbol, including the sentinels.
func (t *SymbolTable) ToText(sym Symbol) string {
	switch sym.kind {
	case SymbolEpsilon:
		return epsilonGlyph
	case SymbolEndOfInput:
		return eofGlyph
	}
	if text, ok := t.sym2Text[sym]; ok {
		return text
	}
	return fmt.Sprintf("<symbol not found: %s>", sym)
}
