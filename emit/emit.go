// Package emit turns a synthesized ParseTable into a free-standing Go
// source file: the same flattened data teacher's code generator wrote as
// JSON for an external runtime to load, but rendered as a literal Go
// value instead, via text/template, so the generated table can be
// compiled directly into a consumer that never imports package grammar.
package emit

import (
	"fmt"
	"io"
	"sort"
	"text/template"

	"github.com/iptq/pgen/grammar"
)

// ActionEntry is one non-empty ACTION cell, flattened for serialization:
// the state and symbol index it's keyed by, plus what it holds.
type ActionEntry struct {
	State  int
	Symbol int
	Kind   string // "shift", "reduce", or "accept"
	Target int    // meaningful for Kind == "shift"
	Prod   int    // meaningful for Kind == "reduce" or "accept"
}

// GotoEntry is one non-empty GOTO cell.
type GotoEntry struct {
	State  int
	Symbol int
	Target int
}

// ProductionEntry describes one production's shape: which nonterminal it
// reduces to (an index into Nonterminals) and how many symbols it pops.
type ProductionEntry struct {
	LHS    int
	RHSLen int
}

// TableData is the flattened, language-agnostic form of a ParseTable.
// Symbol ids for terminals are indices into Terminals; for nonterminals,
// indices into Nonterminals. EOF is represented by the sentinel index -1
// rather than appearing in either list.
type TableData struct {
	Package string

	StateCount int
	Actions    []ActionEntry
	Gotos      []GotoEntry

	Productions []ProductionEntry

	Terminals    []string
	Patterns     []string
	Nonterminals []string

	StartStates map[string]int
}

const eofIndex = -1

// BuildTableData flattens tab into the template-ready TableData shape.
// Exported separately from Go so callers that want the structured form
// (tests, alternative renderers) don't need to parse generated source
// back out.
func BuildTableData(tab *grammar.Table, pkg string) TableData {
	symTab := tab.Symbols
	terms := symTab.OrderedTerminals()
	nonterms := symTab.OrderedNonterminals()

	termIndex := make(map[grammar.Symbol]int, len(terms))
	for i, s := range terms {
		termIndex[s] = i
	}
	nontermIndex := make(map[grammar.Symbol]int, len(nonterms))
	for i, s := range nonterms {
		nontermIndex[s] = i
	}
	symbolIndex := func(s grammar.Symbol) int {
		switch {
		case s.IsEOF():
			return eofIndex
		case s.IsTerminal():
			return termIndex[s]
		default:
			return nontermIndex[s]
		}
	}

	data := TableData{
		Package:     pkg,
		StateCount:  tab.Parse.NumStates(),
		StartStates: map[string]int{},
	}

	for _, s := range terms {
		data.Terminals = append(data.Terminals, symTab.ToText(s))
		data.Patterns = append(data.Patterns, tab.Patterns[s])
	}
	for _, s := range nonterms {
		data.Nonterminals = append(data.Nonterminals, symTab.ToText(s))
	}

	lookupSyms := append(append([]grammar.Symbol{}, terms...), grammar.EOF)
	for state := grammar.StateNum(0); int(state) < tab.Parse.NumStates(); state++ {
		for _, sym := range lookupSyms {
			a, ok := tab.Parse.Action(state, sym)
			if !ok {
				continue
			}
			entry := ActionEntry{State: int(state), Symbol: symbolIndex(sym), Kind: a.Kind.String()}
			switch a.Kind {
			case grammar.Shift:
				entry.Target = int(a.Target)
			case grammar.Reduce, grammar.Accept:
				entry.Prod = int(a.Prod)
			}
			data.Actions = append(data.Actions, entry)
		}
		for _, sym := range nonterms {
			n, ok := tab.Parse.Goto(state, sym)
			if !ok {
				continue
			}
			data.Gotos = append(data.Gotos, GotoEntry{State: int(state), Symbol: symbolIndex(sym), Target: int(n)})
		}
	}

	for id := 0; ; id++ {
		prod, ok := tab.Parse.Production(grammar.ProductionID(id))
		if !ok {
			break
		}
		data.Productions = append(data.Productions, ProductionEntry{
			LHS:    symbolIndex(prod.LHS()),
			RHSLen: prod.RHSLen(),
		})
	}

	for _, name := range startSymbolNames(symTab, nonterms) {
		sym, _ := symTab.ToSymbol(name)
		if n, ok := tab.Parse.StartState(sym); ok {
			data.StartStates[name] = int(n)
		}
	}

	return data
}

func startSymbolNames(symTab *grammar.SymbolTable, nonterms []grammar.Symbol) []string {
	var names []string
	for _, s := range nonterms {
		names = append(names, symTab.ToText(s))
	}
	sort.Strings(names)
	return names
}

var tmpl = template.Must(template.New("table").Funcs(template.FuncMap{
	"actionKindConst": actionKindConst,
}).Parse(`// Code generated by pgen. DO NOT EDIT.

package {{.Package}}

// ActionKind distinguishes a shift, a reduce, or an accept.
type ActionKind uint8

const (
	Shift ActionKind = iota
	Reduce
	Accept
)

// ActionEntry is one non-empty ACTION cell, keyed by state and symbol
// index (terminal index, or -1 for end-of-input).
type ActionEntry struct {
	State  int
	Symbol int
	Kind   ActionKind
	Target int
	Prod   int
}

// GotoEntry is one non-empty GOTO cell, keyed by state and nonterminal
// index.
type GotoEntry struct {
	State  int
	Symbol int
	Target int
}

// ProductionEntry describes one production: the nonterminal index it
// reduces to and how many symbols it pops.
type ProductionEntry struct {
	LHS    int
	RHSLen int
}

// StateCount is the number of rows in the table.
const StateCount = {{.StateCount}}

// Terminals is every terminal name, in declaration order; a symbol index
// of -1 in ActionEntry means end-of-input, not a Terminals index.
var Terminals = []string{ {{range .Terminals}}{{printf "%q" .}}, {{end}} }

// Patterns pairs with Terminals: Patterns[i] is the lexer pattern for
// Terminals[i].
var Patterns = []string{ {{range .Patterns}}{{printf "%q" .}}, {{end}} }

// Nonterminals is every nonterminal name, in declaration order.
var Nonterminals = []string{ {{range .Nonterminals}}{{printf "%q" .}}, {{end}} }

// Productions is every production, indexed by ActionEntry.Prod.
var Productions = []ProductionEntry{
{{range .Productions}}	{LHS: {{.LHS}}, RHSLen: {{.RHSLen}}},
{{end}}}

// Actions is every non-empty ACTION cell.
var Actions = []ActionEntry{
{{range .Actions}}	{State: {{.State}}, Symbol: {{.Symbol}}, Kind: {{.Kind | actionKindConst}}, Target: {{.Target}}, Prod: {{.Prod}}},
{{end}}}

// Gotos is every non-empty GOTO cell.
var Gotos = []GotoEntry{
{{range .Gotos}}	{State: {{.State}}, Symbol: {{.Symbol}}, Target: {{.Target}}},
{{end}}}

// StartStates maps a declared start-symbol name to the state a parse
// over it begins in.
var StartStates = map[string]int{
{{range $name, $state := .StartStates}}	{{printf "%q" $name}}: {{$state}},
{{end}}}
`))

func actionKindConst(kind string) string {
	switch kind {
	case "shift":
		return "Shift"
	case "reduce":
		return "Reduce"
	case "accept":
		return "Accept"
	default:
		return "Shift"
	}
}

// Go renders tab as a self-contained Go source file in package pkg.
func Go(w io.Writer, tab *grammar.Table, pkg string) error {
	if pkg == "" {
		return fmt.Errorf("emit: package name must not be empty")
	}
	return tmpl.Execute(w, BuildTableData(tab, pkg))
}
