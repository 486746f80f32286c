package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iptq/pgen/grammar"
	"github.com/iptq/pgen/lexer"
	"github.com/iptq/pgen/runtime"
)

func arithGrammar() grammar.Grammar {
	return grammar.Grammar{
		StartSymbols: []string{"E"},
		Terminals: []grammar.TerminalDecl{
			{Name: "+", Pattern: `\+`},
			{Name: "*", Pattern: `\*`},
			{Name: "(", Pattern: `\(`},
			{Name: ")", Pattern: `\)`},
			{Name: "id", Pattern: `[a-z]+`},
		},
		Productions: []grammar.NonterminalDecl{
			{Name: "E", Alternatives: []grammar.Production{grammar.Prod("E", "+", "T"), grammar.Prod("T")}},
			{Name: "T", Alternatives: []grammar.Production{grammar.Prod("T", "*", "F"), grammar.Prod("F")}},
			{Name: "F", Alternatives: []grammar.Production{grammar.Prod("(", "E", ")"), grammar.Prod("id")}},
		},
	}
}

func tokenize(t *testing.T, tab *grammar.Table, src string) []lexer.Token {
	t.Helper()
	var patterns []lexer.Pattern
	for _, name := range []string{"+", "*", "(", ")", "id"} {
		sym, ok := tab.Symbols.ToSymbol(name)
		require.True(t, ok)
		pattern := map[string]string{"+": `\+`, "*": `\*`, "(": `\(`, ")": `\)`, "id": `[a-z]+`}[name]
		patterns = append(patterns, lexer.Pattern{Terminal: sym, Regex: pattern})
	}
	lx, err := lexer.New(patterns)
	require.NoError(t, err)
	toks, err := lx.Tokenize([]byte(src))
	require.NoError(t, err)
	return toks
}

func TestRun_acceptsAValidExpression(t *testing.T) {
	tab, err := grammar.Build(arithGrammar())
	require.NoError(t, err)

	toks := tokenize(t, tab, "a + b * ( c )")
	res, err := runtime.Run(tab, "E", toks)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.NotEmpty(t, res.Reductions)
}

func TestRun_rejectsAnIncompleteExpression(t *testing.T) {
	tab, err := grammar.Build(arithGrammar())
	require.NoError(t, err)

	toks := tokenize(t, tab, "a +")
	_, err = runtime.Run(tab, "E", toks)
	require.Error(t, err)
	var perr *runtime.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestRun_rejectsMismatchedParentheses(t *testing.T) {
	tab, err := grammar.Build(arithGrammar())
	require.NoError(t, err)

	toks := tokenize(t, tab, "( a")
	_, err = runtime.Run(tab, "E", toks)
	require.Error(t, err)
}

func TestRun_unknownStartSymbolFails(t *testing.T) {
	tab, err := grammar.Build(arithGrammar())
	require.NoError(t, err)

	_, err = runtime.Run(tab, "NotAStartSymbol", nil)
	require.Error(t, err)
}
