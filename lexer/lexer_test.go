package lexer_test

import (
	"testing"

	"github.com/iptq/pgen/grammar"
	"github.com/iptq/pgen/lexer"
)

func arithVG(t *testing.T) *grammar.ValidatedGrammar {
	t.Helper()
	g := grammar.Grammar{
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
	vg, err := grammar.Validate(g)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	return vg
}

func patterns(t *testing.T, vg *grammar.ValidatedGrammar, decls []grammar.TerminalDecl) []lexer.Pattern {
	t.Helper()
	out := make([]lexer.Pattern, 0, len(decls))
	for _, d := range decls {
		sym, ok := vg.Symbols.ToSymbol(d.Name)
		if !ok {
			t.Fatalf("terminal %q not found", d.Name)
		}
		out = append(out, lexer.Pattern{Terminal: sym, Regex: d.Pattern})
	}
	return out
}

func TestTokenize_arithmeticExpression(t *testing.T) {
	vg := arithVG(t)
	decls := []grammar.TerminalDecl{
		{Name: "+", Pattern: `\+`},
		{Name: "*", Pattern: `\*`},
		{Name: "(", Pattern: `\(`},
		{Name: ")", Pattern: `\)`},
		{Name: "id", Pattern: `[a-z]+`},
	}
	lx, err := lexer.New(patterns(t, vg, decls))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	toks, err := lx.Tokenize([]byte("a + b * ( c )"))
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	want := []string{"id", "+", "id", "*", "(", "id", ")"}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, w := range want {
		sym, _ := vg.Symbols.ToSymbol(w)
		if toks[i].Terminal != sym {
			t.Errorf("token %d: want terminal %q, got %v", i, w, toks[i].Terminal)
		}
	}
}

func TestTokenize_rejectsUnrecognizedInput(t *testing.T) {
	vg := arithVG(t)
	decls := []grammar.TerminalDecl{{Name: "id", Pattern: `[a-z]+`}}
	lx, err := lexer.New(patterns(t, vg, decls))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := lx.Tokenize([]byte("abc#def")); err == nil {
		t.Fatalf("expected an error for an unrecognized character")
	}
}
