package dsl

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/iptq/pgen/grammar"
)

// tomlTerminal and tomlProduction mirror grammar.TerminalDecl and
// grammar.NonterminalDecl, but as plain TOML-tagged structs: array-of-table
// syntax is what lets TOML preserve declaration order, which a top-level
// table (decoded into a Go map) cannot guarantee.
type tomlTerminal struct {
	Name    string `toml:"name"`
	Pattern string `toml:"pattern"`
}

type tomlProduction struct {
	Name         string     `toml:"name"`
	Alternatives [][]string `toml:"alternatives"`
}

type tomlGrammar struct {
	StartSymbols []string         `toml:"start_symbols"`
	Terminals    []tomlTerminal   `toml:"terminals"`
	Productions  []tomlProduction `toml:"productions"`
}

// LoadFile reads a grammar described in TOML, of the shape:
//
//	start_symbols = ["E"]
//
//	[[terminals]]
//	name = "+"
//	pattern = '\+'
//
//	[[productions]]
//	name = "E"
//	alternatives = [["E", "+", "T"], ["T"]]
func LoadFile(path string) (grammar.Grammar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return grammar.Grammar{}, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := unmarshalGrammar(raw)
	if err != nil {
		return grammar.Grammar{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return parseGrammarDoc(doc), nil
}

func unmarshalGrammar(raw []byte) (tomlGrammar, error) {
	var doc tomlGrammar
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return tomlGrammar{}, err
	}
	return doc, nil
}

func parseGrammarDoc(doc tomlGrammar) grammar.Grammar {
	g := grammar.Grammar{StartSymbols: doc.StartSymbols}
	for _, t := range doc.Terminals {
		g.Terminals = append(g.Terminals, grammar.TerminalDecl{Name: t.Name, Pattern: t.Pattern})
	}
	for _, p := range doc.Productions {
		decl := grammar.NonterminalDecl{Name: p.Name}
		for _, alt := range p.Alternatives {
			decl.Alternatives = append(decl.Alternatives, grammar.Prod(alt...))
		}
		g.Productions = append(g.Productions, decl)
	}
	return g
}
