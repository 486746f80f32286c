// Package lexer turns a grammar's terminal patterns into a working
// tokenizer. The table-construction core treats a terminal's pattern
// string as opaque; this package is where that string finally means
// something, by handing it to lexmachine to compile into a DFA.
package lexer

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/iptq/pgen/grammar"
)

// Pattern pairs a terminal with the regex lexmachine should scan for it.
// Order matters: when two patterns match the same prefix with equal
// length, the one added first to the underlying DFA wins, so Patterns
// should be supplied in a fixed, meaningful order (e.g. a grammar's
// terminal declaration order) rather than pulled from map iteration.
type Pattern struct {
	Terminal grammar.Symbol
	Regex    string
}

// Token is one scanned lexeme: which terminal it matched, the text it
// matched, and its byte offset into the source for error reporting.
type Token struct {
	Terminal grammar.Symbol
	Lexeme   string
	Pos      int
}

// whitespaceRegex is the default skip pattern; every built Lexer ignores
// runs of plain ASCII whitespace between tokens.
const whitespaceRegex = `( |\t|\n|\r)+`

// Lexer scans source bytes into a token stream, one terminal per
// pattern supplied to New.
type Lexer struct {
	lm *lexmachine.Lexer
}

// New compiles patterns into a DFA. It fails if lexmachine rejects any
// pattern as invalid regex syntax, or if the compiled machine is
// ambiguous in a way lexmachine itself refuses to resolve.
func New(patterns []Pattern) (*Lexer, error) {
	lm := lexmachine.NewLexer()

	lm.Add([]byte(whitespaceRegex), skip)
	for _, p := range patterns {
		term := p.Terminal
		lm.Add([]byte(p.Regex), makeToken(term))
	}

	if err := lm.Compile(); err != nil {
		return nil, fmt.Errorf("compiling lexer: %w", err)
	}
	return &Lexer{lm: lm}, nil
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(term grammar.Symbol) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return Token{Terminal: term, Lexeme: string(m.Bytes), Pos: m.TC}, nil
	}
}

// Tokenize scans src end to end, returning every matched token in
// order. It fails on the first unconsumed-input run lexmachine reports,
// i.e. the first byte range that matches none of the supplied patterns.
func (l *Lexer) Tokenize(src []byte) ([]Token, error) {
	scan, err := l.lm.Scanner(src)
	if err != nil {
		return nil, fmt.Errorf("starting scan: %w", err)
	}

	var toks []Token
	for {
		tok, err, eof := scan.Next()
		if eof {
			break
		}
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				return nil, fmt.Errorf("unrecognized input at byte offset %d", ui.FailTC)
			}
			return nil, err
		}
		toks = append(toks, tok.(Token))
	}
	return toks, nil
}
