// Package runtime is the standard shift-reduce driver: it consumes a
// token stream against a synthesized ParseTable and reports whether the
// stream belongs to the grammar's language. The algorithm is the
// textbook one — a state stack, shift/reduce/accept dispatch off
// ACTION, goto off GOTO — re-derived here rather than copied from
// anywhere, since table construction (not parsing) is this module's
// hard part.
package runtime

import (
	"fmt"

	"github.com/iptq/pgen/grammar"
	"github.com/iptq/pgen/lexer"
)

// ParseResult reports the outcome of a successful parse: acceptance, plus
// the sequence of productions reduced, in the order they were applied.
type ParseResult struct {
	Accepted   bool
	Reductions []grammar.ProductionID
}

// ParseError reports where the driver got stuck: no ACTION entry for the
// current state and lookahead symbol.
type ParseError struct {
	State StateAtError
	Pos   int
	Text  string
}

// StateAtError is the parser state the driver was in when it failed to
// find an applicable action.
type StateAtError = grammar.StateNum

func (e *ParseError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("runtime: parse error at byte offset %d near %q (state %d)", e.Pos, e.Text, e.State)
	}
	return fmt.Sprintf("runtime: parse error at end of input (state %d)", e.State)
}

// Run drives tab's ACTION/GOTO tables over toks, starting from the state
// registered for startName. It returns a *ParseResult with Accepted set
// to true only if the whole token stream, followed by end-of-input, is
// recognized by the grammar. A token stream the table rejects yields a
// *ParseError; an undeclared startName, or a reduce whose production or
// goto entry is missing from the table, yields a plain error.
func Run(tab *grammar.Table, startName string, toks []lexer.Token) (*ParseResult, error) {
	start, ok := tab.StartState(startName)
	if !ok {
		return nil, fmt.Errorf("runtime: %q is not a declared start symbol", startName)
	}

	stack := []grammar.StateNum{start}
	var reductions []grammar.ProductionID
	pos := 0

	lookahead := func() (grammar.Symbol, int, string) {
		if pos < len(toks) {
			return toks[pos].Terminal, toks[pos].Pos, toks[pos].Lexeme
		}
		return grammar.EOF, -1, ""
	}

	for {
		top := stack[len(stack)-1]
		sym, tokPos, text := lookahead()

		action, ok := tab.Parse.Action(top, sym)
		if !ok {
			return nil, &ParseError{State: top, Pos: tokPos, Text: text}
		}

		switch action.Kind {
		case grammar.Shift:
			stack = append(stack, action.Target)
			pos++
		case grammar.Reduce:
			prod, ok := tab.Parse.Production(action.Prod)
			if !ok {
				return nil, fmt.Errorf("runtime: reduce refers to unknown production %d", action.Prod)
			}
			n := prod.RHSLen()
			stack = stack[:len(stack)-n]
			from := stack[len(stack)-1]
			next, ok := tab.Parse.Goto(from, prod.LHS())
			if !ok {
				return nil, fmt.Errorf("runtime: no goto from state %d on %s", from, tab.Symbols.ToText(prod.LHS()))
			}
			stack = append(stack, next)
			reductions = append(reductions, action.Prod)
		case grammar.Accept:
			return &ParseResult{Accepted: true, Reductions: reductions}, nil
		}
	}
}
