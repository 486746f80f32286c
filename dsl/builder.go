package dsl

import "github.com/iptq/pgen/grammar"

// Builder assembles a grammar.Grammar one declaration at a time, for
// callers that would rather construct a grammar programmatically than
// write it as text or TOML:
//
//	b := dsl.NewBuilder()
//	b.Start("E")
//	b.Terminal("+", `\+`)
//	b.Terminal("*", `\*`)
//	b.Terminal("id", `[a-z]+`)
//	b.Rule("E").Alt("E", "+", "T").Alt("T")
//	b.Rule("T").Alt("T", "*", "F").Alt("F")
//	b.Rule("F").Alt("id")
//	g := b.Build()
//
// Builder does not validate anything itself — Build returns a plain
// grammar.Grammar for grammar.Validate (or grammar.Build) to check.
type Builder struct {
	start     []string
	terminals []grammar.TerminalDecl
	rules     []*RuleBuilder
	byName    map[string]*RuleBuilder
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byName: map[string]*RuleBuilder{}}
}

// Start appends name to the grammar's start-symbol list.
func (b *Builder) Start(name string) *Builder {
	b.start = append(b.start, name)
	return b
}

// Terminal declares a named terminal and its lexer pattern.
func (b *Builder) Terminal(name, pattern string) *Builder {
	b.terminals = append(b.terminals, grammar.TerminalDecl{Name: name, Pattern: pattern})
	return b
}

// Rule returns the RuleBuilder for name, creating it — in declaration
// order — the first time name is seen. Calling Rule again for the same
// name continues adding alternatives to the same nonterminal.
func (b *Builder) Rule(name string) *RuleBuilder {
	if r, ok := b.byName[name]; ok {
		return r
	}
	r := &RuleBuilder{name: name}
	b.byName[name] = r
	b.rules = append(b.rules, r)
	return r
}

// Build assembles the accumulated declarations into a grammar.Grammar.
func (b *Builder) Build() grammar.Grammar {
	g := grammar.Grammar{StartSymbols: b.start, Terminals: b.terminals}
	for _, r := range b.rules {
		g.Productions = append(g.Productions, grammar.NonterminalDecl{Name: r.name, Alternatives: r.alts})
	}
	return g
}

// RuleBuilder accumulates one nonterminal's alternatives.
type RuleBuilder struct {
	name string
	alts []grammar.Production
}

// Alt appends one alternative expansion, given as a sequence of symbol
// names.
func (r *RuleBuilder) Alt(rhs ...string) *RuleBuilder {
	r.alts = append(r.alts, grammar.Prod(rhs...))
	return r
}
