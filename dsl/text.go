// Package dsl turns a grammar description — either a compact text
// notation, a TOML file, or a fluent Go builder — into a grammar.Grammar
// ready for grammar.Validate.
package dsl

import (
	"fmt"
	"io"

	"github.com/iptq/pgen/grammar"
)

// ParseText reads a text-notation grammar source and converts it to a
// grammar.Grammar. The notation is a sequence of productions:
//
//	E : E "+" T | T ;
//	T : T "*" F | F ;
//	F : "(" E ")" | id ;
//	id : "[a-z]+" ;
//
// The first production in the file names the grammar's start symbol. A
// production whose only alternative is a single quoted pattern, with no
// qualifier, declares a named terminal instead of a nonterminal — id
// above becomes a terminal with pattern "[a-z]+", not a one-alternative
// nonterminal. Quoted patterns used inline, as in F's first alternative,
// are anonymous terminals assigned their own generated name. A symbol
// followed by ?, *, or + is rewritten into a small helper nonterminal
// implementing optional, zero-or-more, or one-or-more repetition.
// "//" starts a line comment.
func ParseText(src io.Reader) (grammar.Grammar, error) {
	root, err := newTextParser(src).parse()
	if err != nil {
		return grammar.Grammar{}, err
	}
	return astToGrammar(root)
}

// converter accumulates terminals and productions while walking an AST,
// assigning generated names to inline patterns and qualifier-expansion
// helpers in the order they are first encountered.
type converter struct {
	terminalOrder []string
	terminalPat   map[string]string
	patToName     map[string]string

	nonterminalOrder []string
	alternatives     map[string][]grammar.Production

	patCounter    int
	helperCounter int
}

func newConverter() *converter {
	return &converter{
		terminalPat:  map[string]string{},
		patToName:    map[string]string{},
		alternatives: map[string][]grammar.Production{},
	}
}

func astToGrammar(root *ast) (grammar.Grammar, error) {
	if root == nil || len(root.children) == 0 {
		return grammar.Grammar{}, fmt.Errorf("dsl: empty grammar")
	}

	c := newConverter()
	startName, ok := root.children[0].children[0].text()
	if !ok {
		return grammar.Grammar{}, fmt.Errorf("dsl: malformed start production")
	}

	for _, prodAST := range root.children {
		lhsName, _ := prodAST.children[0].text()
		if isLexemeProduction(prodAST) {
			patAST := prodAST.children[1].children[0]
			pattern, _ := patAST.text()
			c.declareTerminal(lhsName, pattern)
			continue
		}
		c.declareNonterminal(lhsName)
	}

	for _, prodAST := range root.children {
		if isLexemeProduction(prodAST) {
			continue
		}
		lhsName, _ := prodAST.children[0].text()
		for _, altAST := range prodAST.children[1:] {
			rhs, err := c.resolveAlternative(altAST)
			if err != nil {
				return grammar.Grammar{}, err
			}
			c.alternatives[lhsName] = append(c.alternatives[lhsName], grammar.Prod(rhs...))
		}
	}

	g := grammar.Grammar{StartSymbols: []string{startName}}
	for _, name := range c.terminalOrder {
		g.Terminals = append(g.Terminals, grammar.TerminalDecl{Name: name, Pattern: c.terminalPat[name]})
	}
	for _, name := range c.nonterminalOrder {
		g.Productions = append(g.Productions, grammar.NonterminalDecl{Name: name, Alternatives: c.alternatives[name]})
	}
	return g, nil
}

func isLexemeProduction(prodAST *ast) bool {
	return len(prodAST.children) == 2 &&
		len(prodAST.children[1].children) == 1 &&
		prodAST.children[1].children[0].ty == astTypePattern
}

func (c *converter) declareTerminal(name, pattern string) {
	if _, ok := c.terminalPat[name]; ok {
		return
	}
	c.terminalOrder = append(c.terminalOrder, name)
	c.terminalPat[name] = pattern
}

func (c *converter) declareNonterminal(name string) {
	if _, ok := c.alternatives[name]; ok {
		return
	}
	c.alternatives[name] = nil
	c.nonterminalOrder = append(c.nonterminalOrder, name)
}

func (c *converter) resolveAlternative(altAST *ast) ([]string, error) {
	var rhs []string
	children := altAST.children
	i := 0
	for i < len(children) {
		elem := children[i]
		var symName string
		switch elem.ty {
		case astTypePattern:
			patText, _ := elem.text()
			name, ok := c.patToName[patText]
			if !ok {
				name = fmt.Sprintf("$%d", c.patCounter)
				c.patCounter++
				c.patToName[patText] = name
				c.declareTerminal(name, patText)
			}
			symName = name
		case astTypeSymbol:
			symName, _ = elem.text()
		default:
			return nil, fmt.Errorf("dsl: unexpected node in alternative: %v", elem.ty)
		}
		i++

		if i < len(children) {
			switch children[i].ty {
			case astTypeOptional:
				symName = c.makeOptional(symName)
				i++
			case astTypeStar:
				symName = c.makeStar(symName)
				i++
			case astTypePlus:
				symName = c.makePlus(symName)
				i++
			}
		}
		rhs = append(rhs, symName)
	}
	if len(rhs) == 0 {
		rhs = []string{"ε"}
	}
	return rhs, nil
}

func (c *converter) newHelperName() string {
	name := fmt.Sprintf("$$%d", c.helperCounter)
	c.helperCounter++
	return name
}

// makeOptional rewrites `sym?` as a fresh nonterminal H : sym | ε ;
func (c *converter) makeOptional(sym string) string {
	h := c.newHelperName()
	c.declareNonterminal(h)
	c.alternatives[h] = []grammar.Production{grammar.Prod(sym), grammar.Prod("ε")}
	return h
}

// makeStar rewrites `sym*` as a fresh nonterminal H : sym H | ε ;
func (c *converter) makeStar(sym string) string {
	h := c.newHelperName()
	c.declareNonterminal(h)
	c.alternatives[h] = []grammar.Production{grammar.Prod(sym, h), grammar.Prod("ε")}
	return h
}

// makePlus rewrites `sym+` as a fresh nonterminal H : sym H | sym ;
func (c *converter) makePlus(sym string) string {
	h := c.newHelperName()
	c.declareNonterminal(h)
	c.alternatives[h] = []grammar.Production{grammar.Prod(sym, h), grammar.Prod(sym)}
	return h
}
