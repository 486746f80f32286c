package grammar

import "fmt"

// GrammarError is the structural-error taxonomy raised by Validate, before
// any FIRST/FOLLOW or table work happens
type GrammarError struct {
	Kind GrammarErrorKind
	Name string
}

// GrammarErrorKind enumerates the closed set of structural failures.
type GrammarErrorKind uint8

const (
	// NameConflict: a terminal and a nonterminal (or two nonterminals)
	// declare the same name.
	NameConflict GrammarErrorKind = iota
	// InvalidSymbol: a production's rhs refers to a name that resolves
	// to nothing.
	InvalidSymbol
	// StartingTerminal: a declared start symbol resolves to a terminal.
	StartingTerminal
	// EmptyProduction: a production has a zero-length rhs.
	EmptyProduction
	// NoStartSymbols: the grammar declares no start symbols at all.
	NoStartSymbols
)

func (e *GrammarError) Error() string {
	switch e.Kind {
	case NameConflict:
		return fmt.Sprintf("name conflict: %q is declared more than once", e.Name)
	case InvalidSymbol:
		return fmt.Sprintf("invalid symbol: %q is not declared anywhere in the grammar", e.Name)
	case StartingTerminal:
		return fmt.Sprintf("start symbol must be a nonterminal: %q is a terminal", e.Name)
	case EmptyProduction:
		return fmt.Sprintf("production for %q has an empty right-hand side", e.Name)
	case NoStartSymbols:
		return "grammar declares no start symbols"
	default:
		return "unknown grammar error"
	}
}

// ConflictKind distinguishes the two ways an ACTION cell can receive
// incompatible assignments during table synthesis ("semantic"
// errors).
type ConflictKind uint8

const (
	ShiftReduceConflict ConflictKind = iota
	ReduceReduceConflict
)

func (k ConflictKind) String() string {
	if k == ShiftReduceConflict {
		return "shift/reduce"
	}
	return "reduce/reduce"
}

// ConflictError reports one ACTION cell that would have received two
// incompatible assignments. The synthesizer accumulates these rather than
// stopping at the first one, so a caller can see every conflict a grammar
// has in a single report.
type ConflictError struct {
	Kind         ConflictKind
	State        StateNum
	Symbol       Symbol
	ShiftTarget  StateNum     // valid only when Kind == ShiftReduceConflict
	ReduceProds  []ProductionID
}

func (e *ConflictError) Error() string {
	if e.Kind == ShiftReduceConflict {
		return fmt.Sprintf("shift/reduce conflict in state %d on %s: shift to %d vs reduce by production %d",
			e.State, e.Symbol, e.ShiftTarget, e.ReduceProds[0])
	}
	return fmt.Sprintf("reduce/reduce conflict in state %d on %s: productions %v", e.State, e.Symbol, e.ReduceProds)
}

// ConflictsError wraps the full set of conflicts found while synthesizing a
// table. Table synthesis fails with this error rather than one
// ConflictError per failure.
type ConflictsError struct {
	Conflicts []*ConflictError
}

func (e *ConflictsError) Error() string {
	return fmt.Sprintf("grammar is not SLR(1): %d conflict(s), first: %s", len(e.Conflicts), e.Conflicts[0])
}

func (e *ConflictsError) Unwrap() []error {
	errs := make([]error, len(e.Conflicts))
	for i, c := range e.Conflicts {
		errs[i] = c
	}
	return errs
}
