package grammar

import "testing"

// mustValidate runs Validate and fails the test immediately on error,
// so individual test bodies can stay focused on the behavior under test.
func mustValidate(t *testing.T, g Grammar) *ValidatedGrammar {
	t.Helper()
	vg, err := Validate(g)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	return vg
}

// mustBuildFrom runs BuildFrom and fails the test immediately on error.
func mustBuildFrom(t *testing.T, vg *ValidatedGrammar) *Table {
	t.Helper()
	tab, err := BuildFrom(vg)
	if err != nil {
		t.Fatalf("BuildFrom failed: %v", err)
	}
	return tab
}

// symOf resolves a declared name to its Symbol, failing the test if the
// name was never registered.
func symOf(t *testing.T, symTab *SymbolTable, name string) Symbol {
	t.Helper()
	sym, ok := symTab.ToSymbol(name)
	if !ok {
		t.Fatalf("symbol %q was not found", name)
	}
	return sym
}

// findProd locates the single production for lhs whose rhs (by name)
// matches wantRHS, failing the test if zero or more than one match.
func findProd(t *testing.T, vg *ValidatedGrammar, lhsName string, wantRHS ...string) *resolvedProduction {
	t.Helper()
	lhs := symOf(t, vg.Symbols, lhsName)

	var match *resolvedProduction
	for _, p := range vg.Productions.findByLHS(lhs) {
		if rhsNamesEqual(vg.Symbols, p.rhs, wantRHS) {
			if match != nil {
				t.Fatalf("more than one production %s -> %v", lhsName, wantRHS)
			}
			match = p
		}
	}
	if match == nil {
		t.Fatalf("no production %s -> %v", lhsName, wantRHS)
	}
	return match
}

func rhsNamesEqual(symTab *SymbolTable, rhs []Symbol, names []string) bool {
	if len(rhs) != len(names) {
		return false
	}
	for i, sym := range rhs {
		if symTab.ToText(sym) != names[i] {
			return false
		}
	}
	return true
}
