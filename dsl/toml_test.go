package dsl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iptq/pgen/dsl"
	"github.com/iptq/pgen/grammar"
)

const arithTOML = `
start_symbols = ["E"]

[[terminals]]
name = "+"
pattern = '\+'

[[terminals]]
name = "*"
pattern = '\*'

[[terminals]]
name = "id"
pattern = "[a-z]+"

[[productions]]
name = "E"
alternatives = [["E", "+", "T"], ["T"]]

[[productions]]
name = "T"
alternatives = [["T", "*", "id"], ["id"]]
`

func TestLoadFile_roundTripsAnArithmeticGrammar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arith.toml")
	require.NoError(t, os.WriteFile(path, []byte(arithTOML), 0o644))

	g, err := dsl.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"E"}, g.StartSymbols)
	require.Len(t, g.Terminals, 3)
	require.Equal(t, "+", g.Terminals[0].Name)
	require.Equal(t, "*", g.Terminals[1].Name)

	_, err = grammar.Build(g)
	require.NoError(t, err)
}

func TestLoadFile_missingFileFails(t *testing.T) {
	_, err := dsl.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
