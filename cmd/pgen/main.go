// Command pgen builds an SLR(1) parse table from a grammar description
// and emits it as Go source, or drops into an interactive REPL for
// trying the grammar against sample input.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/iptq/pgen/dsl"
	"github.com/iptq/pgen/emit"
	"github.com/iptq/pgen/grammar"
	"github.com/iptq/pgen/internal/diag"
	"github.com/iptq/pgen/lexer"
	"github.com/iptq/pgen/runtime"
)

const (
	exitSuccess = iota
	exitBuildError
	exitReplError
)

var (
	grammarFile = pflag.StringP("grammar", "g", "", "grammar source file (default: stdin)")
	format      = pflag.String("format", "text", `grammar source format: "text" or "toml"`)
	startSymbol = pflag.StringP("start", "s", "", "start symbol -repl parses from, also used as the grammar's start symbol when it declares none (default: the grammar's first declared start symbol)")
	outFile     = pflag.StringP("out", "o", "", "output path for the generated Go source (default: stdout)")
	pkgName     = pflag.String("pkg", "parsetab", "package name for the generated Go source")
	logFile     = pflag.String("log", "", "path to write build diagnostics to (default: no diagnostics)")
	repl        = pflag.Bool("repl", false, "after building the table, read lines from stdin and report accept/reject")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()

	buildID := uuid.New()
	log := diag.Discard
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitBuildError
		}
		defer f.Close()
		log = diag.New(f)
	}
	log.Logf("build %s starting", buildID)

	g, err := loadGrammar()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitBuildError
	}
	if len(g.StartSymbols) == 0 && *startSymbol != "" {
		g.StartSymbols = []string{*startSymbol}
	}

	vg, err := grammar.Validate(g)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitBuildError
	}
	log.Section("symbols", func(w io.Writer) {
		grammar.PrintProductionSet(w, vg.Productions, vg.Symbols)
	})

	tab, err := grammar.BuildFrom(vg)
	if err != nil {
		if cerr, ok := err.(*grammar.ConflictsError); ok {
			for _, c := range cerr.Conflicts {
				fmt.Fprintln(os.Stderr, c)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitBuildError
	}
	log.Section("table", func(w io.Writer) {
		grammar.PrintTable(w, tab.Parse, tab.Symbols)
	})
	log.Logf("build %s produced %d states", buildID, tab.Parse.NumStates())

	start := *startSymbol
	if start == "" {
		start = g.StartSymbols[0]
	}

	if *repl {
		return runREPL(tab, start)
	}
	return writeTable(tab)
}

func loadGrammar() (grammar.Grammar, error) {
	switch *format {
	case "toml":
		if *grammarFile == "" {
			return grammar.Grammar{}, fmt.Errorf("pgen: -format=toml requires -grammar FILE")
		}
		return dsl.LoadFile(*grammarFile)
	case "text":
		if *grammarFile == "" {
			return dsl.ParseText(os.Stdin)
		}
		f, err := os.Open(*grammarFile)
		if err != nil {
			return grammar.Grammar{}, err
		}
		defer f.Close()
		return dsl.ParseText(f)
	default:
		return grammar.Grammar{}, fmt.Errorf("pgen: unknown -format %q", *format)
	}
}

func writeTable(tab *grammar.Table) int {
	out := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitBuildError
		}
		defer f.Close()
		out = f
	}
	if err := emit.Go(out, tab, *pkgName); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitBuildError
	}
	return exitSuccess
}

func runREPL(tab *grammar.Table, start string) int {
	var patterns []lexer.Pattern
	for _, sym := range tab.Symbols.OrderedTerminals() {
		patterns = append(patterns, lexer.Pattern{Terminal: sym, Regex: tab.Patterns[sym]})
	}
	lx, err := lexer.New(patterns)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitReplError
	}

	rl, err := readline.New("pgen> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitReplError
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on ^D, readline.ErrInterrupt on ^C
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		toks, err := lx.Tokenize([]byte(line))
		if err != nil {
			fmt.Println("lex error:", err)
			continue
		}
		res, err := runtime.Run(tab, start, toks)
		if err != nil {
			fmt.Println("reject:", err)
			continue
		}
		fmt.Printf("accept (%d reductions)\n", len(res.Reductions))
	}
	return exitSuccess
}
