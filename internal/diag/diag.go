// Package diag gives the table-construction pipeline and its callers a
// place to log build diagnostics, without the process-wide global the
// original log package used. Every build gets its own *Log, so two
// builds running in the same process (or the same test binary) never
// share output or state.
package diag

import (
	"fmt"
	"io"
)

// Log writes diagnostic lines to an optional sink. A nil sink makes
// every method a no-op, so callers that don't care about diagnostics
// can pass a zero Log around for free.
type Log struct {
	out io.Writer
}

// New returns a Log writing to out. Passing a nil out is valid and
// produces a Log that discards everything.
func New(out io.Writer) *Log {
	return &Log{out: out}
}

// Discard is a Log that drops every line, for callers that have no sink
// configured.
var Discard = New(nil)

// Logf writes one formatted, newline-terminated diagnostic line.
func (l *Log) Logf(format string, args ...interface{}) {
	if l == nil || l.out == nil {
		return
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Section writes a bracketed header line, then runs body, so a caller
// can bracket a chunk of diagnostic output the way cmd/pgen brackets its
// production list and parse table dumps.
func (l *Log) Section(title string, body func(w io.Writer)) {
	if l == nil || l.out == nil {
		return
	}
	fmt.Fprintf(l.out, "--- %s starts\n", title)
	body(l.out)
	fmt.Fprintf(l.out, "--- %s ends\n", title)
}

// Writer exposes the underlying sink for callers (PrintXxx helpers in
// package grammar) that already know how to render directly to an
// io.Writer. Returns nil if there is no sink.
func (l *Log) Writer() io.Writer {
	if l == nil {
		return nil
	}
	return l.out
}
