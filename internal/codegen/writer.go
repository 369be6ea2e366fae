// Package codegen merges overload groups into variant types and emits
// the Swift source implementing call resolution and dispatch.
package codegen

import (
	"fmt"
	"strings"
)

// writer builds indented source text.
type writer struct {
	b      strings.Builder
	indent int
}

const indentUnit = "    "

func (w *writer) Line(format string, args ...any) {
	if format == "" {
		w.b.WriteByte('\n')
		return
	}
	w.b.WriteString(strings.Repeat(indentUnit, w.indent))
	if len(args) == 0 {
		w.b.WriteString(format)
	} else {
		fmt.Fprintf(&w.b, format, args...)
	}
	w.b.WriteByte('\n')
}

func (w *writer) Blank() {
	w.b.WriteByte('\n')
}

func (w *writer) In() {
	w.indent++
}

func (w *writer) Out() {
	if w.indent > 0 {
		w.indent--
	}
}

func (w *writer) String() string {
	return w.b.String()
}
