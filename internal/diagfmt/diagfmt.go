// Package diagfmt renders diagnostics for the terminal.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
)

type PrettyOpts struct {
	Color bool
	// Context prints the offending source line with a caret run.
	Context bool
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	noteColor    = color.New(color.FgHiBlack)
)

// Pretty writes one block per diagnostic:
//
//	<path>:<line>:<col>: <SEVERITY> <CODE>: <message>
//	    <source line>
//	    ^~~~
//
// followed by any notes. The bag should be sorted first.
func Pretty(w io.Writer, bag *diag.Bag, set *source.Set, opts PrettyOpts) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			position(set, d.Primary), severity(d.Severity, opts.Color), d.Code, d.Message)
		if opts.Context {
			writeContext(w, set, d.Primary)
		}
		for _, note := range d.Notes {
			msg := "note: " + note.Msg
			if opts.Color {
				msg = noteColor.Sprint(msg)
			}
			fmt.Fprintf(w, "  %s: %s\n", position(set, note.Span), msg)
			if opts.Context {
				writeContext(w, set, note.Span)
			}
		}
	}
}

// Stats is the one-line run footer, empty when the bag is.
func Stats(bag *diag.Bag) string {
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	switch {
	case errs == 0 && warns == 0:
		return ""
	case errs == 0:
		return fmt.Sprintf("%d warning(s)", warns)
	case warns == 0:
		return fmt.Sprintf("%d error(s)", errs)
	}
	return fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
}

func severity(sev diag.Severity, colored bool) string {
	if !colored {
		return sev.String()
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(sev.String())
	case diag.SevWarning:
		return warningColor.Sprint(sev.String())
	default:
		return infoColor.Sprint(sev.String())
	}
}

// position renders path:line:col, or just the path when the span is
// empty (load failures carry no location).
func position(set *source.Set, span source.Span) string {
	if set == nil || set.Len() == 0 || int(span.File) >= set.Len() {
		return "<unknown>"
	}
	file := set.Get(span.File)
	if span.Empty() && span.Start == 0 {
		return file.Path
	}
	start, _ := set.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

func writeContext(w io.Writer, set *source.Set, span source.Span) {
	if set == nil || int(span.File) >= set.Len() || span.Empty() {
		return
	}
	file := set.Get(span.File)
	start, end := set.Resolve(span)

	line := lineContent(file, start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)

	carets := 1
	if end.Line == start.Line && end.Col > start.Col {
		carets = int(end.Col - start.Col)
	}
	pad := strings.Repeat(" ", int(start.Col-1))
	fmt.Fprintf(w, "    %s^%s\n", pad, strings.Repeat("~", carets-1))
}

func lineContent(file *source.File, line uint32) string {
	if line == 0 {
		return ""
	}
	startOff := uint32(0)
	if line > 1 {
		if int(line-2) >= len(file.LineIdx) {
			return ""
		}
		startOff = file.LineIdx[line-2] + 1
	}
	endOff := uint32(len(file.Content))
	if int(line-1) < len(file.LineIdx) {
		endOff = file.LineIdx[line-1]
	}
	if startOff > endOff {
		return ""
	}
	return strings.TrimRight(string(file.Content[startOff:endOff]), "\n")
}
