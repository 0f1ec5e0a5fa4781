package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sizegen/internal/source"
)

// RenderOpts configures human-readable rendering of diagnostics.
type RenderOpts struct {
	Color     bool
	ShowNotes bool
	PathMode  string // "absolute", "relative", "basename" or "" for as-is
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	gutterColor  = color.New(color.FgBlue)
)

// Render writes diagnostics in a human-readable form:
//
//	<path>:<line>:<col>: <SEV> [<CODE>]: <message>
//	    3 | cache: Vec<u8>
//	      | ^~~~~
//
// followed by notes when requested. The bag should be sorted beforehand.
func Render(w io.Writer, bag *Bag, fs *source.FileSet, opts RenderOpts) {
	if bag == nil || fs == nil {
		return
	}
	for i := range bag.Items() {
		d := &bag.Items()[i]
		renderOne(w, d, fs, opts)
	}
}

func renderOne(w io.Writer, d *Diagnostic, fs *source.FileSet, opts RenderOpts) {
	loc, ok := resolveSpan(fs, d.Primary)
	sev := severityText(d.Severity, opts.Color)
	if !ok {
		fmt.Fprintf(w, "%s [%s]: %s\n", sev, d.Code.ID(), d.Message)
		return
	}

	path := loc.Path
	if opts.PathMode != "" && opts.PathMode != "relative" {
		path = fs.Get(d.Primary.File).FormatPath(opts.PathMode, fs.BaseDir())
	}
	fmt.Fprintf(w, "%s:%d:%d: %s [%s]: %s\n", path, loc.Line, loc.Column, sev, d.Code.ID(), d.Message)
	renderContext(w, fs, d.Primary, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nloc, nok := resolveSpan(fs, n.Span)
			if !nok {
				fmt.Fprintf(w, "  note: %s\n", n.Msg)
				continue
			}
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", nloc.Path, nloc.Line, nloc.Column, n.Msg)
		}
	}
}

func renderContext(w io.Writer, fs *source.FileSet, span source.Span, opts RenderOpts) {
	if span.Empty() && span.Start == 0 {
		return
	}
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)
	lineText := file.GetLine(start.Line)
	if lineText == "" {
		return
	}

	gutter := fmt.Sprintf("%5d | ", start.Line)
	blank := strings.Repeat(" ", 5) + " | "
	if opts.Color {
		gutter = gutterColor.Sprint(gutter)
		blank = gutterColor.Sprint(blank)
	}
	fmt.Fprintf(w, "%s%s\n", gutter, lineText)

	// Underline the span within the line. Display width matters for
	// non-ASCII field names, hence runewidth rather than byte counts.
	col := int(start.Col)
	if col < 1 {
		col = 1
	}
	prefix := lineText
	if col-1 < len(lineText) {
		prefix = lineText[:col-1]
	}
	pad := runewidth.StringWidth(prefix)

	underLen := 1
	if start.Line == end.Line && int(end.Col) > col {
		seg := lineText
		if int(end.Col)-1 <= len(lineText) {
			seg = lineText[col-1 : end.Col-1]
		} else if col-1 <= len(lineText) {
			seg = lineText[col-1:]
		}
		underLen = runewidth.StringWidth(seg)
	}
	if underLen < 1 {
		underLen = 1
	}

	marker := "^" + strings.Repeat("~", underLen-1)
	if opts.Color {
		marker = errorColor.Sprint(marker)
	}
	fmt.Fprintf(w, "%s%s%s\n", blank, strings.Repeat(" ", pad), marker)
}

func severityText(sev Severity, colored bool) string {
	label := sev.String()
	if !colored {
		return label
	}
	switch sev {
	case SevError:
		return errorColor.Sprint(label)
	case SevWarning:
		return warningColor.Sprint(label)
	default:
		return infoColor.Sprint(label)
	}
}
