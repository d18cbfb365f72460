package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

// Pretty renders diagnostics for humans. It walks bag.Items() in order (call
// bag.Sort() first) and prints for every diagnostic
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a caret under the primary span, then notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.Bold)
	codeColor := color.New(color.FgHiBlack)
	caretColor := color.New(color.FgGreen, color.Bold)
	for _, c := range []*color.Color{errColor, warnColor, infoColor, pathColor, codeColor, caretColor} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, d := range bag.Items() {
		if d.Severity == diag.SevInfo && !opts.ShowInfo {
			continue
		}
		file := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)

		var sev *color.Color
		switch d.Severity {
		case diag.SevError:
			sev = errColor
		case diag.SevWarning:
			sev = warnColor
		default:
			sev = infoColor
		}

		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pathColor.Sprintf("%s:%d:%d", formatPath(file, fs, opts.PathMode), start.Line, start.Col),
			sev.Sprint(d.Severity.String()),
			codeColor.Sprint(d.Code.ID()),
			d.Message,
		)

		if opts.Context > 0 && len(file.Content) > 0 {
			writeContext(w, file, start, d.Primary.Len(), caretColor)
		}

		if opts.ShowNotes {
			for _, n := range d.Notes {
				ns, _ := fs.Resolve(n.Span)
				nf := fs.Get(n.Span.File)
				fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
			}
		}
	}
}

// writeContext prints the offending line and a caret run under the span. The
// caret is indented by the display width of the text before the column so
// wide runes and tabs line up.
func writeContext(w io.Writer, file *source.File, at source.LineCol, spanLen uint32, caret *color.Color) {
	line := file.GetLine(at.Line)
	if line == "" && at.Col <= 1 {
		return
	}
	gutter := fmt.Sprintf("%d", at.Line)
	fmt.Fprintf(w, " %s | %s\n", gutter, expandTabs(line))

	prefixEnd := min(int(at.Col-1), len(line))
	pad := runewidth.StringWidth(expandTabs(line[:prefixEnd]))
	width := max(int(spanLen), 1)
	fmt.Fprintf(w, " %s | %s%s\n",
		strings.Repeat(" ", len(gutter)),
		strings.Repeat(" ", pad),
		caret.Sprint("^"+strings.Repeat("~", width-1)),
	)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
