// ABOUTME: Styled diagnostic printing for the CLI using lipgloss.
// ABOUTME: Renders "file:line:col: KIND: message" with the kind colored by severity.
package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/frond-lang/frond/matcher"
)

var (
	kindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	locStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// diagnosticPrinter writes diagnostics to an output stream, optionally
// without styling for redirected output or -no-color.
type diagnosticPrinter struct {
	out   io.Writer
	plain bool
}

func newDiagnosticPrinter(out io.Writer, plain bool) *diagnosticPrinter {
	return &diagnosticPrinter{out: out, plain: plain}
}

// print writes one diagnostic line.
func (p *diagnosticPrinter) print(d matcher.Diagnostic) {
	if p.plain {
		fmt.Fprintf(p.out, "%s: %s: %s\n", d.Loc, d.Kind, d.Message)
		return
	}
	fmt.Fprintf(p.out, "%s %s %s\n",
		locStyle.Render(d.Loc.String()+":"),
		kindStyle.Render(d.Kind.String()+":"),
		d.Message,
	)
}
