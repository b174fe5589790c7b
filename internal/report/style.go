package report

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/fyrsmithlabs/leakgate/internal/config"
)

// Styler decorates report fragments. Implementations must not add or drop
// characters other than terminal escape sequences.
type Styler interface {
	Danger(s string) string
	Success(s string) string
	Warning(s string) string
	Emphasis(s string) string
}

// PlainStyle leaves text untouched.
type PlainStyle struct{}

func (PlainStyle) Danger(s string) string   { return s }
func (PlainStyle) Success(s string) string  { return s }
func (PlainStyle) Warning(s string) string  { return s }
func (PlainStyle) Emphasis(s string) string { return s }

// ColorStyle paints fragments with lipgloss.
type ColorStyle struct {
	danger   lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	emphasis lipgloss.Style
}

// NewColorStyle builds a lipgloss style bound to w. force skips terminal
// detection and always emits ANSI colors.
func NewColorStyle(w io.Writer, force bool) ColorStyle {
	r := lipgloss.NewRenderer(w)
	if force {
		r.SetColorProfile(termenv.ANSI)
	}
	return ColorStyle{
		danger:   r.NewStyle().Foreground(lipgloss.Color("9")),
		success:  r.NewStyle().Foreground(lipgloss.Color("10")),
		warning:  r.NewStyle().Foreground(lipgloss.Color("11")),
		emphasis: r.NewStyle().Bold(true),
	}
}

func (c ColorStyle) Danger(s string) string   { return c.danger.Render(s) }
func (c ColorStyle) Success(s string) string  { return c.success.Render(s) }
func (c ColorStyle) Warning(s string) string  { return c.warning.Render(s) }
func (c ColorStyle) Emphasis(s string) string { return c.emphasis.Render(s) }

// StyleFor picks a styler for the report.color mode and output w. In auto
// mode colors are used only when w is a terminal.
func StyleFor(mode string, w io.Writer) Styler {
	switch mode {
	case config.ColorNever:
		return PlainStyle{}
	case config.ColorAlways:
		return NewColorStyle(w, true)
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return NewColorStyle(w, false)
	}
	return PlainStyle{}
}
