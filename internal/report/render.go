package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/leakgate/internal/gate"
	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

// Unknown stands in for any finding field the engine did not report.
const Unknown = "unknown"

const (
	ruleWidth = 60
	boxWidth  = 58
)

// Renderer turns verdicts into report text. The zero value renders plain
// text.
type Renderer struct {
	Style Styler
}

// New returns a renderer using style, or plain text when style is nil.
func New(style Styler) *Renderer {
	return &Renderer{Style: style}
}

func (r *Renderer) style() Styler {
	if r == nil || r.Style == nil {
		return PlainStyle{}
	}
	return r.Style
}

// Render produces the report for v. File paths are shown relative to root
// when they lie under it. The output depends only on v, root and the
// style, so rendering the same verdict twice gives identical text.
func (r *Renderer) Render(v gate.Verdict, root string) string {
	s := r.style()
	var b strings.Builder

	if !v.Blocked() {
		writeBox(&b, s.Success, "✔  No secrets found. Commit allowed.")
		return b.String()
	}

	writeBanner(&b, s.Danger, "Secrets detected")
	if len(v.Findings) == 0 {
		b.WriteString("  " + s.Warning("The scan engine reported secrets but returned no readable details.") + "\n\n")
	}
	for i, f := range v.Findings {
		writeFinding(&b, s, i+1, f, root)
	}
	writeBox(&b, s.Danger, "✖  COMMIT REJECTED: potential secrets found!")
	return b.String()
}

// Notice renders a one-line advisory such as the simulation warning or the
// disabled-gate confirmation.
func (r *Renderer) Notice(msg string) string {
	return r.style().Warning("⚠  "+sanitize(msg)) + "\n"
}

// Confirm renders a one-line success confirmation.
func (r *Renderer) Confirm(msg string) string {
	return r.style().Success("✔  "+sanitize(msg)) + "\n"
}

func writeFinding(b *strings.Builder, s Styler, index int, f scan.Finding, root string) {
	path := sanitize(f.RelPath(root))
	if path == "" {
		path = Unknown
	}
	line := Unknown
	if f.HasLine() {
		line = strconv.Itoa(f.StartLine)
	}

	fmt.Fprintf(b, "  %s %s %s\n", s.Emphasis(fmt.Sprintf("[%d]", index)), s.Danger("✖"), s.Emphasis(path+":"+line))
	fmt.Fprintf(b, "       Rule        : %s\n", orUnknown(f.RuleID))
	fmt.Fprintf(b, "       Description : %s\n", orUnknown(f.Description))
	fmt.Fprintf(b, "       Secret      : %s\n", s.Danger(sanitize(Mask(f.Secret))))
	fmt.Fprintf(b, "       Entropy     : %.3f\n", f.Entropy)
	b.WriteString("\n")
}

func orUnknown(s string) string {
	s = strings.TrimSpace(sanitize(s))
	if s == "" {
		return Unknown
	}
	return s
}

func writeBanner(b *strings.Builder, paint func(string) string, title string) {
	line := strings.Repeat("─", ruleWidth)
	b.WriteString("\n")
	b.WriteString(paint(line) + "\n")
	b.WriteString(paint("  "+title) + "\n")
	b.WriteString(paint(line) + "\n\n")
}

func writeBox(b *strings.Builder, paint func(string) string, text string) {
	inner := "  " + text
	if pad := boxWidth - utf8.RuneCountInString(inner); pad > 0 {
		inner += strings.Repeat(" ", pad)
	}
	b.WriteString(paint("╔"+strings.Repeat("═", boxWidth)+"╗") + "\n")
	b.WriteString(paint("║"+inner+"║") + "\n")
	b.WriteString(paint("╚"+strings.Repeat("═", boxWidth)+"╝") + "\n")
}
