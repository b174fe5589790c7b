package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/leakgate/internal/gate"
	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

const telegramToken = "7341852096:AAF3zKpL8mNqR2tVxW0yZ1dCeJ4gHiUoPs6"

func scanRoot() string {
	return filepath.Join(string(filepath.Separator), "tmp", "leakgate-staged")
}

func blockedVerdict() gate.Verdict {
	root := scanRoot()
	return gate.Verdict{
		Decision: gate.Blocked,
		Findings: []scan.Finding{
			{
				RuleID:      "telegram-bot-api-token",
				Description: "Telegram Bot Token",
				File:        filepath.Join(root, "config.py"),
				StartLine:   2,
				Secret:      telegramToken,
				Entropy:     4.418,
			},
			{
				File:   filepath.Join(string(filepath.Separator), "elsewhere", ".env"),
				Secret: "short",
			},
		},
	}
}

func TestRender_Blocked(t *testing.T) {
	out := New(nil).Render(blockedVerdict(), scanRoot())

	assert.Contains(t, out, "Secrets detected")
	assert.Contains(t, out, "[1] ✖ config.py:2")
	assert.Contains(t, out, "Rule        : telegram-bot-api-token")
	assert.Contains(t, out, "Description : Telegram Bot Token")
	assert.Contains(t, out, "Secret      : "+Mask(telegramToken))
	assert.Contains(t, out, "Entropy     : 4.418")
	assert.Contains(t, out, "COMMIT REJECTED")

	// second finding: outside the root, every missing field spelled out
	assert.Contains(t, out, "[2] ✖ "+filepath.Join(string(filepath.Separator), "elsewhere", ".env")+":unknown")
	assert.Contains(t, out, "Rule        : unknown")
	assert.Contains(t, out, "Description : unknown")
	assert.Contains(t, out, "Secret      : ****")
	assert.Contains(t, out, "Entropy     : 0.000")
}

func TestRender_NeverLeaksSecret(t *testing.T) {
	out := New(nil).Render(blockedVerdict(), scanRoot())
	assert.False(t, containsRunOf(out, telegramToken, 5))
}

func TestRender_Allowed(t *testing.T) {
	out := New(nil).Render(gate.Verdict{Decision: gate.Allowed}, scanRoot())
	assert.Contains(t, out, "No secrets found. Commit allowed.")
	assert.NotContains(t, out, "Secrets detected")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestRender_BlockedWithoutDetails(t *testing.T) {
	out := New(nil).Render(gate.Verdict{Decision: gate.Blocked}, scanRoot())
	assert.Contains(t, out, "no readable details")
	assert.Contains(t, out, "COMMIT REJECTED")
}

func TestRender_Idempotent(t *testing.T) {
	r := New(PlainStyle{})
	v := blockedVerdict()
	assert.Equal(t, r.Render(v, scanRoot()), r.Render(v, scanRoot()))

	color := New(NewColorStyle(&strings.Builder{}, true))
	assert.Equal(t, color.Render(v, scanRoot()), color.Render(v, scanRoot()))
}

func TestRender_GarbledPath(t *testing.T) {
	root := scanRoot()
	v := gate.Verdict{
		Decision: gate.Blocked,
		Findings: []scan.Finding{{
			RuleID:    "generic-api-key\x1b[2J",
			File:      filepath.Join(root, "evil\x1b]0;pwned\x07\xff.txt"),
			StartLine: 1,
			Secret:    "abcdefghijkl",
		}},
	}
	out := New(nil).Render(v, root)
	assert.NotContains(t, out, "\x1b")
	assert.NotContains(t, out, "\x07")
	assert.Contains(t, out, "evil?]0;pwned??.txt:1")
	assert.Contains(t, out, "generic-api-key?[2J")
}

func TestRender_ColorAddsOnlyEscapes(t *testing.T) {
	v := blockedVerdict()
	plain := New(PlainStyle{}).Render(v, scanRoot())
	colored := New(NewColorStyle(&strings.Builder{}, true)).Render(v, scanRoot())
	assert.NotEqual(t, plain, colored)
	assert.Equal(t, plain, stripANSI(colored))
}

func TestNoticeAndConfirm(t *testing.T) {
	r := New(nil)
	assert.Equal(t, "⚠  simulated scan\n", r.Notice("simulated scan"))
	assert.Equal(t, "✔  done\n", r.Confirm("done"))
}

func TestStyleFor(t *testing.T) {
	var buf strings.Builder
	assert.IsType(t, PlainStyle{}, StyleFor("never", &buf))
	assert.IsType(t, ColorStyle{}, StyleFor("always", &buf))
	assert.IsType(t, PlainStyle{}, StyleFor("auto", &buf))
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && !(s[j] >= 0x40 && s[j] <= 0x7e) {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
