package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

const openAIKey = "sk-proj-abc123def456ghi789jkl012mno345pqr678stu901xyz"

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEmbeddedScanner_Clean(t *testing.T) {
	s, err := NewEmbeddedScanner(EmbeddedOptions{})
	require.NoError(t, err)

	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {\n\tprintln(\"Hello World\")\n}\n")

	out, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, scan.Clean, out.Signal)
	assert.Equal(t, EngineEmbedded, out.Engine)
}

func TestEmbeddedScanner_DetectsKey(t *testing.T) {
	s, err := NewEmbeddedScanner(EmbeddedOptions{})
	require.NoError(t, err)

	root := t.TempDir()
	path := writeFile(t, root, "src/client.js", "const apiKey = \""+openAIKey+"\"\n")

	out, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, scan.Findings, out.Signal)
	assert.Equal(t, 1, out.ExitCode)
	require.NotEmpty(t, out.Findings)
	assert.Equal(t, path, out.Findings[0].File)
	assert.NotEmpty(t, out.Findings[0].RuleID)
}

func TestEmbeddedScanner_LinesStartAtOne(t *testing.T) {
	s, err := NewEmbeddedScanner(EmbeddedOptions{})
	require.NoError(t, err)

	root := t.TempDir()
	first := writeFile(t, root, "first.js", "const apiKey = \""+openAIKey+"\"\n")
	third := writeFile(t, root, "third.js", "// client\n\nconst apiKey = \""+openAIKey+"\"\n")

	out, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, scan.Findings, out.Signal)

	lines := map[string]int{}
	for _, f := range out.Findings {
		assert.True(t, f.HasLine(), f.File)
		lines[f.File] = f.StartLine
	}
	assert.Equal(t, 1, lines[first])
	assert.Equal(t, 3, lines[third])
}

func TestEmbeddedScanner_Skips(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/config", "const apiKey = \""+openAIKey+"\"\n")
	writeFile(t, root, "testdata/fixture.js", "const apiKey = \""+openAIKey+"\"\n")

	s, err := NewEmbeddedScanner(EmbeddedOptions{
		Allowlist: &Allowlist{Paths: []string{"^testdata/"}},
	})
	require.NoError(t, err)

	out, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, scan.Clean, out.Signal)
}

func TestEmbeddedScanner_CustomConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "gitleaks.toml", `
title = "custom"

[[rules]]
id = "leakgate-test-token"
description = "Leakgate test token"
regex = '''LGT_[A-Z0-9]{20}'''
`)
	s, err := NewEmbeddedScanner(EmbeddedOptions{ConfigPath: cfgPath})
	require.NoError(t, err)

	root := t.TempDir()
	writeFile(t, root, "app.env", "TOKEN=LGT_ABCDEFGHIJ0123456789\n")

	out, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, out.Findings, 1)
	assert.Equal(t, "leakgate-test-token", out.Findings[0].RuleID)
	assert.Equal(t, "LGT_ABCDEFGHIJ0123456789", out.Findings[0].Secret)
}

func TestEmbeddedScanner_BadConfig(t *testing.T) {
	_, err := NewEmbeddedScanner(EmbeddedOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	assert.ErrorIs(t, err, ErrGitleaksConfig)
}
