package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

func TestSimulator(t *testing.T) {
	root := t.TempDir()

	out, err := Simulator{ExpectBlock: true}.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, scan.Findings, out.Signal)
	assert.Equal(t, 1, out.ExitCode)
	assert.Equal(t, EngineSimulation, out.Engine)
	require.Len(t, out.Findings, 1)
	assert.Equal(t, scan.Finding{
		RuleID:      "telegram-bot-api-token",
		Description: "Telegram Bot Token",
		File:        filepath.Join(root, "config.py"),
		StartLine:   2,
		Secret:      "7341852096:AAF3zKpL8mNqR2tVxW0yZ1dCeJ4gHiUoPs6",
		Entropy:     4.418,
	}, out.Findings[0])

	out, err = Simulator{}.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, scan.Clean, out.Signal)
	assert.Empty(t, out.Findings)
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulator{ExpectBlock: true}.Scan(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
