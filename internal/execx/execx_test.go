package execx

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestOSRunner_ExitCodes(t *testing.T) {
	skipWithoutShell(t)
	r := OSRunner{}

	res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 0")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))

	res, err = r.Run(context.Background(), "sh", "-c", "exit 3")
	require.NoError(t, err, "nonzero exit is not a run error")
	assert.Equal(t, 3, res.ExitCode)
}

func TestOSRunner_StartFailure(t *testing.T) {
	_, err := OSRunner{}.Run(context.Background(), "/nonexistent/leakgate-test-binary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestOSRunner_ContextDeadline(t *testing.T) {
	skipWithoutShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := OSRunner{}.Run(ctx, "sh", "-c", "exec sleep 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
