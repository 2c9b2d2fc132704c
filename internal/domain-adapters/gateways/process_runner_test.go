package gateways

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not available on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestProcessRunner_Run(t *testing.T) {
	requireShell(t)
	r := NewProcessRunner(10 * time.Second)

	result, err := r.Run(context.Background(), "sh", "-c", "echo 'Google Chrome 115.0.5790.170'")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "Google Chrome 115.0.5790.170\n", result.Stdout)
}

func TestProcessRunner_NonZeroExit(t *testing.T) {
	requireShell(t)
	r := NewProcessRunner(10 * time.Second)

	result, err := r.Run(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, err.Error(), "broken")
}

func TestProcessRunner_MissingProgram(t *testing.T) {
	r := NewProcessRunner(0)

	result, err := r.Run(context.Background(), "/nonexistent/definitely-not-a-browser")
	require.Error(t, err)
	assert.Equal(t, -1, result.ExitCode)
	assert.Contains(t, err.Error(), "can't run")
}

func TestProcessRunner_Timeout(t *testing.T) {
	requireShell(t)
	r := NewProcessRunner(100 * time.Millisecond)

	_, err := r.Run(context.Background(), "sh", "-c", "exec sleep 5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
