package cli

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEnviron(t *testing.T) {
	base := []string{"PATH=/usr/bin", "port=5000", "HOME=/root", "port=dup"}
	env := map[string]string{"port": "5433", "timeout": "30", "host": "db.local"}

	got := BuildEnviron(base, env)

	assert.Equal(t, []string{
		"PATH=/usr/bin",
		"port=5433",
		"HOME=/root",
		"host=db.local",
		"timeout=30",
	}, got)
}

func TestBuildEnviron_EmptyEnvKeepsBase(t *testing.T) {
	base := []string{"A=1", "B=2"}
	assert.Equal(t, base, BuildEnviron(base, nil))
}

func TestExecuteWithEnv_PassesVariables(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sh が必要")
	}

	err := ExecuteWithEnv(context.Background(), "sh", []string{"-c", `test "$SSMENV_TEST_VALUE" = "injected"`},
		map[string]string{"SSMENV_TEST_VALUE": "injected"})
	require.NoError(t, err)

	err = ExecuteWithEnv(context.Background(), "sh", []string{"-c", "exit 3"}, nil)
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("not found")))
	assert.Equal(t, 1, ExitCode(&exec.Error{Name: "missing", Err: exec.ErrNotFound}))
}
