package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"ssmenv/internal/cli"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterTable(t *testing.T) {
	params := []types.Parameter{
		{Name: aws.String("/app/sandbox/db/host"), Value: aws.String("db.local"), Type: types.ParameterTypeString, Version: 3},
		{Name: aws.String("/app/sandbox/empty"), Value: aws.String(""), Type: types.ParameterTypeString, Version: 1},
	}

	ssmShowValues = false
	columns, data := parameterTable(params)
	require.Len(t, columns, 4)
	assert.Equal(t, []string{"host", "/app/sandbox/db/host", "String", "3"}, data[0])
	assert.Equal(t, "(スキップ)", data[1][0])

	ssmShowValues = true
	t.Cleanup(func() { ssmShowValues = false })
	columns, data = parameterTable(params)
	require.Len(t, columns, 5)
	assert.Equal(t, "db.local", data[0][4])
}

func TestLazyResolver_FailsWithoutConfig(t *testing.T) {
	saved := cfg
	cfg = nil
	t.Cleanup(func() { cfg = saved })

	m, err := lazyResolver{}.FetchByMultiplePaths(context.Background(), []string{"/app"})
	assert.Error(t, err)
	assert.Nil(t, m)
}

func TestEnvResolve_StaticOnly(t *testing.T) {
	for _, name := range []string{"AWS_PROFILE", "SSMENV_PATHS", "SSMENV_STATIC_FILE"} {
		t.Setenv(name, "")
	}
	static := filepath.Join(t.TempDir(), "static.yaml")
	require.NoError(t, os.WriteFile(static, []byte("account: \"123456789012\"\nenvironment:\n  STAGE: sandbox\n"), 0o600))

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs([]string{"env", "resolve", "--static", static, "-o", "json", "--log-level", "error"})
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
	})

	require.NoError(t, RootCmd.ExecuteContext(context.Background()))

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, map[string]string{
		"CDK_DEFAULT_ACCOUNT": "123456789012",
		"STAGE":               "sandbox",
	}, got)
}

func TestEnvExec_ChildExitCodeWithoutCobraError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sh が必要")
	}
	for _, name := range []string{"AWS_PROFILE", "SSMENV_PATHS", "SSMENV_STATIC_FILE"} {
		t.Setenv(name, "")
	}
	static := filepath.Join(t.TempDir(), "static.yaml")
	require.NoError(t, os.WriteFile(static, []byte("environment:\n  STAGE: sandbox\n"), 0o600))

	var errOut bytes.Buffer
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs([]string{"env", "exec", "--static", static, "--log-level", "error", "--",
		"sh", "-c", `test "$STAGE" = "sandbox" && exit 3`})
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		RootCmd.SetErr(nil)
		envExecCmd.SilenceErrors = false
	})

	err := RootCmd.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.Equal(t, 3, cli.ExitCode(err))
	assert.NotContains(t, errOut.String(), "Error:")
}
