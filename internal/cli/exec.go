package cli

import (
	"context"
	"errors"
	"maps"
	"os"
	"os/exec"
	"slices"
	"ssmenv/internal/logger"
	"strings"
)

// ExecuteWithEnv は親プロセスの環境変数にenvを上乗せしてコマンドを実行する
// 標準入出力はそのまま子プロセスに引き継ぐ
func ExecuteWithEnv(ctx context.Context, name string, args []string, env map[string]string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = BuildEnviron(os.Environ(), env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.FromContext(ctx).Debug().
		Str("command", name).
		Strs("args", args).
		Int("variables", len(env)).
		Msg("コマンドを実行")
	return cmd.Run()
}

// BuildEnviron は KEY=VALUE 形式の環境にenvを上書きマージした結果を返す
// baseの順序は保ち、envにしか無いキーは昇順で末尾に追加する
func BuildEnviron(base []string, env map[string]string) []string {
	result := make([]string, 0, len(base)+len(env))
	seen := make(map[string]bool, len(env))

	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if value, ok := env[key]; ok {
			if !seen[key] {
				result = append(result, key+"="+value)
				seen[key] = true
			}
			continue
		}
		result = append(result, kv)
	}

	for _, key := range slices.Sorted(maps.Keys(env)) {
		if !seen[key] {
			result = append(result, key+"="+env[key])
		}
	}
	return result
}

// ExitCode はコマンド実行エラーから子プロセスの終了コードを取り出す
// 子プロセスの終了以外のエラーの場合は1を返す
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
