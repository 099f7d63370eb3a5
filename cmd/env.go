package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"ssmenv/internal/cli"
	"ssmenv/internal/service/common"
	"ssmenv/internal/service/env"
	"strings"

	"github.com/spf13/cobra"
)

var (
	envOutputFormat string
	envOnlyPatterns []string
	envParamsOnly   bool
)

// EnvCmd represents the env command
var EnvCmd = &cobra.Command{
	Use:   "env",
	Short: "環境設定の組み立てコマンド",
	Long: `Parameter Storeのパラメータと静的設定ファイルから環境設定を組み立てるコマンド群です。

パラメータ名の最後の / 以降がキーになります（例: /app/sandbox/db/host → host）。
パラメータの解決に失敗した場合はエラーをログに出力し、静的設定のみで処理を続行します。`,
}

var envResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "解決した環境設定を表示",
	Long: `パラメータを解決し、静的設定とマージした結果を表示します。

出力形式: ` + strings.Join(env.Formats, ", ") + `

例:
  ` + AppName + ` env resolve -p /app/base -p /app/sandbox
  ` + AppName + ` env resolve -p /app/sandbox -o json --only 'DB_*'
  ` + AppName + ` env resolve --static static.yaml -o export`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := provision(cmd)
		if err != nil {
			return err
		}

		out := res.Env
		if envParamsOnly {
			out = res.Parameters
		}
		if err := env.Render(cmd.OutOrStdout(), out, envOutputFormat); err != nil {
			return fmt.Errorf("❌ 出力に失敗しました: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

var envExecCmd = &cobra.Command{
	Use:   "exec -- <command> [args...]",
	Short: "解決した環境設定を渡してコマンドを実行",
	Long: `パラメータを解決し、静的設定とマージした結果を環境変数に追加してコマンドを実行します。
解決に失敗した場合も静的設定のみでコマンドを実行します。

例:
  ` + AppName + ` env exec -p /app/sandbox -- cdk deploy
  ` + AppName + ` env exec --static static.yaml -- ./provision.sh`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := provision(cmd)
		if err != nil {
			return err
		}

		err = cli.ExecuteWithEnv(cmd.Context(), args[0], args[1:], res.Env)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// 子プロセスのエラー出力はそのまま表示済みのため、終了コードだけを引き継ぐ
			cmd.SilenceErrors = true
		}
		return err
	},
	SilenceUsage: true,
}

var envShowCmd = &cobra.Command{
	Use:   "show",
	Short: "環境変数の現在値を表示",
	Long: `` + AppName + `が参照する環境変数の現在値を表示します。

例:
  ` + AppName + ` env show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env.ShowAllVariables(cmd.OutOrStdout(), os.Getenv)
		return nil
	},
}

// provision は静的設定を読み込み、パラメータを解決した結果を返す
// 解決の失敗はProvision内でログ出力され、エラーにはならない
func provision(cmd *cobra.Command) (env.Result, error) {
	settings, err := env.LoadSettings(cfg.StaticFile)
	if err != nil {
		return env.Result{}, fmt.Errorf("❌ %w", err)
	}

	filter, err := common.NewMatcher(envOnlyPatterns)
	if err != nil {
		return env.Result{}, fmt.Errorf("❌ --only の指定が不正です: %w", err)
	}

	paths := cfg.Paths
	if len(paths) == 0 {
		paths = settings.Paths
	}

	plan := env.Plan{
		Paths:   paths,
		Static:  settings.StaticEnv(),
		Filter:  filter,
		Timeout: cfg.Timeout,
	}
	res := env.Provision(cmd.Context(), lazyResolver{}, plan, appLogger.WithComponent("provision"))
	if res.Err != nil {
		cmd.PrintErrf("%s  パラメータを解決できなかったため、静的設定のみを使用します\n", common.WarningIcon)
	}
	return res, nil
}

func init() {
	RootCmd.AddCommand(EnvCmd)
	EnvCmd.AddCommand(envResolveCmd)
	EnvCmd.AddCommand(envExecCmd)
	EnvCmd.AddCommand(envShowCmd)

	// resolve / exec 共通のフラグ
	EnvCmd.PersistentFlags().StringSliceVarP(&flagCfg.Paths, "path", "p", nil, "解決するパス（複数指定可、後ろが優先）")
	EnvCmd.PersistentFlags().StringVar(&flagCfg.StaticFile, "static", "", "静的設定ファイル（YAML）")
	EnvCmd.PersistentFlags().StringSliceVar(&envOnlyPatterns, "only", nil, "解決したキーをglobパターンで絞り込む（複数指定可）")

	// resolve のフラグ
	envResolveCmd.Flags().StringVarP(&envOutputFormat, "output", "o", env.FormatDotenv, "出力形式")
	envResolveCmd.Flags().BoolVar(&envParamsOnly, "params-only", false, "静的設定を含めず、解決したパラメータのみを出力")
}
