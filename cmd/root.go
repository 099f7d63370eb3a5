package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	awsinternal "ssmenv/internal/aws"
	"ssmenv/internal/cli"
	"ssmenv/internal/config"
	"ssmenv/internal/logger"
	"ssmenv/internal/service/common"
	ssmsvc "ssmenv/internal/service/ssm"
	"syscall"

	"github.com/spf13/cobra"
)

// AppName はコマンド名
const AppName = "ssmenv"

// flagCfg はコマンドラインフラグで指定された設定（未指定はゼロ値）
var flagCfg config.Config

// PersistentPreRunEで確定する実行時の設定とロガー
var (
	cfg       *config.Config
	appLogger = logger.Nop()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   AppName,
	Short: "Parameter Storeから環境設定を組み立てるCLI",
	Long: `AWS Systems Manager Parameter Storeの階層化されたパラメータを解決し、
静的な環境設定とマージしてプロビジョニング処理に渡すためのCLIです。

複数のパスを指定した場合は後ろのパスの値が優先されます。`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// ヘルプ・バージョン表示の場合はスキップ
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		return initConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&flagCfg.Region, "region", "R", "", "AWSリージョン（デフォルト: "+config.DefaultRegion+"）")
	flags.StringVarP(&flagCfg.Profile, "profile", "P", "", "AWSプロファイル")
	flags.DurationVar(&flagCfg.Timeout, "timeout", 0, "Parameter Storeへの問い合わせ全体のタイムアウト（デフォルト: 30s）")
	flags.IntVar(&flagCfg.Concurrency, "concurrency", 0, "複数パスを同時に取得する数（デフォルト: 1）")
	flags.Int32Var(&flagCfg.PageSize, "page-size", 0, "1リクエストあたりの取得件数 1〜10（デフォルト: 10）")
	flags.IntVar(&flagCfg.MaxAttempts, "max-attempts", 0, "APIリクエストの最大試行回数（デフォルト: 3）")
	flags.StringVar(&flagCfg.LogLevel, "log-level", "", "ログレベル debug/info/warn/error（デフォルト: info）")
	flags.StringVar(&flagCfg.LogFormat, "log-format", "", "ログ形式 console/json（デフォルト: console）")
}

// initConfig はフラグと環境変数から設定を確定し、ロガーを初期化する
func initConfig(cmd *cobra.Command) error {
	c, err := config.Load(flagCfg)
	if err != nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("❌ 設定の読み込みに失敗しました: %w", err)
	}

	l, err := logger.New(c.LogLevel, c.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("❌ ロガーの初期化に失敗しました: %w", err)
	}

	cfg, appLogger = c, l
	cmd.SetContext(l.WithContext(cmd.Context()))
	if flagCfg.Profile == "" && c.Profile != "" {
		cmd.PrintErrf("%s 環境変数 AWS_PROFILE の値 '%s' を使用します\n", common.SearchIcon, c.Profile)
	}
	return nil
}

// loadAwsClients は確定した設定からAWSクライアントを準備する
func loadAwsClients(ctx context.Context) (*awsinternal.Clients, error) {
	if cfg == nil {
		return nil, errors.New("設定が初期化されていません")
	}
	awsCtx := &awsinternal.Context{
		Profile:     cfg.Profile,
		Region:      cfg.Region,
		MaxAttempts: cfg.MaxAttempts,
	}
	clients, err := awsinternal.NewAwsClients(ctx, awsCtx)
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗: %w", err)
	}
	appLogger.Debug().Str("profile", cfg.Profile).Str("region", clients.Region()).Msg("AWS設定を読み込みました")
	return clients, nil
}

// newResolver は設定に従ったResolverを作成する
func newResolver(clients *awsinternal.Clients) *ssmsvc.Resolver {
	return ssmsvc.NewResolver(clients.Ssm(),
		ssmsvc.WithPageSize(cfg.PageSize),
		ssmsvc.WithConcurrency(cfg.Concurrency),
		ssmsvc.WithLogger(appLogger.WithComponent("resolver")),
	)
}

// lazyResolver は最初の解決時にAWS設定を読み込む
// 認証設定の読み込み失敗も解決の失敗として扱われる
type lazyResolver struct{}

func (lazyResolver) FetchByMultiplePaths(ctx context.Context, paths []string) (map[string]string, error) {
	clients, err := loadAwsClients(ctx)
	if err != nil {
		return nil, err
	}
	return newResolver(clients).FetchByMultiplePaths(ctx, paths)
}
