package env

import (
	"context"
	"ssmenv/internal/service/common"
	"time"
)

// Variable はssmenvが参照する環境変数の情報を表す構造体
type Variable struct {
	Name        string // 環境変数名 (e.g., SSMENV_PATHS)
	Description string // 説明
}

// SupportedVariables はssmenvが参照する環境変数（表示順）
var SupportedVariables = []Variable{
	{Name: "AWS_PROFILE", Description: "プロファイル"},
	{Name: "AWS_REGION", Description: "リージョン"},
	{Name: "SSMENV_PATHS", Description: "解決するパス（カンマ区切り、後ろが優先）"},
	{Name: "SSMENV_STATIC_FILE", Description: "静的設定ファイル"},
	{Name: "SSMENV_TIMEOUT", Description: "解決のタイムアウト"},
	{Name: "SSMENV_CONCURRENCY", Description: "パスの同時取得数"},
	{Name: "SSMENV_PAGE_SIZE", Description: "1ページあたりの取得件数"},
	{Name: "SSMENV_MAX_ATTEMPTS", Description: "APIの最大試行回数"},
	{Name: "SSMENV_LOG_LEVEL", Description: "ログレベル"},
	{Name: "SSMENV_LOG_FORMAT", Description: "ログ形式"},
}

// Settings は静的設定ファイルの内容
type Settings struct {
	Account     string            `yaml:"account"`
	Region      string            `yaml:"region"`
	VpcID       string            `yaml:"vpcId"`
	Paths       []string          `yaml:"paths"`
	Environment map[string]string `yaml:"environment"`
}

// Resolver は複数パスのパラメータを1つのマップに解決する
type Resolver interface {
	FetchByMultiplePaths(ctx context.Context, paths []string) (map[string]string, error)
}

// Plan は1回の環境組み立ての入力
type Plan struct {
	Paths   []string          // 解決するパス（後ろが優先）
	Static  map[string]string // 静的な環境設定（解決結果で上書きされる）
	Filter  *common.Matcher   // 解決したキーの絞り込み（nilなら全件）
	Timeout time.Duration     // 解決全体のタイムアウト（0なら無制限）
}

// Result は環境組み立ての結果
type Result struct {
	Env        map[string]string // 静的設定と解決結果をマージした最終的な環境
	Parameters map[string]string // Parameter Storeから解決できたキー
	Err        error             // 解決に失敗した場合のエラー（ログ出力済み）
}
