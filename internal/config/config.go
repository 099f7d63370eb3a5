// Package config はssmenvの実行設定を環境変数とコマンドラインフラグから組み立てる
package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// DefaultRegion はリージョンが一切指定されていない場合に使うリージョン
const DefaultRegion = "ap-northeast-1"

// Parameter Storeの GetParametersByPath が受け付けるページサイズの上限
const maxPageSize = 10

// Config はssmenv全体の設定
type Config struct {
	Profile     string        `env:"AWS_PROFILE"`
	Region      string        `env:"AWS_REGION"`
	Paths       []string      `env:"SSMENV_PATHS" envSeparator:","`
	StaticFile  string        `env:"SSMENV_STATIC_FILE"`
	Timeout     time.Duration `env:"SSMENV_TIMEOUT" envDefault:"30s"`
	Concurrency int           `env:"SSMENV_CONCURRENCY" envDefault:"1"`
	PageSize    int32         `env:"SSMENV_PAGE_SIZE" envDefault:"10"`
	MaxAttempts int           `env:"SSMENV_MAX_ATTEMPTS" envDefault:"3"`
	LogLevel    string        `env:"SSMENV_LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"SSMENV_LOG_FORMAT" envDefault:"console"`
}

// Load は環境変数から設定を読み込み、flagsで指定された値を優先してマージする
// flagsのゼロ値フィールドは「未指定」として扱われる
func Load(flags Config) (*Config, error) {
	envCfg := Config{}
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("環境変数からの設定読み込みに失敗: %w", err)
	}

	cfg := flags
	if err := mergo.Merge(&cfg, envCfg); err != nil {
		return nil, fmt.Errorf("設定のマージに失敗: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値の範囲をチェックする
func (c *Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeoutは正の値を指定してください: %s", c.Timeout))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrencyは1以上を指定してください: %d", c.Concurrency))
	}
	if c.PageSize < 1 || c.PageSize > maxPageSize {
		errs = append(errs, fmt.Errorf("page-sizeは1〜%dで指定してください: %d", maxPageSize, c.PageSize))
	}
	if c.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("max-attemptsは0以上を指定してください: %d", c.MaxAttempts))
	}
	return errors.Join(errs...)
}
