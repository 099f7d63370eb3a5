package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAwsConfig は認証情報からAWS設定を読み込む
// 認証情報は共有設定・環境変数・IMDSなどの標準チェーンから解決される
func LoadAwsConfig(ctx context.Context, awsCtx Context) (aws.Config, error) {
	opts := make([]func(*config.LoadOptions) error, 0, 3)

	if awsCtx.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(awsCtx.Profile))
	}
	if awsCtx.Region != "" {
		opts = append(opts, config.WithRegion(awsCtx.Region))
	}
	if awsCtx.MaxAttempts > 0 {
		opts = append(opts, config.WithRetryMaxAttempts(awsCtx.MaxAttempts))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

// GetConfig は遅延初期化でAWS設定を取得（初回のみ認証処理実行）
func (c *Context) GetConfig(ctx context.Context) (aws.Config, error) {
	if c.config == nil {
		cfg, err := LoadAwsConfig(ctx, *c)
		if err != nil {
			return aws.Config{}, err
		}
		c.config = &cfg
	}
	return *c.config, nil
}
