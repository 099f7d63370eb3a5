package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Clients はAWS設定とサービスクライアントを管理
type Clients struct {
	cfg aws.Config

	ssm *ssm.Client
}

// NewAwsClients は認証情報からAWS設定を読み込んでクライアント管理構造体を作成
func NewAwsClients(ctx context.Context, awsCtx *Context) (*Clients, error) {
	cfg, err := awsCtx.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &Clients{cfg: cfg}, nil
}

// NewClientsFromConfig は読み込み済みの設定からクライアント管理構造体を作成
func NewClientsFromConfig(cfg aws.Config) *Clients {
	return &Clients{cfg: cfg}
}

// Region は解決済みのリージョンを返す
func (c *Clients) Region() string {
	return c.cfg.Region
}

// Ssm は遅延初期化でSSMクライアントを取得
func (c *Clients) Ssm() *ssm.Client {
	if c.ssm == nil {
		c.ssm = ssm.NewFromConfig(c.cfg)
	}
	return c.ssm
}
