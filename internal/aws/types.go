package aws

import "github.com/aws/aws-sdk-go-v2/aws"

// Context は認証情報とSDKの挙動に関する設定を保持
type Context struct {
	Profile     string
	Region      string
	MaxAttempts int // SDK標準リトライの最大試行回数（0ならSDKのデフォルト）
	config      *aws.Config
}
