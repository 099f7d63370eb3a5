package ssm

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// PutParameterAPI はパラメータ登録に必要なクライアントの振る舞い
type PutParameterAPI interface {
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// DeleteParameterAPI はパラメータ削除に必要なクライアントの振る舞い
type DeleteParameterAPI interface {
	DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error)
}

// PutParamsOptions はパラメータ一括登録のオプション
type PutParamsOptions struct {
	FilePath string
	Prefix   string
	DryRun   bool
	Out      io.Writer // 進捗・結果の出力先（nilなら標準出力）
}

// DeleteParamsOptions はパラメータ一括削除のオプション
type DeleteParamsOptions struct {
	FilePath string
	Prefix   string
	DryRun   bool
	Force    bool
	In       io.Reader // 確認プロンプトの入力元（nilなら標準入力）
	Out      io.Writer
}

// parameter は登録ファイル中の1パラメータ
type parameter struct {
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value" yaml:"value"`
	Type        string `json:"type" yaml:"type"` // String, SecureString, StringList
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// parametersFile はJSON/YAMLファイルの構造を表す
type parametersFile struct {
	Parameters []parameter `json:"parameters" yaml:"parameters"`
}
