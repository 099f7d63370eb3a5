package env

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// 静的設定のうち個別項目から生成される環境変数名
const (
	AccountVariable = "CDK_DEFAULT_ACCOUNT"
	RegionVariable  = "CDK_DEFAULT_REGION"
	VpcVariable     = "VPC_ID"
)

// LoadSettings はYAML形式の静的設定ファイルを読み込む
// pathが空の場合は空の設定を返す
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return &Settings{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("静的設定ファイルを開けません: %w", err)
	}
	defer file.Close()

	settings := &Settings{}
	if err := yaml.NewDecoder(file).Decode(settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("静的設定ファイル %s の解析に失敗: %w", path, err)
	}
	return settings, nil
}

// StaticEnv は静的設定から環境変数のマップを作る
// environment に同名のキーがある場合はそちらが優先される
func (s *Settings) StaticEnv() map[string]string {
	m := make(map[string]string, len(s.Environment)+3)
	for name, value := range map[string]string{
		AccountVariable: s.Account,
		RegionVariable:  s.Region,
		VpcVariable:     s.VpcID,
	} {
		if value != "" {
			m[name] = value
		}
	}
	for k, v := range s.Environment {
		m[k] = v
	}
	return m
}
