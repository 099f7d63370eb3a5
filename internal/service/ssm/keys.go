package ssm

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// DeriveKey は階層化されたパラメータ名から最後の / 以降をキーとして取り出す
// / を含まない場合は名前全体がキーになる
func DeriveKey(name string) string {
	return name[strings.LastIndex(name, "/")+1:]
}

// BuildConfigMap はパラメータ群をキーと値のマップに変換する
// 名前が無いもの、値が空のもの、キーが空になるもの（末尾が / の名前）は書き込まない。
// 同じキーは後のパラメータが勝つ
func BuildConfigMap(params []types.Parameter) map[string]string {
	m := make(map[string]string, len(params))
	for _, p := range params {
		name := aws.ToString(p.Name)
		if name == "" {
			continue
		}
		key := DeriveKey(name)
		value := aws.ToString(p.Value)
		if key == "" || value == "" {
			continue
		}
		m[key] = value
	}
	return m
}

// JoinParameterName はプレフィックスとパラメータ名を / 1つで結合する
func JoinParameterName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(name, "/")
}
