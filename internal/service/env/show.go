package env

import (
	"fmt"
	"io"
	"ssmenv/internal/service/common"
)

// ShowAllVariables はssmenvが参照する環境変数の現在値を表示する
func ShowAllVariables(w io.Writer, lookup func(string) string) {
	fmt.Fprintf(w, "%s ssmenv関連の環境変数の状態:\n\n", common.InfoIcon)

	for _, v := range SupportedVariables {
		value := lookup(v.Name)
		if value == "" {
			value = "未設定"
		}
		fmt.Fprintf(w, "  %s (%s): %s\n", v.Description, v.Name, value)
	}
}
