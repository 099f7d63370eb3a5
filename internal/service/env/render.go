package env

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// 出力形式
const (
	FormatDotenv = "dotenv"
	FormatExport = "export"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Formats はサポートしている出力形式
var Formats = []string{FormatDotenv, FormatExport, FormatJSON, FormatYAML}

// Render は設定マップを指定形式でwに書き出す（キーは昇順）
func Render(w io.Writer, m map[string]string, format string) error {
	switch format {
	case FormatDotenv:
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if _, err := fmt.Fprintf(w, "%s=%s\n", k, strconv.Quote(m[k])); err != nil {
				return err
			}
		}
		return nil
	case FormatExport:
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if _, err := fmt.Fprintln(w, GetExportCommand(k, m[k])); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("サポートされていない出力形式: %s (%s)", format, strings.Join(Formats, ", "))
	}
}

// GetExportCommand は環境変数をエクスポートするシェルコマンドを返す
func GetExportCommand(name, value string) string {
	return fmt.Sprintf("export %s=%s", name, shellQuote(value))
}

// shellQuote は値をPOSIXシェルのシングルクォートで囲む
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
