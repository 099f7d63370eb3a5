// Package logger はzerolog.Loggerの薄いラッパーを提供する
//
// 利用者向けのメッセージはコマンド側でfmtにより標準出力へ表示し、
// 診断用のログはこのパッケージ経由で標準エラー出力へ書き出す。
package logger

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ログ出力形式
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Logger はzerolog.Loggerを埋め込んだロガー
type Logger struct {
	zerolog.Logger
}

// New は指定レベル・形式でwへ出力するロガーを作成する
func New(level, format string, w io.Writer) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("無効なログレベル: %s", level)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer
	switch format {
	case FormatJSON:
		out = w
	case FormatConsole, "":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	default:
		return nil, fmt.Errorf("無効なログ形式: %s (console または json)", format)
	}

	l := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return &Logger{l}, nil
}

// Nop は何も出力しないロガーを返す（テスト用）
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithComponent はcomponentフィールドを付与した子ロガーを返す
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.With().Str("component", name).Logger()}
}

// WithContext はロガーを埋め込んだcontextを返す
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext はcontextに埋め込まれたロガーを取り出す
// 埋め込まれていない場合はzerologの既定（無効化された）ロガーになる
func FromContext(ctx context.Context) *Logger {
	return &Logger{*zerolog.Ctx(ctx)}
}
