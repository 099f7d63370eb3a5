package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TableColumn はテーブルの列定義
type TableColumn struct {
	Header string
}

// DisplayOptions はリスト表示のオプション
type DisplayOptions struct {
	ShowCount    bool   // 件数を表示するか
	EmptyMessage string // 空の場合のメッセージ（デフォルト: "リソースが見つかりませんでした"）
}

// PrintTable はテーブル形式でデータを表示する
// 列幅は表示幅で計算するため、全角文字を含むセルでも列が揃う
func PrintTable(w io.Writer, title string, columns []TableColumn, data [][]string) {
	if title != "" {
		fmt.Fprintf(w, "\n%s:\n", title)
	}

	colWidths := make([]int, len(columns))
	for i, col := range columns {
		colWidths[i] = runewidth.StringWidth(col.Header)
	}
	for _, row := range data {
		for i, cell := range row {
			if i < len(colWidths) {
				colWidths[i] = max(colWidths[i], runewidth.StringWidth(cell))
			}
		}
	}

	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = runewidth.FillRight(col.Header, colWidths[i])
	}
	writeRow(w, cells)

	for i := range columns {
		cells[i] = strings.Repeat("-", colWidths[i])
	}
	writeRow(w, cells)

	for _, row := range data {
		for i := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = runewidth.FillRight(cell, colWidths[i])
		}
		writeRow(w, cells)
	}
}

func writeRow(w io.Writer, cells []string) {
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
}

// DisplayList は汎用的なリスト表示関数
func DisplayList[T any](
	w io.Writer,
	items []T,
	title string,
	toTableData func([]T) ([]TableColumn, [][]string),
	opts *DisplayOptions,
) {
	if opts == nil {
		opts = &DisplayOptions{}
	}
	if opts.EmptyMessage == "" {
		opts.EmptyMessage = "リソースが見つかりませんでした"
	}

	if len(items) == 0 {
		fmt.Fprintln(w, opts.EmptyMessage)
		return
	}

	columns, data := toTableData(items)
	PrintTable(w, title, columns, data)

	if opts.ShowCount {
		fmt.Fprintf(w, "\n合計: %d件\n", len(items))
	}
}
