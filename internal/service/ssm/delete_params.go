package ssm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"ssmenv/internal/service/common"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// DeleteParametersFromFile はファイルからパラメータ名を読み込んでParameter Storeから削除する
func DeleteParametersFromFile(ctx context.Context, client DeleteParameterAPI, opts DeleteParamsOptions) error {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	paramNames, err := loadParameterNamesFromFile(opts.FilePath, out)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗しました: %w", err)
	}
	if len(paramNames) == 0 {
		return errors.New("削除するパラメータが見つかりません")
	}

	if opts.Prefix != "" {
		for i := range paramNames {
			paramNames[i] = JoinParameterName(opts.Prefix, paramNames[i])
		}
	}

	if opts.DryRun {
		fmt.Fprintf(out, "%s  以下のパラメータが削除されます:\n", common.DeleteIcon)
		fmt.Fprintln(out, strings.Repeat("-", 80))
		for _, name := range paramNames {
			fmt.Fprintf(out, "  %s\n", name)
		}
		fmt.Fprintln(out, strings.Repeat("-", 80))
		fmt.Fprintf(out, "%s 合計: %d 件\n", common.StatsIcon, len(paramNames))
		return nil
	}

	if !opts.Force && !confirm(in, out, len(paramNames)) {
		fmt.Fprintln(out, "削除をキャンセルしました。")
		return nil
	}

	var successCount, failCount, notFoundCount int
	for _, name := range paramNames {
		err := deleteParameter(ctx, client, name)
		var notFound *types.ParameterNotFound
		switch {
		case err == nil:
			fmt.Fprintf(out, "%s %s を削除しました\n", common.SuccessIcon, name)
			successCount++
		case errors.As(err, &notFound):
			fmt.Fprintf(out, "%s  %s は存在しません（スキップ）\n", common.WarningIcon, name)
			notFoundCount++
		default:
			fmt.Fprintf(out, "%s %s の削除に失敗しました: %v\n", common.ErrorIcon, name, err)
			failCount++
		}
	}

	fmt.Fprintf(out, "\n%s 削除結果: 成功 %d / 失敗 %d / 存在しない %d / 合計 %d\n",
		common.StatsIcon, successCount, failCount, notFoundCount, len(paramNames))

	if failCount > 0 {
		return fmt.Errorf("%d 件のパラメータ削除に失敗しました", failCount)
	}
	return nil
}

// confirm は削除の確認プロンプトを表示し、y が入力された場合のみtrueを返す
func confirm(in io.Reader, out io.Writer, count int) bool {
	fmt.Fprintf(out, "%s  %d 件のパラメータを削除しようとしています。\n", common.WarningIcon, count)
	fmt.Fprint(out, "本当に削除しますか？ [y/N]: ")

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(response), "y")
}

// loadParameterNamesFromFile は1行1パラメータ名のファイルを読み込む
// 空行と # で始まるコメント行は無視し、無効な名前は警告してスキップする
func loadParameterNamesFromFile(filePath string, out io.Writer) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ファイルを開けません: %w", err)
	}
	defer file.Close()

	var paramNames []string
	scanner := bufio.NewScanner(file)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !isValidParameterName(line) {
			fmt.Fprintf(out, "%s  行 %d: 無効なパラメータ名をスキップ: %s\n", common.WarningIcon, lineNum, line)
			continue
		}
		paramNames = append(paramNames, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ファイルの読み込みエラー: %w", err)
	}
	return paramNames, nil
}

// isValidParameterName は / で始まり空白を含まない2文字以上の名前かを判定する
func isValidParameterName(name string) bool {
	return len(name) >= 2 &&
		strings.HasPrefix(name, "/") &&
		!strings.ContainsAny(name, " \t")
}

func deleteParameter(ctx context.Context, client DeleteParameterAPI, name string) error {
	_, err := client.DeleteParameter(ctx, &ssm.DeleteParameterInput{Name: aws.String(name)})
	return err
}
