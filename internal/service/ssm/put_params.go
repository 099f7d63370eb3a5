package ssm

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"ssmenv/internal/service/common"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"
)

var validParameterTypes = []string{"String", "SecureString", "StringList"}

// PutParametersFromFile はファイルからパラメータを読み込んでParameter Storeに登録する
func PutParametersFromFile(ctx context.Context, client PutParameterAPI, opts PutParamsOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	params, err := loadParametersFromFile(opts.FilePath)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗しました: %w", err)
	}
	if len(params) == 0 {
		return errors.New("登録するパラメータが見つかりません")
	}

	if opts.Prefix != "" {
		for i := range params {
			params[i].Name = JoinParameterName(opts.Prefix, params[i].Name)
		}
	}

	if opts.DryRun {
		printPutPlan(out, params)
		return nil
	}

	bar := progressbar.NewOptions(len(params),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("登録中..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(out) }),
	)

	results := make([]common.ProcessResult, 0, len(params))
	for _, param := range params {
		err := putParameter(ctx, client, param)
		results = append(results, common.ProcessResult{Item: param.Name, Success: err == nil, Error: err})
		_ = bar.Add(1)
	}

	for _, r := range results {
		if !r.Success {
			fmt.Fprintf(out, "%s %s の登録に失敗しました: %v\n", common.ErrorIcon, r.Item, r.Error)
		}
	}

	successCount, failCount := common.CollectResults(results)
	fmt.Fprintf(out, "\n%s 登録結果: 成功 %d / 失敗 %d / 合計 %d\n", common.StatsIcon, successCount, failCount, len(params))

	if failCount > 0 {
		return fmt.Errorf("%d 件のパラメータ登録に失敗しました", failCount)
	}
	return nil
}

func printPutPlan(out io.Writer, params []parameter) {
	fmt.Fprintf(out, "%s 以下のパラメータが登録されます:\n", common.InfoIcon)
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, param := range params {
		fmt.Fprintf(out, "Name: %s\n", param.Name)
		fmt.Fprintf(out, "Type: %s\n", param.Type)
		if param.Type != string(types.ParameterTypeSecureString) {
			fmt.Fprintf(out, "Value: %s\n", param.Value)
		} else {
			fmt.Fprintln(out, "Value: ****** (SecureString)")
		}
		if param.Description != "" {
			fmt.Fprintf(out, "Description: %s\n", param.Description)
		}
		fmt.Fprintln(out, strings.Repeat("-", 80))
	}
}

// loadParametersFromFile は拡張子に応じてファイルからパラメータを読み込む
func loadParametersFromFile(filePath string) ([]parameter, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ファイルを開けません: %w", err)
	}
	defer file.Close()

	var params []parameter
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".json":
		params, err = decodeParametersJSON(file)
	case ".yaml", ".yml":
		params, err = decodeParametersYAML(file)
	case ".csv":
		params, err = decodeParametersCSV(file)
	default:
		return nil, fmt.Errorf("サポートされていないファイル形式: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	for i, param := range params {
		if err := validateParameter(param); err != nil {
			return nil, fmt.Errorf("パラメータ[%d]のバリデーションエラー: %w", i, err)
		}
	}
	return params, nil
}

func decodeParametersJSON(r io.Reader) ([]parameter, error) {
	var paramFile parametersFile
	if err := json.NewDecoder(r).Decode(&paramFile); err != nil {
		return nil, fmt.Errorf("JSONの解析に失敗しました: %w", err)
	}
	return paramFile.Parameters, nil
}

func decodeParametersYAML(r io.Reader) ([]parameter, error) {
	var paramFile parametersFile
	if err := yaml.NewDecoder(r).Decode(&paramFile); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAMLの解析に失敗しました: %w", err)
	}
	return paramFile.Parameters, nil
}

// decodeParametersCSV は name,value,type[,description] のヘッダー付きCSVを読む
func decodeParametersCSV(r io.Reader) ([]parameter, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("CSVヘッダーの読み込みに失敗しました: %w", err)
	}
	if len(headers) < 3 {
		return nil, errors.New("CSVヘッダーが不正です。最低限 name, value, type が必要です")
	}
	for i, expected := range []string{"name", "value", "type"} {
		if got := strings.ToLower(strings.TrimSpace(headers[i])); got != expected {
			return nil, fmt.Errorf("CSVヘッダーが不正です。期待: %s, 実際: %s", expected, headers[i])
		}
	}

	var params []parameter
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV行 %d の読み込みに失敗しました: %w", line, err)
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("CSV行 %d のカラム数が不足しています", line)
		}

		param := parameter{
			Name:  strings.TrimSpace(record[0]),
			Value: strings.TrimSpace(record[1]),
			Type:  strings.TrimSpace(record[2]),
		}
		if len(record) > 3 {
			param.Description = strings.TrimSpace(record[3])
		}
		params = append(params, param)
	}
	return params, nil
}

// validateParameter はパラメータのバリデーションを行う
func validateParameter(param parameter) error {
	if param.Name == "" {
		return errors.New("nameが空です")
	}
	if param.Value == "" {
		return errors.New("valueが空です")
	}
	if !slices.Contains(validParameterTypes, param.Type) {
		return fmt.Errorf("無効なtype: %q (有効な値: %s)", param.Type, strings.Join(validParameterTypes, ", "))
	}
	if !strings.HasPrefix(param.Name, "/") {
		return fmt.Errorf("パラメータ名は / で始まる必要があります: %s", param.Name)
	}
	return nil
}

// putParameter は単一のパラメータを上書き登録する
func putParameter(ctx context.Context, client PutParameterAPI, param parameter) error {
	input := &ssm.PutParameterInput{
		Name:      aws.String(param.Name),
		Value:     aws.String(param.Value),
		Type:      types.ParameterType(param.Type),
		Overwrite: aws.Bool(true),
	}
	if param.Description != "" {
		input.Description = aws.String(param.Description)
	}

	_, err := client.PutParameter(ctx, input)
	return err
}
