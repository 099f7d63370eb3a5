package cmd

import (
	"context"
	"fmt"
	"ssmenv/internal/service/common"
	ssmsvc "ssmenv/internal/service/ssm"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/spf13/cobra"
)

var ssmParamsPrefix string
var ssmParamsDryRun bool
var ssmDeleteForce bool
var ssmShowValues bool
var ssmClient *ssm.Client

var ssmCmd = &cobra.Command{
	Use:   "ssm",
	Short: "Parameter Store関連の操作を行うコマンド群",
	Long:  "AWS Systems Manager Parameter Storeのパラメータの一覧表示・一括登録・一括削除を行うCLIコマンド群です。",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 親のPersistentPreRunEを実行（設定とロガーの初期化）
		if err := RootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}

		clients, err := loadAwsClients(cmd.Context())
		if err != nil {
			cmd.SilenceUsage = true
			return fmt.Errorf("❌ %w", err)
		}
		ssmClient = clients.Ssm()
		return nil
	},
}

var ssmLsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "パス配下のパラメータと導出されるキーを一覧表示",
	Long: `指定したパス配下のパラメータを再帰的に取得し、導出されるキーと合わせて表示します。

例:
  ` + AppName + ` ssm ls /app/sandbox
  ` + AppName + ` ssm ls /app/sandbox --show-values
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
		defer cancel()

		resolver := ssmsvc.NewResolver(ssmClient,
			ssmsvc.WithPageSize(cfg.PageSize),
			ssmsvc.WithLogger(appLogger.WithComponent("resolver")),
		)
		params, err := resolver.ListParameters(ctx, args[0])
		if err != nil {
			return fmt.Errorf(common.ListErrorFormat, common.ErrorIcon, "パラメータ", err)
		}

		common.DisplayList(cmd.OutOrStdout(), params, args[0]+" のパラメータ一覧", parameterTable, &common.DisplayOptions{
			ShowCount:    true,
			EmptyMessage: "パラメータが見つかりませんでした",
		})
		return nil
	},
	SilenceUsage: true,
}

// parameterTable はパラメータ一覧をテーブル表示用のデータに変換する
func parameterTable(params []types.Parameter) ([]common.TableColumn, [][]string) {
	columns := []common.TableColumn{{Header: "キー"}, {Header: "名前"}, {Header: "タイプ"}, {Header: "バージョン"}}
	if ssmShowValues {
		columns = append(columns, common.TableColumn{Header: "値"})
	}

	data := make([][]string, 0, len(params))
	for _, p := range params {
		name := aws.ToString(p.Name)
		key := ssmsvc.DeriveKey(name)
		if key == "" || aws.ToString(p.Value) == "" {
			key = "(スキップ)"
		}
		row := []string{key, name, string(p.Type), strconv.FormatInt(p.Version, 10)}
		if ssmShowValues {
			row = append(row, aws.ToString(p.Value))
		}
		data = append(data, row)
	}
	return columns, data
}

var ssmPutParamsCmd = &cobra.Command{
	Use:   "put-params <file>",
	Short: "ファイルからParameter Storeに一括登録",
	Long: `CSV/JSON/YAMLファイルからAWS Systems Manager Parameter Storeにパラメータを一括登録します。

対応ファイル形式:
  - CSV (.csv): name,value,type,description の形式
  - JSON (.json): {"parameters": [{"name": "...", "value": "...", "type": "...", "description": "..."}]}
  - YAML (.yaml, .yml): parameters: の下に name/value/type/description のリスト

例:
  ` + AppName + ` ssm put-params params.csv
  ` + AppName + ` ssm put-params params.json --prefix /myapp/
  ` + AppName + ` ssm put-params params.yaml --dry-run
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		switch {
		case strings.HasSuffix(filePath, ".csv"), strings.HasSuffix(filePath, ".json"),
			strings.HasSuffix(filePath, ".yaml"), strings.HasSuffix(filePath, ".yml"):
		default:
			return fmt.Errorf("❌ サポートされていないファイル形式です。.csv / .json / .yaml ファイルを指定してください")
		}

		opts := ssmsvc.PutParamsOptions{
			FilePath: filePath,
			Prefix:   ssmParamsPrefix,
			DryRun:   ssmParamsDryRun,
			Out:      cmd.OutOrStdout(),
		}
		if err := ssmsvc.PutParametersFromFile(cmd.Context(), ssmClient, opts); err != nil {
			return fmt.Errorf("❌ パラメータの登録に失敗しました: %w", err)
		}

		if ssmParamsDryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ ドライラン完了")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ パラメータの登録が完了しました")
		}
		return nil
	},
	SilenceUsage: true,
}

var ssmDeleteParamsCmd = &cobra.Command{
	Use:   "delete-params <file>",
	Short: "ファイルからParameter Storeを一括削除",
	Long: `テキストファイルに記載されたパラメータ名のリストから、AWS Systems Manager Parameter Storeのパラメータを一括削除します。

ファイル形式:
  - 1行に1つのパラメータ名を記載
  - 空行と#で始まるコメント行は無視されます

例:
  ` + AppName + ` ssm delete-params params.txt
  ` + AppName + ` ssm delete-params params.txt --force
  ` + AppName + ` ssm delete-params params.txt --dry-run
  ` + AppName + ` ssm delete-params params.txt --prefix /myapp/  # 削除対象パラメータ名に/myapp/を付加
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := ssmsvc.DeleteParamsOptions{
			FilePath: args[0],
			Prefix:   ssmParamsPrefix,
			DryRun:   ssmParamsDryRun,
			Force:    ssmDeleteForce,
			In:       cmd.InOrStdin(),
			Out:      cmd.OutOrStdout(),
		}
		if err := ssmsvc.DeleteParametersFromFile(cmd.Context(), ssmClient, opts); err != nil {
			return fmt.Errorf("❌ パラメータの削除に失敗しました: %w", err)
		}

		if ssmParamsDryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ ドライラン完了")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ パラメータの削除が完了しました")
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(ssmCmd)
	ssmCmd.AddCommand(ssmLsCmd)
	ssmCmd.AddCommand(ssmPutParamsCmd)
	ssmCmd.AddCommand(ssmDeleteParamsCmd)

	// ls サブコマンドのフラグ
	ssmLsCmd.Flags().BoolVar(&ssmShowValues, "show-values", false, "パラメータの値も表示（SecureStringは復号済みの値）")

	// put-params サブコマンドのフラグ
	ssmPutParamsCmd.Flags().StringVarP(&ssmParamsPrefix, "prefix", "p", "", "パラメータ名のプレフィックス")
	ssmPutParamsCmd.Flags().BoolVarP(&ssmParamsDryRun, "dry-run", "d", false, "実際には登録せず、登録内容を確認")

	// delete-params サブコマンドのフラグ
	ssmDeleteParamsCmd.Flags().StringVarP(&ssmParamsPrefix, "prefix", "p", "", "パラメータ名のプレフィックス")
	ssmDeleteParamsCmd.Flags().BoolVarP(&ssmParamsDryRun, "dry-run", "d", false, "実際には削除せず、削除対象を確認")
	ssmDeleteParamsCmd.Flags().BoolVarP(&ssmDeleteForce, "force", "f", false, "確認プロンプトをスキップ")
}
