package ssm

import (
	"context"
	"fmt"
	"ssmenv/internal/logger"
	"ssmenv/internal/service/common"
	"sync"

	"dario.cat/mergo"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// Resolver はParameter Storeからパス配下のパラメータを再帰的に取得し、
// 設定マップ（キー→値）に変換・マージする
type Resolver struct {
	client      ssm.GetParametersByPathAPIClient
	pageSize    int32
	concurrency int
	log         *logger.Logger
}

// Option はResolverの設定を変更する
type Option func(*Resolver)

// WithPageSize は1リクエストあたりの最大取得件数を指定する（0ならAPIのデフォルト）
func WithPageSize(n int32) Option {
	return func(r *Resolver) { r.pageSize = n }
}

// WithConcurrency は複数パスを同時に取得する最大数を指定する
// 同一パスのページは常に順番に取得する
func WithConcurrency(n int) Option {
	return func(r *Resolver) { r.concurrency = n }
}

// WithLogger はログ出力先を指定する
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// NewResolver はResolverを作成する
func NewResolver(client ssm.GetParametersByPathAPIClient, opts ...Option) *Resolver {
	r := &Resolver{
		client:      client,
		concurrency: 1,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListParameters はpath配下のパラメータを全ページ分取得する
// 途中のページで失敗した場合は取得済みの分も返さずにエラーを返す
func (r *Resolver) ListParameters(ctx context.Context, path string) ([]types.Parameter, error) {
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}
	if r.pageSize > 0 {
		input.MaxResults = aws.Int32(r.pageSize)
	}

	var params []types.Parameter
	paginator := ssm.NewGetParametersByPathPaginator(r.client, input)
	for page := 1; paginator.HasMorePages(); page++ {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, newFetchError(path, err)
		}
		params = append(params, out.Parameters...)

		r.log.Debug().
			Str("path", path).
			Int("page", page).
			Int("count", len(out.Parameters)).
			Msg("パラメータのページを取得")
	}
	return params, nil
}

// FetchByPath はpath配下のパラメータを取得し、設定マップに変換する
// パラメータが1件も無い場合は空のマップを返す（エラーではない）
func (r *Resolver) FetchByPath(ctx context.Context, path string) (map[string]string, error) {
	params, err := r.ListParameters(ctx, path)
	if err != nil {
		return nil, err
	}

	m := BuildConfigMap(params)
	r.log.Debug().
		Str("path", path).
		Int("parameters", len(params)).
		Int("keys", len(m)).
		Msg("パスの解決が完了")
	return m, nil
}

// FetchByMultiplePaths は複数パスを順に解決して1つのマップにマージする
// キーが重複した場合は後ろのパスの値が優先される。
// いずれかのパスで失敗した場合は部分的なマップを返さずにエラーを返す
func (r *Resolver) FetchByMultiplePaths(ctx context.Context, paths []string) (map[string]string, error) {
	maps, err := r.fetchAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string)
	for i, m := range maps {
		if err := mergo.Merge(&merged, m, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("パス %s の設定マージに失敗: %w", paths[i], err)
		}
	}
	return merged, nil
}

// fetchAll は各パスのマップをpathsと同じ順序で返す
func (r *Resolver) fetchAll(ctx context.Context, paths []string) ([]map[string]string, error) {
	results := make([]map[string]string, len(paths))

	if r.concurrency <= 1 || len(paths) <= 1 {
		for i, path := range paths {
			m, err := r.FetchByPath(ctx, path)
			if err != nil {
				return nil, err
			}
			results[i] = m
		}
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	// 最初の失敗だけを返し、残りの取得は打ち切る
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	executor := common.NewParallelExecutor(r.concurrency)
	for i, path := range paths {
		executor.Execute(func() {
			// ワーカーのpanicは呼び出し元のrecoverに届かないため、ここでエラーに変換する
			defer func() {
				if rec := recover(); rec != nil {
					fail(newFetchError(path, fmt.Errorf("パラメータ取得中に予期しないエラー: %v", rec)))
				}
			}()

			m, err := r.FetchByPath(ctx, path)
			if err != nil {
				fail(err)
				return
			}
			results[i] = m
		})
	}
	executor.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
