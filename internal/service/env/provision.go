package env

import (
	"context"
	"fmt"
	"ssmenv/internal/logger"
	"ssmenv/internal/service/ssm"

	"dario.cat/mergo"
)

// Provision はParameter Storeのパラメータを解決し、静的設定とマージした環境を返す
//
// 解決に失敗しても処理は止めない。失敗はログに出力したうえで、解決結果を空として
// 静的設定だけの環境を返す。失敗内容はResult.Errで参照できる。
func Provision(ctx context.Context, resolver Resolver, plan Plan, log *logger.Logger) Result {
	if log == nil {
		log = logger.Nop()
	}

	params := map[string]string{}
	var resolveErr error

	if len(plan.Paths) == 0 {
		log.Warn().Msg("解決するパスが指定されていないため、静的設定のみで続行します")
	} else {
		resolved, err := resolve(ctx, resolver, plan)
		if err != nil {
			resolveErr = err
			log.Error().
				Err(err).
				Str("kind", string(ssm.KindOf(err))).
				Strs("paths", plan.Paths).
				Msg("パラメータの解決に失敗したため、空の設定で続行します")
		} else {
			params = filterKeys(resolved, plan)
			log.Info().
				Strs("paths", plan.Paths).
				Int("keys", len(params)).
				Msg("パラメータを解決しました")
		}
	}

	env := make(map[string]string, len(plan.Static)+len(params))
	if err := mergo.Merge(&env, plan.Static); err != nil {
		log.Error().Err(err).Msg("静的設定のマージに失敗")
	}
	if err := mergo.Merge(&env, params, mergo.WithOverride); err != nil {
		log.Error().Err(err).Msg("解決したパラメータのマージに失敗")
	}

	return Result{Env: env, Parameters: params, Err: resolveErr}
}

// resolve はタイムアウトを適用して解決を行う。解決中のpanicもエラーとして扱う
func resolve(ctx context.Context, resolver Resolver, plan Plan) (m map[string]string, err error) {
	if plan.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, plan.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("パラメータ解決中に予期しないエラー: %v", r)
		}
	}()
	return resolver.FetchByMultiplePaths(ctx, plan.Paths)
}

func filterKeys(m map[string]string, plan Plan) map[string]string {
	if plan.Filter == nil || plan.Filter.Empty() {
		return m
	}
	filtered := make(map[string]string, len(m))
	for k, v := range m {
		if plan.Filter.Match(k) {
			filtered[k] = v
		}
	}
	return filtered
}
