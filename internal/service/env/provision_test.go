package env

import (
	"bytes"
	"context"
	"errors"
	"ssmenv/internal/logger"
	"ssmenv/internal/service/common"
	"ssmenv/internal/service/ssm"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	result map[string]string
	err    error
	panics bool
	paths  []string
	wait   bool
}

func (s *stubResolver) FetchByMultiplePaths(ctx context.Context, paths []string) (map[string]string, error) {
	s.paths = paths
	if s.panics {
		panic("boom")
	}
	if s.wait {
		<-ctx.Done()
		return nil, &ssm.FetchError{Path: paths[0], Kind: ssm.KindCanceled, Err: ctx.Err()}
	}
	return s.result, s.err
}

func jsonLogger(t *testing.T, buf *bytes.Buffer) *logger.Logger {
	t.Helper()
	l, err := logger.New("debug", logger.FormatJSON, buf)
	require.NoError(t, err)
	return l
}

func TestProvision_ResolvedOverridesStatic(t *testing.T) {
	resolver := &stubResolver{result: map[string]string{"port": "5433", "host": "db.local"}}

	res := Provision(context.Background(), resolver, Plan{
		Paths:  []string{"/base", "/override"},
		Static: map[string]string{"port": "5000", "CDK_DEFAULT_REGION": "ap-northeast-1"},
	}, nil)

	require.NoError(t, res.Err)
	assert.Equal(t, []string{"/base", "/override"}, resolver.paths)
	assert.Equal(t, map[string]string{
		"port":               "5433",
		"host":               "db.local",
		"CDK_DEFAULT_REGION": "ap-northeast-1",
	}, res.Env)
	assert.Equal(t, resolver.result, res.Parameters)
}

func TestProvision_FailureFallsBackToEmptyMap(t *testing.T) {
	var buf bytes.Buffer
	fetchErr := &ssm.FetchError{Path: "/broken", Kind: ssm.KindTransport, Err: errors.New("dial tcp: i/o timeout")}
	resolver := &stubResolver{err: fetchErr}

	res := Provision(context.Background(), resolver, Plan{
		Paths:  []string{"/base", "/broken"},
		Static: map[string]string{"VPC_ID": "vpc-123"},
	}, jsonLogger(t, &buf))

	assert.ErrorIs(t, res.Err, ssm.ErrTransport)
	assert.Empty(t, res.Parameters)
	assert.Equal(t, map[string]string{"VPC_ID": "vpc-123"}, res.Env)
	assert.Contains(t, buf.String(), `"kind":"transport"`)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestProvision_PanicDoesNotEscape(t *testing.T) {
	resolver := &stubResolver{panics: true}

	var res Result
	assert.NotPanics(t, func() {
		res = Provision(context.Background(), resolver, Plan{Paths: []string{"/app"}}, nil)
	})
	assert.Error(t, res.Err)
	assert.Empty(t, res.Env)
}

func TestProvision_TimeoutIsNonFatal(t *testing.T) {
	resolver := &stubResolver{wait: true}

	res := Provision(context.Background(), resolver, Plan{
		Paths:   []string{"/slow"},
		Timeout: 10 * time.Millisecond,
	}, nil)

	assert.ErrorIs(t, res.Err, ssm.ErrCanceled)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.NotNil(t, res.Env)
	assert.Empty(t, res.Env)
}

func TestProvision_NoPathsSkipsResolution(t *testing.T) {
	resolver := &stubResolver{result: map[string]string{"x": "1"}}

	res := Provision(context.Background(), resolver, Plan{Static: map[string]string{"A": "1"}}, nil)

	assert.NoError(t, res.Err)
	assert.Nil(t, resolver.paths)
	assert.Equal(t, map[string]string{"A": "1"}, res.Env)
}

func TestProvision_FilterLimitsResolvedKeysOnly(t *testing.T) {
	filter, err := common.NewMatcher([]string{"DB_*"})
	require.NoError(t, err)
	resolver := &stubResolver{result: map[string]string{"DB_HOST": "db", "DB_PORT": "5432", "TIMEOUT": "30"}}

	res := Provision(context.Background(), resolver, Plan{
		Paths:  []string{"/app"},
		Static: map[string]string{"STATIC": "kept"},
		Filter: filter,
	}, nil)

	assert.Equal(t, map[string]string{"DB_HOST": "db", "DB_PORT": "5432"}, res.Parameters)
	assert.Equal(t, map[string]string{"DB_HOST": "db", "DB_PORT": "5432", "STATIC": "kept"}, res.Env)
}

func TestProvision_DoesNotMutateStatic(t *testing.T) {
	static := map[string]string{"port": "5000"}
	resolver := &stubResolver{result: map[string]string{"port": "5433"}}

	Provision(context.Background(), resolver, Plan{Paths: []string{"/app"}, Static: static}, nil)

	assert.Equal(t, map[string]string{"port": "5000"}, static)
}

// pathStore はパス毎に1ページ分のパラメータを返し、failに含まれるパスでは失敗する
type pathStore struct {
	params map[string][]types.Parameter
	fail   map[string]error
	panics bool
}

func (s *pathStore) GetParametersByPath(_ context.Context, in *awsssm.GetParametersByPathInput, _ ...func(*awsssm.Options)) (*awsssm.GetParametersByPathOutput, error) {
	if s.panics {
		panic("sdk bug")
	}
	path := aws.ToString(in.Path)
	if err := s.fail[path]; err != nil {
		return nil, err
	}
	return &awsssm.GetParametersByPathOutput{Parameters: s.params[path]}, nil
}

func TestProvision_OnePathFailureFallsBackThroughResolver(t *testing.T) {
	store := &pathStore{
		params: map[string][]types.Parameter{
			"/base": {{Name: aws.String("/base/port"), Value: aws.String("5000")}},
		},
		fail: map[string]error{"/broken": errors.New("dial tcp: i/o timeout")},
	}

	for _, concurrency := range []int{1, 2} {
		t.Run(strconv.Itoa(concurrency), func(t *testing.T) {
			var buf bytes.Buffer
			resolver := ssm.NewResolver(store, ssm.WithConcurrency(concurrency))

			res := Provision(context.Background(), resolver, Plan{
				Paths:  []string{"/base", "/broken"},
				Static: map[string]string{"STAGE": "sandbox"},
			}, jsonLogger(t, &buf))

			assert.ErrorIs(t, res.Err, ssm.ErrTransport)
			assert.Empty(t, res.Parameters)
			assert.Equal(t, map[string]string{"STAGE": "sandbox"}, res.Env)
			assert.Contains(t, buf.String(), `"kind":"transport"`)
		})
	}
}

func TestProvision_ParallelWorkerPanicIsNonFatal(t *testing.T) {
	resolver := ssm.NewResolver(&pathStore{panics: true}, ssm.WithConcurrency(2))

	var res Result
	assert.NotPanics(t, func() {
		res = Provision(context.Background(), resolver, Plan{Paths: []string{"/a", "/b"}}, nil)
	})
	assert.Error(t, res.Err)
	assert.Empty(t, res.Env)
}
