package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClients_SsmIsLazyAndCached(t *testing.T) {
	clients := NewClientsFromConfig(aws.Config{Region: "ap-northeast-1"})

	first := clients.Ssm()
	second := clients.Ssm()

	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, "ap-northeast-1", clients.Region())
}

func TestContext_GetConfigUsesRegion(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_CONFIG_FILE", t.TempDir()+"/config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", t.TempDir()+"/credentials")

	awsCtx := &Context{Region: "us-west-2", MaxAttempts: 2}
	cfg, err := awsCtx.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, 2, cfg.RetryMaxAttempts)

	// 2回目はキャッシュが返る
	again, err := awsCtx.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.Region, again.Region)
}
