package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormatWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("debug", FormatJSON, &buf)
	require.NoError(t, err)

	l.WithComponent("resolver").Debug().Str("path", "/app").Msg("fetched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "resolver", entry["component"])
	assert.Equal(t, "/app", entry["path"])
	assert.Equal(t, "fetched", entry["message"])
}

func TestNew_LevelFiltersLowerEntries(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", FormatJSON, &buf)
	require.NoError(t, err)

	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_InvalidInput(t *testing.T) {
	_, err := New("loud", FormatJSON, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFromContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", FormatJSON, &buf)
	require.NoError(t, err)

	ctx := l.WithContext(context.Background())
	FromContext(ctx).Info().Msg("via context")

	assert.Contains(t, buf.String(), "via context")
}

func TestNop_DiscardsEverything(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error().Msg("nothing")
	})
}
