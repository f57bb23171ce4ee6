package metrics

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success_CreateProviderWithNamespace", func(t *testing.T) {
		provider, err := NewProvider("test_app")

		require.NoError(t, err)
		assert.NotNil(t, provider.meterProvider)
		assert.NotNil(t, provider.exporter)
		assert.NotNil(t, provider.registry)
		assert.NotNil(t, provider.MeterProvider())
	})

	t.Run("Success_CreateProviderWithEmptyNamespace", func(t *testing.T) {
		provider, err := NewProvider("")

		require.NoError(t, err)
		assert.NotNil(t, provider)
	})
}

func TestProvider_Snapshot(t *testing.T) {
	provider, err := NewProvider("snap")
	require.NoError(t, err)

	samples, err := provider.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, samples)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "snap")
	require.NoError(t, err)
	bm.RecordOperation(context.Background(), "alias", "alias_add", StatusSuccess)

	samples, err = provider.Snapshot()
	require.NoError(t, err)
	require.NotEmpty(t, samples)
	for _, s := range samples {
		assert.Contains(t, s.Name, "snap_")
	}
}

func TestProvider_LogSnapshot(t *testing.T) {
	provider, err := NewProvider("logged")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "logged")
	require.NoError(t, err)
	bm.RecordOperation(context.Background(), "alias", "alias_generate", StatusSuccess)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	provider.LogSnapshot(context.Background(), logger)

	assert.Contains(t, buf.String(), `"metric":"logged_operations_total"`)
	assert.Contains(t, buf.String(), `"operation":"alias_generate"`)
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		err = provider.Shutdown(context.Background())
		assert.NoError(t, err)
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{meterProvider: nil}

		err := provider.Shutdown(context.Background())
		assert.NoError(t, err)
	})
}
