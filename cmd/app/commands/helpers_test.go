package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/cmf/internal/app"
	"github.com/allisson/cmf/internal/config"
)

func TestCloseContainer(t *testing.T) {
	cfg := &config.Config{
		LogLevel:         "error",
		MetricsEnabled:   true,
		MetricsNamespace: "cmf",
	}

	t.Run("clean shutdown logs nothing", func(t *testing.T) {
		container := app.NewContainer(cfg, app.WithLogOutput(io.Discard))
		_, err := container.MetricsProvider()
		require.NoError(t, err)

		var logs bytes.Buffer
		CloseContainer(container, slog.New(slog.NewTextHandler(&logs, nil)))

		require.Empty(t, logs.String())
	})

	t.Run("shutdown error is logged", func(t *testing.T) {
		container := app.NewContainer(cfg, app.WithLogOutput(io.Discard))
		_, err := container.MetricsProvider()
		require.NoError(t, err)
		require.NoError(t, container.Shutdown(context.Background()))

		var logs bytes.Buffer
		CloseContainer(container, slog.New(slog.NewTextHandler(&logs, nil)))

		require.Contains(t, logs.String(), "failed to shutdown container")
	})
}

func TestReadSecretFrom(t *testing.T) {
	t.Run("drops one trailing newline", func(t *testing.T) {
		secret, err := readSecretFrom(bytes.NewBufferString("line one\nline two\n\n"), "value")

		require.NoError(t, err)
		require.Equal(t, []byte("line one\nline two\n"), secret)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := readSecretFrom(&bytes.Buffer{}, "value")

		require.EqualError(t, err, "value must not be empty")
	})
}
