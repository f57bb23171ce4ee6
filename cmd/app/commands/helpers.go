// Package commands contains CLI command implementations for the application.
package commands

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/cmf/internal/app"
	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	masterService "github.com/allisson/cmf/internal/master/service"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// CloseContainer closes all resources in the container and logs any errors.
func CloseContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// StartServices initializes and starts the secret services of container. The
// returned stop function zeroes the master secret and shuts the container down.
func StartServices(ctx context.Context, container *app.Container, persist bool) (*app.Bootstrap, func(), error) {
	logger := container.Logger()
	bootstrap := app.NewBootstrap(container)

	stop := func() {
		bootstrap.Stop()
		CloseContainer(container, logger)
	}

	if err := bootstrap.Init(ctx); err != nil {
		stop()
		return nil, nil, fmt.Errorf("failed to initialize secret services: %w", err)
	}
	if err := bootstrap.Start(ctx, persist); err != nil {
		stop()
		return nil, nil, fmt.Errorf("failed to start secret services: %w", err)
	}

	return bootstrap, stop, nil
}

// validateFormat rejects output formats other than text and json.
func validateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

// readConfirmedSecret reads a secret twice through prompt and returns it when
// both entries match and are non-empty. The caller owns the returned buffer.
func readConfirmedSecret(prompt masterService.SecretPrompt, label string) ([]byte, error) {
	first, err := prompt.ReadSecret(fmt.Sprintf("Enter %s: ", label))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", label, err)
	}

	second, err := prompt.ReadSecret(fmt.Sprintf("Enter %s again: ", label))
	if err != nil {
		cryptoDomain.Zero(first)
		return nil, fmt.Errorf("failed to read %s: %w", label, err)
	}

	if len(first) == 0 {
		cryptoDomain.ZeroAll(first, second)
		return nil, fmt.Errorf("%s must not be empty", label)
	}
	if subtle.ConstantTimeCompare(first, second) != 1 {
		cryptoDomain.ZeroAll(first, second)
		return nil, fmt.Errorf("%s entries don't match", label)
	}

	cryptoDomain.Zero(second)
	return first, nil
}

// readSecretFrom reads a whole secret from r, dropping one trailing newline.
func readSecretFrom(r io.Reader, label string) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		cryptoDomain.Zero(data)
		return nil, fmt.Errorf("failed to read %s: %w", label, err)
	}

	secret := bytes.TrimSuffix(data, []byte("\n"))
	secret = bytes.TrimSuffix(secret, []byte("\r"))
	if len(secret) == 0 {
		cryptoDomain.Zero(data)
		return nil, fmt.Errorf("%s must not be empty", label)
	}
	return secret, nil
}
