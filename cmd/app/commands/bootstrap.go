package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Lifecycle brings the secret services up.
type Lifecycle interface {
	Init(ctx context.Context) error
	Start(ctx context.Context, persist bool) error
	IsReady() bool
}

// RunBootstrap initializes and starts the secret services and reports their
// readiness. On first start this prompts for the master secret; with persist
// set the secret is written to the master file for later starts.
func RunBootstrap(
	ctx context.Context,
	lifecycle Lifecycle,
	logger *slog.Logger,
	writer io.Writer,
	serviceName string,
	persist bool,
) error {
	logger.Info("bootstrapping secret services",
		slog.String("service", serviceName),
		slog.Bool("persist", persist),
	)

	if err := lifecycle.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize secret services: %w", err)
	}
	if err := lifecycle.Start(ctx, persist); err != nil {
		return fmt.Errorf("failed to start secret services: %w", err)
	}
	if !lifecycle.IsReady() {
		return fmt.Errorf("secret services for %s are not ready", serviceName)
	}

	_, _ = fmt.Fprintf(writer, "Secret services for %s are ready\n", serviceName)
	return nil
}
