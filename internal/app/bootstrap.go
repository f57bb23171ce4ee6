package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	aliasUseCase "github.com/allisson/cmf/internal/alias/usecase"
	keystoreService "github.com/allisson/cmf/internal/keystore/service"
	masterService "github.com/allisson/cmf/internal/master/service"
	"github.com/allisson/cmf/internal/metrics"
)

// Bootstrap brings the secret services of a process up in order: cipher,
// master secret, keystores, aliases. Any error is returned for the caller to
// abort startup.
type Bootstrap struct {
	container *Container
	logger    *slog.Logger

	metrics  metrics.BusinessMetrics
	master   *masterService.MasterService
	keystore *keystoreService.KeystoreService
	alias    aliasUseCase.AliasUseCase
}

// NewBootstrap creates a Bootstrap over container.
func NewBootstrap(container *Container) *Bootstrap {
	return &Bootstrap{
		container: container,
		logger:    container.Logger(),
	}
}

// Init creates the security and keystore directories and resolves every
// service. Nothing is prompted or opened yet.
func (b *Bootstrap) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := b.container.Config()
	for _, dir := range []string{cfg.SecurityDir, cfg.KeystoreDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	businessMetrics, err := b.container.BusinessMetrics()
	if err != nil {
		return err
	}

	master, err := b.container.MasterService()
	if err != nil {
		return err
	}

	keystore, err := b.container.KeystoreService()
	if err != nil {
		return err
	}

	alias, err := b.container.AliasUseCase()
	if err != nil {
		return err
	}

	b.metrics = businessMetrics
	b.master = master
	b.keystore = keystore
	b.alias = alias
	return nil
}

// Start acquires the master secret and creates the credential store when it
// is missing. An existing store must accept the master secret, otherwise
// Start fails with ErrStoreAuthFailed.
func (b *Bootstrap) Start(ctx context.Context, persist bool) error {
	if b.master == nil {
		return fmt.Errorf("bootstrap not initialized")
	}

	cfg := b.container.Config()

	start := time.Now()
	err := b.master.Setup(ctx, cfg.SecurityDir, persist)
	metrics.Observe(ctx, b.metrics, metrics.DomainBootstrap, "master_setup", start, err)
	if err != nil {
		return fmt.Errorf("failed to set up master secret: %w", err)
	}

	available, err := b.keystore.IsCredentialStoreAvailable(ctx)
	if err != nil {
		return fmt.Errorf("failed to check credential store: %w", err)
	}
	if !available {
		start = time.Now()
		err = b.keystore.CreateCredentialStore(ctx)
		metrics.Observe(ctx, b.metrics, metrics.DomainBootstrap, "credential_store_create", start, err)
		if err != nil {
			return fmt.Errorf("failed to create credential store: %w", err)
		}
	} else {
		start = time.Now()
		err = b.keystore.VerifyCredentialStore(ctx)
		metrics.Observe(ctx, b.metrics, metrics.DomainBootstrap, "credential_store_verify", start, err)
		if err != nil {
			// A secret that does not open the store must not stay usable.
			b.master.Close()
			return fmt.Errorf("failed to verify credential store: %w", err)
		}
	}

	b.logger.Info("secret services ready", slog.String("service", cfg.ServiceName))
	return nil
}

// Stop zeroes the master secret.
func (b *Bootstrap) Stop() {
	if b.master != nil {
		b.master.Close()
	}
}

// IsReady reports whether Start completed.
func (b *Bootstrap) IsReady() bool {
	return b.master != nil && b.master.IsReady()
}

// AliasUseCase returns the alias use case, nil before Init.
func (b *Bootstrap) AliasUseCase() aliasUseCase.AliasUseCase {
	return b.alias
}

// KeystoreService returns the keystore service, nil before Init.
func (b *Bootstrap) KeystoreService() *keystoreService.KeystoreService {
	return b.keystore
}
