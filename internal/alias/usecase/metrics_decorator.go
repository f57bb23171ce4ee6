package usecase

import (
	"context"
	"time"

	"github.com/allisson/cmf/internal/metrics"
)

// aliasUseCaseWithMetrics decorates AliasUseCase with metrics instrumentation.
type aliasUseCaseWithMetrics struct {
	next    AliasUseCase
	metrics metrics.BusinessMetrics
}

// NewAliasUseCaseWithMetrics wraps an AliasUseCase with metrics recording.
func NewAliasUseCaseWithMetrics(useCase AliasUseCase, m metrics.BusinessMetrics) AliasUseCase {
	return &aliasUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// GetPasswordFromAlias records metrics for alias lookups.
func (a *aliasUseCaseWithMetrics) GetPasswordFromAlias(
	ctx context.Context,
	alias string,
	generate bool,
) ([]byte, error) {
	start := time.Now()
	value, err := a.next.GetPasswordFromAlias(ctx, alias, generate)
	a.record(ctx, "alias_get", start, err)
	return value, err
}

// GenerateAlias records metrics for alias generation.
func (a *aliasUseCaseWithMetrics) GenerateAlias(ctx context.Context, alias string) error {
	start := time.Now()
	err := a.next.GenerateAlias(ctx, alias)
	a.record(ctx, "alias_generate", start, err)
	return err
}

// AddAlias records metrics for alias writes.
func (a *aliasUseCaseWithMetrics) AddAlias(ctx context.Context, alias string, value []byte) error {
	start := time.Now()
	err := a.next.AddAlias(ctx, alias, value)
	a.record(ctx, "alias_add", start, err)
	return err
}

// GetPasswordFromConfigValue records metrics for configuration value resolution.
func (a *aliasUseCaseWithMetrics) GetPasswordFromConfigValue(ctx context.Context, value string) ([]byte, error) {
	start := time.Now()
	resolved, err := a.next.GetPasswordFromConfigValue(ctx, value)
	a.record(ctx, "alias_resolve", start, err)
	return resolved, err
}

// ListAliases records metrics for alias listing.
func (a *aliasUseCaseWithMetrics) ListAliases(ctx context.Context) ([]string, error) {
	start := time.Now()
	aliases, err := a.next.ListAliases(ctx)
	a.record(ctx, "alias_list", start, err)
	return aliases, err
}

func (a *aliasUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, a.metrics, metrics.DomainAlias, operation, start, err)
}
