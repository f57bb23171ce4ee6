package usecase

import (
	"context"
	"log/slog"

	aliasDomain "github.com/allisson/cmf/internal/alias/domain"
	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// aliasUseCase implements AliasUseCase on a CredentialStore.
type aliasUseCase struct {
	store     CredentialStore
	generator PasswordGenerator
	logger    *slog.Logger
}

// NewAliasUseCase creates an AliasUseCase.
func NewAliasUseCase(store CredentialStore, generator PasswordGenerator, logger *slog.Logger) AliasUseCase {
	return &aliasUseCase{
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

// GetPasswordFromAlias returns the stored value, generating one on demand.
func (a *aliasUseCase) GetPasswordFromAlias(ctx context.Context, alias string, generate bool) ([]byte, error) {
	if err := aliasDomain.ValidateAlias(alias); err != nil {
		return nil, err
	}

	value, err := a.store.GetCredential(ctx, alias)
	if err != nil {
		return nil, err
	}
	if value != nil || !generate {
		return value, nil
	}

	return a.generate(ctx, alias)
}

// GenerateAlias stores a generated password under alias.
func (a *aliasUseCase) GenerateAlias(ctx context.Context, alias string) error {
	if err := aliasDomain.ValidateAlias(alias); err != nil {
		return err
	}

	password, err := a.generate(ctx, alias)
	cryptoDomain.Zero(password)
	return err
}

// AddAlias stores value under alias.
func (a *aliasUseCase) AddAlias(ctx context.Context, alias string, value []byte) error {
	if err := aliasDomain.ValidateAlias(alias); err != nil {
		return err
	}
	if err := a.store.AddCredential(ctx, alias, value); err != nil {
		return err
	}

	a.logger.Info("alias stored", slog.String("alias", alias))
	return nil
}

// GetPasswordFromConfigValue resolves an alias reference or passes a literal through.
func (a *aliasUseCase) GetPasswordFromConfigValue(ctx context.Context, value string) ([]byte, error) {
	expr, err := aliasDomain.ParseConfigValue(value)
	if err != nil {
		return nil, err
	}
	if !expr.IsAlias() {
		return []byte(expr.Literal), nil
	}
	return a.store.GetCredential(ctx, expr.Alias)
}

// ListAliases returns the stored alias names.
func (a *aliasUseCase) ListAliases(ctx context.Context) ([]string, error) {
	return a.store.CredentialAliases(ctx)
}

func (a *aliasUseCase) generate(ctx context.Context, alias string) ([]byte, error) {
	password, err := a.generator.Generate()
	if err != nil {
		return nil, err
	}
	if err := a.store.AddCredential(ctx, alias, password); err != nil {
		cryptoDomain.Zero(password)
		return nil, err
	}

	a.logger.Info("alias generated", slog.String("alias", alias))
	return password, nil
}
