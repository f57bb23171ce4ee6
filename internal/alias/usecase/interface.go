// Package usecase resolves aliases and configuration values against the
// credential store.
package usecase

import (
	"context"
)

// CredentialStore is the subset of the keystore service used for aliases.
type CredentialStore interface {
	// GetCredential returns nil with no error when alias is absent.
	GetCredential(ctx context.Context, alias string) ([]byte, error)
	AddCredential(ctx context.Context, alias string, secret []byte) error
	CredentialAliases(ctx context.Context) ([]string, error)
}

// PasswordGenerator produces passwords for generated aliases.
type PasswordGenerator interface {
	Generate() ([]byte, error)
}

// AliasUseCase defines operations on aliases and alias-bearing configuration values.
type AliasUseCase interface {
	// GetPasswordFromAlias returns the value stored under alias. An absent
	// alias returns nil with no error unless generate is set, in which case a
	// new password is generated, stored and returned.
	GetPasswordFromAlias(ctx context.Context, alias string, generate bool) ([]byte, error)

	// GenerateAlias stores a newly generated password under alias, replacing any value.
	GenerateAlias(ctx context.Context, alias string) error

	// AddAlias stores value under alias, replacing any previous value.
	AddAlias(ctx context.Context, alias string, value []byte) error

	// GetPasswordFromConfigValue resolves ${ALIAS=name} references and returns
	// any other value unchanged. A reference to an absent alias returns nil.
	GetPasswordFromConfigValue(ctx context.Context, value string) ([]byte, error)

	// ListAliases returns the stored alias names in byte order.
	ListAliases(ctx context.Context) ([]string, error)
}
