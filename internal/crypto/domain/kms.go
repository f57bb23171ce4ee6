package domain

import "context"

// KMSKeeper is the subset of *secrets.Keeper used to unwrap configuration
// secrets. It is an interface so tests can substitute a fake keeper.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
