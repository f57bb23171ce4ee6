// Package service provides the symmetric encryption primitives of the
// bootstrap layer: raw AEAD ciphers, a passphrase-keyed cipher that protects
// the persisted master secret and key entries, and KMS keeper access.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// SymmetricCipher encrypts with a key derived from a passphrase fixed at construction.
type SymmetricCipher interface {
	// Encrypt draws a fresh salt and IV and seals plaintext.
	Encrypt(plaintext []byte) (*cryptoDomain.EncryptionResult, error)

	// Decrypt opens a ciphertext produced by Encrypt with the same passphrase.
	Decrypt(salt, iv, ciphertext []byte) ([]byte, error)
}

// KMSService opens KMS keepers used to unwrap configuration secrets.
type KMSService interface {
	// OpenKeeper opens a keeper for the given key URI.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
