package domain

import (
	"github.com/allisson/cmf/internal/errors"
)

// Cryptographic error definitions.
//
// Every failure raised by a cipher wraps ErrCrypto, so callers can treat the
// whole family as one kind and still match the specific cause.
var (
	// ErrCrypto is the root of all encryption and decryption failures.
	ErrCrypto = errors.Wrap(errors.ErrInternal, "crypto error")

	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.Wrap(ErrCrypto, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(ErrCrypto, "invalid key size")

	// ErrDecryptionFailed indicates the ciphertext was rejected by the AEAD.
	//
	// Wrong passphrase, wrong salt, corrupted ciphertext and tampering are not
	// distinguished.
	ErrDecryptionFailed = errors.Wrap(ErrCrypto, "decryption failed")

	// ErrKeyDerivation indicates a key could not be derived from its input material.
	ErrKeyDerivation = errors.Wrap(ErrCrypto, "key derivation failed")

	// ErrUnsupportedKMSScheme indicates a KMS key URI with an unknown scheme.
	ErrUnsupportedKMSScheme = errors.Wrap(errors.ErrInvalidInput, "unsupported KMS key URI scheme")

	// ErrEmptyPassphrase indicates a passphrase cipher was built without a passphrase.
	ErrEmptyPassphrase = errors.Wrap(ErrCrypto, "empty passphrase")
)
