// Package domain defines the cryptographic primitives shared by the bootstrap
// layer: supported AEAD algorithms, key and salt sizes, and the result of a
// passphrase encryption.
package domain

// Algorithm represents the AEAD algorithm used by a symmetric cipher.
//
// Both algorithms authenticate the ciphertext, so a wrong passphrase or a
// tampered record is rejected at decryption time instead of yielding garbage.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode (12-byte nonce, 16-byte tag).
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305 (12-byte nonce, 16-byte tag). Preferred on
	// hosts without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of every symmetric key (256 bits).
	KeySize = 32

	// SaltSize is the size in bytes of the random salt drawn for each encryption.
	SaltSize = 16

	// DefaultKDFIterations is the PBKDF2-SHA256 iteration count used when none is configured.
	DefaultKDFIterations = 65536
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
