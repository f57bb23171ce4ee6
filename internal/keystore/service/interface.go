// Package service manages the general keystore and the credential store of a
// service instance.
package service

// MasterSecretSource provides the process-wide master secret.
type MasterSecretSource interface {
	// MasterSecret returns a copy of the secret the caller must zero, or nil
	// before the source is ready.
	MasterSecret() []byte

	// IsReady reports whether the master secret is available.
	IsReady() bool
}

// SecretVerifier hashes a secret and later checks a candidate against the hash.
type SecretVerifier interface {
	// Hash returns an encoded, salted hash of secret.
	Hash(secret []byte) (string, error)

	// Verify reports whether secret matches hash.
	Verify(secret []byte, hash string) (bool, error)
}
