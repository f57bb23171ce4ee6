package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/cmf/internal/errors"
)

// argon2Verifier implements SecretVerifier with Argon2id.
type argon2Verifier struct {
	hasher *pwdhash.PasswordHasher
}

// NewSecretVerifier creates an Argon2id SecretVerifier using policy. The
// container uses pwdhash.PolicyModerate for the credential store verifier.
func NewSecretVerifier(policy pwdhash.Policy) (SecretVerifier, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(policy))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create secret hasher")
	}
	return &argon2Verifier{hasher: hasher}, nil
}

// Hash hashes secret with a fresh salt.
func (v *argon2Verifier) Hash(secret []byte) (string, error) {
	hash, err := v.hasher.Hash(secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash secret")
	}
	return hash, nil
}

// Verify compares secret against hash in constant time.
func (v *argon2Verifier) Verify(secret []byte, hash string) (bool, error) {
	ok, err := v.hasher.Verify(secret, hash)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to verify secret")
	}
	return ok, nil
}
