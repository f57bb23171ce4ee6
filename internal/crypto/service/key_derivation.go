package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// DerivePassphraseKey stretches a low-entropy passphrase into a 32-byte key
// with PBKDF2-HMAC-SHA256. The caller owns the returned key and must zero it.
func DerivePassphraseKey(passphrase, salt []byte, iterations int) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, cryptoDomain.ErrEmptyPassphrase
	}
	if len(salt) == 0 || iterations < 1 {
		return nil, cryptoDomain.ErrKeyDerivation
	}
	return pbkdf2.Key(passphrase, salt, iterations, cryptoDomain.KeySize, sha256.New), nil
}

// DeriveSubkey expands high-entropy secret material into a 32-byte key bound
// to info with HKDF-SHA256. Used to derive the credential store key from the
// master secret so the master secret itself never keys a cipher.
func DeriveSubkey(secret, salt []byte, info string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, cryptoDomain.ErrKeyDerivation
	}

	reader := hkdf.New(sha256.New, secret, salt, []byte(info))
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyDerivation, err)
	}
	return key, nil
}
