package service

import (
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// PassphraseCipher implements SymmetricCipher with a key derived from a
// passphrase fixed at construction.
//
// Each Encrypt call draws a new random salt, derives a fresh key with PBKDF2
// and seals with a fresh nonce, so two encryptions of the same plaintext never
// share salt, IV or ciphertext. The derived key is zeroed after every call.
//
// When the passphrase is the compiled-in default, this only obfuscates data
// at rest: anyone holding both the file and the binary can decrypt it. File
// permissions are the real protection in that configuration.
type PassphraseCipher struct {
	passphrase  []byte
	algorithm   cryptoDomain.Algorithm
	iterations  int
	aeadManager AEADManager
}

// NewPassphraseCipher creates a PassphraseCipher. The passphrase is copied.
func NewPassphraseCipher(
	passphrase []byte,
	alg cryptoDomain.Algorithm,
	iterations int,
	aeadManager AEADManager,
) (*PassphraseCipher, error) {
	if len(passphrase) == 0 {
		return nil, cryptoDomain.ErrEmptyPassphrase
	}
	if _, err := cryptoDomain.ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	if iterations < 1 {
		iterations = cryptoDomain.DefaultKDFIterations
	}

	return &PassphraseCipher{
		passphrase:  append([]byte(nil), passphrase...),
		algorithm:   alg,
		iterations:  iterations,
		aeadManager: aeadManager,
	}, nil
}

// Encrypt seals plaintext under a key derived from the passphrase and a new salt.
func (p *PassphraseCipher) Encrypt(plaintext []byte) (*cryptoDomain.EncryptionResult, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: failed to generate salt: %v", cryptoDomain.ErrCrypto, err)
	}

	aead, key, err := p.cipherFor(salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	ciphertext, iv, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrCrypto, err)
	}

	return &cryptoDomain.EncryptionResult{
		Salt:       salt,
		IV:         iv,
		Ciphertext: ciphertext,
	}, nil
}

// Decrypt re-derives the key from salt and opens ciphertext.
// A wrong passphrase or tampered input returns ErrDecryptionFailed.
func (p *PassphraseCipher) Decrypt(salt, iv, ciphertext []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	aead, key, err := p.cipherFor(salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	plaintext, err := aead.Decrypt(ciphertext, iv, nil)
	if err != nil {
		return nil, err
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// Close zeroes the held passphrase. The cipher is unusable afterwards.
func (p *PassphraseCipher) Close() {
	cryptoDomain.Zero(p.passphrase)
	p.passphrase = nil
}

func (p *PassphraseCipher) cipherFor(salt []byte) (AEAD, []byte, error) {
	key, err := DerivePassphraseKey(p.passphrase, salt, p.iterations)
	if err != nil {
		return nil, nil, err
	}

	aead, err := p.aeadManager.CreateCipher(key, p.algorithm)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, nil, err
	}
	return aead, key, nil
}
