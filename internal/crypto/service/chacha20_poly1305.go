package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305.
//
// ChaCha20-Poly1305 pairs the ChaCha20 stream cipher with the Poly1305 MAC.
// It is selected with MASTER_CIPHER_ALGORITHM=chacha20-poly1305 for the master
// record and for key entries in the general keystore. It runs in constant time
// in software, which makes it the better choice on hosts without AES
// hardware support.
//
// It shares the wire shape of AESGCMCipher: 32-byte key, 12-byte random nonce
// and 16-byte tag appended to the ciphertext. The algorithm name stored next
// to the data decides which one opens it, never the data itself.
//
// The cipher is safe for concurrent use.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a ChaCha20-Poly1305 cipher instance.
//
// The key must be exactly 32 bytes. A key of any other length returns
// cryptoDomain.ErrInvalidKeySize. Keys come from DerivePassphraseKey or
// DeriveSubkey and should be zeroed by the caller after construction.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with ChaCha20-Poly1305, authenticating aad alongside it.
//
// The AAD is authenticated but neither encrypted nor stored; Decrypt must be
// given the same bytes. Pass nil when no context needs binding.
//
// A fresh 12-byte nonce is drawn from crypto/rand for each call. The nonce is
// returned with the ciphertext and must be stored next to it.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext with the given nonce and AAD.
//
// The Poly1305 tag is checked before any plaintext is released. A bad nonce
// length, the wrong key or AAD, and a modified ciphertext all return
// cryptoDomain.ErrDecryptionFailed.
func (c *ChaCha20Poly1305Cipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
