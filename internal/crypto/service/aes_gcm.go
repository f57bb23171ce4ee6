package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// It is the default cipher for the master record and the only cipher used for
// credential store entries, where the entry alias is passed as AAD so a
// sealed value cannot be moved to another alias without failing
// authentication.
//
// Security properties:
//   - 256-bit key, always derived (PBKDF2 for passphrases, HKDF for the
//     credential key) and never taken from user input directly
//   - 12-byte nonce drawn from crypto/rand on every Encrypt call
//   - 16-byte authentication tag appended to the ciphertext
//
// Performance characteristics:
//   - Hardware accelerated on CPUs with AES-NI or the ARMv8 crypto extensions
//   - On CPUs without them, ChaCha20Poly1305Cipher is the faster choice
//
// Thread safety:
//
//	The cipher holds no mutable state after construction and may be shared
//	between goroutines. Every Encrypt call draws its own nonce.
//
// Example usage:
//
//	key, err := DeriveSubkey(masterSecret, storeID[:], "cmf-credential-v1")
//	if err != nil {
//	    return err
//	}
//	defer cryptoDomain.Zero(key)
//
//	aead, err := NewAESGCM(key)
//	if err != nil {
//	    return err
//	}
//
//	ciphertext, nonce, err := aead.Encrypt([]byte("hunter2"), []byte("db.password"))
//
//	// Opening requires the same alias as AAD.
//	plaintext, err := aead.Decrypt(ciphertext, nonce, []byte("db.password"))
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates an AES-256-GCM cipher instance.
//
// The key must be exactly cryptoDomain.KeySize (32) bytes; any other length
// returns cryptoDomain.ErrInvalidKeySize before the AES block is built, so a
// 16 or 24 byte key never silently selects AES-128 or AES-192.
//
// The caller keeps ownership of key and should zero it once the cipher is
// built. The cipher keeps its own expanded copy inside the AES block.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext with AES-256-GCM, authenticating aad alongside it.
//
// The AAD is not encrypted and not returned; it binds the ciphertext to a
// context the caller can reproduce at decryption time, such as the alias a
// credential is stored under. Pass nil when there is no such context.
//
// A fresh 12-byte nonce is drawn from crypto/rand for every call and returned
// to the caller, who stores it next to the ciphertext (the master record keeps
// it as the IV field). With a random nonce a single key stays safe for about
// 2^32 messages, far more than a keystore ever holds.
//
// Returns:
//   - ciphertext: the sealed data with the 16-byte tag appended
//   - nonce: the 12-byte nonce needed by Decrypt
//   - err: a failure reading the system random source
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext produced by Encrypt with the given nonce and AAD.
//
// The tag is verified before any plaintext is returned. A nonce of the wrong
// length, a different key, a different AAD or a modified ciphertext all
// return cryptoDomain.ErrDecryptionFailed and no plaintext. Callers cannot
// tell these cases apart from the error, which is how a wrong master secret
// and a tampered record look the same to an attacker.
//
// Example:
//
//	plaintext, err := aead.Decrypt(entry.Ciphertext, entry.IV, []byte(alias))
//	if errors.Is(err, cryptoDomain.ErrDecryptionFailed) {
//	    // wrong key or damaged entry
//	}
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
