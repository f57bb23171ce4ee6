package service

import (
	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// aeadConstructors maps each supported algorithm to its cipher constructor.
var aeadConstructors = map[cryptoDomain.Algorithm]func(key []byte) (AEAD, error){
	cryptoDomain.AESGCM: func(key []byte) (AEAD, error) {
		return NewAESGCM(key)
	},
	cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) {
		return NewChaCha20Poly1305(key)
	},
}

// AEADManagerService creates AEAD ciphers by algorithm.
type AEADManagerService struct{}

// NewAEADManager creates an AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns a cipher for alg keyed with key. The algorithm is
// checked first, so an unknown algorithm is ErrUnsupportedAlgorithm whatever
// the key length; a key that is not KeySize bytes is ErrInvalidKeySize.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	newCipher, ok := aeadConstructors[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	return newCipher(key)
}
