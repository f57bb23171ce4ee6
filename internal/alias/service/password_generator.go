// Package service generates alias passwords.
package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

const (
	// PasswordAlphabet omits characters that are easy to confuse when read
	// aloud or copied by hand: i, l, o, I, L, O, 0 and 1.
	PasswordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

	// DefaultPasswordLength is the length of generated alias passwords.
	DefaultPasswordLength = 16
)

// PasswordGenerator draws passwords uniformly from PasswordAlphabet.
type PasswordGenerator struct {
	random io.Reader
	length int
}

// NewPasswordGenerator creates a generator of DefaultPasswordLength passwords
// backed by crypto/rand.
func NewPasswordGenerator() *PasswordGenerator {
	return &PasswordGenerator{random: rand.Reader, length: DefaultPasswordLength}
}

// Generate returns a new random password.
func (g *PasswordGenerator) Generate() ([]byte, error) {
	if g.length < 1 {
		return nil, errors.New("length must be at least 1")
	}

	password := make([]byte, g.length)
	charsLen := big.NewInt(int64(len(PasswordAlphabet)))

	for i := range password {
		n, err := rand.Int(g.random, charsLen)
		if err != nil {
			return nil, fmt.Errorf("failed to generate random character: %w", err)
		}
		password[i] = PasswordAlphabet[n.Int64()]
	}

	return password, nil
}
