// Package domain defines keystore kinds, file layout, stored entries and errors.
package domain

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two keystore files a service owns.
type Kind string

const (
	// KindGeneral holds key material such as the self-signed certificate.
	KindGeneral Kind = "general"

	// KindCredential holds secret entries encrypted under the master secret.
	KindCredential Kind = "credential"
)

// FileName returns the keystore file name for serviceName and kind.
func FileName(serviceName string, kind Kind) string {
	if kind == KindCredential {
		return serviceName + "-credentials.keystore"
	}
	return serviceName + ".keystore"
}

// Path returns the keystore file path inside dir.
func Path(dir, serviceName string, kind Kind) string {
	return filepath.Join(dir, FileName(serviceName, kind))
}

// StoreMeta identifies a keystore file.
//
// ID is random per file and salts the credential key derivation, so two
// stores created with the same master secret never share entry keys.
// Verifier is an Argon2id hash of the master secret; it is empty for general
// stores.
type StoreMeta struct {
	ID        uuid.UUID
	Kind      Kind
	CreatedAt time.Time
	Verifier  string
}

// EntryType identifies what an entry holds.
type EntryType string

const (
	// EntryPrivateKey is a PKCS#8 private key sealed under a key passphrase,
	// stored with its certificate chain.
	EntryPrivateKey EntryType = "private-key"

	// EntrySecret is a credential sealed under a key derived from the master secret.
	EntrySecret EntryType = "secret"
)

// Entry is one alias in a keystore, CBOR encoded.
type Entry struct {
	Type       EntryType `cbor:"1,keyasint"`
	CreatedAt  time.Time `cbor:"2,keyasint"`
	Salt       []byte    `cbor:"3,keyasint,omitempty"`
	IV         []byte    `cbor:"4,keyasint"`
	Ciphertext []byte    `cbor:"5,keyasint"`
	Chain      [][]byte  `cbor:"6,keyasint,omitempty"`
}
