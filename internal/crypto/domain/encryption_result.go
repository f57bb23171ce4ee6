package domain

// EncryptionResult is the output of a passphrase encryption. All three parts
// are required to decrypt; none of them is secret on its own.
type EncryptionResult struct {
	Salt       []byte // Random salt fed to the key derivation function
	IV         []byte // AEAD nonce
	Ciphertext []byte // Sealed plaintext with the authentication tag appended
}
