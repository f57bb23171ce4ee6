// Package service acquires the process-wide master secret: it loads a
// persisted master file when one exists and otherwise prompts for the secret
// twice, optionally persisting the result under a passphrase cipher.
package service

import "io"

// SecretPrompt reads a secret from the operator without echoing it.
type SecretPrompt interface {
	// ReadSecret displays prompt and returns the entered secret. The caller
	// owns the returned buffer and should zero it when done.
	ReadSecret(prompt string) ([]byte, error)

	// Writer returns where advisories and prompt feedback are written.
	Writer() io.Writer
}
