package service

import (
	"crypto/subtle"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	masterDomain "github.com/allisson/cmf/internal/master/domain"
)

const (
	firstEntryPrompt  = "Enter master secret: "
	secondEntryPrompt = "Enter master secret again: "
)

// TerminalPrompt reads secrets from a terminal with echo disabled.
type TerminalPrompt struct {
	in  *os.File
	out io.Writer
}

// NewTerminalPrompt creates a TerminalPrompt reading from in and writing
// prompts to out. Prompts go to stderr in the CLI so stdout stays clean.
func NewTerminalPrompt(in *os.File, out io.Writer) *TerminalPrompt {
	return &TerminalPrompt{in: in, out: out}
}

// ReadSecret prompts and reads one line without echo.
// Returns ErrNoTerminal when the input is not a terminal.
func (p *TerminalPrompt) ReadSecret(prompt string) ([]byte, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return nil, masterDomain.ErrNoTerminal
	}

	_, _ = fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	return secret, nil
}

// Writer returns the prompt output.
func (p *TerminalPrompt) Writer() io.Writer {
	return p.out
}

// ReadConfirmed asks for the master secret twice until both entries match.
//
// Entries are compared in constant time and both buffers are wiped before the
// next attempt. An empty entry counts as a failed attempt. After maxAttempts
// failed pairs ErrPromptMismatch is returned; maxAttempts <= 0 retries forever.
// Read errors (including EOF) abort immediately.
func ReadConfirmed(prompt SecretPrompt, maxAttempts int) ([]byte, error) {
	for attempt := 1; maxAttempts <= 0 || attempt <= maxAttempts; attempt++ {
		first, err := prompt.ReadSecret(firstEntryPrompt)
		if err != nil {
			return nil, err
		}
		second, err := prompt.ReadSecret(secondEntryPrompt)
		if err != nil {
			cryptoDomain.Zero(first)
			return nil, err
		}

		match := len(first) > 0 && subtle.ConstantTimeCompare(first, second) == 1
		var secret []byte
		if match {
			secret = append([]byte(nil), first...)
		}
		cryptoDomain.ZeroAll(first, second)

		if match {
			return secret, nil
		}
		if len(first) == 0 {
			_, _ = fmt.Fprintln(prompt.Writer(), "Master secret must not be empty. Try again.")
		} else {
			_, _ = fmt.Fprintln(prompt.Writer(), "Secrets don't match. Try again.")
		}
	}
	return nil, masterDomain.ErrPromptMismatch
}
