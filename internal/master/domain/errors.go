package domain

import (
	"github.com/allisson/cmf/internal/errors"
)

// Master secret error definitions.
var (
	// ErrMasterService is the root of every master secret failure.
	ErrMasterService = errors.Wrap(errors.ErrInternal, "master service error")

	// ErrLoadFailed indicates a persisted master file exists but could not be
	// read, parsed or decrypted. It is never retried.
	ErrLoadFailed = errors.Wrap(ErrMasterService, "failed to load persisted master secret")

	// ErrNotInitialized indicates the master secret was requested before Setup completed.
	ErrNotInitialized = errors.Wrap(ErrMasterService, "master secret not initialized")

	// ErrPromptMismatch indicates the confirmation prompt never produced two matching entries.
	ErrPromptMismatch = errors.Wrap(ErrMasterService, "master secret entries did not match")

	// ErrNoTerminal indicates an interactive prompt was needed but stdin is not a terminal.
	ErrNoTerminal = errors.Wrap(ErrMasterService, "no terminal available for master secret prompt")

	// ErrInvalidRecord indicates the persisted master record is malformed.
	ErrInvalidRecord = errors.Wrap(errors.ErrInvalidInput, "invalid master record")
)
