package domain

import (
	"github.com/allisson/cmf/internal/errors"
)

// Keystore error definitions.
var (
	// ErrKeystore is the root of every keystore failure.
	ErrKeystore = errors.Wrap(errors.ErrInternal, "keystore error")

	// ErrKeyNotRecoverable indicates a key entry is absent or its passphrase is wrong.
	ErrKeyNotRecoverable = errors.Wrap(errors.ErrUnauthorized, "key not recoverable")

	// ErrStoreNotFound indicates the keystore file does not exist.
	ErrStoreNotFound = errors.Wrap(errors.ErrNotFound, "keystore not found")

	// ErrEntryNotFound indicates the alias has no entry in the keystore.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "keystore entry not found")

	// ErrInvalidStore indicates the file exists but is not a keystore of the expected kind.
	ErrInvalidStore = errors.Wrap(ErrKeystore, "invalid keystore")

	// ErrStoreLocked indicates another process held the keystore lock past the timeout.
	ErrStoreLocked = errors.Wrap(errors.ErrConflict, "keystore is locked by another process")

	// ErrStoreAuthFailed indicates the master secret does not match the one the
	// credential store was created with.
	ErrStoreAuthFailed = errors.Wrap(errors.ErrUnauthorized, "master secret does not match credential store")

	// ErrInvalidEntry indicates an entry has the wrong type or cannot be decoded.
	ErrInvalidEntry = errors.Wrap(ErrKeystore, "invalid keystore entry")
)
