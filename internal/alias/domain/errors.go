package domain

import (
	"github.com/allisson/cmf/internal/errors"
)

// Alias error definitions.
var (
	// ErrConfigResolution indicates a configuration value looks like an alias
	// reference but is malformed.
	ErrConfigResolution = errors.Wrap(errors.ErrInvalidInput, "config value cannot be resolved")

	// ErrInvalidAlias indicates an alias name breaks the naming rules.
	ErrInvalidAlias = errors.Wrap(errors.ErrInvalidInput, "invalid alias name")
)
