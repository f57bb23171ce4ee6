// Package domain defines alias names and the ${ALIAS=name} reference syntax
// used in configuration values.
package domain

import (
	"fmt"
	"strings"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/cmf/internal/validation"
)

const (
	// ReferencePrefix starts an alias reference in a configuration value.
	ReferencePrefix = "${ALIAS="

	// ReferenceSuffix ends an alias reference.
	ReferenceSuffix = "}"

	// MaxAliasLength is the longest alias name in bytes.
	MaxAliasLength = 255
)

// Expression is a parsed configuration value: either a literal or a
// reference to an alias.
type Expression struct {
	Alias   string
	Literal string
}

// IsAlias reports whether the value referenced an alias.
func (e Expression) IsAlias() bool {
	return e.Alias != ""
}

// Reference formats alias as a configuration value reference.
func Reference(alias string) string {
	return ReferencePrefix + alias + ReferenceSuffix
}

// ValidateAlias checks alias against the naming rules: 1 to 255 bytes, no
// whitespace, no control characters and no closing brace.
func ValidateAlias(alias string) error {
	err := validation.Validate(alias,
		validation.Required,
		validation.Length(1, MaxAliasLength),
		customValidation.NoSpaceOrControl,
		customValidation.NoneOf(ReferenceSuffix),
	)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidAlias, alias, err)
	}
	return nil
}

// ParseConfigValue classifies a configuration value.
//
// A value that is exactly ${ALIAS=<name>} is an alias reference. A value that
// starts with ${ALIAS= but is not a well-formed reference (unterminated,
// trailing text, or an invalid name) is ErrConfigResolution. Anything else,
// including the empty string, is a literal.
func ParseConfigValue(value string) (Expression, error) {
	if !strings.HasPrefix(value, ReferencePrefix) {
		return Expression{Literal: value}, nil
	}

	rest := strings.TrimPrefix(value, ReferencePrefix)
	end := strings.Index(rest, ReferenceSuffix)
	if end < 0 {
		return Expression{}, fmt.Errorf("%w: unterminated alias reference", ErrConfigResolution)
	}
	if end != len(rest)-len(ReferenceSuffix) {
		return Expression{}, fmt.Errorf("%w: unexpected text after alias reference", ErrConfigResolution)
	}

	alias := rest[:end]
	if err := ValidateAlias(alias); err != nil {
		return Expression{}, fmt.Errorf("%w: %w", ErrConfigResolution, err)
	}
	return Expression{Alias: alias}, nil
}
