// Package validation provides custom jellydator/validation rules shared by
// configuration and alias handling.
package validation

import (
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/cmf/internal/errors"
)

// WrapValidationError wraps validation errors as ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoSpaceOrControl rejects any whitespace or control character, anywhere in the string.
var NoSpaceOrControl = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.IndexFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsControl(r)
		}) < 0
	},
	validation.NewError("validation_no_space_or_control", "must not contain whitespace or control characters"),
)

// NoneOf rejects strings containing any of chars.
func NoneOf(chars string) validation.StringRule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			return !strings.ContainsAny(s, chars)
		},
		validation.NewError("validation_none_of", "must not contain any of "+chars),
	)
}
