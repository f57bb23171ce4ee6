package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/cmf/internal/errors"
)

func TestNoWhitespace(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "no whitespace", input: "hello", shouldErr: false},
		{name: "inner space allowed", input: "hello world", shouldErr: false},
		{name: "leading space", input: " hello", shouldErr: true},
		{name: "trailing newline", input: "hello\n", shouldErr: true},
		{name: "empty string", input: "", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.input, NoWhitespace)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "non-blank string", input: "hello", shouldErr: false},
		{name: "only spaces", input: "   ", shouldErr: true},
		{name: "only tabs and newlines", input: "\t\n", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.input, NotBlank)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoSpaceOrControl(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "dotted name", input: "db.password", shouldErr: false},
		{name: "unicode letters", input: "clé", shouldErr: false},
		{name: "inner space", input: "db password", shouldErr: true},
		{name: "tab", input: "db\tpassword", shouldErr: true},
		{name: "nul byte", input: "db\x00password", shouldErr: true},
		{name: "escape", input: "db\x1bpassword", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.input, NoSpaceOrControl)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoneOf(t *testing.T) {
	rule := NoneOf("{}")

	assert.NoError(t, validation.Validate("db.password", rule))
	assert.Error(t, validation.Validate("db}password", rule))
	assert.Error(t, validation.Validate("{db", rule))
}

func TestKMSCiphertext(t *testing.T) {
	assert.NoError(t, validation.Validate("aGVsbG8=", KMSCiphertext))
	assert.NoError(t, validation.Validate("", KMSCiphertext))
	assert.Error(t, validation.Validate("%%%", KMSCiphertext))
	assert.Error(t, validation.Validate("aGVsbG8", KMSCiphertext))
	assert.Error(t, validation.Validate("====", KMSCiphertext))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, WrapValidationError(nil))
	})

	t.Run("validation error", func(t *testing.T) {
		err := WrapValidationError(errors.New("name: cannot be blank"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "name: cannot be blank")
	})
}
