package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "secret bytes", input: []byte("masterpassphrase")},
		{name: "empty slice", input: []byte{}},
		{name: "nil slice", input: nil},
		{name: "key sized", input: []byte("0123456789abcdef0123456789abcdef")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() { Zero(tt.input) })
			assert.Equal(t, make([]byte, len(tt.input)), append([]byte{}, tt.input...))
		})
	}
}

func TestZeroAll(t *testing.T) {
	first := []byte("first")
	second := []byte("second entry")

	ZeroAll(first, nil, second)

	assert.Equal(t, make([]byte, 5), first)
	assert.Equal(t, make([]byte, 12), second)
}
