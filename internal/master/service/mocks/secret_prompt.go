// Package mocks provides mock implementations of master service dependencies.
package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

// MockSecretPrompt is a mock implementation of SecretPrompt for testing.
type MockSecretPrompt struct {
	mock.Mock
}

// NewMockSecretPrompt creates a MockSecretPrompt whose expectations are
// asserted when the test ends.
func NewMockSecretPrompt(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSecretPrompt {
	m := &MockSecretPrompt{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ReadSecret mocks the ReadSecret method of SecretPrompt.
func (m *MockSecretPrompt) ReadSecret(prompt string) ([]byte, error) {
	args := m.Called(prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Writer mocks the Writer method of SecretPrompt.
func (m *MockSecretPrompt) Writer() io.Writer {
	args := m.Called()
	return args.Get(0).(io.Writer)
}

// ExpectEntries queues one first/second entry pair per value. Each call returns
// a fresh buffer so wiping one entry never affects another.
func (m *MockSecretPrompt) ExpectEntries(pairs ...[2]string) {
	for _, pair := range pairs {
		m.On("ReadSecret", "Enter master secret: ").Return([]byte(pair[0]), nil).Once()
		m.On("ReadSecret", "Enter master secret again: ").Return([]byte(pair[1]), nil).Once()
	}
}
