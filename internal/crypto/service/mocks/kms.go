// Package mocks provides mock implementations of crypto service dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// MockKMSService is a mock implementation of KMSService for testing.
type MockKMSService struct {
	mock.Mock
}

// OpenKeeper mocks the OpenKeeper method of KMSService.
func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

// MockKMSKeeper is a mock implementation of KMSKeeper for testing.
type MockKMSKeeper struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of KMSKeeper.
func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Decrypt mocks the Decrypt method of KMSKeeper.
func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Close mocks the Close method of KMSKeeper.
func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}
