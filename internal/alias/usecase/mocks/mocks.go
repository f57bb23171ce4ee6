// Package mocks provides mock implementations of alias use case dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockCredentialStore is a mock implementation of CredentialStore for testing.
type MockCredentialStore struct {
	mock.Mock
}

// NewMockCredentialStore creates a MockCredentialStore asserted at test end.
func NewMockCredentialStore(t testingT) *MockCredentialStore {
	m := &MockCredentialStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// GetCredential mocks the GetCredential method of CredentialStore.
func (m *MockCredentialStore) GetCredential(ctx context.Context, alias string) ([]byte, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// AddCredential mocks the AddCredential method of CredentialStore.
func (m *MockCredentialStore) AddCredential(ctx context.Context, alias string, secret []byte) error {
	return m.Called(ctx, alias, secret).Error(0)
}

// CredentialAliases mocks the CredentialAliases method of CredentialStore.
func (m *MockCredentialStore) CredentialAliases(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockPasswordGenerator is a mock implementation of PasswordGenerator for testing.
type MockPasswordGenerator struct {
	mock.Mock
}

// NewMockPasswordGenerator creates a MockPasswordGenerator asserted at test end.
func NewMockPasswordGenerator(t testingT) *MockPasswordGenerator {
	m := &MockPasswordGenerator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Generate mocks the Generate method of PasswordGenerator.
func (m *MockPasswordGenerator) Generate() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockAliasUseCase is a mock implementation of AliasUseCase for testing.
type MockAliasUseCase struct {
	mock.Mock
}

// NewMockAliasUseCase creates a MockAliasUseCase asserted at test end.
func NewMockAliasUseCase(t testingT) *MockAliasUseCase {
	m := &MockAliasUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// GetPasswordFromAlias mocks the GetPasswordFromAlias method of AliasUseCase.
func (m *MockAliasUseCase) GetPasswordFromAlias(ctx context.Context, alias string, generate bool) ([]byte, error) {
	args := m.Called(ctx, alias, generate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// GenerateAlias mocks the GenerateAlias method of AliasUseCase.
func (m *MockAliasUseCase) GenerateAlias(ctx context.Context, alias string) error {
	return m.Called(ctx, alias).Error(0)
}

// AddAlias mocks the AddAlias method of AliasUseCase.
func (m *MockAliasUseCase) AddAlias(ctx context.Context, alias string, value []byte) error {
	return m.Called(ctx, alias, value).Error(0)
}

// GetPasswordFromConfigValue mocks the GetPasswordFromConfigValue method of AliasUseCase.
func (m *MockAliasUseCase) GetPasswordFromConfigValue(ctx context.Context, value string) ([]byte, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// ListAliases mocks the ListAliases method of AliasUseCase.
func (m *MockAliasUseCase) ListAliases(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
