package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() { assert.NoError(t, keeper.Close()) }()

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok, "keeper should be *secrets.Keeper")
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedKMSScheme)
	})

	t.Run("Error_EmptyURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "")
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedKMSScheme)
		assert.Nil(t, keeper)
	})

	t.Run("Error_MalformedLocalKey", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "base64key://not-a-key")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, cryptoDomain.ErrUnsupportedKMSScheme)
		assert.Nil(t, keeper)
	})
}

func TestKMSService_WrapsPassphrase(t *testing.T) {
	ctx := context.Background()
	keeper, err := NewKMSService().OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, keeper.Close()) }()

	wrapped, err := keeper.Encrypt(ctx, []byte("deployment-passphrase"))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("deployment-passphrase"), wrapped)

	unwrapped, err := keeper.Decrypt(ctx, wrapped)
	require.NoError(t, err)
	assert.Equal(t, []byte("deployment-passphrase"), unwrapped)
}
