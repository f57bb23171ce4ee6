package service

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/allisson/go-pwdhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	cryptoService "github.com/allisson/cmf/internal/crypto/service"
	keystoreDomain "github.com/allisson/cmf/internal/keystore/domain"
	masterDomain "github.com/allisson/cmf/internal/master/domain"
)

// staticMaster is a MasterSecretSource holding a fixed secret.
type staticMaster struct {
	secret []byte
}

func (m *staticMaster) MasterSecret() []byte {
	if m.secret == nil {
		return nil
	}
	return append([]byte(nil), m.secret...)
}

func (m *staticMaster) IsReady() bool {
	return m.secret != nil
}

func newTestKeystoreService(t *testing.T, dir string, master MasterSecretSource) *KeystoreService {
	t.Helper()
	verifier, err := NewSecretVerifier(pwdhash.PolicyInteractive)
	require.NoError(t, err)

	return NewKeystoreService(
		Options{
			KeystoreDir:   dir,
			ServiceName:   "gateway",
			KeyAlgorithm:  cryptoDomain.AESGCM,
			KDFIterations: 1000,
			LockTimeout:   time.Second,
		},
		master,
		cryptoService.NewAEADManager(),
		verifier,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestKeystoreService_GeneralKeystore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := newTestKeystoreService(t, dir, &staticMaster{})

	available, err := svc.IsKeystoreAvailable(ctx)
	require.NoError(t, err)
	assert.False(t, available)

	err = svc.AddSelfSignedCert(ctx, "tls", []byte("keypass"))
	assert.ErrorIs(t, err, keystoreDomain.ErrStoreNotFound)

	require.NoError(t, svc.CreateKeystore(ctx))
	require.NoError(t, svc.CreateKeystore(ctx))

	available, err = svc.IsKeystoreAvailable(ctx)
	require.NoError(t, err)
	assert.True(t, available)

	_, err = os.Stat(keystoreDomain.Path(dir, "gateway", keystoreDomain.KindGeneral))
	require.NoError(t, err)
}

func TestKeystoreService_SelfSignedCert(t *testing.T) {
	ctx := context.Background()
	svc := newTestKeystoreService(t, t.TempDir(), &staticMaster{})
	require.NoError(t, svc.CreateKeystore(ctx))
	require.NoError(t, svc.AddSelfSignedCert(ctx, "tls", []byte("keypass")))

	t.Run("certificate", func(t *testing.T) {
		cert, err := svc.GetCertificate(ctx, "tls")
		require.NoError(t, err)

		assert.Equal(t, "CN=hadoop,OU=Test,O=Hadoop,L=Test,ST=Test,C=US", cert.Subject.String())
		assert.Equal(t, cert.Subject.String(), cert.Issuer.String())
		assert.Equal(t, x509.ECDSAWithSHA256, cert.SignatureAlgorithm)
		assert.Equal(t, 365*24*time.Hour, cert.NotAfter.Sub(cert.NotBefore))
		assert.NoError(t, cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature))
	})

	t.Run("key matches certificate", func(t *testing.T) {
		key, err := svc.GetKey(ctx, "tls", []byte("keypass"))
		require.NoError(t, err)
		cert, err := svc.GetCertificate(ctx, "tls")
		require.NoError(t, err)

		ecKey, ok := key.(*ecdsa.PrivateKey)
		require.True(t, ok)
		assert.True(t, ecKey.PublicKey.Equal(cert.PublicKey))
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := svc.GetKey(ctx, "tls", []byte("wrong"))
		assert.ErrorIs(t, err, keystoreDomain.ErrKeyNotRecoverable)
	})

	t.Run("empty passphrase", func(t *testing.T) {
		_, err := svc.GetKey(ctx, "tls", nil)
		assert.ErrorIs(t, err, keystoreDomain.ErrKeyNotRecoverable)
	})

	t.Run("absent alias", func(t *testing.T) {
		_, err := svc.GetKey(ctx, "missing", []byte("keypass"))
		assert.ErrorIs(t, err, keystoreDomain.ErrKeyNotRecoverable)

		_, err = svc.GetCertificate(ctx, "missing")
		assert.ErrorIs(t, err, keystoreDomain.ErrEntryNotFound)
	})
}

func TestKeystoreService_CreateCredentialStore(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		dir := t.TempDir()
		svc := newTestKeystoreService(t, dir, &staticMaster{secret: []byte("s3cret")})

		available, err := svc.IsCredentialStoreAvailable(ctx)
		require.NoError(t, err)
		assert.False(t, available)

		require.NoError(t, svc.CreateCredentialStore(ctx))
		require.NoError(t, svc.AddCredential(ctx, "db.password", []byte("hunter2")))

		path := keystoreDomain.Path(dir, "gateway", keystoreDomain.KindCredential)
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		require.NoError(t, svc.CreateCredentialStore(ctx))

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		value, err := svc.GetCredential(ctx, "db.password")
		require.NoError(t, err)
		assert.Equal(t, []byte("hunter2"), value)
	})

	t.Run("master not ready", func(t *testing.T) {
		svc := newTestKeystoreService(t, t.TempDir(), &staticMaster{})
		assert.ErrorIs(t, svc.CreateCredentialStore(ctx), masterDomain.ErrNotInitialized)
	})

	t.Run("empty file left by interrupted create", func(t *testing.T) {
		dir := t.TempDir()
		path := keystoreDomain.Path(dir, "gateway", keystoreDomain.KindCredential)
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		svc := newTestKeystoreService(t, dir, &staticMaster{secret: []byte("s3cret")})

		available, err := svc.IsCredentialStoreAvailable(ctx)
		require.NoError(t, err)
		assert.False(t, available)

		value, err := svc.GetCredential(ctx, "db.password")
		require.NoError(t, err)
		assert.Nil(t, value)

		require.NoError(t, svc.CreateCredentialStore(ctx))
		require.NoError(t, svc.AddCredential(ctx, "db.password", []byte("hunter2")))

		value, err = svc.GetCredential(ctx, "db.password")
		require.NoError(t, err)
		assert.Equal(t, []byte("hunter2"), value)
	})

	t.Run("unloadable file", func(t *testing.T) {
		dir := t.TempDir()
		path := keystoreDomain.Path(dir, "gateway", keystoreDomain.KindCredential)
		require.NoError(t, os.WriteFile(path, []byte("not a keystore at all, just some bytes on disk"), 0o600))

		svc := newTestKeystoreService(t, dir, &staticMaster{secret: []byte("s3cret")})
		assert.ErrorIs(t, svc.CreateCredentialStore(ctx), keystoreDomain.ErrInvalidStore)

		_, err := svc.IsCredentialStoreAvailable(ctx)
		assert.ErrorIs(t, err, keystoreDomain.ErrInvalidStore)
	})
}

func TestKeystoreService_Credentials(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := newTestKeystoreService(t, dir, &staticMaster{secret: []byte("s3cret")})

	t.Run("absent store", func(t *testing.T) {
		value, err := svc.GetCredential(ctx, "db.password")
		require.NoError(t, err)
		assert.Nil(t, value)

		err = svc.AddCredential(ctx, "db.password", []byte("hunter2"))
		assert.ErrorIs(t, err, keystoreDomain.ErrStoreNotFound)

		aliases, err := svc.CredentialAliases(ctx)
		require.NoError(t, err)
		assert.Empty(t, aliases)
	})

	require.NoError(t, svc.CreateCredentialStore(ctx))

	t.Run("absent alias", func(t *testing.T) {
		value, err := svc.GetCredential(ctx, "db.password")
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, svc.AddCredential(ctx, "db.password", []byte("hunter2")))

		value, err := svc.GetCredential(ctx, "db.password")
		require.NoError(t, err)
		assert.Equal(t, []byte("hunter2"), value)
	})

	t.Run("empty value is present", func(t *testing.T) {
		require.NoError(t, svc.AddCredential(ctx, "empty", []byte{}))

		value, err := svc.GetCredential(ctx, "empty")
		require.NoError(t, err)
		assert.NotNil(t, value)
		assert.Empty(t, value)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, svc.AddCredential(ctx, "db.password", []byte("correct horse")))

		value, err := svc.GetCredential(ctx, "db.password")
		require.NoError(t, err)
		assert.Equal(t, []byte("correct horse"), value)
	})

	t.Run("aliases", func(t *testing.T) {
		aliases, err := svc.CredentialAliases(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"db.password", "empty"}, aliases)
	})

	t.Run("wrong master secret", func(t *testing.T) {
		other := newTestKeystoreService(t, dir, &staticMaster{secret: []byte("not-the-secret")})

		err := other.AddCredential(ctx, "db.password", []byte("overwritten"))
		assert.ErrorIs(t, err, keystoreDomain.ErrStoreAuthFailed)

		_, err = other.GetCredential(ctx, "db.password")
		assert.ErrorIs(t, err, keystoreDomain.ErrStoreAuthFailed)

		value, err := svc.GetCredential(ctx, "db.password")
		require.NoError(t, err)
		assert.Equal(t, []byte("correct horse"), value)
	})

	t.Run("master not ready", func(t *testing.T) {
		other := newTestKeystoreService(t, dir, &staticMaster{})

		_, err := other.GetCredential(ctx, "db.password")
		assert.ErrorIs(t, err, masterDomain.ErrNotInitialized)

		err = other.AddCredential(ctx, "db.password", []byte("x"))
		assert.ErrorIs(t, err, masterDomain.ErrNotInitialized)
	})
}

func TestKeystoreService_VerifyCredentialStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := newTestKeystoreService(t, dir, &staticMaster{secret: []byte("s3cret")})

	assert.ErrorIs(t, svc.VerifyCredentialStore(ctx), keystoreDomain.ErrStoreNotFound)

	require.NoError(t, svc.CreateCredentialStore(ctx))
	assert.NoError(t, svc.VerifyCredentialStore(ctx))

	other := newTestKeystoreService(t, dir, &staticMaster{secret: []byte("not-the-secret")})
	assert.ErrorIs(t, other.VerifyCredentialStore(ctx), keystoreDomain.ErrStoreAuthFailed)

	notReady := newTestKeystoreService(t, dir, &staticMaster{})
	assert.ErrorIs(t, notReady.VerifyCredentialStore(ctx), masterDomain.ErrNotInitialized)
}

func TestKeystoreService_StoresAreIndependent(t *testing.T) {
	ctx := context.Background()
	master := &staticMaster{secret: []byte("s3cret")}

	first := newTestKeystoreService(t, t.TempDir(), master)
	second := newTestKeystoreService(t, t.TempDir(), master)
	require.NoError(t, first.CreateCredentialStore(ctx))
	require.NoError(t, second.CreateCredentialStore(ctx))

	firstMeta, err := first.credentials.Meta(ctx)
	require.NoError(t, err)
	secondMeta, err := second.credentials.Meta(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, firstMeta.ID, secondMeta.ID)

	firstKey, err := cryptoService.DeriveSubkey(master.secret, firstMeta.ID[:], credentialKeyInfo)
	require.NoError(t, err)
	secondKey, err := cryptoService.DeriveSubkey(master.secret, secondMeta.ID[:], credentialKeyInfo)
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, secondKey)
}
