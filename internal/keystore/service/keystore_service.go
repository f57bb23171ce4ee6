package service

import (
	"context"
	"crypto"
	"crypto/x509"
	"fmt"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	cryptoService "github.com/allisson/cmf/internal/crypto/service"
	apperrors "github.com/allisson/cmf/internal/errors"
	keystoreDomain "github.com/allisson/cmf/internal/keystore/domain"
	"github.com/allisson/cmf/internal/keystore/repository"
	masterDomain "github.com/allisson/cmf/internal/master/domain"
)

// credentialKeyInfo binds derived credential keys to their purpose.
const credentialKeyInfo = "cmf-credential-v1"

// Options configures a KeystoreService.
type Options struct {
	KeystoreDir string
	ServiceName string

	// KeyAlgorithm and KDFIterations configure the passphrase cipher that
	// seals private key entries.
	KeyAlgorithm  cryptoDomain.Algorithm
	KDFIterations int

	// LockTimeout bounds the wait for another process's file lock.
	LockTimeout time.Duration
}

// KeystoreService manages the general keystore and the credential store.
//
// Private keys in the general keystore are sealed under a per-entry
// passphrase. Credentials are sealed with AES-GCM under a key derived from
// the master secret and the store id, with the alias as associated data so an
// entry cannot be moved to another alias.
type KeystoreService struct {
	general     *repository.BoltStore
	credentials *repository.BoltStore
	master      MasterSecretSource
	aeadManager cryptoService.AEADManager
	verifier    SecretVerifier
	opts        Options
	logger      *slog.Logger
	now         func() time.Time
}

// NewKeystoreService creates a KeystoreService. Nothing is opened until an
// operation runs.
func NewKeystoreService(
	opts Options,
	master MasterSecretSource,
	aeadManager cryptoService.AEADManager,
	verifier SecretVerifier,
	logger *slog.Logger,
) *KeystoreService {
	return &KeystoreService{
		general: repository.NewBoltStore(
			keystoreDomain.Path(opts.KeystoreDir, opts.ServiceName, keystoreDomain.KindGeneral),
			keystoreDomain.KindGeneral,
			opts.LockTimeout,
		),
		credentials: repository.NewBoltStore(
			keystoreDomain.Path(opts.KeystoreDir, opts.ServiceName, keystoreDomain.KindCredential),
			keystoreDomain.KindCredential,
			opts.LockTimeout,
		),
		master:      master,
		aeadManager: aeadManager,
		verifier:    verifier,
		opts:        opts,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateKeystore creates the general keystore if it is absent.
func (s *KeystoreService) CreateKeystore(ctx context.Context) error {
	meta, created, err := s.general.Create(ctx, "", s.now())
	if err != nil {
		return err
	}
	if created {
		s.logger.Info(
			"keystore created",
			slog.String("path", s.general.Path()),
			slog.String("id", meta.ID.String()),
		)
	}
	return nil
}

// IsKeystoreAvailable reports whether the general keystore exists and loads.
func (s *KeystoreService) IsKeystoreAvailable(ctx context.Context) (bool, error) {
	return isAvailable(ctx, s.general)
}

// AddSelfSignedCert stores a new self-signed ECDSA key pair under alias. The
// private key is sealed under passphrase. An existing entry is replaced.
func (s *KeystoreService) AddSelfSignedCert(ctx context.Context, alias string, passphrase []byte) error {
	now := s.now().UTC()
	der, key, err := generateSelfSignedCert(now)
	if err != nil {
		return fmt.Errorf("%w: %w", keystoreDomain.ErrKeystore, err)
	}

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("%w: failed to encode private key: %w", keystoreDomain.ErrKeystore, err)
	}
	defer cryptoDomain.Zero(pkcs8)

	cipher, err := s.keyCipher(passphrase)
	if err != nil {
		return err
	}
	defer cipher.Close()

	result, err := cipher.Encrypt(pkcs8)
	if err != nil {
		return err
	}

	entry := &keystoreDomain.Entry{
		Type:       keystoreDomain.EntryPrivateKey,
		CreatedAt:  now,
		Salt:       result.Salt,
		IV:         result.IV,
		Ciphertext: result.Ciphertext,
		Chain:      [][]byte{der},
	}
	if err := s.general.Put(ctx, alias, entry); err != nil {
		return err
	}

	s.logger.Info("self-signed certificate added", slog.String("alias", alias))
	return nil
}

// GetKey returns the private key stored under alias. A wrong passphrase or an
// absent alias is ErrKeyNotRecoverable.
func (s *KeystoreService) GetKey(ctx context.Context, alias string, passphrase []byte) (crypto.PrivateKey, error) {
	entry, err := s.general.Get(ctx, alias)
	if err != nil {
		if apperrors.Is(err, keystoreDomain.ErrEntryNotFound) {
			return nil, fmt.Errorf("%w: %w", keystoreDomain.ErrKeyNotRecoverable, err)
		}
		return nil, err
	}
	if entry.Type != keystoreDomain.EntryPrivateKey {
		return nil, fmt.Errorf("%w: %q is not a private key entry", keystoreDomain.ErrKeyNotRecoverable, alias)
	}

	cipher, err := s.keyCipher(passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", keystoreDomain.ErrKeyNotRecoverable, err)
	}
	defer cipher.Close()

	pkcs8, err := cipher.Decrypt(entry.Salt, entry.IV, entry.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", keystoreDomain.ErrKeyNotRecoverable, err)
	}
	defer cryptoDomain.Zero(pkcs8)

	key, err := x509.ParsePKCS8PrivateKey(pkcs8)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", keystoreDomain.ErrInvalidEntry, err)
	}
	return key, nil
}

// GetCertificate returns the leaf certificate stored under alias.
func (s *KeystoreService) GetCertificate(ctx context.Context, alias string) (*x509.Certificate, error) {
	entry, err := s.general.Get(ctx, alias)
	if err != nil {
		return nil, err
	}
	if entry.Type != keystoreDomain.EntryPrivateKey || len(entry.Chain) == 0 {
		return nil, fmt.Errorf("%w: %q has no certificate", keystoreDomain.ErrInvalidEntry, alias)
	}

	cert, err := x509.ParseCertificate(entry.Chain[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", keystoreDomain.ErrInvalidEntry, err)
	}
	return cert, nil
}

// CreateCredentialStore creates the credential store if it is absent. An
// existing store is never overwritten; an existing file that does not load as
// a credential store is ErrInvalidStore.
func (s *KeystoreService) CreateCredentialStore(ctx context.Context) error {
	available, err := s.IsCredentialStoreAvailable(ctx)
	if err != nil || available {
		return err
	}

	master, err := s.masterSecret()
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(master)

	verifier, err := s.verifier.Hash(master)
	if err != nil {
		return fmt.Errorf("%w: %w", keystoreDomain.ErrKeystore, err)
	}

	meta, created, err := s.credentials.Create(ctx, verifier, s.now())
	if err != nil {
		return err
	}
	if created {
		s.logger.Info(
			"credential store created",
			slog.String("path", s.credentials.Path()),
			slog.String("id", meta.ID.String()),
		)
	}
	return nil
}

// IsCredentialStoreAvailable reports whether the credential store exists and
// loads. An absent file is false with no error.
func (s *KeystoreService) IsCredentialStoreAvailable(ctx context.Context) (bool, error) {
	return isAvailable(ctx, s.credentials)
}

// VerifyCredentialStore checks the current master secret against the
// verifier recorded when the credential store was created. A mismatch is
// ErrStoreAuthFailed and an absent store is ErrStoreNotFound.
func (s *KeystoreService) VerifyCredentialStore(ctx context.Context) error {
	master, err := s.masterSecret()
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(master)

	meta, err := s.credentials.Meta(ctx)
	if err != nil {
		return err
	}
	return s.authenticate(master, meta)
}

// AddCredential seals secret under alias, replacing any previous value. The
// current master secret must match the one the store was created with.
func (s *KeystoreService) AddCredential(ctx context.Context, alias string, secret []byte) error {
	master, err := s.masterSecret()
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(master)

	meta, err := s.credentials.Meta(ctx)
	if err != nil {
		return err
	}
	if err := s.authenticate(master, meta); err != nil {
		return err
	}

	aead, err := s.credentialCipher(master, meta)
	if err != nil {
		return err
	}

	ciphertext, nonce, err := aead.Encrypt(secret, []byte(alias))
	if err != nil {
		return fmt.Errorf("%w: %w", keystoreDomain.ErrKeystore, err)
	}

	return s.credentials.Put(ctx, alias, &keystoreDomain.Entry{
		Type:       keystoreDomain.EntrySecret,
		CreatedAt:  s.now().UTC(),
		IV:         nonce,
		Ciphertext: ciphertext,
	})
}

// GetCredential returns the secret stored under alias. It returns nil with no
// error when the store or the alias is absent, and a non-nil slice (possibly
// empty) when the alias is present.
func (s *KeystoreService) GetCredential(ctx context.Context, alias string) ([]byte, error) {
	master, err := s.masterSecret()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(master)

	meta, err := s.credentials.Meta(ctx)
	if err != nil {
		if apperrors.Is(err, keystoreDomain.ErrStoreNotFound) {
			return nil, nil
		}
		return nil, err
	}

	entry, err := s.credentials.Get(ctx, alias)
	if err != nil {
		if apperrors.Is(err, keystoreDomain.ErrEntryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if entry.Type != keystoreDomain.EntrySecret {
		return nil, fmt.Errorf("%w: %q is not a secret entry", keystoreDomain.ErrInvalidEntry, alias)
	}

	aead, err := s.credentialCipher(master, meta)
	if err != nil {
		return nil, err
	}

	secret, err := aead.Decrypt(entry.Ciphertext, entry.IV, []byte(alias))
	if err != nil {
		// Tell a wrong master secret apart from a damaged entry.
		if authErr := s.authenticate(master, meta); authErr != nil {
			return nil, authErr
		}
		return nil, fmt.Errorf("%w: %w", keystoreDomain.ErrInvalidEntry, err)
	}
	if secret == nil {
		secret = []byte{}
	}
	return secret, nil
}

// CredentialAliases lists the aliases in the credential store. An absent
// store has no aliases.
func (s *KeystoreService) CredentialAliases(ctx context.Context) ([]string, error) {
	aliases, err := s.credentials.Aliases(ctx)
	if apperrors.Is(err, keystoreDomain.ErrStoreNotFound) {
		return []string{}, nil
	}
	return aliases, err
}

func (s *KeystoreService) masterSecret() ([]byte, error) {
	if !s.master.IsReady() {
		return nil, masterDomain.ErrNotInitialized
	}
	master := s.master.MasterSecret()
	if master == nil {
		return nil, masterDomain.ErrNotInitialized
	}
	return master, nil
}

func (s *KeystoreService) authenticate(master []byte, meta *keystoreDomain.StoreMeta) error {
	if meta.Verifier == "" {
		return fmt.Errorf("%w: credential store has no verifier", keystoreDomain.ErrInvalidStore)
	}
	ok, err := s.verifier.Verify(master, meta.Verifier)
	if err != nil {
		return fmt.Errorf("%w: %w", keystoreDomain.ErrStoreAuthFailed, err)
	}
	if !ok {
		return keystoreDomain.ErrStoreAuthFailed
	}
	return nil
}

func (s *KeystoreService) credentialCipher(
	master []byte,
	meta *keystoreDomain.StoreMeta,
) (cryptoService.AEAD, error) {
	key, err := cryptoService.DeriveSubkey(master, meta.ID[:], credentialKeyInfo)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	return s.aeadManager.CreateCipher(key, cryptoDomain.AESGCM)
}

func (s *KeystoreService) keyCipher(passphrase []byte) (*cryptoService.PassphraseCipher, error) {
	return cryptoService.NewPassphraseCipher(
		passphrase,
		s.opts.KeyAlgorithm,
		s.opts.KDFIterations,
		s.aeadManager,
	)
}

func isAvailable(ctx context.Context, store *repository.BoltStore) (bool, error) {
	if _, err := store.Meta(ctx); err != nil {
		if apperrors.Is(err, keystoreDomain.ErrStoreNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
