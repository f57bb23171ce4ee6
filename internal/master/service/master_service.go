package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	cryptoService "github.com/allisson/cmf/internal/crypto/service"
	masterDomain "github.com/allisson/cmf/internal/master/domain"
)

const masterFileMode os.FileMode = 0o600

// MasterFilePath returns the location of the persisted master file for serviceName.
func MasterFilePath(securityDir, serviceName string) string {
	return filepath.Join(securityDir, serviceName+"-master")
}

// MasterService holds the process-wide master secret.
//
// It starts uninitialized and becomes ready after a successful Setup. The
// secret is never logged and Close zeroes it.
type MasterService struct {
	serviceName string
	cipher      cryptoService.SymmetricCipher
	prompt      SecretPrompt
	maxAttempts int
	logger      *slog.Logger
	now         func() time.Time

	mu     sync.RWMutex
	secret []byte
	ready  bool
}

// NewMasterService creates an uninitialized MasterService.
func NewMasterService(
	serviceName string,
	cipher cryptoService.SymmetricCipher,
	prompt SecretPrompt,
	maxAttempts int,
	logger *slog.Logger,
) *MasterService {
	return &MasterService{
		serviceName: serviceName,
		cipher:      cipher,
		prompt:      prompt,
		maxAttempts: maxAttempts,
		logger:      logger,
		now:         time.Now,
	}
}

// Setup acquires the master secret.
//
// When securityDir holds a master file for this service it is decrypted and
// used; any failure there is ErrLoadFailed and nothing is prompted. Otherwise
// the operator is warned and prompted twice. With persist set, the entered
// secret is encrypted and written to the master file; a write failure is
// logged and does not fail Setup.
func (m *MasterService) Setup(ctx context.Context, securityDir string, persist bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := MasterFilePath(securityDir, m.serviceName)

	secret, loaded, err := m.loadPersisted(path)
	if err != nil {
		return err
	}

	if !loaded {
		writeAdvisory(m.prompt.Writer(), persist)

		secret, err = ReadConfirmed(m.prompt, m.maxAttempts)
		if err != nil {
			return err
		}

		if persist {
			if err := m.persist(path, secret); err != nil {
				m.logger.Warn(
					"master secret was not persisted",
					slog.String("path", path),
					slog.Any("error", err),
				)
			} else {
				m.logger.Info("master secret persisted", slog.String("path", path))
			}
		}
	}

	m.mu.Lock()
	cryptoDomain.Zero(m.secret)
	m.secret = secret
	m.ready = true
	m.mu.Unlock()

	return nil
}

// MasterSecret returns a copy of the master secret, or nil before Setup.
func (m *MasterService) MasterSecret() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.ready {
		return nil
	}
	return append([]byte(nil), m.secret...)
}

// IsReady reports whether Setup has completed.
func (m *MasterService) IsReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// Close zeroes the master secret and returns the service to uninitialized.
func (m *MasterService) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cryptoDomain.Zero(m.secret)
	m.secret = nil
	m.ready = false
}

func (m *MasterService) loadPersisted(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %w", masterDomain.ErrLoadFailed, err)
	}

	record, err := masterDomain.ParseRecord(data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", masterDomain.ErrLoadFailed, err)
	}

	secret, err := m.cipher.Decrypt(record.Result.Salt, record.Result.IV, record.Result.Ciphertext)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", masterDomain.ErrLoadFailed, err)
	}

	m.logger.Info(
		"loaded persisted master secret",
		slog.String("path", path),
		slog.Time("created_at", record.CreatedAt),
	)
	return secret, true, nil
}

func (m *MasterService) persist(path string, secret []byte) error {
	result, err := m.cipher.Encrypt(secret)
	if err != nil {
		return err
	}

	record := &masterDomain.PersistedMasterRecord{
		CreatedAt: m.now(),
		Result:    *result,
	}
	return writeFileAtomic(path, record.Encode())
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so a crash leaves either the old file or the new one.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(masterFileMode); err != nil && runtime.GOOS != "windows" {
		_ = tmp.Close()
		return fmt.Errorf("failed to restrict temp file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write master file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync master file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close master file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename master file: %w", err)
	}
	return restrictPermissions(path)
}

// restrictPermissions limits path to its owner. Windows has no POSIX mode
// bits, so it is a no-op there.
func restrictPermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	if err := os.Chmod(path, masterFileMode); err != nil {
		return fmt.Errorf("failed to restrict master file permissions: %w", err)
	}
	return nil
}
