// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	customValidation "github.com/allisson/cmf/internal/validation"
)

// DefaultMasterPassphrase wraps the persisted master file when no passphrase
// is configured. It is compiled into the binary, so with the default the
// master file is only obfuscated and its protection is the file mode.
const DefaultMasterPassphrase = "masterpassphrase"

// Config holds all application configuration.
type Config struct {
	// SecurityDir holds the persisted master file.
	SecurityDir string
	// KeystoreDir holds the general keystore and the credential store.
	KeystoreDir string
	// ServiceName prefixes every file the service owns.
	ServiceName string

	// PersistMaster writes the master secret to disk on first start.
	PersistMaster bool
	// MasterPassphrase wraps the persisted master file.
	MasterPassphrase string
	// MasterPassphraseKMSKeyURI, when set, means MasterPassphrase is base64
	// KMS ciphertext to be unwrapped with this key (gcpkms://, awskms://,
	// azurekeyvault://, hashivault://, base64key://).
	MasterPassphraseKMSKeyURI string
	// MasterCipherAlgorithm is the AEAD for passphrase-sealed data.
	MasterCipherAlgorithm string
	// KDFIterations is the PBKDF2-SHA256 iteration count for passphrase keys.
	KDFIterations int

	// PromptMaxAttempts bounds mismatched confirmation pairs; 0 retries forever.
	PromptMaxAttempts int
	// KeystoreLockTimeout bounds the wait for another process's keystore lock.
	KeystoreLockTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Files
		SecurityDir: env.GetString("SECURITY_DIR", "./security"),
		KeystoreDir: env.GetString("KEYSTORE_DIR", "./keystores"),
		ServiceName: env.GetString("SERVICE_NAME", "cmf"),

		// Master secret
		PersistMaster:             env.GetBool("PERSIST_MASTER", false),
		MasterPassphrase:          env.GetString("MASTER_PASSPHRASE", DefaultMasterPassphrase),
		MasterPassphraseKMSKeyURI: env.GetString("MASTER_PASSPHRASE_KMS_KEY_URI", ""),
		MasterCipherAlgorithm:     env.GetString("MASTER_CIPHER_ALGORITHM", string(cryptoDomain.AESGCM)),
		KDFIterations:             env.GetInt("KDF_ITERATIONS", cryptoDomain.DefaultKDFIterations),
		PromptMaxAttempts:         env.GetInt("PROMPT_MAX_ATTEMPTS", 3),

		// Keystores
		KeystoreLockTimeout: env.GetDuration("KEYSTORE_LOCK_TIMEOUT_SECONDS", 5, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "cmf"),
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidInput.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.SecurityDir, validation.Required, customValidation.NotBlank),
		validation.Field(&c.KeystoreDir, validation.Required, customValidation.NotBlank),
		validation.Field(&c.ServiceName,
			validation.Required,
			customValidation.NoSpaceOrControl,
			customValidation.NoneOf(`/\`),
		),
		validation.Field(&c.MasterPassphrase,
			validation.Required,
			validation.When(c.MasterPassphraseKMSKeyURI != "", customValidation.KMSCiphertext),
		),
		validation.Field(&c.MasterPassphraseKMSKeyURI, customValidation.NoWhitespace),
		validation.Field(&c.MasterCipherAlgorithm,
			validation.In(string(cryptoDomain.AESGCM), string(cryptoDomain.ChaCha20)),
		),
		validation.Field(&c.KDFIterations, validation.Min(1000)),
		validation.Field(&c.PromptMaxAttempts, validation.Min(0)),
		validation.Field(&c.KeystoreLockTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
	return customValidation.WrapValidationError(err)
}

// IsDefaultPassphrase reports whether the master file is wrapped with the
// compiled-in passphrase.
func (c *Config) IsDefaultPassphrase() bool {
	return c.MasterPassphraseKMSKeyURI == "" && c.MasterPassphrase == DefaultMasterPassphrase
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
