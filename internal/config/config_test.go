package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/cmf/internal/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "./security", cfg.SecurityDir)
				assert.Equal(t, "./keystores", cfg.KeystoreDir)
				assert.Equal(t, "cmf", cfg.ServiceName)
				assert.False(t, cfg.PersistMaster)
				assert.Equal(t, "masterpassphrase", cfg.MasterPassphrase)
				assert.Empty(t, cfg.MasterPassphraseKMSKeyURI)
				assert.Equal(t, "aes-gcm", cfg.MasterCipherAlgorithm)
				assert.Equal(t, 65536, cfg.KDFIterations)
				assert.Equal(t, 3, cfg.PromptMaxAttempts)
				assert.Equal(t, 5*time.Second, cfg.KeystoreLockTimeout)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "cmf", cfg.MetricsNamespace)
				assert.True(t, cfg.IsDefaultPassphrase())
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name: "load custom file configuration",
			envVars: map[string]string{
				"SECURITY_DIR":   "/etc/gateway/security",
				"KEYSTORE_DIR":   "/var/lib/gateway/keystores",
				"SERVICE_NAME":   "gateway",
				"PERSIST_MASTER": "true",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/etc/gateway/security", cfg.SecurityDir)
				assert.Equal(t, "/var/lib/gateway/keystores", cfg.KeystoreDir)
				assert.Equal(t, "gateway", cfg.ServiceName)
				assert.True(t, cfg.PersistMaster)
			},
		},
		{
			name: "load custom master configuration",
			envVars: map[string]string{
				"MASTER_PASSPHRASE":             "d3JhcHBlZA==",
				"MASTER_PASSPHRASE_KMS_KEY_URI": "hashivault://cmf",
				"MASTER_CIPHER_ALGORITHM":       "chacha20-poly1305",
				"KDF_ITERATIONS":                "200000",
				"PROMPT_MAX_ATTEMPTS":           "0",
				"KEYSTORE_LOCK_TIMEOUT_SECONDS": "30",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "hashivault://cmf", cfg.MasterPassphraseKMSKeyURI)
				assert.Equal(t, "chacha20-poly1305", cfg.MasterCipherAlgorithm)
				assert.Equal(t, 200000, cfg.KDFIterations)
				assert.Equal(t, 0, cfg.PromptMaxAttempts)
				assert.Equal(t, 30*time.Second, cfg.KeystoreLockTimeout)
				assert.False(t, cfg.IsDefaultPassphrase())
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL":       "debug",
				"METRICS_ENABLED": "false",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.False(t, cfg.MetricsEnabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			// Load configuration
			cfg := Load()

			// Validate
			tt.validate(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		os.Clearenv()
		return Load()
	}

	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{name: "empty service name", mutate: func(cfg *Config) { cfg.ServiceName = "" }},
		{name: "service name with slash", mutate: func(cfg *Config) { cfg.ServiceName = "a/b" }},
		{name: "service name with space", mutate: func(cfg *Config) { cfg.ServiceName = "a b" }},
		{name: "blank security dir", mutate: func(cfg *Config) { cfg.SecurityDir = "  " }},
		{name: "empty passphrase", mutate: func(cfg *Config) { cfg.MasterPassphrase = "" }},
		{
			name: "kms passphrase not base64",
			mutate: func(cfg *Config) {
				cfg.MasterPassphraseKMSKeyURI = "hashivault://cmf"
				cfg.MasterPassphrase = "not base64!"
			},
		},
		{
			name: "kms key uri with whitespace",
			mutate: func(cfg *Config) {
				cfg.MasterPassphraseKMSKeyURI = " hashivault://cmf"
				cfg.MasterPassphrase = "d3JhcHBlZA=="
			},
		},
		{name: "unknown algorithm", mutate: func(cfg *Config) { cfg.MasterCipherAlgorithm = "des" }},
		{name: "too few iterations", mutate: func(cfg *Config) { cfg.KDFIterations = 10 }},
		{name: "negative attempts", mutate: func(cfg *Config) { cfg.PromptMaxAttempts = -1 }},
		{name: "unknown log level", mutate: func(cfg *Config) { cfg.LogLevel = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), apperrors.ErrInvalidInput)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	os.Clearenv()
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("SERVICE_NAME=from-dotenv\n"), 0o600))

	t.Chdir(nested)

	cfg := Load()
	assert.Equal(t, "from-dotenv", cfg.ServiceName)
}
