package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	cryptoService "github.com/allisson/cmf/internal/crypto/service"
	masterService "github.com/allisson/cmf/internal/master/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = c.initAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// PassphraseCipher returns the cipher that wraps the persisted master file.
func (c *Container) PassphraseCipher() (*cryptoService.PassphraseCipher, error) {
	var err error
	c.passphraseCipherInit.Do(func() {
		c.passphraseCipher, err = c.initPassphraseCipher()
		if err != nil {
			c.initErrors["passphraseCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passphraseCipher"]; exists {
		return nil, storedErr
	}
	return c.passphraseCipher, nil
}

// initAEADManager creates the AEAD manager service.
func (c *Container) initAEADManager() cryptoService.AEADManager {
	return cryptoService.NewAEADManager()
}

// initKMSService creates the KMS service for unwrapping the master passphrase.
func (c *Container) initKMSService() cryptoService.KMSService {
	return cryptoService.NewKMSService()
}

// initPassphraseCipher resolves the master passphrase, unwrapping it with KMS
// when a key URI is configured, and builds the cipher around it.
func (c *Container) initPassphraseCipher() (*cryptoService.PassphraseCipher, error) {
	logger := c.Logger()

	alg, err := cryptoDomain.ParseAlgorithm(c.config.MasterCipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse master cipher algorithm: %w", err)
	}

	passphrase, err := masterService.ResolvePassphrase(
		context.Background(),
		c.KMSService(),
		c.config.MasterPassphrase,
		c.config.MasterPassphraseKMSKeyURI,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve master passphrase: %w", err)
	}
	defer cryptoDomain.Zero(passphrase)

	if c.config.IsDefaultPassphrase() {
		logger.Warn("master file is wrapped with the default passphrase, set MASTER_PASSPHRASE")
	}

	cipher, err := cryptoService.NewPassphraseCipher(
		passphrase,
		alg,
		c.config.KDFIterations,
		c.AEADManager(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create passphrase cipher: %w", err)
	}
	return cipher, nil
}
