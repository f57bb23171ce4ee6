package app

import (
	"fmt"

	"github.com/allisson/go-pwdhash"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	keystoreService "github.com/allisson/cmf/internal/keystore/service"
)

// SecretVerifier returns the verifier that binds a keystore to its master secret.
func (c *Container) SecretVerifier() (keystoreService.SecretVerifier, error) {
	var err error
	c.secretVerifierInit.Do(func() {
		c.secretVerifier, err = keystoreService.NewSecretVerifier(pwdhash.PolicyModerate)
		if err != nil {
			c.initErrors["secretVerifier"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretVerifier"]; exists {
		return nil, storedErr
	}
	return c.secretVerifier, nil
}

// KeystoreService returns the keystore service.
func (c *Container) KeystoreService() (*keystoreService.KeystoreService, error) {
	var err error
	c.keystoreServiceInit.Do(func() {
		c.keystoreService, err = c.initKeystoreService()
		if err != nil {
			c.initErrors["keystoreService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keystoreService"]; exists {
		return nil, storedErr
	}
	return c.keystoreService, nil
}

// initKeystoreService creates the keystore service reading the master secret
// from the master service.
func (c *Container) initKeystoreService() (*keystoreService.KeystoreService, error) {
	master, err := c.MasterService()
	if err != nil {
		return nil, fmt.Errorf("failed to get master service for keystore service: %w", err)
	}

	verifier, err := c.SecretVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret verifier for keystore service: %w", err)
	}

	alg, err := cryptoDomain.ParseAlgorithm(c.config.MasterCipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key algorithm: %w", err)
	}

	opts := keystoreService.Options{
		KeystoreDir:   c.config.KeystoreDir,
		ServiceName:   c.config.ServiceName,
		KeyAlgorithm:  alg,
		KDFIterations: c.config.KDFIterations,
		LockTimeout:   c.config.KeystoreLockTimeout,
	}

	return keystoreService.NewKeystoreService(opts, master, c.AEADManager(), verifier, c.Logger()), nil
}
