package app

import (
	"fmt"

	aliasService "github.com/allisson/cmf/internal/alias/service"
	aliasUseCase "github.com/allisson/cmf/internal/alias/usecase"
)

// PasswordGenerator returns the generator used for new alias passwords.
func (c *Container) PasswordGenerator() aliasUseCase.PasswordGenerator {
	c.passwordGeneratorInit.Do(func() {
		c.passwordGenerator = aliasService.NewPasswordGenerator()
	})
	return c.passwordGenerator
}

// AliasUseCase returns the alias use case, wrapped with metrics when enabled.
func (c *Container) AliasUseCase() (aliasUseCase.AliasUseCase, error) {
	var err error
	c.aliasUseCaseInit.Do(func() {
		c.aliasUseCase, err = c.initAliasUseCase()
		if err != nil {
			c.initErrors["aliasUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["aliasUseCase"]; exists {
		return nil, storedErr
	}
	return c.aliasUseCase, nil
}

// initAliasUseCase creates the alias use case backed by the credential store.
func (c *Container) initAliasUseCase() (aliasUseCase.AliasUseCase, error) {
	keystore, err := c.KeystoreService()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore service for alias use case: %w", err)
	}

	baseUseCase := aliasUseCase.NewAliasUseCase(keystore, c.PasswordGenerator(), c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for alias use case: %w", err)
		}
		return aliasUseCase.NewAliasUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
