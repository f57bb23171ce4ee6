package app

import (
	"fmt"
	"os"

	masterService "github.com/allisson/cmf/internal/master/service"
)

// SecretPrompt returns the prompt used for the master secret and key passphrases.
// Defaults to the terminal on stdin, writing prompts to stderr.
func (c *Container) SecretPrompt() masterService.SecretPrompt {
	c.secretPromptInit.Do(func() {
		if c.secretPrompt == nil {
			c.secretPrompt = masterService.NewTerminalPrompt(os.Stdin, os.Stderr)
		}
	})
	return c.secretPrompt
}

// MasterService returns the master secret service.
func (c *Container) MasterService() (*masterService.MasterService, error) {
	var err error
	c.masterServiceInit.Do(func() {
		c.masterService, err = c.initMasterService()
		if err != nil {
			c.initErrors["masterService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterService"]; exists {
		return nil, storedErr
	}
	return c.masterService, nil
}

// initMasterService creates the master secret service with its cipher and prompt.
func (c *Container) initMasterService() (*masterService.MasterService, error) {
	cipher, err := c.PassphraseCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get passphrase cipher for master service: %w", err)
	}

	return masterService.NewMasterService(
		c.config.ServiceName,
		cipher,
		c.SecretPrompt(),
		c.config.PromptMaxAttempts,
		c.Logger(),
	), nil
}
