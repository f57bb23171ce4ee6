package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	cryptoService "github.com/allisson/cmf/internal/crypto/service"
)

// ResolvePassphrase returns the passphrase that wraps the persisted master file.
//
// With an empty keyURI the configured passphrase is used as-is. Otherwise the
// configured value is base64 KMS ciphertext and is unwrapped with the keeper
// opened for keyURI. The caller owns the returned buffer.
func ResolvePassphrase(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	passphrase, keyURI string,
	logger *slog.Logger,
) ([]byte, error) {
	if keyURI == "" {
		return []byte(passphrase), nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decode KMS-wrapped passphrase: %w", err)
	}

	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt passphrase with KMS: %w", err)
	}

	logger.Debug("master passphrase unwrapped with KMS")
	return plaintext, nil
}
