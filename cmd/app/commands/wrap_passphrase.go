package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	cryptoService "github.com/allisson/cmf/internal/crypto/service"
	masterService "github.com/allisson/cmf/internal/master/service"
)

// RunWrapPassphrase reads a master passphrase from the prompt, encrypts it
// with the KMS key at kmsKeyURI and prints the environment variables that make
// the application unwrap it at startup. The passphrase is zeroed after use.
//
// For local development, use kmsKeyURI="base64key://<32-byte-base64-key>".
//
// Output format:
//   - MASTER_PASSPHRASE="<base64-encoded-kms-ciphertext>"
//   - MASTER_PASSPHRASE_KMS_KEY_URI="<uri>"
func RunWrapPassphrase(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	prompt masterService.SecretPrompt,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	if kmsKeyURI == "" {
		return fmt.Errorf(
			"--kms-key-uri is required\n\nFor local development, use:\n  --kms-key-uri=\"base64key://<32-byte-base64-key>\"\n\nFor production, use a cloud KMS:\n  --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"\n  --kms-key-uri=\"awskms:///alias/...\"\n  --kms-key-uri=\"azurekeyvault://...\"\n  --kms-key-uri=\"hashivault://...\"",
		)
	}

	passphrase, err := readConfirmedSecret(prompt, "master passphrase")
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(passphrase)

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, passphrase)
	if err != nil {
		return fmt.Errorf("failed to encrypt passphrase with KMS: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(ciphertext)

	_, _ = fmt.Fprintln(writer, "# Master Passphrase Configuration (KMS Mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "MASTER_PASSPHRASE=\"%s\"\n", encoded)
	_, _ = fmt.Fprintf(writer, "MASTER_PASSPHRASE_KMS_KEY_URI=\"%s\"\n", kmsKeyURI)

	logger.Info("master passphrase wrapped with KMS")
	return nil
}
