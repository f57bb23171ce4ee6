package commands

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	masterService "github.com/allisson/cmf/internal/master/service"
)

// KeystoreManager is the subset of the keystore service used by the keystore commands.
type KeystoreManager interface {
	CreateKeystore(ctx context.Context) error
	IsKeystoreAvailable(ctx context.Context) (bool, error)
	AddSelfSignedCert(ctx context.Context, alias string, passphrase []byte) error
	GetKey(ctx context.Context, alias string, passphrase []byte) (crypto.PrivateKey, error)
	GetCertificate(ctx context.Context, alias string) (*x509.Certificate, error)
}

// RunKeystoreCreate creates the general keystore when it does not exist yet.
func RunKeystoreCreate(
	ctx context.Context,
	keystore KeystoreManager,
	logger *slog.Logger,
	writer io.Writer,
) error {
	available, err := keystore.IsKeystoreAvailable(ctx)
	if err != nil {
		return fmt.Errorf("failed to check keystore: %w", err)
	}
	if available {
		_, _ = fmt.Fprintln(writer, "Keystore already exists")
		return nil
	}

	if err := keystore.CreateKeystore(ctx); err != nil {
		return fmt.Errorf("failed to create keystore: %w", err)
	}

	logger.Info("keystore created")
	_, _ = fmt.Fprintln(writer, "Keystore created")
	return nil
}

// RunAddSelfSignedCert generates a key pair with a self-signed certificate and
// stores it under alias. The private key is sealed under a passphrase read
// twice from the prompt.
func RunAddSelfSignedCert(
	ctx context.Context,
	keystore KeystoreManager,
	prompt masterService.SecretPrompt,
	logger *slog.Logger,
	writer io.Writer,
	alias string,
) error {
	passphrase, err := readConfirmedSecret(prompt, "key passphrase")
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(passphrase)

	if err := keystore.AddSelfSignedCert(ctx, alias, passphrase); err != nil {
		return fmt.Errorf("failed to add self-signed certificate: %w", err)
	}

	logger.Info("self-signed certificate added", slog.String("alias", alias))
	_, _ = fmt.Fprintf(writer, "Added self-signed certificate %s\n", alias)
	return nil
}

// RunVerifyKey checks that the private key stored under alias can be
// recovered with the passphrase read from the prompt.
func RunVerifyKey(
	ctx context.Context,
	keystore KeystoreManager,
	prompt masterService.SecretPrompt,
	logger *slog.Logger,
	writer io.Writer,
	alias string,
) error {
	passphrase, err := prompt.ReadSecret("Enter key passphrase: ")
	if err != nil {
		return fmt.Errorf("failed to read key passphrase: %w", err)
	}
	defer cryptoDomain.Zero(passphrase)

	key, err := keystore.GetKey(ctx, alias, passphrase)
	if err != nil {
		return fmt.Errorf("failed to recover key: %w", err)
	}

	description := fmt.Sprintf("%T", key)
	if ecKey, ok := key.(*ecdsa.PrivateKey); ok {
		description = "ECDSA " + ecKey.Curve.Params().Name
	}

	logger.Info("key recovered", slog.String("alias", alias))
	_, _ = fmt.Fprintf(writer, "Key %s recovered (%s)\n", alias, description)
	return nil
}

// RunShowCert prints the certificate stored under alias as PEM, preceded by a
// short summary in text format, or as JSON.
func RunShowCert(
	ctx context.Context,
	keystore KeystoreManager,
	writer io.Writer,
	alias, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	cert, err := keystore.GetCertificate(ctx, alias)
	if err != nil {
		return fmt.Errorf("failed to get certificate: %w", err)
	}

	encoded := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"alias":      alias,
			"subject":    cert.Subject.String(),
			"serial":     cert.SerialNumber.String(),
			"not_before": cert.NotBefore.UTC().Format(time.RFC3339),
			"not_after":  cert.NotAfter.UTC().Format(time.RFC3339),
			"pem":        string(encoded),
		})
	}

	_, _ = fmt.Fprintf(writer, "# Subject: %s\n", cert.Subject.String())
	_, _ = fmt.Fprintf(writer, "# Valid: %s to %s\n",
		cert.NotBefore.UTC().Format(time.RFC3339),
		cert.NotAfter.UTC().Format(time.RFC3339),
	)
	_, err = writer.Write(encoded)
	return err
}
