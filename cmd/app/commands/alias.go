package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	aliasUseCase "github.com/allisson/cmf/internal/alias/usecase"
	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
	masterService "github.com/allisson/cmf/internal/master/service"
)

// RunAliasGenerate stores a newly generated password under name, replacing
// any previous value. The password itself is not printed.
func RunAliasGenerate(
	ctx context.Context,
	useCase aliasUseCase.AliasUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
) error {
	if err := useCase.GenerateAlias(ctx, name); err != nil {
		return fmt.Errorf("failed to generate alias: %w", err)
	}

	logger.Info("alias generated", slog.String("alias", name))
	_, _ = fmt.Fprintf(writer, "Generated alias %s\n", name)
	return nil
}

// RunAliasAdd stores value under name. With an empty value the value is read
// twice from the prompt instead so it never appears in shell history. A value
// of "-" reads it from io.Reader, dropping one trailing newline.
func RunAliasAdd(
	ctx context.Context,
	useCase aliasUseCase.AliasUseCase,
	prompt masterService.SecretPrompt,
	logger *slog.Logger,
	io IOTuple,
	name, value string,
) error {
	var secret []byte
	var err error
	switch value {
	case "":
		secret, err = readConfirmedSecret(prompt, "alias value")
	case "-":
		secret, err = readSecretFrom(io.Reader, "alias value")
	default:
		secret = []byte(value)
	}
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(secret)

	if err := useCase.AddAlias(ctx, name, secret); err != nil {
		return fmt.Errorf("failed to add alias: %w", err)
	}

	logger.Info("alias added", slog.String("alias", name))
	_, _ = fmt.Fprintf(io.Writer, "Stored alias %s\n", name)
	return nil
}

// RunAliasGet prints the value stored under name. With generate set an absent
// alias is generated first.
func RunAliasGet(
	ctx context.Context,
	useCase aliasUseCase.AliasUseCase,
	writer io.Writer,
	name string,
	generate bool,
) error {
	value, err := useCase.GetPasswordFromAlias(ctx, name, generate)
	if err != nil {
		return fmt.Errorf("failed to get alias: %w", err)
	}
	if value == nil {
		return fmt.Errorf("alias %s not found", name)
	}
	defer cryptoDomain.Zero(value)

	_, err = fmt.Fprintln(writer, string(value))
	return err
}

// RunAliasResolve resolves a configuration value that may reference an alias
// and prints the result.
func RunAliasResolve(
	ctx context.Context,
	useCase aliasUseCase.AliasUseCase,
	writer io.Writer,
	value string,
) error {
	resolved, err := useCase.GetPasswordFromConfigValue(ctx, value)
	if err != nil {
		return fmt.Errorf("failed to resolve value: %w", err)
	}
	if resolved == nil {
		return fmt.Errorf("value %s references a missing alias", value)
	}
	defer cryptoDomain.Zero(resolved)

	_, err = fmt.Fprintln(writer, string(resolved))
	return err
}

// RunAliasList prints the stored alias names in text or JSON format.
func RunAliasList(
	ctx context.Context,
	useCase aliasUseCase.AliasUseCase,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	aliases, err := useCase.ListAliases(ctx)
	if err != nil {
		return fmt.Errorf("failed to list aliases: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"aliases": aliases,
			"count":   len(aliases),
		})
	}

	for _, alias := range aliases {
		_, _ = fmt.Fprintln(writer, alias)
	}
	return nil
}
