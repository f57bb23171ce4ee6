package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cmf/cmd/app/commands"
	"github.com/allisson/cmf/internal/app"
)

func certAliasFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "alias",
		Aliases:  []string{"a"},
		Required: true,
		Usage:    "Key entry alias",
	}
}

func getKeystoreCommands() *cli.Command {
	return &cli.Command{
		Name:  "keystore",
		Usage: "Manage the general keystore",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create the general keystore",
				Flags: []cli.Flag{persistFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withServices(ctx, cmd, func(ctx context.Context, c *app.Container, b *app.Bootstrap) error {
						return commands.RunKeystoreCreate(
							ctx,
							b.KeystoreService(),
							c.Logger(),
							commands.DefaultIO().Writer,
						)
					})
				},
			},
			{
				Name:  "add-self-signed-cert",
				Usage: "Generate a key pair with a self-signed certificate",
				Flags: []cli.Flag{certAliasFlag(), persistFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withServices(ctx, cmd, func(ctx context.Context, c *app.Container, b *app.Bootstrap) error {
						return commands.RunAddSelfSignedCert(
							ctx,
							b.KeystoreService(),
							c.SecretPrompt(),
							c.Logger(),
							commands.DefaultIO().Writer,
							cmd.String("alias"),
						)
					})
				},
			},
			{
				Name:  "verify-key",
				Usage: "Check that a key entry can be recovered with its passphrase",
				Flags: []cli.Flag{certAliasFlag(), persistFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withServices(ctx, cmd, func(ctx context.Context, c *app.Container, b *app.Bootstrap) error {
						return commands.RunVerifyKey(
							ctx,
							b.KeystoreService(),
							c.SecretPrompt(),
							c.Logger(),
							commands.DefaultIO().Writer,
							cmd.String("alias"),
						)
					})
				},
			},
			{
				Name:  "show-cert",
				Usage: "Print a stored certificate as PEM",
				Flags: []cli.Flag{
					certAliasFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
					persistFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withServices(ctx, cmd, func(ctx context.Context, c *app.Container, b *app.Bootstrap) error {
						return commands.RunShowCert(
							ctx,
							b.KeystoreService(),
							commands.DefaultIO().Writer,
							cmd.String("alias"),
							cmd.String("format"),
						)
					})
				},
			},
		},
	}
}
