package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cmf/cmd/app/commands"
	"github.com/allisson/cmf/internal/app"
)

func getSystemCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "bootstrap",
			Usage: "Acquire the master secret and create the credential store",
			Flags: []cli.Flag{persistFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}

				bootstrap := app.NewBootstrap(container)
				defer func() {
					bootstrap.Stop()
					commands.CloseContainer(container, container.Logger())
				}()

				cfg := container.Config()
				return commands.RunBootstrap(
					ctx,
					bootstrap,
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.ServiceName,
					cfg.PersistMaster || cmd.Bool("persist"),
				)
			},
		},
		{
			Name:  "wrap-passphrase",
			Usage: "Encrypt a master passphrase with KMS for MASTER_PASSPHRASE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kms-key-uri",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "KMS key URI (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				return commands.RunWrapPassphrase(
					ctx,
					container.KMSService(),
					container.SecretPrompt(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
