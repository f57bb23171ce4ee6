package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cmf/cmd/app/commands"
	"github.com/allisson/cmf/internal/app"
)

func aliasNameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Required: true,
		Usage:    "Alias name",
	}
}

func getAliasCommands() *cli.Command {
	return &cli.Command{
		Name:  "alias",
		Usage: "Manage aliases in the credential store",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Store a generated password under an alias",
				Flags: []cli.Flag{aliasNameFlag(), persistFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withServices(ctx, cmd, func(ctx context.Context, c *app.Container, b *app.Bootstrap) error {
						return commands.RunAliasGenerate(
							ctx,
							b.AliasUseCase(),
							c.Logger(),
							commands.DefaultIO().Writer,
							cmd.String("name"),
						)
					})
				},
			},
			{
				Name:  "add",
				Usage: "Store a value under an alias",
				Flags: []cli.Flag{
					aliasNameFlag(),
					&cli.StringFlag{
						Name:    "value",
						Aliases: []string{"v"},
						Usage:   "Value to store (omit to enter it at the prompt, - to read stdin)",
					},
					persistFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withServices(ctx, cmd, func(ctx context.Context, c *app.Container, b *app.Bootstrap) error {
						return commands.RunAliasAdd(
							ctx,
							b.AliasUseCase(),
							c.SecretPrompt(),
							c.Logger(),
							commands.DefaultIO(),
							cmd.String("name"),
							cmd.String("value"),
						)
					})
				},
			},
			{
				Name:  "get",
				Usage: "Print the value stored under an alias",
				Flags: []cli.Flag{
					aliasNameFlag(),
					&cli.BoolFlag{
						Name:    "generate",
						Aliases: []string{"g"},
						Value:   false,
						Usage:   "Generate and store a password when the alias is absent",
					},
					persistFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withServices(ctx, cmd, func(ctx context.Context, c *app.Container, b *app.Bootstrap) error {
						return commands.RunAliasGet(
							ctx,
							b.AliasUseCase(),
							commands.DefaultIO().Writer,
							cmd.String("name"),
							cmd.Bool("generate"),
						)
					})
				},
			},
			{
				Name:  "resolve",
				Usage: "Resolve a configuration value that may reference an alias",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "value",
						Aliases:  []string{"v"},
						Required: true,
						Usage:    "Configuration value, e.g. ${ALIAS=db.password}",
					},
					persistFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withServices(ctx, cmd, func(ctx context.Context, c *app.Container, b *app.Bootstrap) error {
						return commands.RunAliasResolve(
							ctx,
							b.AliasUseCase(),
							commands.DefaultIO().Writer,
							cmd.String("value"),
						)
					})
				},
			},
			{
				Name:  "list",
				Usage: "List stored alias names",
				Flags: []cli.Flag{
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
						return commands.RunAliasList(
							ctx,
							b.AliasUseCase(),
							commands.DefaultIO().Writer,
							cmd.String("format"),
						)
					})
				},
			},
		},
	}
}
