package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cmf/cmd/app/commands"
	"github.com/allisson/cmf/internal/app"
	"github.com/allisson/cmf/internal/config"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands()...)
	cmds = append(cmds, getAliasCommands())
	cmds = append(cmds, getKeystoreCommands())
	return cmds
}

// persistFlag lets a command persist the master secret on first start even
// when PERSIST_MASTER is unset.
func persistFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "persist",
		Aliases: []string{"p"},
		Value:   false,
		Usage:   "Persist the master secret on first start (also PERSIST_MASTER)",
	}
}

// loadContainer loads and validates configuration and builds the container.
func loadContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.NewContainer(cfg), nil
}

// withServices starts the secret services, runs fn and stops them again.
func withServices(
	ctx context.Context,
	cmd *cli.Command,
	fn func(ctx context.Context, container *app.Container, bootstrap *app.Bootstrap) error,
) error {
	container, err := loadContainer()
	if err != nil {
		return err
	}

	persist := container.Config().PersistMaster || cmd.Bool("persist")
	bootstrap, stop, err := commands.StartServices(ctx, container, persist)
	if err != nil {
		return err
	}
	defer stop()

	return fn(ctx, container, bootstrap)
}
