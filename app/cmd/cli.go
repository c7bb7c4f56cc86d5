package cmd

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"
)

func NewCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "storefront",
		Usage:  "Storefront cart, checkout and session tooling",
		Writer: out,
		Commands: []*cli.Command{
			cartCommand(),
			checkoutCommand(),
			ordersCommand(),
			loginCommand(),
			registerCommand(),
			logoutCommand(),
			whoamiCommand(),
			serveCommand(),
			migrateCommand(),
			generateKeysCommand(),
			createAdminCommand(),
			seedCommand(),
		},
	}
}

func RunCli(ctx context.Context, args []string, out io.Writer) error {
	return NewCommand(out).Run(ctx, args)
}
