package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/cli/config"
	"github.com/secmon-lab/opsdash/pkg/controller/snapshot"
	"github.com/urfave/cli/v3"
)

func cmdStatus() *cli.Command {
	var clientCfg config.Client

	return &cli.Command{
		Name:  "status",
		Usage: "Show the storage backend and record counts of a running server",
		Flags: clientCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := clientCfg.Configure()
			if err != nil {
				return err
			}

			status, err := client.GetDBStatus(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to get database status")
			}

			stats, err := client.GetDBTableStats(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to get collection statistics")
			}

			printer := snapshot.NewPrinter(os.Stdout, snapshot.WithColorMode(clientCfg.ColorMode()))
			if err := printer.PrintDBStatus(status); err != nil {
				return err
			}
			return printer.PrintDBTableStats(stats)
		},
	}
}
