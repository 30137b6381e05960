package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/cli/config"
	"github.com/secmon-lab/opsdash/pkg/controller/snapshot"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdClear() *cli.Command {
	var (
		clientCfg config.Client
		yes       bool
	)

	flags := joinFlags(
		clientCfg.Flags(),
		[]cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "Confirm removal of every stored transaction",
				Destination: &yes,
			},
		},
	)

	return &cli.Command{
		Name:  "clear",
		Usage: "Remove every stored transaction of a running server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if !yes {
				return goerr.New("refusing to clear the database without --yes",
					goerr.T(model.ErrTagInvalidArgument))
			}

			client, err := clientCfg.Configure()
			if err != nil {
				return err
			}

			result, err := client.ClearDatabase(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to clear database")
			}
			ctxlog.From(ctx).Info("database cleared", "success", result.Success)

			snapshot.NewPrinter(os.Stdout, snapshot.WithColorMode(clientCfg.ColorMode())).PrintClearResult(result)
			return nil
		},
	}
}
