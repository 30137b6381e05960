package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/cli/config"
	"github.com/secmon-lab/opsdash/pkg/controller/snapshot"
	"github.com/secmon-lab/opsdash/pkg/controller/tui"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/service/clipboard"
	"github.com/secmon-lab/opsdash/pkg/service/table"
	"github.com/secmon-lab/opsdash/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdFeed(loggerCfg *config.Logger) *cli.Command {
	var (
		clientCfg config.Client
		themeCfg  config.Theme
		simCfg    config.Simulator
		once      bool
		demo      bool
		username  string
		status    string
	)

	flags := joinFlags(
		clientCfg.Flags(),
		themeCfg.Flags(),
		simCfg.Flags(),
		[]cli.Flag{
			demoFlag(&demo),
			&cli.BoolFlag{
				Name:        "once",
				Usage:       "Print one snapshot and exit instead of starting the terminal UI",
				Destination: &once,
			},
			&cli.StringFlag{
				Name:        "user",
				Usage:       "Show only transactions of this username",
				Destination: &username,
			},
			&cli.StringFlag{
				Name:        "status",
				Usage:       "Show only transactions with this status (e.g. COMPLETE, BAD_REQUEST)",
				Destination: &status,
			},
		},
	)

	return &cli.Command{
		Name:  "feed",
		Usage: "Follow the newest transactions of a running server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if status != "" && !types.Status(status).IsValid() {
				return goerr.New("unknown status",
					goerr.V("status", status),
					goerr.T(model.ErrTagInvalidArgument))
			}

			colors, err := themeCfg.Configure()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			filter := table.Filter{Username: username, Status: status}

			if once {
				source, err := dashboardAPI(ctx, &clientCfg, simCfg, demo)
				if err != nil {
					return err
				}
				uc := usecase.NewFeedUseCase(source, clientCfg.NumItems)
				uc.SetFilter(filter)

				loadErr := uc.LoadInitial(ctx)
				printer := snapshot.NewPrinter(os.Stdout,
					snapshot.WithColors(colors),
					snapshot.WithColorMode(clientCfg.ColorMode()),
				)
				if err := printer.PrintFeed(uc.View()); err != nil {
					return err
				}
				return loadErr
			}

			ctx, closer, err := tuiContext(ctx, loggerCfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			source, err := dashboardAPI(ctx, &clientCfg, simCfg, demo)
			if err != nil {
				return err
			}
			uc := usecase.NewFeedUseCase(source, clientCfg.NumItems)
			uc.SetFilter(filter)
			ctxlog.From(ctx).Info("starting feed UI", "client", clientCfg)

			m := tui.NewFeedModel(ctx, uc,
				tui.WithFeedColors(colors),
				tui.WithFeedRefresh(clientCfg.RefreshRate),
				tui.WithClipboard(clipboard.New()),
			)
			if err := m.Run(); err != nil {
				return goerr.Wrap(err, "failed to run live feed")
			}
			return nil
		},
	}
}
