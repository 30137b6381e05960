package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/cli/config"
	"github.com/secmon-lab/opsdash/pkg/controller/snapshot"
	"github.com/secmon-lab/opsdash/pkg/controller/tui"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
	"github.com/secmon-lab/opsdash/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdDashboard(loggerCfg *config.Logger) *cli.Command {
	var (
		clientCfg config.Client
		themeCfg  config.Theme
		simCfg    config.Simulator
		once      bool
		demo      bool
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
		},
	)

	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show the statistics dashboard of a running server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			colors, err := themeCfg.Configure()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			if once {
				source, err := dashboardAPI(ctx, &clientCfg, simCfg, demo)
				if err != nil {
					return err
				}
				uc := usecase.NewDashboardUseCase(source, chart.NewRenderer(colors), types.TimeWindow(clientCfg.TimeWindow))

				ctxlog.From(ctx).Debug("printing dashboard snapshot", "client", clientCfg)
				resp, fetchErr := uc.Fetch(ctx)
				printer := snapshot.NewPrinter(os.Stdout,
					snapshot.WithColors(colors),
					snapshot.WithColorMode(clientCfg.ColorMode()),
				)
				if err := printer.PrintDashboard(uc.View(resp, fetchErr)); err != nil {
					return err
				}
				return fetchErr
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
			uc := usecase.NewDashboardUseCase(source, chart.NewRenderer(colors), types.TimeWindow(clientCfg.TimeWindow))
			ctxlog.From(ctx).Info("starting dashboard UI", "client", clientCfg)

			m := tui.NewDashboardModel(ctx, uc,
				tui.WithDashboardColors(colors),
				tui.WithDashboardRefresh(clientCfg.RefreshRate),
			)
			if err := m.Run(); err != nil {
				return goerr.Wrap(err, "failed to run dashboard")
			}
			return nil
		},
	}
}
