package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/cli/config"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/repository"
	"github.com/secmon-lab/opsdash/pkg/usecase"
	"github.com/secmon-lab/opsdash/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// tuiContext swaps the logger for one that stays off the terminal while a
// full screen UI runs. The closer releases the log file.
func tuiContext(ctx context.Context, loggerCfg *config.Logger) (context.Context, io.Closer, error) {
	logger, closer, err := loggerCfg.ConfigureForTUI()
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return ctxlog.With(ctx, logger), closer, nil
}

const (
	demoSeedCount = 500
	demoInterval  = 2 * time.Second
)

// demoAPI serves the client commands from an in-process memory store that
// the simulator fills, so the UI can be tried without a server. Live
// generation stops when ctx is cancelled.
func demoAPI(ctx context.Context, simCfg config.Simulator) (interfaces.DashboardAPI, error) {
	if simCfg.SeedCount == 0 {
		simCfg.SeedCount = demoSeedCount
	}
	if simCfg.Interval == 0 {
		simCfg.Interval = demoInterval
	}

	repo := repository.NewMemory()
	sim, err := simCfg.Configure(repo)
	if err != nil {
		return nil, err
	}
	if err := sim.Seed(ctx, simCfg.SeedCount, simCfg.SeedSpan); err != nil {
		return nil, goerr.Wrap(err, "failed to seed demo transactions")
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		return sim.Run(ctx, simCfg.Interval, simCfg.Batch)
	}, async.WithName("demo-simulator"), async.WithCancellation())

	return usecase.NewLocalAPI(usecase.NewBackendUseCase(repo)), nil
}

// dashboardAPI returns the in-process demo source when demo is set and the
// HTTP client of clientCfg otherwise
func dashboardAPI(ctx context.Context, clientCfg *config.Client, simCfg config.Simulator, demo bool) (interfaces.DashboardAPI, error) {
	if !demo {
		return clientCfg.Configure()
	}
	if err := clientCfg.Validate(); err != nil {
		return nil, err
	}
	ctxlog.From(ctx).Info("serving from in-process demo data", "simulator", simCfg)
	return demoAPI(ctx, simCfg)
}

func demoFlag(demo *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "demo",
		Usage:       "Use synthetic in-process data instead of a server (tune with --simulate-* flags)",
		Destination: demo,
	}
}
