package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/cli/config"
	controller "github.com/secmon-lab/opsdash/pkg/controller/http"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
	"github.com/secmon-lab/opsdash/pkg/usecase"
	"github.com/secmon-lab/opsdash/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		firestoreCfg config.Firestore
		themeCfg     config.Theme
		simCfg       config.Simulator
	)

	flags := joinFlags(
		serverCfg.Flags(),
		firestoreCfg.Flags(),
		themeCfg.Flags(),
		simCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting opsdash server",
				slog.Any("server", serverCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("theme", themeCfg),
				slog.Any("simulator", simCfg),
			)

			colors, err := themeCfg.Configure()
			if err != nil {
				return err
			}

			// Create repository using config
			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			var backendOpts []usecase.BackendOption
			if host := serverCfg.ReportedHost(); host != "" {
				backendOpts = append(backendOpts, usecase.WithHost(host))
			}
			backend := usecase.NewBackendUseCase(repo, backendOpts...)

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			if simCfg.Enabled() {
				sim, err := simCfg.Configure(repo)
				if err != nil {
					return err
				}
				if simCfg.SeedCount > 0 {
					if err := sim.Seed(ctx, simCfg.SeedCount, simCfg.SeedSpan); err != nil {
						return goerr.Wrap(err, "failed to seed transactions")
					}
					logger.Info("Seeded synthetic transactions", slog.Int("count", simCfg.SeedCount))
				}
				if simCfg.Interval > 0 {
					async.Dispatch(runCtx, func(ctx context.Context) error {
						return sim.Run(ctx, simCfg.Interval, simCfg.Batch)
					}, async.WithName("simulator"), async.WithCancellation())
				}
			}

			// Create HTTP server
			server, err := controller.NewServer(ctx, serverCfg.Addr, backend,
				controller.WithRenderer(chart.NewRenderer(colors)),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}
			cancel()

			// Graceful shutdown
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
