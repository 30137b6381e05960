package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/cli/config"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var (
		firestoreCfg config.Firestore
		simCfg       config.Simulator
	)

	return &cli.Command{
		Name:  "seed",
		Usage: "Store synthetic transactions directly into Firestore",
		Flags: joinFlags(firestoreCfg.Flags(), simCfg.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if simCfg.SeedCount <= 0 {
				return goerr.New("--simulate-seed must be positive",
					goerr.V("seed", simCfg.SeedCount),
					goerr.T(model.ErrTagInvalidArgument))
			}
			if !firestoreCfg.IsConfigured() {
				return goerr.New("seeding needs --firestore-project, the in-memory store does not outlive this command",
					goerr.T(model.ErrTagInvalidArgument))
			}

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			sim, err := simCfg.Configure(repo)
			if err != nil {
				return err
			}
			if err := sim.Seed(ctx, simCfg.SeedCount, simCfg.SeedSpan); err != nil {
				return goerr.Wrap(err, "failed to seed transactions")
			}

			logger.Info("Seeded synthetic transactions",
				slog.Any("firestore", firestoreCfg),
				slog.Int("count", simCfg.SeedCount),
			)
			return nil
		},
	}
}
