package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Simulator holds the synthetic traffic configuration
type Simulator struct {
	SeedCount  int
	SeedSpan   time.Duration
	Interval   time.Duration
	Batch      int
	RandomSeed uint64
	Users      []string
}

// Flags returns CLI flags for Simulator configuration
func (s *Simulator) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "simulate-seed",
			Usage:       "Number of synthetic transactions stored at startup",
			Category:    "Simulator",
			Sources:     cli.EnvVars("OPSDASH_SIMULATE_SEED"),
			Destination: &s.SeedCount,
		},
		&cli.DurationFlag{
			Name:        "simulate-span",
			Usage:       "Time range the seeded transactions are spread over",
			Category:    "Simulator",
			Value:       24 * time.Hour,
			Sources:     cli.EnvVars("OPSDASH_SIMULATE_SPAN"),
			Destination: &s.SeedSpan,
		},
		&cli.DurationFlag{
			Name:        "simulate-interval",
			Usage:       "Period between generated transactions, 0 disables live traffic",
			Category:    "Simulator",
			Sources:     cli.EnvVars("OPSDASH_SIMULATE_INTERVAL"),
			Destination: &s.Interval,
		},
		&cli.IntFlag{
			Name:        "simulate-batch",
			Usage:       "Transactions generated per interval",
			Category:    "Simulator",
			Value:       1,
			Sources:     cli.EnvVars("OPSDASH_SIMULATE_BATCH"),
			Destination: &s.Batch,
		},
		&cli.Uint64Flag{
			Name:        "simulate-random-seed",
			Usage:       "Random seed for reproducible traffic (0 picks one)",
			Category:    "Simulator",
			Sources:     cli.EnvVars("OPSDASH_SIMULATE_RANDOM_SEED"),
			Destination: &s.RandomSeed,
		},
		&cli.StringSliceFlag{
			Name:        "simulate-user",
			Usage:       "Usernames of the synthetic traffic (repeatable)",
			Category:    "Simulator",
			Sources:     cli.EnvVars("OPSDASH_SIMULATE_USERS"),
			Destination: &s.Users,
		},
	}
}

// Enabled reports whether the simulator has anything to do
func (s *Simulator) Enabled() bool {
	return s.SeedCount > 0 || s.Interval > 0
}

// Validate validates the simulator configuration
func (s *Simulator) Validate() error {
	if s.SeedCount < 0 {
		return goerr.New("seed count must not be negative",
			goerr.V("seed", s.SeedCount),
			goerr.T(model.ErrTagInvalidArgument))
	}
	if s.Interval < 0 {
		return goerr.New("simulator interval must not be negative",
			goerr.V("interval", s.Interval),
			goerr.T(model.ErrTagInvalidArgument))
	}
	if s.Batch <= 0 {
		return goerr.New("simulator batch must be positive",
			goerr.V("batch", s.Batch),
			goerr.T(model.ErrTagInvalidArgument))
	}
	return nil
}

// Configure creates the simulator writing to repo
func (s *Simulator) Configure(repo interfaces.TransactionRepository) (*usecase.SimulatorUseCase, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var opts []usecase.SimulatorOption
	if s.RandomSeed != 0 {
		opts = append(opts, usecase.WithRandomSeed(s.RandomSeed))
	}
	if len(s.Users) > 0 {
		opts = append(opts, usecase.WithUsers(s.Users))
	}
	return usecase.NewSimulatorUseCase(repo, opts...), nil
}

// LogValue returns structured log value
func (s Simulator) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("seed", s.SeedCount),
		slog.Duration("span", s.SeedSpan),
		slog.Duration("interval", s.Interval),
		slog.Int("batch", s.Batch),
		slog.Int("users", len(s.Users)),
	)
}
