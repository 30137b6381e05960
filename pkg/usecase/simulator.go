package usecase

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
)

// DefaultSimulatedUsers are the usernames of generated traffic
var DefaultSimulatedUsers = []string{"alice", "bob", "carol", "dave", "erin", "frank"}

// statusWeights is the share of each status in generated traffic, in percent
var statusWeights = []struct {
	status types.Status
	weight int
}{
	{types.StatusComplete, 70},
	{types.StatusSubmitted, 10},
	{types.StatusBadRequest, 8},
	{types.StatusCDUnavailable, 6},
	{types.StatusEPUnavailable, 6},
}

const (
	minFileSize = 1 << 10   // 1 KiB
	maxFileSize = 512 << 20 // 512 MiB
	minTransit  = 200 * time.Millisecond
	maxTransit  = 8 * time.Second
)

// SimulatorUseCase writes synthetic transfer transactions to a repository
type SimulatorUseCase struct {
	repo  interfaces.TransactionRepository
	users []string
	now   func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// SimulatorOption configures SimulatorUseCase
type SimulatorOption func(*SimulatorUseCase)

// WithRandomSeed makes generated traffic reproducible
func WithRandomSeed(seed uint64) SimulatorOption {
	return func(s *SimulatorUseCase) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithUsers replaces the simulated usernames
func WithUsers(users []string) SimulatorOption {
	return func(s *SimulatorUseCase) {
		if len(users) > 0 {
			s.users = users
		}
	}
}

// WithSimulatorClock replaces the time source
func WithSimulatorClock(now func() time.Time) SimulatorOption {
	return func(s *SimulatorUseCase) {
		s.now = now
	}
}

// NewSimulatorUseCase creates a new SimulatorUseCase instance
func NewSimulatorUseCase(repo interfaces.TransactionRepository, opts ...SimulatorOption) *SimulatorUseCase {
	s := &SimulatorUseCase{
		repo:  repo,
		users: DefaultSimulatedUsers,
		now:   time.Now,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate creates one transaction received at ingress time at
func (s *SimulatorUseCase) Generate(at time.Time) *model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.pickStatus()
	tx := &model.Transaction{
		ID:            types.NewTransactionID(),
		Username:      s.users[s.rng.IntN(len(s.users))],
		FileName:      fmt.Sprintf("transfer_%06d.dat", s.rng.IntN(1000000)),
		FileSize:      s.fileSize(),
		IngressServer: fmt.Sprintf("ingress-%02d", s.rng.IntN(3)+1),
		IngressTime:   at,
		Status:        status,
	}

	if status.IsEgress() {
		transit := minTransit + time.Duration(s.rng.Int64N(int64(maxTransit-minTransit)))
		egress := at.Add(transit)
		tx.EgressServer = fmt.Sprintf("egress-%02d", s.rng.IntN(3)+1)
		tx.EgressTime = &egress
	}
	return tx
}

// Seed stores n transactions with ingress times spread over the span
// preceding now
func (s *SimulatorUseCase) Seed(ctx context.Context, n int, span time.Duration) error {
	if n < 0 {
		return goerr.New("seed count must not be negative",
			goerr.V("count", n),
			goerr.T(model.ErrTagInvalidArgument))
	}
	if n == 0 {
		return nil
	}

	now := s.now()
	for i := 0; i < n; i++ {
		var offset time.Duration
		if span > 0 {
			offset = time.Duration(s.randInt64N(int64(span)))
		}
		if err := s.repo.PutTransaction(ctx, s.Generate(now.Add(-offset))); err != nil {
			return goerr.Wrap(err, "failed to store seeded transaction", goerr.V("index", i))
		}
	}

	ctxlog.From(ctx).Info("seeded transactions", "count", n, "span", span)
	return nil
}

// Tick stores batch new transactions received now
func (s *SimulatorUseCase) Tick(ctx context.Context, batch int) error {
	now := s.now()
	for i := 0; i < batch; i++ {
		if err := s.repo.PutTransaction(ctx, s.Generate(now)); err != nil {
			return goerr.Wrap(err, "failed to store simulated transaction")
		}
	}
	return nil
}

// Run calls Tick every interval until ctx is cancelled. A failed tick is
// logged and the loop continues.
func (s *SimulatorUseCase) Run(ctx context.Context, interval time.Duration, batch int) error {
	if interval <= 0 {
		return goerr.New("simulator interval must be positive",
			goerr.V("interval", interval),
			goerr.T(model.ErrTagInvalidArgument))
	}
	if batch <= 0 {
		batch = 1
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctxlog.From(ctx).Info("simulator started", "interval", interval, "batch", batch)
	for {
		select {
		case <-ctx.Done():
			ctxlog.From(ctx).Info("simulator stopped")
			return nil
		case <-ticker.C:
			if err := s.Tick(ctx, batch); err != nil {
				ctxlog.From(ctx).Warn("simulator tick failed", "error", err)
			}
		}
	}
}

func (s *SimulatorUseCase) pickStatus() types.Status {
	n := s.rng.IntN(100)
	for _, sw := range statusWeights {
		if n < sw.weight {
			return sw.status
		}
		n -= sw.weight
	}
	return types.StatusComplete
}

// fileSize draws a log-uniform size so small and large files both appear
func (s *SimulatorUseCase) fileSize() int64 {
	lo, hi := math.Log(minFileSize), math.Log(maxFileSize)
	return int64(math.Exp(lo + s.rng.Float64()*(hi-lo)))
}

func (s *SimulatorUseCase) randInt64N(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int64N(n)
}
