package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/opsdash/pkg/utils/async"
)

// Poller periodically fetches a value and hands it to a callback. Each
// Poller owns at most one timer.
//
// Fetches run in the background and at most one is in flight. Trigger drops
// a request while a fetch runs. Refresh instead queues a single follow-up
// fetch that starts when the running one finishes. Every fetch is numbered;
// a result that arrives after a newer one has been delivered is dropped.
// Callbacks never run concurrently.
type Poller[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	onResult func(T)
	onError  func(error)

	mu       sync.Mutex
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}

	stateMu  sync.Mutex
	inFlight bool
	pending  bool
	issued   atomic.Uint64

	deliverMu sync.Mutex
	applied   uint64
}

// NewPoller creates a stopped poller. onError may be nil.
func NewPoller[T any](fetch func(ctx context.Context) (T, error), onResult func(T), onError func(error)) *Poller[T] {
	return &Poller[T]{
		fetch:    fetch,
		onResult: onResult,
		onError:  onError,
	}
}

// Start installs a timer firing every interval, replacing any running one.
// The previous timer goroutine has exited when Start returns. An interval of
// zero or less leaves the poller stopped. Start does not fetch immediately.
func (p *Poller[T]) Start(ctx context.Context, interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.interval = interval
	if interval <= 0 {
		ctxlog.From(ctx).Debug("polling disabled")
		return
	}

	tickCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				p.Trigger(ctx)
			}
		}
	}()

	ctxlog.From(ctx).Debug("polling started", "interval", interval)
}

// Stop cancels the timer. A fetch already in flight still delivers.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.interval = 0
}

func (p *Poller[T]) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel, p.done = nil, nil
}

// Interval returns the active interval, zero when stopped
func (p *Poller[T]) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// Running reports whether a timer is installed
func (p *Poller[T]) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// InFlight reports whether a fetch is running or queued
func (p *Poller[T]) InFlight() bool {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.inFlight
}

// Trigger starts a fetch unless one is in flight. It returns false when the
// request was dropped.
func (p *Poller[T]) Trigger(ctx context.Context) bool {
	p.stateMu.Lock()
	if p.inFlight {
		p.stateMu.Unlock()
		ctxlog.From(ctx).Debug("fetch already in flight, skipping")
		return false
	}
	p.inFlight = true
	p.stateMu.Unlock()

	p.dispatch(ctx)
	return true
}

// Refresh requests a fetch after the fetch parameters changed. While a fetch
// is in flight it queues one follow-up instead; repeated calls during the
// same fetch collapse into that one follow-up.
func (p *Poller[T]) Refresh(ctx context.Context) {
	p.stateMu.Lock()
	if p.inFlight {
		p.pending = true
		p.stateMu.Unlock()
		ctxlog.From(ctx).Debug("fetch in flight, queued follow-up")
		return
	}
	p.inFlight = true
	p.stateMu.Unlock()

	p.dispatch(ctx)
}

// finish ends the running fetch, or starts the queued follow-up while keeping
// the in-flight guard held
func (p *Poller[T]) finish(ctx context.Context) {
	p.stateMu.Lock()
	if !p.pending {
		p.inFlight = false
		p.stateMu.Unlock()
		return
	}
	p.pending = false
	p.stateMu.Unlock()

	p.dispatch(ctx)
}

func (p *Poller[T]) dispatch(ctx context.Context) {
	seq := p.issued.Add(1)

	async.Dispatch(ctx, func(ctx context.Context) error {
		result, err := p.fetch(ctx)
		if err != nil {
			return err
		}
		p.deliver(ctx, seq, result, nil)
		p.finish(ctx)
		return nil
	},
		async.WithName("poll"),
		async.WithErrorHandler(func(ctx context.Context, err error) {
			var zero T
			p.deliver(ctx, seq, zero, err)
			p.finish(ctx)
		}),
	)
}

func (p *Poller[T]) deliver(ctx context.Context, seq uint64, result T, err error) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	if seq < p.applied {
		ctxlog.From(ctx).Debug("discarding stale response", "seq", seq, "applied", p.applied)
		return
	}
	p.applied = seq

	if err != nil {
		ctxlog.From(ctx).Warn("fetch failed", "error", err)
		if p.onError != nil {
			p.onError(err)
		}
		return
	}
	p.onResult(result)
}
