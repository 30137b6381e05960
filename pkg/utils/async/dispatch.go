package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

type config struct {
	name       string
	onError    func(ctx context.Context, err error)
	keepCancel bool
}

// Option configures a dispatched handler
type Option func(*config)

// WithName labels the handler in log records
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithErrorHandler receives the handler's error, or a recovered panic
// converted to an error. Returned errors are not logged when it is set.
func WithErrorHandler(fn func(ctx context.Context, err error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithCancellation keeps the caller's cancellation, for long running loops
// that must stop with the caller
func WithCancellation() Option {
	return func(c *config) {
		c.keepCancel = true
	}
}

// Dispatch executes a handler function asynchronously with panic recovery.
// Unless WithCancellation is given, the handler gets a fresh background
// context carrying the caller's logger, so cancelling the caller does not
// abort work already dispatched.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error, opts ...Option) {
	cfg := config{name: "async"}
	for _, opt := range opts {
		opt(&cfg)
	}

	newCtx := newBackgroundContext(ctx)
	if cfg.keepCancel {
		newCtx = ctx
	}
	logger := ctxlog.From(newCtx).With("handler", cfg.name)

	go func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			logger.Error("Panic in async handler",
				"recover", r,
				"stack", string(stack),
			)
			if cfg.onError != nil {
				cfg.onError(newCtx, goerr.New("panic in async handler",
					goerr.V("handler", cfg.name),
					goerr.V("recover", r)))
			}
		}()

		err := handler(newCtx)
		if err == nil {
			return
		}
		if cfg.onError != nil {
			cfg.onError(newCtx, err)
			return
		}
		logger.Error("Error in async handler", "error", err)
	}()
}

func newBackgroundContext(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
