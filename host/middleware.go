package host

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
	"github.com/amalgam-lang/amalgam-go/log"
)

// Call describes one foreign call as it passes through the middleware chain.
type Call struct {
	// Function is the C symbol being called.
	Function string

	// Handle is the entity the call targets, if any.
	Handle string

	// Command is the replayable trace line. Calls without one are not traced.
	Command string

	// Timed wraps the traced call in EXECUTION START/STOP timestamps.
	Timed bool

	// DiscardReply records an empty trace reply whatever the call returns.
	DiscardReply bool

	// Counted calls advance the garbage collection interval.
	Counted bool

	run func() (any, error)
}

// Handler performs a call and returns its decoded result.
type Handler func(ctx context.Context, call *Call) (any, error)

// Middleware wraps a Handler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next Handler) Handler

// invokeNative is the innermost handler.
func invokeNative(_ context.Context, call *Call) (any, error) {
	return call.run()
}

func chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// PanicRecoveryMiddleware converts a panic raised during a call into a
// CallError instead of crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (res any, err error) {
			defer func() {
				if r := recover(); r != nil {
					res = nil
					err = &errors.CallError{
						Err:      fmt.Errorf("panic: %v", r),
						Function: call.Function,
						Handle:   call.Handle,
					}
				}
			}()
			return next(ctx, call)
		}
	}
}

// LoggingMiddleware logs every call at debug level with its duration.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (any, error) {
			if !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, call)
			}
			start := time.Now()
			res, err := next(ctx, call)
			attrs := []slog.Attr{
				slog.String("function", call.Function),
				slog.Duration("duration", time.Since(start)),
			}
			if call.Handle != "" {
				attrs = append(attrs, slog.String("handle", call.Handle))
			}
			if err != nil {
				attrs = append(attrs, log.Err(err))
			}
			logger.LogAttrs(ctx, slog.LevelDebug, "amalgam call", attrs...)
			return res, err
		}
	}
}

// TraceMiddleware writes traced calls and their replies to sink.
func TraceMiddleware(sink ports.TraceSink) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (any, error) {
			if call.Command == "" {
				return next(ctx, call)
			}
			if call.Timed {
				sink.Time("EXECUTION START")
			}
			sink.Execution(call.Command)
			res, err := next(ctx, call)
			if call.Timed {
				sink.Time("EXECUTION STOP")
			}
			switch {
			case err != nil:
				sink.Comment(err.Error())
			case call.DiscardReply:
				sink.Reply(nil)
			default:
				sink.Reply(res)
			}
			return res, err
		}
	}
}

// GCMiddleware advances the collector after every counted call.
func GCMiddleware(c *collector) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (any, error) {
			res, err := next(ctx, call)
			if call.Counted {
				c.tick()
			}
			return res, err
		}
	}
}
