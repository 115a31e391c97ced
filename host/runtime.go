package host

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amalgam-lang/amalgam-go/application/resolver"
	"github.com/amalgam-lang/amalgam-go/application/validation"
	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
	"github.com/amalgam-lang/amalgam-go/host/registry"
	"github.com/amalgam-lang/amalgam-go/infrastructure/native"
	"github.com/amalgam-lang/amalgam-go/infrastructure/platform"
	"github.com/amalgam-lang/amalgam-go/infrastructure/trace"
	"github.com/amalgam-lang/amalgam-go/log"
)

// Runtime owns one loaded Amalgam library.
//
// Methods are safe for concurrent use. Whether the library itself runs
// concurrent calls in parallel depends on its build (see ConcurrencyType).
// After Close every method returns errors.ErrClosed.
type Runtime struct {
	config   entities.Config
	info     entities.LibraryInfo
	lib      ports.NativeLibrary
	trace    ports.TraceSink
	registry ports.EntityRegistry
	logger   *slog.Logger
	gc       *collector
	invoke   Handler
	now      func() time.Time

	mu     sync.RWMutex
	closed bool

	loadMu   sync.Mutex
	lastLoad string
}

// NewRuntime resolves, opens and configures the Amalgam library.
func NewRuntime(ctx context.Context, opts ...Option) (*Runtime, error) {
	rc := defaultRuntimeConfig()
	for _, opt := range opts {
		opt(&rc)
	}
	cfg := rc.config
	for _, opt := range rc.configOpts {
		opt(&cfg)
	}

	res, err := validation.NewConfigValidator().Validate(&cfg)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, &errors.ConfigError{Field: res.Errors[0].Field, Err: stdErrors.New(res.Summary())}
	}

	logger := rc.logger
	if logger == nil {
		logger = slog.Default()
	}
	if rc.probe == nil {
		rc.probe = platform.NewRuntimeProbe()
	}
	if rc.opener == nil {
		rc.opener = native.NewOpener()
	}
	if rc.registry == nil {
		rc.registry = registry.NewRegistry(registry.WithStrictMode(cfg.StrictHandles))
	}

	resolverOpts := []resolver.Option{resolver.WithLogger(logger)}
	if cfg.LibraryDir != "" {
		resolverOpts = append(resolverOpts, resolver.WithLibraryDir(cfg.LibraryDir))
	}
	info, err := resolver.New(rc.probe, resolverOpts...).Resolve(resolver.Request{
		Path:    cfg.LibraryPath,
		Postfix: cfg.LibraryPostfix,
		Arch:    cfg.Arch,
	})
	if err != nil {
		return nil, err
	}

	sink := rc.trace
	if sink == nil {
		sink, err = openTrace(cfg.Trace)
		if err != nil {
			return nil, err
		}
	}
	if p := sink.Path(); p != "" {
		logger.Debug("opened amalgam trace file", "path", p)
	}

	logger.Debug("loading amalgam library", "path", info.Path, "postfix", info.Postfix)
	lib, err := rc.opener.Open(info.Path)
	if err != nil {
		_ = sink.Close()
		return nil, err
	}

	r := &Runtime{
		config:   cfg,
		info:     info,
		lib:      lib,
		trace:    sink,
		registry: rc.registry,
		logger:   logger,
		gc:       newCollector(cfg.GCInterval, logger),
		now:      rc.now,
	}

	mws := []Middleware{LoggingMiddleware(logger), PanicRecoveryMiddleware()}
	mws = append(mws, rc.middleware...)
	mws = append(mws, TraceMiddleware(sink), GCMiddleware(r.gc))
	r.invoke = chain(invokeNative, mws...)

	if err := r.applyFlags(ctx); err != nil {
		_ = r.Close(ctx)
		return nil, err
	}

	logger.Info("loaded amalgam library", "path", info.Path, "postfix", info.Postfix)
	return r, nil
}

func openTrace(cfg entities.TraceConfig) (ports.TraceSink, error) {
	if !cfg.Enabled {
		return trace.Discard, nil
	}
	t, err := trace.NewFileTrace(
		trace.WithDir(cfg.Dir),
		trace.WithFile(cfg.File),
		trace.WithAppend(cfg.Append),
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Runtime) applyFlags(ctx context.Context) error {
	if r.config.SBFDataStoreEnabled != nil {
		r.logger.Debug("setting sbf datastore", "enabled", *r.config.SBFDataStoreEnabled)
		if err := r.SetSBFDataStoreEnabled(ctx, *r.config.SBFDataStoreEnabled); err != nil {
			return err
		}
	}
	if r.config.MaxNumThreads != nil {
		if err := r.SetMaxNumThreads(ctx, uint64(*r.config.MaxNumThreads)); err != nil {
			return err
		}
	}
	return nil
}

// call runs c through the middleware chain while holding the read lock, so
// Close waits for in-flight calls.
func (r *Runtime) call(ctx context.Context, c *Call, run func() (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, errors.ErrClosed
	}
	c.run = run
	return r.invoke(ctx, c)
}

// Info returns the library the runtime resolved.
func (r *Runtime) Info() entities.LibraryInfo {
	return r.info
}

// Config returns the effective configuration.
func (r *Runtime) Config() entities.Config {
	return r.config
}

// TracePath returns the trace file being written, or "" when tracing is off.
func (r *Runtime) TracePath() string {
	return r.trace.Path()
}

// Tracked returns the handles of entities loaded through this runtime.
func (r *Runtime) Tracked() []string {
	return r.registry.List()
}

// Record returns the host-side record of a tracked entity.
func (r *Runtime) Record(handle string) (entities.EntityRecord, bool) {
	return r.registry.Get(handle)
}

// String describes the runtime.
func (r *Runtime) String() string {
	interval := "None"
	if r.config.GCInterval != nil {
		interval = fmt.Sprint(*r.config.GCInterval)
	}
	return fmt.Sprintf("Amalgam Path:\t\t %s\nAmalgam GC Interval:\t %s\n", r.info.Path, interval)
}

// ResetTrace closes the current trace file and starts a new one named file.
// The last LOAD_ENTITY command is replayed into the new trace.
func (r *Runtime) ResetTrace(ctx context.Context, file string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errors.ErrClosed
	}

	r.loadMu.Lock()
	replay := r.lastLoad
	r.loadMu.Unlock()

	old := r.trace.Path()
	if err := r.trace.Reset(file, replay); err != nil {
		return fmt.Errorf("failed to reset trace: %w", err)
	}
	if old != "" {
		r.logger.Debug("reset amalgam trace file", "old", old, "new", r.trace.Path())
	}
	return nil
}

// Close ends the trace and unloads the library. It is safe to call more
// than once.
func (r *Runtime) Close(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	if err := r.trace.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close trace: %w", err))
	}
	if err := r.lib.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := stdErrors.Join(errs...); err != nil {
		r.logger.Warn("closing amalgam runtime", log.Err(err))
		return err
	}
	r.logger.Debug("closed amalgam library", "path", r.info.Path)
	return nil
}
