package host

import (
	"log/slog"
	"time"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
)

// runtimeConfig holds the dependencies of a Runtime.
type runtimeConfig struct {
	config     entities.Config
	configOpts []entities.ConfigOption
	opener     ports.LibraryOpener
	probe      ports.PlatformProbe
	logger     *slog.Logger
	registry   ports.EntityRegistry
	trace      ports.TraceSink
	middleware []Middleware
	now        func() time.Time
}

func defaultRuntimeConfig() runtimeConfig {
	return runtimeConfig{
		config: entities.DefaultConfig(),
		now:    time.Now,
	}
}

// Option defines a functional option for configuring the Runtime.
type Option func(*runtimeConfig)

// WithConfig replaces the runtime configuration, typically one returned by
// Loader.Load.
func WithConfig(cfg entities.Config) Option {
	return func(c *runtimeConfig) {
		c.config = cfg
	}
}

// WithConfigOptions applies config options over the runtime configuration.
func WithConfigOptions(opts ...entities.ConfigOption) Option {
	return func(c *runtimeConfig) {
		c.configOpts = append(c.configOpts, opts...)
	}
}

// WithOpener sets how the shared library is opened. Defaults to purego.
func WithOpener(o ports.LibraryOpener) Option {
	return func(c *runtimeConfig) {
		c.opener = o
	}
}

// WithPlatform sets the probe used to pick the platform build.
func WithPlatform(p ports.PlatformProbe) Option {
	return func(c *runtimeConfig) {
		c.probe = p
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *runtimeConfig) {
		c.logger = l
	}
}

// WithRegistry sets the handle table.
func WithRegistry(r ports.EntityRegistry) Option {
	return func(c *runtimeConfig) {
		c.registry = r
	}
}

// WithTraceSink sets the execution trace destination, overriding the
// trace section of the configuration.
func WithTraceSink(t ports.TraceSink) Option {
	return func(c *runtimeConfig) {
		c.trace = t
	}
}

// WithMiddleware appends middleware around every call. It runs inside the
// built-in logging and panic recovery layers.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *runtimeConfig) {
		c.middleware = append(c.middleware, mws...)
	}
}

// WithClock sets the time source used for entity records.
func WithClock(now func() time.Time) Option {
	return func(c *runtimeConfig) {
		c.now = now
	}
}
