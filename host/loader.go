package host

import (
	stdErrors "errors"
	"fmt"
	"os"
	"strings"

	apptemplate "github.com/amalgam-lang/amalgam-go/application/template"
	"github.com/amalgam-lang/amalgam-go/application/validation"
	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
	"github.com/amalgam-lang/amalgam-go/infrastructure/parser"
)

// Environment variables that override configuration values.
const (
	EnvLibraryPath    = "AMALGAM_LIBRARY_PATH"
	EnvLibraryPostfix = "AMALGAM_LIBRARY_POSTFIX"
	EnvLibraryDir     = "AMALGAM_LIBRARY_DIR"
	EnvArch           = "AMALGAM_ARCH"
)

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	templateEngine  ports.TemplateEngine
	parser          ports.ConfigParser
	validator       ports.ConfigValidator
	environ         func() []string
	strictTemplates bool // Fail on missing template keys
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		parser:          parser.NewYamlConfigParser(),
		validator:       validation.NewConfigValidator(),
		environ:         os.Environ,
		strictTemplates: true,
	}
}

// Loader orchestrates the config loading pipeline: template rendering,
// YAML parsing, environment overrides and validation.
type Loader struct {
	config loaderConfig
}

// LoaderOption configures the Loader.
type LoaderOption func(*loaderConfig)

// WithParser sets a custom config parser.
func WithParser(p ports.ConfigParser) LoaderOption {
	return func(c *loaderConfig) {
		c.parser = p
	}
}

// WithTemplateEngine sets a template engine.
func WithTemplateEngine(t ports.TemplateEngine) LoaderOption {
	return func(c *loaderConfig) {
		c.templateEngine = t
	}
}

// WithStrictTemplates enables/disables strict template mode.
// When enabled (default), rendering fails if a referenced key is missing.
func WithStrictTemplates(enabled bool) LoaderOption {
	return func(c *loaderConfig) {
		c.strictTemplates = enabled
	}
}

// WithValidator sets the config validator.
func WithValidator(v ports.ConfigValidator) LoaderOption {
	return func(c *loaderConfig) {
		c.validator = v
	}
}

// WithEnviron sets the environment source, in os.Environ format.
func WithEnviron(environ func() []string) LoaderOption {
	return func(c *loaderConfig) {
		c.environ = environ
	}
}

// NewLoader creates a new Loader with defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.templateEngine == nil {
		cfg.templateEngine = apptemplate.NewGoTemplateEngine(
			apptemplate.WithStrict(cfg.strictTemplates),
		)
	}
	return &Loader{config: cfg}
}

// Load renders, parses and validates raw config bytes. Empty input yields
// the defaults with environment overrides applied.
func (l *Loader) Load(raw []byte) (*entities.Config, error) {
	env := l.env()

	data, err := l.config.templateEngine.Render(raw, map[string]any{"env": env})
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}

	cfg, err := l.config.parser.Parse(data, entities.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(cfg, env)

	res, err := l.config.validator.Validate(cfg)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if !res.Valid {
		return nil, &errors.ConfigError{Field: res.Errors[0].Field, Err: stdErrors.New(res.Summary())}
	}
	return cfg, nil
}

// LoadFile loads the config file at path. An empty path loads the defaults.
func (l *Loader) LoadFile(path string) (*entities.Config, error) {
	if path == "" {
		return l.Load(nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return l.Load(raw)
}

func (l *Loader) env() map[string]string {
	env := make(map[string]string)
	for _, kv := range l.config.environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func applyEnv(cfg *entities.Config, env map[string]string) {
	if v := env[EnvLibraryPath]; v != "" {
		cfg.LibraryPath = v
	}
	if v := env[EnvLibraryPostfix]; v != "" {
		cfg.LibraryPostfix = v
	}
	if v := env[EnvLibraryDir]; v != "" {
		cfg.LibraryDir = v
	}
	if v := env[EnvArch]; v != "" {
		cfg.Arch = v
	}
}
