package entities

// DefaultTraceFile is the execution trace file name used when none is configured.
const DefaultTraceFile = "execution.trace"

// Config represents the binding configuration.
// It can be built with options or decoded from a YAML file.
type Config struct {
	// LibraryPath points at a specific shared library. When empty the path is
	// resolved from LibraryDir, the platform, Arch and LibraryPostfix.
	LibraryPath string `yaml:"library_path" json:"library_path,omitempty"`

	// LibraryPostfix selects the build variant, e.g. "-mt" or "-st".
	LibraryPostfix string `yaml:"library_postfix" json:"library_postfix,omitempty" validate:"omitempty,startswith=-"`

	// LibraryDir is the root of the <os>/<arch>/ library tree.
	LibraryDir string `yaml:"library_dir" json:"library_dir,omitempty"`

	// Arch overrides the detected machine architecture. arm64_8a must be set explicitly.
	Arch string `yaml:"arch" json:"arch,omitempty" validate:"omitempty,printascii"`

	// Trace configures the execution trace file.
	Trace TraceConfig `yaml:"trace" json:"trace"`

	// GCInterval forces a Go garbage collection every GCInterval operations.
	// Nil disables forced collection.
	GCInterval *int `yaml:"gc_interval" json:"gc_interval,omitempty" validate:"omitempty,min=0"`

	// MaxNumThreads is applied to multi-threaded builds at startup. 0 uses all
	// visible logical cores; nil leaves the library default.
	MaxNumThreads *int `yaml:"max_num_threads" json:"max_num_threads,omitempty" validate:"omitempty,min=0"`

	// SBFDataStoreEnabled toggles the SBF tree data store at startup when set.
	SBFDataStoreEnabled *bool `yaml:"sbf_datastore_enabled" json:"sbf_datastore_enabled,omitempty"`

	// StrictHandles rejects loading or cloning into a handle that is already tracked.
	StrictHandles bool `yaml:"strict_handles" json:"strict_handles,omitempty"`

	// LogLevel is the logging verbosity level (e.g., "debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// TraceConfig configures the execution trace written alongside native calls.
type TraceConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Dir defaults to the working directory and is created when missing.
	Dir string `yaml:"dir" json:"dir,omitempty"`

	// File is the trace file name inside Dir.
	File string `yaml:"file" json:"file,omitempty" validate:"omitempty,excludesall=/\\"`

	// Append writes to an existing file instead of picking a numbered name.
	Append bool `yaml:"append" json:"append,omitempty"`
}

// DefaultConfig returns the default binding configuration.
func DefaultConfig() Config {
	return Config{
		Trace:    TraceConfig{File: DefaultTraceFile},
		LogLevel: "info",
	}
}

// ConfigOption is a functional option for configuring the binding.
type ConfigOption func(*Config)

// WithLibraryPath sets an explicit library path.
func WithLibraryPath(path string) ConfigOption {
	return func(c *Config) {
		c.LibraryPath = path
	}
}

// WithLibraryPostfix selects the library build variant.
func WithLibraryPostfix(postfix string) ConfigOption {
	return func(c *Config) {
		c.LibraryPostfix = postfix
	}
}

// WithLibraryDir sets the root of the bundled library tree.
func WithLibraryDir(dir string) ConfigOption {
	return func(c *Config) {
		c.LibraryDir = dir
	}
}

// WithArch overrides the detected architecture.
func WithArch(arch string) ConfigOption {
	return func(c *Config) {
		c.Arch = arch
	}
}

// WithTrace enables the execution trace in dir under file.
// Empty values keep the defaults.
func WithTrace(dir, file string) ConfigOption {
	return func(c *Config) {
		c.Trace.Enabled = true
		if dir != "" {
			c.Trace.Dir = dir
		}
		if file != "" {
			c.Trace.File = file
		}
	}
}

// WithAppendTrace toggles appending to an existing trace file.
func WithAppendTrace(enabled bool) ConfigOption {
	return func(c *Config) {
		c.Trace.Append = enabled
	}
}

// WithGCInterval forces garbage collection every n operations.
func WithGCInterval(n int) ConfigOption {
	return func(c *Config) {
		if n >= 0 {
			c.GCInterval = &n
		}
	}
}

// WithMaxNumThreads sets the thread limit applied at startup.
func WithMaxNumThreads(n int) ConfigOption {
	return func(c *Config) {
		if n >= 0 {
			c.MaxNumThreads = &n
		}
	}
}

// WithSBFDataStore toggles the SBF data store at startup.
func WithSBFDataStore(enabled bool) ConfigOption {
	return func(c *Config) {
		c.SBFDataStoreEnabled = &enabled
	}
}

// WithStrictHandles toggles rejection of duplicate entity handles.
func WithStrictHandles(enabled bool) ConfigOption {
	return func(c *Config) {
		c.StrictHandles = enabled
	}
}

// WithLogLevel sets the logging verbosity level.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...ConfigOption) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
