package entities

import "time"

// LoadOptions controls how the library loads an entity from source.
type LoadOptions struct {
	// Persist saves the entity over its source after every transaction.
	Persist bool `json:"persist"`

	// LoadContained also loads the entities contained in the source.
	LoadContained bool `json:"load_contained"`

	// EscapeFilename aggressively escapes the source file name.
	EscapeFilename bool `json:"escape_filename"`

	// EscapeContainedFilenames aggressively escapes contained entities' file names.
	EscapeContainedFilenames bool `json:"escape_contained_filenames"`

	// WriteLog is the path of the write log; empty disables it.
	WriteLog string `json:"write_log"`

	// PrintLog is the path of the print log; empty disables it.
	PrintLog string `json:"print_log"`
}

// DefaultLoadOptions returns the options the library expects when none are given.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{EscapeContainedFilenames: true}
}

// LoadOption is a functional option for LoadOptions.
type LoadOption func(*LoadOptions)

// WithPersist enables persisting the entity back to its source.
func WithPersist(enabled bool) LoadOption {
	return func(o *LoadOptions) {
		o.Persist = enabled
	}
}

// WithLoadContained enables loading contained entities.
func WithLoadContained(enabled bool) LoadOption {
	return func(o *LoadOptions) {
		o.LoadContained = enabled
	}
}

// WithEscapeFilename toggles escaping of the source file name.
func WithEscapeFilename(enabled bool) LoadOption {
	return func(o *LoadOptions) {
		o.EscapeFilename = enabled
	}
}

// WithEscapeContainedFilenames toggles escaping of contained file names.
func WithEscapeContainedFilenames(enabled bool) LoadOption {
	return func(o *LoadOptions) {
		o.EscapeContainedFilenames = enabled
	}
}

// WithWriteLog sets the write log path.
func WithWriteLog(path string) LoadOption {
	return func(o *LoadOptions) {
		o.WriteLog = path
	}
}

// WithPrintLog sets the print log path.
func WithPrintLog(path string) LoadOption {
	return func(o *LoadOptions) {
		o.PrintLog = path
	}
}

// NewLoadOptions applies opts over DefaultLoadOptions.
func NewLoadOptions(opts ...LoadOption) LoadOptions {
	o := DefaultLoadOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CloneOptions controls CloneEntity.
type CloneOptions struct {
	// Path is where the clone is persisted. Only used when Persist is set.
	Path     string `json:"path"`
	Persist  bool   `json:"persist"`
	WriteLog string `json:"write_log"`
	PrintLog string `json:"print_log"`
}

// StoreOptions controls StoreEntity.
type StoreOptions struct {
	// UpdatePersistenceLocation makes the stored path the entity's new persistence target.
	UpdatePersistenceLocation bool `json:"update_persistence_location"`

	// StoreContained also stores contained entities.
	StoreContained bool `json:"store_contained"`
}

// EntityRecord is the host-side bookkeeping for an entity loaded through a runtime.
type EntityRecord struct {
	Handle     string    `json:"handle"`
	SourcePath string    `json:"source_path"`
	Persist    bool      `json:"persist"`
	Version    string    `json:"version,omitempty"`
	ClonedFrom string    `json:"cloned_from,omitempty"`
	LoadedAt   time.Time `json:"loaded_at"`
}
