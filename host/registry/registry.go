// Package registry keeps the host-side table of entity handles.
package registry

import (
	"slices"
	"sync"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
	"github.com/google/uuid"
)

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	strictMode bool // Fail when a handle is loaded twice
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		strictMode: false, // the library replaces an entity loaded under an existing handle
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithStrictMode enables/disables rejection of duplicate handles.
func WithStrictMode(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.strictMode = enabled
	}
}

// Registry implements ports.EntityRegistry.
type Registry struct {
	config  registryConfig
	records sync.Map // map[string]entities.EntityRecord or reservation
}

// reservation holds a handle between Reserve and Register.
type reservation struct{}

// NewRegistry creates a new Registry with the given options.
func NewRegistry(opts ...RegistryOption) ports.EntityRegistry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg}
}

// Register records an entity under its handle.
func (r *Registry) Register(record entities.EntityRecord) error {
	if r.config.strictMode {
		prev, loaded := r.records.LoadOrStore(record.Handle, record)
		if !loaded {
			return nil
		}
		if _, ok := prev.(reservation); !ok || !r.records.CompareAndSwap(record.Handle, prev, record) {
			return &errors.DuplicateHandleError{Handle: record.Handle}
		}
		return nil
	}
	r.records.Store(record.Handle, record)
	return nil
}

// Reserve claims handle until Register or Release. Lenient registries
// accept every handle and keep no claim.
func (r *Registry) Reserve(handle string) error {
	if !r.config.strictMode {
		return nil
	}
	if _, loaded := r.records.LoadOrStore(handle, reservation{}); loaded {
		return &errors.DuplicateHandleError{Handle: handle}
	}
	return nil
}

// Release drops the reservation on handle, if any.
func (r *Registry) Release(handle string) {
	r.records.CompareAndDelete(handle, reservation{})
}

// Get returns the record stored for handle. Reserved handles are not reported.
func (r *Registry) Get(handle string) (entities.EntityRecord, bool) {
	v, ok := r.records.Load(handle)
	if !ok {
		return entities.EntityRecord{}, false
	}
	rec, ok := v.(entities.EntityRecord)
	return rec, ok
}

// Remove forgets handle.
func (r *Registry) Remove(handle string) {
	r.records.Delete(handle)
}

// List returns all tracked handles, sorted.
func (r *Registry) List() []string {
	var keys []string
	r.records.Range(func(k, v any) bool {
		if _, ok := v.(entities.EntityRecord); ok {
			keys = append(keys, k.(string))
		}
		return true
	})
	slices.Sort(keys)
	return keys
}

// NewHandle returns a random handle for callers that do not name their
// entities.
func NewHandle() string {
	return uuid.NewString()
}
