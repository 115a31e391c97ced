// Package amalgamtest provides an in-memory stand-in for the Amalgam library
// and helpers for testing code built on host.Runtime.
//
// A fake entity source is a JSON object mapping label names to values.
// Executing a label returns its value unless a LabelFunc is registered for it.
package amalgamtest

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
)

// LabelFunc implements an executable label. labels is the entity's state and
// may be modified.
type LabelFunc func(labels map[string]json.RawMessage, args json.RawMessage) (any, error)

// fakeConfig holds configuration for the FakeLibrary.
type fakeConfig struct {
	version     string
	concurrency entities.ConcurrencyType
	funcs       map[string]LabelFunc
}

func defaultFakeConfig() fakeConfig {
	return fakeConfig{
		version:     "0.0.0-fake",
		concurrency: entities.ConcurrencySingleThreaded,
		funcs:       make(map[string]LabelFunc),
	}
}

// Option configures a FakeLibrary.
type Option func(*fakeConfig)

// WithVersion sets the reported library version.
func WithVersion(v string) Option {
	return func(c *fakeConfig) {
		c.version = v
	}
}

// WithConcurrency sets the reported concurrency type.
func WithConcurrency(ct entities.ConcurrencyType) Option {
	return func(c *fakeConfig) {
		c.concurrency = ct
	}
}

// WithLabelFunc registers fn as the implementation of label in every entity.
func WithLabelFunc(label string, fn LabelFunc) Option {
	return func(c *fakeConfig) {
		c.funcs[label] = fn
	}
}

// FakeLibrary implements ports.NativeLibrary in memory.
type FakeLibrary struct {
	config fakeConfig

	mu       sync.Mutex
	entities map[string]map[string]json.RawMessage
	seeds    map[string]string
	sbf      bool
	threads  uint64
	closed   bool
}

var _ ports.NativeLibrary = (*FakeLibrary)(nil)

// NewFakeLibrary creates an empty fake library.
func NewFakeLibrary(opts ...Option) *FakeLibrary {
	cfg := defaultFakeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FakeLibrary{
		config:   cfg,
		entities: make(map[string]map[string]json.RawMessage),
		seeds:    make(map[string]string),
		sbf:      true,
	}
}

func readSource(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("invalid entity source %s: %w", path, err)
	}
	return labels, nil
}

func writeSource(path string, labels map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (f *FakeLibrary) status(err error) entities.LoadEntityStatus {
	if err != nil {
		return entities.LoadEntityStatus{Message: err.Error()}
	}
	return entities.LoadEntityStatus{Loaded: true, Version: f.config.version}
}

// LoadEntity implements ports.NativeLibrary.
func (f *FakeLibrary) LoadEntity(handle, path string, _ entities.LoadOptions) (entities.LoadEntityStatus, error) {
	labels, err := readSource(path)
	if err == nil {
		f.mu.Lock()
		f.entities[handle] = labels
		f.mu.Unlock()
	}
	return f.status(err), nil
}

// VerifyEntity implements ports.NativeLibrary.
func (f *FakeLibrary) VerifyEntity(path string) (entities.LoadEntityStatus, error) {
	_, err := readSource(path)
	return f.status(err), nil
}

// CloneEntity implements ports.NativeLibrary.
func (f *FakeLibrary) CloneEntity(handle, cloneHandle string, opts entities.CloneOptions) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src, ok := f.entities[handle]
	if !ok {
		return false, nil
	}
	clone := make(map[string]json.RawMessage, len(src))
	for k, v := range src {
		clone[k] = slices.Clone(v)
	}
	if opts.Persist && opts.Path != "" {
		if err := writeSource(opts.Path, clone); err != nil {
			return false, nil
		}
	}
	f.entities[cloneHandle] = clone
	return true, nil
}

// StoreEntity implements ports.NativeLibrary.
func (f *FakeLibrary) StoreEntity(handle, path string, _ entities.StoreOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	labels, ok := f.entities[handle]
	if !ok {
		return nil
	}
	return writeSource(path, labels)
}

// DestroyEntity implements ports.NativeLibrary.
func (f *FakeLibrary) DestroyEntity(handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entities, handle)
	delete(f.seeds, handle)
	return nil
}

// SetRandomSeed implements ports.NativeLibrary.
func (f *FakeLibrary) SetRandomSeed(handle, seed string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entities[handle]; !ok {
		return false, nil
	}
	f.seeds[handle] = seed
	return true, nil
}

// Seed returns the random seed last set for handle.
func (f *FakeLibrary) Seed(handle string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seeds[handle]
}

// GetEntities implements ports.NativeLibrary.
func (f *FakeLibrary) GetEntities() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	handles := make([]string, 0, len(f.entities))
	for h := range f.entities {
		handles = append(handles, h)
	}
	slices.Sort(handles)
	return handles, nil
}

// ExecuteEntityJSON implements ports.NativeLibrary. Unknown handles and
// labels reply with null.
func (f *FakeLibrary) ExecuteEntityJSON(handle, label, args string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	labels, ok := f.entities[handle]
	if !ok {
		return "null", nil
	}
	fn, ok := f.config.funcs[label]
	if !ok {
		return rawOrNull(labels[label]), nil
	}
	out, err := fn(labels, json.RawMessage(args))
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetJSONFromLabel implements ports.NativeLibrary.
func (f *FakeLibrary) GetJSONFromLabel(handle, label string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return rawOrNull(f.entities[handle][label]), nil
}

// SetJSONToLabel implements ports.NativeLibrary.
func (f *FakeLibrary) SetJSONToLabel(handle, label, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if labels, ok := f.entities[handle]; ok {
		labels[label] = json.RawMessage(value)
	}
	return nil
}

// GetVersionString implements ports.NativeLibrary.
func (f *FakeLibrary) GetVersionString() (string, error) {
	return f.config.version, nil
}

// GetConcurrencyTypeString implements ports.NativeLibrary.
func (f *FakeLibrary) GetConcurrencyTypeString() (string, error) {
	return string(f.config.concurrency), nil
}

// IsSBFDataStoreEnabled implements ports.NativeLibrary.
func (f *FakeLibrary) IsSBFDataStoreEnabled() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sbf, nil
}

// SetSBFDataStoreEnabled implements ports.NativeLibrary.
func (f *FakeLibrary) SetSBFDataStoreEnabled(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sbf = enabled
	return nil
}

// GetMaxNumThreads implements ports.NativeLibrary.
func (f *FakeLibrary) GetMaxNumThreads() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.threads, nil
}

// SetMaxNumThreads implements ports.NativeLibrary.
func (f *FakeLibrary) SetMaxNumThreads(n uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threads = n
	return nil
}

// Close implements ports.NativeLibrary.
func (f *FakeLibrary) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FakeLibrary) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func rawOrNull(v json.RawMessage) string {
	if len(v) == 0 {
		return "null"
	}
	return string(v)
}
