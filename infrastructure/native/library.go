package native

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
)

// Library implements ports.NativeLibrary over a dynamically loaded Amalgam build.
type Library struct {
	path    string
	handle  uintptr
	missing map[string]error

	closeOnce sync.Once
	closeErr  error

	loadEntity               func(handle, path string, persist, loadContained, escapeFilename, escapeContainedFilenames bool, writeLog, printLog string) loadEntityStatus
	verifyEntity             func(path string) loadEntityStatus
	cloneEntity              func(handle, cloneHandle, path string, persist bool, writeLog, printLog string) bool
	storeEntity              func(handle, path string, updatePersistenceLocation, storeContained bool)
	destroyEntity            func(handle string)
	setRandomSeed            func(handle, seed string) bool
	getEntities              func(count *uint64) unsafe.Pointer
	executeEntityJSONPtr     func(handle, label, json string) *byte
	getJSONPtrFromLabel      func(handle, label string) *byte
	setJSONToLabel           func(handle, label, json string)
	getVersionString         func() *byte
	getConcurrencyTypeString func() *byte
	isSBFDataStoreEnabled    func() bool
	setSBFDataStoreEnabled   func(enabled bool)
	getMaxNumThreads         func() uintptr
	setMaxNumThreads         func(n uintptr)
	deleteString             func(p *byte)
}

// Opener implements ports.LibraryOpener with Open.
type Opener struct{}

// NewOpener returns the purego-backed library opener.
func NewOpener() ports.LibraryOpener {
	return Opener{}
}

// Open implements ports.LibraryOpener.
func (Opener) Open(path string) (ports.NativeLibrary, error) {
	return Open(path)
}

// Open loads the shared library at path and binds its entry points.
// A missing required symbol fails the open; optional symbols fail when called.
func Open(path string) (*Library, error) {
	handle, err := openLibrary(path)
	if err != nil {
		return nil, &errors.LibraryLoadError{Path: path, Err: err}
	}

	l := &Library{path: path, handle: handle, missing: make(map[string]error)}
	if err := l.bind(); err != nil {
		_ = closeLibrary(handle)
		return nil, err
	}
	return l, nil
}

func (l *Library) bind() error {
	for _, b := range l.bindings() {
		sym, err := lookupSymbol(l.handle, b.name)
		if err == nil && sym == 0 {
			err = fmt.Errorf("nil address")
		}
		if err == nil {
			err = registerFunc(b.fptr, sym)
		}
		if err != nil {
			if b.required {
				return &errors.SymbolNotFoundError{Symbol: b.name, Path: l.path, Err: err}
			}
			l.missing[b.name] = err
		}
	}
	return nil
}

// registerFunc wraps purego.RegisterFunc, which panics on signatures the
// current platform cannot call.
func registerFunc(fptr any, sym uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot bind: %v", r)
		}
	}()
	purego.RegisterFunc(fptr, sym)
	return nil
}

// require reports a SymbolNotFoundError for optional symbols the build lacks.
func (l *Library) require(name string) error {
	if err, ok := l.missing[name]; ok {
		return &errors.SymbolNotFoundError{Symbol: name, Path: l.path, Err: err}
	}
	return nil
}

// takeString copies a library-owned C string and releases it.
func (l *Library) takeString(p *byte) string {
	if p == nil {
		return ""
	}
	s := goString(p)
	l.deleteString(p)
	return s
}

func (l *Library) takeStatus(s loadEntityStatus) entities.LoadEntityStatus {
	return entities.LoadEntityStatus{
		Loaded:  s.Loaded,
		Message: l.takeString(s.Message),
		Version: l.takeString(s.Version),
	}
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// LoadEntity implements ports.NativeLibrary.
func (l *Library) LoadEntity(handle, path string, opts entities.LoadOptions) (entities.LoadEntityStatus, error) {
	s := l.loadEntity(handle, path, opts.Persist, opts.LoadContained, opts.EscapeFilename,
		opts.EscapeContainedFilenames, opts.WriteLog, opts.PrintLog)
	return l.takeStatus(s), nil
}

// VerifyEntity implements ports.NativeLibrary.
func (l *Library) VerifyEntity(path string) (entities.LoadEntityStatus, error) {
	if err := l.require(symVerifyEntity); err != nil {
		return entities.LoadEntityStatus{}, err
	}
	return l.takeStatus(l.verifyEntity(path)), nil
}

// CloneEntity implements ports.NativeLibrary.
func (l *Library) CloneEntity(handle, cloneHandle string, opts entities.CloneOptions) (bool, error) {
	if err := l.require(symCloneEntity); err != nil {
		return false, err
	}
	return l.cloneEntity(handle, cloneHandle, opts.Path, opts.Persist, opts.WriteLog, opts.PrintLog), nil
}

// StoreEntity implements ports.NativeLibrary.
func (l *Library) StoreEntity(handle, path string, opts entities.StoreOptions) error {
	l.storeEntity(handle, path, opts.UpdatePersistenceLocation, opts.StoreContained)
	return nil
}

// DestroyEntity implements ports.NativeLibrary.
func (l *Library) DestroyEntity(handle string) error {
	l.destroyEntity(handle)
	return nil
}

// SetRandomSeed implements ports.NativeLibrary.
func (l *Library) SetRandomSeed(handle, seed string) (bool, error) {
	if err := l.require(symSetRandomSeed); err != nil {
		return false, err
	}
	return l.setRandomSeed(handle, seed), nil
}

// GetEntities implements ports.NativeLibrary.
// The returned array and its strings stay owned by the library.
func (l *Library) GetEntities() ([]string, error) {
	if err := l.require(symGetEntities); err != nil {
		return nil, err
	}
	var count uint64
	p := l.getEntities(&count)
	if p == nil || count == 0 {
		return []string{}, nil
	}
	ptrs := unsafe.Slice((**byte)(p), count)
	handles := make([]string, 0, count)
	for _, s := range ptrs {
		handles = append(handles, goString(s))
	}
	return handles, nil
}

// ExecuteEntityJSON implements ports.NativeLibrary.
func (l *Library) ExecuteEntityJSON(handle, label, json string) (string, error) {
	return l.takeString(l.executeEntityJSONPtr(handle, label, json)), nil
}

// GetJSONFromLabel implements ports.NativeLibrary.
func (l *Library) GetJSONFromLabel(handle, label string) (string, error) {
	return l.takeString(l.getJSONPtrFromLabel(handle, label)), nil
}

// SetJSONToLabel implements ports.NativeLibrary.
func (l *Library) SetJSONToLabel(handle, label, json string) error {
	l.setJSONToLabel(handle, label, json)
	return nil
}

// GetVersionString implements ports.NativeLibrary.
func (l *Library) GetVersionString() (string, error) {
	return l.takeString(l.getVersionString()), nil
}

// GetConcurrencyTypeString implements ports.NativeLibrary.
func (l *Library) GetConcurrencyTypeString() (string, error) {
	if err := l.require(symGetConcurrencyTypeString); err != nil {
		return "", err
	}
	return l.takeString(l.getConcurrencyTypeString()), nil
}

// IsSBFDataStoreEnabled implements ports.NativeLibrary.
func (l *Library) IsSBFDataStoreEnabled() (bool, error) {
	if err := l.require(symIsSBFDataStoreEnabled); err != nil {
		return false, err
	}
	return l.isSBFDataStoreEnabled(), nil
}

// SetSBFDataStoreEnabled implements ports.NativeLibrary.
func (l *Library) SetSBFDataStoreEnabled(enabled bool) error {
	if err := l.require(symSetSBFDataStoreEnabled); err != nil {
		return err
	}
	l.setSBFDataStoreEnabled(enabled)
	return nil
}

// GetMaxNumThreads implements ports.NativeLibrary.
func (l *Library) GetMaxNumThreads() (uint64, error) {
	if err := l.require(symGetMaxNumThreads); err != nil {
		return 0, err
	}
	return uint64(l.getMaxNumThreads()), nil
}

// SetMaxNumThreads implements ports.NativeLibrary.
func (l *Library) SetMaxNumThreads(n uint64) error {
	if err := l.require(symSetMaxNumThreads); err != nil {
		return err
	}
	l.setMaxNumThreads(uintptr(n))
	return nil
}

// Close unloads the library. It is safe to call more than once.
func (l *Library) Close() error {
	l.closeOnce.Do(func() {
		if l.handle != 0 {
			l.closeErr = closeLibrary(l.handle)
		}
	})
	return l.closeErr
}
