package ports

import "github.com/amalgam-lang/amalgam-go/domain/entities"

// NativeLibrary is the C application binary interface exported by the Amalgam
// shared library. Implementations copy every returned C string into Go memory
// and release the original with the library's DeleteString before returning.
//
// Methods backed by optional symbols return a SymbolNotFoundError when the
// loaded build does not export them.
type NativeLibrary interface {
	LoadEntity(handle, path string, opts entities.LoadOptions) (entities.LoadEntityStatus, error)
	VerifyEntity(path string) (entities.LoadEntityStatus, error)
	CloneEntity(handle, cloneHandle string, opts entities.CloneOptions) (bool, error)
	StoreEntity(handle, path string, opts entities.StoreOptions) error
	DestroyEntity(handle string) error
	SetRandomSeed(handle, seed string) (bool, error)
	GetEntities() ([]string, error)

	ExecuteEntityJSON(handle, label, json string) (string, error)
	GetJSONFromLabel(handle, label string) (string, error)
	SetJSONToLabel(handle, label, json string) error

	GetVersionString() (string, error)
	GetConcurrencyTypeString() (string, error)
	IsSBFDataStoreEnabled() (bool, error)
	SetSBFDataStoreEnabled(enabled bool) error
	GetMaxNumThreads() (uint64, error)
	SetMaxNumThreads(n uint64) error

	// Close unloads the library. The library must not be used afterwards.
	Close() error
}

// LibraryOpener loads a NativeLibrary from a shared object path.
type LibraryOpener interface {
	Open(path string) (NativeLibrary, error)
}

// LibraryOpenerFunc adapts a function to LibraryOpener.
type LibraryOpenerFunc func(path string) (NativeLibrary, error)

// Open implements LibraryOpener.
func (f LibraryOpenerFunc) Open(path string) (NativeLibrary, error) {
	return f(path)
}
