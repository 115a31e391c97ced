package entities

// Library postfixes select a build variant of the native library.
// The postfix is the part of the file name between "amalgam" and the extension.
const (
	PostfixMultiThreaded  = "-mt"
	PostfixSingleThreaded = "-st"
)

// LibraryBaseName is the file name stem shared by every build variant.
const LibraryBaseName = "amalgam"

// LibraryInfo describes the native library a runtime resolved and loaded.
type LibraryInfo struct {
	// Path is the absolute or user-supplied path to the shared object.
	Path string `json:"path"`

	// Postfix is the build variant, e.g. "-mt". Empty when the file name carries none.
	Postfix string `json:"postfix"`

	// OS and Arch are only set when the path was auto-resolved.
	OS   string `json:"os,omitempty"`
	Arch string `json:"arch,omitempty"`

	// Warnings collects non-fatal notices raised during resolution.
	Warnings []string `json:"warnings,omitempty"`
}

// ConcurrencyType is the threading model reported by the native library.
type ConcurrencyType string

const (
	ConcurrencySingleThreaded ConcurrencyType = "SingleThreaded"
	ConcurrencyMultiThreaded  ConcurrencyType = "MultiThreaded"
)

// IsMultiThreaded reports whether the library runs operations on worker threads.
func (c ConcurrencyType) IsMultiThreaded() bool {
	return c == ConcurrencyMultiThreaded
}
