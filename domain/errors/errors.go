// Package errors provides domain-specific error types for the binding.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// ErrClosed is returned by every runtime call made after Close.
var ErrClosed = stdErrors.New("amalgam runtime is closed")

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
// This function recognizes custom error types and categorizes them appropriately.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	if stdErrors.Is(err, ErrClosed) {
		return &entities.ErrorDetail{Message: err.Error(), Type: "call", Code: "closed"}
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// LibraryNotFoundError reports a shared library path that does not exist.
type LibraryNotFoundError struct {
	Path string
	// AutoResolved is true when the path was built from platform defaults
	// rather than supplied by the caller.
	AutoResolved bool
}

func (e *LibraryNotFoundError) Error() string {
	if e.AutoResolved {
		return fmt.Sprintf("the auto-determined amalgam library was not found at %q; "+
			"this combination of operating system, machine architecture and library postfix may not be supported", e.Path)
	}
	return fmt.Sprintf("no amalgam library was found at the provided library path %q", e.Path)
}

// ToErrorDetail implements DetailedError.
func (e *LibraryNotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "library", Code: "not_found", IsNotFound: true}
}

// LibraryLoadError reports a library that exists but could not be opened.
type LibraryLoadError struct {
	Err  error
	Path string
}

func (e *LibraryLoadError) Error() string {
	return fmt.Sprintf("failed to load amalgam library %s: %v", e.Path, e.Err)
}

func (e *LibraryLoadError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *LibraryLoadError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "library", Code: "load"}
}

// UnsupportedPlatformError reports an operating system with no bundled library.
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("detected an unsupported machine platform type %q; "+
		"specify the library path to the amalgam shared library to use with this platform", e.OS)
}

// ToErrorDetail implements DetailedError.
func (e *UnsupportedPlatformError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "platform", Code: "os"}
}

// UnsupportedArchError reports an architecture with no bundled library.
type UnsupportedArchError struct {
	OS   string
	Arch string
}

func (e *UnsupportedArchError) Error() string {
	return fmt.Sprintf("an unsupported machine architecture %q was detected or provided for %s; "+
		"specify the library path to the amalgam shared library to use with this machine architecture", e.Arch, e.OS)
}

// ToErrorDetail implements DetailedError.
func (e *UnsupportedArchError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "platform", Code: "arch"}
}

// InvalidPostfixError reports a malformed library postfix.
type InvalidPostfixError struct {
	Postfix string
}

func (e *InvalidPostfixError) Error() string {
	return fmt.Sprintf("library postfix %q must start with a \"-\"", e.Postfix)
}

// ToErrorDetail implements DetailedError.
func (e *InvalidPostfixError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: "library_postfix"}
}

// UnsupportedPostfixError reports a postfix with no matching build in the library directory.
type UnsupportedPostfixError struct {
	Postfix string
	Allowed []string
}

func (e *UnsupportedPostfixError) Error() string {
	return fmt.Sprintf("an unsupported library postfix %q was provided; supported options for "+
		"this platform and architecture include: %s", e.Postfix, strings.Join(e.Allowed, ", "))
}

// ToErrorDetail implements DetailedError.
func (e *UnsupportedPostfixError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "platform",
		Code:    "postfix",
		Details: map[string]any{"allowed": e.Allowed},
	}
}

// SymbolNotFoundError reports a C entry point the loaded library does not export.
type SymbolNotFoundError struct {
	Err    error
	Symbol string
	Path   string
}

func (e *SymbolNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("symbol %s not found in %s: %v", e.Symbol, e.Path, e.Err)
	}
	return fmt.Sprintf("symbol %s not found in %s", e.Symbol, e.Path)
}

func (e *SymbolNotFoundError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *SymbolNotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "symbol", Code: e.Symbol, IsNotFound: true}
}

// EntityLoadError is returned when the library reports it could not load an entity.
type EntityLoadError struct {
	Status entities.LoadEntityStatus
	Handle string
	Path   string
}

func (e *EntityLoadError) Error() string {
	if e.Handle == "" {
		return fmt.Sprintf("failed to verify entity %s: %s", e.Path, e.Status.Message)
	}
	return fmt.Sprintf("failed to load entity %q from %s: %s", e.Handle, e.Path, e.Status.Message)
}

// ToErrorDetail implements DetailedError.
func (e *EntityLoadError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "call",
		Code:    "load_entity",
		Details: map[string]any{"version": e.Status.Version},
	}
}

// CallError reports a foreign call that returned a failure code or panicked.
type CallError struct {
	Err      error
	Function string
	Handle   string
}

func (e *CallError) Error() string {
	if e.Handle != "" {
		return fmt.Sprintf("amalgam %s failed for entity %q: %v", e.Function, e.Handle, e.Err)
	}
	return fmt.Sprintf("amalgam %s failed: %v", e.Function, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CallError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "call", Code: e.Function}
}

// DuplicateHandleError reports a handle that is already tracked in strict mode.
type DuplicateHandleError struct {
	Handle string
}

func (e *DuplicateHandleError) Error() string {
	return fmt.Sprintf("entity handle %q already loaded", e.Handle)
}

// ToErrorDetail implements DetailedError.
func (e *DuplicateHandleError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "call", Code: "duplicate_handle"}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// ResultFieldError reports a field of a decoded reply that is missing or has
// an unexpected type.
type ResultFieldError struct {
	Field string
	Want  string
}

func (e *ResultFieldError) Error() string {
	return fmt.Sprintf("required %s field '%s' is missing or has the wrong type", e.Want, e.Field)
}

// ToErrorDetail implements DetailedError.
func (e *ResultFieldError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "result",
		Code:    e.Field,
		Details: map[string]any{"want": e.Want},
	}
}
