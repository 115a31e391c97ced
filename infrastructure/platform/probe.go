// Package platform reports the operating system and architecture the binary runs on.
package platform

import (
	"runtime"

	"github.com/amalgam-lang/amalgam-go/domain/ports"
)

// RuntimeProbe implements ports.PlatformProbe from the Go runtime.
type RuntimeProbe struct{}

// NewRuntimeProbe creates a probe for the current process.
func NewRuntimeProbe() ports.PlatformProbe {
	return RuntimeProbe{}
}

// OS returns runtime.GOOS.
func (RuntimeProbe) OS() string {
	return runtime.GOOS
}

// Arch returns runtime.GOARCH. GOARCH already uses the library tree's
// naming, so arm64_8a can only be chosen through configuration.
func (RuntimeProbe) Arch() string {
	return runtime.GOARCH
}
