//go:build !darwin && !linux && !windows

package native

import (
	"fmt"
	"runtime"
	"unsafe"
)

var errUnsupported = fmt.Errorf("dynamic loading is not supported on %s", runtime.GOOS)

func openLibrary(string) (uintptr, error) {
	return 0, errUnsupported
}

func lookupSymbol(uintptr, string) (uintptr, error) {
	return 0, errUnsupported
}

func closeLibrary(uintptr) error {
	return errUnsupported
}

func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
