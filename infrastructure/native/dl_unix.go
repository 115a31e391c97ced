//go:build darwin || linux

package native

import (
	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func closeLibrary(handle uintptr) error {
	return purego.Dlclose(handle)
}

func goString(p *byte) string {
	return unix.BytePtrToString(p)
}
