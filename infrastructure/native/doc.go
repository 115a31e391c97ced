// Package native binds the C entry points of the Amalgam shared library with
// purego, so the binding builds without cgo.
//
// Every C string handed to the library is a NUL-terminated copy owned by Go for
// the duration of the call. Every C string returned by the library is copied
// into Go memory and immediately released with the library's DeleteString,
// including the message and version inside a LoadEntityStatus.
//
// # Basic Usage
//
//	lib, err := native.Open("/opt/amalgam/lib/linux/amd64/amalgam-mt.so")
//	if err != nil {
//	    return err
//	}
//	defer lib.Close()
//
//	version, err := lib.GetVersionString()
package native
