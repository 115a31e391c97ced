// Package host provides the runtime that drives a loaded Amalgam library.
//
// A Runtime resolves and opens the platform build of the shared library,
// forwards calls through a middleware chain (logging, panic recovery,
// execution tracing and forced garbage collection) and keeps a table of the
// entities loaded through it. Configuration files are loaded with Loader.
package host
