// Package ports defines interfaces for infrastructure operations.
// These ports enable dependency inversion - the runtime depends on abstractions,
// and infrastructure adapters (purego, files, YAML) implement these interfaces.
package ports
