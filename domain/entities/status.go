package entities

import "fmt"

// LoadEntityStatus is returned by the native LoadEntity and VerifyEntity calls.
type LoadEntityStatus struct {
	// Loaded is false when the library rejected the source.
	Loaded bool `json:"loaded"`

	// Message carries the library's explanation when Loaded is false.
	Message string `json:"message"`

	// Version is the Amalgam version the source was written against.
	Version string `json:"version"`
}

// String renders the status the way it is written to execution traces.
func (s LoadEntityStatus) String() string {
	return fmt.Sprintf("%t,\"%s\",\"%s\"", s.Loaded, s.Message, s.Version)
}
