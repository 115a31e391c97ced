package trace

import "github.com/amalgam-lang/amalgam-go/domain/ports"

type discard struct{}

// Discard is a TraceSink that drops everything. Used when tracing is disabled.
var Discard ports.TraceSink = discard{}

func (discard) Execution(string)           {}
func (discard) Reply(any)                  {}
func (discard) Comment(string)             {}
func (discard) Time(string)                {}
func (discard) Reset(string, string) error { return nil }
func (discard) Path() string               { return "" }
func (discard) Close() error               { return nil }
