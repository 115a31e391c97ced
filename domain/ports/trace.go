package ports

// TraceSink records native calls as a replayable execution trace.
type TraceSink interface {
	// Execution writes a raw command line.
	Execution(command string)
	// Reply writes the result of the preceding command.
	Reply(reply any)
	// Comment writes a free-form note.
	Comment(note string)
	// Time writes a labelled timestamp.
	Time(label string)
	// Reset closes the current trace and starts a new one named file.
	// replay, when non-empty, is written first to the new trace.
	Reset(file, replay string) error
	// Path returns the file currently written to, or "" when tracing is disabled.
	Path() string
	Close() error
}
