// Package trace writes the execution trace of native calls: one replayable
// command per call, followed by "# RESULT >" reply lines and occasional
// "# NOTE >" and "# TIME" annotations.
package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
)

// exitCommand terminates a trace when replayed.
const exitCommand = "EXIT"

// fileTraceConfig holds configuration for the FileTrace.
type fileTraceConfig struct {
	dir      string
	file     string
	append   bool
	dirPerm  os.FileMode
	filePerm os.FileMode
	now      func() time.Time
}

func defaultFileTraceConfig() fileTraceConfig {
	return fileTraceConfig{
		file:     entities.DefaultTraceFile,
		dirPerm:  0o755,
		filePerm: 0o644,
		now:      time.Now,
	}
}

// FileTraceOption configures a FileTrace instance.
type FileTraceOption func(*fileTraceConfig)

// WithDir sets the directory trace files are written to.
// Default is the working directory.
func WithDir(dir string) FileTraceOption {
	return func(c *fileTraceConfig) {
		c.dir = dir
	}
}

// WithFile sets the trace file name.
func WithFile(file string) FileTraceOption {
	return func(c *fileTraceConfig) {
		if file != "" {
			c.file = file
		}
	}
}

// WithAppend appends to existing trace files instead of numbering new ones.
func WithAppend(enabled bool) FileTraceOption {
	return func(c *fileTraceConfig) {
		c.append = enabled
	}
}

// WithClock sets the time source used by Time.
func WithClock(now func() time.Time) FileTraceOption {
	return func(c *fileTraceConfig) {
		c.now = now
	}
}

// FileTrace implements ports.TraceSink on a file.
type FileTrace struct {
	mu     sync.Mutex
	config fileTraceConfig
	file   *os.File
	path   string
}

// NewFileTrace creates the trace directory if needed and opens the trace file.
func NewFileTrace(opts ...FileTraceOption) (*FileTrace, error) {
	cfg := defaultFileTraceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	dir, err := traceDir(cfg.dir)
	if err != nil {
		return nil, err
	}
	cfg.dir = dir
	if err := os.MkdirAll(cfg.dir, cfg.dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create trace directory: %w", err)
	}

	t := &FileTrace{config: cfg}
	if err := t.open(cfg.file); err != nil {
		return nil, err
	}
	return t, nil
}

var _ ports.TraceSink = (*FileTrace)(nil)

func traceDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine trace directory: %w", err)
		}
		return wd, nil
	}
	if dir == "~" || len(dir) > 1 && dir[0] == '~' && os.IsPathSeparator(dir[1]) {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Abs(dir)
}

// open must be called with mu held or before the trace is shared.
func (t *FileTrace) open(name string) error {
	path := filepath.Join(t.config.dir, name)
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if t.config.append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	} else {
		for counter := 1; fileExists(path); counter++ {
			path = filepath.Join(t.config.dir, fmt.Sprintf("%s.%d", name, counter))
		}
	}

	f, err := os.OpenFile(path, flags, t.config.filePerm)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	t.file = f
	t.path = path
	return nil
}

func (t *FileTrace) writeLine(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return
	}
	_, _ = t.file.WriteString(line + "\n")
}

// Execution implements ports.TraceSink.
func (t *FileTrace) Execution(command string) {
	t.writeLine(command)
}

// Reply implements ports.TraceSink.
func (t *FileTrace) Reply(reply any) {
	t.writeLine("# RESULT >" + formatReply(reply))
}

// Comment implements ports.TraceSink.
func (t *FileTrace) Comment(note string) {
	t.writeLine("# NOTE >" + note)
}

// Time implements ports.TraceSink. Timestamps have millisecond precision.
func (t *FileTrace) Time(label string) {
	now := t.config.now()
	t.writeLine(fmt.Sprintf("# TIME %s %s,%03d", label, now.Format("2006-01-02 15:04:05"), now.Nanosecond()/int(time.Millisecond)))
}

// Reset implements ports.TraceSink.
func (t *FileTrace) Reset(file, replay string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file != nil {
		_, _ = t.file.WriteString(exitCommand + "\n")
		if err := t.file.Close(); err != nil {
			return fmt.Errorf("failed to close trace file: %w", err)
		}
		t.file = nil
	}

	if err := t.open(file); err != nil {
		return err
	}
	if replay != "" {
		if _, err := t.file.WriteString(replay + "\n"); err != nil {
			return fmt.Errorf("failed to write trace file: %w", err)
		}
	}
	return nil
}

// Path implements ports.TraceSink.
func (t *FileTrace) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Close writes the exit command and closes the file.
func (t *FileTrace) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	_, _ = t.file.WriteString(exitCommand + "\n")
	err := t.file.Close()
	t.file = nil
	return err
}

func formatReply(reply any) string {
	switch v := reply.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
