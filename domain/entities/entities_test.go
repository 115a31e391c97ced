package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEntityStatus_String(t *testing.T) {
	s := LoadEntityStatus{Loaded: true, Message: "", Version: "57.0.1"}
	assert.Equal(t, `true,"","57.0.1"`, s.String())

	failed := LoadEntityStatus{Message: "file not found"}
	assert.Equal(t, `false,"file not found",""`, failed.String())
}

func TestNewLoadOptions(t *testing.T) {
	defaults := NewLoadOptions()
	assert.False(t, defaults.Persist)
	assert.False(t, defaults.LoadContained)
	assert.False(t, defaults.EscapeFilename)
	assert.True(t, defaults.EscapeContainedFilenames)
	assert.Empty(t, defaults.WriteLog)

	opts := NewLoadOptions(
		WithPersist(true),
		WithLoadContained(true),
		WithEscapeFilename(true),
		WithEscapeContainedFilenames(false),
		WithWriteLog("write.log"),
		WithPrintLog("print.log"),
	)
	assert.Equal(t, LoadOptions{
		Persist:        true,
		LoadContained:  true,
		EscapeFilename: true,
		WriteLog:       "write.log",
		PrintLog:       "print.log",
	}, opts)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, DefaultTraceFile, cfg.Trace.File)
	assert.False(t, cfg.Trace.Enabled)
	assert.Nil(t, cfg.GCInterval)
	assert.Nil(t, cfg.MaxNumThreads)
	assert.Nil(t, cfg.SBFDataStoreEnabled)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg = NewConfig(
		WithLibraryPostfix("-st"),
		WithTrace("./traces", ""),
		WithGCInterval(1000),
		WithMaxNumThreads(0),
		WithSBFDataStore(true),
		WithGCInterval(-1), // ignored
	)
	assert.Equal(t, "-st", cfg.LibraryPostfix)
	assert.True(t, cfg.Trace.Enabled)
	assert.Equal(t, "./traces", cfg.Trace.Dir)
	assert.Equal(t, DefaultTraceFile, cfg.Trace.File)
	if assert.NotNil(t, cfg.GCInterval) {
		assert.Equal(t, 1000, *cfg.GCInterval)
	}
	if assert.NotNil(t, cfg.MaxNumThreads) {
		assert.Equal(t, 0, *cfg.MaxNumThreads)
	}
	if assert.NotNil(t, cfg.SBFDataStoreEnabled) {
		assert.True(t, *cfg.SBFDataStoreEnabled)
	}
}

func TestConcurrencyType(t *testing.T) {
	assert.True(t, ConcurrencyMultiThreaded.IsMultiThreaded())
	assert.False(t, ConcurrencySingleThreaded.IsMultiThreaded())
	assert.False(t, ConcurrencyType("").IsMultiThreaded())
}

func TestValidationResult_Summary(t *testing.T) {
	r := &ValidationResult{Errors: []ValidationError{
		{Field: "library_postfix", Message: "must start with -"},
		{Field: "log_level", Message: "unknown level"},
	}}
	assert.Equal(t, "library_postfix: must start with -; log_level: unknown level", r.Summary())
}
