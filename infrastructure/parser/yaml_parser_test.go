package parser

import (
	"testing"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYamlConfigParser_Parse(t *testing.T) {
	data := []byte(`
library_postfix: -st
library_dir: /opt/amalgam/lib
gc_interval: 1000
max_num_threads: 0
sbf_datastore_enabled: true
trace:
  enabled: true
  dir: ./traces
log_level: debug
`)

	cfg, err := NewYamlConfigParser().Parse(data, entities.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "-st", cfg.LibraryPostfix)
	assert.Equal(t, "/opt/amalgam/lib", cfg.LibraryDir)
	require.NotNil(t, cfg.GCInterval)
	assert.Equal(t, 1000, *cfg.GCInterval)
	require.NotNil(t, cfg.MaxNumThreads)
	assert.Equal(t, 0, *cfg.MaxNumThreads)
	require.NotNil(t, cfg.SBFDataStoreEnabled)
	assert.True(t, *cfg.SBFDataStoreEnabled)
	assert.True(t, cfg.Trace.Enabled)
	assert.Equal(t, "./traces", cfg.Trace.Dir)
	assert.Equal(t, entities.DefaultTraceFile, cfg.Trace.File, "unset keys keep base values")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestYamlConfigParser_Empty(t *testing.T) {
	cfg, err := NewYamlConfigParser().Parse(nil, entities.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultConfig(), *cfg)
}

func TestYamlConfigParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown key", data: "library_prefix: -st\n"},
		{name: "wrong type", data: "gc_interval: often\n"},
		{name: "malformed", data: "trace: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYamlConfigParser().Parse([]byte(tt.data), entities.DefaultConfig())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid yaml config")
		})
	}
}
