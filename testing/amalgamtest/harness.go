package amalgamtest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
	"github.com/amalgam-lang/amalgam-go/host"
	"github.com/amalgam-lang/amalgam-go/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewRuntime returns a host.Runtime backed by lib. The runtime is closed
// when the test ends.
func NewRuntime(t testing.TB, lib ports.NativeLibrary, opts ...host.Option) *host.Runtime {
	t.Helper()

	libPath := filepath.Join(t.TempDir(), entities.LibraryBaseName+entities.PostfixSingleThreaded+".so")
	require.NoError(t, os.WriteFile(libPath, nil, 0o644))

	base := []host.Option{
		host.WithConfigOptions(entities.WithLibraryPath(libPath)),
		host.WithOpener(ports.LibraryOpenerFunc(func(string) (ports.NativeLibrary, error) {
			return lib, nil
		})),
		host.WithLogger(log.Discard()),
	}
	rt, err := host.NewRuntime(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })
	return rt
}

// WriteEntity writes labels as a fake entity source and returns its path.
func WriteEntity(t testing.TB, labels map[string]any) string {
	t.Helper()
	data, err := json.Marshal(labels)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "entity.amlg")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// AssertLabel asserts that label of the entity handle holds expected.
func AssertLabel(t testing.TB, rt *host.Runtime, handle, label string, expected any) {
	t.Helper()
	got, err := rt.GetJSONFromLabel(context.Background(), handle, label)
	require.NoError(t, err)
	want, err := json.Marshal(expected)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got), "label %q of %q", label, handle)
}

// AssertTracked asserts the handles the runtime has loaded, in sorted order.
func AssertTracked(t testing.TB, rt *host.Runtime, handles ...string) {
	t.Helper()
	if len(handles) == 0 {
		assert.Empty(t, rt.Tracked())
		return
	}
	assert.Equal(t, handles, rt.Tracked())
}
