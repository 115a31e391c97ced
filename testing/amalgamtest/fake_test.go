package amalgamtest_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	amalgam "github.com/amalgam-lang/amalgam-go"
	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/amalgam-lang/amalgam-go/host"
	"github.com/amalgam-lang/amalgam-go/testing/amalgamtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterLibrary() *amalgamtest.FakeLibrary {
	return amalgamtest.NewFakeLibrary(
		amalgamtest.WithVersion("60.1.0"),
		amalgamtest.WithLabelFunc("increment", func(labels map[string]json.RawMessage, args json.RawMessage) (any, error) {
			var in struct {
				By int `json:"by"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			var count int
			_ = json.Unmarshal(labels["count"], &count)
			count += in.By
			labels["count"], _ = json.Marshal(count)
			return map[string]int{"count": count}, nil
		}),
	)
}

func TestFakeLibrary_RuntimeRoundTrip(t *testing.T) {
	lib := counterLibrary()
	rt := amalgamtest.NewRuntime(t, lib)
	ctx := t.Context()
	src := amalgamtest.WriteEntity(t, map[string]any{"count": 1, "name": "counter"})

	status, err := rt.LoadEntity(ctx, "c", src)
	require.NoError(t, err)
	assert.Equal(t, "60.1.0", status.Version)
	amalgamtest.AssertTracked(t, rt, "c")

	type reply struct {
		Count int `json:"count" validate:"gte=0"`
	}
	got, err := amalgam.Execute[reply](ctx, rt, "c", "increment", map[string]int{"by": 2})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
	amalgamtest.AssertLabel(t, rt, "c", "count", 3)

	name, err := amalgam.GetLabel[string](ctx, rt, "c", "name")
	require.NoError(t, err)
	assert.Equal(t, "counter", name)

	require.NoError(t, amalgam.SetLabel(ctx, rt, "c", "name", "renamed"))
	amalgamtest.AssertLabel(t, rt, "c", "name", "renamed")

	require.NoError(t, rt.SetRandomSeed(ctx, "c", "42"))
	assert.Equal(t, "42", lib.Seed("c"))

	out := filepath.Join(t.TempDir(), "stored.amlg")
	require.NoError(t, rt.StoreEntity(ctx, "c", out, entities.StoreOptions{}))
	stored, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(stored), `"renamed"`)

	require.NoError(t, rt.CloneEntity(ctx, "c", "copy", entities.CloneOptions{}))
	handles, err := rt.Entities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "copy"}, handles)

	require.NoError(t, rt.DestroyEntity(ctx, "c"))
	amalgamtest.AssertTracked(t, rt, "copy")

	err = rt.CloneEntity(ctx, "c", "again", entities.CloneOptions{})
	var callErr *errors.CallError
	require.ErrorAs(t, err, &callErr)
}

func TestFakeLibrary_LoadFailure(t *testing.T) {
	rt := amalgamtest.NewRuntime(t, amalgamtest.NewFakeLibrary())

	status, err := rt.LoadEntity(t.Context(), "missing", filepath.Join(t.TempDir(), "nope.amlg"))
	var loadErr *errors.EntityLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.False(t, status.Loaded)
	assert.NotEmpty(t, status.Message)
	amalgamtest.AssertTracked(t, rt)

	_, err = rt.VerifyEntity(t.Context(), amalgamtest.WriteEntity(t, map[string]any{}))
	require.NoError(t, err)
}

func TestFakeLibrary_Settings(t *testing.T) {
	lib := amalgamtest.NewFakeLibrary(amalgamtest.WithConcurrency(entities.ConcurrencyMultiThreaded))
	rt := amalgamtest.NewRuntime(t, lib, host.WithConfigOptions(
		entities.WithSBFDataStore(false),
		entities.WithMaxNumThreads(2),
	))
	ctx := t.Context()

	enabled, err := rt.SBFDataStoreEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	n, err := rt.MaxNumThreads(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	ct, err := rt.ConcurrencyType(ctx)
	require.NoError(t, err)
	assert.True(t, ct.IsMultiThreaded())

	require.NoError(t, rt.Close(ctx))
	assert.True(t, lib.Closed())
}

func TestFakeLibrary_UnknownLabels(t *testing.T) {
	lib := amalgamtest.NewFakeLibrary()
	reply, err := lib.ExecuteEntityJSON("nobody", "x", "{}")
	require.NoError(t, err)
	assert.Equal(t, "null", reply)

	reply, err = lib.GetJSONFromLabel("nobody", "x")
	require.NoError(t, err)
	assert.Equal(t, "null", reply)
}
