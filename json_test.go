package amalgam_test

import (
	"context"
	"testing"

	amalgam "github.com/amalgam-lang/amalgam-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers every call from fixed replies and records what it got.
type fakeRunner struct {
	reply  []byte
	err    error
	handle string
	label  string
	sent   []byte
}

func (f *fakeRunner) ExecuteEntityJSON(_ context.Context, handle, label string, json []byte) ([]byte, error) {
	f.handle, f.label, f.sent = handle, label, json
	return f.reply, f.err
}

func (f *fakeRunner) GetJSONFromLabel(_ context.Context, handle, label string) ([]byte, error) {
	f.handle, f.label = handle, label
	return f.reply, f.err
}

func (f *fakeRunner) SetJSONToLabel(_ context.Context, handle, label string, json []byte) error {
	f.handle, f.label, f.sent = handle, label, json
	return f.err
}

func TestExecute(t *testing.T) {
	type sum struct {
		Total int `json:"total"`
	}
	r := &fakeRunner{reply: []byte(`{"total":3}`)}

	got, err := amalgam.Execute[sum](t.Context(), r, "model", "add", map[string]int{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, sum{Total: 3}, got)
	assert.Equal(t, "model", r.handle)
	assert.Equal(t, "add", r.label)
	assert.JSONEq(t, `{"a":1,"b":2}`, string(r.sent))
}

func TestExecute_NilArgsAndNullReply(t *testing.T) {
	r := &fakeRunner{reply: []byte("null\n")}

	got, err := amalgam.Execute[map[string]any](t.Context(), r, "h", "reset", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "{}", string(r.sent))
}

func TestExecute_Errors(t *testing.T) {
	t.Run("call error is returned unchanged", func(t *testing.T) {
		r := &fakeRunner{err: assert.AnError}
		_, err := amalgam.Execute[int](t.Context(), r, "h", "f", nil)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("bad reply", func(t *testing.T) {
		r := &fakeRunner{reply: []byte(`"text"`)}
		_, err := amalgam.Execute[int](t.Context(), r, "h", "f", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode reply of f")
	})

	t.Run("unmarshalable args", func(t *testing.T) {
		r := &fakeRunner{}
		_, err := amalgam.Execute[int](t.Context(), r, "h", "f", make(chan int))
		require.Error(t, err)
		assert.Nil(t, r.sent)
	})
}

func TestGetLabel(t *testing.T) {
	r := &fakeRunner{reply: []byte(`["a","b"]`)}
	got, err := amalgam.GetLabel[[]string](t.Context(), r, "h", "names")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, "names", r.label)
}

func TestSetLabel(t *testing.T) {
	r := &fakeRunner{}
	require.NoError(t, amalgam.SetLabel(t.Context(), r, "h", "threshold", 0.5))
	assert.Equal(t, "0.5", string(r.sent))
	assert.Equal(t, "threshold", r.label)
}
