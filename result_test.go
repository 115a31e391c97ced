package amalgam_test

import (
	"encoding/json"
	"testing"

	amalgam "github.com/amalgam-lang/amalgam-go"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decoded(t *testing.T, raw string) amalgam.Result {
	t.Helper()
	var r amalgam.Result
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestResult_Accessors(t *testing.T) {
	r := decoded(t, `{
		"name": "model",
		"count": 3,
		"score": 0.75,
		"ok": true,
		"tags": ["a", "b"],
		"mixed": ["a", 1],
		"nested": {"depth": 2}
	}`)

	tests := []struct {
		name   string
		get    func() (any, bool)
		want   any
		wantOK bool
	}{
		{"string", func() (any, bool) { return r.String("name") }, "model", true},
		{"string wrong type", func() (any, bool) { return r.String("count") }, "", false},
		{"int from float64", func() (any, bool) { return r.Int("count") }, 3, true},
		{"int missing", func() (any, bool) { return r.Int("nope") }, 0, false},
		{"float", func() (any, bool) { return r.Float("score") }, 0.75, true},
		{"bool", func() (any, bool) { return r.Bool("ok") }, true, true},
		{"bool wrong type", func() (any, bool) { return r.Bool("name") }, false, false},
		{"strings", func() (any, bool) { return r.Strings("tags") }, []string{"a", "b"}, true},
		{"strings mixed", func() (any, bool) { return r.Strings("mixed") }, []string(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.get()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}

	nested, ok := r.Object("nested")
	require.True(t, ok)
	assert.Equal(t, 2, nested.IntOr("depth", 0))
}

func TestResult_Must(t *testing.T) {
	r := amalgam.Result{"name": "x", "n": 2, "ok": false, "f": 1.5}

	s, err := r.MustString("name")
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	n, err := r.MustInt("n")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := r.MustFloat("f")
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	b, err := r.MustBool("ok")
	require.NoError(t, err)
	assert.False(t, b)

	_, err = r.MustString("n")
	var fieldErr *errors.ResultFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "n", fieldErr.Field)
	assert.Equal(t, "string", fieldErr.Want)
}

func TestResult_Defaults(t *testing.T) {
	var r amalgam.Result
	assert.Equal(t, "def", r.StringOr("missing", "def"))
	assert.Equal(t, 7, r.IntOr("missing", 7))
	assert.True(t, r.BoolOr("missing", true))
}
