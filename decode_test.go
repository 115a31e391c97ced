package amalgam_test

import (
	"encoding/json"
	"testing"

	amalgam "github.com/amalgam-lang/amalgam-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prediction struct {
	Label      string  `json:"label" validate:"required"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    prediction
		wantErr string
	}{
		{
			name: "raw json",
			src:  []byte(`{"label":"cat","confidence":0.9}`),
			want: prediction{Label: "cat", Confidence: 0.9},
		},
		{
			name: "raw message",
			src:  json.RawMessage(`{"label":"dog","confidence":0.1}`),
			want: prediction{Label: "dog", Confidence: 0.1},
		},
		{
			name: "result map",
			src:  amalgam.Result{"label": "bird", "confidence": 0.5},
			want: prediction{Label: "bird", Confidence: 0.5},
		},
		{
			name:    "missing required field",
			src:     amalgam.Result{"confidence": 0.5},
			wantErr: "result validation failed",
		},
		{
			name:    "out of range",
			src:     []byte(`{"label":"cat","confidence":2}`),
			wantErr: "result validation failed",
		},
		{
			name:    "wrong type",
			src:     []byte(`{"label":1}`),
			wantErr: "failed to unmarshal result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got prediction
			err := amalgam.DecodeResult(tt.src, &got)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
