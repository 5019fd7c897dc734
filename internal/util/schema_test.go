package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArgs(t *testing.T) {
	schema := Schema{
		"query": {Type: "string"},
		"limit": {Type: "integer", Default: 5},
	}

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{name: "valid", args: map[string]any{"query": "hello"}},
		{name: "missing required", args: map[string]any{}, wantErr: true},
		{name: "wrong type", args: map[string]any{"query": 7}, wantErr: true},
		{name: "json float for integer", args: map[string]any{"query": "x", "limit": float64(3)}},
		{name: "fractional float for integer", args: map[string]any{"query": "x", "limit": 3.5}, wantErr: true},
		{name: "extra args allowed", args: map[string]any{"query": "x", "other": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArgs(tt.args, schema)
			if tt.wantErr {
				require.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	schema := Schema{
		"limit":  {Type: "integer", Default: 5},
		"format": {Type: "string"},
	}

	in := map[string]any{"format": "json"}
	out := ApplyDefaults(in, schema)

	assert.Equal(t, 5, out["limit"])
	assert.Equal(t, "json", out["format"])
	assert.NotContains(t, in, "limit", "input map must not be mutated")
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)

	out, err = RenderTemplate(`{{join ", " .items}}`, map[string]any{
		"items": []any{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a, b", out)
}
