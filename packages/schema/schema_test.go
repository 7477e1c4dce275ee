package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{
	"type": "object",
	"required": ["id", "email"],
	"properties": {
		"id": {"type": "integer"},
		"email": {"type": "string"}
	}
}`

func TestValidator_Validate(t *testing.T) {
	v, err := New([]byte(userSchema))
	require.NoError(t, err)

	tests := []struct {
		name       string
		payload    client.JSONObject
		violations int
	}{
		{"valid", client.JSONObject{"id": float64(1), "email": "a@example.com"}, 0},
		{"missing field", client.JSONObject{"id": float64(1)}, 1},
		{"wrong type", client.JSONObject{"id": "one", "email": "a@example.com"}, 1},
		{"empty object", client.JSONObject{}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations, err := v.Validate(tt.payload)
			require.NoError(t, err)
			assert.Len(t, violations, tt.violations)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(userSchema), 0644))

	v, err := Load(path)
	require.NoError(t, err)

	violations, err := v.Validate(client.JSONObject{"email": "a@example.com"})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "id")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = New([]byte(`{"type": `))
	assert.Error(t, err)
}
