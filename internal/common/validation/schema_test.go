package validation

import (
	"testing"

	"jobvance-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["tier", "feature"],
	"properties": {
		"tier": {"type": "string"},
		"feature": {"type": "string", "minLength": 1},
		"enforce": {"type": "boolean"}
	}
}`

func TestSchema_ValidateJSON(t *testing.T) {
	schema := MustCompile(testSchema)

	tests := []struct {
		name        string
		document    string
		valid       bool
		errorFields []string
	}{
		{
			name:     "valid with extra process variables",
			document: `{"tier":"pro","feature":"export","processId":"abc"}`,
			valid:    true,
		},
		{
			name:        "missing feature",
			document:    `{"tier":"pro"}`,
			valid:       false,
			errorFields: []string{"(root)"},
		},
		{
			name:        "wrong type",
			document:    `{"tier":"pro","feature":"export","enforce":"yes"}`,
			valid:       false,
			errorFields: []string{"enforce"},
		},
		{
			name:        "empty document",
			document:    "",
			valid:       false,
			errorFields: []string{"(root)"},
		},
		{
			name:        "malformed json",
			document:    `{"tier":`,
			valid:       false,
			errorFields: []string{"(root)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schema.ValidateJSON(tt.document)
			assert.Equal(t, tt.valid, result.Valid)

			fields := make([]string, 0, len(result.Errors))
			for _, e := range result.Errors {
				fields = append(fields, e.Field)
			}
			for _, f := range tt.errorFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestSchema_ValidateInput(t *testing.T) {
	schema := MustCompile(testSchema)

	result := schema.ValidateInput(map[string]interface{}{"tier": "free", "feature": "export"})
	assert.True(t, result.Valid)
	assert.NoError(t, result.Err())

	result = schema.ValidateInput(map[string]interface{}{"tier": "free", "feature": ""})
	require.False(t, result.Valid)

	err := result.Err()
	require.Error(t, err)
	se, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidInput, se.Code)
	assert.Contains(t, se.Details, "feature")
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile(`not json`) })
}
