package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvVars(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		envVars     map[string]string
		expected    string
		expectError bool
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no references",
			input:    "Photoshop.Application",
			expected: "Photoshop.Application",
		},
		{
			name:     "single env var",
			input:    "${PS_VERSION}",
			envVars:  map[string]string{"PS_VERSION": "2025"},
			expected: "2025",
		},
		{
			name:     "reference in middle",
			input:    "exports/${PS_VERSION}/out.png",
			envVars:  map[string]string{"PS_VERSION": "2024"},
			expected: "exports/2024/out.png",
		},
		{
			name:     "default used when unset",
			input:    "${PS_VERSION:2023}",
			expected: "2023",
		},
		{
			name:     "empty default used when unset",
			input:    "${PS_VERSION:}",
			expected: "",
		},
		{
			name:     "env wins over default",
			input:    "${PS_VERSION:2023}",
			envVars:  map[string]string{"PS_VERSION": "cs6"},
			expected: "cs6",
		},
		{
			name:        "undefined without default",
			input:       "${PSMCP_UNDEFINED_VAR}",
			expected:    "${PSMCP_UNDEFINED_VAR}",
			expectError: true,
		},
		{
			name:        "mixed defined and undefined",
			input:       "${DEFINED}/${PSMCP_UNDEFINED_VAR}",
			envVars:     map[string]string{"DEFINED": "value"},
			expected:    "value/${PSMCP_UNDEFINED_VAR}",
			expectError: true,
		},
		{
			name:     "multiple references",
			input:    "${A1}/${B2}/${C3}",
			envVars:  map[string]string{"A1": "a", "B2": "b", "C3": "c"},
			expected: "a/b/c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			result, err := ExpandEnvVars(tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExpandEnvVarsPatternShapes(t *testing.T) {
	// Strings that do not match the ${NAME} shape pass through untouched.
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare dollar", input: "$PS_VERSION", expected: "$PS_VERSION"},
		{name: "digit start", input: "${1VAR}", expected: "${1VAR}"},
		{name: "empty braces", input: "${}", expected: "${}"},
		{name: "unclosed brace", input: "${PS_VERSION", expected: "${PS_VERSION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExpandEnvVars(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
