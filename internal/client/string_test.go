package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurfaceString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		surface        *Surface
		expectedSubstr []string
	}{
		{
			name:    "empty surface",
			surface: &Surface{},
			expectedSubstr: []string{
				"unknown server",
				"Tools",
				"Resources",
				"(0)",
			},
		},
		{
			name: "server identity with version",
			surface: &Surface{
				ServerName:    "psmcp",
				ServerVersion: "0.3.0",
			},
			expectedSubstr: []string{
				"psmcp (0.3.0)",
			},
		},
		{
			name: "tools and resources",
			surface: &Surface{
				ServerName: "psmcp",
				Tools: []ToolInfo{
					{Name: "photoshop_open_document", Description: "Open a document from disk"},
					{Name: "photoshop_save_document"},
				},
				Resources: []ResourceInfo{
					{URI: "ps://info", Name: "info", MIMEType: "application/json"},
				},
			},
			expectedSubstr: []string{
				"(2)",
				"photoshop_open_document",
				"Open a document from disk",
				"photoshop_save_document",
				"(1)",
				"ps://info",
				"application/json",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rendered := tc.surface.String()
			for _, substr := range tc.expectedSubstr {
				assert.Contains(t, rendered, substr)
			}
		})
	}
}

func TestSurfaceStringTruncatesDescriptions(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 70)
	surface := &Surface{
		ServerName: "psmcp",
		Tools:      []ToolInfo{{Name: "photoshop_run_script", Description: long}},
	}

	rendered := surface.String()
	assert.Contains(t, rendered, strings.Repeat("a", 57)+"...")
	assert.NotContains(t, rendered, strings.Repeat("a", 58))
}
