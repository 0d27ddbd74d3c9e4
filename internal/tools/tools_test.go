package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brushlab/psmcp/internal/ps/mocks"
	"github.com/brushlab/psmcp/internal/registry"
)

func writeBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// expectedToolNames is the complete tool surface in registration order.
var expectedToolNames = []string{
	"create_document",
	"open_document",
	"save_document",
	"create_text_layer",
	"create_solid_color_layer",
	"get_session_info",
	"get_active_document_info",
	"get_selection_info",
	"resize_image",
	"change_color_mode",
	"crop_image",
	"auto_trim",
	"rotate_image",
	"flip_image",
	"flatten_document",
	"export_image",
	"batch_export",
	"convert_to_jpg",
	"convert_to_png",
	"convert_to_webp",
	"convert_to_gif",
	"convert_to_tiff",
	"convert_to_psd",
	"convert_for_web",
	"convert_for_print",
	"convert_for_social_media",
}

// stubDocument builds a mock document with the identity lookups most
// handlers perform. Expectations are optional so each test only pays for
// what its handler actually reads.
func stubDocument(name string, width, height float64) *mocks.MockDocument {
	doc := mocks.NewMockDocument()
	doc.On("Name", mock.Anything).Return(name, nil).Maybe()
	doc.On("Width", mock.Anything).Return(width, nil).Maybe()
	doc.On("Height", mock.Anything).Return(height, nil).Maybe()
	return doc
}

func TestAllToolNames(t *testing.T) {
	t.Parallel()

	ts := New(mocks.NewMockClient())
	defs := ts.All()
	require.Len(t, defs, len(expectedToolNames))

	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
		require.NotNil(t, def.Handler, "tool %s has no handler", def.Name)
		require.NotNil(t, def.InputSchema, "tool %s has no schema", def.Name)
		assert.NotEmpty(t, def.Description, "tool %s has no description", def.Name)
	}
	assert.Equal(t, expectedToolNames, names)
}

func TestRegisterPrefixesEveryTool(t *testing.T) {
	t.Parallel()

	ts := New(mocks.NewMockClient())
	reg := registry.New()
	require.NoError(t, ts.Register(reg))

	registered := reg.Tools()
	require.Len(t, registered, len(expectedToolNames))
	for _, tool := range registered {
		assert.Regexp(t, "^photoshop_", tool.Name)
	}
}

func TestReadOnlyAnnotations(t *testing.T) {
	t.Parallel()

	readOnly := map[string]bool{
		"get_session_info":         true,
		"get_active_document_info": true,
		"get_selection_info":       true,
	}

	ts := New(mocks.NewMockClient())
	for _, def := range ts.All() {
		if readOnly[def.Name] {
			require.NotNil(t, def.Annotations, "tool %s", def.Name)
			assert.True(t, def.Annotations.ReadOnlyHint, "tool %s", def.Name)
		} else if def.Annotations != nil {
			assert.False(t, def.Annotations.ReadOnlyHint, "tool %s", def.Name)
		}
	}
}

func TestFileSizeFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.bin")
	writeBytes(t, path, make([]byte, 2560))

	result := map[string]any{}
	fileSizeFields(path, result)
	assert.Equal(t, int64(2560), result["file_size_bytes"])
	assert.Equal(t, 2.5, result["file_size_kb"])
}

func TestFileSizeFieldsMissingFile(t *testing.T) {
	t.Parallel()

	result := map[string]any{}
	fileSizeFields(filepath.Join(t.TempDir(), "never-written.jpg"), result)
	assert.Equal(t, int64(0), result["file_size_bytes"])
	assert.Equal(t, 0.0, result["file_size_kb"])
}
