package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/ps/mocks"
)

func TestResizeImage(t *testing.T) {
	t.Parallel()

	doc := stubDocument("doc", 800, 600)
	doc.On("Resolution", mock.Anything).Return(72.0, nil)
	doc.On("ResizeImage", mock.Anything, 400.0, 300.0, 72.0, ps.Bicubic).Return(nil)

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	ts := New(client)
	result, err := ts.resizeImage(t.Context(), map[string]any{
		"width":  400.0,
		"height": 300.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 800.0, result["old_width"])
	assert.Equal(t, 600.0, result["old_height"])
	assert.Equal(t, 400.0, result["new_width"])
	assert.Equal(t, 300.0, result["new_height"])
	assert.Equal(t, 72.0, result["new_resolution"])
	assert.Equal(t, "bicubic", result["resample_method"])
	doc.AssertExpectations(t)
}

func TestResizeImageDefaultsToCurrentDimensions(t *testing.T) {
	t.Parallel()

	doc := stubDocument("doc", 800, 600)
	doc.On("Resolution", mock.Anything).Return(72.0, nil)
	// only the resolution changes; zero means keep
	doc.On("ResizeImage", mock.Anything, 800.0, 600.0, 300.0, ps.NoResampling).Return(nil)

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	ts := New(client)
	result, err := ts.resizeImage(t.Context(), map[string]any{
		"resolution": 300.0,
		"resample":   "none",
	})
	require.NoError(t, err)
	assert.Equal(t, 72.0, result["old_resolution"])
	assert.Equal(t, 300.0, result["new_resolution"])
	doc.AssertExpectations(t)
}

func TestResizeImageValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{
			name:    "negative width",
			args:    map[string]any{"width": -1.0},
			wantErr: "width and height must be positive",
		},
		{
			name:    "negative resolution",
			args:    map[string]any{"resolution": -72.0},
			wantErr: "resolution must be positive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := stubDocument("doc", 800, 600)
			doc.On("Resolution", mock.Anything).Return(72.0, nil)
			client := mocks.NewMockClient()
			client.On("ActiveDocument", mock.Anything).Return(doc, nil)

			ts := New(client)
			_, err := ts.resizeImage(t.Context(), tc.args)
			require.ErrorContains(t, err, tc.wantErr)
			doc.AssertNotCalled(t, "ResizeImage",
				mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestChangeColorMode(t *testing.T) {
	t.Parallel()

	doc := stubDocument("doc", 800, 600)
	doc.On("Mode", mock.Anything).Return(ps.ModeRGB, nil).Once()
	doc.On("ChangeMode", mock.Anything, ps.ConvertToCMYK).Return(nil).Once()
	doc.On("Mode", mock.Anything).Return(ps.ModeCMYK, nil).Once()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	ts := New(client)
	result, err := ts.changeColorMode(t.Context(), map[string]any{"mode": "cmyk"})
	require.NoError(t, err)

	assert.Equal(t, "RGB", result["old_mode"])
	assert.Equal(t, "CMYK", result["new_mode"])
	doc.AssertExpectations(t)
}

func TestChangeColorModeInvalid(t *testing.T) {
	t.Parallel()

	ts := New(mocks.NewMockClient())
	_, err := ts.changeColorMode(t.Context(), map[string]any{"mode": "sepia"})
	require.ErrorContains(t, err, `invalid color mode "sepia"`)
}

func TestCropImage(t *testing.T) {
	t.Parallel()

	doc := mocks.NewMockDocument()
	doc.On("Width", mock.Anything).Return(800.0, nil).Once()
	doc.On("Height", mock.Anything).Return(600.0, nil).Once()
	doc.On("Crop", mock.Anything, 100.0, 50.0, 500.0, 350.0).Return(nil).Once()
	doc.On("Width", mock.Anything).Return(400.0, nil).Once()
	doc.On("Height", mock.Anything).Return(300.0, nil).Once()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	ts := New(client)
	result, err := ts.cropImage(t.Context(), map[string]any{
		"left": 100.0, "top": 50.0, "right": 500.0, "bottom": 350.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 800.0, result["old_width"])
	assert.Equal(t, 400.0, result["new_width"])
	bounds := result["crop_bounds"].(map[string]any)
	assert.Equal(t, 100.0, bounds["left"])
	assert.Equal(t, 350.0, bounds["bottom"])
	doc.AssertExpectations(t)
}

func TestCropImageValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{
			name:    "missing bound",
			args:    map[string]any{"left": 0.0, "top": 0.0, "right": 100.0},
			wantErr: `missing required parameter "bottom"`,
		},
		{
			name:    "negative origin",
			args:    map[string]any{"left": -5.0, "top": 0.0, "right": 100.0, "bottom": 100.0},
			wantErr: "crop bounds must be non-negative",
		},
		{
			name:    "inverted bounds",
			args:    map[string]any{"left": 200.0, "top": 0.0, "right": 100.0, "bottom": 100.0},
			wantErr: "crop bounds must satisfy right > left and bottom > top",
		},
		{
			name:    "zero area",
			args:    map[string]any{"left": 100.0, "top": 50.0, "right": 100.0, "bottom": 100.0},
			wantErr: "crop bounds must satisfy right > left and bottom > top",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ts := New(mocks.NewMockClient())
			_, err := ts.cropImage(t.Context(), tc.args)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestAutoTrim(t *testing.T) {
	t.Parallel()

	doc := mocks.NewMockDocument()
	doc.On("Width", mock.Anything).Return(800.0, nil).Once()
	doc.On("Height", mock.Anything).Return(600.0, nil).Once()
	doc.On("Trim", mock.Anything, ps.TrimTransparent).Return(nil).Once()
	doc.On("Width", mock.Anything).Return(780.0, nil).Once()
	doc.On("Height", mock.Anything).Return(550.0, nil).Once()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	ts := New(client)
	result, err := ts.autoTrim(t.Context(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "transparent", result["trim_type"])
	trimmed := result["pixels_trimmed"].(map[string]any)
	assert.Equal(t, 20.0, trimmed["width"])
	assert.Equal(t, 50.0, trimmed["height"])
	doc.AssertExpectations(t)
}

func TestAutoTrimTopLeftAlias(t *testing.T) {
	t.Parallel()

	doc := stubDocument("doc", 800, 600)
	doc.On("Trim", mock.Anything, ps.TrimTopLeft).Return(nil)

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	ts := New(client)
	result, err := ts.autoTrim(t.Context(), map[string]any{"trim_type": "top_left"})
	require.NoError(t, err)
	assert.Equal(t, "top_left", result["trim_type"])
	doc.AssertExpectations(t)
}

func TestRotateImage(t *testing.T) {
	t.Parallel()

	doc := stubDocument("doc", 600, 800)
	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	var script string
	client.On("RunScript", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { script = args.String(1) }).
		Return("success", nil)

	ts := New(client)
	result, err := ts.rotateImage(t.Context(), map[string]any{"angle": 90.0})
	require.NoError(t, err)

	assert.Contains(t, script, "rotateCanvas(90)")
	assert.Equal(t, 90.0, result["angle"])
	assert.Equal(t, 600.0, result["width"])
	assert.Equal(t, 800.0, result["height"])
}

func TestRotateImageRequiresAngle(t *testing.T) {
	t.Parallel()

	ts := New(mocks.NewMockClient())
	_, err := ts.rotateImage(t.Context(), map[string]any{})
	require.ErrorContains(t, err, `missing required parameter "angle"`)
}

func TestFlipImage(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(stubDocument("doc", 800, 600), nil)

	var script string
	client.On("RunScript", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { script = args.String(1) }).
		Return("success", nil)

	ts := New(client)
	result, err := ts.flipImage(t.Context(), map[string]any{"direction": "vertical"})
	require.NoError(t, err)

	assert.Contains(t, script, "Direction.VERTICAL")
	assert.Equal(t, "vertical", result["direction"])
}

func TestFlipImageInvalidDirection(t *testing.T) {
	t.Parallel()

	ts := New(mocks.NewMockClient())
	_, err := ts.flipImage(t.Context(), map[string]any{"direction": "diagonal"})
	require.ErrorContains(t, err, "diagonal")
}

func TestFlattenDocument(t *testing.T) {
	t.Parallel()

	doc := mocks.NewMockDocument()
	doc.On("LayerCount", mock.Anything).Return(5, nil).Once()
	doc.On("Flatten", mock.Anything).Return(nil).Once()
	doc.On("LayerCount", mock.Anything).Return(1, nil).Once()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	ts := New(client)
	result, err := ts.flattenDocument(t.Context(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, 5, result["layers_before"])
	assert.Equal(t, 1, result["layers_after"])
	assert.Equal(t, true, result["flattened"])
	assert.NotContains(t, result, "merged")
	doc.AssertExpectations(t)
}

func TestFlattenDocumentMergeVisibleOnly(t *testing.T) {
	t.Parallel()

	doc := mocks.NewMockDocument()
	doc.On("LayerCount", mock.Anything).Return(5, nil).Once()
	doc.On("MergeVisibleLayers", mock.Anything).Return(nil).Once()
	doc.On("LayerCount", mock.Anything).Return(2, nil).Once()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	ts := New(client)
	result, err := ts.flattenDocument(t.Context(), map[string]any{"merge_visible_only": true})
	require.NoError(t, err)

	assert.Equal(t, true, result["merged"])
	doc.AssertNotCalled(t, "Flatten", mock.Anything)
	doc.AssertExpectations(t)
}
