package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/ps/mocks"
)

func TestColorArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    map[string]any
		wantR   int
		wantG   int
		wantB   int
		wantErr string
	}{
		{name: "defaults", args: map[string]any{}, wantR: 10, wantG: 20, wantB: 30},
		{
			name:  "channels",
			args:  map[string]any{"color_r": 200.0, "color_g": 100.0, "color_b": 50.0},
			wantR: 200, wantG: 100, wantB: 50,
		},
		{
			name:  "channels clamped",
			args:  map[string]any{"color_r": 300.0, "color_g": -5.0},
			wantR: 255, wantG: 0, wantB: 30,
		},
		{
			name:  "hex overrides channels",
			args:  map[string]any{"color_hex": "#ff8800", "color_r": 1.0},
			wantR: 255, wantG: 136, wantB: 0,
		},
		{
			name:  "hex without hash",
			args:  map[string]any{"color_hex": "0080ff"},
			wantR: 0, wantG: 128, wantB: 255,
		},
		{
			name:    "invalid hex",
			args:    map[string]any{"color_hex": "#zzz"},
			wantErr: `invalid hex color "#zzz"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r, g, b, err := colorArgs(tc.args, 10, 20, 30)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, [3]int{tc.wantR, tc.wantG, tc.wantB}, [3]int{r, g, b})
		})
	}
}

func TestCreateTextLayer(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(stubDocument("doc", 800, 600), nil)

	var script string
	client.On("RunScript", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { script = args.String(1) }).
		Return("Hello Layer", nil)

	ts := New(client)
	result, err := ts.createTextLayer(t.Context(), map[string]any{
		"text":      "Hello",
		"x":         50.0,
		"y":         60.0,
		"size":      36.0,
		"color_hex": "#00ff00",
		"opacity":   150.0,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello Layer", result["layer_name"])
	assert.Contains(t, script, `contents = "Hello"`)
	assert.Contains(t, script, "position = [50, 60]")
	assert.Contains(t, script, "size = 36")
	// opacity over 100 clamps down
	assert.Contains(t, script, "opacity = 100")
	assert.Contains(t, script, "green = 255")
	assert.Contains(t, script, "red = 0")
	client.AssertExpectations(t)
}

func TestCreateTextLayerRequiresText(t *testing.T) {
	t.Parallel()

	ts := New(mocks.NewMockClient())
	_, err := ts.createTextLayer(t.Context(), map[string]any{})
	require.ErrorContains(t, err, `missing required parameter "text"`)
}

func TestCreateTextLayerNoActiveDocument(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(nil, ps.ErrNoActiveDocument)

	ts := New(client)
	_, err := ts.createTextLayer(t.Context(), map[string]any{"text": "Hello"})
	require.ErrorIs(t, err, ps.ErrNoActiveDocument)
	client.AssertNotCalled(t, "RunScript", mock.Anything, mock.Anything)
}

func TestCreateTextLayerScriptError(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(stubDocument("doc", 800, 600), nil)
	client.On("RunScript", mock.Anything, mock.Anything).
		Return("Error: cannot add text layer in bitmap mode", nil)

	ts := New(client)
	_, err := ts.createTextLayer(t.Context(), map[string]any{"text": "Hello"})
	require.ErrorContains(t, err, "cannot add text layer in bitmap mode")
}

func TestCreateSolidColorLayerDefaults(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(stubDocument("doc", 800, 600), nil)

	var script string
	client.On("RunScript", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { script = args.String(1) }).
		Return("Color Fill", nil)

	ts := New(client)
	result, err := ts.createSolidColorLayer(t.Context(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "Color Fill", result["layer_name"])
	assert.Contains(t, script, `name = "Color Fill"`)
	// default fill is pure red
	assert.Contains(t, script, "red = 255")
	assert.Contains(t, script, "green = 0")
	assert.Contains(t, script, "blue = 0")
	client.AssertExpectations(t)
}
