package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/ps/mocks"
)

func TestGetSessionInfoRunning(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("Version", mock.Anything).Return("26.0.0", nil)
	client.On("HasActiveDocument", mock.Anything).Return(true, nil)
	client.On("GetState").Return("Running")

	ts := New(client)
	result, err := ts.getSessionInfo(t.Context(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, true, result["is_running"])
	assert.Equal(t, "Running", result["state"])
	assert.Equal(t, "26.0.0", result["version"])
	assert.Equal(t, true, result["has_active_document"])
}

func TestGetSessionInfoDownIsNotAnError(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("Version", mock.Anything).Return("", errors.New("COM class not registered"))
	client.On("GetState").Return("Error")

	ts := New(client)
	result, err := ts.getSessionInfo(t.Context(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, false, result["is_running"])
	assert.Equal(t, "Error", result["state"])
	assert.Contains(t, result["warning"], "class not registered")
	assert.NotContains(t, result, "version")
}

func TestGetActiveDocumentInfo(t *testing.T) {
	t.Parallel()

	doc := stubDocument("poster.psd", 2480, 3508)
	doc.On("Resolution", mock.Anything).Return(300.0, nil)
	doc.On("Mode", mock.Anything).Return(ps.ModeCMYK, nil)
	doc.On("LayerCount", mock.Anything).Return(7, nil)

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(doc, nil)

	ts := New(client)
	result, err := ts.getActiveDocumentInfo(t.Context(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "poster.psd", result["name"])
	assert.Equal(t, 2480.0, result["width"])
	assert.Equal(t, 3508.0, result["height"])
	assert.Equal(t, 300.0, result["resolution"])
	assert.Equal(t, "CMYK", result["mode"])
	assert.Equal(t, 7, result["layer_count"])
}

func TestGetActiveDocumentInfoNoDocument(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(nil, ps.ErrNoActiveDocument)

	ts := New(client)
	_, err := ts.getActiveDocumentInfo(t.Context(), map[string]any{})
	require.ErrorIs(t, err, ps.ErrNoActiveDocument)
}

func TestGetSelectionInfo(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(stubDocument("doc", 800, 600), nil)
	client.On("RunScript", mock.Anything, mock.Anything).
		Return(`{"hasSelection":true,"left":10,"top":20,"right":110,"bottom":80}`, nil)

	ts := New(client)
	result, err := ts.getSelectionInfo(t.Context(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, true, result["has_selection"])
	assert.Equal(t, 100.0, result["width"])
	assert.Equal(t, 60.0, result["height"])
	bounds := result["bounds"].(map[string]any)
	assert.Equal(t, 10.0, bounds["left"])
	assert.Equal(t, 80.0, bounds["bottom"])
}

func TestGetSelectionInfoNoSelection(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(stubDocument("doc", 800, 600), nil)
	client.On("RunScript", mock.Anything, mock.Anything).
		Return(`{"hasSelection":false}`, nil)

	ts := New(client)
	result, err := ts.getSelectionInfo(t.Context(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"has_selection": false}, result)
}

func TestGetSelectionInfoUnexpectedResult(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockClient()
	client.On("ActiveDocument", mock.Anything).Return(stubDocument("doc", 800, 600), nil)
	client.On("RunScript", mock.Anything, mock.Anything).Return("garbage", nil)

	ts := New(client)
	_, err := ts.getSelectionInfo(t.Context(), map[string]any{})
	require.ErrorContains(t, err, "unexpected selection probe result")
}
