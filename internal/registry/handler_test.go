package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brushlab/psmcp/internal/logging"
	"github.com/brushlab/psmcp/internal/ps"
)

func callRequest(args string) *mcp.CallToolRequest {
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(args)},
	}
}

func decodeEnvelope(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "tool results carry a single text content block")

	var envelope map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &envelope))
	return envelope
}

func TestAdaptToolSuccess(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_resize_image",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return map[string]any{
				"width":  args["width"],
				"height": args["height"],
			}, nil
		},
	})

	result, err := handler(t.Context(), callRequest(`{"width": 800, "height": 600}`))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, 800.0, envelope["width"])
	assert.Equal(t, 600.0, envelope["height"])
}

func TestAdaptToolKeepsExplicitSuccessKey(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_get_active_document_info",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			// an empty session is a valid answer, not a failure
			return map[string]any{
				"success":     true,
				"no_document": true,
				"error":       "No active document",
			}, nil
		},
	})

	result, err := handler(t.Context(), callRequest(`{}`))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, true, envelope["no_document"])
	assert.Equal(t, "No active document", envelope["error"])
}

func TestAdaptToolNilResult(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_flatten_image",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return nil, nil
		},
	})

	result, err := handler(t.Context(), callRequest(``))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	assert.Equal(t, map[string]any{"success": true}, envelope)
}

func TestAdaptToolFailureEnvelope(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_save_document",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return nil, errors.New("document has no file path")
		},
	})

	result, err := handler(t.Context(), callRequest(`{}`))
	require.NoError(t, err, "handler failures become envelopes, not protocol errors")
	assert.True(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "document has no file path", envelope["error"])
	assert.NotContains(t, envelope, "detail")
}

func TestAdaptToolCallErrorDetail(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_save_document",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return nil, ps.NewCallError("save as", 0x80020009, "Exception occurred", nil)
		},
	})

	result, err := handler(t.Context(), callRequest(`{}`))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	assert.Equal(t, false, envelope["success"])
	assert.Contains(t, envelope["error"], "save as")

	detail, ok := envelope["detail"].(map[string]any)
	require.True(t, ok, "COM faults carry structured detail")
	assert.Equal(t, "save as", detail["operation"])
	assert.Equal(t, "0x80020009", detail["hresult"])
}

func TestAdaptToolWrappedCallErrorDetail(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_auto_trim",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			callErr := ps.NewCallError("trim", 0x80010001, "Call was rejected by callee.", nil)
			return nil, fmt.Errorf("trimming transparent pixels: %w", callErr)
		},
	})

	result, err := handler(t.Context(), callRequest(`{}`))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	detail, ok := envelope["detail"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "trim", detail["operation"])
	assert.Equal(t, "0x80010001", detail["hresult"])
}

func TestAdaptToolPanicBecomesError(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_crop_image",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			panic("index out of range")
		},
	})

	result, err := handler(t.Context(), callRequest(`{}`))
	require.NoError(t, err, "panics stay inside the call")
	assert.True(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "internal error: index out of range", envelope["error"])
}

func TestAdaptToolMalformedArguments(t *testing.T) {
	t.Parallel()

	called := false
	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_rotate_image",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			called = true
			return nil, nil
		},
	})

	result, err := handler(t.Context(), callRequest(`{"angle": `))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.False(t, called, "handler never runs on unparseable arguments")

	envelope := decodeEnvelope(t, result)
	assert.Contains(t, envelope["error"], "failed to parse arguments JSON")
}

func TestAdaptToolNilRequest(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_get_session_info",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			require.NotNil(t, args)
			return map[string]any{"is_running": false}, nil
		},
	})

	result, err := handler(t.Context(), nil)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, false, envelope["is_running"])
}

func TestAdaptToolContextLogger(t *testing.T) {
	t.Parallel()

	r := New(WithLogger(discardLogger()))
	handler := r.adaptTool(&Tool{
		Name: "photoshop_open_document",
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			logger := logging.FromContext(ctx)
			require.NotNil(t, logger)
			assert.NotSame(t, slog.Default(), logger, "calls get their own scoped logger")
			logger.Info("opening", "path", args["path"])
			return nil, nil
		},
	})

	result, err := handler(t.Context(), callRequest(`{"path": "C:/art/poster.psd"}`))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestAdaptResource(t *testing.T) {
	t.Parallel()

	t.Run("text with registered mime type", func(t *testing.T) {
		t.Parallel()

		r := New(WithLogger(discardLogger()))
		handler := r.adaptResource(&Resource{
			URI:      "photoshop://info",
			MIMEType: "application/json",
			Handler: func(ctx context.Context) (*ResourceContent, error) {
				return &ResourceContent{Text: `{"is_running": true}`}, nil
			},
		})

		result, err := handler(t.Context(), nil)
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "photoshop://info", result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Equal(t, `{"is_running": true}`, result.Contents[0].Text)
		assert.Nil(t, result.Contents[0].Blob)
	})

	t.Run("content mime type wins", func(t *testing.T) {
		t.Parallel()

		blob := []byte{0x89, 0x50, 0x4E, 0x47}
		r := New(WithLogger(discardLogger()))
		handler := r.adaptResource(&Resource{
			URI:      "photoshop://document/preview",
			MIMEType: "application/json",
			Handler: func(ctx context.Context) (*ResourceContent, error) {
				return &ResourceContent{MIMEType: "image/png", Blob: blob}, nil
			},
		})

		result, err := handler(t.Context(), nil)
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "image/png", result.Contents[0].MIMEType)
		assert.Equal(t, blob, result.Contents[0].Blob)
	})

	t.Run("handler error surfaces as protocol error", func(t *testing.T) {
		t.Parallel()

		r := New(WithLogger(discardLogger()))
		handler := r.adaptResource(&Resource{
			URI: "photoshop://document/active",
			Handler: func(ctx context.Context) (*ResourceContent, error) {
				return nil, ps.ErrNoActiveDocument
			},
		})

		result, err := handler(t.Context(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ps.ErrNoActiveDocument)
		assert.Nil(t, result)
	})
}
