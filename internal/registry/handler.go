package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robbyt/go-loglater"

	"github.com/brushlab/psmcp/internal/logging"
	"github.com/brushlab/psmcp/internal/ps"
)

// adaptTool wraps a ToolHandler for the SDK: each call gets a V6 UUID and
// a record collector, panics are contained, arguments are normalized, and
// the result is serialized as a JSON envelope. Collected records replay
// to the server log only when the call fails, so routine calls stay quiet
// while failures surface their full trail.
func (r *Registry) adaptTool(t *Tool) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.Must(uuid.NewV6())
		collector := loglater.NewLogCollector(nil)
		callLogger := slog.New(collector).With("tool", t.Name, "call_id", callID)
		ctx = logging.WithLogger(ctx, callLogger)

		start := time.Now()
		result, err := r.dispatch(ctx, t, req)
		elapsed := time.Since(start)

		if err != nil {
			r.logger.Error("tool call failed",
				"tool", t.Name,
				"call_id", callID,
				"elapsed", elapsed,
				"error", err)
			if playErr := collector.PlayLogs(r.logger.Handler()); playErr != nil {
				r.logger.Debug("replaying call logs failed", "error", playErr)
			}
			return failureResult(err), nil
		}

		r.logger.Debug("tool call completed",
			"tool", t.Name,
			"call_id", callID,
			"elapsed", elapsed)
		return successResult(result), nil
	}
}

// dispatch runs one handler, converting panics into errors so a bad call
// cannot take down the server.
func (r *Registry) dispatch(ctx context.Context, t *Tool, req *mcp.CallToolRequest) (result map[string]any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool handler panicked",
				"tool", t.Name,
				"panic", rec,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	var rawArgs any
	if req != nil && req.Params != nil {
		rawArgs = req.Params.Arguments
	}
	args, err := ExtractArguments(rawArgs)
	if err != nil {
		return nil, err
	}
	return t.Handler(ctx, args)
}

func (r *Registry) adaptResource(res *Resource) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		content, err := res.Handler(ctx)
		if err != nil {
			r.logger.Error("resource read failed", "uri", res.URI, "error", err)
			return nil, err
		}

		mimeType := content.MIMEType
		if mimeType == "" {
			mimeType = res.MIMEType
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      res.URI,
				MIMEType: mimeType,
				Text:     content.Text,
				Blob:     content.Blob,
			}},
		}, nil
	}
}

// failureResult builds the error envelope. A CallError's operation and
// HRESULT ride along as detail so clients can tell a dialog-blocked host
// from a real fault.
func failureResult(err error) *mcp.CallToolResult {
	envelope := map[string]any{
		"success": false,
		"error":   err.Error(),
	}
	var callErr *ps.CallError
	if errors.As(err, &callErr) {
		envelope["detail"] = map[string]any{
			"operation": callErr.Op,
			"hresult":   fmt.Sprintf("0x%08X", callErr.HRESULT),
		}
	}
	return textResult(envelope, true)
}

// successResult stamps "success": true unless the handler already decided
// the key, then serializes.
func successResult(result map[string]any) *mcp.CallToolResult {
	if result == nil {
		result = map[string]any{}
	}
	if _, ok := result["success"]; !ok {
		result["success"] = true
	}
	return textResult(result, false)
}

func textResult(envelope map[string]any, isError bool) *mcp.CallToolResult {
	data, err := json.Marshal(envelope)
	if err != nil {
		data = []byte(`{"success":false,"error":"failed to encode result"}`)
		isError = true
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: isError,
	}
}
