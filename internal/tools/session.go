package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/brushlab/psmcp/internal/logging"
	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/registry"
)

func (t *Toolset) sessionTools() []*registry.Tool {
	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true}
	noArgs := objectSchema(map[string]*jsonschema.Schema{})

	return []*registry.Tool{
		{
			Name:        "get_session_info",
			Description: "Report whether Photoshop is reachable, its version, and whether a document is open.",
			InputSchema: noArgs,
			Annotations: readOnly,
			Handler:     t.getSessionInfo,
		},
		{
			Name:        "get_active_document_info",
			Description: "Report the active document's name, dimensions, resolution, color mode, and layer count.",
			InputSchema: noArgs,
			Annotations: readOnly,
			Handler:     t.getActiveDocumentInfo,
		},
		{
			Name:        "get_selection_info",
			Description: "Report the active selection's bounds, or that nothing is selected.",
			InputSchema: noArgs,
			Annotations: readOnly,
			Handler:     t.getSelectionInfo,
		},
	}
}

// getSessionInfo never fails outright when Photoshop is down; it reports
// is_running:false so clients can probe availability.
func (t *Toolset) getSessionInfo(ctx context.Context, args map[string]any) (map[string]any, error) {
	result := map[string]any{}

	version, err := t.client.Version(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("Photoshop not reachable", "error", err)
		result["is_running"] = false
		result["state"] = t.client.GetState()
		result["warning"] = err.Error()
		return result, nil
	}

	hasDoc, err := t.client.HasActiveDocument(ctx)
	if err != nil {
		return nil, err
	}

	result["is_running"] = true
	result["state"] = t.client.GetState()
	result["version"] = version
	result["has_active_document"] = hasDoc
	return result, nil
}

func (t *Toolset) getActiveDocumentInfo(ctx context.Context, args map[string]any) (map[string]any, error) {
	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}

	name, width, height, err := documentBasics(ctx, doc)
	if err != nil {
		return nil, err
	}
	resolution, err := doc.Resolution(ctx)
	if err != nil {
		return nil, err
	}
	mode, err := doc.Mode(ctx)
	if err != nil {
		return nil, err
	}
	layers, err := doc.LayerCount(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"name":        name,
		"width":       width,
		"height":      height,
		"resolution":  resolution,
		"mode":        mode.String(),
		"layer_count": layers,
	}, nil
}

func (t *Toolset) getSelectionInfo(ctx context.Context, args map[string]any) (map[string]any, error) {
	if err := t.requireActiveDocument(ctx); err != nil {
		return nil, err
	}

	raw, err := t.client.RunScript(ctx, ps.SelectionInfoScript())
	if err != nil {
		return nil, err
	}
	if err := ps.ScriptResultError(raw); err != nil {
		return nil, err
	}

	var probe struct {
		HasSelection bool    `json:"hasSelection"`
		Left         float64 `json:"left"`
		Top          float64 `json:"top"`
		Right        float64 `json:"right"`
		Bottom       float64 `json:"bottom"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, fmt.Errorf("unexpected selection probe result %q: %w", raw, err)
	}

	if !probe.HasSelection {
		return map[string]any{"has_selection": false}, nil
	}
	return map[string]any{
		"has_selection": true,
		"bounds": map[string]any{
			"left":   probe.Left,
			"top":    probe.Top,
			"right":  probe.Right,
			"bottom": probe.Bottom,
		},
		"width":  probe.Right - probe.Left,
		"height": probe.Bottom - probe.Top,
	}, nil
}
