// Package resources implements the read-only MCP resource surface: session
// info, active document info, the layer listing, and the PNG preview of the
// most recent export.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brushlab/psmcp/internal/preview"
	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/registry"
)

// Resource URIs under the photoshop:// scheme.
const (
	InfoURI     = "photoshop://info"
	DocumentURI = "photoshop://document/active"
	LayersURI   = "photoshop://document/active/layers"
	PreviewURI  = "photoshop://document/preview"
)

// Catalog binds the resource handlers to a Photoshop client and the
// preview store.
type Catalog struct {
	client ps.Client
	store  *preview.Store
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithPreviewStore sets the store backing the preview resource. Without a
// store the preview resource reports that no preview exists.
func WithPreviewStore(store *preview.Store) Option {
	return func(c *Catalog) {
		c.store = store
	}
}

// New creates a Catalog around a client.
func New(client ps.Client, opts ...Option) *Catalog {
	c := &Catalog{client: client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// All returns every resource definition.
func (c *Catalog) All() []*registry.Resource {
	return []*registry.Resource{
		{
			URI:         InfoURI,
			Name:        "session-info",
			Description: "Whether Photoshop is reachable, its version, and whether a document is open",
			MIMEType:    "application/json",
			Handler:     c.sessionInfo,
		},
		{
			URI:         DocumentURI,
			Name:        "active-document",
			Description: "Name, dimensions, resolution, color mode, and layer count of the active document",
			MIMEType:    "application/json",
			Handler:     c.activeDocument,
		},
		{
			URI:         LayersURI,
			Name:        "active-document-layers",
			Description: "Layer listing of the active document",
			MIMEType:    "application/json",
			Handler:     c.layers,
		},
		{
			URI:         PreviewURI,
			Name:        "document-preview",
			Description: "PNG thumbnail of the most recently exported image",
			MIMEType:    "image/png",
			Handler:     c.thumbnail,
		},
	}
}

// Register adds every resource to the registry.
func (c *Catalog) Register(reg *registry.Registry) error {
	return reg.AddResources(c.All()...)
}

// sessionInfo mirrors the get_session_info tool: an unreachable host is an
// answer, not an error.
func (c *Catalog) sessionInfo(ctx context.Context) (*registry.ResourceContent, error) {
	info := map[string]any{}

	version, err := c.client.Version(ctx)
	if err != nil {
		info["is_running"] = false
		info["state"] = c.client.GetState()
		info["warning"] = err.Error()
		return jsonContent(info)
	}

	hasDoc, err := c.client.HasActiveDocument(ctx)
	if err != nil {
		return nil, err
	}

	info["is_running"] = true
	info["state"] = c.client.GetState()
	info["version"] = version
	info["has_active_document"] = hasDoc
	return jsonContent(info)
}

func (c *Catalog) activeDocument(ctx context.Context) (*registry.ResourceContent, error) {
	doc, err := c.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}

	name, err := doc.Name(ctx)
	if err != nil {
		return nil, err
	}
	width, err := doc.Width(ctx)
	if err != nil {
		return nil, err
	}
	height, err := doc.Height(ctx)
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

	return jsonContent(map[string]any{
		"name":        name,
		"width":       width,
		"height":      height,
		"resolution":  resolution,
		"mode":        mode.String(),
		"layer_count": layers,
	})
}

func (c *Catalog) layers(ctx context.Context) (*registry.ResourceContent, error) {
	if _, err := c.client.ActiveDocument(ctx); err != nil {
		return nil, err
	}

	raw, err := c.client.RunScript(ctx, ps.LayerListScript())
	if err != nil {
		return nil, err
	}
	if err := ps.ScriptResultError(raw); err != nil {
		return nil, err
	}

	var layers []map[string]any
	if err := json.Unmarshal([]byte(raw), &layers); err != nil {
		return nil, fmt.Errorf("unexpected layer listing %q: %w", raw, err)
	}

	return jsonContent(map[string]any{
		"count":  len(layers),
		"layers": layers,
	})
}

func (c *Catalog) thumbnail(ctx context.Context) (*registry.ResourceContent, error) {
	if c.store == nil {
		return nil, preview.ErrNoPreview
	}
	blob, _, err := c.store.Thumbnail()
	if err != nil {
		return nil, err
	}
	return &registry.ResourceContent{MIMEType: "image/png", Blob: blob}, nil
}

func jsonContent(v any) (*registry.ResourceContent, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &registry.ResourceContent{MIMEType: "application/json", Text: string(data)}, nil
}
