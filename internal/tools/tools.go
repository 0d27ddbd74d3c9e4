// Package tools implements the MCP tool surface: document lifecycle,
// layers, image transforms, exports, and format conversion presets.
//
// Handlers coerce and validate their argument maps, drive the ps bridge,
// and return the data map that the registry wraps into the JSON result
// envelope. Validation failures and bridge errors are returned as errors;
// the registry renders them as the failure envelope.
package tools

import (
	"math"
	"os"

	"github.com/brushlab/psmcp/internal/preview"
	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/registry"
)

// Toolset binds the tool handlers to a Photoshop client and the preview
// store.
type Toolset struct {
	client ps.Client
	store  *preview.Store
}

// Option configures a Toolset.
type Option func(*Toolset)

// WithPreviewStore sets the store that verifies written files and feeds
// the preview resource. A nil store disables verification.
func WithPreviewStore(store *preview.Store) Option {
	return func(t *Toolset) {
		t.store = store
	}
}

// New creates a Toolset around a client.
func New(client ps.Client, opts ...Option) *Toolset {
	t := &Toolset{client: client}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// All returns every tool definition in registration order.
func (t *Toolset) All() []*registry.Tool {
	var defs []*registry.Tool
	defs = append(defs, t.documentTools()...)
	defs = append(defs, t.layerTools()...)
	defs = append(defs, t.sessionTools()...)
	defs = append(defs, t.imageTools()...)
	defs = append(defs, t.exportTools()...)
	defs = append(defs, t.conversionTools()...)
	return defs
}

// Register adds every tool to the registry.
func (t *Toolset) Register(reg *registry.Registry) error {
	return reg.AddTools(t.All()...)
}

// fileSizeFields reports a written file's size the way every
// file-producing tool does: bytes plus kilobytes rounded to two decimals.
// A file the host failed to write reports zero rather than an error.
func fileSizeFields(path string, result map[string]any) {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	result["file_size_bytes"] = size
	result["file_size_kb"] = math.Round(float64(size)/1024*100) / 100
}

// record lets the preview store see a written file without touching the
// tool's response.
func (t *Toolset) record(path string) {
	if t.store != nil {
		t.store.Record(path)
	}
}

// recordVerified verifies a written file and folds the verification into
// the response. Verification failure downgrades to verified:false with a
// warning; it never turns a completed export into an error.
func (t *Toolset) recordVerified(result map[string]any, path string) {
	if t.store == nil {
		return
	}
	res := t.store.Record(path)
	if res == nil {
		return
	}
	result["verified"] = res.Verified
	if !res.Verified {
		result["warning"] = "exported file could not be decoded for verification"
		return
	}
	if _, ok := result["width"]; !ok {
		result["width"] = res.Width
		result["height"] = res.Height
	}
}
