// Package registry is the catalog of MCP tools and resources the bridge
// exposes. Tool packages register plain handler functions here; Apply
// wires the catalog onto an MCP server with argument extraction, call
// IDs, log collection, and the response envelope handled in one place.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolPrefix namespaces every tool so clients aggregating multiple MCP
// servers can tell these apart. Applied exactly once at registration.
const ToolPrefix = "photoshop_"

var (
	// ErrDuplicateTool is returned when two tools resolve to the same name.
	ErrDuplicateTool = errors.New("duplicate tool name")
	// ErrDuplicateResource is returned when a resource URI is registered twice.
	ErrDuplicateResource = errors.New("duplicate resource URI")
	// ErrNilHandler is returned when a registration carries no handler.
	ErrNilHandler = errors.New("nil handler")
)

// ToolHandler is the function signature tools implement. Arguments arrive
// as a decoded JSON object; the returned map becomes the success envelope
// (a missing "success" key is stamped true). A returned error becomes a
// failure envelope.
type ToolHandler func(ctx context.Context, args map[string]any) (map[string]any, error)

// Tool describes one MCP tool before prefixing.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Annotations *mcp.ToolAnnotations
	Handler     ToolHandler
}

// ResourceContent is what a resource read produces: JSON text or a blob,
// with its MIME type.
type ResourceContent struct {
	MIMEType string
	Text     string
	Blob     []byte
}

// ResourceHandler produces the content for a resource read.
type ResourceHandler func(ctx context.Context) (*ResourceContent, error)

// Resource describes one MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	Handler     ResourceHandler
}

// Registry accumulates tools and resources, rejecting duplicates.
type Registry struct {
	logger    *slog.Logger
	tools     []*Tool
	resources []*Resource
	names     map[string]struct{}
	uris      map[string]struct{}
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogHandler sets the slog handler used for dispatch logging.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Registry) {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("registry")
		}
	}
}

// WithLogger sets the logger used for dispatch logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty Registry.
func New(setters ...Option) *Registry {
	r := &Registry{
		logger: slog.Default().WithGroup("registry"),
		names:  make(map[string]struct{}),
		uris:   make(map[string]struct{}),
	}
	for _, set := range setters {
		set(r)
	}
	return r
}

// QualifiedName applies the tool prefix, tolerating names that already
// carry it.
func QualifiedName(name string) string {
	if strings.HasPrefix(name, ToolPrefix) {
		return name
	}
	return ToolPrefix + name
}

// AddTool registers one tool. The stored tool name is the prefixed form.
func (r *Registry) AddTool(t *Tool) error {
	if t == nil || t.Handler == nil {
		return fmt.Errorf("%w: tool %q", ErrNilHandler, toolName(t))
	}
	name := QualifiedName(t.Name)
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}

	stored := *t
	stored.Name = name
	r.names[name] = struct{}{}
	r.tools = append(r.tools, &stored)
	return nil
}

// AddTools registers a batch, stopping at the first failure.
func (r *Registry) AddTools(tools ...*Tool) error {
	for _, t := range tools {
		if err := r.AddTool(t); err != nil {
			return err
		}
	}
	return nil
}

// AddResource registers one resource.
func (r *Registry) AddResource(res *Resource) error {
	if res == nil || res.Handler == nil {
		return fmt.Errorf("%w: resource %q", ErrNilHandler, resourceURI(res))
	}
	if _, exists := r.uris[res.URI]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, res.URI)
	}
	r.uris[res.URI] = struct{}{}
	r.resources = append(r.resources, res)
	return nil
}

// AddResources registers a batch, stopping at the first failure.
func (r *Registry) AddResources(resources ...*Resource) error {
	for _, res := range resources {
		if err := r.AddResource(res); err != nil {
			return err
		}
	}
	return nil
}

// Tools returns the registered tools sorted by name, for listings.
func (r *Registry) Tools() []*Tool {
	out := make([]*Tool, len(r.tools))
	copy(out, r.tools)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resources returns the registered resources sorted by URI.
func (r *Registry) Resources() []*Resource {
	out := make([]*Resource, len(r.resources))
	copy(out, r.resources)
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// Apply registers everything onto an MCP server.
func (r *Registry) Apply(server *mcp.Server) {
	for _, t := range r.tools {
		server.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
			Annotations: t.Annotations,
		}, r.adaptTool(t))
	}
	for _, res := range r.resources {
		server.AddResource(&mcp.Resource{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MIMEType,
		}, r.adaptResource(res))
	}
	r.logger.Debug("registry applied",
		"tools", len(r.tools), "resources", len(r.resources))
}

func toolName(t *Tool) string {
	if t == nil {
		return ""
	}
	return t.Name
}

func resourceURI(res *Resource) string {
	if res == nil {
		return ""
	}
	return res.URI
}
