package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/brushlab/psmcp/internal/logging"
	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/registry"
)

func (t *Toolset) layerTools() []*registry.Tool {
	colorProps := func(props map[string]*jsonschema.Schema) map[string]*jsonschema.Schema {
		props["color_hex"] = stringProp("Hex color like #ff8800, overrides the channel values")
		return props
	}

	return []*registry.Tool{
		{
			Name:        "create_text_layer",
			Description: "Add a text layer to the active document.",
			InputSchema: objectSchema(colorProps(map[string]*jsonschema.Schema{
				"text":    stringProp("Text content"),
				"x":       intPropDefault("Horizontal position in pixels", 100),
				"y":       intPropDefault("Vertical position in pixels", 100),
				"size":    intPropDefault("Font size in points", 24),
				"color_r": intPropDefault("Red component 0-255", 0),
				"color_g": intPropDefault("Green component 0-255", 0),
				"color_b": intPropDefault("Blue component 0-255", 0),
				"opacity": intPropDefault("Layer opacity 0-100", 100),
			}), "text"),
			Handler: t.createTextLayer,
		},
		{
			Name:        "create_solid_color_layer",
			Description: "Add a layer flooded with a solid color.",
			InputSchema: objectSchema(colorProps(map[string]*jsonschema.Schema{
				"color_r": intPropDefault("Red component 0-255", 255),
				"color_g": intPropDefault("Green component 0-255", 0),
				"color_b": intPropDefault("Blue component 0-255", 0),
				"name":    stringPropDefault("Layer name", "Color Fill"),
			})),
			Handler: t.createSolidColorLayer,
		},
	}
}

func (t *Toolset) createTextLayer(ctx context.Context, args map[string]any) (map[string]any, error) {
	text, err := requireString(args, "text")
	if err != nil {
		return nil, err
	}

	params := ps.TextLayerParams{Text: text}
	if params.X, err = intArg(args, "x", 100); err != nil {
		return nil, err
	}
	if params.Y, err = intArg(args, "y", 100); err != nil {
		return nil, err
	}
	if params.Size, err = intArg(args, "size", 24); err != nil {
		return nil, err
	}
	if params.Opacity, err = intArg(args, "opacity", 100); err != nil {
		return nil, err
	}
	if params.Opacity < 0 {
		params.Opacity = 0
	} else if params.Opacity > 100 {
		params.Opacity = 100
	}
	if params.R, params.G, params.B, err = colorArgs(args, 0, 0, 0); err != nil {
		return nil, err
	}

	if err := t.requireActiveDocument(ctx); err != nil {
		return nil, err
	}
	layerName, err := t.runLayerScript(ctx, ps.TextLayerScript(params))
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("Text layer created", "layer", layerName)
	return map[string]any{"layer_name": layerName}, nil
}

func (t *Toolset) createSolidColorLayer(ctx context.Context, args map[string]any) (map[string]any, error) {
	name, err := stringArg(args, "name", "Color Fill")
	if err != nil {
		return nil, err
	}
	r, g, b, err := colorArgs(args, 255, 0, 0)
	if err != nil {
		return nil, err
	}

	if err := t.requireActiveDocument(ctx); err != nil {
		return nil, err
	}
	layerName, err := t.runLayerScript(ctx, ps.SolidFillScript(name, r, g, b))
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("Solid color layer created", "layer", layerName)
	return map[string]any{"layer_name": layerName}, nil
}

// requireActiveDocument fails fast before running a layer script, so the
// caller sees ErrNoActiveDocument instead of a script exception.
func (t *Toolset) requireActiveDocument(ctx context.Context) error {
	_, err := t.client.ActiveDocument(ctx)
	return err
}

// runLayerScript evaluates a script whose result is the new layer's name.
func (t *Toolset) runLayerScript(ctx context.Context, script string) (string, error) {
	result, err := t.client.RunScript(ctx, script)
	if err != nil {
		return "", err
	}
	if err := ps.ScriptResultError(result); err != nil {
		return "", err
	}
	return result, nil
}

// colorArgs resolves the RGB channel parameters, letting a non-empty
// color_hex override them. Channels are clamped into 0..255.
func colorArgs(args map[string]any, defR, defG, defB int) (int, int, int, error) {
	hex, err := stringArg(args, "color_hex", "")
	if err != nil {
		return 0, 0, 0, err
	}
	if hex != "" {
		h := hex
		if !strings.HasPrefix(h, "#") {
			h = "#" + h
		}
		c, err := colorful.Hex(h)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
		}
		r, g, b := c.RGB255()
		return int(r), int(g), int(b), nil
	}

	r, err := intArg(args, "color_r", defR)
	if err != nil {
		return 0, 0, 0, err
	}
	g, err := intArg(args, "color_g", defG)
	if err != nil {
		return 0, 0, 0, err
	}
	b, err := intArg(args, "color_b", defB)
	if err != nil {
		return 0, 0, 0, err
	}
	return clampChannel(r), clampChannel(g), clampChannel(b), nil
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
