package tools

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/brushlab/psmcp/internal/logging"
	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/registry"
)

func (t *Toolset) imageTools() []*registry.Tool {
	return []*registry.Tool{
		{
			Name:        "resize_image",
			Description: "Resize the active document. Omitted dimensions keep their current value.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"width":      numberProp("Target width in pixels, omit to keep current"),
				"height":     numberProp("Target height in pixels, omit to keep current"),
				"resolution": numberProp("Target resolution in ppi, omit or 0 to keep current"),
				"resample": enumProp("Resample method", "bicubic",
					"none", "nearest_neighbor", "bilinear", "bicubic",
					"bicubic_smoother", "bicubic_sharper", "preserve_details", "automatic"),
			}),
			Handler: t.resizeImage,
		},
		{
			Name:        "change_color_mode",
			Description: "Convert the active document to another color mode.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"mode": enumProp("Target color mode", "rgb",
					"rgb", "cmyk", "grayscale", "gray", "lab", "bitmap", "indexed", "multichannel"),
			}, "mode"),
			Handler: t.changeColorMode,
		},
		{
			Name:        "crop_image",
			Description: "Crop the active document to pixel bounds.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"left":   numberProp("Left edge in pixels"),
				"top":    numberProp("Top edge in pixels"),
				"right":  numberProp("Right edge in pixels"),
				"bottom": numberProp("Bottom edge in pixels"),
			}, "left", "top", "right", "bottom"),
			Handler: t.cropImage,
		},
		{
			Name:        "auto_trim",
			Description: "Trim matching borders from all four sides of the active document.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"trim_type": enumProp("What to trim away", "transparent",
					"transparent", "top_left_color", "bottom_right_color", "top_left", "bottom_right"),
			}),
			Handler: t.autoTrim,
		},
		{
			Name:        "rotate_image",
			Description: "Rotate the active document's canvas by an angle in degrees, positive clockwise.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"angle": numberProp("Rotation angle in degrees"),
			}, "angle"),
			Handler: t.rotateImage,
		},
		{
			Name:        "flip_image",
			Description: "Flip the active document's canvas horizontally or vertically.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"direction": enumProp("Flip axis", "horizontal", "horizontal", "vertical"),
			}),
			Handler: t.flipImage,
		},
		{
			Name:        "flatten_document",
			Description: "Flatten the active document, or merge only its visible layers.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"merge_visible_only": boolPropDefault("Merge visible layers instead of flattening everything", false),
			}),
			Handler: t.flattenDocument,
		},
	}
}

func (t *Toolset) resizeImage(ctx context.Context, args map[string]any) (map[string]any, error) {
	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	oldWidth, err := doc.Width(ctx)
	if err != nil {
		return nil, err
	}
	oldHeight, err := doc.Height(ctx)
	if err != nil {
		return nil, err
	}
	oldResolution, err := doc.Resolution(ctx)
	if err != nil {
		return nil, err
	}

	width, err := floatArg(args, "width", oldWidth)
	if err != nil {
		return nil, err
	}
	height, err := floatArg(args, "height", oldHeight)
	if err != nil {
		return nil, err
	}
	resolution, err := floatArg(args, "resolution", oldResolution)
	if err != nil {
		return nil, err
	}
	if resolution == 0 {
		resolution = oldResolution
	}
	resampleName, err := stringArg(args, "resample", "bicubic")
	if err != nil {
		return nil, err
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("width and height must be positive")
	}
	if resolution < 0 {
		return nil, fmt.Errorf("resolution must be positive")
	}

	method := ps.ParseResampleMethod(resampleName)
	logging.FromContext(ctx).Info("Resizing image",
		"from", fmt.Sprintf("%gx%g", oldWidth, oldHeight),
		"to", fmt.Sprintf("%gx%g", width, height),
		"resolution", resolution,
		"method", resampleName)

	if err := doc.ResizeImage(ctx, width, height, resolution, method); err != nil {
		return nil, err
	}

	return map[string]any{
		"old_width":       oldWidth,
		"old_height":      oldHeight,
		"new_width":       width,
		"new_height":      height,
		"old_resolution":  oldResolution,
		"new_resolution":  resolution,
		"resample_method": resampleName,
	}, nil
}

func (t *Toolset) changeColorMode(ctx context.Context, args map[string]any) (map[string]any, error) {
	modeName, err := requireString(args, "mode")
	if err != nil {
		return nil, err
	}
	target, err := ps.ParseChangeMode(modeName)
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	oldMode, err := doc.Mode(ctx)
	if err != nil {
		return nil, err
	}

	if err := doc.ChangeMode(ctx, target); err != nil {
		return nil, err
	}
	newMode, err := doc.Mode(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"old_mode": oldMode.String(),
		"new_mode": newMode.String(),
	}, nil
}

func (t *Toolset) cropImage(ctx context.Context, args map[string]any) (map[string]any, error) {
	left, err := requireFloat(args, "left")
	if err != nil {
		return nil, err
	}
	top, err := requireFloat(args, "top")
	if err != nil {
		return nil, err
	}
	right, err := requireFloat(args, "right")
	if err != nil {
		return nil, err
	}
	bottom, err := requireFloat(args, "bottom")
	if err != nil {
		return nil, err
	}

	if left < 0 || top < 0 {
		return nil, fmt.Errorf("crop bounds must be non-negative")
	}
	if right <= left || bottom <= top {
		return nil, fmt.Errorf("crop bounds must satisfy right > left and bottom > top")
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	oldWidth, err := doc.Width(ctx)
	if err != nil {
		return nil, err
	}
	oldHeight, err := doc.Height(ctx)
	if err != nil {
		return nil, err
	}

	if err := doc.Crop(ctx, left, top, right, bottom); err != nil {
		return nil, err
	}

	newWidth, err := doc.Width(ctx)
	if err != nil {
		return nil, err
	}
	newHeight, err := doc.Height(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"old_width":  oldWidth,
		"old_height": oldHeight,
		"new_width":  newWidth,
		"new_height": newHeight,
		"crop_bounds": map[string]any{
			"left":   left,
			"top":    top,
			"right":  right,
			"bottom": bottom,
		},
	}, nil
}

func (t *Toolset) autoTrim(ctx context.Context, args map[string]any) (map[string]any, error) {
	trimName, err := stringArg(args, "trim_type", "transparent")
	if err != nil {
		return nil, err
	}
	trim, err := ps.ParseTrimType(trimName)
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	oldWidth, err := doc.Width(ctx)
	if err != nil {
		return nil, err
	}
	oldHeight, err := doc.Height(ctx)
	if err != nil {
		return nil, err
	}

	if err := doc.Trim(ctx, trim); err != nil {
		return nil, err
	}

	newWidth, err := doc.Width(ctx)
	if err != nil {
		return nil, err
	}
	newHeight, err := doc.Height(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"old_width":  oldWidth,
		"old_height": oldHeight,
		"new_width":  newWidth,
		"new_height": newHeight,
		"trim_type":  trimName,
		"pixels_trimmed": map[string]any{
			"width":  oldWidth - newWidth,
			"height": oldHeight - newHeight,
		},
	}, nil
}

func (t *Toolset) rotateImage(ctx context.Context, args map[string]any) (map[string]any, error) {
	angle, err := requireFloat(args, "angle")
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := t.client.RunScript(ctx, ps.RotateCanvasScript(angle))
	if err != nil {
		return nil, err
	}
	if err := ps.ScriptResultError(raw); err != nil {
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

	return map[string]any{
		"angle":  angle,
		"width":  width,
		"height": height,
	}, nil
}

func (t *Toolset) flipImage(ctx context.Context, args map[string]any) (map[string]any, error) {
	dirName, err := stringArg(args, "direction", "horizontal")
	if err != nil {
		return nil, err
	}
	dir, err := ps.ParseDirection(dirName)
	if err != nil {
		return nil, err
	}

	if err := t.requireActiveDocument(ctx); err != nil {
		return nil, err
	}
	raw, err := t.client.RunScript(ctx, ps.FlipCanvasScript(dir))
	if err != nil {
		return nil, err
	}
	if err := ps.ScriptResultError(raw); err != nil {
		return nil, err
	}

	return map[string]any{"direction": dir.String()}, nil
}

func (t *Toolset) flattenDocument(ctx context.Context, args map[string]any) (map[string]any, error) {
	mergeVisible, err := boolArg(args, "merge_visible_only", false)
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	before, err := doc.LayerCount(ctx)
	if err != nil {
		return nil, err
	}

	if mergeVisible {
		err = doc.MergeVisibleLayers(ctx)
	} else {
		err = doc.Flatten(ctx)
	}
	if err != nil {
		return nil, err
	}

	after, err := doc.LayerCount(ctx)
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"layers_before":      before,
		"layers_after":       after,
		"merge_visible_only": mergeVisible,
	}
	if mergeVisible {
		result["merged"] = true
	} else {
		result["flattened"] = true
	}
	return result, nil
}
