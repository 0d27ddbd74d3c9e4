package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/brushlab/psmcp/internal/logging"
	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/registry"
)

func (t *Toolset) documentTools() []*registry.Tool {
	return []*registry.Tool{
		{
			Name:        "create_document",
			Description: "Create a new Photoshop document.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"width":      intPropDefault("Document width in pixels", 1000),
				"height":     intPropDefault("Document height in pixels", 1000),
				"resolution": intPropDefault("Resolution in pixels per inch", 72),
				"name":       stringPropDefault("Document name", "Untitled"),
				"mode":       enumProp("Color mode", "rgb", "rgb", "gray", "grayscale", "cmyk", "lab", "bitmap"),
			}),
			Handler: t.createDocument,
		},
		{
			Name:        "open_document",
			Description: "Open an existing document from disk.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"file_path": stringProp("Path of the file to open"),
			}, "file_path"),
			Handler: t.openDocument,
		},
		{
			Name:        "save_document",
			Description: "Save the active document as PSD, JPEG, or PNG.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"file_path": stringProp("Path where to save the document"),
				"format":    enumProp("File format", "psd", "psd", "jpg", "png"),
				"quality":   intPropDefault("JPEG quality on the 1-12 scale", 10),
			}, "file_path"),
			Handler: t.saveDocument,
		},
	}
}

func (t *Toolset) createDocument(ctx context.Context, args map[string]any) (map[string]any, error) {
	opts := ps.NewDocumentOptions()
	var err error
	if opts.Width, err = intArg(args, "width", opts.Width); err != nil {
		return nil, err
	}
	if opts.Height, err = intArg(args, "height", opts.Height); err != nil {
		return nil, err
	}
	if opts.Resolution, err = intArg(args, "resolution", opts.Resolution); err != nil {
		return nil, err
	}
	if opts.Name, err = stringArg(args, "name", opts.Name); err != nil {
		return nil, err
	}
	modeName, err := stringArg(args, "mode", "")
	if err != nil {
		return nil, err
	}
	if opts.Mode, err = ps.ParseNewDocumentMode(modeName); err != nil {
		return nil, err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("width and height must be positive")
	}
	if opts.Resolution <= 0 {
		return nil, fmt.Errorf("resolution must be positive")
	}

	doc, err := t.client.CreateDocument(ctx, opts)
	if err != nil {
		return nil, err
	}
	name, width, height, err := documentBasics(ctx, doc)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("Document created",
		"name", name,
		"width", opts.Width,
		"height", opts.Height)

	return map[string]any{
		"document_name": name,
		"width":         width,
		"height":        height,
	}, nil
}

func (t *Toolset) openDocument(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "file_path")
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	doc, err := t.client.OpenDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	name, width, height, err := documentBasics(ctx, doc)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("Document opened", "path", path, "name", name)

	return map[string]any{
		"file_path":     path,
		"document_name": name,
		"width":         width,
		"height":        height,
	}, nil
}

func (t *Toolset) saveDocument(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "file_path")
	if err != nil {
		return nil, err
	}
	format, err := stringArg(args, "format", "psd")
	if err != nil {
		return nil, err
	}
	quality, err := intArg(args, "quality", 10)
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}

	// Unrecognized formats save as PSD rather than failing.
	var spec ps.SaveSpec
	switch normalizeFormat(format) {
	case "jpg":
		format = "jpg"
		spec = ps.JPEGSave(quality, ps.StandardBaseline)
	case "png":
		format = "png"
		spec = ps.PNGSave(6, false)
	default:
		format = "psd"
		spec = ps.PSDSave(true)
	}

	if err := doc.SaveAs(ctx, path, spec, true); err != nil {
		return nil, err
	}
	t.record(path)

	result := map[string]any{
		"file_path": path,
		"format":    format,
	}
	fileSizeFields(path, result)
	return result, nil
}

// documentBasics gathers the identity fields every document tool reports.
func documentBasics(ctx context.Context, doc ps.Document) (string, float64, float64, error) {
	name, err := doc.Name(ctx)
	if err != nil {
		return "", 0, 0, err
	}
	width, err := doc.Width(ctx)
	if err != nil {
		return "", 0, 0, err
	}
	height, err := doc.Height(ctx)
	if err != nil {
		return "", 0, 0, err
	}
	return name, width, height, nil
}
