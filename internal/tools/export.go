package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/brushlab/psmcp/internal/logging"
	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/registry"
)

func (t *Toolset) exportTools() []*registry.Tool {
	return []*registry.Tool{
		{
			Name:        "export_image",
			Description: "Export the active document to a file. Quality is on a 0-100 scale.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"file_path": stringProp("Path where to save the exported file"),
				"format": enumProp("Export format", "jpg",
					"jpg", "jpeg", "png", "psd", "tif", "tiff", "gif", "bmp"),
				"quality": intPropDefault("Quality 0-100, mapped onto the format's native scale", 90),
			}, "file_path"),
			Handler: t.exportImage,
		},
		{
			Name:        "batch_export",
			Description: "Export the active document to several formats in one call.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"directory": stringProp("Directory to write the exports into"),
				"base_name": stringProp("File name without extension"),
				"formats":   stringListPropDefault("Formats to export", "jpg", "png"),
				"quality":   intPropDefault("Quality 0-100 applied to every format", 90),
			}, "directory", "base_name"),
			Handler: t.batchExport,
		},
	}
}

func (t *Toolset) exportImage(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "file_path")
	if err != nil {
		return nil, err
	}
	format, err := stringArg(args, "format", "jpg")
	if err != nil {
		return nil, err
	}
	quality, err := intArg(args, "quality", 90)
	if err != nil {
		return nil, err
	}

	normalized, err := t.exportActive(ctx, path, format, quality)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("Image exported",
		"path", path,
		"format", normalized,
		"quality", quality)

	result := map[string]any{
		"file_path": path,
		"format":    normalized,
		"quality":   quality,
	}
	fileSizeFields(path, result)
	t.recordVerified(result, path)
	return result, nil
}

func (t *Toolset) batchExport(ctx context.Context, args map[string]any) (map[string]any, error) {
	dir, err := requireString(args, "directory")
	if err != nil {
		return nil, err
	}
	base, err := requireString(args, "base_name")
	if err != nil {
		return nil, err
	}
	formats, err := stringListArg(args, "formats", []string{"jpg", "png"})
	if err != nil {
		return nil, err
	}
	quality, err := intArg(args, "quality", 90)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("formats must not be empty")
	}

	logger := logging.FromContext(ctx)
	logger.Info("Batch exporting", "directory", dir, "formats", formats)

	files := make([]map[string]any, 0, len(formats))
	var errs []map[string]any
	for _, format := range formats {
		path := filepath.Join(dir, base+"."+strings.TrimPrefix(format, "."))
		if _, err := t.exportActive(ctx, path, format, quality); err != nil {
			entry := map[string]any{
				"format":  format,
				"path":    path,
				"success": false,
				"error":   err.Error(),
			}
			files = append(files, entry)
			errs = append(errs, entry)
			logger.Warn("Batch export format failed", "format", format, "error", err)
			continue
		}
		t.record(path)
		files = append(files, map[string]any{
			"format":  format,
			"path":    path,
			"success": true,
		})
	}

	result := map[string]any{
		"success":        len(errs) == 0,
		"exported_count": len(files) - len(errs),
		"total_count":    len(formats),
		"files":          files,
	}
	if len(errs) > 0 {
		result["errors"] = errs
	} else {
		result["errors"] = nil
	}
	return result, nil
}

// exportActive writes the active document to path in the given format and
// returns the normalized format name. Quality is on the 0..100 scale and is
// mapped onto each format's native range.
func (t *Toolset) exportActive(ctx context.Context, path, format string, quality int) (string, error) {
	normalized := normalizeFormat(format)
	if normalized == "gif" {
		return normalized, t.exportGIF(ctx, path)
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return "", err
	}

	var spec ps.SaveSpec
	switch normalized {
	case "jpg":
		spec = ps.JPEGSave(ps.JPEGQualityFromPercent(quality), ps.Optimized)
	case "png":
		spec = ps.PNGSave(ps.PNGCompressionFromPercent(quality), false)
	case "psd":
		spec = ps.PSDSave(true)
	case "tiff":
		spec = ps.TIFFSave(ps.TIFFLZW, ps.JPEGQualityFromPercent(quality))
	case "bmp":
		spec = ps.BMPSave()
	default:
		return "", fmt.Errorf("unsupported format %q (supported: jpg, png, psd, tiff, gif, bmp)", format)
	}
	return normalized, doc.SaveAs(ctx, path, spec, true)
}

// exportGIF runs the duplicate round-trip script so the source document
// keeps its color mode and history.
func (t *Toolset) exportGIF(ctx context.Context, path string) error {
	if err := t.requireActiveDocument(ctx); err != nil {
		return err
	}
	tempName := fmt.Sprintf("psmcp-%s", uuid.Must(uuid.NewV6()))
	raw, err := t.client.RunScript(ctx, ps.GIFExportScript(path, tempName))
	if err != nil {
		return err
	}
	return ps.ScriptResultError(raw)
}

// normalizeFormat folds extension aliases onto the canonical format name.
func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(format, ".")))
	switch f {
	case "jpeg":
		return "jpg"
	case "tif":
		return "tiff"
	default:
		return f
	}
}
