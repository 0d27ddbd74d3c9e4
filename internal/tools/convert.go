package tools

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/brushlab/psmcp/internal/logging"
	"github.com/brushlab/psmcp/internal/ps"
	"github.com/brushlab/psmcp/internal/registry"
)

// socialDimensions maps platform and post type to target pixel dimensions.
// Some entries are aliases for the same size ("post" and "square" on
// instagram, "landscape" and "link" on facebook and linkedin).
var socialDimensions = map[string]map[string][2]int{
	"instagram": {
		"post":      {1080, 1080},
		"square":    {1080, 1080},
		"landscape": {1080, 566},
		"portrait":  {1080, 1350},
		"story":     {1080, 1920},
	},
	"facebook": {
		"post":      {1200, 1200},
		"landscape": {1200, 630},
		"link":      {1200, 630},
		"portrait":  {1080, 1350},
		"story":     {1080, 1920},
	},
	"twitter": {
		"post":      {1200, 1200},
		"landscape": {1200, 675},
		"header":    {1500, 500},
	},
	"linkedin": {
		"post":      {1200, 1200},
		"landscape": {1200, 627},
		"link":      {1200, 627},
		"story":     {1080, 1920},
	},
}

const socialJPEGQuality = 85

func (t *Toolset) conversionTools() []*registry.Tool {
	return []*registry.Tool{
		{
			Name:        "convert_to_jpg",
			Description: "Convert the active document to JPEG",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"output_path": stringProp("Destination path for the JPEG file"),
				"quality":     intPropDefault("Quality from 0 to 100", 90),
				"progressive": boolPropDefault("Write a progressive JPEG", false),
				"optimize":    boolPropDefault("Write an optimized baseline JPEG", true),
			}, "output_path"),
			Handler: t.convertToJPG,
		},
		{
			Name:        "convert_to_png",
			Description: "Convert the active document to PNG",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"output_path": stringProp("Destination path for the PNG file"),
				"compression": intPropDefault("Compression level from 0 to 9", 6),
				"interlaced":  boolPropDefault("Write an interlaced PNG", false),
			}, "output_path"),
			Handler: t.convertToPNG,
		},
		{
			Name: "convert_to_webp",
			Description: "Convert the active document to WebP, falling back " +
				"to PNG when the Photoshop version has no WebP encoder",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"output_path": stringProp("Destination path for the WebP file"),
				"quality":     intPropDefault("Quality from 0 to 100", 80),
				"lossless":    boolPropDefault("Use lossless encoding", false),
			}, "output_path"),
			Handler: t.convertToWebP,
		},
		{
			Name:        "convert_to_gif",
			Description: "Convert the active document to GIF",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"output_path": stringProp("Destination path for the GIF file"),
				"colors":      intPropDefault("Palette size from 2 to 256", 256),
				"dither":      boolPropDefault("Apply dithering", true),
			}, "output_path"),
			Handler: t.convertToGIF,
		},
		{
			Name:        "convert_to_tiff",
			Description: "Convert the active document to TIFF",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"output_path": stringProp("Destination path for the TIFF file"),
				"compression": enumProp("Compression scheme", "lzw",
					"none", "lzw", "zip", "jpeg"),
				"jpeg_quality": intPropDefault(
					"Quality from 0 to 100 when compression is jpeg", 90),
			}, "output_path"),
			Handler: t.convertToTIFF,
		},
		{
			Name:        "convert_to_psd",
			Description: "Convert the active document to PSD",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"output_path": stringProp("Destination path for the PSD file"),
				"maximize_compatibility": boolPropDefault(
					"Maximize compatibility with older Photoshop versions", true),
			}, "output_path"),
			Handler: t.convertToPSD,
		},
		{
			Name: "convert_for_web",
			Description: "Downscale the active document to a web-friendly " +
				"size and save it as an optimized JPEG",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"output_path":   stringProp("Destination path for the JPEG file"),
				"max_dimension": intPropDefault("Longest edge in pixels", 1200),
				"quality":       intPropDefault("Quality from 0 to 100", 75),
			}, "output_path"),
			Handler: t.convertForWeb,
		},
		{
			Name: "convert_for_print",
			Description: "Prepare the active document for print: set the " +
				"resolution, convert the color mode, and save as TIFF",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"output_path": stringProp("Destination path for the TIFF file"),
				"resolution":  intPropDefault("Target resolution in DPI", 300),
				"color_mode":  enumProp("Target color mode", "cmyk", "cmyk", "rgb"),
			}, "output_path"),
			Handler: t.convertForPrint,
		},
		{
			Name: "convert_for_social_media",
			Description: "Fit the active document onto a platform's canvas " +
				"size and save it as JPEG",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"output_path": stringProp("Destination path for the JPEG file"),
				"platform": enumProp("Target platform", "",
					"instagram", "facebook", "twitter", "linkedin"),
				"post_type": stringPropDefault(
					"Post type: post, square, landscape, portrait, story, link, or header "+
						"depending on the platform", "post"),
			}, "output_path", "platform"),
			Handler: t.convertForSocialMedia,
		},
	}
}

func (t *Toolset) convertToJPG(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "output_path")
	if err != nil {
		return nil, err
	}
	quality, err := intArg(args, "quality", 90)
	if err != nil {
		return nil, err
	}
	progressive, err := boolArg(args, "progressive", false)
	if err != nil {
		return nil, err
	}
	optimize, err := boolArg(args, "optimize", true)
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	// JPEG keeps no alpha and renders CMYK/Lab poorly in most viewers.
	if err := convertModeIf(ctx, doc, ps.ConvertToRGB,
		ps.ModeCMYK, ps.ModeLab, ps.ModeGrayscale); err != nil {
		return nil, err
	}

	format := ps.StandardBaseline
	switch {
	case progressive:
		format = ps.Progressive
	case optimize:
		format = ps.Optimized
	}
	spec := ps.JPEGSave(ps.JPEGQualityFromPercent(quality), format)
	if err := doc.SaveAs(ctx, path, spec, true); err != nil {
		return nil, err
	}
	t.record(path)

	logging.FromContext(ctx).Info("Converted to JPEG",
		"path", path, "quality", quality)

	result := map[string]any{
		"output_path": path,
		"format":      "jpg",
		"quality":     quality,
		"progressive": progressive,
		"optimize":    optimize,
	}
	fileSizeFields(path, result)
	return result, nil
}

func (t *Toolset) convertToPNG(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "output_path")
	if err != nil {
		return nil, err
	}
	compression, err := intArg(args, "compression", 6)
	if err != nil {
		return nil, err
	}
	interlaced, err := boolArg(args, "interlaced", false)
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	// PNG handles grayscale natively; only CMYK and Lab need conversion.
	if err := convertModeIf(ctx, doc, ps.ConvertToRGB,
		ps.ModeCMYK, ps.ModeLab); err != nil {
		return nil, err
	}

	if err := doc.SaveAs(ctx, path, ps.PNGSave(compression, interlaced), true); err != nil {
		return nil, err
	}
	t.record(path)

	logging.FromContext(ctx).Info("Converted to PNG",
		"path", path, "compression", compression)

	result := map[string]any{
		"output_path": path,
		"format":      "png",
		"compression": compression,
		"interlaced":  interlaced,
	}
	fileSizeFields(path, result)
	return result, nil
}

func (t *Toolset) convertToWebP(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "output_path")
	if err != nil {
		return nil, err
	}
	quality, err := intArg(args, "quality", 80)
	if err != nil {
		return nil, err
	}
	lossless, err := boolArg(args, "lossless", false)
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}

	res, err := t.client.RunScript(ctx, ps.WebPExportScript(path, quality))
	if err != nil {
		return nil, err
	}
	if err := ps.ScriptResultError(res); err != nil {
		return nil, err
	}

	result := map[string]any{
		"output_path": path,
		"format":      "webp",
		"quality":     quality,
		"lossless":    lossless,
	}
	if ps.WebPUnsupported(res) {
		fallback := webpFallbackPath(path)
		if err := doc.SaveAs(ctx, fallback, ps.PNGSave(6, false), true); err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Warn("WebP unavailable, exported PNG instead",
			"path", fallback)
		result["output_path"] = fallback
		result["format"] = "png"
		result["warning"] = "WebP not natively supported in this Photoshop version, exported as PNG instead"
		result["fallback_path"] = fallback
	} else {
		logging.FromContext(ctx).Info("Converted to WebP",
			"path", path, "quality", quality)
	}

	out := result["output_path"].(string)
	t.record(out)
	fileSizeFields(out, result)
	return result, nil
}

// webpFallbackPath swaps a .webp extension for .png, or appends .png when
// the requested path carried some other extension.
func webpFallbackPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		return path[:len(path)-len(".webp")] + ".png"
	}
	return path + ".png"
}

func (t *Toolset) convertToGIF(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "output_path")
	if err != nil {
		return nil, err
	}
	colors, err := intArg(args, "colors", 256)
	if err != nil {
		return nil, err
	}
	dither, err := boolArg(args, "dither", true)
	if err != nil {
		return nil, err
	}

	if err := t.exportGIF(ctx, path); err != nil {
		return nil, err
	}
	t.record(path)

	logging.FromContext(ctx).Info("Converted to GIF", "path", path)

	result := map[string]any{
		"output_path": path,
		"format":      "gif",
		"colors":      colors,
		"dither":      dither,
	}
	fileSizeFields(path, result)
	return result, nil
}

func (t *Toolset) convertToTIFF(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "output_path")
	if err != nil {
		return nil, err
	}
	compression, err := stringArg(args, "compression", "lzw")
	if err != nil {
		return nil, err
	}
	jpegQuality, err := intArg(args, "jpeg_quality", 90)
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}

	encoding := ps.ParseTIFFEncoding(compression)
	spec := ps.TIFFSave(encoding, ps.JPEGQualityFromPercent(jpegQuality))
	if err := doc.SaveAs(ctx, path, spec, true); err != nil {
		return nil, err
	}
	t.record(path)

	logging.FromContext(ctx).Info("Converted to TIFF",
		"path", path, "compression", compression)

	result := map[string]any{
		"output_path": path,
		"format":      "tiff",
		"compression": compression,
	}
	fileSizeFields(path, result)
	return result, nil
}

func (t *Toolset) convertToPSD(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "output_path")
	if err != nil {
		return nil, err
	}
	maximize, err := boolArg(args, "maximize_compatibility", true)
	if err != nil {
		return nil, err
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	if err := doc.SaveAs(ctx, path, ps.PSDSave(maximize), true); err != nil {
		return nil, err
	}
	t.record(path)

	logging.FromContext(ctx).Info("Converted to PSD", "path", path)

	result := map[string]any{
		"output_path":            path,
		"format":                 "psd",
		"maximize_compatibility": maximize,
	}
	fileSizeFields(path, result)
	return result, nil
}

func (t *Toolset) convertForWeb(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "output_path")
	if err != nil {
		return nil, err
	}
	maxDimension, err := intArg(args, "max_dimension", 1200)
	if err != nil {
		return nil, err
	}
	quality, err := intArg(args, "quality", 75)
	if err != nil {
		return nil, err
	}
	if maxDimension <= 0 {
		return nil, fmt.Errorf("max_dimension must be positive")
	}

	doc, err := t.client.ActiveDocument(ctx)
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

	limit := float64(maxDimension)
	resized := width > limit || height > limit
	if resized {
		newWidth, newHeight := scaleToFit(width, height, limit, limit)
		logging.FromContext(ctx).Info("Downscaling for web",
			"from_width", width, "from_height", height,
			"to_width", newWidth, "to_height", newHeight)
		if err := doc.ResizeImage(ctx, float64(newWidth), float64(newHeight),
			72, ps.BicubicSharper); err != nil {
			return nil, err
		}
		width, height = float64(newWidth), float64(newHeight)
	}

	if err := convertModeIf(ctx, doc, ps.ConvertToRGB); err != nil {
		return nil, err
	}

	spec := ps.JPEGSave(ps.JPEGQualityFromPercent(quality), ps.Optimized)
	if err := doc.SaveAs(ctx, path, spec, true); err != nil {
		return nil, err
	}
	t.record(path)

	result := map[string]any{
		"output_path":   path,
		"format":        "jpg",
		"optimized_for": "web",
		"resized":       resized,
		"width":         width,
		"height":        height,
		"quality":       quality,
	}
	fileSizeFields(path, result)
	return result, nil
}

func (t *Toolset) convertForPrint(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "output_path")
	if err != nil {
		return nil, err
	}
	resolution, err := intArg(args, "resolution", 300)
	if err != nil {
		return nil, err
	}
	colorMode, err := stringArg(args, "color_mode", "cmyk")
	if err != nil {
		return nil, err
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("resolution must be positive")
	}
	target := ps.ConvertToCMYK
	switch strings.ToLower(colorMode) {
	case "cmyk":
	case "rgb":
		target = ps.ConvertToRGB
	default:
		return nil, fmt.Errorf("color_mode must be %q or %q", "cmyk", "rgb")
	}

	doc, err := t.client.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}
	current, err := doc.Resolution(ctx)
	if err != nil {
		return nil, err
	}
	if current != float64(resolution) {
		width, err := doc.Width(ctx)
		if err != nil {
			return nil, err
		}
		height, err := doc.Height(ctx)
		if err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Info("Changing resolution for print",
			"from", current, "to", resolution)
		if err := doc.ResizeImage(ctx, width, height,
			float64(resolution), ps.NoResampling); err != nil {
			return nil, err
		}
	}

	if err := convertModeIf(ctx, doc, target); err != nil {
		return nil, err
	}

	if err := doc.SaveAs(ctx, path, ps.TIFFSave(ps.TIFFLZW, 0), true); err != nil {
		return nil, err
	}
	t.record(path)

	result := map[string]any{
		"output_path":   path,
		"format":        "tiff",
		"optimized_for": "print",
		"color_mode":    strings.ToUpper(colorMode),
		"resolution":    resolution,
	}
	fileSizeFields(path, result)
	return result, nil
}

func (t *Toolset) convertForSocialMedia(ctx context.Context, args map[string]any) (map[string]any, error) {
	path, err := requireString(args, "output_path")
	if err != nil {
		return nil, err
	}
	platform, err := requireString(args, "platform")
	if err != nil {
		return nil, err
	}
	postType, err := stringArg(args, "post_type", "post")
	if err != nil {
		return nil, err
	}

	platform = strings.ToLower(platform)
	postType = strings.ToLower(postType)
	sizes, ok := socialDimensions[platform]
	if !ok {
		return nil, fmt.Errorf("unsupported platform %q (supported: %s)",
			platform, strings.Join(sortedKeys(socialDimensions), ", "))
	}
	dims, ok := sizes[postType]
	if !ok {
		return nil, fmt.Errorf("unsupported post type %q for %s (supported: %s)",
			postType, platform, strings.Join(sortedKeys(sizes), ", "))
	}
	targetWidth, targetHeight := dims[0], dims[1]

	doc, err := t.client.ActiveDocument(ctx)
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

	// Scale to fit inside the target canvas, then pad the canvas out to
	// the exact platform size instead of distorting the image.
	fitWidth, fitHeight := scaleToFit(width, height,
		float64(targetWidth), float64(targetHeight))
	if float64(fitWidth) != width || float64(fitHeight) != height {
		if err := doc.ResizeImage(ctx, float64(fitWidth), float64(fitHeight),
			72, ps.BicubicSharper); err != nil {
			return nil, err
		}
	}
	if fitWidth != targetWidth || fitHeight != targetHeight {
		res, err := t.client.RunScript(ctx, ps.ResizeCanvasScript(targetWidth, targetHeight))
		if err != nil {
			return nil, err
		}
		if err := ps.ScriptResultError(res); err != nil {
			return nil, err
		}
	}

	if err := convertModeIf(ctx, doc, ps.ConvertToRGB); err != nil {
		return nil, err
	}

	spec := ps.JPEGSave(ps.JPEGQualityFromPercent(socialJPEGQuality), ps.Optimized)
	if err := doc.SaveAs(ctx, path, spec, true); err != nil {
		return nil, err
	}
	t.record(path)

	logging.FromContext(ctx).Info("Converted for social media",
		"platform", platform, "post_type", postType,
		"width", targetWidth, "height", targetHeight)

	result := map[string]any{
		"output_path":   path,
		"format":        "jpg",
		"platform":      platform,
		"post_type":     postType,
		"optimized_for": platform + " " + postType,
		"dimensions": map[string]any{
			"width":  targetWidth,
			"height": targetHeight,
		},
	}
	fileSizeFields(path, result)
	return result, nil
}

// convertModeIf switches the document to target when its current mode is
// one of from. An empty from list converts from any mode except the target
// itself.
func convertModeIf(ctx context.Context, doc ps.Document, target ps.ChangeMode, from ...ps.DocumentMode) error {
	mode, err := doc.Mode(ctx)
	if err != nil {
		return err
	}
	if mode == target.Target() {
		return nil
	}
	if len(from) == 0 {
		return doc.ChangeMode(ctx, target)
	}
	for _, m := range from {
		if mode == m {
			return doc.ChangeMode(ctx, target)
		}
	}
	return nil
}

// scaleToFit shrinks width x height proportionally so both edges fit inside
// the bounds. Dimensions already inside the bounds are returned unchanged.
func scaleToFit(width, height, maxWidth, maxHeight float64) (int, int) {
	scale := math.Min(maxWidth/width, maxHeight/height)
	if scale >= 1 {
		return int(math.Round(width)), int(math.Round(height))
	}
	w := int(math.Round(width * scale))
	h := int(math.Round(height * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
