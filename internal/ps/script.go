package ps

import (
	"fmt"
	"strconv"
	"strings"
)

// Script builders for the operations the COM surface expresses poorly:
// canvas transforms, WebP export, and structured probes. Scripts run inside
// Photoshop via DoJavaScript; ExtendScript has no JSON object, so probes
// assemble their JSON result by string concatenation.
//
// Every script evaluates to a string. Failures use the "Error: ..." prefix
// so callers can distinguish them without an exception channel.

const scriptErrorPrefix = "Error: "

// IsScriptError reports whether a script result signals failure.
func IsScriptError(result string) bool {
	return strings.HasPrefix(result, scriptErrorPrefix)
}

// ScriptErrorText strips the error prefix from a failed script result.
func ScriptErrorText(result string) string {
	return strings.TrimPrefix(result, scriptErrorPrefix)
}

// ScriptResultError converts a failed script result into an ErrScript
// error, or nil when the result does not signal failure.
func ScriptResultError(result string) error {
	if !IsScriptError(result) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrScript, ScriptErrorText(result))
}

// EscapeScriptString escapes a Go string for embedding inside a
// double-quoted ExtendScript literal.
func EscapeScriptString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

// ScriptPath normalizes a file path for an ExtendScript File() constructor:
// forward slashes, then literal escaping.
func ScriptPath(p string) string {
	return EscapeScriptString(strings.ReplaceAll(p, `\`, "/"))
}

func scriptNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RotateCanvasScript rotates the active document's canvas by the given
// angle in degrees, positive clockwise.
func RotateCanvasScript(angle float64) string {
	return fmt.Sprintf(`try {
    var doc = app.activeDocument;
    doc.rotateCanvas(%s);
    'success';
} catch(e) {
    'Error: ' + e.toString();
}`, scriptNumber(angle))
}

// FlipCanvasScript flips the active document's canvas along the given axis.
func FlipCanvasScript(dir Direction) string {
	axis := "Direction.HORIZONTAL"
	if dir == Vertical {
		axis = "Direction.VERTICAL"
	}
	return fmt.Sprintf(`try {
    var doc = app.activeDocument;
    doc.flipCanvas(%s);
    'success';
} catch(e) {
    'Error: ' + e.toString();
}`, axis)
}

// CropScript crops the active document to the given pixel bounds. Crop
// takes its bounds as an array, which scripting handles more reliably than
// a SAFEARRAY-typed COM argument.
func CropScript(left, top, right, bottom float64) string {
	return fmt.Sprintf(`try {
    var doc = app.activeDocument;
    doc.crop([%s, %s, %s, %s]);
    'success';
} catch(e) {
    'Error: ' + e.toString();
}`, scriptNumber(left), scriptNumber(top), scriptNumber(right), scriptNumber(bottom))
}

// TextLayerParams describes a text layer to create on the active document.
type TextLayerParams struct {
	Text    string
	X       int
	Y       int
	Size    int
	R, G, B int
	Opacity int
}

// TextLayerScript adds a text layer, positions and colors it, and evaluates
// to the new layer's name.
func TextLayerScript(p TextLayerParams) string {
	return fmt.Sprintf(`try {
    var doc = app.activeDocument;
    var layer = doc.artLayers.add();
    layer.kind = LayerKind.TEXT;
    var item = layer.textItem;
    item.contents = "%s";
    item.position = [%d, %d];
    item.size = %d;
    var color = new SolidColor();
    color.rgb.red = %d;
    color.rgb.green = %d;
    color.rgb.blue = %d;
    item.color = color;
    layer.opacity = %d;
    String(layer.name);
} catch(e) {
    'Error: ' + e.toString();
}`, EscapeScriptString(p.Text), p.X, p.Y, p.Size, p.R, p.G, p.B, p.Opacity)
}

// SolidFillScript adds a layer and floods it with a solid RGB fill through
// selectAll/fill/deselect, evaluating to the layer's name.
func SolidFillScript(name string, r, g, b int) string {
	return fmt.Sprintf(`try {
    var doc = app.activeDocument;
    var layer = doc.artLayers.add();
    layer.name = "%s";
    var color = new SolidColor();
    color.rgb.red = %d;
    color.rgb.green = %d;
    color.rgb.blue = %d;
    doc.selection.selectAll();
    doc.selection.fill(color);
    doc.selection.deselect();
    String(layer.name);
} catch(e) {
    'Error: ' + e.toString();
}`, EscapeScriptString(name), r, g, b)
}

// ResizeCanvasScript grows or shrinks the active document's canvas to the
// given pixel dimensions without scaling the image, anchored at center.
func ResizeCanvasScript(width, height int) string {
	return fmt.Sprintf(`try {
    var doc = app.activeDocument;
    doc.resizeCanvas(UnitValue(%d, "px"), UnitValue(%d, "px"), AnchorPosition.MIDDLECENTER);
    'success';
} catch(e) {
    'Error: ' + e.toString();
}`, width, height)
}

// GIFExportScript saves the active document as GIF by duplicating it under a
// throwaway name and converting the flattened duplicate to indexed color, so
// the source document keeps its mode and history. Indexed conversion only
// works from RGB or grayscale, so other modes pass through RGB first.
func GIFExportScript(path, tempName string) string {
	return fmt.Sprintf(`try {
    var src = app.activeDocument;
    var dup = src.duplicate("%s", true);
    app.activeDocument = dup;
    if (dup.mode != DocumentMode.RGB && dup.mode != DocumentMode.GRAYSCALE && dup.mode != DocumentMode.INDEXEDCOLOR) {
        dup.changeMode(ChangeMode.RGB);
    }
    if (dup.mode != DocumentMode.INDEXEDCOLOR) {
        dup.changeMode(ChangeMode.INDEXEDCOLOR);
    }
    dup.saveAs(new File("%s"), new GIFSaveOptions(), true, Extension.LOWERCASE);
    dup.close(SaveOptions.DONOTSAVECHANGES);
    app.activeDocument = src;
    'success';
} catch(e) {
    'Error: ' + e.toString();
}`, EscapeScriptString(tempName), ScriptPath(path))
}

// WebPExportScript exports the active document through Save For Web.
// Photoshop builds without WebP support evaluate to a "not natively
// supported" marker instead of an error, so callers can fall back to PNG.
func WebPExportScript(path string, quality int) string {
	return fmt.Sprintf(`try {
    var doc = app.activeDocument;
    var options = new ExportOptionsSaveForWeb();
    options.format = SaveDocumentType.PNG;
    options.PNG8 = false;
    options.quality = %d;
    try {
        var outFile = new File("%s");
        doc.exportDocument(outFile, ExportType.SAVEFORWEB, options);
        'success';
    } catch(e) {
        'WebP not natively supported: ' + e.toString();
    }
} catch(e) {
    'Error: ' + e.toString();
}`, quality, ScriptPath(path))
}

// WebPUnsupported reports whether a WebP export result signals the host has
// no WebP encoder.
func WebPUnsupported(result string) bool {
	return strings.Contains(result, "not natively supported") ||
		strings.Contains(result, "not supported")
}

// SelectionInfoScript probes the active selection. Reading bounds with no
// selection throws, which the script folds into hasSelection:false.
func SelectionInfoScript() string {
	return `try {
    var doc = app.activeDocument;
    var b = doc.selection.bounds;
    '{"hasSelection":true,"left":' + b[0].value + ',"top":' + b[1].value +
        ',"right":' + b[2].value + ',"bottom":' + b[3].value + '}';
} catch(e) {
    '{"hasSelection":false}';
}`
}

// LayerListScript lists the active document's art layers as a JSON array of
// {index, name, kind, visible, opacity}.
func LayerListScript() string {
	return `try {
    var doc = app.activeDocument;
    var esc = function(s) {
        return String(s).replace(/\\/g, "\\\\").replace(/"/g, '\\"');
    };
    var parts = [];
    for (var i = 0; i < doc.artLayers.length; i++) {
        var l = doc.artLayers[i];
        parts.push('{"index":' + i +
            ',"name":"' + esc(l.name) +
            '","kind":"' + l.kind +
            '","visible":' + l.visible +
            ',"opacity":' + l.opacity + '}');
    }
    '[' + parts.join(',') + ']';
} catch(e) {
    'Error: ' + e.toString();
}`
}
