package ps

import (
	"context"

	"github.com/go-ole/go-ole"
)

// SaveAs extension casing: 2 appends a lowercase extension.
const extensionLowercase = 2

// document is a handle to the frontmost Photoshop document. COM document
// references go stale when documents close or reorder, so every
// operation resolves ActiveDocument fresh on the worker thread and
// releases it before returning. Nothing is pinned between calls.
type document struct {
	s *Session
}

var _ Document = (*document)(nil)

// withDoc runs fn on the worker thread with a live dispatch for the
// active document. Retries re-resolve the document from scratch.
func (d *document) withDoc(ctx context.Context, op string, fn func(doc *ole.IDispatch) error) error {
	return d.s.exec(ctx, op, func() error {
		n, err := d.s.documentCount()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNoActiveDocument
		}
		doc, err := dispatchProperty(d.s.app, op, "ActiveDocument")
		if err != nil {
			return err
		}
		defer doc.Release()
		return fn(doc)
	})
}

func (d *document) Name(ctx context.Context) (string, error) {
	var name string
	err := d.withDoc(ctx, "read name", func(doc *ole.IDispatch) error {
		v, err := stringProperty(doc, "read name", "Name")
		if err != nil {
			return err
		}
		name = v
		return nil
	})
	return name, err
}

func (d *document) Width(ctx context.Context) (float64, error) {
	return d.floatProp(ctx, "read width", "Width")
}

func (d *document) Height(ctx context.Context) (float64, error) {
	return d.floatProp(ctx, "read height", "Height")
}

func (d *document) Resolution(ctx context.Context) (float64, error) {
	return d.floatProp(ctx, "read resolution", "Resolution")
}

func (d *document) floatProp(ctx context.Context, op, name string) (float64, error) {
	var value float64
	err := d.withDoc(ctx, op, func(doc *ole.IDispatch) error {
		v, err := floatProperty(doc, op, name)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

func (d *document) Mode(ctx context.Context) (DocumentMode, error) {
	var mode DocumentMode
	err := d.withDoc(ctx, "read mode", func(doc *ole.IDispatch) error {
		n, err := intProperty(doc, "read mode", "Mode")
		if err != nil {
			return err
		}
		mode = DocumentMode(n)
		return nil
	})
	return mode, err
}

// LayerCount counts the document's layers, layer sets included.
func (d *document) LayerCount(ctx context.Context) (int, error) {
	var count int
	err := d.withDoc(ctx, "count layers", func(doc *ole.IDispatch) error {
		layers, err := dispatchProperty(doc, "count layers", "Layers")
		if err != nil {
			return err
		}
		defer layers.Release()
		n, err := intProperty(layers, "count layers", "Count")
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	return count, err
}

// ResizeImage resamples the document. A zero method omits the resample
// argument so the host applies its preference, which is what
// resolution-only changes want.
func (d *document) ResizeImage(ctx context.Context, width, height, resolution float64, method ResampleMethod) error {
	return d.withDoc(ctx, "resize image", func(doc *ole.IDispatch) error {
		args := []any{width, height, resolution}
		if method != 0 {
			args = append(args, int(method))
		}
		return callVoid(doc, "resize image", "ResizeImage", args...)
	})
}

func (d *document) ChangeMode(ctx context.Context, mode ChangeMode) error {
	return d.withDoc(ctx, "change mode", func(doc *ole.IDispatch) error {
		return callVoid(doc, "change mode", "ChangeMode", int(mode))
	})
}

// Crop goes through scripting because the COM method takes its bounds as
// a SAFEARRAY, which marshals poorly.
func (d *document) Crop(ctx context.Context, left, top, right, bottom float64) error {
	result, err := d.s.RunScript(ctx, CropScript(left, top, right, bottom))
	if err != nil {
		return err
	}
	return ScriptResultError(result)
}

// Trim removes matching borders from all four sides.
func (d *document) Trim(ctx context.Context, trim TrimType) error {
	return d.withDoc(ctx, "trim", func(doc *ole.IDispatch) error {
		return callVoid(doc, "trim", "Trim", int(trim), true, true, true, true)
	})
}

func (d *document) Flatten(ctx context.Context) error {
	return d.withDoc(ctx, "flatten", func(doc *ole.IDispatch) error {
		return callVoid(doc, "flatten", "Flatten")
	})
}

func (d *document) MergeVisibleLayers(ctx context.Context) error {
	return d.withDoc(ctx, "merge visible layers", func(doc *ole.IDispatch) error {
		return callVoid(doc, "merge visible layers", "MergeVisibleLayers")
	})
}

// SaveAs writes the document using a save-options object built from
// spec. asCopy leaves the open document untouched.
func (d *document) SaveAs(ctx context.Context, path string, spec SaveSpec, asCopy bool) error {
	return d.withDoc(ctx, "save as", func(doc *ole.IDispatch) error {
		opts, err := buildSaveOptions(spec)
		if err != nil {
			return err
		}
		defer opts.Release()
		return callVoid(doc, "save as", "SaveAs", path, opts, asCopy, extensionLowercase)
	})
}

// CloseWithoutSaving closes the document, discarding unsaved changes.
func (d *document) CloseWithoutSaving(ctx context.Context) error {
	return d.withDoc(ctx, "close document", func(doc *ole.IDispatch) error {
		return callVoid(doc, "close document", "Close", int(DoNotSaveChanges))
	})
}
