// Package ps is the COM bridge to Adobe Photoshop. It owns the single
// automation session, serializes every call onto one apartment-threaded
// worker, and retries calls the host rejects while a modal dialog is up.
//
// Everything above this package talks to the Client and Document
// interfaces, so tools and the server never touch COM directly.
package ps

import "context"

// Client is the automation session with the Photoshop application.
type Client interface {
	// Connect establishes the COM session, attaching to a running Photoshop
	// or launching one. Calling Connect on a live session is a no-op.
	Connect(ctx context.Context) error

	// Close releases the COM session. The client cannot be reused after.
	Close(ctx context.Context) error

	// GetState returns the lifecycle state of the session.
	GetState() string

	// IsRunning reports whether the session is connected and usable.
	IsRunning() bool

	// Version returns the host application's version string.
	Version(ctx context.Context) (string, error)

	// HasActiveDocument reports whether any document is open.
	HasActiveDocument(ctx context.Context) (bool, error)

	// ActiveDocument returns the frontmost document, or ErrNoActiveDocument.
	ActiveDocument(ctx context.Context) (Document, error)

	// CreateDocument makes a new document and returns it.
	CreateDocument(ctx context.Context, opts DocumentOptions) (Document, error)

	// OpenDocument opens a file and returns the resulting document.
	OpenDocument(ctx context.Context, path string) (Document, error)

	// RunScript evaluates ExtendScript inside Photoshop and returns the
	// script's string result.
	RunScript(ctx context.Context, script string) (string, error)
}

// Document is one open document inside Photoshop.
type Document interface {
	Name(ctx context.Context) (string, error)
	Width(ctx context.Context) (float64, error)
	Height(ctx context.Context) (float64, error)
	Resolution(ctx context.Context) (float64, error)
	Mode(ctx context.Context) (DocumentMode, error)
	LayerCount(ctx context.Context) (int, error)

	// ResizeImage resamples the document. A zero method omits the resample
	// argument, letting the host pick (used for resolution-only changes).
	ResizeImage(ctx context.Context, width, height, resolution float64, method ResampleMethod) error

	ChangeMode(ctx context.Context, mode ChangeMode) error
	Crop(ctx context.Context, left, top, right, bottom float64) error

	// Trim removes matching borders from all four sides.
	Trim(ctx context.Context, trim TrimType) error

	Flatten(ctx context.Context) error
	MergeVisibleLayers(ctx context.Context) error

	// SaveAs writes the document using a save-options object described by
	// spec. asCopy leaves the open document untouched.
	SaveAs(ctx context.Context, path string, spec SaveSpec, asCopy bool) error

	// CloseWithoutSaving closes the document, discarding unsaved changes.
	CloseWithoutSaving(ctx context.Context) error
}
