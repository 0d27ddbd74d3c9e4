// Package preview verifies exported image files and keeps a bounded PNG
// thumbnail of the most recent export for the preview resource.
//
// Verification is best effort. Photoshop owns the export; if the written
// file cannot be decoded, the export already succeeded and only the
// verification downgrades.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// DefaultMaxDimension bounds thumbnail edges when no configuration is given.
const DefaultMaxDimension = 512

// ErrNoPreview is returned when no decodable export has been recorded yet.
var ErrNoPreview = errors.New("no exported image to preview")

// decodableExts are the export formats the Go image stack can read back.
// Photoshop-native formats (psd) and webp are not decodable here.
var decodableExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// Decodable reports whether an exported file can be opened for
// verification, judged by its extension.
func Decodable(path string) bool {
	_, ok := decodableExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Result describes one verification attempt against an exported file.
type Result struct {
	Path     string
	Width    int
	Height   int
	Verified bool
}

// Verify opens an exported file and reports its decoded bounds.
func Verify(path string) (*Result, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	b := img.Bounds()
	return &Result{Path: path, Width: b.Dx(), Height: b.Dy(), Verified: true}, nil
}

// Store holds the verification result and thumbnail of the most recent
// export. Safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	logger       *slog.Logger
	maxDimension int
	last         *Result
	thumb        []byte
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for verification warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.WithGroup("preview")
		}
	}
}

// NewStore creates a Store whose thumbnails fit inside a
// maxDimension-sided square. Non-positive values use DefaultMaxDimension.
func NewStore(maxDimension int, opts ...Option) *Store {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	s := &Store{
		logger:       slog.Default().WithGroup("preview"),
		maxDimension: maxDimension,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxDimension returns the thumbnail edge bound.
func (s *Store) MaxDimension() int {
	return s.maxDimension
}

// Record verifies an exported file and caches its thumbnail. Files in
// formats that cannot be decoded are skipped and return nil. A decode
// failure returns an unverified Result and leaves the cached preview
// untouched; it never fails the export that produced the file.
func (s *Store) Record(path string) *Result {
	if !Decodable(path) {
		return nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		s.logger.Warn("Export verification failed", "path", path, "error", err)
		return &Result{Path: path}
	}

	b := img.Bounds()
	res := &Result{Path: path, Width: b.Dx(), Height: b.Dy(), Verified: true}

	// Fit never upscales, so small exports keep their native size.
	fit := imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fit, imaging.PNG); err != nil {
		s.logger.Warn("Thumbnail encode failed", "path", path, "error", err)
		return res
	}

	s.mu.Lock()
	s.last = res
	s.thumb = buf.Bytes()
	s.mu.Unlock()

	s.logger.Debug("Export verified",
		"path", path,
		"width", res.Width,
		"height", res.Height)
	return res
}

// Last returns the most recent verified export, or nil.
func (s *Store) Last() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Thumbnail returns the PNG thumbnail of the most recent verified export
// and the result it was rendered from.
func (s *Store) Thumbnail() ([]byte, *Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || len(s.thumb) == 0 {
		return nil, nil, ErrNoPreview
	}
	return s.thumb, s.last, nil
}
