package ps

// DocumentOptions describes a new document for Documents.Add.
type DocumentOptions struct {
	Width      int
	Height     int
	Resolution int
	Name       string
	Mode       NewDocumentMode
}

// NewDocumentOptions returns the standard defaults: a 1000x1000 pixel RGB
// document at 72 ppi named "Untitled".
func NewDocumentOptions() DocumentOptions {
	return DocumentOptions{
		Width:      1000,
		Height:     1000,
		Resolution: 72,
		Name:       "Untitled",
		Mode:       NewRGB,
	}
}

// Prop is one property assignment on a COM save-options object.
type Prop struct {
	Name  string
	Value any
}

// SaveSpec describes a save-options COM object to instantiate by ProgID and
// the properties to set on it before Document.SaveAs. Keeping this as plain
// data lets the format builders stay unit-testable without a COM runtime.
type SaveSpec struct {
	ProgID string
	Props  []Prop
}

// JPEGSave builds options for Photoshop.JPEGSaveOptions. Quality is on the
// host's 1..12 scale and clamped into it.
func JPEGSave(quality int, format FormatOptions) SaveSpec {
	return SaveSpec{
		ProgID: "Photoshop.JPEGSaveOptions",
		Props: []Prop{
			{Name: "Quality", Value: ClampJPEGQuality(quality)},
			{Name: "FormatOptions", Value: int(format)},
			{Name: "EmbedColorProfile", Value: true},
		},
	}
}

// PNGSave builds options for Photoshop.PNGSaveOptions. Compression is on
// the 0..9 scale and clamped into it.
func PNGSave(compression int, interlaced bool) SaveSpec {
	return SaveSpec{
		ProgID: "Photoshop.PNGSaveOptions",
		Props: []Prop{
			{Name: "Compression", Value: ClampPNGCompression(compression)},
			{Name: "Interlaced", Value: interlaced},
		},
	}
}

// PSDSave builds options for Photoshop.PhotoshopSaveOptions.
func PSDSave(maximizeCompatibility bool) SaveSpec {
	return SaveSpec{
		ProgID: "Photoshop.PhotoshopSaveOptions",
		Props: []Prop{
			{Name: "EmbedColorProfile", Value: true},
			{Name: "MaximizeCompatibility", Value: maximizeCompatibility},
		},
	}
}

// TIFFSave builds options for Photoshop.TiffSaveOptions. The JPEG quality
// only applies when the encoding is TIFFJPEG.
func TIFFSave(encoding TIFFEncoding, jpegQuality int) SaveSpec {
	props := []Prop{
		{Name: "ImageCompression", Value: int(encoding)},
		{Name: "EmbedColorProfile", Value: true},
	}
	if encoding == TIFFJPEG {
		props = append(props, Prop{Name: "JPEGQuality", Value: ClampJPEGQuality(jpegQuality)})
	}
	return SaveSpec{ProgID: "Photoshop.TiffSaveOptions", Props: props}
}

// GIFSave builds options for Photoshop.GIFSaveOptions. The document must be
// in indexed color mode before saving; callers handle the mode round-trip.
func GIFSave() SaveSpec {
	return SaveSpec{ProgID: "Photoshop.GIFSaveOptions"}
}

// BMPSave builds options for Photoshop.BMPSaveOptions.
func BMPSave() SaveSpec {
	return SaveSpec{ProgID: "Photoshop.BMPSaveOptions"}
}

// ClampJPEGQuality clamps to the host's 1..12 JPEG quality scale.
func ClampJPEGQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 12 {
		return 12
	}
	return q
}

// ClampPNGCompression clamps to the 0..9 PNG compression scale.
func ClampPNGCompression(c int) int {
	if c < 0 {
		return 0
	}
	if c > 9 {
		return 9
	}
	return c
}

// JPEGQualityFromPercent maps a 0..100 quality to the host's 1..12 scale.
func JPEGQualityFromPercent(q int) int {
	return ClampJPEGQuality(int(float64(q) / 8.33))
}

// PNGCompressionFromPercent maps a 0..100 quality to the inverse 0..9
// compression scale (higher quality, lower compression).
func PNGCompressionFromPercent(q int) int {
	return ClampPNGCompression((100 - q) / 11)
}
