package ps

import (
	"fmt"
	"strings"
)

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Constants below mirror the numeric enumerations of the Photoshop COM type
// library. The values are wire-level: they are passed verbatim as VARIANT
// arguments, so they must match the host application exactly.

// NewDocumentMode selects the color mode for Documents.Add.
type NewDocumentMode int

const (
	NewGray   NewDocumentMode = 1
	NewRGB    NewDocumentMode = 2
	NewCMYK   NewDocumentMode = 3
	NewLab    NewDocumentMode = 4
	NewBitmap NewDocumentMode = 5
)

// ParseNewDocumentMode maps a user-facing mode name to the enum. The empty
// string defaults to RGB.
func ParseNewDocumentMode(s string) (NewDocumentMode, error) {
	switch lower(s) {
	case "", "rgb":
		return NewRGB, nil
	case "gray", "grayscale":
		return NewGray, nil
	case "cmyk":
		return NewCMYK, nil
	case "lab":
		return NewLab, nil
	case "bitmap":
		return NewBitmap, nil
	default:
		return 0, fmt.Errorf("invalid document mode %q (valid: rgb, gray, cmyk, lab, bitmap)", s)
	}
}

// DocumentMode is the color mode reported by Document.Mode.
type DocumentMode int

const (
	ModeGrayscale    DocumentMode = 1
	ModeRGB          DocumentMode = 2
	ModeCMYK         DocumentMode = 3
	ModeLab          DocumentMode = 4
	ModeBitmap       DocumentMode = 5
	ModeIndexedColor DocumentMode = 6
	ModeMultiChannel DocumentMode = 7
	ModeDuotone      DocumentMode = 8
)

func (m DocumentMode) String() string {
	switch m {
	case ModeGrayscale:
		return "Grayscale"
	case ModeRGB:
		return "RGB"
	case ModeCMYK:
		return "CMYK"
	case ModeLab:
		return "Lab"
	case ModeBitmap:
		return "Bitmap"
	case ModeIndexedColor:
		return "IndexedColor"
	case ModeMultiChannel:
		return "MultiChannel"
	case ModeDuotone:
		return "Duotone"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ChangeMode is the conversion target for Document.ChangeMode. The numbering
// parallels DocumentMode for the shared modes.
type ChangeMode int

const (
	ConvertToGrayscale    ChangeMode = 1
	ConvertToRGB          ChangeMode = 2
	ConvertToCMYK         ChangeMode = 3
	ConvertToLab          ChangeMode = 4
	ConvertToBitmap       ChangeMode = 5
	ConvertToIndexedColor ChangeMode = 6
	ConvertToMultiChannel ChangeMode = 7
)

// ParseChangeMode maps a user-facing mode name to a conversion target.
func ParseChangeMode(s string) (ChangeMode, error) {
	switch lower(s) {
	case "rgb":
		return ConvertToRGB, nil
	case "cmyk":
		return ConvertToCMYK, nil
	case "gray", "grayscale":
		return ConvertToGrayscale, nil
	case "lab":
		return ConvertToLab, nil
	case "bitmap":
		return ConvertToBitmap, nil
	case "indexed":
		return ConvertToIndexedColor, nil
	case "multichannel":
		return ConvertToMultiChannel, nil
	default:
		return 0, fmt.Errorf(
			"invalid color mode %q (valid: rgb, cmyk, grayscale, gray, lab, bitmap, indexed, multichannel)", s,
		)
	}
}

// Target reports the DocumentMode a conversion lands on.
func (c ChangeMode) Target() DocumentMode {
	return DocumentMode(c)
}

// ResampleMethod selects the interpolation for Document.ResizeImage.
type ResampleMethod int

const (
	NoResampling      ResampleMethod = 1
	NearestNeighbor   ResampleMethod = 2
	Bilinear          ResampleMethod = 3
	Bicubic           ResampleMethod = 4
	BicubicSharper    ResampleMethod = 5
	BicubicSmoother   ResampleMethod = 6
	PreserveDetails   ResampleMethod = 7
	AutomaticResample ResampleMethod = 8
)

// ParseResampleMethod maps a method name to the enum. Unknown names fall
// back to bicubic rather than failing, matching how resize requests are
// treated as best-effort hints.
func ParseResampleMethod(s string) ResampleMethod {
	switch lower(s) {
	case "none":
		return NoResampling
	case "nearest_neighbor":
		return NearestNeighbor
	case "bilinear":
		return Bilinear
	case "bicubic_smoother":
		return BicubicSmoother
	case "bicubic_sharper":
		return BicubicSharper
	case "preserve_details":
		return PreserveDetails
	case "automatic":
		return AutomaticResample
	default:
		return Bicubic
	}
}

// TrimType selects what Document.Trim removes.
type TrimType int

const (
	TrimTransparent TrimType = 0
	TrimTopLeft     TrimType = 1
	TrimBottomRight TrimType = 9
)

// ParseTrimType maps a trim name to the enum. The _color suffix is
// optional.
func ParseTrimType(s string) (TrimType, error) {
	switch lower(s) {
	case "", "transparent":
		return TrimTransparent, nil
	case "top_left_color", "top_left":
		return TrimTopLeft, nil
	case "bottom_right_color", "bottom_right":
		return TrimBottomRight, nil
	default:
		return 0, fmt.Errorf(
			"invalid trim type %q (valid: transparent, top_left_color, bottom_right_color)", s,
		)
	}
}

// SaveOptionsFlag controls whether Document.Close saves pending changes.
type SaveOptionsFlag int

const (
	SaveChanges         SaveOptionsFlag = 1
	DoNotSaveChanges    SaveOptionsFlag = 2
	PromptToSaveChanges SaveOptionsFlag = 3
)

// DialogModes controls whether the host shows modal dialogs during
// automation calls. Anything but DisplayNoDialogs risks blocking calls.
type DialogModes int

const (
	DisplayAllDialogs   DialogModes = 1
	DisplayErrorDialogs DialogModes = 2
	DisplayNoDialogs    DialogModes = 3
)

// ParseDialogModes maps a config string to the enum. The empty string
// defaults to suppressing all dialogs.
func ParseDialogModes(s string) (DialogModes, error) {
	switch lower(s) {
	case "", "none":
		return DisplayNoDialogs, nil
	case "error":
		return DisplayErrorDialogs, nil
	case "all":
		return DisplayAllDialogs, nil
	default:
		return 0, fmt.Errorf("invalid dialog mode %q (valid: all, error, none)", s)
	}
}

// Direction selects the axis for canvas flips.
type Direction int

const (
	Horizontal Direction = 1
	Vertical   Direction = 2
)

// ParseDirection maps a direction name to the enum.
func ParseDirection(s string) (Direction, error) {
	switch lower(s) {
	case "", "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	default:
		return 0, fmt.Errorf("invalid direction %q (valid: horizontal, vertical)", s)
	}
}

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// LayerKind distinguishes layer types on ArtLayer.Kind.
type LayerKind int

const (
	NormalLayer LayerKind = 1
	TextLayer   LayerKind = 2
)

// Units is the ruler unit preference.
type Units int

const (
	UnitsPixels  Units = 1
	UnitsInches  Units = 2
	UnitsCM      Units = 3
	UnitsMM      Units = 4
	UnitsPoints  Units = 5
	UnitsPicas   Units = 6
	UnitsPercent Units = 7
)

// ParseUnits maps a config string to the enum. The empty string defaults to
// pixels, the unit every tool in this bridge assumes.
func ParseUnits(s string) (Units, error) {
	switch lower(s) {
	case "", "pixels":
		return UnitsPixels, nil
	case "inches":
		return UnitsInches, nil
	case "cm":
		return UnitsCM, nil
	case "mm":
		return UnitsMM, nil
	case "points":
		return UnitsPoints, nil
	case "picas":
		return UnitsPicas, nil
	case "percent":
		return UnitsPercent, nil
	default:
		return 0, fmt.Errorf(
			"invalid ruler units %q (valid: pixels, inches, cm, mm, points, picas, percent)", s,
		)
	}
}

// FormatOptions selects the JPEG encoding variant.
type FormatOptions int

const (
	StandardBaseline FormatOptions = 1
	Optimized        FormatOptions = 2
	Progressive      FormatOptions = 3
)

// TIFFEncoding selects TIFF compression.
type TIFFEncoding int

const (
	NoTIFFCompression TIFFEncoding = 1
	TIFFLZW           TIFFEncoding = 2
	TIFFZIP           TIFFEncoding = 3
	TIFFJPEG          TIFFEncoding = 4
)

// ParseTIFFEncoding maps a compression name to the enum. Unknown names fall
// back to LZW.
func ParseTIFFEncoding(s string) TIFFEncoding {
	switch lower(s) {
	case "none":
		return NoTIFFCompression
	case "zip":
		return TIFFZIP
	case "jpeg":
		return TIFFJPEG
	default:
		return TIFFLZW
	}
}
