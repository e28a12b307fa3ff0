package backend

import (
	"errors"
	"fmt"
	"image"
)

// Common backend errors.
var (
	// ErrNotAvailable is returned when a backend cannot run in this process.
	ErrNotAvailable = errors.New("backend: not available")

	// ErrUnsupported is returned when a backend cannot handle the input,
	// so the next backend in a chain should be tried.
	ErrUnsupported = errors.New("backend: unsupported input")

	// ErrGlyphNotFound is returned when a font has no glyph for the text.
	ErrGlyphNotFound = errors.New("backend: glyph not found")

	// ErrInvalidSize is returned for non-positive target sizes.
	ErrInvalidSize = errors.New("backend: invalid size")

	// ErrPanic wraps a panic raised by a decoder or rasterizer on
	// malformed input.
	ErrPanic = errors.New("backend: panic")
)

// Recover stores a panic of the calling function in *err as ErrPanic.
// It must be deferred directly:
//
//	defer backend.Recover(&err)
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrPanic, r)
	}
}

// Style selects how font glyphs are painted.
type Style int

const (
	// StyleColor uses the font's color tables when it has them.
	StyleColor Style = iota

	// StyleMonochrome paints every glyph solid black.
	StyleMonochrome
)

func (s Style) String() string {
	if s == StyleMonochrome {
		return "monochrome"
	}
	return "color"
}

// Font is a font file loaded into memory. Backends cache parsed fonts by
// Path, so two Fonts with the same Path must hold the same Data.
type Font struct {
	Path string
	Data []byte
}

// Backend rasterizes icons into square, transparent canvases.
//
// Every method returns a size x size image with the content scaled to fit
// and centered. Implementations need not be safe for concurrent use.
type Backend interface {
	// Name returns the backend identifier (e.g., "vector", "basic").
	Name() string

	// Available reports whether the backend can run.
	Available() bool

	// RasterizeImage decodes an encoded raster image.
	RasterizeImage(data []byte, size int) (*image.NRGBA, error)

	// RasterizeSVG renders an SVG document.
	RasterizeSVG(data []byte, size int) (*image.NRGBA, error)

	// RasterizeText renders text with the given font. A nil font selects
	// the backend's fallback font.
	RasterizeText(font *Font, text string, size int, style Style) (*image.NRGBA, error)
}

// CheckSize validates a target size.
func CheckSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}
