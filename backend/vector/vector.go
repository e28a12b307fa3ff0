// Package vector is the high quality rendering backend.
//
// Raster images are resampled with a Lanczos filter, SVG documents are
// rendered by oksvg, and font glyphs are shaped with HarfBuzz so that ZWJ
// sequences, flags and keycaps resolve to their ligature glyph. Color
// fonts are painted from their COLR layers or CBDT bitmaps.
package vector

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	// Decoders registered for imaging.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/purrmoji/backend"
	"github.com/gogpu/purrmoji/internal/bitmap"
	"github.com/gogpu/purrmoji/internal/logx"
)

// Name is the registry name of this backend.
const Name = "vector"

// glyphFill is the share of the canvas a font glyph run may cover.
const glyphFill = 0.9

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.log = logx.OrNop(l) }
}

// Backend implements backend.Backend.
type Backend struct {
	log   *slog.Logger
	faces map[string]*face
}

var _ backend.Backend = (*Backend)(nil)

// New creates a vector backend.
func New(opts ...Option) *Backend {
	b := &Backend{log: logx.Nop(), faces: make(map[string]*face)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return Name }

// Available implements backend.Backend. The backend is pure Go and always
// available.
func (b *Backend) Available() bool { return true }

// RasterizeImage decodes PNG, JPEG, GIF or WebP data and fits it into a
// size x size canvas with Lanczos resampling.
func (b *Backend) RasterizeImage(data []byte, size int) (_ *image.NRGBA, err error) {
	defer backend.Recover(&err)
	if err := backend.CheckSize(size); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vector: decode image: %w", err)
	}
	return fit(img, size, size), nil
}

// fit scales img to fit within box x box, preserving aspect ratio, and
// centers it on a transparent size x size canvas.
func fit(img image.Image, box, size int) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bitmap.FitSize(bounds.Dx(), bounds.Dy(), box)
	canvas := imaging.New(size, size, color.Transparent)
	if w == 0 || h == 0 {
		return canvas
	}
	var scaled *image.NRGBA
	if w == bounds.Dx() && h == bounds.Dy() {
		scaled = imaging.Clone(img)
	} else {
		scaled = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	return imaging.PasteCenter(canvas, scaled)
}

// RasterizeSVG renders an SVG document, fit and centered.
func (b *Backend) RasterizeSVG(data []byte, size int) (_ *image.NRGBA, err error) {
	defer backend.Recover(&err)
	if err := backend.CheckSize(size); err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("vector: parse svg: %w", err)
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = float64(size), float64(size)
	}
	// Fit in float space so thin documents are not rounded away.
	s := min(float64(size)/vw, float64(size)/vh)
	tw, th := vw*s, vh*s
	icon.SetTarget((float64(size)-tw)/2, (float64(size)-th)/2, tw, th)

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return bitmap.ToNRGBA(rgba), nil
}
