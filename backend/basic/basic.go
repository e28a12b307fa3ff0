// Package basic is the built-in fallback rendering backend.
//
// It relies only on the standard image decoders, golang.org/x/image and
// the module's own SVG subset renderer, so it renders something for every
// input the vector backend rejects. Text is drawn with plain outline fonts;
// when neither the requested font nor a system emoji font covers the text,
// the Go Regular font is used.
package basic

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"

	// Decoders registered for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/purrmoji/backend"
	"github.com/gogpu/purrmoji/internal/bitmap"
	"github.com/gogpu/purrmoji/internal/logx"
	"github.com/gogpu/purrmoji/internal/svg"
)

// Name is the registry name of this backend.
const Name = "basic"

// DefaultFallbackFonts are the system emoji fonts tried when the requested
// font does not cover the text.
var DefaultFallbackFonts = []string{
	"/usr/share/fonts/truetype/noto/NotoColorEmoji.ttf",
	"/usr/share/fonts/noto/NotoColorEmoji.ttf",
	"/usr/share/fonts/google-noto-emoji/NotoColorEmoji.ttf",
	"/System/Library/Fonts/Apple Color Emoji.ttc",
	`C:\Windows\Fonts\seguiemj.ttf`,
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.log = logx.OrNop(l) }
}

// WithFs sets the filesystem fallback fonts are read from.
func WithFs(fs afero.Fs) Option {
	return func(b *Backend) { b.fs = fs }
}

// WithFallbackFonts replaces DefaultFallbackFonts.
func WithFallbackFonts(paths ...string) Option {
	return func(b *Backend) { b.fallbackPaths = paths }
}

// Backend implements backend.Backend.
type Backend struct {
	log           *slog.Logger
	fs            afero.Fs
	fallbackPaths []string

	fallbacks []*backend.Font // loaded on first text render
	loaded    bool
	faces     map[string]*face
}

var _ backend.Backend = (*Backend)(nil)

// New creates a basic backend reading fallback fonts from the OS
// filesystem.
func New(opts ...Option) *Backend {
	b := &Backend{
		log:           logx.Nop(),
		fs:            afero.NewOsFs(),
		fallbackPaths: DefaultFallbackFonts,
		faces:         make(map[string]*face),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return Name }

// Available implements backend.Backend.
func (b *Backend) Available() bool { return true }

// RasterizeImage decodes PNG, JPEG, GIF, BMP or WebP data and fits it into
// a size x size canvas with bilinear scaling.
func (b *Backend) RasterizeImage(data []byte, size int) (_ *image.NRGBA, err error) {
	defer backend.Recover(&err)
	if err := backend.CheckSize(size); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("basic: decode image: %w", err)
	}
	return scaleInto(img, size, size), nil
}

// scaleInto fits src into box x box and centers it on a size x size
// canvas.
func scaleInto(src image.Image, box, size int) *image.NRGBA {
	dst := bitmap.Canvas(size)
	sb := src.Bounds()
	w, h := bitmap.FitSize(sb.Dx(), sb.Dy(), box)
	if w == 0 || h == 0 {
		return dst
	}
	x := (size - w) / 2
	y := (size - h) / 2
	xdraw.BiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), src, sb, xdraw.Over, nil)
	return dst
}

// RasterizeSVG renders the supported SVG subset.
func (b *Backend) RasterizeSVG(data []byte, size int) (_ *image.NRGBA, err error) {
	defer backend.Recover(&err)
	if err := backend.CheckSize(size); err != nil {
		return nil, err
	}
	img, err := svg.Rasterize(data, size)
	if err != nil {
		return nil, fmt.Errorf("basic: %w", err)
	}
	return img, nil
}
