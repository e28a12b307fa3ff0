package basic

import (
	"fmt"
	"image"
	"image/color"

	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/purrmoji/backend"
	"github.com/gogpu/purrmoji/emoji"
	"github.com/gogpu/purrmoji/internal/bitmap"
	"github.com/gogpu/purrmoji/internal/sfnt"
)

const (
	// textPoints is the point size per pixel of canvas, at textDPI.
	textPoints = 0.5
	textDPI    = 96

	// bitmapFill is the share of the canvas a color bitmap glyph covers.
	bitmapFill = 0.9
)

// goRegular is the last font tried.
var goRegular = &backend.Font{Path: "gofont/goregular", Data: goregular.TTF}

// face is a parsed font. Either view may be nil.
type face struct {
	outline *opentype.Font
	tables  *sfnt.Font
}

func (b *Backend) face(f *backend.Font) *face {
	if fc, ok := b.faces[f.Path]; ok {
		return fc
	}
	fc := &face{}
	if o, err := opentype.Parse(f.Data); err == nil {
		fc.outline = o
	}
	if t, err := sfnt.Parse(f.Data); err == nil {
		fc.tables = t
	}
	if fc.outline == nil && fc.tables == nil {
		b.log.Debug("basic: unreadable font", "path", f.Path)
	}
	b.faces[f.Path] = fc
	return fc
}

func (b *Backend) loadFallbacks() []*backend.Font {
	if b.loaded {
		return b.fallbacks
	}
	b.loaded = true
	for _, p := range b.fallbackPaths {
		data, err := afero.ReadFile(b.fs, p)
		if err != nil {
			continue
		}
		b.log.Debug("basic: fallback font", "path", p)
		b.fallbacks = append(b.fallbacks, &backend.Font{Path: p, Data: data})
	}
	return b.fallbacks
}

// RasterizeText draws text with the first font that covers it: font, then
// the system fallbacks, then Go Regular. Color bitmap fonts render their
// CBDT glyph for the first code point.
func (b *Backend) RasterizeText(f *backend.Font, text string, size int, style backend.Style) (_ *image.NRGBA, err error) {
	defer backend.Recover(&err)
	if err := backend.CheckSize(size); err != nil {
		return nil, err
	}
	runes := visibleRunes(text)
	if len(runes) == 0 {
		return nil, fmt.Errorf("basic: %q: %w", text, backend.ErrGlyphNotFound)
	}

	var fonts []*backend.Font
	if f != nil && len(f.Data) > 0 {
		fonts = append(fonts, f)
	}
	fonts = append(fonts, b.loadFallbacks()...)
	fonts = append(fonts, goRegular)

	for _, cand := range fonts {
		if img := b.render(cand, runes, size, style); img != nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("basic: %q: %w", text, backend.ErrGlyphNotFound)
}

// render draws runes with one font. A font that panics the parser counts
// as not covering them, so the next candidate is tried.
func (b *Backend) render(f *backend.Font, runes []rune, size int, style backend.Style) (img *image.NRGBA) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Debug("basic: font panicked", "path", f.Path, "panic", r)
			img = nil
		}
	}()
	fc := b.face(f)
	if img := fc.colorBitmap(runes[0], size, style); img != nil {
		return img
	}
	return fc.draw(runes, size)
}

func visibleRunes(text string) []rune {
	var out []rune
	for _, r := range text {
		if emoji.IsZWJ(r) || emoji.IsVariationSelector(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// colorBitmap renders r from the font's CBDT table. Monochrome style keeps
// the coverage and paints it black.
func (fc *face) colorBitmap(r rune, size int, style backend.Style) *image.NRGBA {
	if fc.tables == nil || !fc.tables.HasColorBitmaps() {
		return nil
	}
	gid, ok := fc.tables.GlyphIndex(r)
	if !ok {
		return nil
	}
	cbdt, err := fc.tables.CBDT()
	if err != nil {
		return nil
	}
	bm, err := cbdt.Glyph(gid, size)
	if err != nil {
		return nil
	}
	src, err := bm.Decode()
	if err != nil {
		return nil
	}
	img := scaleInto(src, int(float64(size)*bitmapFill), size)
	if style == backend.StyleMonochrome {
		bitmap.Fill(img, color.NRGBA{A: 0xff})
	}
	return img
}

// draw renders the runes the outline font covers, centered. Returns nil
// when it covers none of them.
func (fc *face) draw(runes []rune, size int) *image.NRGBA {
	if fc.outline == nil {
		return nil
	}
	var buf xsfnt.Buffer
	covered := make([]rune, 0, len(runes))
	for _, r := range runes {
		if gid, err := fc.outline.GlyphIndex(&buf, r); err == nil && gid != 0 {
			covered = append(covered, r)
		}
	}
	if len(covered) == 0 {
		return nil
	}

	ff, err := opentype.NewFace(fc.outline, &opentype.FaceOptions{
		Size:    float64(size) * textPoints,
		DPI:     textDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	defer ff.Close()

	s := string(covered)
	bounds, _ := font.BoundString(ff, s)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: ff,
		Dot: fixed.Point26_6{
			X: fixed.I((size-w)/2) - bounds.Min.X,
			Y: fixed.I((size-h)/2) - bounds.Min.Y,
		},
	}
	d.DrawString(s)
	return bitmap.ToNRGBA(dst)
}
