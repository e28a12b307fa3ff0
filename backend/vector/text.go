package vector

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	xvector "golang.org/x/image/vector"

	"github.com/gogpu/purrmoji/backend"
	"github.com/gogpu/purrmoji/emoji"
	"github.com/gogpu/purrmoji/internal/bitmap"
	"github.com/gogpu/purrmoji/internal/sfnt"
)

// face holds every view of one font file the backend needs. Any of the
// optional parsers may be nil when the font lacks the tables.
type face struct {
	tables   *sfnt.Font
	outlines *xsfnt.Font
	shaper   *gotext.Font
	colr     *sfnt.COLRParser
	cbdt     *sfnt.CBDTExtractor
}

func (b *Backend) face(f *backend.Font) (*face, error) {
	if fc, ok := b.faces[f.Path]; ok {
		return fc, nil
	}
	tables, err := sfnt.Parse(f.Data)
	if err != nil {
		return nil, fmt.Errorf("vector: %w", err)
	}
	fc := &face{tables: tables}
	if tables.HasOutlines() {
		if o, err := xsfnt.Parse(f.Data); err == nil {
			fc.outlines = o
		} else {
			b.log.Debug("vector: outline parser rejected font", "path", f.Path, "err", err)
		}
	}
	if sf, err := parseShaper(f.Data); err == nil {
		fc.shaper = sf
	} else {
		b.log.Debug("vector: shaper rejected font", "path", f.Path, "err", err)
	}
	if tables.HasColorLayers() {
		if p, err := tables.COLR(); err == nil {
			fc.colr = p
		}
	}
	if tables.HasColorBitmaps() {
		if e, err := tables.CBDT(); err == nil {
			fc.cbdt = e
		}
	}
	if fc.outlines == nil && fc.colr == nil && fc.cbdt == nil {
		return nil, fmt.Errorf("vector: %s: %w", f.Path, backend.ErrUnsupported)
	}
	b.faces[f.Path] = fc
	return fc, nil
}

// parseShaper loads the font for HarfBuzz. go-text indexes tables without
// checking every offset, so a corrupt file can panic instead of failing.
func parseShaper(data []byte) (_ *gotext.Font, err error) {
	defer backend.Recover(&err)
	f, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return f.Font, nil
}

// placedGlyph is a glyph ID at a pen position, in pixels, y down from the
// baseline.
type placedGlyph struct {
	id   uint16
	x, y float64
}

// shape runs HarfBuzz over text. Without a shaper, each visible code point
// is mapped through cmap and advanced by one em.
func (fc *face) shape(text string, ppem int) []placedGlyph {
	runes := []rune(text)
	if fc.shaper != nil {
		input := shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: di.DirectionLTR,
			Face:      gotext.NewFace(fc.shaper),
			Size:      fixed.Int26_6(ppem * 64),
			Script:    scriptOf(runes),
			Language:  language.NewLanguage("en"),
		}
		out := (&shaping.HarfbuzzShaper{}).Shape(input)
		glyphs := make([]placedGlyph, 0, len(out.Glyphs))
		x := 0.0
		for _, g := range out.Glyphs {
			glyphs = append(glyphs, placedGlyph{
				id: uint16(g.GlyphID),
				x:  x + fixedToFloat(g.XOffset),
				y:  -fixedToFloat(g.YOffset),
			})
			x += fixedToFloat(g.Advance)
		}
		return glyphs
	}

	var glyphs []placedGlyph
	x := 0.0
	for _, r := range runes {
		if r == emoji.ZWJ || emoji.IsVariationSelector(r) {
			continue
		}
		gid, _ := fc.tables.GlyphIndex(r)
		glyphs = append(glyphs, placedGlyph{id: gid, x: x})
		x += float64(ppem)
	}
	return glyphs
}

func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		s := language.LookupScript(r)
		if s != language.Common && s != language.Inherited {
			return s
		}
	}
	return language.Common
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// sprite is a painted glyph with its top-left corner relative to the pen
// origin.
type sprite struct {
	img  *image.NRGBA
	x, y int
}

// RasterizeText shapes text with the font and paints the glyph run. Color
// style uses COLR layers, then CBDT bitmaps, then outlines; monochrome
// style paints the same coverage solid black.
func (b *Backend) RasterizeText(font *backend.Font, text string, size int, style backend.Style) (_ *image.NRGBA, err error) {
	defer backend.Recover(&err)
	if err := backend.CheckSize(size); err != nil {
		return nil, err
	}
	if font == nil || len(font.Data) == 0 {
		return nil, fmt.Errorf("vector: no font: %w", backend.ErrUnsupported)
	}
	fc, err := b.face(font)
	if err != nil {
		return nil, err
	}

	ppem := size
	var sprites []sprite
	for _, g := range fc.shape(text, ppem) {
		if g.id == 0 {
			continue
		}
		s, err := fc.paint(g.id, ppem, style)
		if err != nil {
			b.log.Debug("vector: glyph paint failed", "glyph", g.id, "err", err)
			continue
		}
		if s == nil {
			continue
		}
		s.x += int(math.Round(g.x))
		s.y += int(math.Round(g.y))
		sprites = append(sprites, *s)
	}
	if len(sprites) == 0 {
		return nil, fmt.Errorf("vector: %q: %w", text, backend.ErrGlyphNotFound)
	}

	run := compose(sprites)
	return fit(run, int(float64(size)*glyphFill), size), nil
}

// paint renders one glyph. A nil sprite means the glyph has no ink, such as
// a space or a joiner.
func (fc *face) paint(gid uint16, ppem int, style backend.Style) (*sprite, error) {
	mono := style == backend.StyleMonochrome
	black := color.NRGBA{A: 0xff}

	if !mono && fc.colr != nil && fc.colr.HasGlyph(gid) {
		return fc.paintLayers(gid, ppem, false)
	}
	if !mono && fc.cbdt != nil {
		if s, err := fc.paintBitmap(gid, ppem); err == nil {
			return s, nil
		}
	}
	if fc.outlines != nil {
		s, err := fc.paintOutline(gid, ppem, black)
		if err == nil && s != nil {
			return s, nil
		}
	}
	// Monochrome fallbacks for fonts whose base glyphs carry no outline.
	if fc.colr != nil && fc.colr.HasGlyph(gid) {
		return fc.paintLayers(gid, ppem, true)
	}
	if fc.cbdt != nil {
		s, err := fc.paintBitmap(gid, ppem)
		if err != nil {
			return nil, err
		}
		bitmap.Fill(s.img, black)
		return s, nil
	}
	return nil, nil
}

type coloredOutline struct {
	segs []xsfnt.Segment
	c    color.NRGBA
}

func (fc *face) loadOutline(gid uint16, ppem int) ([]xsfnt.Segment, error) {
	if fc.outlines == nil {
		return nil, backend.ErrUnsupported
	}
	var buf xsfnt.Buffer
	segs, err := fc.outlines.LoadGlyph(&buf, xsfnt.GlyphIndex(gid), fixed.Int26_6(ppem*64), nil)
	if err != nil {
		return nil, err
	}
	// LoadGlyph reuses buf for the result.
	return append([]xsfnt.Segment(nil), segs...), nil
}

func (fc *face) paintOutline(gid uint16, ppem int, c color.NRGBA) (*sprite, error) {
	segs, err := fc.loadOutline(gid, ppem)
	if err != nil {
		return nil, err
	}
	return fillOutlines([]coloredOutline{{segs: segs, c: c}}), nil
}

func (fc *face) paintLayers(gid uint16, ppem int, mono bool) (*sprite, error) {
	layers, err := fc.colr.Layers(gid, 0)
	if err != nil {
		return nil, err
	}
	var outs []coloredOutline
	for _, l := range layers {
		segs, err := fc.loadOutline(l.GlyphID, ppem)
		if err != nil {
			return nil, err
		}
		c := l.Color
		if mono || l.Foreground {
			c = color.NRGBA{A: 0xff}
		}
		outs = append(outs, coloredOutline{segs: segs, c: c})
	}
	return fillOutlines(outs), nil
}

// fillOutlines rasterizes outlines in order onto one canvas covering their
// union. Returns nil when nothing has area.
func fillOutlines(outs []coloredOutline) *sprite {
	var bounds image.Rectangle
	for _, o := range outs {
		bounds = bounds.Union(segmentBounds(o.segs))
	}
	if bounds.Empty() {
		return nil
	}

	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	for _, o := range outs {
		if len(o.segs) == 0 {
			continue
		}
		z := xvector.NewRasterizer(w, h)
		for _, seg := range o.segs {
			p := func(i int) (float32, float32) {
				return float32(seg.Args[i].X)/64 - ox, float32(seg.Args[i].Y)/64 - oy
			}
			switch seg.Op {
			case xsfnt.SegmentOpMoveTo:
				z.MoveTo(p(0))
			case xsfnt.SegmentOpLineTo:
				z.LineTo(p(0))
			case xsfnt.SegmentOpQuadTo:
				x0, y0 := p(0)
				x1, y1 := p(1)
				z.QuadTo(x0, y0, x1, y1)
			case xsfnt.SegmentOpCubeTo:
				x0, y0 := p(0)
				x1, y1 := p(1)
				x2, y2 := p(2)
				z.CubeTo(x0, y0, x1, y1, x2, y2)
			}
		}
		z.ClosePath()
		z.Draw(dst, dst.Bounds(), image.NewUniform(o.c), image.Point{})
	}
	return &sprite{img: bitmap.ToNRGBA(dst), x: bounds.Min.X, y: bounds.Min.Y}
}

func segmentBounds(segs []xsfnt.Segment) image.Rectangle {
	if len(segs) == 0 {
		return image.Rectangle{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, seg := range segs {
		n := 1
		switch seg.Op {
		case xsfnt.SegmentOpQuadTo:
			n = 2
		case xsfnt.SegmentOpCubeTo:
			n = 3
		}
		for _, a := range seg.Args[:n] {
			x, y := float64(a.X)/64, float64(a.Y)/64
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

// paintBitmap scales the best CBDT strike to ppem.
func (fc *face) paintBitmap(gid uint16, ppem int) (*sprite, error) {
	bm, err := fc.cbdt.Glyph(gid, ppem)
	if err != nil {
		return nil, err
	}
	src, err := bm.Decode()
	if err != nil {
		return nil, err
	}
	scale := 1.0
	if bm.PPEM > 0 {
		scale = float64(ppem) / float64(bm.PPEM)
	}
	sb := src.Bounds()
	w := max(1, int(math.Round(float64(sb.Dx())*scale)))
	h := max(1, int(math.Round(float64(sb.Dy())*scale)))
	var img *image.NRGBA
	if w == sb.Dx() && h == sb.Dy() {
		img = imaging.Clone(src)
	} else {
		img = imaging.Resize(src, w, h, imaging.Lanczos)
	}
	if bitmap.Empty(img) {
		return nil, errors.New("vector: empty bitmap glyph")
	}
	return &sprite{
		img: img,
		x:   int(math.Round(float64(bm.BearingX) * scale)),
		y:   -int(math.Round(float64(bm.BearingY) * scale)),
	}, nil
}

// compose draws sprites onto one image covering their union.
func compose(sprites []sprite) *image.NRGBA {
	var bounds image.Rectangle
	for _, s := range sprites {
		b := s.img.Bounds()
		bounds = bounds.Union(image.Rect(s.x, s.y, s.x+b.Dx(), s.y+b.Dy()))
	}
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for _, s := range sprites {
		at := image.Pt(s.x-bounds.Min.X, s.y-bounds.Min.Y)
		draw.Draw(dst, s.img.Bounds().Add(at), s.img, s.img.Bounds().Min, draw.Over)
	}
	return dst
}
