// Package svg renders the subset of SVG used by emoji artwork.
//
// Supported: the svg viewport (viewBox, width, height), g, path, rect,
// circle, ellipse, polygon, polyline, fill, fill-opacity, opacity, style
// fill declarations and transform. Gradients are flattened to the average
// of their stops. Strokes, clipping, masks, filters and text are ignored.
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrNotSVG indicates the document has no svg root element.
var ErrNotSVG = errors.New("svg: not an svg document")

type box struct{ x, y, w, h float64 }

type shape struct {
	path  *path
	m     matrix
	fill  paint
	alpha float64
}

// Document is a parsed SVG ready to be rasterized at any size.
type Document struct {
	viewBox box
	shapes  []shape
}

// Size returns the width and height of the view box.
func (d *Document) Size() (float64, float64) { return d.viewBox.w, d.viewBox.h }

// Len returns the number of filled shapes.
func (d *Document) Len() int { return len(d.shapes) }

// state is the inherited presentation state of an element.
type state struct {
	m           matrix
	fill        paint
	fillOpacity float64
	opacity     float64
	skip        bool
}

type gradient struct {
	stops []color.NRGBA
	href  string
}

// containers whose children are never painted directly.
var nonRendering = map[string]bool{
	"defs": true, "clipPath": true, "mask": true, "symbol": true,
	"pattern": true, "marker": true, "filter": true, "style": true,
	"title": true, "desc": true, "metadata": true, "text": true,
	"linearGradient": true, "radialGradient": true,
}

type parser struct {
	doc       *Document
	stack     []state
	gradients map[string]*gradient
	current   *gradient
	root      bool
}

// Parse reads an SVG document.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(label string, in io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("svg: charset %q: %w", label, err)
		}
		return enc.NewDecoder().Reader(in), nil
	}

	p := &parser{
		doc:       &Document{},
		gradients: make(map[string]*gradient),
		stack:     []state{{m: identity(), fill: black, fillOpacity: 1, opacity: 1}},
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if !p.root {
				return nil, fmt.Errorf("svg: %w", err)
			}
			// Keep what was read before the syntax error.
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !p.root && t.Name.Local != "svg" {
				return nil, ErrNotSVG
			}
			p.start(t)
		case xml.EndElement:
			p.end(t)
		}
	}
	if !p.root {
		return nil, ErrNotSVG
	}
	p.resolveGradients()
	return p.doc, nil
}

// Rasterize parses data and renders it into a size x size canvas.
func Rasterize(data []byte, size int) (*image.NRGBA, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Render(size), nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

func (p *parser) start(t xml.StartElement) {
	name := t.Name.Local
	attrs := attrMap(t.Attr)
	st := p.stack[len(p.stack)-1]
	p.applyPresentation(&st, attrs)

	if nonRendering[name] {
		st.skip = true
	}
	p.stack = append(p.stack, st)

	switch name {
	case "svg":
		if !p.root {
			p.root = true
			p.doc.viewBox = viewport(attrs)
		}
	case "linearGradient", "radialGradient":
		g := &gradient{href: strings.TrimPrefix(attrs["href"], "#")}
		if id := attrs["id"]; id != "" {
			p.gradients[id] = g
		}
		p.current = g
	case "stop":
		if p.current != nil {
			p.current.stops = append(p.current.stops, stopColor(attrs))
		}
	default:
		if st.skip {
			return
		}
		if pth := buildShape(name, attrs); pth != nil && !pth.empty() {
			p.doc.shapes = append(p.doc.shapes, shape{
				path:  pth,
				m:     st.m,
				fill:  st.fill,
				alpha: clamp01(st.fillOpacity * st.opacity),
			})
		}
	}
}

func (p *parser) end(t xml.EndElement) {
	if len(p.stack) > 1 {
		p.stack = p.stack[:len(p.stack)-1]
	}
	if t.Name.Local == "linearGradient" || t.Name.Local == "radialGradient" {
		p.current = nil
	}
}

// applyPresentation folds attributes and style declarations into st.
// Style declarations take precedence over attributes.
func (p *parser) applyPresentation(st *state, attrs map[string]string) {
	props := map[string]string{}
	for _, k := range []string{"fill", "fill-opacity", "opacity", "display", "visibility"} {
		if v, ok := attrs[k]; ok {
			props[k] = v
		}
	}
	if s, ok := attrs["style"]; ok {
		for k, v := range parseStyle(s) {
			props[k] = v
		}
	}

	if tr, ok := attrs["transform"]; ok {
		st.m = st.m.mul(parseTransform(tr))
	}
	if v, ok := props["fill"]; ok {
		if f, ok := parsePaint(v); ok {
			st.fill = f
		}
	}
	if v, ok := props["fill-opacity"]; ok {
		st.fillOpacity = clamp01(parseAlpha(v))
	}
	if v, ok := props["opacity"]; ok {
		st.opacity *= clamp01(parseAlpha(v))
	}
	if props["display"] == "none" || props["visibility"] == "hidden" {
		st.skip = true
	}
}

func (p *parser) resolveGradients() {
	for i := range p.doc.shapes {
		f := &p.doc.shapes[i].fill
		if f.ref == "" {
			continue
		}
		if c, ok := p.gradientColor(f.ref, 0); ok {
			f.color = c
		}
	}
}

// gradientColor follows href chains, bounded against cycles.
func (p *parser) gradientColor(id string, depth int) (color.NRGBA, bool) {
	g, ok := p.gradients[id]
	if !ok || depth > 8 {
		return color.NRGBA{}, false
	}
	if len(g.stops) == 0 && g.href != "" {
		return p.gradientColor(g.href, depth+1)
	}
	return averageColor(g.stops), true
}

func stopColor(attrs map[string]string) color.NRGBA {
	props := map[string]string{
		"stop-color":   attrs["stop-color"],
		"stop-opacity": attrs["stop-opacity"],
	}
	for k, v := range parseStyle(attrs["style"]) {
		props[k] = v
	}
	c, ok := parseColor(props["stop-color"])
	if !ok {
		c = black.color
	}
	if v := props["stop-opacity"]; v != "" {
		c.A = uint8(float64(c.A) * clamp01(parseAlpha(v)))
	}
	return c
}

// viewport reads the root view box, falling back to width and height.
func viewport(attrs map[string]string) box {
	if vb := parseNumbers(attrs["viewBox"]); len(vb) == 4 && vb[2] > 0 && vb[3] > 0 {
		return box{vb[0], vb[1], vb[2], vb[3]}
	}
	w, okW := parseLength(attrs["width"])
	h, okH := parseLength(attrs["height"])
	switch {
	case okW && okH:
		return box{w: w, h: h}
	case okW:
		return box{w: w, h: w}
	case okH:
		return box{w: h, h: h}
	}
	return box{w: 100, h: 100}
}

// parseLength parses an absolute length. Percentages are rejected.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	s = strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz")
	v, err := parseFloat(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func num(attrs map[string]string, key string) float64 {
	v, _ := parseFloat(strings.TrimSuffix(strings.TrimSpace(attrs[key]), "px"))
	return v
}

// buildShape converts a basic shape element into a path.
func buildShape(name string, attrs map[string]string) *path {
	switch name {
	case "path":
		// Draw what parsed before any error.
		pth, _ := parsePathData(attrs["d"])
		return pth
	case "rect":
		w, h := num(attrs, "width"), num(attrs, "height")
		if w <= 0 || h <= 0 {
			return nil
		}
		pth := &path{}
		pth.rect(num(attrs, "x"), num(attrs, "y"), w, h, num(attrs, "rx"), num(attrs, "ry"))
		return pth
	case "circle":
		r := num(attrs, "r")
		if r <= 0 {
			return nil
		}
		pth := &path{}
		pth.ellipse(num(attrs, "cx"), num(attrs, "cy"), r, r)
		return pth
	case "ellipse":
		rx, ry := num(attrs, "rx"), num(attrs, "ry")
		if rx <= 0 || ry <= 0 {
			return nil
		}
		pth := &path{}
		pth.ellipse(num(attrs, "cx"), num(attrs, "cy"), rx, ry)
		return pth
	case "polygon", "polyline":
		pts := parseNumbers(attrs["points"])
		if len(pts) < 4 {
			return nil
		}
		pth := &path{}
		pth.moveTo(pts[0], pts[1])
		for i := 2; i+1 < len(pts); i += 2 {
			pth.lineTo(pts[i], pts[i+1])
		}
		// Fills close polylines implicitly too.
		pth.close()
		return pth
	}
	return nil
}

// Render rasterizes the document into a transparent size x size canvas,
// scaled to fit and centered.
func (d *Document) Render(size int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	vb := d.viewBox
	if size <= 0 || vb.w <= 0 || vb.h <= 0 {
		return out
	}

	s := math.Min(float64(size)/vb.w, float64(size)/vb.h)
	ox := (float64(size) - vb.w*s) / 2
	oy := (float64(size) - vb.h*s) / 2
	base := translate(ox, oy).mul(scale(s, s)).mul(translate(-vb.x, -vb.y))

	canvas := image.NewRGBA(out.Rect)
	z := vector.NewRasterizer(size, size)
	for _, sh := range d.shapes {
		if sh.fill.none || sh.alpha <= 0 {
			continue
		}
		m := base.mul(sh.m)
		if !drawable(sh.path, m, size) {
			continue
		}
		z.Reset(size, size)
		fillPath(z, sh.path, m)
		c := sh.fill.color
		c.A = uint8(float64(c.A)*sh.alpha + 0.5)
		z.Draw(canvas, canvas.Bounds(), image.NewUniform(c), image.Point{})
	}
	draw.Draw(out, out.Rect, canvas, image.Point{}, draw.Src)
	return out
}

// maxCoord bounds device coordinates, in canvas sizes, handed to the
// rasterizer. Huge or non-finite values overflow its fixed point math.
const maxCoord = 1 << 10

// drawable reports whether every point of p, mapped by m, stays within
// maxCoord canvases of the origin.
func drawable(p *path, m matrix, size int) bool {
	limit := float64(size) * maxCoord
	for _, s := range p.segs {
		for _, q := range s.pts {
			r := m.apply(q)
			if !(math.Abs(r.x) <= limit && math.Abs(r.y) <= limit) {
				return false
			}
		}
	}
	return true
}

// fillPath feeds a path to the rasterizer, closing every subpath.
func fillPath(z *vector.Rasterizer, p *path, m matrix) {
	pt := func(q point) (float32, float32) {
		r := m.apply(q)
		return float32(r.x), float32(r.y)
	}
	open := false
	for _, s := range p.segs {
		switch s.op {
		case opMove:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(s.pts[0]))
			open = true
		case opLine:
			z.LineTo(pt(s.pts[0]))
			open = true
		case opQuad:
			x1, y1 := pt(s.pts[0])
			x2, y2 := pt(s.pts[1])
			z.QuadTo(x1, y1, x2, y2)
			open = true
		case opCubic:
			x1, y1 := pt(s.pts[0])
			x2, y2 := pt(s.pts[1])
			x3, y3 := pt(s.pts[2])
			z.CubeTo(x1, y1, x2, y2, x3, y3)
			open = true
		case opClose:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}
}
