package svg

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func nrgbaAt(t *testing.T, doc *Document, size, x, y int) color.NRGBA {
	t.Helper()
	return doc.Render(size).NRGBAAt(x, y)
}

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestParseRejectsNonSVG(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"html", "<html><body/></html>"},
		{"text", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, ErrNotSVG) {
				t.Errorf("Parse(%q) error = %v, want ErrNotSVG", tt.src, err)
			}
		})
	}
}

func TestViewport(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		wantW float64
		wantH float64
	}{
		{"viewBox", `<svg viewBox="0 0 72 36"/>`, 72, 36},
		{"width and height", `<svg width="64px" height="32"/>`, 64, 32},
		{"width only", `<svg width="20"/>`, 20, 20},
		{"percent ignored", `<svg width="100%" height="100%"/>`, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := mustParse(t, tt.src).Size()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Size() = (%v, %v), want (%v, %v)", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderRect(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
		<rect x="0" y="0" width="10" height="5" fill="#ff0000"/>
	</svg>`)
	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	img := doc.Render(20)
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 20 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.NRGBAAt(10, 4); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("top half = %v, want red", got)
	}
	if got := img.NRGBAAt(10, 15); got.A != 0 {
		t.Errorf("bottom half = %v, want transparent", got)
	}
}

func TestRenderKeepsAspectCentered(t *testing.T) {
	// A wide document is letterboxed vertically.
	doc := mustParse(t, `<svg viewBox="0 0 20 10"><rect width="20" height="10" fill="blue"/></svg>`)
	img := doc.Render(20)
	if got := img.NRGBAAt(10, 2); got.A != 0 {
		t.Errorf("letterbox = %v, want transparent", got)
	}
	if got := img.NRGBAAt(10, 10); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("center = %v, want blue", got)
	}
}

func TestRenderShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		x, y int
		want color.NRGBA
	}{
		{"circle center", `<circle cx="5" cy="5" r="4" fill="#0f0"/>`, 10, 10, color.NRGBA{G: 255, A: 255}},
		{"circle outside", `<circle cx="5" cy="5" r="2" fill="#0f0"/>`, 1, 1, color.NRGBA{}},
		{"ellipse", `<ellipse cx="5" cy="5" rx="5" ry="2" fill="black"/>`, 2, 10, color.NRGBA{A: 255}},
		{"polygon", `<polygon points="0,0 10,0 10,10 0,10" fill="white"/>`, 3, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"path absolute", `<path d="M0 0 H10 V10 H0 Z" fill="#000"/>`, 10, 10, color.NRGBA{A: 255}},
		{"path relative", `<path d="m0 0 h10 v10 h-10 z" fill="#000"/>`, 18, 18, color.NRGBA{A: 255}},
		{"path arc", `<path d="M0 5 A5 5 0 0 1 10 5 A5 5 0 0 1 0 5Z" fill="#000"/>`, 10, 10, color.NRGBA{A: 255}},
		{"default fill is black", `<rect width="10" height="10"/>`, 10, 10, color.NRGBA{A: 255}},
		{"fill none", `<rect width="10" height="10" fill="none"/>`, 10, 10, color.NRGBA{}},
		{"style fill", `<rect width="10" height="10" style="fill: rgb(0, 0, 255)"/>`, 10, 10, color.NRGBA{B: 255, A: 255}},
		{"group inherits", `<g fill="red"><rect width="10" height="10"/></g>`, 10, 10, color.NRGBA{R: 255, A: 255}},
		{"defs not painted", `<defs><rect width="10" height="10"/></defs>`, 10, 10, color.NRGBA{}},
		{"hidden", `<rect width="10" height="10" display="none"/>`, 10, 10, color.NRGBA{}},
		{"translate", `<rect width="5" height="5" fill="red" transform="translate(5 5)"/>`, 15, 15, color.NRGBA{R: 255, A: 255}},
		{"translate moves away", `<rect width="5" height="5" fill="red" transform="translate(5 5)"/>`, 4, 4, color.NRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `<svg viewBox="0 0 10 10">`+tt.body+`</svg>`)
			if got := nrgbaAt(t, doc, 20, tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestOpacity(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 10 10"><g opacity="0.5"><rect width="10" height="10" fill="#f00"/></g></svg>`)
	got := nrgbaAt(t, doc, 10, 5, 5)
	if got.R != 255 || got.A < 126 || got.A > 129 {
		t.Errorf("pixel = %v, want half-transparent red", got)
	}
}

func TestGradientFlattened(t *testing.T) {
	// The gradient is referenced before it is defined.
	doc := mustParse(t, `<svg viewBox="0 0 10 10">
		<rect width="10" height="10" fill="url(#g)"/>
		<defs>
			<linearGradient id="base"><stop offset="0" stop-color="#000"/><stop offset="1" style="stop-color:#fefefe"/></linearGradient>
			<linearGradient id="g" href="#base"/>
		</defs>
	</svg>`)
	got := nrgbaAt(t, doc, 10, 5, 5)
	want := color.NRGBA{R: 127, G: 127, B: 127, A: 255}
	if got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#abc", color.NRGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xFF}, true},
		{"#11223344", color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, true},
		{"#FFA500", color.NRGBA{R: 0xFF, G: 0xA5, A: 0xFF}, true},
		{"orange", color.NRGBA{R: 0xFF, G: 0xA5, A: 0xFF}, true},
		{"rgb(100%, 0%, 0%)", color.NRGBA{R: 255, A: 255}, true},
		{"rgba(0,0,0,0.5)", color.NRGBA{A: 127}, true},
		{"#12", color.NRGBA{}, false},
		{"bogus", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseColor(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseColor(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParsePathData(t *testing.T) {
	tests := []struct {
		name    string
		d       string
		segs    int
		end     point
		wantErr bool
	}{
		{"implicit lineto", "M1 1 2 2 3 3", 3, point{3, 3}, false},
		{"compact numbers", "M1.5.5l-1-.5", 2, point{0.5, 0}, false},
		{"exponent", "M1e1 0L0 2E-1", 2, point{0, 0.2}, false},
		{"smooth cubic", "M0 0C0 1 1 1 1 0S2 -1 2 0", 3, point{2, 0}, false},
		{"smooth quad", "M0 0Q1 1 2 0T4 0", 3, point{4, 0}, false},
		{"compact arc flags", "M0 0a1 1 0 012 0", 3, point{2, 0}, false},
		{"close returns to start", "M1 1L5 1L5 5Z", 4, point{1, 1}, false},
		{"no leading command", "1 1", 0, point{}, true},
		{"truncated", "M0 0L1", 1, point{}, true},
		{"number after close", "M0 0L1 1Z 5", 3, point{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parsePathData(tt.d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePathData(%q) error = %v, wantErr %v", tt.d, err, tt.wantErr)
			}
			if len(p.segs) != tt.segs {
				t.Errorf("segments = %d, want %d", len(p.segs), tt.segs)
			}
			if !tt.wantErr && (math.Abs(p.cur.x-tt.end.x) > 1e-9 || math.Abs(p.cur.y-tt.end.y) > 1e-9) {
				t.Errorf("current point = %v, want %v", p.cur, tt.end)
			}
		})
	}
}

func TestArcEndsAtTarget(t *testing.T) {
	p := &path{}
	p.moveTo(0, 0)
	p.arcTo(10, 5, 30, true, false, 7, 3)
	if p.cur != (point{7, 3}) {
		t.Errorf("cur = %v, want {7 3}", p.cur)
	}
	// Zero radius degenerates to a line.
	q := &path{}
	q.moveTo(0, 0)
	q.arcTo(0, 5, 0, false, false, 4, 4)
	if len(q.segs) != 2 || q.segs[1].op != opLine {
		t.Errorf("segments = %+v, want moveto + lineto", q.segs)
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in   string
		p    point
		want point
	}{
		{"translate(3, 4)", point{1, 1}, point{4, 5}},
		{"scale(2)", point{1, 3}, point{2, 6}},
		{"scale(2 3)", point{1, 1}, point{2, 3}},
		{"rotate(90)", point{1, 0}, point{0, 1}},
		{"rotate(180 5 5)", point{0, 0}, point{10, 10}},
		{"matrix(1 0 0 1 7 8)", point{0, 0}, point{7, 8}},
		{"translate(10) scale(2)", point{1, 1}, point{12, 2}},
		{"unknown(1) translate(1 1)", point{0, 0}, point{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseTransform(tt.in).apply(tt.p)
			if math.Abs(got.x-tt.want.x) > 1e-9 || math.Abs(got.y-tt.want.y) > 1e-9 {
				t.Errorf("apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRasterize(t *testing.T) {
	img, err := Rasterize([]byte(`<svg viewBox="0 0 1 1"><rect width="1" height="1" fill="red"/></svg>`), 8)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 || img.NRGBAAt(4, 4).R != 255 {
		t.Errorf("unexpected raster %v", img.Bounds())
	}
	if _, err := Rasterize([]byte("<nope/>"), 8); err == nil {
		t.Error("Rasterize accepted a non-svg document")
	}
}

func TestParseFloatFinite(t *testing.T) {
	for _, s := range []string{"NaN", "nan", "Inf", "-Infinity", "+inf", "1e400"} {
		if v, err := parseFloat(s); err == nil {
			t.Errorf("parseFloat(%q) = %v, want error", s, v)
		}
	}
	if v, err := parseFloat("-1.5e2"); err != nil || v != -150 {
		t.Errorf("parseFloat(-1.5e2) = %v, %v", v, err)
	}
}

func TestRenderNonFiniteValues(t *testing.T) {
	const good = `<rect x="5" y="5" width="5" height="5" fill="blue"/>`
	tests := []struct {
		name string
		bad  string
		ink  bool // the good rect must still be drawn
	}{
		{"rect width", `<rect width="NaN" height="5"/>`, true},
		{"rect height", `<rect width="5" height="Inf"/>`, true},
		{"circle radius", `<circle cx="2" cy="2" r="-Inf"/>`, true},
		{"opacity", `<rect width="5" height="5" fill-opacity="NaN" opacity="Inf"/>`, true},
		{"rgb channel", `<rect width="5" height="5" fill="rgb(NaN, 0, Inf)"/>`, true},
		{"huge path", `<path d="M0 0L1e300 0L0 5Z"/>`, true},
		{"huge transform", `<rect width="5" height="5" transform="scale(1e300)"/>`, true},
		{"viewBox", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewBox := "0 0 10 10"
			if !tt.ink {
				viewBox = "0 0 NaN Inf"
			}
			src := `<svg viewBox="` + viewBox + `" width="NaN">` + tt.bad + good + `</svg>`
			img, err := Rasterize([]byte(src), 32)
			if err != nil {
				t.Fatalf("Rasterize() error = %v", err)
			}
			if img.Bounds().Dx() != 32 {
				t.Fatalf("bounds = %v", img.Bounds())
			}
			if tt.ink {
				if c := img.NRGBAAt(28, 28); c.B != 0xff || c.A != 0xff {
					t.Errorf("good rect pixel = %v, want opaque blue", c)
				}
			}
		})
	}
}
