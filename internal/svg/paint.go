package svg

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// paint is a fill: a color, nothing, or a gradient reference resolved
// once the whole document has been read. color holds the fallback for
// unresolved references.
type paint struct {
	color color.NRGBA
	none  bool
	ref   string
}

var black = paint{color: color.NRGBA{A: 0xFF}}

// parsePaint parses a fill value. ok is false for values that inherit.
func parsePaint(v string) (paint, bool) {
	v = strings.TrimSpace(v)
	switch v {
	case "", "inherit":
		return paint{}, false
	case "none", "transparent":
		return paint{none: true}, true
	case "currentColor":
		return black, true
	}
	if strings.HasPrefix(v, "url(") {
		end := strings.IndexByte(v, ')')
		if end < 0 {
			return paint{}, false
		}
		p := black
		if fb, ok := parsePaint(v[end+1:]); ok {
			p = fb
		}
		id := strings.Trim(strings.TrimSpace(v[4:end]), `"'`)
		p.ref = strings.TrimPrefix(id, "#")
		return p, true
	}
	if c, ok := parseColor(v); ok {
		return paint{color: c}, true
	}
	return paint{}, false
}

// parseColor parses #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba() and
// named colors.
func parseColor(v string) (color.NRGBA, bool) {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "#") {
		return parseHex(v[1:])
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "rgb") {
		open := strings.IndexByte(lower, '(')
		end := strings.IndexByte(lower, ')')
		if open < 0 || end < open {
			return color.NRGBA{}, false
		}
		parts := strings.FieldsFunc(lower[open+1:end], func(r rune) bool {
			return r == ',' || r == ' ' || r == '/'
		})
		if len(parts) < 3 {
			return color.NRGBA{}, false
		}
		c := color.NRGBA{A: 0xFF}
		ch := [3]*uint8{&c.R, &c.G, &c.B}
		for i := 0; i < 3; i++ {
			*ch[i] = channel(parts[i])
		}
		if len(parts) > 3 {
			c.A = uint8(clamp01(parseAlpha(parts[3])) * 255)
		}
		return c, true
	}
	if c, ok := colornames.Map[lower]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return color.NRGBA{}, false
}

func parseHex(h string) (color.NRGBA, bool) {
	switch len(h) {
	case 3, 4:
		var b [4]uint8
		b[3] = 0xF
		for i := 0; i < len(h); i++ {
			n, ok := hexNibble(h[i])
			if !ok {
				return color.NRGBA{}, false
			}
			b[i] = n
		}
		return color.NRGBA{R: b[0] * 0x11, G: b[1] * 0x11, B: b[2] * 0x11, A: b[3] * 0x11}, true
	case 6, 8:
		n, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return color.NRGBA{}, false
		}
		if len(h) == 6 {
			n = n<<8 | 0xFF
		}
		return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, true
	}
	return color.NRGBA{}, false
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// channel parses an rgb() component, either 0-255 or a percentage.
func channel(s string) uint8 {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, _ := parseFloat(p)
		return uint8(clamp01(f/100)*255 + 0.5)
	}
	f, _ := parseFloat(s)
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}

// parseAlpha parses an opacity, either 0-1 or a percentage. Invalid
// values are fully opaque.
func parseAlpha(s string) float64 {
	s = strings.TrimSpace(s)
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := parseFloat(p)
		if err != nil {
			return 1
		}
		return f / 100
	}
	f, err := parseFloat(s)
	if err != nil {
		return 1
	}
	return f
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// parseStyle splits a style attribute into declarations.
func parseStyle(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// averageColor blends gradient stops into one flat color.
func averageColor(stops []color.NRGBA) color.NRGBA {
	if len(stops) == 0 {
		return black.color
	}
	var r, g, b, a int
	for _, s := range stops {
		r += int(s.R)
		g += int(s.G)
		b += int(s.B)
		a += int(s.A)
	}
	n := len(stops)
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: uint8(a / n)}
}
