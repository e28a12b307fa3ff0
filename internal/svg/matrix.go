package svg

import (
	"math"
	"strings"
)

// matrix is a 2D affine transformation in SVG order:
//
//	| a  c  e |
//	| b  d  f |
type matrix struct {
	a, b, c, d, e, f float64
}

func identity() matrix {
	return matrix{a: 1, d: 1}
}

func translate(x, y float64) matrix {
	return matrix{a: 1, d: 1, e: x, f: y}
}

func scale(x, y float64) matrix {
	return matrix{a: x, d: y}
}

// rotate returns a rotation by deg degrees.
func rotate(deg float64) matrix {
	s, c := math.Sincos(deg * math.Pi / 180)
	return matrix{a: c, b: s, c: -s, d: c}
}

func skewX(deg float64) matrix {
	return matrix{a: 1, c: math.Tan(deg * math.Pi / 180), d: 1}
}

func skewY(deg float64) matrix {
	return matrix{a: 1, b: math.Tan(deg * math.Pi / 180), d: 1}
}

// mul returns m * n, so n is applied first.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

func (m matrix) apply(p point) point {
	return point{
		x: m.a*p.x + m.c*p.y + m.e,
		y: m.b*p.x + m.d*p.y + m.f,
	}
}

// parseTransform parses a transform attribute list such as
// "translate(10 20) rotate(45, 5, 5) scale(2)". Unknown functions and
// malformed arguments are skipped.
func parseTransform(s string) matrix {
	m := identity()
	for {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			return m
		}
		end := strings.IndexByte(s[open:], ')')
		if end < 0 {
			return m
		}
		name := strings.TrimSpace(strings.Trim(s[:open], " ,\t\n"))
		args := parseNumbers(s[open+1 : open+end])
		s = s[open+end+1:]

		var t matrix
		switch {
		case name == "matrix" && len(args) == 6:
			t = matrix{args[0], args[1], args[2], args[3], args[4], args[5]}
		case name == "translate" && len(args) == 1:
			t = translate(args[0], 0)
		case name == "translate" && len(args) == 2:
			t = translate(args[0], args[1])
		case name == "scale" && len(args) == 1:
			t = scale(args[0], args[0])
		case name == "scale" && len(args) == 2:
			t = scale(args[0], args[1])
		case name == "rotate" && len(args) == 1:
			t = rotate(args[0])
		case name == "rotate" && len(args) == 3:
			t = translate(args[1], args[2]).mul(rotate(args[0])).mul(translate(-args[1], -args[2]))
		case name == "skewX" && len(args) == 1:
			t = skewX(args[0])
		case name == "skewY" && len(args) == 1:
			t = skewY(args[0])
		default:
			continue
		}
		m = m.mul(t)
	}
}

// parseNumbers reads a whitespace or comma separated number list.
func parseNumbers(s string) []float64 {
	sc := scanner{s: s}
	var out []float64
	for {
		v, ok := sc.number()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}
