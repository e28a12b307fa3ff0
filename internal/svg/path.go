package svg

import "math"

type point struct{ x, y float64 }

type segOp uint8

const (
	opMove segOp = iota
	opLine
	opQuad
	opCubic
	opClose
)

// segment is one path element; unused points are zero.
type segment struct {
	op  segOp
	pts [3]point
}

// path is a sequence of subpaths in user space.
type path struct {
	segs  []segment
	start point
	cur   point
}

func (p *path) moveTo(x, y float64) {
	pt := point{x, y}
	p.segs = append(p.segs, segment{op: opMove, pts: [3]point{pt}})
	p.start, p.cur = pt, pt
}

func (p *path) lineTo(x, y float64) {
	if len(p.segs) == 0 {
		p.moveTo(p.cur.x, p.cur.y)
	}
	pt := point{x, y}
	p.segs = append(p.segs, segment{op: opLine, pts: [3]point{pt}})
	p.cur = pt
}

func (p *path) quadTo(cx, cy, x, y float64) {
	if len(p.segs) == 0 {
		p.moveTo(p.cur.x, p.cur.y)
	}
	pt := point{x, y}
	p.segs = append(p.segs, segment{op: opQuad, pts: [3]point{{cx, cy}, pt}})
	p.cur = pt
}

func (p *path) cubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if len(p.segs) == 0 {
		p.moveTo(p.cur.x, p.cur.y)
	}
	pt := point{x, y}
	p.segs = append(p.segs, segment{op: opCubic, pts: [3]point{{c1x, c1y}, {c2x, c2y}, pt}})
	p.cur = pt
}

func (p *path) close() {
	if len(p.segs) == 0 {
		return
	}
	p.segs = append(p.segs, segment{op: opClose})
	p.cur = p.start
}

func (p *path) empty() bool { return len(p.segs) == 0 }

func (p *path) rect(x, y, w, h, rx, ry float64) {
	if rx <= 0 && ry <= 0 {
		p.moveTo(x, y)
		p.lineTo(x+w, y)
		p.lineTo(x+w, y+h)
		p.lineTo(x, y+h)
		p.close()
		return
	}
	if rx <= 0 {
		rx = ry
	}
	if ry <= 0 {
		ry = rx
	}
	rx = math.Min(rx, w/2)
	ry = math.Min(ry, h/2)

	p.moveTo(x+rx, y)
	p.lineTo(x+w-rx, y)
	p.arcTo(rx, ry, 0, false, true, x+w, y+ry)
	p.lineTo(x+w, y+h-ry)
	p.arcTo(rx, ry, 0, false, true, x+w-rx, y+h)
	p.lineTo(x+rx, y+h)
	p.arcTo(rx, ry, 0, false, true, x, y+h-ry)
	p.lineTo(x, y+ry)
	p.arcTo(rx, ry, 0, false, true, x+rx, y)
	p.close()
}

// ellipse adds an ellipse as four cubic Bezier quadrants.
func (p *path) ellipse(cx, cy, rx, ry float64) {
	const k = 0.5522847498307936 // 4/3 * (sqrt(2) - 1)
	ox, oy := rx*k, ry*k

	p.moveTo(cx+rx, cy)
	p.cubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.cubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.cubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.cubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.close()
}

// arcTo adds an elliptical arc in SVG endpoint form, converted to center
// form and split into cubic segments of at most 90 degrees.
func (p *path) arcTo(rx, ry, rotation float64, large, sweep bool, x, y float64) {
	x1, y1 := p.cur.x, p.cur.y
	if x1 == x && y1 == y {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.lineTo(x, y)
		return
	}

	sinPhi, cosPhi := math.Sincos(rotation * math.Pi / 180)
	dx2, dy2 := (x1-x)/2, (y1-y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Scale radii up when the endpoints cannot be joined.
	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1p*y1p - ry2*x1p*x1p
	den := rx2*y1p*y1p + ry2*x1p*x1p
	coef := 0.0
	if den > 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (x1+x)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y1+y)/2

	theta1 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	delta := theta2 - theta1
	switch {
	case sweep && delta < 0:
		delta += 2 * math.Pi
	case !sweep && delta > 0:
		delta -= 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	alpha := math.Sin(step) * (math.Sqrt(4+3*math.Tan(step/2)*math.Tan(step/2)) - 1) / 3

	toUser := func(u, v float64) (float64, float64) {
		return cx + rx*u*cosPhi - ry*v*sinPhi, cy + rx*u*sinPhi + ry*v*cosPhi
	}
	for i := 0; i < n; i++ {
		a1 := theta1 + float64(i)*step
		a2 := a1 + step
		sin1, cos1 := math.Sincos(a1)
		sin2, cos2 := math.Sincos(a2)

		c1x, c1y := toUser(cos1-alpha*sin1, sin1+alpha*cos1)
		c2x, c2y := toUser(cos2+alpha*sin2, sin2-alpha*cos2)
		ex, ey := toUser(cos2, sin2)
		if i == n-1 {
			ex, ey = x, y
		}
		p.cubicTo(c1x, c1y, c2x, c2y, ex, ey)
	}
}
