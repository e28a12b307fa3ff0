package svg

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var errNonFinite = errors.New("svg: non-finite number")

// parseFloat is strconv.ParseFloat limited to finite values.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNonFinite
	}
	return v, nil
}

// scanner tokenizes path data and number lists.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', ',':
			sc.pos++
		default:
			return
		}
	}
}

// number reads the next number. SVG allows numbers to abut without
// separators, like "1.5.5" or "3-4".
func (sc *scanner) number() (float64, bool) {
	sc.skipSeparators()
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '+' || sc.s[i] == '-') {
		i++
	}
	digits, dot := 0, false
mantissa:
	for ; i < len(sc.s); i++ {
		switch c := sc.s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			break mantissa
		}
	}
	if digits == 0 {
		return 0, false
	}
	if i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '+' || sc.s[j] == '-') {
			j++
		}
		if j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
			for j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	v, err := parseFloat(sc.s[start:i])
	if err != nil {
		return 0, false
	}
	sc.pos = i
	return v, true
}

// flag reads an arc flag, which may be written without a separator.
func (sc *scanner) flag() (bool, bool) {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return false, false
	}
	switch sc.s[sc.pos] {
	case '0':
		sc.pos++
		return false, true
	case '1':
		sc.pos++
		return true, true
	}
	return false, false
}

func (sc *scanner) numbers(dst []float64) bool {
	for i := range dst {
		v, ok := sc.number()
		if !ok {
			return false
		}
		dst[i] = v
	}
	return true
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

// parsePathData parses the d attribute. On malformed data the path built
// so far is returned with an error, matching how renderers draw up to the
// first error.
func parsePathData(d string) (*path, error) {
	p := &path{}
	sc := scanner{s: d}
	var cmd byte
	var lastCtrl point // reflected by S and T
	var lastCmd byte
	var args [7]float64

	for {
		sc.skipSeparators()
		if sc.pos >= len(sc.s) {
			return p, nil
		}
		if c := sc.s[sc.pos]; isCommand(c) {
			cmd = c
			sc.pos++
		} else if cmd == 0 {
			return p, fmt.Errorf("svg: path data must start with a command, got %q", c)
		}

		rel := cmd >= 'a'
		ox, oy := 0.0, 0.0
		if rel {
			ox, oy = p.cur.x, p.cur.y
		}
		ctrl := p.cur

		switch cmd {
		case 'Z', 'z':
			p.close()
			lastCmd = cmd
			cmd = 0
			continue
		case 'M', 'm':
			if !sc.numbers(args[:2]) {
				return p, errPathArgs(cmd)
			}
			p.moveTo(ox+args[0], oy+args[1])
			// Further coordinate pairs are implicit line commands.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			if !sc.numbers(args[:2]) {
				return p, errPathArgs(cmd)
			}
			p.lineTo(ox+args[0], oy+args[1])
		case 'H', 'h':
			if !sc.numbers(args[:1]) {
				return p, errPathArgs(cmd)
			}
			p.lineTo(ox+args[0], p.cur.y)
		case 'V', 'v':
			if !sc.numbers(args[:1]) {
				return p, errPathArgs(cmd)
			}
			p.lineTo(p.cur.x, oy+args[0])
		case 'C', 'c':
			if !sc.numbers(args[:6]) {
				return p, errPathArgs(cmd)
			}
			ctrl = point{ox + args[2], oy + args[3]}
			p.cubicTo(ox+args[0], oy+args[1], ctrl.x, ctrl.y, ox+args[4], oy+args[5])
		case 'S', 's':
			if !sc.numbers(args[:4]) {
				return p, errPathArgs(cmd)
			}
			c1 := p.cur
			if isCubic(lastCmd) {
				c1 = point{2*p.cur.x - lastCtrl.x, 2*p.cur.y - lastCtrl.y}
			}
			ctrl = point{ox + args[0], oy + args[1]}
			p.cubicTo(c1.x, c1.y, ctrl.x, ctrl.y, ox+args[2], oy+args[3])
		case 'Q', 'q':
			if !sc.numbers(args[:4]) {
				return p, errPathArgs(cmd)
			}
			ctrl = point{ox + args[0], oy + args[1]}
			p.quadTo(ctrl.x, ctrl.y, ox+args[2], oy+args[3])
		case 'T', 't':
			if !sc.numbers(args[:2]) {
				return p, errPathArgs(cmd)
			}
			ctrl = p.cur
			if isQuad(lastCmd) {
				ctrl = point{2*p.cur.x - lastCtrl.x, 2*p.cur.y - lastCtrl.y}
			}
			p.quadTo(ctrl.x, ctrl.y, ox+args[0], oy+args[1])
		case 'A', 'a':
			if !sc.numbers(args[:3]) {
				return p, errPathArgs(cmd)
			}
			large, ok1 := sc.flag()
			sweep, ok2 := sc.flag()
			if !ok1 || !ok2 || !sc.numbers(args[3:5]) {
				return p, errPathArgs(cmd)
			}
			p.arcTo(args[0], args[1], args[2], large, sweep, ox+args[3], oy+args[4])
		}
		lastCtrl = ctrl
		lastCmd = cmd
	}
}

func isCubic(c byte) bool { return c == 'C' || c == 'c' || c == 'S' || c == 's' }
func isQuad(c byte) bool  { return c == 'Q' || c == 'q' || c == 'T' || c == 't' }

func errPathArgs(cmd byte) error {
	return fmt.Errorf("svg: malformed arguments for path command %q", cmd)
}
