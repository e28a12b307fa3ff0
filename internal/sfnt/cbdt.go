package sfnt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// CBDT/CBLC table format errors.
var (
	ErrInvalidCBLCData        = errors.New("sfnt: invalid CBLC table data")
	ErrInvalidCBDTData        = errors.New("sfnt: invalid CBDT table data")
	ErrUnsupportedIndexFormat = errors.New("sfnt: unsupported index subtable format")
	ErrUnsupportedImageFormat = errors.New("sfnt: unsupported bitmap image format")
	ErrGlyphNotInBitmap       = errors.New("sfnt: glyph has no bitmap")
)

const (
	cblcMajorVersion = 3
	bitmapSizeLen    = 48
)

// Bitmap is a PNG glyph image extracted from CBDT.
type Bitmap struct {
	GlyphID  uint16
	PPEM     int
	Width    int
	Height   int
	BearingX int
	BearingY int
	Data     []byte
}

// Decode decodes the PNG payload.
func (b *Bitmap) Decode() (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(b.Data))
	if err != nil {
		return nil, fmt.Errorf("sfnt: decode bitmap glyph %d: %w", b.GlyphID, err)
	}
	return img, nil
}

// CBDTExtractor reads color bitmaps through the CBLC index.
type CBDTExtractor struct {
	cbdt    []byte
	cblc    []byte
	strikes []strike
}

type strike struct {
	listOffset int
	numLists   int
	firstGlyph uint16
	lastGlyph  uint16
	ppem       int
	subtables  []indexSubtable // parsed on first use
}

type indexSubtable struct {
	first, last uint16
	indexFormat uint16
	imageFormat uint16
	dataOffset  uint32

	offsets   []uint32 // formats 1 and 3, len = glyphs+1
	imageSize uint32   // formats 2 and 5
	metrics   glyphMetrics
	pairs     [][2]uint16 // format 4: glyph ID, offset
	glyphIDs  []uint16    // format 5
}

type glyphMetrics struct {
	height, width      int
	bearingX, bearingY int
}

// NewCBDTExtractor parses the CBLC strike records.
func NewCBDTExtractor(cbdt, cblc []byte) (*CBDTExtractor, error) {
	if len(cbdt) == 0 || len(cblc) == 0 {
		return nil, ErrNoTable
	}
	if len(cblc) < 8 {
		return nil, ErrInvalidCBLCData
	}
	if major := binary.BigEndian.Uint16(cblc[0:2]); major != cblcMajorVersion {
		return nil, fmt.Errorf("sfnt: unsupported CBLC version %d", major)
	}
	n := int(binary.BigEndian.Uint32(cblc[4:8]))
	if 8+n*bitmapSizeLen > len(cblc) {
		return nil, ErrInvalidCBLCData
	}

	e := &CBDTExtractor{cbdt: cbdt, cblc: cblc, strikes: make([]strike, n)}
	for i := range e.strikes {
		rec := cblc[8+i*bitmapSizeLen:]
		e.strikes[i] = strike{
			listOffset: int(binary.BigEndian.Uint32(rec[0:4])),
			numLists:   int(binary.BigEndian.Uint32(rec[8:12])),
			firstGlyph: binary.BigEndian.Uint16(rec[40:42]),
			lastGlyph:  binary.BigEndian.Uint16(rec[42:44]),
			ppem:       int(rec[44]),
		}
	}
	return e, nil
}

// PPEMs returns the pixel sizes of the available strikes.
func (e *CBDTExtractor) PPEMs() []int {
	out := make([]int, len(e.strikes))
	for i := range e.strikes {
		out[i] = e.strikes[i].ppem
	}
	return out
}

// selectStrike returns the smallest strike of at least ppem, else the
// largest one, or -1 when there are no strikes.
func (e *CBDTExtractor) selectStrike(ppem int) int {
	best, largest := -1, -1
	for i := range e.strikes {
		s := e.strikes[i].ppem
		if largest < 0 || s > e.strikes[largest].ppem {
			largest = i
		}
		if s >= ppem && (best < 0 || s < e.strikes[best].ppem) {
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	return largest
}

// Glyph extracts the bitmap of glyphID from the strike that best fits ppem.
func (e *CBDTExtractor) Glyph(glyphID uint16, ppem int) (*Bitmap, error) {
	i := e.selectStrike(ppem)
	if i < 0 {
		return nil, ErrGlyphNotInBitmap
	}
	s := &e.strikes[i]
	if glyphID < s.firstGlyph || glyphID > s.lastGlyph {
		return nil, ErrGlyphNotInBitmap
	}
	if err := e.parseSubtables(s); err != nil {
		return nil, err
	}
	for j := range s.subtables {
		ist := &s.subtables[j]
		if glyphID >= ist.first && glyphID <= ist.last {
			return e.extract(glyphID, ist, s.ppem)
		}
	}
	return nil, ErrGlyphNotInBitmap
}

func (e *CBDTExtractor) parseSubtables(s *strike) error {
	if s.subtables != nil {
		return nil
	}
	data := e.cblc
	if s.listOffset+s.numLists*8 > len(data) {
		return ErrInvalidCBLCData
	}
	subtables := make([]indexSubtable, s.numLists)
	for i := range subtables {
		rec := data[s.listOffset+i*8:]
		ist := &subtables[i]
		ist.first = binary.BigEndian.Uint16(rec[0:2])
		ist.last = binary.BigEndian.Uint16(rec[2:4])
		if ist.last < ist.first {
			return ErrInvalidCBLCData
		}
		off := s.listOffset + int(binary.BigEndian.Uint32(rec[4:8]))
		if err := parseIndexSubtable(data, off, ist); err != nil {
			return err
		}
	}
	s.subtables = subtables
	return nil
}

func parseIndexSubtable(data []byte, off int, ist *indexSubtable) error {
	if off+8 > len(data) {
		return ErrInvalidCBLCData
	}
	ist.indexFormat = binary.BigEndian.Uint16(data[off:])
	ist.imageFormat = binary.BigEndian.Uint16(data[off+2:])
	ist.dataOffset = binary.BigEndian.Uint32(data[off+4:])
	body := off + 8
	glyphs := int(ist.last) - int(ist.first) + 1

	switch ist.indexFormat {
	case 1, 3:
		width := 4
		if ist.indexFormat == 3 {
			width = 2
		}
		if body+(glyphs+1)*width > len(data) {
			return ErrInvalidCBLCData
		}
		ist.offsets = make([]uint32, glyphs+1)
		for i := range ist.offsets {
			if width == 4 {
				ist.offsets[i] = binary.BigEndian.Uint32(data[body+i*4:])
			} else {
				ist.offsets[i] = uint32(binary.BigEndian.Uint16(data[body+i*2:]))
			}
		}
	case 2, 5:
		if body+12 > len(data) {
			return ErrInvalidCBLCData
		}
		ist.imageSize = binary.BigEndian.Uint32(data[body:])
		ist.metrics = bigMetrics(data[body+4:])
		if ist.indexFormat == 5 {
			if body+16 > len(data) {
				return ErrInvalidCBLCData
			}
			n := int(binary.BigEndian.Uint32(data[body+12:]))
			if body+16+n*2 > len(data) {
				return ErrInvalidCBLCData
			}
			ist.glyphIDs = make([]uint16, n)
			for i := range ist.glyphIDs {
				ist.glyphIDs[i] = binary.BigEndian.Uint16(data[body+16+i*2:])
			}
		}
	case 4:
		if body+4 > len(data) {
			return ErrInvalidCBLCData
		}
		n := int(binary.BigEndian.Uint32(data[body:])) + 1
		if body+4+n*4 > len(data) {
			return ErrInvalidCBLCData
		}
		ist.pairs = make([][2]uint16, n)
		for i := range ist.pairs {
			p := data[body+4+i*4:]
			ist.pairs[i] = [2]uint16{binary.BigEndian.Uint16(p), binary.BigEndian.Uint16(p[2:])}
		}
	default:
		return ErrUnsupportedIndexFormat
	}
	return nil
}

// locate returns the CBDT offset and length of a glyph's image record.
func (ist *indexSubtable) locate(glyphID uint16) (uint32, uint32, bool) {
	idx := int(glyphID) - int(ist.first)
	switch ist.indexFormat {
	case 1, 3:
		if idx < 0 || idx+1 >= len(ist.offsets) {
			return 0, 0, false
		}
		return ist.dataOffset + ist.offsets[idx], ist.offsets[idx+1] - ist.offsets[idx], true
	case 2:
		return ist.dataOffset + uint32(idx)*ist.imageSize, ist.imageSize, true //nolint:gosec // idx within [first,last]
	case 4:
		for i := 0; i+1 < len(ist.pairs); i++ {
			if ist.pairs[i][0] == glyphID {
				return ist.dataOffset + uint32(ist.pairs[i][1]), uint32(ist.pairs[i+1][1] - ist.pairs[i][1]), true
			}
		}
	case 5:
		for i, gid := range ist.glyphIDs {
			if gid == glyphID {
				return ist.dataOffset + uint32(i)*ist.imageSize, ist.imageSize, true //nolint:gosec // small index
			}
		}
	}
	return 0, 0, false
}

func (e *CBDTExtractor) extract(glyphID uint16, ist *indexSubtable, ppem int) (*Bitmap, error) {
	off, size, ok := ist.locate(glyphID)
	if !ok || size == 0 {
		return nil, ErrGlyphNotInBitmap
	}
	if uint64(off)+uint64(size) > uint64(len(e.cbdt)) {
		return nil, ErrInvalidCBDTData
	}
	rec := e.cbdt[off : off+size]

	var m glyphMetrics
	var header int
	switch ist.imageFormat {
	case 17: // small metrics, PNG
		if len(rec) < 9 {
			return nil, ErrInvalidCBDTData
		}
		m = glyphMetrics{height: int(rec[0]), width: int(rec[1]), bearingX: int(int8(rec[2])), bearingY: int(int8(rec[3]))}
		header = 5
	case 18: // big metrics, PNG
		if len(rec) < 12 {
			return nil, ErrInvalidCBDTData
		}
		m = bigMetrics(rec)
		header = 8
	case 19: // metrics in CBLC, PNG
		m = ist.metrics
	default:
		return nil, ErrUnsupportedImageFormat
	}

	if len(rec) < header+4 {
		return nil, ErrInvalidCBDTData
	}
	n := int(binary.BigEndian.Uint32(rec[header:]))
	start := header + 4
	if n < 0 || start+n > len(rec) {
		return nil, ErrInvalidCBDTData
	}
	return &Bitmap{
		GlyphID:  glyphID,
		PPEM:     ppem,
		Width:    m.width,
		Height:   m.height,
		BearingX: m.bearingX,
		BearingY: m.bearingY,
		Data:     rec[start : start+n],
	}, nil
}

func bigMetrics(b []byte) glyphMetrics {
	return glyphMetrics{
		height:   int(b[0]),
		width:    int(b[1]),
		bearingX: int(int8(b[2])),
		bearingY: int(int8(b[3])),
	}
}
