package sfnt

import (
	"encoding/binary"
	"errors"
	"image/color"
)

// COLR/CPAL table format errors.
var (
	ErrInvalidCOLRData        = errors.New("sfnt: invalid COLR table data")
	ErrInvalidCPALData        = errors.New("sfnt: invalid CPAL table data")
	ErrGlyphNotInCOLR         = errors.New("sfnt: glyph not found in COLR table")
	ErrUnsupportedCOLRVersion = errors.New("sfnt: unsupported COLR version")
)

// foregroundIndex marks a layer drawn in the text color.
const foregroundIndex = 0xFFFF

// Layer is one colored glyph of a COLRv0 color glyph, bottom to top.
type Layer struct {
	GlyphID    uint16
	Color      color.NRGBA
	Foreground bool
}

// COLRParser reads COLRv0 base glyph and layer records with CPAL palettes.
// COLRv1 paint graphs are not interpreted; their v0 records still are.
type COLRParser struct {
	version    uint16
	baseGlyphs []baseGlyphRecord
	layers     []layerRecord
	palettes   [][]color.NRGBA
}

type baseGlyphRecord struct {
	glyphID    uint16
	firstLayer uint16
	numLayers  uint16
}

type layerRecord struct {
	glyphID      uint16
	paletteIndex uint16
}

// NewCOLRParser parses raw COLR and CPAL tables.
func NewCOLRParser(colrData, cpalData []byte) (*COLRParser, error) {
	if len(colrData) == 0 || len(cpalData) == 0 {
		return nil, ErrNoTable
	}
	p := &COLRParser{}
	if err := p.parseCOLR(colrData); err != nil {
		return nil, err
	}
	if err := p.parseCPAL(cpalData); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *COLRParser) parseCOLR(data []byte) error {
	if len(data) < 14 {
		return ErrInvalidCOLRData
	}
	p.version = binary.BigEndian.Uint16(data[0:2])
	if p.version > 1 {
		return ErrUnsupportedCOLRVersion
	}

	numBase := int(binary.BigEndian.Uint16(data[2:4]))
	baseOff := int(binary.BigEndian.Uint32(data[4:8]))
	layerOff := int(binary.BigEndian.Uint32(data[8:12]))
	numLayers := int(binary.BigEndian.Uint16(data[12:14]))

	if baseOff+numBase*6 > len(data) || layerOff+numLayers*4 > len(data) {
		return ErrInvalidCOLRData
	}

	p.baseGlyphs = make([]baseGlyphRecord, numBase)
	for i := range p.baseGlyphs {
		rec := data[baseOff+i*6:]
		p.baseGlyphs[i] = baseGlyphRecord{
			glyphID:    binary.BigEndian.Uint16(rec[0:2]),
			firstLayer: binary.BigEndian.Uint16(rec[2:4]),
			numLayers:  binary.BigEndian.Uint16(rec[4:6]),
		}
	}
	p.layers = make([]layerRecord, numLayers)
	for i := range p.layers {
		rec := data[layerOff+i*4:]
		p.layers[i] = layerRecord{
			glyphID:      binary.BigEndian.Uint16(rec[0:2]),
			paletteIndex: binary.BigEndian.Uint16(rec[2:4]),
		}
	}
	return nil
}

// parseCPAL reads all palettes. Color records are stored as BGRA.
func (p *COLRParser) parseCPAL(data []byte) error {
	if len(data) < 12 {
		return ErrInvalidCPALData
	}
	numEntries := int(binary.BigEndian.Uint16(data[2:4]))
	numPalettes := int(binary.BigEndian.Uint16(data[4:6]))
	recordsOff := int(binary.BigEndian.Uint32(data[8:12]))
	if 12+numPalettes*2 > len(data) {
		return ErrInvalidCPALData
	}

	p.palettes = make([][]color.NRGBA, numPalettes)
	for i := range p.palettes {
		first := int(binary.BigEndian.Uint16(data[12+i*2:]))
		palette := make([]color.NRGBA, numEntries)
		for j := range palette {
			pos := recordsOff + (first+j)*4
			if pos+4 > len(data) {
				return ErrInvalidCPALData
			}
			palette[j] = color.NRGBA{B: data[pos], G: data[pos+1], R: data[pos+2], A: data[pos+3]}
		}
		p.palettes[i] = palette
	}
	return nil
}

// HasGlyph reports whether glyphID has color layers.
func (p *COLRParser) HasGlyph(glyphID uint16) bool {
	_, ok := p.findBaseGlyph(glyphID)
	return ok
}

// NumPalettes returns the number of CPAL palettes.
func (p *COLRParser) NumPalettes() int { return len(p.palettes) }

// Layers returns the layers of glyphID colored from the given palette.
// Layers whose palette entry is out of range are painted transparent.
func (p *COLRParser) Layers(glyphID uint16, palette int) ([]Layer, error) {
	rec, ok := p.findBaseGlyph(glyphID)
	if !ok {
		return nil, ErrGlyphNotInCOLR
	}
	if int(rec.firstLayer)+int(rec.numLayers) > len(p.layers) {
		return nil, ErrInvalidCOLRData
	}

	var colors []color.NRGBA
	if palette >= 0 && palette < len(p.palettes) {
		colors = p.palettes[palette]
	}

	out := make([]Layer, rec.numLayers)
	for i := range out {
		l := p.layers[int(rec.firstLayer)+i]
		out[i].GlyphID = l.glyphID
		switch {
		case l.paletteIndex == foregroundIndex:
			out[i].Foreground = true
		case int(l.paletteIndex) < len(colors):
			out[i].Color = colors[l.paletteIndex]
		}
	}
	return out, nil
}

// findBaseGlyph binary-searches the base glyph records, which the format
// requires to be sorted by glyph ID.
func (p *COLRParser) findBaseGlyph(glyphID uint16) (baseGlyphRecord, bool) {
	lo, hi := 0, len(p.baseGlyphs)
	for lo < hi {
		mid := (lo + hi) / 2
		if p.baseGlyphs[mid].glyphID < glyphID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(p.baseGlyphs) && p.baseGlyphs[lo].glyphID == glyphID {
		return p.baseGlyphs[lo], true
	}
	return baseGlyphRecord{}, false
}
