// Package sfnt reads the OpenType tables that carry color emoji.
//
// golang.org/x/image/font/sfnt rejects bitmap-only fonts such as Noto Color
// Emoji, which have no glyf or CFF outlines, and go-text exposes no COLRv0
// layer records. This package parses just enough of the font to fill those
// gaps: the table directory, the Unicode cmap, COLR/CPAL layers and CBDT/CBLC
// bitmaps.
package sfnt

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrInvalidFont indicates the data is not a parsable sfnt container.
	ErrInvalidFont = errors.New("sfnt: invalid font data")

	// ErrNoTable indicates the font lacks a required table.
	ErrNoTable = errors.New("sfnt: table not found")
)

const (
	tagTTC        = 0x74746366 // 'ttcf'
	offsetRecSize = 16
)

// Font is a parsed table directory over raw font bytes.
type Font struct {
	data   []byte
	tables map[string][]byte
	cmap   *cmapTable
}

// Parse reads the table directory of an OpenType or TrueType font. For a
// collection the first font is used.
func Parse(data []byte) (*Font, error) {
	if len(data) < 12 {
		return nil, ErrInvalidFont
	}
	offset := 0
	if binary.BigEndian.Uint32(data[0:4]) == tagTTC {
		if len(data) < 16 || binary.BigEndian.Uint32(data[8:12]) == 0 {
			return nil, ErrInvalidFont
		}
		offset = int(binary.BigEndian.Uint32(data[12:16]))
	}
	if offset+12 > len(data) {
		return nil, ErrInvalidFont
	}

	numTables := int(binary.BigEndian.Uint16(data[offset+4 : offset+6]))
	dirEnd := offset + 12 + numTables*offsetRecSize
	if dirEnd > len(data) {
		return nil, ErrInvalidFont
	}

	f := &Font{data: data, tables: make(map[string][]byte, numTables)}
	for i := 0; i < numTables; i++ {
		rec := data[offset+12+i*offsetRecSize:]
		tag := string(rec[0:4])
		start := int(binary.BigEndian.Uint32(rec[8:12]))
		length := int(binary.BigEndian.Uint32(rec[12:16]))
		if start < 0 || length < 0 || start+length > len(data) {
			return nil, fmt.Errorf("%w: table %q out of bounds", ErrInvalidFont, tag)
		}
		f.tables[tag] = data[start : start+length]
	}
	return f, nil
}

// Table returns the raw bytes of the table with the given four-letter tag.
func (f *Font) Table(tag string) []byte {
	return f.tables[tag]
}

// HasTable reports whether the font contains tag.
func (f *Font) HasTable(tag string) bool {
	_, ok := f.tables[tag]
	return ok
}

// HasOutlines reports whether the font carries glyf or CFF outlines.
func (f *Font) HasOutlines() bool {
	return f.HasTable("glyf") || f.HasTable("CFF ") || f.HasTable("CFF2")
}

// HasColorBitmaps reports whether the font carries CBDT/CBLC bitmaps.
func (f *Font) HasColorBitmaps() bool {
	return f.HasTable("CBDT") && f.HasTable("CBLC")
}

// HasColorLayers reports whether the font carries COLR/CPAL layers.
func (f *Font) HasColorLayers() bool {
	return f.HasTable("COLR") && f.HasTable("CPAL")
}

// UnitsPerEm returns the head table's design units per em, or 1000.
func (f *Font) UnitsPerEm() int {
	head := f.tables["head"]
	if len(head) < 20 {
		return 1000
	}
	upem := int(binary.BigEndian.Uint16(head[18:20]))
	if upem == 0 {
		return 1000
	}
	return upem
}

// GlyphIndex maps a code point to a glyph ID through the Unicode cmap.
func (f *Font) GlyphIndex(r rune) (uint16, bool) {
	if f.cmap == nil {
		c, err := parseCmap(f.tables["cmap"])
		if err != nil {
			f.cmap = &cmapTable{}
		} else {
			f.cmap = c
		}
	}
	return f.cmap.lookup(r)
}

// COLR returns a parser over the font's COLR and CPAL tables.
func (f *Font) COLR() (*COLRParser, error) {
	return NewCOLRParser(f.tables["COLR"], f.tables["CPAL"])
}

// CBDT returns an extractor over the font's CBDT and CBLC tables.
func (f *Font) CBDT() (*CBDTExtractor, error) {
	return NewCBDTExtractor(f.tables["CBDT"], f.tables["CBLC"])
}
