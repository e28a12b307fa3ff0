package sfnt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

type table struct {
	tag  string
	data []byte
}

func be16(b *bytes.Buffer, vs ...uint16) {
	for _, v := range vs {
		_ = binary.Write(b, binary.BigEndian, v)
	}
}

func be32(b *bytes.Buffer, vs ...uint32) {
	for _, v := range vs {
		_ = binary.Write(b, binary.BigEndian, v)
	}
}

// buildFont lays out a minimal table directory followed by table bodies.
func buildFont(tables ...table) []byte {
	var b bytes.Buffer
	be32(&b, 0x00010000)
	be16(&b, uint16(len(tables)), 0, 0, 0)
	off := 12 + len(tables)*16
	for _, t := range tables {
		b.WriteString(t.tag)
		be32(&b, 0, uint32(off), uint32(len(t.data)))
		off += len(t.data)
	}
	for _, t := range tables {
		b.Write(t.data)
	}
	return b.Bytes()
}

func headTable(upem uint16) []byte {
	h := make([]byte, 54)
	binary.BigEndian.PutUint16(h[18:], upem)
	return h
}

// cmap4 maps [start,end] to glyphs beginning at firstGlyph.
func cmap4(start, end, firstGlyph uint16) []byte {
	var sub bytes.Buffer
	segX2 := uint16(4)
	be16(&sub, 4, 0, 0, segX2, 0, 0, 0)
	be16(&sub, end, 0xFFFF)
	be16(&sub, 0)
	be16(&sub, start, 0xFFFF)
	be16(&sub, firstGlyph-start, 1)
	be16(&sub, 0, 0)

	var b bytes.Buffer
	be16(&b, 0, 1)
	be16(&b, 3, 1)
	be32(&b, 12)
	b.Write(sub.Bytes())
	return b.Bytes()
}

type group struct {
	start, end, glyph uint32
}

func cmap12(groups ...group) []byte {
	var b bytes.Buffer
	be16(&b, 0, 1)
	be16(&b, 3, 10)
	be32(&b, 12)
	be16(&b, 12, 0)
	be32(&b, uint32(16+len(groups)*12), 0, uint32(len(groups)))
	for _, g := range groups {
		be32(&b, g.start, g.end, g.glyph)
	}
	return b.Bytes()
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0, 1, 0, 0}},
		{"directory past end", []byte{0, 1, 0, 0, 0, 9, 0, 0, 0, 0, 0, 0}},
		{"table past end", buildFont(table{"head", headTable(1000)})[:12+16+10]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); !errors.Is(err, ErrInvalidFont) {
				t.Errorf("Parse() error = %v, want ErrInvalidFont", err)
			}
		})
	}
}

func TestParseTables(t *testing.T) {
	data := buildFont(
		table{"head", headTable(2048)},
		table{"glyf", []byte{1, 2, 3, 4}},
	)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.HasTable("glyf") || f.HasTable("CBDT") {
		t.Error("unexpected table presence")
	}
	if !f.HasOutlines() {
		t.Error("HasOutlines() = false")
	}
	if f.HasColorBitmaps() || f.HasColorLayers() {
		t.Error("font has no color tables")
	}
	if got := f.UnitsPerEm(); got != 2048 {
		t.Errorf("UnitsPerEm() = %d, want 2048", got)
	}
	if got := f.Table("glyf"); !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("Table(glyf) = %v", got)
	}
}

func TestParseCollectionUsesFirstFont(t *testing.T) {
	inner := buildFont(table{"head", headTable(512)})
	var b bytes.Buffer
	be32(&b, tagTTC, 0x00010000, 1, 16)
	// Offsets inside the inner font are relative to its own start, so
	// shift them by the collection header.
	shifted := append([]byte(nil), inner...)
	rec := shifted[12:]
	binary.BigEndian.PutUint32(rec[8:], binary.BigEndian.Uint32(rec[8:])+16)
	b.Write(shifted)

	f, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := f.UnitsPerEm(); got != 512 {
		t.Errorf("UnitsPerEm() = %d, want 512", got)
	}
}

func TestUnitsPerEmDefault(t *testing.T) {
	f, err := Parse(buildFont(table{"glyf", []byte{0}}))
	if err != nil {
		t.Fatal(err)
	}
	if got := f.UnitsPerEm(); got != 1000 {
		t.Errorf("UnitsPerEm() = %d, want 1000", got)
	}
}

func TestGlyphIndex(t *testing.T) {
	tests := []struct {
		name  string
		cmap  []byte
		r     rune
		want  uint16
		found bool
	}{
		{"format 4 first", cmap4(0x41, 0x43, 5), 'A', 5, true},
		{"format 4 last", cmap4(0x41, 0x43, 5), 'C', 7, true},
		{"format 4 miss", cmap4(0x41, 0x43, 5), 'D', 0, false},
		{"format 12 astral", cmap12(group{0x1F600, 0x1F64F, 100}), 0x1F602, 102, true},
		{"format 12 between groups", cmap12(group{0x41, 0x41, 3}, group{0x1F600, 0x1F600, 9}), 0x1F4A9, 0, false},
		{"format 12 second group", cmap12(group{0x41, 0x41, 3}, group{0x1F600, 0x1F600, 9}), 0x1F600, 9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(buildFont(table{"cmap", tt.cmap}))
			if err != nil {
				t.Fatal(err)
			}
			got, ok := f.GlyphIndex(tt.r)
			if ok != tt.found || (ok && got != tt.want) {
				t.Errorf("GlyphIndex(%U) = (%d, %v), want (%d, %v)", tt.r, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestGlyphIndexWithoutCmap(t *testing.T) {
	f, err := Parse(buildFont(table{"glyf", []byte{0}}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.GlyphIndex('A'); ok {
		t.Error("GlyphIndex without cmap should fail")
	}
}

// colrTables builds one base glyph with the given layers and one palette.
func colrTables(base uint16, layers [][2]uint16, palette []color.NRGBA) (colr, cpal []byte) {
	var c bytes.Buffer
	be16(&c, 0, 1)
	be32(&c, 14, 20)
	be16(&c, uint16(len(layers)))
	be16(&c, base, 0, uint16(len(layers)))
	for _, l := range layers {
		be16(&c, l[0], l[1])
	}

	var p bytes.Buffer
	be16(&p, 0, uint16(len(palette)), 1, uint16(len(palette)))
	be32(&p, 14)
	be16(&p, 0)
	for _, col := range palette {
		p.Write([]byte{col.B, col.G, col.R, col.A})
	}
	return c.Bytes(), p.Bytes()
}

func TestCOLRLayers(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 128}
	colr, cpal := colrTables(10, [][2]uint16{{11, 0}, {12, 1}, {13, foregroundIndex}, {14, 7}}, []color.NRGBA{red, blue})

	f, err := Parse(buildFont(table{"COLR", colr}, table{"CPAL", cpal}))
	if err != nil {
		t.Fatal(err)
	}
	if !f.HasColorLayers() {
		t.Fatal("HasColorLayers() = false")
	}
	p, err := f.COLR()
	if err != nil {
		t.Fatalf("COLR() error = %v", err)
	}
	if p.NumPalettes() != 1 {
		t.Errorf("NumPalettes() = %d", p.NumPalettes())
	}
	if !p.HasGlyph(10) || p.HasGlyph(11) {
		t.Error("HasGlyph mismatch")
	}

	layers, err := p.Layers(10, 0)
	if err != nil {
		t.Fatalf("Layers() error = %v", err)
	}
	want := []Layer{
		{GlyphID: 11, Color: red},
		{GlyphID: 12, Color: blue},
		{GlyphID: 13, Foreground: true},
		{GlyphID: 14},
	}
	if len(layers) != len(want) {
		t.Fatalf("len(layers) = %d, want %d", len(layers), len(want))
	}
	for i := range want {
		if layers[i] != want[i] {
			t.Errorf("layers[%d] = %+v, want %+v", i, layers[i], want[i])
		}
	}

	if _, err := p.Layers(99, 0); !errors.Is(err, ErrGlyphNotInCOLR) {
		t.Errorf("Layers(99) error = %v, want ErrGlyphNotInCOLR", err)
	}
}

func TestCOLRErrors(t *testing.T) {
	colr, cpal := colrTables(1, [][2]uint16{{2, 0}}, []color.NRGBA{{A: 255}})
	badVersion := append([]byte(nil), colr...)
	binary.BigEndian.PutUint16(badVersion, 2)

	tests := []struct {
		name       string
		colr, cpal []byte
		want       error
	}{
		{"missing", nil, cpal, ErrNoTable},
		{"short COLR", colr[:10], cpal, ErrInvalidCOLRData},
		{"version", badVersion, cpal, ErrUnsupportedCOLRVersion},
		{"short CPAL", colr, cpal[:8], ErrInvalidCPALData},
		{"truncated colors", colr, cpal[:len(cpal)-1], ErrInvalidCPALData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCOLRParser(tt.colr, tt.cpal); !errors.Is(err, tt.want) {
				t.Errorf("NewCOLRParser() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func solidPNG(t *testing.T, size int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

type testStrike struct {
	ppem  int
	first uint16
	pngs  [][]byte
}

// colorBitmaps builds CBDT/CBLC with one format 1 index subtable and
// format 17 images per strike.
func colorBitmaps(strikes ...testStrike) (cbdt, cblc []byte) {
	var d bytes.Buffer
	be16(&d, 3, 0)
	dataStart := make([]uint32, len(strikes))
	recOffsets := make([][]uint32, len(strikes))
	for i, s := range strikes {
		dataStart[i] = uint32(d.Len())
		recOffsets[i] = []uint32{0}
		for _, p := range s.pngs {
			d.Write([]byte{byte(s.ppem), byte(s.ppem), 0, byte(s.ppem), byte(s.ppem)})
			be32(&d, uint32(len(p)))
			d.Write(p)
			recOffsets[i] = append(recOffsets[i], uint32(d.Len())-dataStart[i])
		}
	}

	var l bytes.Buffer
	be16(&l, 3, 0)
	be32(&l, uint32(len(strikes)))
	listOff := 8 + len(strikes)*bitmapSizeLen
	lists := make([]int, len(strikes))
	for i, s := range strikes {
		lists[i] = listOff
		listOff += 8 + 8 + len(recOffsets[i])*4
		be32(&l, uint32(lists[i]), 0, 1, 0)
		l.Write(make([]byte, 24))
		last := s.first + uint16(len(s.pngs)) - 1
		be16(&l, s.first, last)
		l.Write([]byte{byte(s.ppem), byte(s.ppem), 32, 1})
	}
	for i, s := range strikes {
		last := s.first + uint16(len(s.pngs)) - 1
		be16(&l, s.first, last)
		be32(&l, 8)
		be16(&l, 1, 17)
		be32(&l, dataStart[i])
		be32(&l, recOffsets[i]...)
	}
	return d.Bytes(), l.Bytes()
}

func TestCBDTGlyph(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	cbdt, cblc := colorBitmaps(
		testStrike{ppem: 136, first: 4, pngs: [][]byte{solidPNG(t, 4, red), solidPNG(t, 4, green)}},
		testStrike{ppem: 32, first: 4, pngs: [][]byte{solidPNG(t, 2, green), solidPNG(t, 2, red)}},
	)
	f, err := Parse(buildFont(table{"CBDT", cbdt}, table{"CBLC", cblc}))
	if err != nil {
		t.Fatal(err)
	}
	if !f.HasColorBitmaps() || f.HasOutlines() {
		t.Fatal("expected a bitmap-only font")
	}
	e, err := f.CBDT()
	if err != nil {
		t.Fatalf("CBDT() error = %v", err)
	}
	if got := e.PPEMs(); len(got) != 2 || got[0] != 136 || got[1] != 32 {
		t.Errorf("PPEMs() = %v", got)
	}

	tests := []struct {
		name     string
		glyph    uint16
		ppem     int
		wantPPEM int
		wantSize int
		want     color.NRGBA
	}{
		{"exact small", 4, 32, 32, 2, green},
		{"rounds up", 5, 40, 136, 4, green},
		{"larger than all", 4, 300, 136, 4, red},
		{"below all", 5, 8, 32, 2, red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := e.Glyph(tt.glyph, tt.ppem)
			if err != nil {
				t.Fatalf("Glyph() error = %v", err)
			}
			if bm.PPEM != tt.wantPPEM || bm.Width != tt.wantPPEM || bm.GlyphID != tt.glyph {
				t.Errorf("Bitmap = %+v", bm)
			}
			img, err := bm.Decode()
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if img.Bounds().Dx() != tt.wantSize {
				t.Errorf("decoded width = %d, want %d", img.Bounds().Dx(), tt.wantSize)
			}
			got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
			if got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := e.Glyph(9, 32); !errors.Is(err, ErrGlyphNotInBitmap) {
		t.Errorf("Glyph(9) error = %v, want ErrGlyphNotInBitmap", err)
	}
}

func TestCBDTErrors(t *testing.T) {
	cbdt, cblc := colorBitmaps(testStrike{ppem: 16, first: 1, pngs: [][]byte{{1, 2, 3}}})
	badVersion := append([]byte(nil), cblc...)
	binary.BigEndian.PutUint16(badVersion, 2)

	if _, err := NewCBDTExtractor(nil, cblc); !errors.Is(err, ErrNoTable) {
		t.Errorf("missing CBDT error = %v", err)
	}
	if _, err := NewCBDTExtractor(cbdt, cblc[:20]); !errors.Is(err, ErrInvalidCBLCData) {
		t.Errorf("truncated CBLC error = %v", err)
	}
	if _, err := NewCBDTExtractor(cbdt, badVersion); err == nil {
		t.Error("unsupported version accepted")
	}

	e, err := NewCBDTExtractor(cbdt[:len(cbdt)-1], cblc)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Glyph(1, 16); !errors.Is(err, ErrInvalidCBDTData) {
		t.Errorf("truncated CBDT error = %v, want ErrInvalidCBDTData", err)
	}
}
