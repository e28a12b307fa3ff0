package sfnt

import (
	"encoding/binary"
	"sort"
)

// cmapTable supports the two subtable formats emoji fonts ship:
// format 4 (BMP segments) and format 12 (full-range groups).
type cmapTable struct {
	data   []byte
	groups []cmapGroup // sorted, non-overlapping
}

type cmapGroup struct {
	start, end rune
	glyph      uint32 // glyph of start, for format 12
	delta      int32  // format 4 idDelta
	rangeOff   int    // format 4 absolute offset of the glyphIdArray entry for start, or 0
	format4    bool
}

// platform/encoding pairs in order of preference.
var cmapPreference = [][2]uint16{
	{3, 10}, // Windows, UCS-4
	{0, 4},  // Unicode, full repertoire
	{0, 6},
	{3, 1}, // Windows, BMP
	{0, 3},
	{0, 2},
	{0, 1},
	{0, 0},
}

func parseCmap(data []byte) (*cmapTable, error) {
	if len(data) < 4 {
		return nil, ErrNoTable
	}
	numTables := int(binary.BigEndian.Uint16(data[2:4]))
	if 4+numTables*8 > len(data) {
		return nil, ErrInvalidFont
	}

	offsets := make(map[[2]uint16]int, numTables)
	for i := 0; i < numTables; i++ {
		rec := data[4+i*8:]
		key := [2]uint16{binary.BigEndian.Uint16(rec[0:2]), binary.BigEndian.Uint16(rec[2:4])}
		offsets[key] = int(binary.BigEndian.Uint32(rec[4:8]))
	}

	for _, pref := range cmapPreference {
		off, ok := offsets[pref]
		if !ok || off+2 > len(data) {
			continue
		}
		switch binary.BigEndian.Uint16(data[off : off+2]) {
		case 12:
			if t, err := parseCmap12(data, off); err == nil {
				return t, nil
			}
		case 4:
			if t, err := parseCmap4(data, off); err == nil {
				return t, nil
			}
		}
	}
	return nil, ErrNoTable
}

func parseCmap12(data []byte, off int) (*cmapTable, error) {
	if off+16 > len(data) {
		return nil, ErrInvalidFont
	}
	n := int(binary.BigEndian.Uint32(data[off+12 : off+16]))
	if off+16+n*12 > len(data) {
		return nil, ErrInvalidFont
	}
	t := &cmapTable{groups: make([]cmapGroup, 0, n)}
	for i := 0; i < n; i++ {
		g := data[off+16+i*12:]
		t.groups = append(t.groups, cmapGroup{
			start: rune(binary.BigEndian.Uint32(g[0:4])),
			end:   rune(binary.BigEndian.Uint32(g[4:8])),
			glyph: binary.BigEndian.Uint32(g[8:12]),
		})
	}
	sort.Slice(t.groups, func(i, j int) bool { return t.groups[i].start < t.groups[j].start })
	return t, nil
}

func parseCmap4(data []byte, off int) (*cmapTable, error) {
	if off+14 > len(data) {
		return nil, ErrInvalidFont
	}
	segX2 := int(binary.BigEndian.Uint16(data[off+6 : off+8]))
	seg := segX2 / 2
	ends := off + 14
	starts := ends + segX2 + 2
	deltas := starts + segX2
	ranges := deltas + segX2
	if ranges+segX2 > len(data) {
		return nil, ErrInvalidFont
	}

	t := &cmapTable{data: data, groups: make([]cmapGroup, 0, seg)}
	for i := 0; i < seg; i++ {
		end := rune(binary.BigEndian.Uint16(data[ends+i*2:]))
		start := rune(binary.BigEndian.Uint16(data[starts+i*2:]))
		delta := int32(int16(binary.BigEndian.Uint16(data[deltas+i*2:])))
		ro := int(binary.BigEndian.Uint16(data[ranges+i*2:]))
		g := cmapGroup{start: start, end: end, delta: delta, format4: true}
		if ro != 0 {
			g.rangeOff = ranges + i*2 + ro
		}
		t.groups = append(t.groups, g)
	}
	return t, nil
}

func (t *cmapTable) lookup(r rune) (uint16, bool) {
	i := sort.Search(len(t.groups), func(i int) bool { return t.groups[i].end >= r })
	if i >= len(t.groups) || r < t.groups[i].start {
		return 0, false
	}
	g := t.groups[i]
	if !g.format4 {
		gid := g.glyph + uint32(r-g.start)
		return uint16(gid), gid != 0 && gid <= 0xFFFF //nolint:gosec // checked against 0xFFFF
	}
	if g.rangeOff == 0 {
		gid := uint16(int32(r) + g.delta) //nolint:gosec // modulo 65536 per format 4
		return gid, gid != 0
	}
	pos := g.rangeOff + int(r-g.start)*2
	if pos+2 > len(t.data) {
		return 0, false
	}
	gid := binary.BigEndian.Uint16(t.data[pos:])
	if gid == 0 {
		return 0, false
	}
	gid = uint16(int32(gid) + g.delta) //nolint:gosec // modulo 65536 per format 4
	return gid, gid != 0
}
