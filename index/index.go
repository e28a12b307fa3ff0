// Package index maps glyphs to the asset files of a package folder.
//
// An Index is built by scanning one folder for files named after their
// code points (1F469-200D-1F4BB.png). Multi-code-point files are also
// recorded as variations of their first code point, so a picker can offer
// skin tones and ZWJ combinations under a single base glyph.
//
// Indexes are immutable; a folder change means building a new one.
package index

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/gogpu/purrmoji/emoji"
)

// Variation is one multi-code-point file grouped under its base glyph.
type Variation struct {
	Filename   string
	Codepoints []string
	Glyph      string
}

// Index maps glyphs to filenames within one folder.
type Index struct {
	folder     string
	ext        string
	files      map[string]string
	variations map[string][]Variation
}

// Build scans folder for files with extension ext (matched without regard
// to case) and indexes them. A missing or unreadable folder yields an empty
// index. Files whose names are not valid code-point strings are skipped.
//
// Files are visited in name order. A full glyph always maps to its own
// file; a base glyph keeps the first file that claimed it.
func Build(fs afero.Fs, folder, ext string) *Index {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	idx := &Index{
		folder:     folder,
		ext:        ext,
		files:      make(map[string]string),
		variations: make(map[string][]Variation),
	}

	entries, err := afero.ReadDir(fs, folder)
	if err != nil {
		return idx
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	for _, name := range names {
		stem := name[:len(name)-len(ext)]
		glyph, err := emoji.DecodeStrict(stem)
		if err != nil {
			continue
		}
		idx.files[glyph] = name

		codes := strings.Split(stem, emoji.Separator)
		if len(codes) < 2 {
			continue
		}
		base := emoji.FirstCodepoint(glyph)
		if _, taken := idx.files[base]; !taken {
			idx.files[base] = name
		}
		idx.variations[base] = append(idx.variations[base], Variation{
			Filename:   name,
			Codepoints: codes,
			Glyph:      glyph,
		})
	}
	return idx
}

// Folder returns the scanned folder.
func (idx *Index) Folder() string { return idx.folder }

// Ext returns the extension the index was built for.
func (idx *Index) Ext() string { return idx.ext }

// Len returns the number of indexed glyphs.
func (idx *Index) Len() int { return len(idx.files) }

// Filename returns the file for glyph. The glyph is normalized first.
func (idx *Index) Filename(glyph string) (string, bool) {
	if name, ok := idx.files[glyph]; ok {
		return name, true
	}
	name, ok := idx.files[emoji.Normalize(glyph)]
	return name, ok
}

// Path returns the full path of glyph's file.
func (idx *Index) Path(glyph string) (string, bool) {
	name, ok := idx.Filename(glyph)
	if !ok {
		return "", false
	}
	return filepath.Join(idx.folder, name), true
}

// Variations returns the variations grouped under base, in name order.
func (idx *Index) Variations(base string) []Variation {
	return slices.Clone(idx.variations[emoji.Normalize(base)])
}

// HasVariations reports whether base has at least one variation.
func (idx *Index) HasVariations(base string) bool {
	return len(idx.variations[emoji.Normalize(base)]) > 0
}

// Glyphs returns all indexed glyphs sorted by code point.
func (idx *Index) Glyphs() []string {
	out := make([]string, 0, len(idx.files))
	for g := range idx.files {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// Formats reports which asset formats exist directly inside a folder.
type Formats struct {
	PNG  bool
	SVG  bool
	Font bool
}

// Any reports whether at least one format was found.
func (f Formats) Any() bool { return f.PNG || f.SVG || f.Font }

// DetectFormats scans folder for png, svg and font files.
func DetectFormats(fs afero.Fs, folder string) Formats {
	var f Formats
	entries, err := afero.ReadDir(fs, folder)
	if err != nil {
		return f
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png":
			f.PNG = true
		case ".svg":
			f.SVG = true
		case ".ttf", ".otf":
			f.Font = true
		}
	}
	return f
}
