// Package catalog describes the emoji asset packages and resolves where
// each one keeps its files on disk.
//
// A Descriptor is built once from static tables and never mutated. The Kind
// of a package selects how glyphs are produced:
//
//	FileBased     one image file per glyph, in per-format folders
//	SingleFont    one font file per variant
//	CustomFolder  a user folder of images or fonts
//	SystemFont    a font installed with the operating system
//	TextBased     kaomoji text, no assets
package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is the asset model of a package.
type Kind int

const (
	FileBased Kind = iota
	SingleFont
	CustomFolder
	TextBased
	SystemFont
)

var kindNames = [...]string{
	FileBased:    "files",
	SingleFont:   "font",
	CustomFolder: "custom",
	TextBased:    "text",
	SystemFont:   "system-font",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// FontBased reports whether glyphs of this kind come from a font.
func (k Kind) FontBased() bool {
	return k == SingleFont || k == SystemFont || k == TextBased
}

// Variant selects between full-color and monochrome artwork.
type Variant int

const (
	Color Variant = iota
	Black
)

func (v Variant) String() string {
	if v == Black {
		return "black"
	}
	return "color"
}

// ParseVariant parses "color" or "black".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "color", "colour", "":
		return Color, nil
	case "black", "bw", "mono":
		return Black, nil
	}
	return Color, fmt.Errorf("catalog: unknown variant %q", s)
}

// Format is the asset file format.
type Format int

const (
	PNG Format = iota
	SVG
	Font
)

func (f Format) String() string {
	switch f {
	case SVG:
		return "svg"
	case Font:
		return "font"
	default:
		return "png"
	}
}

// Ext returns the filename extension of per-glyph files, or "" for fonts.
func (f Format) Ext() string {
	switch f {
	case PNG:
		return ".png"
	case SVG:
		return ".svg"
	}
	return ""
}

// ParseFormat parses "png", "svg", "font" or "ttf".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "":
		return PNG, nil
	case "svg":
		return SVG, nil
	case "font", "ttf", "otf":
		return Font, nil
	}
	return PNG, fmt.Errorf("catalog: unknown format %q", s)
}

// SizeToken is replaced by the pixel size in Layout folder templates.
const SizeToken = "{size}"

// Layout holds folder templates relative to the packages root.
// Templates may contain SizeToken.
type Layout struct {
	PNG map[Variant]string
	SVG map[Variant]string

	// PNGDefault is searched when a sized PNG folder lacks a file.
	PNGDefault map[Variant]string

	// Font is a font file, or a folder whose first font file is used.
	Font map[Variant]string

	// FontProbe lists locations tried before Font.
	FontProbe map[Variant][]string

	// SystemFonts lists absolute font paths for SystemFont packages.
	SystemFonts []string
}

// Descriptor describes one emoji package.
type Descriptor struct {
	Name     string
	Kind     Kind
	Variants []Variant
	Formats  []Format

	// Sizes lists the pixel sizes with their own folder, ascending.
	Sizes []int

	Layout Layout
}

// SupportsVariant reports whether v is offered by the package.
func (d *Descriptor) SupportsVariant(v Variant) bool {
	return slices.Contains(d.Variants, v)
}

// SupportsFormat reports whether f is offered by the package.
func (d *Descriptor) SupportsFormat(f Format) bool {
	return slices.Contains(d.Formats, f)
}

// Variant returns v when supported, otherwise the package's first variant.
func (d *Descriptor) Variant(v Variant) Variant {
	if d.SupportsVariant(v) || len(d.Variants) == 0 {
		return v
	}
	return d.Variants[0]
}

// Format returns f when supported, otherwise the package's preferred format.
func (d *Descriptor) Format(f Format) Format {
	if d.SupportsFormat(f) || len(d.Formats) == 0 {
		return f
	}
	if d.SupportsFormat(PNG) {
		return PNG
	}
	return d.Formats[0]
}

// DefaultSize is the size used when a request does not name one:
// the first declared size of at least 72 px, else the smallest.
func (d *Descriptor) DefaultSize() int {
	for _, s := range d.Sizes {
		if s >= 72 {
			return s
		}
	}
	if len(d.Sizes) > 0 {
		return d.Sizes[0]
	}
	return 0
}

// Size maps a requested size onto a declared one: non-positive sizes
// select DefaultSize, others the nearest declared size.
func (d *Descriptor) Size(want int) int {
	if want <= 0 {
		return d.DefaultSize()
	}
	if len(d.Sizes) == 0 {
		return want
	}
	return NearestSize(d.Sizes, want)
}

// NearestSize returns the entry of sizes closest to want. Ties go to the
// smaller size. sizes must be non-empty.
func NearestSize(sizes []int, want int) int {
	best := sizes[0]
	bestDist := abs(best - want)
	for _, s := range sizes[1:] {
		d := abs(s - want)
		if d < bestDist || (d == bestDist && s < best) {
			best, bestDist = s, d
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Catalog is an immutable set of package descriptors.
type Catalog struct {
	order  []string
	byName map[string]*Descriptor
}

// New builds a catalog. Later descriptors replace earlier ones with the
// same case-insensitive name.
func New(descs ...Descriptor) *Catalog {
	c := &Catalog{byName: make(map[string]*Descriptor, len(descs))}
	for i := range descs {
		d := descs[i]
		d.Sizes = slices.Sorted(slices.Values(d.Sizes))
		key := strings.ToLower(d.Name)
		if _, ok := c.byName[key]; !ok {
			c.order = append(c.order, d.Name)
		}
		c.byName[key] = &d
	}
	return c
}

// Lookup finds a package by case-insensitive name.
func (c *Catalog) Lookup(name string) (*Descriptor, bool) {
	d, ok := c.byName[strings.ToLower(name)]
	return d, ok
}

// Names returns package names in declaration order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}
