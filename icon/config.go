// Package icon turns glyphs into cached bitmaps for the active package
// configuration.
//
// A Resolver looks up the asset for a glyph through the catalog and the
// glyph index, rasterizes it with a backend chain and stores the result in a
// FIFO cache keyed by every dimension that changes the output. Failures are
// never returned: a glyph that cannot be drawn resolves to nil and the
// caller shows its fallback.
package icon

import (
	"fmt"
	"strings"

	"github.com/gogpu/purrmoji/catalog"
)

// DefaultSize is the pixel size used when neither a Config nor its
// package names one.
const DefaultSize = 48

// Theme is the picker color scheme. Only category icons depend on it.
type Theme int

const (
	Light Theme = iota
	Medium
	Dark
)

var themeNames = [...]string{Light: "light", Medium: "medium", Dark: "dark"}

func (t Theme) String() string {
	if t >= 0 && int(t) < len(themeNames) {
		return themeNames[t]
	}
	return fmt.Sprintf("Theme(%d)", int(t))
}

// ParseTheme parses "light", "medium" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "":
		return Light, nil
	case "medium":
		return Medium, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("icon: unknown theme %q", s)
}

// Config is a complete render configuration.
type Config struct {
	Package  string
	Variant  catalog.Variant
	Format   catalog.Format
	Size     int
	Contrast bool
	Theme    Theme
}

// Normalize resolves c against the package descriptor: unsupported variants
// and formats become the package defaults, a missing size becomes the
// package default size, and Contrast is cleared unless the variant is
// black. Unknown packages keep their fields.
func (c Config) Normalize(cat *catalog.Catalog) Config {
	if d, ok := cat.Lookup(c.Package); ok {
		c.Package = d.Name
		c.Variant = d.Variant(c.Variant)
		c.Format = d.Format(c.Format)
		if c.Size <= 0 {
			c.Size = d.DefaultSize()
		}
	}
	if c.Size <= 0 {
		c.Size = DefaultSize
	}
	if c.Variant != catalog.Black {
		c.Contrast = false
	}
	return c
}

// Key identifies one cached bitmap.
//
// Source is the asset folder for file-based packages and the package name
// for font-based ones. Variant is only set for font-based packages since a
// file-based folder already implies it. Category icons never carry
// Contrast but do carry Theme.
type Key struct {
	Glyph    string
	Size     int
	Source   string
	Variant  catalog.Variant
	Contrast bool
	Category bool
	Theme    Theme
}
