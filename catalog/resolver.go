package catalog

import (
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

var fontExts = []string{".ttf", ".otf", ".ttc"}

// Resolver maps render requests onto package folders and font files.
// Paths for FileBased and SingleFont packages are relative to root.
type Resolver struct {
	fs      afero.Fs
	root    string
	custom  string
	catalog *Catalog
}

// NewResolver creates a resolver over fs. root is the packages directory
// and custom the user folder served by the Custom package.
func NewResolver(fs afero.Fs, root, custom string, cat *Catalog) *Resolver {
	if cat == nil {
		cat = Builtin()
	}
	return &Resolver{fs: fs, root: root, custom: custom, catalog: cat}
}

// Catalog returns the catalog the resolver reads descriptors from.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

// Fs returns the filesystem paths are resolved against.
func (r *Resolver) Fs() afero.Fs { return r.fs }

// Resolve returns the folder holding per-glyph files for png and svg, or
// the font location for font requests. Only system fonts are looked up on
// the filesystem.
//
// Unsupported variants and formats fall back to the package defaults and
// undeclared sizes to the nearest declared one. The result is false for
// unknown packages and for packages with no assets.
func (r *Resolver) Resolve(pkg string, v Variant, f Format, size int) (string, bool) {
	d, ok := r.catalog.Lookup(pkg)
	if !ok {
		return "", false
	}
	v = d.Variant(v)
	f = d.Format(f)

	switch d.Kind {
	case CustomFolder:
		if r.custom == "" {
			return "", false
		}
		return r.custom, true
	case TextBased:
		return "", false
	case SystemFont:
		return r.systemFont(d)
	case SingleFont:
		return r.join(d.Layout.Font[v])
	}

	switch f {
	case SVG:
		return r.join(d.Layout.SVG[v])
	case Font:
		return r.join(d.Layout.Font[v])
	default:
		tmpl := d.Layout.PNG[v]
		if tmpl == "" {
			return "", false
		}
		return r.join(expandSize(tmpl, d.Size(size)))
	}
}

// DefaultFolder returns the unsized PNG folder searched when a sized
// folder lacks a file.
func (r *Resolver) DefaultFolder(pkg string, v Variant) (string, bool) {
	d, ok := r.catalog.Lookup(pkg)
	if !ok || d.Kind != FileBased {
		return "", false
	}
	return r.join(d.Layout.PNGDefault[d.Variant(v)])
}

// FontFile returns an existing font file for the package. Folder
// locations are searched for their first font file by name.
func (r *Resolver) FontFile(pkg string, v Variant) (string, bool) {
	d, ok := r.catalog.Lookup(pkg)
	if !ok {
		return "", false
	}
	v = d.Variant(v)

	var candidates []string
	switch d.Kind {
	case SystemFont:
		return r.systemFont(d)
	case CustomFolder:
		candidates = []string{r.custom}
	case TextBased:
		return "", false
	default:
		for _, p := range d.Layout.FontProbe[v] {
			if full, ok := r.join(p); ok {
				candidates = append(candidates, full)
			}
		}
		if full, ok := r.join(d.Layout.Font[v]); ok {
			candidates = append(candidates, full)
		}
	}

	for _, c := range candidates {
		if f, ok := r.fontAt(c); ok {
			return f, true
		}
	}
	return "", false
}

// fontAt returns p if it is a font file, or the first font file in p if
// it is a directory.
func (r *Resolver) fontAt(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	info, err := r.fs.Stat(p)
	if err != nil {
		return "", false
	}
	if !info.IsDir() {
		return p, true
	}
	entries, err := afero.ReadDir(r.fs, p)
	if err != nil {
		return "", false
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isFontFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", false
	}
	slices.Sort(names)
	return filepath.Join(p, names[0]), true
}

func (r *Resolver) systemFont(d *Descriptor) (string, bool) {
	for _, p := range d.Layout.SystemFonts {
		if info, err := r.fs.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

func (r *Resolver) join(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}
	return filepath.Join(r.root, filepath.FromSlash(rel)), true
}

func expandSize(tmpl string, size int) string {
	return strings.ReplaceAll(tmpl, SizeToken, strconv.Itoa(size))
}

func isFontFile(name string) bool {
	return slices.Contains(fontExts, strings.ToLower(path.Ext(name)))
}
