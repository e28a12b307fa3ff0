package icon

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/gogpu/purrmoji/backend"
	"github.com/gogpu/purrmoji/cache"
	"github.com/gogpu/purrmoji/catalog"
	"github.com/gogpu/purrmoji/emoji"
	"github.com/gogpu/purrmoji/index"
	"github.com/gogpu/purrmoji/internal/bitmap"
	"github.com/gogpu/purrmoji/internal/logx"
)

// errNoAsset is logged when a package has nothing to draw a glyph with.
var errNoAsset = errors.New("icon: no asset")

// maxSideIndexes bounds the indexes kept for folders other than the active
// one, such as a preview size next to the grid size.
const maxSideIndexes = 8

// Option configures a Resolver.
type Option func(*options)

type options struct {
	log      *slog.Logger
	capacity int
}

// WithLogger sets the logger. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = logx.OrNop(l) }
}

// WithCapacity sets the render cache capacity. The default is
// cache.DefaultCapacity.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// Resolver produces bitmaps for glyphs.
//
// The resolver is not safe for concurrent use. Returned images are shared
// with the cache and must not be modified.
type Resolver struct {
	paths   *catalog.Resolver
	backend backend.Backend
	log     *slog.Logger

	cache  *cache.FIFO[Key, *image.NRGBA]
	owners map[string]string // cache Source -> package name

	active *index.Index
	side   map[folderExt]*index.Index
	fonts  map[string]*backend.Font
}

type folderExt struct{ folder, ext string }

// New creates a resolver that finds assets with paths and rasterizes them
// with b. It fails only for an invalid cache capacity.
func New(paths *catalog.Resolver, b backend.Backend, opts ...Option) (*Resolver, error) {
	o := options{log: logx.Nop(), capacity: cache.DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	c, err := cache.New[Key, *image.NRGBA](o.capacity)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		paths:   paths,
		backend: b,
		log:     o.log,
		cache:   c,
		owners:  make(map[string]string),
		active:  index.Build(paths.Fs(), "", ""),
		side:    make(map[folderExt]*index.Index),
		fonts:   make(map[string]*backend.Font),
	}, nil
}

// Resolve returns the bitmap for glyph under cfg, or nil when the glyph
// cannot be drawn.
func (r *Resolver) Resolve(glyph string, cfg Config) *image.NRGBA {
	return r.resolve(glyph, cfg, false)
}

// ResolveCategory returns the bitmap for a category button. Contrast is
// ignored; black artwork is inverted on medium and dark themes so it stays
// visible.
func (r *Resolver) ResolveCategory(glyph string, cfg Config) *image.NRGBA {
	return r.resolve(glyph, cfg, true)
}

func (r *Resolver) resolve(glyph string, cfg Config, category bool) *image.NRGBA {
	cat := r.paths.Catalog()
	cfg = cfg.Normalize(cat)
	d, ok := cat.Lookup(cfg.Package)
	if !ok {
		r.log.Debug("icon: unknown package", "package", cfg.Package)
		return nil
	}
	glyph = emoji.Normalize(glyph)
	if glyph == "" {
		return nil
	}

	fontBased := usesFont(d, cfg.Format)
	key := Key{Glyph: glyph, Size: cfg.Size, Category: category}
	if fontBased {
		key.Source = d.Name
		key.Variant = cfg.Variant
	} else {
		folder, ok := r.paths.Resolve(d.Name, cfg.Variant, cfg.Format, cfg.Size)
		if !ok {
			r.log.Debug("icon: no folder", "package", d.Name, "format", cfg.Format)
			return nil
		}
		key.Source = folder
	}
	if category {
		key.Theme = cfg.Theme
	} else {
		key.Contrast = cfg.Contrast
	}

	if img, ok := r.cache.Get(key); ok {
		return img
	}

	var img *image.NRGBA
	var err error
	if fontBased {
		img, err = r.renderFont(d, glyph, cfg)
	} else {
		img, err = r.renderFile(d, key.Source, glyph, cfg)
	}
	if err != nil {
		r.log.Debug("icon: render failed", "glyph", emoji.Encode(glyph), "package", d.Name, "err", err)
		return nil
	}

	if category {
		if cfg.Variant == catalog.Black && cfg.Theme != Light {
			bitmap.Invert(img)
		}
	} else if cfg.Contrast {
		bitmap.Invert(img)
	}

	r.cache.Put(key, img)
	r.owners[key.Source] = d.Name
	return img
}

func usesFont(d *catalog.Descriptor, f catalog.Format) bool {
	return d.Kind.FontBased() || f == catalog.Font
}

func (r *Resolver) renderFont(d *catalog.Descriptor, glyph string, cfg Config) (*image.NRGBA, error) {
	style := backend.StyleColor
	if cfg.Variant == catalog.Black {
		style = backend.StyleMonochrome
	}

	var font *backend.Font
	if d.Kind != catalog.TextBased {
		p, ok := r.paths.FontFile(d.Name, cfg.Variant)
		if !ok {
			return nil, fmt.Errorf("%w: %s font", errNoAsset, d.Name)
		}
		f, err := r.font(p)
		if err != nil {
			return nil, err
		}
		font = f
	}
	return r.backend.RasterizeText(font, glyph, cfg.Size, style)
}

func (r *Resolver) font(p string) (*backend.Font, error) {
	if f, ok := r.fonts[p]; ok {
		return f, nil
	}
	data, err := afero.ReadFile(r.paths.Fs(), p)
	if err != nil {
		return nil, fmt.Errorf("icon: read font: %w", err)
	}
	f := &backend.Font{Path: p, Data: data}
	r.fonts[p] = f
	return f, nil
}

func (r *Resolver) renderFile(d *catalog.Descriptor, folder, glyph string, cfg Config) (*image.NRGBA, error) {
	idx := r.indexFor(folder, cfg.Format.Ext())
	p, err := r.locate(idx, d, folder, glyph, cfg)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(r.paths.Fs(), p)
	if err != nil {
		return nil, fmt.Errorf("icon: read asset: %w", err)
	}
	if strings.EqualFold(filepath.Ext(p), ".svg") {
		return r.backend.RasterizeSVG(data, cfg.Size)
	}
	return r.backend.RasterizeImage(data, cfg.Size)
}

// locate finds the asset file for glyph: the indexed file, else the file
// named after its code points, else the same name in the package's default
// PNG folder.
func (r *Resolver) locate(idx *index.Index, d *catalog.Descriptor, folder, glyph string, cfg Config) (string, error) {
	fs := r.paths.Fs()
	name, ok := idx.Filename(glyph)
	if !ok {
		name = emoji.Encode(glyph) + idx.Ext()
	}
	p := filepath.Join(folder, name)
	if exists(fs, p) {
		return p, nil
	}
	if cfg.Format == catalog.PNG {
		if def, ok := r.paths.DefaultFolder(d.Name, cfg.Variant); ok {
			if dp := filepath.Join(def, name); exists(fs, dp) {
				return dp, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", os.ErrNotExist, p)
}

// indexFor returns the glyph index of folder. The first folder resolved
// becomes the active one; any other folder gets a side index so resolving
// it leaves the active folder and its cached bitmaps alone.
func (r *Resolver) indexFor(folder, ext string) *index.Index {
	if folder == r.active.Folder() && ext == r.active.Ext() {
		return r.active
	}
	if r.active.Folder() == "" {
		r.SetFolder(folder, ext)
		return r.active
	}
	k := folderExt{folder, ext}
	if idx, ok := r.side[k]; ok {
		return idx
	}
	if len(r.side) >= maxSideIndexes {
		clear(r.side)
	}
	idx := index.Build(r.paths.Fs(), folder, ext)
	r.side[k] = idx
	return idx
}

func exists(fs afero.Fs, p string) bool {
	info, err := fs.Stat(p)
	return err == nil && !info.IsDir()
}

// SetFolder makes folder the active asset folder. When it differs from the
// current one the glyph index is rebuilt and cached bitmaps from the old
// folder are dropped. It reports whether the folder changed.
func (r *Resolver) SetFolder(folder, ext string) bool {
	if folder == r.active.Folder() && ext == r.active.Ext() {
		return false
	}
	old := r.active.Folder()
	r.active = index.Build(r.paths.Fs(), folder, ext)
	delete(r.side, folderExt{folder, ext})
	n := r.evictSource(old)
	r.log.Info("icon: folder changed", "folder", folder, "glyphs", r.active.Len(), "evicted", n)
	return true
}

// Rebuild rescans the active folder and drops its cached bitmaps. Use it
// after the folder contents change, such as when a custom folder is
// refreshed. Side indexes of other folders are rebuilt on next use.
func (r *Resolver) Rebuild() {
	folder := r.active.Folder()
	r.active = index.Build(r.paths.Fs(), folder, r.active.Ext())
	clear(r.side)
	r.evictSource(folder)
}

func (r *Resolver) evictSource(source string) int {
	if source == "" {
		return 0
	}
	delete(r.owners, source)
	return r.cache.Invalidate(func(k Key) bool { return k.Source == source })
}

// Index returns the glyph index of the active folder.
func (r *Resolver) Index() *index.Index { return r.active }

// Invalidate drops every cached bitmap rendered for pkg and returns how
// many were removed.
func (r *Resolver) Invalidate(pkg string) int {
	name := pkg
	if d, ok := r.paths.Catalog().Lookup(pkg); ok {
		name = d.Name
	}
	n := r.cache.Invalidate(func(k Key) bool { return r.owners[k.Source] == name })
	for src, owner := range r.owners {
		if owner == name {
			delete(r.owners, src)
		}
	}
	return n
}

// InvalidateVariant drops the cached font renders of pkg in variant v.
func (r *Resolver) InvalidateVariant(pkg string, v catalog.Variant) int {
	return r.cache.Invalidate(func(k Key) bool {
		return k.Source == pkg && k.Variant == v
	})
}

// Clear drops every cached bitmap and loaded font.
func (r *Resolver) Clear() {
	r.cache.Clear()
	clear(r.owners)
	clear(r.fonts)
}

// Len returns the number of cached bitmaps.
func (r *Resolver) Len() int { return r.cache.Len() }

// Stats returns the render cache counters.
func (r *Resolver) Stats() cache.Stats { return r.cache.Stats() }
