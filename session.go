package purrmoji

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/purrmoji/backend"
	"github.com/gogpu/purrmoji/backend/basic"
	"github.com/gogpu/purrmoji/backend/vector"
	"github.com/gogpu/purrmoji/cache"
	"github.com/gogpu/purrmoji/catalog"
	"github.com/gogpu/purrmoji/config"
	"github.com/gogpu/purrmoji/emoji"
	"github.com/gogpu/purrmoji/extract"
	"github.com/gogpu/purrmoji/icon"
	"github.com/gogpu/purrmoji/index"
	"github.com/gogpu/purrmoji/kaomoji"
	"github.com/gogpu/purrmoji/store"
	"github.com/gogpu/purrmoji/usage"
)

// ErrNotReady is returned when a bundled package has not been extracted.
var ErrNotReady = errors.New("purrmoji: package not extracted")

// Session is the picker state for one user. It is not safe for concurrent
// use; the extraction worker started by Extract is the only background
// goroutine and never touches session state.
type Session struct {
	log       *slog.Logger
	paths     *catalog.Resolver
	icons     *icon.Resolver
	usage     *usage.Tracker
	store     store.Store
	extractor *extract.Extractor
	kaomoji   *kaomoji.Data
	clipboard func(string) error

	cfg   icon.Config
	ready map[string]bool
}

// Open creates a session from cfg.
func Open(cfg config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	initial, err := cfg.IconConfig()
	if err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := Logger()

	cat := o.catalog
	if cat == nil {
		cat = catalog.Builtin()
	}
	paths := catalog.NewResolver(o.fs, cfg.PackagesDir, cfg.CustomDir, cat)

	b := o.backend
	if b == nil {
		b = defaultBackend(o, log)
	}
	icons, err := icon.New(paths, b, icon.WithLogger(log), icon.WithCapacity(cfg.CacheCapacity))
	if err != nil {
		return nil, err
	}

	st := o.store
	if st == nil {
		if st, err = openStore(o, cfg); err != nil {
			return nil, err
		}
	}
	tracker, err := usage.New(st, usage.WithLogger(log))
	if err != nil {
		log.Warn("purrmoji: usage data unreadable, starting empty", "err", err)
	}

	kao, err := kaomoji.Load(o.fs, filepath.Join(cfg.DataDir, kaomoji.FileName))
	if err != nil {
		log.Debug("purrmoji: no kaomoji data", "err", err)
	}

	s := &Session{
		log:       log,
		paths:     paths,
		icons:     icons,
		usage:     tracker,
		store:     st,
		extractor: extract.New(o.fs, cfg.SourceDir, cfg.PackagesDir, extract.WithLogger(log)),
		kaomoji:   kao,
		clipboard: o.clipboard,
		ready:     make(map[string]bool),
	}
	s.Apply(initial)
	return s, nil
}

func defaultBackend(o options, log *slog.Logger) backend.Backend {
	reg := backend.NewRegistry(vector.Name, basic.Name)
	reg.Register(vector.Name, func() backend.Backend {
		return vector.New(vector.WithLogger(log))
	})
	reg.Register(basic.Name, func() backend.Backend {
		return basic.New(basic.WithLogger(log), basic.WithFs(o.fs))
	})
	chain := reg.Chain()
	chain.SetLogger(log)
	return chain
}

// openStore opens the configured store. SQLite always lives on the OS
// filesystem.
func openStore(o options, cfg config.Config) (store.Store, error) {
	path := cfg.StorePath()
	switch cfg.Store {
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("purrmoji: %w", err)
		}
		return store.OpenSQLite(path)
	default:
		return store.OpenJSON(o.fs, path)
	}
}

// Close releases the usage store.
func (s *Session) Close() error {
	return s.store.Close()
}

// Config returns the active, normalized render configuration.
func (s *Session) Config() icon.Config { return s.cfg }

// Apply makes cfg the active render configuration and returns its
// normalized form.
//
// Switching to another file-based folder rebuilds the glyph index and drops
// the old folder's cached bitmaps. Leaving a font-based package or changing
// its variant drops that package's cached renders.
func (s *Session) Apply(cfg icon.Config) icon.Config {
	cat := s.paths.Catalog()
	next := cfg.Normalize(cat)
	prev := s.cfg

	if prev.Package != "" && s.fontBased(prev) {
		if prev.Package != next.Package || prev.Variant != next.Variant {
			n := s.icons.Invalidate(prev.Package)
			s.log.Debug("purrmoji: font renders dropped", "package", prev.Package, "evicted", n)
		}
	}

	if !s.fontBased(next) && s.Ready(next.Package) {
		if folder, ok := s.paths.Resolve(next.Package, next.Variant, next.Format, next.Size); ok {
			s.icons.SetFolder(folder, next.Format.Ext())
		}
	}
	s.cfg = next
	return next
}

func (s *Session) fontBased(c icon.Config) bool {
	d, ok := s.paths.Catalog().Lookup(c.Package)
	return ok && (d.Kind.FontBased() || c.Format == catalog.Font)
}

// Ready reports whether pkg can be served. Bundled packages are ready once
// extracted; every other package always is.
func (s *Session) Ready(pkg string) bool {
	if !s.extractor.Manages(pkg) {
		return true
	}
	if s.ready[pkg] {
		return true
	}
	if s.extractor.IsExtracted(pkg) {
		s.ready[pkg] = true
		return true
	}
	return false
}

// CheckReady returns ErrNotReady when the active package still awaits
// extraction.
func (s *Session) CheckReady() error {
	if !s.Ready(s.cfg.Package) {
		return fmt.Errorf("%w: %s", ErrNotReady, s.cfg.Package)
	}
	return nil
}

// Icon returns the bitmap for glyph under the active configuration, or nil
// when it cannot be drawn.
func (s *Session) Icon(glyph string) *image.NRGBA {
	if !s.Ready(s.cfg.Package) {
		return nil
	}
	return s.icons.Resolve(glyph, s.cfg)
}

// CategoryIcon returns the button bitmap for a picker category, such as
// "smileys-emotion", or nil for unknown categories.
func (s *Session) CategoryIcon(category string) *image.NRGBA {
	code, ok := catalog.CategoryIcons[category]
	if !ok || !s.Ready(s.cfg.Package) {
		return nil
	}
	glyph, ok := emoji.Decode(code)
	if !ok {
		return nil
	}
	return s.icons.ResolveCategory(glyph, s.cfg)
}

// Variations returns the multi-code-point files of the active folder
// grouped under glyph, such as skin tone and gender variants.
func (s *Session) Variations(glyph string) []index.Variation {
	return s.icons.Index().Variations(glyph)
}

// Glyphs returns every glyph the active folder has a file for.
func (s *Session) Glyphs() []string {
	return s.icons.Index().Glyphs()
}

// Copy writes glyph to the clipboard, when one is configured, and records
// the use. A clipboard failure records nothing.
func (s *Session) Copy(glyph string) error {
	glyph = emoji.Normalize(glyph)
	if glyph == "" {
		return nil
	}
	if s.clipboard != nil {
		if err := s.clipboard(glyph); err != nil {
			return fmt.Errorf("purrmoji: copy: %w", err)
		}
	}
	s.usage.RecordUse(glyph)
	return nil
}

// Usage returns the usage tracker.
func (s *Session) Usage() *usage.Tracker { return s.usage }

// Kaomoji returns the kaomoji collection. It is empty when no data file
// was found.
func (s *Session) Kaomoji() *kaomoji.Data { return s.kaomoji }

// Extractor returns the extractor for the bundled packages.
func (s *Session) Extractor() *extract.Extractor { return s.extractor }

// Extract starts extracting every bundled package that is not yet
// extracted. Ready picks up finished packages on its next call.
func (s *Session) Extract(ctx context.Context, progress extract.ProgressFunc) *extract.Worker {
	return s.extractor.Start(ctx, progress)
}

// Reload rescans the active folder, such as after the custom folder
// changed, and re-applies the configuration.
func (s *Session) Reload() {
	clear(s.ready)
	s.icons.Rebuild()
	s.Apply(s.cfg)
}

// Stats returns the render cache counters.
func (s *Session) Stats() cache.Stats { return s.icons.Stats() }
