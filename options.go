package purrmoji

import (
	"github.com/spf13/afero"

	"github.com/gogpu/purrmoji/backend"
	"github.com/gogpu/purrmoji/catalog"
	"github.com/gogpu/purrmoji/store"
)

// Option configures a Session during Open.
//
// Example:
//
//	// In-memory session for tests
//	s, err := purrmoji.Open(cfg,
//	    purrmoji.WithFs(afero.NewMemMapFs()),
//	    purrmoji.WithStore(store.NewMemory()))
type Option func(*options)

// options holds optional configuration for Session creation.
type options struct {
	fs        afero.Fs
	backend   backend.Backend
	store     store.Store
	catalog   *catalog.Catalog
	clipboard func(string) error
}

// defaultOptions returns the default session options.
func defaultOptions() options {
	return options{
		fs: afero.NewOsFs(),
	}
}

// WithFs sets the filesystem all package assets, fonts and data files are
// read from. The default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithBackend sets the rasterizer. The default chains the vector and basic
// backends.
func WithBackend(b backend.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithStore sets the usage store. The session takes ownership and closes
// it on Close. By default the store named by the configuration is opened.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithCatalog replaces the built-in package catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithClipboard sets the function Copy writes glyphs with. Without it Copy
// only records the use.
func WithClipboard(write func(string) error) Option {
	return func(o *options) {
		o.clipboard = write
	}
}
