// Package extract unpacks the bundled emoji archives into the user packages
// directory on first run.
//
// Only emoji assets and text license files are written; every other entry
// of an archive is skipped. Extraction runs synchronously through
// Extractor, or on a background goroutine through Worker, which adds
// pause, resume and cancel.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"

	"github.com/gogpu/purrmoji/catalog"
	"github.com/gogpu/purrmoji/internal/logx"
)

// Errors reported by extraction.
var (
	ErrUnknownPackage = errors.New("extract: unknown package")
	ErrArchiveMissing = errors.New("extract: archive not found")
	ErrUnsafePath     = errors.New("extract: archive entry escapes target directory")
	ErrNotAttempted   = errors.New("extract: not attempted")
)

// progressEvery is the number of files between progress reports.
const progressEvery = 100

// Archive is one zip file of a package.
type Archive struct {
	Name string

	// Folder is the top-level folder the archive unpacks to. Empty for
	// archives that only need RequiredFiles.
	Folder             string
	RequiredSubfolders []string
	RequiredFiles      []string
}

// Package is an extractable emoji package.
type Package struct {
	// Name is the folder name under both the source and target roots.
	Name string
	// Catalog is the catalog package name it provides.
	Catalog  string
	Archives []Archive
}

// Packages returns the bundled packages in extraction order.
func Packages() []Package {
	return []Package{
		{
			Name:    "Emojitwo",
			Catalog: catalog.EmojiTwo,
			Archives: []Archive{{
				Name:               "emojitwo-master.zip",
				Folder:             "emojitwo-master",
				RequiredSubfolders: []string{"png", "svg", "png_bw", "svg_bw"},
			}},
		},
		{
			Name:    "OpenMoji",
			Catalog: catalog.OpenMoji,
			Archives: []Archive{{
				Name:               "openmoji-master.zip",
				Folder:             "openmoji-master",
				RequiredSubfolders: []string{"color", "black"},
			}},
		},
		{
			Name:    "Twemoji",
			Catalog: catalog.Twemoji,
			Archives: []Archive{{
				Name:               "twemoji-14.0.2.zip",
				Folder:             "twemoji-14.0.2",
				RequiredSubfolders: []string{"assets"},
			}},
		},
		{
			Name:    "Noto",
			Catalog: catalog.Noto,
			Archives: []Archive{
				{Name: "Noto_Color_Emoji.zip", RequiredFiles: []string{"NotoColorEmoji-Regular.ttf"}},
				{Name: "Noto_Emoji.zip", RequiredFiles: []string{"NotoEmoji-VariableFont_wght.ttf"}},
			},
		},
	}
}

var assetExts = map[string]bool{
	".png": true, ".svg": true, ".ttf": true, ".otf": true, ".woff": true, ".woff2": true,
}

var licenseWords = []string{"license", "licence", "copyright", "copying", "ofl", "notice", "authors"}

// ShouldExtract reports whether an archive entry is an emoji asset or a
// text license file.
func ShouldExtract(name string) bool {
	if name == "" || strings.HasSuffix(name, "/") {
		return false
	}
	base := strings.ToLower(path.Base(name))
	ext := path.Ext(base)
	if ext == ".txt" || ext == ".md" || ext == "" {
		for _, w := range licenseWords {
			if strings.Contains(base, w) {
				return true
			}
		}
	}
	return assetExts[ext]
}

// Progress is one extraction progress report.
type Progress struct {
	Package string
	Current int
	Total   int
	Message string
}

// ProgressFunc receives progress reports. It may be nil.
type ProgressFunc func(Progress)

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.log = logx.OrNop(l) }
}

// WithPackages replaces the bundled package table.
func WithPackages(pkgs ...Package) Option {
	return func(e *Extractor) { e.packages = pkgs }
}

// Extractor unpacks archives from source/<package>/ into target/<package>/.
type Extractor struct {
	fs       afero.Fs
	source   string
	target   string
	log      *slog.Logger
	packages []Package
}

// New creates an extractor.
func New(fsys afero.Fs, source, target string, opts ...Option) *Extractor {
	e := &Extractor{fs: fsys, source: source, target: target, log: logx.Nop(), packages: Packages()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Target returns the user packages directory.
func (e *Extractor) Target() string { return e.target }

// Packages returns the package names in extraction order.
func (e *Extractor) Packages() []string {
	names := make([]string, len(e.packages))
	for i, p := range e.packages {
		names[i] = p.Name
	}
	return names
}

func (e *Extractor) lookup(name string) (Package, bool) {
	for _, p := range e.packages {
		if strings.EqualFold(p.Name, name) || strings.EqualFold(p.Catalog, name) {
			return p, true
		}
	}
	return Package{}, false
}

// Manages reports whether name, a package or catalog name, is extracted
// by e. Packages it does not manage need no extraction.
func (e *Extractor) Manages(name string) bool {
	_, ok := e.lookup(name)
	return ok
}

// IsExtracted reports whether every required folder and file of the
// package exists in the target directory.
func (e *Extractor) IsExtracted(name string) bool {
	p, ok := e.lookup(name)
	if !ok {
		return false
	}
	dir := filepath.Join(e.target, p.Name)
	if !e.isDir(dir) {
		return false
	}
	for _, a := range p.Archives {
		if a.Folder != "" {
			root := filepath.Join(dir, a.Folder)
			if !e.isDir(root) {
				return false
			}
			for _, sub := range a.RequiredSubfolders {
				if !e.isDir(filepath.Join(root, sub)) {
					return false
				}
			}
		}
		for _, f := range a.RequiredFiles {
			if !e.contains(dir, f) {
				return false
			}
		}
	}
	return true
}

func (e *Extractor) isDir(p string) bool {
	info, err := e.fs.Stat(p)
	return err == nil && info.IsDir()
}

// contains searches dir recursively for a file named name.
func (e *Extractor) contains(dir, name string) bool {
	found := errors.New("found")
	err := afero.Walk(e.fs, dir, func(_ string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && info.Name() == name {
			return found
		}
		return nil
	})
	return errors.Is(err, found)
}

// Extract unpacks one package. Cancelling ctx stops it between files.
func (e *Extractor) Extract(ctx context.Context, name string, progress ProgressFunc) error {
	return e.extract(ctx, name, progress, nil)
}

func (e *Extractor) extract(ctx context.Context, name string, progress ProgressFunc, pause *pauser) error {
	p, ok := e.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPackage, name)
	}
	report := func(cur, total int, msg string) {
		if progress != nil {
			progress(Progress{Package: p.Name, Current: cur, Total: total, Message: msg})
		}
	}

	target := filepath.Join(e.target, p.Name)
	if err := e.fs.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	n := len(p.Archives)
	for i, a := range p.Archives {
		if n > 1 {
			report(i, n, fmt.Sprintf("Extracting %s (%d/%d): %s", p.Name, i+1, n, a.Name))
		}
		src := filepath.Join(e.source, p.Name, a.Name)
		if err := e.unzip(ctx, p.Name, src, target, report, pause); err != nil {
			return err
		}
	}
	report(n, n, p.Name+" extracted successfully")
	e.log.Info("extract: package extracted", "package", p.Name)
	return nil
}

func (e *Extractor) unzip(ctx context.Context, pkg, src, target string, report func(int, int, string), pause *pauser) (err error) {
	f, err := e.fs.Open(src)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrArchiveMissing, src)
	}
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("extract: open %s: %w", src, err)
	}

	var files []*zip.File
	for _, zf := range zr.File {
		if ShouldExtract(zf.Name) {
			files = append(files, zf)
		}
	}
	total := len(files)
	report(0, total, fmt.Sprintf("Extracting %s (%d emoji files)...", pkg, total))

	for i, zf := range files {
		if err := pause.wait(ctx); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		dest := filepath.Join(target, filepath.FromSlash(zf.Name))
		rel, rerr := filepath.Rel(target, dest)
		if rerr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, zf.Name)
		}
		if err := e.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		if err := e.writeFile(zf, dest); err != nil {
			return fmt.Errorf("extract: %s: %w", zf.Name, err)
		}
		if (i+1)%progressEvery == 0 {
			report(i+1, total, fmt.Sprintf("Extracting %s... (%d/%d)", pkg, i+1, total))
		}
	}
	return nil
}

func (e *Extractor) writeFile(zf *zip.File, dest string) (err error) {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	out, err := e.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, rc)
	return err
}

// Results maps package names to their extraction outcome; nil means
// success.
type Results map[string]error

// OK reports whether every package succeeded.
func (r Results) OK() bool {
	for _, err := range r {
		if err != nil {
			return false
		}
	}
	return true
}

// ExtractAll extracts every package that is not yet extracted, in order.
// It stops at the first failure and marks the remaining packages
// ErrNotAttempted.
func (e *Extractor) ExtractAll(ctx context.Context, progress ProgressFunc) Results {
	return e.extractAll(ctx, progress, nil)
}

func (e *Extractor) extractAll(ctx context.Context, progress ProgressFunc, pause *pauser) Results {
	results := make(Results, len(e.packages))
	var todo []string
	for _, p := range e.packages {
		results[p.Name] = nil
		if !e.IsExtracted(p.Name) {
			todo = append(todo, p.Name)
		}
	}
	if len(todo) == 0 {
		if progress != nil {
			progress(Progress{Current: 1, Total: 1, Message: "All packages already extracted"})
		}
		return results
	}
	for i, name := range todo {
		if progress != nil {
			progress(Progress{
				Package: name,
				Current: i,
				Total:   len(todo),
				Message: fmt.Sprintf("Extracting package %d/%d: %s", i+1, len(todo), name),
			})
		}
		if err := e.extract(ctx, name, progress, pause); err != nil {
			e.log.Warn("extract: package failed", "package", name, "err", err)
			results[name] = err
			for _, rest := range todo[i+1:] {
				results[rest] = ErrNotAttempted
			}
			break
		}
	}
	return results
}

// Clear removes an extracted package.
func (e *Extractor) Clear(name string) error {
	p, ok := e.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPackage, name)
	}
	if err := e.fs.RemoveAll(filepath.Join(e.target, p.Name)); err != nil {
		return fmt.Errorf("extract: clear %s: %w", p.Name, err)
	}
	return nil
}

// ClearAll removes every extracted package.
func (e *Extractor) ClearAll() error {
	var errs []error
	for _, p := range e.packages {
		if err := e.Clear(p.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
