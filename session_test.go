package purrmoji

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"

	"github.com/gogpu/purrmoji/backend"
	"github.com/gogpu/purrmoji/catalog"
	"github.com/gogpu/purrmoji/config"
	"github.com/gogpu/purrmoji/icon"
	"github.com/gogpu/purrmoji/store"
)

const (
	soccer = "\u26bd"
	woman  = "\U0001F469"
)

// squareBackend draws an opaque square for every request and counts calls.
type squareBackend struct{ calls int }

func (b *squareBackend) Name() string    { return "square" }
func (b *squareBackend) Available() bool { return true }

func (b *squareBackend) square(size int) (*image.NRGBA, error) {
	b.calls++
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img, nil
}

func (b *squareBackend) RasterizeImage(_ []byte, size int) (*image.NRGBA, error) {
	return b.square(size)
}

func (b *squareBackend) RasterizeSVG(_ []byte, size int) (*image.NRGBA, error) {
	return b.square(size)
}

func (b *squareBackend) RasterizeText(_ *backend.Font, _ string, size int, _ backend.Style) (*image.NRGBA, error) {
	return b.square(size)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.DataDir = "/data"
	cfg.PackagesDir = "/packages"
	cfg.SourceDir = "/bundle"
	cfg.CustomDir = "/custom"
	return cfg
}

func emojiTwoTree(t *testing.T, fs afero.Fs) {
	t.Helper()
	base := "/packages/Emojitwo/emojitwo-master"
	for _, d := range []string{"png/48", "png/72", "svg", "png_bw", "svg_bw"} {
		if err := fs.MkdirAll(filepath.Join(base, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"png/48/26BD.png", "png/48/1F469.png", "png/48/1F469-1F3FD.png", "png/72/26BD.png"} {
		if err := afero.WriteFile(fs, filepath.Join(base, f), []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func openSession(t *testing.T, fs afero.Fs, opts ...Option) (*Session, *squareBackend) {
	t.Helper()
	b := &squareBackend{}
	opts = append([]Option{WithFs(fs), WithBackend(b), WithStore(store.NewMemory())}, opts...)
	s, err := Open(testConfig(t), opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, b
}

func TestSessionIcon(t *testing.T) {
	fs := afero.NewMemMapFs()
	emojiTwoTree(t, fs)
	s, b := openSession(t, fs)

	if got := s.Config(); got.Package != catalog.EmojiTwo || got.Size != 48 {
		t.Fatalf("Config() = %+v", got)
	}
	img := s.Icon(soccer)
	if img == nil || img.Bounds().Dx() != 48 {
		t.Fatalf("Icon() = %v", img)
	}
	if s.Icon(soccer) != img || b.calls != 1 {
		t.Errorf("second Icon() was not served from cache, calls = %d", b.calls)
	}
	if st := s.Stats(); st.Hits != 1 || st.Misses != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if s.CategoryIcon("activities") == nil {
		t.Error("CategoryIcon(activities) = nil")
	}
	if s.CategoryIcon("nope") != nil {
		t.Error("CategoryIcon(nope) != nil")
	}
}

func TestSessionGlyphsAndVariations(t *testing.T) {
	fs := afero.NewMemMapFs()
	emojiTwoTree(t, fs)
	s, _ := openSession(t, fs)

	if got := s.Glyphs(); len(got) != 3 || !slices.Contains(got, soccer) {
		t.Errorf("Glyphs() = %q", got)
	}
	vs := s.Variations(woman)
	if len(vs) != 1 || vs[0].Filename != "1F469-1F3FD.png" {
		t.Errorf("Variations() = %+v", vs)
	}
}

func TestSessionApplyFolderSwitch(t *testing.T) {
	fs := afero.NewMemMapFs()
	emojiTwoTree(t, fs)
	s, b := openSession(t, fs)

	s.Icon(soccer)
	cfg := s.Config()
	cfg.Size = 72
	if got := s.Apply(cfg); got.Size != 72 {
		t.Fatalf("Apply() = %+v", got)
	}
	if s.Stats().Len != 0 {
		t.Error("old folder entries survived the switch")
	}
	if img := s.Icon(soccer); img == nil || img.Bounds().Dx() != 72 || b.calls != 2 {
		t.Errorf("Icon() after switch = %v, calls = %d", img, b.calls)
	}
	if len(s.Glyphs()) != 1 {
		t.Errorf("index not rebuilt: %q", s.Glyphs())
	}
}

func TestSessionApplyFontPackage(t *testing.T) {
	fs := afero.NewMemMapFs()
	emojiTwoTree(t, fs)
	for _, f := range []string{"NotoColorEmoji-Regular.ttf", "NotoEmoji-VariableFont_wght.ttf"} {
		if err := afero.WriteFile(fs, filepath.Join("/packages/Noto", f), []byte("font"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, _ := openSession(t, fs)

	noto := icon.Config{Package: catalog.Noto, Size: 48}
	s.Apply(noto)
	if s.Icon(soccer) == nil {
		t.Fatal("Icon() from Noto = nil")
	}
	noto.Variant = catalog.Black
	s.Apply(noto)
	if s.Stats().Len != 0 {
		t.Error("variant switch kept the color renders")
	}
	s.Icon(soccer)
	s.Apply(icon.Config{Package: catalog.EmojiTwo, Size: 48})
	if s.Stats().Len != 0 {
		t.Error("package switch kept the Noto renders")
	}
}

func TestSessionNotExtracted(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/packages/Emojitwo/emojitwo-master/png/48/26BD.png", []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, b := openSession(t, fs)

	if s.Ready(catalog.EmojiTwo) {
		t.Fatal("Ready() with required folders missing")
	}
	if err := s.CheckReady(); !errors.Is(err, ErrNotReady) {
		t.Errorf("CheckReady() = %v, want ErrNotReady", err)
	}
	if s.Icon(soccer) != nil || b.calls != 0 {
		t.Error("Icon() served an unextracted package")
	}
	if !s.Ready(catalog.Kaomoji) || !s.Ready(catalog.Custom) {
		t.Error("packages without archives must always be ready")
	}
}

func TestSessionExtract(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, err := fs.Create("/bundle/Twemoji/twemoji-14.0.2.zip")
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("twemoji-14.0.2/assets/72x72/26bd.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("png")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	// Every other bundled package is already in place.
	emojiTwoTree(t, fs)
	for _, d := range []string{"/packages/OpenMoji/openmoji-master/color", "/packages/OpenMoji/openmoji-master/black"} {
		if err := fs.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"NotoColorEmoji-Regular.ttf", "NotoEmoji-VariableFont_wght.ttf"} {
		if err := afero.WriteFile(fs, filepath.Join("/packages/Noto", f), []byte("font"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s, _ := openSession(t, fs)
	s.Apply(icon.Config{Package: catalog.Twemoji})
	if s.Ready(catalog.Twemoji) {
		t.Fatal("Ready() before extraction")
	}
	if res := s.Extract(context.Background(), nil).Wait(); !res.OK() {
		t.Fatalf("Extract() = %v", res)
	}
	if !s.Ready(catalog.Twemoji) {
		t.Fatal("Ready() after extraction = false")
	}
	if img := s.Icon(soccer); img == nil || img.Bounds().Dx() != 72 {
		t.Errorf("Icon() after extraction = %v", img)
	}
}

func TestSessionCopy(t *testing.T) {
	fs := afero.NewMemMapFs()
	var board []string
	fail := false
	s, _ := openSession(t, fs, WithClipboard(func(text string) error {
		if fail {
			return errors.New("no display")
		}
		board = append(board, text)
		return nil
	}))

	for range 2 {
		if err := s.Copy(soccer); err != nil {
			t.Fatal(err)
		}
	}
	if !slices.Equal(board, []string{soccer, soccer}) {
		t.Errorf("clipboard = %q", board)
	}
	if got := s.Usage().FrequentlyUsed(); !slices.Equal(got, []string{soccer}) {
		t.Errorf("FrequentlyUsed() = %q", got)
	}

	fail = true
	if err := s.Copy(woman); err == nil {
		t.Error("Copy() expected clipboard error")
	}
	if s.Usage().Count(woman) != 0 {
		t.Error("failed copy was recorded")
	}
}

func TestSessionKaomoji(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `{"categories": {"happy": {"name": "Happy", "subcategories": {"joy": {"kaomojis": ["(^_^)"]}}}}}`
	if err := afero.WriteFile(fs, "/data/kaomoji_data.json", []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := openSession(t, fs)
	if got := s.Kaomoji().Search("happy"); len(got) != 1 || got[0].Kaomoji != "(^_^)" {
		t.Errorf("Search() = %+v", got)
	}
}

func TestOpenInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheCapacity = 0
	if _, err := Open(cfg, WithFs(afero.NewMemMapFs()), WithStore(store.NewMemory())); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("Open() error = %v, want config.ErrInvalid", err)
	}
}

func TestOpenJSONStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig(t)
	s, err := Open(cfg, WithFs(fs), WithBackend(&squareBackend{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Copy(soccer); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := afero.Exists(fs, cfg.StorePath()); !ok {
		t.Errorf("usage store %s not written", cfg.StorePath())
	}
}
