package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// stores returns a fresh instance of every implementation.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	js, err := OpenJSON(afero.NewMemMapFs(), "/data/emoji_data.json")
	if err != nil {
		t.Fatal(err)
	}
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "purrmoji.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Store{"json": js, "sqlite": db, "memory": NewMemory()}
}

func TestRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			counts := map[string]int{"a": 3, "b": 1}
			if err := s.Set("emoji_usage_count", counts); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			var got map[string]int
			ok, err := s.Get("emoji_usage_count", &got)
			if err != nil || !ok {
				t.Fatalf("Get() = %v, %v", ok, err)
			}
			if got["a"] != 3 || got["b"] != 1 || len(got) != 2 {
				t.Errorf("Get() = %v", got)
			}

			if err := s.Set("emoji_usage_count", map[string]int{"a": 4}); err != nil {
				t.Fatal(err)
			}
			got = nil
			if _, err := s.Get("emoji_usage_count", &got); err != nil || got["a"] != 4 {
				t.Errorf("overwrite = %v, %v", got, err)
			}

			ok, err = s.Get("missing", &got)
			if ok || err != nil {
				t.Errorf("Get(missing) = %v, %v", ok, err)
			}
		})
	}
}

func TestClosed(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Close(); err != nil {
				t.Fatal(err)
			}
			if err := s.Set("k", 1); !errors.Is(err, ErrClosed) {
				t.Errorf("Set() after Close = %v, want ErrClosed", err)
			}
			if _, err := s.Get("k", nil); !errors.Is(err, ErrClosed) {
				t.Errorf("Get() after Close = %v, want ErrClosed", err)
			}
		})
	}
}

func TestPreferenceGating(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := OpenJSON(fs, "/data/emoji_data.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("emoji_size", 64); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("theme", "Dark"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("recent", []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Get("emoji_size", nil); ok {
		t.Error("emoji_size was saved although its preference is false")
	}
	if ok, _ := s.Get("theme", nil); !ok {
		t.Error("theme was not saved")
	}

	// Enabling the preference persists and takes effect.
	if err := s.Set(PreferencesKey, map[string]bool{"emoji_size": true, "theme": false}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("emoji_size", 64); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenJSON(fs, "/data/emoji_data.json")
	if err != nil {
		t.Fatal(err)
	}
	var size int
	if ok, err := reopened.Get("emoji_size", &size); !ok || err != nil || size != 64 {
		t.Errorf("emoji_size after reopen = %d, %v, %v", size, ok, err)
	}
	prefs := reopened.Preferences()
	if !prefs["emoji_size"] || prefs["theme"] || !prefs["format_selection"] {
		t.Errorf("Preferences() = %v", prefs)
	}
	if err := reopened.Set("theme", "Light"); err != nil {
		t.Fatal(err)
	}
	var theme string
	if _, err := reopened.Get("theme", &theme); err != nil || theme != "Dark" {
		t.Errorf("theme = %q, want the value saved before the preference was disabled", theme)
	}
	if got := reopened.Keys(); len(got) != 4 {
		t.Errorf("Keys() = %v", got)
	}
}

func TestJSONPreservesUnknownKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `{"categories": {"flags": []}, "last_selected_package": "Noto"}`
	if err := afero.WriteFile(fs, "/d.json", []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := OpenJSON(fs, "/d.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("recent", []string{}); err != nil {
		t.Fatal(err)
	}
	reopened, err := OpenJSON(fs, "/d.json")
	if err != nil {
		t.Fatal(err)
	}
	var pkg string
	if ok, _ := reopened.Get("last_selected_package", &pkg); !ok || pkg != "Noto" {
		t.Errorf("last_selected_package = %q", pkg)
	}
	if ok, _ := reopened.Get("categories", nil); !ok {
		t.Error("categories were lost")
	}
}

func TestJSONOpenErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/bad.json", []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenJSON(fs, "/bad.json"); err == nil {
		t.Error("expected parse error")
	}
	s, err := OpenJSON(fs, "/new/dir/data.json")
	if err != nil {
		t.Fatalf("OpenJSON(missing) error = %v", err)
	}
	if err := s.Set("recent", []string{"x"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if ok, _ := afero.Exists(fs, "/new/dir/data.json"); !ok {
		t.Error("document was not created")
	}
}

func TestSQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(PreferencesKey, map[string]bool{"color_black": true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("color_black", "black"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	var v string
	if ok, err := s.Get("color_black", &v); !ok || err != nil || v != "black" {
		t.Errorf("color_black = %q, %v, %v", v, ok, err)
	}
	if !s.Preferences()["color_black"] {
		t.Error("stored preferences were not loaded")
	}
	if _, err := OpenSQLite("  "); err == nil {
		t.Error("expected error for empty path")
	}
}
