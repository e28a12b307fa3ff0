package kaomoji

import (
	"slices"
	"testing"

	"github.com/spf13/afero"
)

const sample = `{
  "version": 2,
  "categories": {
    "sad": {
      "name": "Sad",
      "subcategories": {
        "tears": {"name": "Tears", "kaomojis": ["(T_T)", "(;_;)"]}
      }
    },
    "happy": {
      "name": "Happy",
      "icon": "smile",
      "subcategories": {
        "joy": {"name": "Joy", "kaomojis": ["(^_^)", "(^o^)"]},
        "cheer": {"kaomojis": ["\\(^o^)/", "(^_^)"]}
      }
    }
  }
}`

func TestParseKeepsOrder(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := d.Categories(); !slices.Equal(got, []string{"sad", "happy"}) {
		t.Errorf("Categories() = %q", got)
	}
	if got := d.Subcategories("happy"); !slices.Equal(got, []string{"joy", "cheer"}) {
		t.Errorf("Subcategories(happy) = %q", got)
	}
	if got := d.Items("happy", "cheer"); !slices.Equal(got, []string{`\(^o^)/`, "(^_^)"}) {
		t.Errorf("Items(happy, cheer) = %q", got)
	}
	if d.Len() != 6 {
		t.Errorf("Len() = %d, want 6", d.Len())
	}

	c, ok := d.Category("happy")
	if !ok || c.Name != "Happy" || c.Subcategories[1].Name != "cheer" {
		t.Errorf("Category(happy) = %+v, %v", c, ok)
	}
	if d.Items("happy", "none") != nil || d.Items("none", "joy") != nil || d.Subcategories("none") != nil {
		t.Error("unknown keys should yield nil")
	}
}

func TestSearch(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		query string
		want  []string
	}{
		{"T_T", []string{"(T_T)"}},
		{"tears", []string{"(T_T)", "(;_;)"}},
		{"HAPPY", []string{"(^_^)", "(^o^)", `\(^o^)/`}},
		{"^o^", []string{"(^o^)", `\(^o^)/`}},
		{"  ", nil},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, m := range d.Search(tt.query) {
				got = append(got, m.Kaomoji)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Search(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/"+FileName, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(fs, "/data/"+FileName)
	if err != nil || d.Len() != 6 {
		t.Fatalf("Load() = %d items, %v", d.Len(), err)
	}

	d, err = Load(fs, "/missing.json")
	if err == nil {
		t.Error("expected error for missing file")
	}
	if d == nil || d.Len() != 0 {
		t.Error("missing file should yield empty data")
	}
}

func TestParseErrors(t *testing.T) {
	for _, doc := range []string{``, `[]`, `{"categories": []}`, `{"categories": {"a": {"subcategories": {"b": {"kaomojis": 3}}}}}`} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("Parse(%q) expected error", doc)
		}
	}
}
