// Package kaomoji loads the text emoticon collection served by the Kaomoji
// package.
//
// The data file is a JSON document of the form
//
//	{"categories": {
//	    "happy": {"name": "Happy", "subcategories": {
//	        "joy": {"name": "Joy", "kaomojis": ["(^_^)", "(^o^)"]}}}}}
//
// Category and subcategory order is the document order.
package kaomoji

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// FileName is the conventional name of the data file.
const FileName = "kaomoji_data.json"

// Subcategory is a named list of kaomoji.
type Subcategory struct {
	Key   string
	Name  string
	Items []string
}

// Category groups subcategories.
type Category struct {
	Key           string
	Name          string
	Subcategories []Subcategory
}

// Data is an immutable kaomoji collection.
type Data struct {
	categories []Category
}

// Match is one search hit.
type Match struct {
	Category    string
	Subcategory string
	Kaomoji     string
}

// Load reads the data file at path. A missing or malformed file yields an
// empty collection together with the error, so callers can log and go on.
func Load(fs afero.Fs, path string) (*Data, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return &Data{}, fmt.Errorf("kaomoji: %w", err)
	}
	d, err := Parse(raw)
	if err != nil {
		return &Data{}, err
	}
	return d, nil
}

// Parse decodes a data document.
func Parse(raw []byte) (*Data, error) {
	d := &Data{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	err := object(dec, func(key string) error {
		if key != "categories" {
			return skip(dec)
		}
		return object(dec, func(catKey string) error {
			c, err := parseCategory(dec, catKey)
			if err != nil {
				return err
			}
			d.categories = append(d.categories, c)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("kaomoji: parse: %w", err)
	}
	return d, nil
}

func parseCategory(dec *json.Decoder, key string) (Category, error) {
	c := Category{Key: key, Name: key}
	err := object(dec, func(field string) error {
		switch field {
		case "name":
			return dec.Decode(&c.Name)
		case "subcategories":
			return object(dec, func(subKey string) error {
				s, err := parseSubcategory(dec, subKey)
				if err != nil {
					return err
				}
				c.Subcategories = append(c.Subcategories, s)
				return nil
			})
		}
		return skip(dec)
	})
	return c, err
}

func parseSubcategory(dec *json.Decoder, key string) (Subcategory, error) {
	s := Subcategory{Key: key, Name: key}
	err := object(dec, func(field string) error {
		switch field {
		case "name":
			return dec.Decode(&s.Name)
		case "kaomojis":
			return dec.Decode(&s.Items)
		}
		return skip(dec)
	})
	return s, err
}

// object reads a JSON object, calling fn for each key with the decoder
// positioned at its value. fn must consume the value.
func object(dec *json.Decoder, fn func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("expected object key")
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func skip(dec *json.Decoder) error {
	var v json.RawMessage
	return dec.Decode(&v)
}

// Len returns the number of kaomoji across all subcategories.
func (d *Data) Len() int {
	n := 0
	for _, c := range d.categories {
		for _, s := range c.Subcategories {
			n += len(s.Items)
		}
	}
	return n
}

// Categories returns the category keys in order.
func (d *Data) Categories() []string {
	keys := make([]string, len(d.categories))
	for i, c := range d.categories {
		keys[i] = c.Key
	}
	return keys
}

// Category returns the category with key.
func (d *Data) Category(key string) (Category, bool) {
	for _, c := range d.categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// Subcategories returns the subcategory keys of category in order.
func (d *Data) Subcategories(category string) []string {
	c, ok := d.Category(category)
	if !ok {
		return nil
	}
	keys := make([]string, len(c.Subcategories))
	for i, s := range c.Subcategories {
		keys[i] = s.Key
	}
	return keys
}

// Items returns the kaomoji of one subcategory.
func (d *Data) Items(category, subcategory string) []string {
	c, ok := d.Category(category)
	if !ok {
		return nil
	}
	for _, s := range c.Subcategories {
		if s.Key == subcategory {
			return append([]string(nil), s.Items...)
		}
	}
	return nil
}

// Search returns kaomoji whose text contains query, or whose category or
// subcategory key or name does, ignoring case. Each kaomoji is reported
// once, at its first position in document order.
func (d *Data) Search(query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }

	var out []Match
	seen := make(map[string]bool)
	for _, c := range d.categories {
		catHit := contains(c.Key) || contains(c.Name)
		for _, s := range c.Subcategories {
			subHit := catHit || contains(s.Key) || contains(s.Name)
			for _, k := range s.Items {
				if seen[k] || !(subHit || contains(k)) {
					continue
				}
				seen[k] = true
				out = append(out, Match{Category: c.Key, Subcategory: s.Key, Kaomoji: k})
			}
		}
	}
	return out
}
