// Package purrmoji is the headless core of an emoji picker.
//
// # Overview
//
// A Session ties together the emoji package catalog, the glyph index of the
// active asset folder, the icon resolver with its render cache, and the
// usage tracker. It is meant to be owned by one UI goroutine.
//
// # Quick Start
//
//	cfg, _ := config.Load(afero.NewOsFs(), "")
//	s, err := purrmoji.Open(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	img := s.Icon("⚽")      // 48x48 EmojiTwo soccer ball
//	_ = s.Copy("⚽")         // counts toward the frequent list
//	freq := s.Usage().FrequentlyUsed()
//
// # Packages
//
// Bundled packages are unpacked by extract on first run. A Session serves
// nothing from a bundled package until its extraction is complete; see
// Session.Ready.
//
// # Architecture
//
// The module is organized into:
//   - emoji: glyph and code-point string conversion, sequence classification
//   - catalog: package descriptors and asset path resolution
//   - index: glyph to filename index of one folder
//   - cache: bounded FIFO render cache
//   - backend, backend/vector, backend/basic: rasterizers
//   - icon: resolution of glyphs to cached bitmaps
//   - usage, store: usage tracking and persistence
//   - kaomoji, extract, config: data files, first-run extraction, settings
package purrmoji

// Version is the current version of the library.
const Version = "0.1.0"
