// Package emoji converts between glyphs and the code-point strings used as
// emoji asset filenames, and classifies emoji sequences.
//
// A glyph is an opaque Unicode string of one or more code points. Its
// identity is its NFC form. On disk every asset package names its files
// after the glyph's code points:
//
//	1F469-200D-1F4BB.png   woman technologist (ZWJ sequence)
//	1F1FA-1F1F8.svg        flag: United States
//	26BD.png               soccer ball
//
// # Codec
//
// Encode yields upper-case hex, at least four digits per code point, joined
// by dashes. Decode is permissive: it skips tokens that are not hex or not
// valid Unicode scalar values. DecodeStrict rejects the whole string instead.
//
//	seq := emoji.Encode("⚽")       // "26BD"
//	g, ok := emoji.Decode("26BD")   // "⚽", true
//
// The codec has no special cases for flags, ZWJ joins or skin tones; each
// token is one code point. Classify reports what kind of sequence a glyph
// is when a caller needs to label variations.
//
// # Kaomoji
//
// IsKaomoji separates text-art faces such as (＾▽＾) from Unicode emoji.
//
// # Unicode Emoji Specification
//
// Sequence classification follows Unicode Technical Report #51:
// https://www.unicode.org/reports/tr51/
package emoji
