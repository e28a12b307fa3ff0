package emoji

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Separator joins code points in a code-point string.
const Separator = "-"

// ErrEmptySequence is returned by DecodeStrict for a string with no code points.
var ErrEmptySequence = errors.New("emoji: empty code-point sequence")

// InvalidTokenError reports a token that is not a valid code point.
type InvalidTokenError struct {
	Token string
	Index int
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("emoji: invalid code point %q at position %d", e.Token, e.Index)
}

// assetExtensions are stripped from code-point strings before decoding.
var assetExtensions = []string{".png", ".svg"}

// Normalize returns the canonical (NFC) form of a glyph.
// Normalize is idempotent.
func Normalize(glyph string) string {
	return norm.NFC.String(glyph)
}

// Encode converts a glyph into its code-point string.
// Each code point becomes upper-case hex zero-padded to four digits.
func Encode(glyph string) string {
	if glyph == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(glyph) * 3)
	first := true
	for _, r := range glyph {
		if !first {
			b.WriteString(Separator)
		}
		first = false
		fmt.Fprintf(&b, "%04X", r)
	}
	return b.String()
}

// Decode converts a code-point string into an NFC glyph.
//
// A trailing ".png" or ".svg" is ignored. Tokens that are not hex or that
// do not name a Unicode scalar value are skipped. The second result is false
// when no token survives.
func Decode(seq string) (string, bool) {
	tokens := splitSequence(seq)
	runes := make([]rune, 0, len(tokens))
	for _, tok := range tokens {
		if r, ok := parseToken(tok); ok {
			runes = append(runes, r)
		}
	}
	if len(runes) == 0 {
		return "", false
	}
	return Normalize(string(runes)), true
}

// DecodeStrict is like Decode but fails on the first invalid token.
func DecodeStrict(seq string) (string, error) {
	tokens := splitSequence(seq)
	if len(tokens) == 0 {
		return "", ErrEmptySequence
	}
	runes := make([]rune, 0, len(tokens))
	for i, tok := range tokens {
		r, ok := parseToken(tok)
		if !ok {
			return "", &InvalidTokenError{Token: tok, Index: i}
		}
		runes = append(runes, r)
	}
	return Normalize(string(runes)), nil
}

// IsCodepointString reports whether s looks like a code-point string:
// dash-separated tokens of four to six hex digits.
func IsCodepointString(s string) bool {
	if s == "" {
		return false
	}
	for _, tok := range strings.Split(s, Separator) {
		if len(tok) < 4 || len(tok) > 6 {
			return false
		}
		for i := 0; i < len(tok); i++ {
			if !isHexDigit(tok[i]) {
				return false
			}
		}
	}
	return true
}

// ToGlyph returns the glyph named by s when s is a code-point string,
// otherwise s unchanged.
func ToGlyph(s string) string {
	if !IsCodepointString(s) {
		return s
	}
	if g, ok := Decode(s); ok {
		return g
	}
	return s
}

// FirstCodepoint returns the glyph made of the first code point of glyph.
func FirstCodepoint(glyph string) string {
	r, size := utf8.DecodeRuneInString(glyph)
	if size == 0 || r == utf8.RuneError && size == 1 {
		return ""
	}
	return string(r)
}

// CodepointCount returns the number of code points in glyph.
func CodepointCount(glyph string) int {
	return utf8.RuneCountInString(glyph)
}

func splitSequence(seq string) []string {
	lower := strings.ToLower(seq)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(lower, ext) {
			seq = seq[:len(seq)-len(ext)]
			break
		}
	}
	seq = strings.TrimSpace(seq)
	if seq == "" {
		return nil
	}
	return strings.Split(seq, Separator)
}

func parseToken(tok string) (rune, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(tok, 16, 32)
	if err != nil {
		return 0, false
	}
	r := rune(v) //nolint:gosec // range checked by utf8.ValidRune below
	if v > utf8.MaxRune || !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
