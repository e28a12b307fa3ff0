package emoji

import (
	"strings"
	"unicode/utf8"
)

// kaomojiPunct are characters that short text-art faces are built from.
const kaomojiPunct = "()[]{}^_-~*\\/|`'\",;:"

// IsKaomoji reports whether text is a kaomoji rather than a Unicode emoji.
//
// Any code point from a modern pictographic block disqualifies the text.
// Text of one or two code points must contain kaomoji punctuation.
func IsKaomoji(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if modern(r) {
			return false
		}
	}
	if utf8.RuneCountInString(text) <= 2 && !strings.ContainsAny(text, kaomojiPunct) {
		return false
	}
	return true
}
