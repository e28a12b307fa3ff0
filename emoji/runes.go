package emoji

// Code points that structure emoji sequences.
const (
	ZWJ                  = 0x200D
	TextSelector         = 0xFE0E
	EmojiSelector        = 0xFE0F
	EnclosingKeycap      = 0x20E3
	BlackFlag            = 0x1F3F4
	CancelTag            = 0xE007F
	firstRegional        = 0x1F1E6
	lastRegional         = 0x1F1FF
	firstSkinTone        = 0x1F3FB
	lastSkinTone         = 0x1F3FF
	firstTag, lastTag    = 0xE0020, 0xE007E
)

// IsZWJ reports whether r is the Zero-Width Joiner (U+200D).
func IsZWJ(r rune) bool { return r == ZWJ }

// IsRegionalIndicator reports whether r is a Regional Indicator letter.
// Two of them form a flag.
func IsRegionalIndicator(r rune) bool { return r >= firstRegional && r <= lastRegional }

// IsSkinTone reports whether r is a Fitzpatrick skin tone modifier.
func IsSkinTone(r rune) bool { return r >= firstSkinTone && r <= lastSkinTone }

// IsVariationSelector reports whether r is U+FE0E or U+FE0F.
func IsVariationSelector(r rune) bool { return r == TextSelector || r == EmojiSelector }

// IsKeycapBase reports whether r can start a keycap sequence.
func IsKeycapBase(r rune) bool { return (r >= '0' && r <= '9') || r == '#' || r == '*' }

// IsTag reports whether r is a tag character used in subdivision flags.
func IsTag(r rune) bool { return r >= firstTag && r <= lastTag }

// SkinTone is a Fitzpatrick skin tone modifier.
type SkinTone int

const (
	SkinToneNone SkinTone = iota
	SkinToneLight
	SkinToneMediumLight
	SkinToneMedium
	SkinToneMediumDark
	SkinToneDark
)

var skinToneNames = [...]string{
	SkinToneNone:        "none",
	SkinToneLight:       "light",
	SkinToneMediumLight: "medium-light",
	SkinToneMedium:      "medium",
	SkinToneMediumDark:  "medium-dark",
	SkinToneDark:        "dark",
}

func (t SkinTone) String() string {
	if t >= 0 && int(t) < len(skinToneNames) {
		return skinToneNames[t]
	}
	return unknownName
}

// SkinToneOf returns the first skin tone modifier in glyph.
func SkinToneOf(glyph string) SkinTone {
	for _, r := range glyph {
		if IsSkinTone(r) {
			return SkinTone(r-firstSkinTone) + SkinToneLight
		}
	}
	return SkinToneNone
}

// modern reports whether r falls in a pictographic block that text-art
// faces never use. Older symbol blocks (U+2600-U+27BF) are left out because
// kaomoji borrow from them.
func modern(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F64F,
		r >= 0x1F680 && r <= 0x1F6FF,
		r >= 0x1F700 && r <= 0x1F8FF,
		r >= 0x1F900 && r <= 0x1FAFF,
		r >= firstRegional && r <= lastRegional,
		r >= 0xFE00 && r <= 0xFE0F,
		r >= 0x23E9 && r <= 0x23F3,
		r >= 0x23F8 && r <= 0x23FA,
		r >= 0x25AA && r <= 0x25AB,
		r >= 0x25FB && r <= 0x25FE:
		return true
	}
	switch r {
	case ZWJ, 0x2328, 0x23CF, 0x25B6, 0x25C0:
		return true
	}
	return false
}
