package emoji

const unknownName = "unknown"

// SequenceType indicates the type of emoji sequence.
type SequenceType int

const (
	// SequenceSimple is a single code point.
	SequenceSimple SequenceType = iota

	// SequenceZWJ joins several emoji with U+200D (families, professions).
	SequenceZWJ

	// SequenceFlag is a pair of regional indicators.
	SequenceFlag

	// SequenceKeycap is a digit, # or * followed by U+20E3.
	SequenceKeycap

	// SequenceModified is a base emoji followed by a skin tone.
	SequenceModified

	// SequenceTag is a subdivision flag: black flag, tags, cancel tag.
	SequenceTag

	// SequencePresentation is a character followed by a variation selector.
	SequencePresentation

	// SequenceOther is any other multi-code-point string.
	SequenceOther
)

var sequenceTypeNames = [...]string{
	SequenceSimple:       "simple",
	SequenceZWJ:          "zwj",
	SequenceFlag:         "flag",
	SequenceKeycap:       "keycap",
	SequenceModified:     "modified",
	SequenceTag:          "tag",
	SequencePresentation: "presentation",
	SequenceOther:        "other",
}

// String returns the name of the sequence type.
func (t SequenceType) String() string {
	if t >= 0 && int(t) < len(sequenceTypeNames) {
		return sequenceTypeNames[t]
	}
	return unknownName
}

// Sequence describes the structure of a glyph.
type Sequence struct {
	Type SequenceType

	// Base is the first code point of the glyph.
	Base rune

	// Parts holds the glyphs joined by ZWJ, or the whole glyph otherwise.
	Parts []string

	// Tone is the first skin tone modifier, if any.
	Tone SkinTone
}

// Classify reports the sequence structure of glyph.
// An empty glyph classifies as SequenceOther with no parts.
func Classify(glyph string) Sequence {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return Sequence{Type: SequenceOther}
	}
	seq := Sequence{
		Base:  runes[0],
		Parts: splitZWJ(runes),
		Tone:  SkinToneOf(glyph),
	}
	seq.Type = classify(runes, len(seq.Parts))
	return seq
}

func classify(runes []rune, parts int) SequenceType {
	n := len(runes)
	switch {
	case n == 1:
		return SequenceSimple
	case parts > 1:
		return SequenceZWJ
	case n == 2 && IsRegionalIndicator(runes[0]) && IsRegionalIndicator(runes[1]):
		return SequenceFlag
	case IsKeycapBase(runes[0]) && runes[n-1] == EnclosingKeycap && n <= 3:
		return SequenceKeycap
	case runes[0] == BlackFlag && n >= 3 && runes[n-1] == CancelTag && allTags(runes[1:n-1]):
		return SequenceTag
	}

	hasTone := false
	for _, r := range runes[1:] {
		switch {
		case IsSkinTone(r):
			hasTone = true
		case IsVariationSelector(r):
		default:
			return SequenceOther
		}
	}
	if hasTone {
		return SequenceModified
	}
	return SequencePresentation
}

func splitZWJ(runes []rune) []string {
	var parts []string
	start := 0
	for i, r := range runes {
		if IsZWJ(r) {
			if i > start {
				parts = append(parts, string(runes[start:i]))
			}
			start = i + 1
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

func allTags(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if !IsTag(r) {
			return false
		}
	}
	return true
}

// FlagCode returns the two-letter region of a flag glyph, or "".
func FlagCode(glyph string) string {
	runes := []rune(glyph)
	if len(runes) != 2 || !IsRegionalIndicator(runes[0]) || !IsRegionalIndicator(runes[1]) {
		return ""
	}
	return string([]rune{'A' + runes[0] - firstRegional, 'A' + runes[1] - firstRegional})
}

// StripPresentation removes variation selectors from glyph.
// Asset packages disagree on whether FE0F appears in filenames, so lookups
// fall back to the stripped form.
func StripPresentation(glyph string) string {
	out := make([]rune, 0, len(glyph))
	for _, r := range glyph {
		if !IsVariationSelector(r) {
			out = append(out, r)
		}
	}
	return string(out)
}
