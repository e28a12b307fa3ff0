package emoji

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		glyph string
		want  SequenceType
		parts int
	}{
		{"simple", "\U0001F600", SequenceSimple, 1},
		{"zwj", "\U0001F469\u200d\U0001F4BB", SequenceZWJ, 2},
		{"family", "\U0001F468\u200d\U0001F469\u200d\U0001F467", SequenceZWJ, 3},
		{"flag", "\U0001F1FA\U0001F1F8", SequenceFlag, 1},
		{"keycap", "#\ufe0f\u20e3", SequenceKeycap, 1},
		{"keycap without selector", "1\u20e3", SequenceKeycap, 1},
		{"modified", "\U0001F44B\U0001F3FD", SequenceModified, 1},
		{"tag", "\U0001F3F4\U000E0067\U000E0062\U000E0073\U000E0063\U000E0074\U000E007F", SequenceTag, 1},
		{"presentation", "\u2764\ufe0f", SequencePresentation, 1},
		{"other", "ab", SequenceOther, 1},
		{"empty", "", SequenceOther, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := Classify(tt.glyph)
			if seq.Type != tt.want {
				t.Errorf("Classify(%q).Type = %v, want %v", tt.glyph, seq.Type, tt.want)
			}
			if len(seq.Parts) != tt.parts {
				t.Errorf("Classify(%q) parts = %d, want %d", tt.glyph, len(seq.Parts), tt.parts)
			}
		})
	}
}

func TestClassifyTone(t *testing.T) {
	seq := Classify("\U0001F469\U0001F3FF\u200d\U0001F4BB")
	if seq.Type != SequenceZWJ {
		t.Errorf("Type = %v, want zwj", seq.Type)
	}
	if seq.Tone != SkinToneDark {
		t.Errorf("Tone = %v, want dark", seq.Tone)
	}
	if seq.Base != 0x1F469 {
		t.Errorf("Base = %U, want U+1F469", seq.Base)
	}
}

func TestSequenceTypeString(t *testing.T) {
	if got := SequenceZWJ.String(); got != "zwj" {
		t.Errorf("String() = %q", got)
	}
	if got := SequenceType(99).String(); got != unknownName {
		t.Errorf("String() = %q, want %q", got, unknownName)
	}
	if got := SkinTone(-1).String(); got != unknownName {
		t.Errorf("SkinTone(-1).String() = %q", got)
	}
}

func TestFlagCode(t *testing.T) {
	if got := FlagCode("\U0001F1FA\U0001F1F8"); got != "US" {
		t.Errorf("FlagCode = %q, want US", got)
	}
	if got := FlagCode("\U0001F600"); got != "" {
		t.Errorf("FlagCode(non-flag) = %q", got)
	}
}

func TestStripPresentation(t *testing.T) {
	if got := StripPresentation("\u2764\ufe0f"); got != "\u2764" {
		t.Errorf("StripPresentation = %q", got)
	}
}

func TestIsKaomoji(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"(\uff3e\u25bd\uff3e)", true},
		{"\u00af\\_(\u30c4)_/\u00af", true},
		{"^^", true},
		{"ok", false},
		{"\U0001F600", false},
		{"(\U0001F600)", false},
		{"\u2764\ufe0f", false},
		{"(\u25d5\u203f\u25d5\u273f)", true},
		{"\u0295\u2022\u1d25\u2022\u0294", true},
	}
	for _, tt := range tests {
		if got := IsKaomoji(tt.text); got != tt.want {
			t.Errorf("IsKaomoji(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
