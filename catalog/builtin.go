package catalog

// Built-in package names.
const (
	OpenMoji = "OpenMoji"
	EmojiTwo = "EmojiTwo"
	Twemoji  = "Twemoji"
	Noto     = "Noto"
	Custom   = "Custom"
	Segoe    = "Segoe UI Emoji"
	Kaomoji  = "Kaomoji"
)

const (
	openMojiRoot = "OpenMoji/openmoji-master"
	emojiTwoRoot = "Emojitwo/emojitwo-master"
	twemojiRoot  = "Twemoji/twemoji-14.0.2/assets"
)

// CategoryIcons maps picker categories to the glyph code drawn on their
// button.
var CategoryIcons = map[string]string{
	"activities":      "26BD",
	"animals-nature":  "1F436",
	"component":       "1F3FD",
	"flags":           "1F6A9",
	"food-drink":      "1F34E",
	"objects":         "1F4F1",
	"people-body":     "1F464",
	"smileys-emotion": "1F603",
	"symbols":         "267B",
	"travel-places":   "2708",
}

var bothVariants = []Variant{Color, Black}

// Builtin returns the catalog of the bundled packages.
func Builtin() *Catalog {
	return New(
		Descriptor{
			Name:     Custom,
			Kind:     CustomFolder,
			Variants: []Variant{Color},
			Formats:  []Format{PNG, SVG, Font},
		},
		Descriptor{
			Name:     EmojiTwo,
			Kind:     FileBased,
			Variants: bothVariants,
			Formats:  []Format{PNG, SVG},
			Sizes:    []int{16, 32, 48, 64, 72, 96, 128, 512},
			Layout: Layout{
				PNG: map[Variant]string{
					Color: emojiTwoRoot + "/png/" + SizeToken,
					Black: emojiTwoRoot + "/png_bw/" + SizeToken,
				},
				PNGDefault: map[Variant]string{
					Color: emojiTwoRoot + "/png",
					Black: emojiTwoRoot + "/png_bw",
				},
				SVG: map[Variant]string{
					Color: emojiTwoRoot + "/svg",
					Black: emojiTwoRoot + "/svg_bw",
				},
			},
		},
		Descriptor{
			Name:     Noto,
			Kind:     SingleFont,
			Variants: bothVariants,
			Formats:  []Format{Font},
			Layout: Layout{
				Font: map[Variant]string{
					Color: "Noto/NotoColorEmoji-Regular.ttf",
					Black: "Noto/NotoEmoji-VariableFont_wght.ttf",
				},
			},
		},
		Descriptor{
			Name:     OpenMoji,
			Kind:     FileBased,
			Variants: bothVariants,
			Formats:  []Format{PNG, SVG, Font},
			Sizes:    []int{72, 618},
			Layout: Layout{
				PNG: map[Variant]string{
					Color: openMojiRoot + "/color/" + SizeToken + "x" + SizeToken,
					Black: openMojiRoot + "/black/" + SizeToken + "x" + SizeToken,
				},
				SVG: map[Variant]string{
					Color: openMojiRoot + "/color/svg",
					Black: openMojiRoot + "/black/svg",
				},
				Font: map[Variant]string{
					Color: openMojiRoot + "/font/OpenMoji-color-glyf_colr_0",
					Black: openMojiRoot + "/font/OpenMoji-black-glyf",
				},
				FontProbe: map[Variant][]string{
					Color: {
						"OpenMoji/openmoji-font/OpenMoji-color-glyf_colr_1",
						"OpenMoji/openmoji-font/OpenMoji-color-glyf_colr_0",
						"OpenMoji/openmoji-font/OpenMoji-color-colr0_svg",
					},
				},
			},
		},
		Descriptor{
			Name:     Segoe,
			Kind:     SystemFont,
			Variants: []Variant{Color},
			Formats:  []Format{Font},
			Layout: Layout{
				SystemFonts: []string{
					`C:\Windows\Fonts\seguiemj.ttf`,
					"/mnt/c/Windows/Fonts/seguiemj.ttf",
					"/usr/share/fonts/truetype/segoe/seguiemj.ttf",
				},
			},
		},
		Descriptor{
			Name:     Twemoji,
			Kind:     FileBased,
			Variants: []Variant{Color},
			Formats:  []Format{PNG, SVG},
			Sizes:    []int{72},
			Layout: Layout{
				PNG: map[Variant]string{Color: twemojiRoot + "/72x72"},
				SVG: map[Variant]string{Color: twemojiRoot + "/svg"},
			},
		},
		Descriptor{
			Name: Kaomoji,
			Kind: TextBased,
		},
	)
}
