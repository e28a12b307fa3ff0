package main

import (
	"fmt"
	"image"
	"image/png"

	"github.com/spf13/cobra"

	"github.com/gogpu/purrmoji"
	"github.com/gogpu/purrmoji/emoji"
)

func (a *app) renderCommand() *cobra.Command {
	var output string
	var category bool
	cmd := &cobra.Command{
		Use:   "render <glyph|codepoints>",
		Short: "Render a glyph to a PNG file",
		Long: `Render a glyph with the active package and write it as PNG.

The glyph may be given literally or as a code-point string such as
1F469-200D-1F4BB. With --category the argument names a picker category
(smileys-emotion, flags, ...) and its button icon is rendered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			if err := s.CheckReady(); err != nil {
				return &ExitError{Code: exitNotReady, Err: fmt.Errorf("%w (run purrmoji extract)", err)}
			}

			name := args[0]
			img, defaultOutput := renderTarget(s, name, category)
			if img == nil {
				return &ExitError{Code: exitFailure, Err: fmt.Errorf("%s: no %s asset for %q", s.Config().Package, s.Config().Format, name)}
			}
			if output == "" {
				output = defaultOutput
			}
			f, err := a.fs.Create(output)
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%dx%d)\n", successStyle.Render("wrote"), output, img.Bounds().Dx(), img.Bounds().Dy())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <codepoints>.png)")
	cmd.Flags().BoolVar(&category, "category", false, "render a category button icon")
	return cmd
}

// renderTarget draws the glyph or, with category set, the button icon of
// the category called name. It also returns the default output file.
func renderTarget(s *purrmoji.Session, name string, category bool) (*image.NRGBA, string) {
	if category {
		return s.CategoryIcon(name), name + ".png"
	}
	glyph := emoji.ToGlyph(name)
	return s.Icon(glyph), emoji.Encode(glyph) + ".png"
}
