package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/purrmoji/emoji"
)

func (a *app) indexCommand() *cobra.Command {
	var variations bool
	cmd := &cobra.Command{
		Use:   "index [glyph]",
		Short: "List the glyphs of the active asset folder",
		Long: `List every glyph the active folder has a file for. With a glyph
argument, list the variations grouped under it instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			if err := s.CheckReady(); err != nil {
				return &ExitError{Code: exitNotReady, Err: err}
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				for _, v := range s.Variations(emoji.ToGlyph(args[0])) {
					fmt.Fprintf(out, "%s\t%s\t%s\n", v.Glyph, codeStyle.Render(strings.Join(v.Codepoints, emoji.Separator)), v.Filename)
				}
				return nil
			}
			for _, g := range s.Glyphs() {
				if variations && emoji.CodepointCount(g) < 2 {
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", g, codeStyle.Render(emoji.Encode(g)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&variations, "multi", false, "only list multi-code-point glyphs")
	return cmd
}
