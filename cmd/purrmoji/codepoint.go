package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/purrmoji/emoji"
)

func (a *app) codepointCommand() *cobra.Command {
	var decode bool
	cmd := &cobra.Command{
		Use:   "codepoint <glyph>...",
		Short: "Convert between glyphs and code-point strings",
		Long: `Print the code-point string of each glyph, for example 1F469-200D-1F4BB.
With --decode the arguments are code-point strings and the glyphs are
printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				if !decode {
					seq := emoji.Classify(arg)
					fmt.Fprintf(out, "%s\t%s\n", emoji.Encode(arg), subtitleStyle.Render(seq.Type.String()))
					continue
				}
				g, err := emoji.DecodeStrict(arg)
				if err != nil {
					return &ExitError{Code: exitFailure, Err: err}
				}
				fmt.Fprintln(out, g)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&decode, "decode", "d", false, "decode code-point strings")
	return cmd
}
