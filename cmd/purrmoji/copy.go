package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/purrmoji/emoji"
)

func (a *app) copyCommand() *cobra.Command {
	var favorite bool
	cmd := &cobra.Command{
		Use:   "copy <glyph|codepoints>",
		Short: "Copy a glyph to the clipboard and record the use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			glyph := emoji.ToGlyph(args[0])
			if err := s.Copy(glyph); err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}
			if favorite {
				s.Usage().AddFavorite(glyph)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (used %d times)\n", successStyle.Render("copied"), glyph, s.Usage().Count(glyph))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&favorite, "favorite", "f", false, "also add the glyph to the favorites")
	return cmd
}
