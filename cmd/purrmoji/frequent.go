package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/purrmoji/emoji"
	"github.com/gogpu/purrmoji/usage"
)

func (a *app) frequentCommand() *cobra.Command {
	var recent, favorites, reset bool
	cmd := &cobra.Command{
		Use:   "frequent",
		Short: "List frequently used glyphs",
		Long: `List the glyphs copied at least twice, most used first. With --recent
or --favorites, list those instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			u := s.Usage()
			out := cmd.OutOrStdout()
			switch {
			case reset:
				u.Clear()
				u.ClearRecent()
				fmt.Fprintln(out, successStyle.Render("usage cleared"))
			case recent:
				list(out, u, u.Recent())
			case favorites:
				list(out, u, u.Favorites())
			default:
				list(out, u, u.FrequentlyUsed())
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&recent, "recent", false, "list recently used glyphs")
	f.BoolVar(&favorites, "favorites", false, "list favorite glyphs")
	f.BoolVar(&reset, "clear", false, "clear usage counts and the recent list")
	cmd.MarkFlagsMutuallyExclusive("recent", "favorites", "clear")
	return cmd
}

func list(out io.Writer, u *usage.Tracker, glyphs []string) {
	for _, g := range glyphs {
		fmt.Fprintf(out, "%s\t%s\t%d\n", g, codeStyle.Render(emoji.Encode(g)), u.Count(g))
	}
}
