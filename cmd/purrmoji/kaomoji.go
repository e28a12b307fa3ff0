package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) kaomojiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kaomoji [query]",
		Short: "List or search kaomoji",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			out := cmd.OutOrStdout()
			data := s.Kaomoji()
			if len(args) == 1 {
				for _, m := range data.Search(args[0]) {
					fmt.Fprintf(out, "%s\t%s\n", m.Kaomoji, subtitleStyle.Render(m.Category+"/"+m.Subcategory))
				}
				return nil
			}
			for _, key := range data.Categories() {
				c, _ := data.Category(key)
				fmt.Fprintln(out, titleStyle.Render(c.Name))
				for _, sub := range c.Subcategories {
					fmt.Fprintf(out, "  %s\n", subtitleStyle.Render(sub.Name))
					for _, k := range sub.Items {
						fmt.Fprintf(out, "    %s\n", k)
					}
				}
			}
			return nil
		},
	}
}
