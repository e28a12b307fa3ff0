package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/purrmoji/catalog"
)

func (a *app) packagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "packages",
		Short: "List the emoji packages and their state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			out := cmd.OutOrStdout()
			cat := catalog.Builtin()
			active := s.Config().Package
			for _, name := range cat.Names() {
				d, _ := cat.Lookup(name)
				marker := "  "
				if name == active {
					marker = titleStyle.Render("* ")
				}
				state := successStyle.Render("ready")
				if !s.Ready(name) {
					state = warningStyle.Render("not extracted")
				}
				fmt.Fprintf(out, "%s%s %-12s %-18s %s\n",
					marker, nameStyle.Render(name), d.Kind, describe(d), state)
			}
			return nil
		},
	}
}

// describe summarizes the formats and sizes of a package.
func describe(d *catalog.Descriptor) string {
	parts := make([]string, 0, len(d.Formats))
	for _, f := range d.Formats {
		parts = append(parts, f.String())
	}
	desc := strings.Join(parts, ",")
	if len(d.Sizes) > 0 {
		sizes := make([]string, len(d.Sizes))
		for i, n := range d.Sizes {
			sizes[i] = strconv.Itoa(n)
		}
		desc += " " + subtitleStyle.Render(strings.Join(sizes, "/"))
	}
	return desc
}
