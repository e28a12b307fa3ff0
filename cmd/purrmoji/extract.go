package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/purrmoji/extract"
)

func (a *app) extractCommand() *cobra.Command {
	var clearPkgs bool
	cmd := &cobra.Command{
		Use:   "extract [package]...",
		Short: "Unpack the bundled emoji packages",
		Long: `Unpack the bundled package archives from the source directory into the
user packages directory. Packages that are already extracted are skipped.
With --clear the named packages, or all of them, are removed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			ex := s.Extractor()
			out := cmd.OutOrStdout()

			if clearPkgs {
				if len(args) == 0 {
					args = ex.Packages()
				}
				for _, name := range args {
					if err := ex.Clear(name); err != nil {
						return &ExitError{Code: exitFailure, Err: err}
					}
					fmt.Fprintf(out, "%s %s\n", successStyle.Render("cleared"), name)
				}
				return nil
			}

			progress, stop := a.progress()
			var results extract.Results
			order := args
			if len(args) == 0 {
				order = ex.Packages()
				results = s.Extract(cmd.Context(), progress).Wait()
			} else {
				results = make(extract.Results, len(args))
				for _, name := range args {
					results[name] = ex.Extract(cmd.Context(), name, progress)
				}
			}
			stop()

			failed := 0
			for _, name := range order {
				err, ok := results[name]
				switch {
				case !ok:
				case err == nil:
					fmt.Fprintf(out, "%s %s\n", successStyle.Render("ok"), name)
				default:
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", warningStyle.Render("failed"), name, err)
				}
			}
			if failed > 0 {
				return &ExitError{Code: exitFailure, Err: fmt.Errorf("%d package(s) failed", failed)}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearPkgs, "clear", false, "remove extracted packages")
	return cmd
}

// progress returns a progress callback and a function that ends progress
// display. A spinner is drawn only when stderr is a terminal.
func (a *app) progress() (extract.ProgressFunc, func()) {
	f, ok := a.stderr.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return plainProgress(a.stderr), func() {}
	}
	sp := newSpinner(a.stderr, "Preparing packages...", 80*time.Millisecond, true)
	sp.Start()
	return func(p extract.Progress) {
		sp.SetMessage(p.Message)
	}, func() { sp.Stop("") }
}

// plainProgress prints per-archive and per-package messages only.
func plainProgress(w io.Writer) extract.ProgressFunc {
	return func(p extract.Progress) {
		if strings.HasPrefix(p.Message, "Extracting package") || strings.HasSuffix(p.Message, "successfully") {
			fmt.Fprintln(w, subtitleStyle.Render(p.Message))
		}
	}
}
