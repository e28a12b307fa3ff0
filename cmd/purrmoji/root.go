package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gogpu/purrmoji"
	"github.com/gogpu/purrmoji/catalog"
	"github.com/gogpu/purrmoji/config"
)

// app holds the state shared by all commands.
type app struct {
	fs        afero.Fs
	stdout    io.Writer
	stderr    io.Writer
	clipboard func(string) error

	cfgFile string
	verbose bool
	icon    iconFlags
}

// iconFlags override the configured render settings.
type iconFlags struct {
	pkg      string
	variant  string
	format   string
	size     int
	contrast bool
	theme    string
}

func newApp() *app {
	return &app{
		fs:        afero.NewOsFs(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		clipboard: clipboard.WriteAll,
	}
}

func execute(args []string) int {
	a := newApp()
	root := a.rootCommand()
	root.SetArgs(args)
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(purrmoji.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return exitFailure
	}
	return exitOK
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "purrmoji",
		Short: "Render, convert and copy emoji",
		Long: titleStyle.Render("purrmoji") + subtitleStyle.Render(" - emoji packages from the command line") + `

purrmoji serves glyphs from the installed emoji packages (EmojiTwo,
OpenMoji, Twemoji, Noto, system fonts and a custom folder) and keeps
track of the ones you copy.

` + subtitleStyle.Render("Examples:") + `
  purrmoji extract                     Unpack the bundled packages
  purrmoji render 26BD -o ball.png     Render a glyph to PNG
  purrmoji codepoint 👩‍💻                  Print the code-point string
  purrmoji copy 😀                     Copy and count a glyph
  purrmoji frequent                    List frequently used glyphs`,
		SilenceUsage: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/purrmoji/config.toml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVarP(&a.icon.pkg, "package", "p", "", "emoji package")
	pf.StringVar(&a.icon.variant, "variant", "", "artwork variant (color, black)")
	pf.StringVar(&a.icon.format, "format", "", "asset format (png, svg, font)")
	pf.IntVarP(&a.icon.size, "size", "s", 0, "icon size in pixels")
	pf.BoolVar(&a.icon.contrast, "contrast", false, "invert black artwork")
	pf.StringVar(&a.icon.theme, "theme", "", "color theme for category icons (light, medium, dark)")

	root.AddCommand(
		a.renderCommand(),
		a.indexCommand(),
		a.codepointCommand(),
		a.packagesCommand(),
		a.copyCommand(),
		a.frequentCommand(),
		a.kaomojiCommand(),
		a.extractCommand(),
		a.configCommand(),
	)
	return root
}

// loadConfig reads the configuration and applies the icon flags that were
// set on cmd.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(a.fs, a.cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("package") {
		cfg.Icon.Package = a.icon.pkg
	}
	if flags.Changed("variant") {
		cfg.Icon.Variant = a.icon.variant
	}
	if flags.Changed("format") {
		cfg.Icon.Format = a.icon.format
	}
	if flags.Changed("size") {
		cfg.Icon.Size = a.icon.size
	}
	if flags.Changed("contrast") {
		cfg.Icon.Contrast = a.icon.contrast
	}
	if flags.Changed("theme") {
		cfg.Icon.Theme = a.icon.theme
	}
	if _, ok := catalog.Builtin().Lookup(cfg.Icon.Package); !ok {
		return config.Config{}, &ExitError{Code: exitFailure, Err: errors.New("unknown package " + cfg.Icon.Package)}
	}
	return cfg, nil
}

// openSession loads the configuration, installs the logger and opens a
// session.
func (a *app) openSession(cmd *cobra.Command) (*purrmoji.Session, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a.installLogger(cfg)
	return purrmoji.Open(cfg, purrmoji.WithFs(a.fs), purrmoji.WithClipboard(a.clipboard))
}

func (a *app) installLogger(cfg config.Config) {
	level, _ := cfg.Level()
	if a.verbose {
		level = slog.LevelDebug
	}
	handler := charmlog.NewWithOptions(a.stderr, charmlog.Options{
		Level:  charmlog.Level(level),
		Prefix: "purrmoji",
	})
	purrmoji.SetLogger(slog.New(handler))
}
