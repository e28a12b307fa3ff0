// Package config loads purrmoji settings from a TOML file, environment
// variables and built-in defaults, in decreasing order of precedence:
// environment, file, defaults.
//
// Environment variables use the PURRMOJI_ prefix with dots replaced by
// underscores, for example PURRMOJI_ICON_PACKAGE.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/gogpu/purrmoji/cache"
	"github.com/gogpu/purrmoji/catalog"
	"github.com/gogpu/purrmoji/extract"
	"github.com/gogpu/purrmoji/icon"
)

const (
	// AppName names the configuration folder.
	AppName = "purrmoji"
	// FileName is the configuration file name.
	FileName = "config.toml"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "PURRMOJI"
)

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

var (
	// ErrExists is returned by Init when the file is already present.
	ErrExists = errors.New("config: file already exists")
	// ErrInvalid is wrapped by validation failures.
	ErrInvalid = errors.New("config: invalid value")
)

// Icon holds the default render configuration.
type Icon struct {
	Package  string `mapstructure:"package" toml:"package"`
	Variant  string `mapstructure:"variant" toml:"variant"`
	Format   string `mapstructure:"format" toml:"format"`
	Size     int    `mapstructure:"size" toml:"size"`
	Contrast bool   `mapstructure:"contrast" toml:"contrast"`
	Theme    string `mapstructure:"theme" toml:"theme"`
}

// Config is the complete application configuration.
type Config struct {
	// DataDir holds the usage store.
	DataDir string `mapstructure:"data_dir" toml:"data_dir"`
	// PackagesDir holds the extracted emoji packages.
	PackagesDir string `mapstructure:"packages_dir" toml:"packages_dir"`
	// SourceDir holds the bundled package archives.
	SourceDir string `mapstructure:"source_dir" toml:"source_dir"`
	// CustomDir is the folder served by the Custom package.
	CustomDir     string `mapstructure:"custom_dir" toml:"custom_dir"`
	Store         string `mapstructure:"store" toml:"store"`
	CacheCapacity int    `mapstructure:"cache_capacity" toml:"cache_capacity"`
	LogLevel      string `mapstructure:"log_level" toml:"log_level"`
	Icon          Icon   `mapstructure:"icon" toml:"icon"`
}

// Dir returns the configuration directory: %APPDATA% on Windows,
// ~/Library/Application Support on macOS and $XDG_CONFIG_HOME (default
// ~/.config) elsewhere.
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("config: home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Default returns the built-in configuration.
func Default() (Config, error) {
	packages, err := extract.UserPackagesDir()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	data := filepath.Dir(packages)
	return Config{
		DataDir:       data,
		PackagesDir:   packages,
		SourceDir:     filepath.Join(data, "source"),
		CustomDir:     filepath.Join(data, "custom"),
		Store:         StoreJSON,
		CacheCapacity: cache.DefaultCapacity,
		LogLevel:      "warn",
		Icon: Icon{
			Package: catalog.EmojiTwo,
			Variant: catalog.Color.String(),
			Format:  catalog.PNG.String(),
			Size:    icon.DefaultSize,
			Theme:   icon.Light.String(),
		},
	}, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("packages_dir", d.PackagesDir)
	v.SetDefault("source_dir", d.SourceDir)
	v.SetDefault("custom_dir", d.CustomDir)
	v.SetDefault("store", d.Store)
	v.SetDefault("cache_capacity", d.CacheCapacity)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("icon.package", d.Icon.Package)
	v.SetDefault("icon.variant", d.Icon.Variant)
	v.SetDefault("icon.format", d.Icon.Format)
	v.SetDefault("icon.size", d.Icon.Size)
	v.SetDefault("icon.contrast", d.Icon.Contrast)
	v.SetDefault("icon.theme", d.Icon.Theme)
}

// Load reads the file at path from fs. An empty path means Path(). A
// missing file is not an error; defaults and environment still apply.
func Load(fs afero.Fs, path string) (Config, error) {
	d, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		if path, err = Path(); err != nil {
			return Config{}, err
		}
	}

	v := viper.New()
	v.SetFs(fs)
	setDefaults(v, d)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if ok, _ := afero.Exists(fs, path); ok {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	var errs []error
	if c.Store != StoreJSON && c.Store != StoreSQLite {
		errs = append(errs, fmt.Errorf("%w: store %q (want %s or %s)", ErrInvalid, c.Store, StoreJSON, StoreSQLite))
	}
	if c.CacheCapacity <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_capacity %d", ErrInvalid, c.CacheCapacity))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.IconConfig(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// IconConfig converts the icon section into a render configuration.
func (c Config) IconConfig() (icon.Config, error) {
	v, err := catalog.ParseVariant(c.Icon.Variant)
	if err != nil {
		return icon.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	f, err := catalog.ParseFormat(c.Icon.Format)
	if err != nil {
		return icon.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	t, err := icon.ParseTheme(c.Icon.Theme)
	if err != nil {
		return icon.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return icon.Config{
		Package:  c.Icon.Package,
		Variant:  v,
		Format:   f,
		Size:     c.Icon.Size,
		Contrast: c.Icon.Contrast,
		Theme:    t,
	}, nil
}

// StorePath returns the usage store file for the configured backend.
func (c Config) StorePath() string {
	if c.Store == StoreSQLite {
		return filepath.Join(c.DataDir, "emoji_data.db")
	}
	return filepath.Join(c.DataDir, "emoji_data.json")
}

// Init writes the default configuration to path. It refuses to replace an
// existing file unless force is set.
func Init(fs afero.Fs, path string, force bool) error {
	if !force {
		if ok, _ := afero.Exists(fs, path); ok {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	d, err := Default()
	if err != nil {
		return err
	}
	return Write(fs, path, d)
}

// Write encodes cfg as TOML to path, creating parent directories.
func Write(fs afero.Fs, path string, cfg Config) error {
	raw, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := afero.WriteFile(fs, path, raw, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
