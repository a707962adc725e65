// Package config holds runtime settings for the colorthief binary.
//
// Settings are resolved in three layers: built-in defaults, then COLORTHIEF_*
// environment variables, then command-line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/ironsheep/colorthief/internal/imaging"
	"github.com/ironsheep/colorthief/internal/palette"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COLORTHIEF_"

// Config is the resolved runtime configuration.
type Config struct {
	// LogLevel is one of trace, debug, info, warn, error or off.
	LogLevel string

	// FetchTimeout bounds a single URL fetch.
	FetchTimeout time.Duration

	// UserAgent overrides the HTTP User-Agent sent when fetching URLs.
	UserAgent string

	// Quality, ColorCount and ColorType are the defaults applied when a
	// request does not specify them.
	Quality    int
	ColorCount int
	ColorType  string

	// defaultsErr holds a malformed QUALITY or COLOR_COUNT variable until
	// ValidateDefaults reports it.
	defaultsErr error
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		FetchTimeout: imaging.DefaultTimeout,
		Quality:      palette.DefaultQuality,
		ColorCount:   palette.DefaultColorCount,
		ColorType:    string(palette.ColorTypeHex),
	}
}

// Load returns the defaults overlaid with the process environment.
func Load() (Config, error) {
	cfg := Default()
	err := cfg.ApplyEnv(os.LookupEnv)
	return cfg, err
}

// ApplyEnv overlays variables found by lookup. Unset or empty variables are
// ignored; malformed values leave the field unchanged. A malformed LOG_LEVEL
// environment is caught by Validate, a malformed FETCH_TIMEOUT is returned
// here, and malformed extraction defaults (QUALITY, COLOR_COUNT) are held
// back for ValidateDefaults so commands that extract nothing still run.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("USER_AGENT"); ok {
		c.UserAgent = v
	}
	if v, ok := get("COLOR_TYPE"); ok {
		c.ColorType = v
	}
	if v, ok := get("FETCH_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sFETCH_TIMEOUT: %w", EnvPrefix, err)
		}
		c.FetchTimeout = d
	}
	if v, ok := get("QUALITY"); ok {
		if n, err := strconv.Atoi(v); err != nil {
			c.defaultsErr = fmt.Errorf("%w: %sQUALITY: %w", palette.ErrInvalidOption, EnvPrefix, err)
		} else {
			c.Quality = n
		}
	}
	if v, ok := get("COLOR_COUNT"); ok {
		if n, err := strconv.Atoi(v); err != nil {
			c.defaultsErr = fmt.Errorf("%w: %sCOLOR_COUNT: %w", palette.ErrInvalidOption, EnvPrefix, err)
		} else {
			c.ColorCount = n
		}
	}

	return nil
}

// BindFlags registers persistent flags that override the configuration.
// The current values are used as flag defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (trace, debug, info, warn, error, off)")
	fs.DurationVar(&c.FetchTimeout, "timeout", c.FetchTimeout, "timeout for fetching image URLs")
	fs.StringVar(&c.UserAgent, "user-agent", c.UserAgent, "User-Agent header for image URLs")
}

// Validate checks the settings every command depends on: the log level and
// the fetch timeout.
func (c Config) Validate() error {
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	return nil
}

// ValidateDefaults checks the extraction defaults: quality, colour count and
// colour type. Failures wrap palette.ErrInvalidOption.
func (c Config) ValidateDefaults() error {
	if c.defaultsErr != nil {
		return c.defaultsErr
	}
	if _, err := palette.ParseColorType(c.ColorType); err != nil {
		return err
	}
	if _, _, err := palette.Validate(c.ColorCount, c.Options()); err != nil {
		return err
	}
	return nil
}

// Options returns the default extraction options. ColorType is assumed to
// have passed ValidateDefaults.
func (c Config) Options() palette.Options {
	ct, _ := palette.ParseColorType(c.ColorType)
	return palette.Options{Quality: c.Quality, ColorType: ct}
}

// Fetch returns the loader's HTTP settings.
func (c Config) Fetch() imaging.FetchOptions {
	return imaging.FetchOptions{
		Timeout:   c.FetchTimeout,
		UserAgent: c.UserAgent,
	}
}

// NewLogger creates the root logger writing to w. Stdout is reserved for
// program output, so callers normally pass os.Stderr.
func (c Config) NewLogger(w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(c.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "colorthief",
		Output: w,
		Level:  level,
	})
}
