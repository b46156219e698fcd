// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Makepad-fr/tadalists/internal/logging"
	"github.com/Makepad-fr/tadalists/internal/view"
)

// Default values.
const (
	DefaultAPIURL       = "https://66a89223e40d3aa6ff588463.mockapi.io/api/v1"
	DefaultTimeout      = 10 * time.Second
	DefaultCascadeDelay = 500 * time.Millisecond
	DefaultLogLevel     = "warn"
	DefaultTheme        = "classic"

	dirName          = ".tada"
	userConfigName   = "config.toml"
	projectConfig    = "tada.toml"
	projectConfigAlt = ".tada.toml"
)

// Config holds the full configuration for tada.
type Config struct {
	APIURL       string        `toml:"api_url"`
	Timeout      time.Duration `toml:"timeout"`
	CascadeDelay time.Duration `toml:"cascade_delay"`
	LogLevel     string        `toml:"log_level"`
	Theme        string        `toml:"theme"`
	SortBy       view.SortKey  `toml:"sort_by"`
	SortOrder    view.Order    `toml:"sort_order"`
	Group        bool          `toml:"group"`

	// Files that were applied, in order. Not persisted.
	Files []string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.Timeout = DefaultTimeout
	cfg.CascadeDelay = DefaultCascadeDelay
	cfg.LogLevel = DefaultLogLevel
	cfg.Theme = DefaultTheme
	cfg.SortBy = view.SortCreated
	cfg.SortOrder = view.Asc
}

// Dir returns the per-user tada directory (~/.tada).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tada/config.toml, or TADA_CONFIG)
// 3. Project config file (tada.toml or .tada.toml in the current directory)
// 4. .env in the current directory (never overrides the real environment)
// 5. TADA_* environment variables
// 6. Root flags parsed from args
//
// It returns the config and the arguments left after the flags.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := userConfigFile(); p != "" {
		if err := loadFile(cfg, p); err != nil {
			return nil, nil, err
		}
	}
	if p := projectConfigFile(); p != "" {
		if err := loadFile(cfg, p); err != nil {
			return nil, nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, nil, err
	}

	rest, err := parseFlags(cfg, fs, args)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

func userConfigFile() string {
	if p := strings.TrimSpace(os.Getenv("TADA_CONFIG")); p != "" {
		return p
	}
	dir, err := Dir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, userConfigName)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func projectConfigFile() string {
	for _, name := range []string{projectConfig, projectConfigAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TADA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_SORT_BY"); v != "" {
		cfg.SortBy = view.SortKey(v)
	}
	if v := os.Getenv("TADA_SORT_ORDER"); v != "" {
		cfg.SortOrder = view.Order(v)
	}
	for name, dst := range map[string]*time.Duration{
		"TADA_TIMEOUT":       &cfg.Timeout,
		"TADA_CASCADE_DELAY": &cfg.CascadeDelay,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
	}
	return nil
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) ([]string, error) {
	if fs == nil {
		fs = flag.NewFlagSet("tada", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
	}
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "REST API base URL")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "output theme: classic, neon or mono")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group todo output by pending/done")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// Validate normalizes enum fields and rejects values that cannot work.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return errors.New("config: api_url is empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("config: api_url %q must start with http:// or https://", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.CascadeDelay < 0 {
		return fmt.Errorf("config: cascade_delay must not be negative, got %s", c.CascadeDelay)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
		c.Theme = strings.ToLower(c.Theme)
	default:
		return fmt.Errorf("config: unknown theme %q (want classic, neon or mono)", c.Theme)
	}
	key, err := view.ParseSortKey(string(c.SortBy))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.SortBy = key
	order, err := view.ParseOrder(string(c.SortOrder))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.SortOrder = order
	return nil
}
