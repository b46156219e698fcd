package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Makepad-fr/tadalists/internal/view"
)

// isolate points HOME and the working directory at fresh temp dirs and
// unsets TADA_* variables (restored when the test ends).
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"TADA_CONFIG", "TADA_API_URL", "TADA_LOG_LEVEL", "TADA_THEME",
		"TADA_SORT_BY", "TADA_SORT_ORDER", "TADA_TIMEOUT", "TADA_CASCADE_DELAY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home, work
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("tada", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, rest, err := Load(newFlagSet(), []string{"lists"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want default", cfg.APIURL)
	}
	if cfg.CascadeDelay != DefaultCascadeDelay || cfg.Timeout != DefaultTimeout {
		t.Errorf("durations = %s/%s", cfg.CascadeDelay, cfg.Timeout)
	}
	if cfg.SortBy != view.SortCreated || cfg.SortOrder != view.Asc {
		t.Errorf("sort = %s %s", cfg.SortBy, cfg.SortOrder)
	}
	if len(rest) != 1 || rest[0] != "lists" {
		t.Errorf("rest = %v, want [lists]", rest)
	}
}

func TestLoadPrecedence(t *testing.T) {
	home, work := isolate(t)

	userDir := filepath.Join(home, ".tada")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	user := "api_url = \"http://user.example/api\"\ntheme = \"neon\"\ncascade_delay = \"1s\"\nsort_by = \"priority\"\n"
	if err := os.WriteFile(filepath.Join(userDir, "config.toml"), []byte(user), 0o644); err != nil {
		t.Fatal(err)
	}
	project := "theme = \"mono\"\nsort_order = \"desc\"\n"
	if err := os.WriteFile(filepath.Join(work, "tada.toml"), []byte(project), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, ".env"), []byte("TADA_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TADA_CASCADE_DELAY", "50ms")

	cfg, _, err := Load(newFlagSet(), []string{"-api", "http://flag.example/v1/", "todos"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://flag.example/v1" {
		t.Errorf("APIURL = %q, want flag value without trailing slash", cfg.APIURL)
	}
	if cfg.Theme != "mono" {
		t.Errorf("Theme = %q, want project override mono", cfg.Theme)
	}
	if cfg.SortBy != view.SortPriority || cfg.SortOrder != view.Desc {
		t.Errorf("sort = %s %s, want priority desc", cfg.SortBy, cfg.SortOrder)
	}
	if cfg.CascadeDelay != 50*time.Millisecond {
		t.Errorf("CascadeDelay = %s, want env 50ms", cfg.CascadeDelay)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug from .env", cfg.LogLevel)
	}
	if len(cfg.Files) != 2 {
		t.Errorf("Files = %v, want user and project file", cfg.Files)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	_, work := isolate(t)
	if err := os.WriteFile(filepath.Join(work, "tada.toml"), []byte("colour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(newFlagSet(), nil); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.APIURL = " " }},
		{"no scheme", func(c *Config) { c.APIURL = "example.com/api" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative delay", func(c *Config) { c.CascadeDelay = -time.Second }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad theme", func(c *Config) { c.Theme = "rainbow" }},
		{"bad sort", func(c *Config) { c.SortBy = "size" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
