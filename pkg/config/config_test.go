package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow/transform"
	"github.com/matzehuels/sankeyflow/pkg/layout"
	"github.com/matzehuels/sankeyflow/pkg/render"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultMatchesPackages(t *testing.T) {
	cfg := Default()
	if got, want := cfg.LayoutConfig(), layout.DefaultConfig(); got != want {
		t.Errorf("LayoutConfig() = %+v, want %+v", got, want)
	}
	st := cfg.RenderStyle()
	def := render.DefaultStyle()
	if st.Curve != def.Curve || st.Palette != def.Palette || st.Theme != def.Theme || st.Labels != def.Labels {
		t.Errorf("RenderStyle() = %+v, want %+v", st, def)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := writeFile(t, "config.toml", `
[layout]
width = 1200
align = "left"

[layout.margins]
right = 120

[style]
palette = "ocean"
labels = false

[cache]
backend = "memory"
memory_size = 64

[server]
addr = "127.0.0.1:9000"
write_timeout = "45s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	lc := cfg.LayoutConfig()
	if lc.Width != 1200 || lc.Height != layout.DefaultHeight {
		t.Errorf("width/height = %v/%v", lc.Width, lc.Height)
	}
	if lc.Align != transform.AlignLeft {
		t.Errorf("Align = %q", lc.Align)
	}
	if lc.Margins.Right != 120 || lc.Margins.Top != layout.DefaultMargins.Top {
		t.Errorf("Margins = %+v", lc.Margins)
	}
	if cfg.Style.Palette != "ocean" || cfg.Style.Labels {
		t.Errorf("Style = %+v", cfg.Style)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.MemorySize != 64 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.WriteTimeout.Duration != 45*time.Second {
		t.Errorf("WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.ReadTimeout.Duration != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want default", cfg.Server.ReadTimeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
		message string
	}{
		{"syntax", "[layout\nwidth = 1", errors.ErrCodeParse, "read config"},
		{"unknown key", "[layout]\nwdith = 10\n", errors.ErrCodeInvalidInput, "unknown keys: layout.wdith"},
		{"bad duration", "[server]\nread_timeout = \"soon\"\n", errors.ErrCodeParse, "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.toml", tt.content))
			if !errors.Is(err, tt.code) {
				t.Fatalf("Load() = %v, want code %s", err, tt.code)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not contain %q", err, tt.message)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("explicit missing file: %v", err)
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if cfg.Layout.Width != layout.DefaultWidth {
		t.Errorf("Width = %v, want default", cfg.Layout.Width)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/etc/xdg", "sankeyflow", "config.toml") {
		t.Errorf("DefaultPath() = %q", path)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvCacheBackend: "redis",
		EnvRedisURL:     "redis://localhost:6379/1",
		EnvAddr:         ":9999",
		EnvPalette:      "neon",
		EnvTheme:        " dark ",
		EnvMemorySize:   "16",
		EnvMongoURI:     "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9999" || cfg.Style.Palette != "neon" || cfg.Style.Theme != "dark" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.MemorySize != 16 {
		t.Errorf("MemorySize = %d", cfg.Cache.MemorySize)
	}
	if cfg.Cache.MongoURI != "" {
		t.Error("empty variables should not override")
	}

	env[EnvMemorySize] = "lots"
	if err := ApplyEnv(&cfg, lookup); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ApplyEnv(bad size) = %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "SANKEYFLOW_TEST_DOTENV=from-file\nSANKEYFLOW_TEST_PRESET=from-file\n")
	t.Setenv("SANKEYFLOW_TEST_PRESET", "from-env")
	t.Cleanup(func() { os.Unsetenv("SANKEYFLOW_TEST_DOTENV") })

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SANKEYFLOW_TEST_DOTENV"); got != "from-file" {
		t.Errorf("dotenv value = %q", got)
	}
	if got := os.Getenv("SANKEYFLOW_TEST_PRESET"); got != "from-env" {
		t.Errorf("existing variable overridden: %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"align", func(c *Config) { c.Layout.Align = "diagonal" }, "invalid align"},
		{"width", func(c *Config) { c.Layout.Width = -1 }, "width must be a positive number"},
		{"curve", func(c *Config) { c.Style.Curve = "wavy" }, "invalid curve style"},
		{"shape", func(c *Config) { c.Style.NodeShape = "star" }, "invalid node shape"},
		{"theme", func(c *Config) { c.Style.Theme = "sepia" }, "invalid theme"},
		{"palette", func(c *Config) { c.Style.Palette = "rainbow" }, "rainbow"},
		{"backend", func(c *Config) { c.Cache.Backend = "memcached" }, "invalid backend"},
		{"timeout", func(c *Config) { c.Server.ReadTimeout = Duration{-time.Second} }, "timeouts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("Validate() = %v, want INVALID_INPUT", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not contain %q", err, tt.message)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Style.Colors = []string{"#112233", "#445566"}
	cfg.Server.WriteTimeout = Duration{90 * time.Second}

	path := writeFile(t, "config.toml", cfg.String())
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load(encoded): %v\n%s", err, cfg.String())
	}
	if back.Server.WriteTimeout != cfg.Server.WriteTimeout {
		t.Errorf("WriteTimeout = %v", back.Server.WriteTimeout)
	}
	if len(back.Style.Colors) != 2 || back.Style.Colors[1] != "#445566" {
		t.Errorf("Colors = %v", back.Style.Colors)
	}
	if back.LayoutConfig() != cfg.LayoutConfig() {
		t.Errorf("layout changed: %+v", back.Layout)
	}
}
