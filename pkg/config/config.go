// Package config loads sankeyflow settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, a .env file
// in the working directory, process environment variables, command-line
// flags (applied by the caller).
//
// A config file looks like:
//
//	[layout]
//	width = 1200
//	height = 800
//	align = "left"
//
//	[layout.margins]
//	top = 20
//	right = 120
//	bottom = 20
//	left = 20
//
//	[style]
//	palette = "ocean"
//	theme = "dark"
//	gradient = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	write_timeout = "1m"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow/transform"
	"github.com/matzehuels/sankeyflow/pkg/layout"
	"github.com/matzehuels/sankeyflow/pkg/render"
	"github.com/matzehuels/sankeyflow/pkg/ribbon"
)

// Config is the full settings tree.
type Config struct {
	Layout Layout        `toml:"layout"`
	Style  Style         `toml:"style"`
	Cache  cache.Options `toml:"cache"`
	Server Server        `toml:"server"`
}

// Layout mirrors [layout.Config].
type Layout struct {
	Width         float64        `toml:"width"`
	Height        float64        `toml:"height"`
	NodeThickness float64        `toml:"node_thickness"`
	NodePadding   float64        `toml:"node_padding"`
	Iterations    int            `toml:"iterations"`
	Align         string         `toml:"align"`
	Margins       layout.Margins `toml:"margins"`
}

// Style mirrors [render.Style].
type Style struct {
	Curve        string   `toml:"curve"`
	Palette      string   `toml:"palette"`
	Colors       []string `toml:"colors"`
	LinkColor    string   `toml:"link_color"`
	LinkOpacity  float64  `toml:"link_opacity"`
	NodeShape    string   `toml:"node_shape"`
	CornerRadius float64  `toml:"corner_radius"`
	Gradient     bool     `toml:"gradient"`
	Shadow       bool     `toml:"shadow"`
	Theme        string   `toml:"theme"`
	Labels       bool     `toml:"labels"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	// MaxBodyBytes bounds request bodies accepted by the API.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a string such as "30s" or "2m".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration the way UnmarshalText reads it.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Server defaults.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 2 * time.Minute
	DefaultMaxBodyBytes = 10 << 20
)

// Default returns the built-in configuration. It matches the zero-flag
// behaviour of the CLI.
func Default() Config {
	lc := layout.DefaultConfig()
	st := render.DefaultStyle()
	return Config{
		Layout: Layout{
			Width:         lc.Width,
			Height:        lc.Height,
			NodeThickness: lc.NodeThickness,
			NodePadding:   lc.NodePadding,
			Iterations:    lc.Iterations,
			Align:         string(lc.Align),
			Margins:       lc.Margins,
		},
		Style: Style{
			Curve:        string(st.Curve),
			Palette:      st.Palette,
			LinkOpacity:  st.LinkOpacity,
			NodeShape:    string(st.NodeShape),
			CornerRadius: st.CornerRadius,
			Theme:        string(st.Theme),
			Labels:       st.Labels,
		},
		Cache: cache.Options{
			Backend:    cache.BackendFile,
			MemorySize: cache.DefaultMemorySize,
		},
		Server: Server{
			Addr:         DefaultAddr,
			ReadTimeout:  Duration{DefaultReadTimeout},
			WriteTimeout: Duration{DefaultWriteTimeout},
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/sankeyflow/config.toml, or
// ~/.config/sankeyflow/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sankeyflow", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sankeyflow", "config.toml"), nil
}

// LayoutConfig converts the layout section.
func (c Config) LayoutConfig() layout.Config {
	return layout.Config{
		Width:         c.Layout.Width,
		Height:        c.Layout.Height,
		NodeThickness: c.Layout.NodeThickness,
		NodePadding:   c.Layout.NodePadding,
		Margins:       c.Layout.Margins,
		Iterations:    c.Layout.Iterations,
		Align:         transform.Align(strings.ToLower(c.Layout.Align)),
	}
}

// RenderStyle converts the style section.
func (c Config) RenderStyle() render.Style {
	s := c.Style
	return render.Style{
		Curve:        ribbon.Style(s.Curve),
		Palette:      s.Palette,
		Colors:       append([]string(nil), s.Colors...),
		LinkColor:    s.LinkColor,
		LinkOpacity:  s.LinkOpacity,
		NodeShape:    render.Shape(s.NodeShape),
		CornerRadius: s.CornerRadius,
		Gradient:     s.Gradient,
		Shadow:       s.Shadow,
		Theme:        render.Theme(s.Theme),
		Labels:       s.Labels,
	}.WithDefaults()
}

// Validate rejects unknown enum values and unusable numbers.
func (c Config) Validate() error {
	if err := c.LayoutConfig().Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if err := c.RenderStyle().Validate(); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	if !cache.ValidBackend(c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "cache: invalid backend %q (must be one of: %s)",
			c.Cache.Backend, strings.Join(cache.Backends, ", "))
	}
	if c.Cache.MemorySize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache: memory_size must not be negative, got %d", c.Cache.MemorySize)
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server: timeouts must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server: max_body_bytes must not be negative")
	}
	return nil
}

// String renders the configuration as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := Encode(&b, c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
