// Package config loads subsel.toml.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"subsel/pkg/render"
	"subsel/pkg/subselect"
)

// DefaultFile is the file name looked up next to the fixture.
const DefaultFile = "subsel.toml"

// ErrInvalidColor is returned by Theme for a colour that is not a hex
// triplet.
var ErrInvalidColor = errors.New("invalid colour")

type Config struct {
	Viewport         Viewport `toml:"viewport"`
	ScrollDebounceMS int      `toml:"scroll_debounce_ms"`
	Theme            Theme    `toml:"theme"`
	Log              Log      `toml:"log"`
}

type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Theme colours are hex strings ("#rrggbb" or "#rgb").
type Theme struct {
	Background string  `toml:"background"`
	Element    string  `toml:"element"`
	Hover      string  `toml:"hover"`
	Active     string  `toml:"active"`
	Clip       string  `toml:"clip"`
	LineWidth  float64 `toml:"line_width"`
	Labels     *bool   `toml:"labels"`
}

type Log struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

func Default() *Config {
	return &Config{
		Viewport:         Viewport{Width: 800, Height: 600},
		ScrollDebounceMS: int(subselect.DefaultScrollDebounce / time.Millisecond),
		Log:              Log{Level: "info", Format: "text"},
	}
}

// LoadFromFile reads filePath. A missing file yields the defaults.
func LoadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		return nil, fmt.Errorf("viewport %gx%g: width and height must be positive", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if _, err := cfg.RenderTheme(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ScrollDebounce() time.Duration {
	return time.Duration(c.ScrollDebounceMS) * time.Millisecond
}

// RenderTheme overlays the configured colours on render.DefaultTheme.
func (c *Config) RenderTheme() (render.Theme, error) {
	theme := render.DefaultTheme()
	colours := []struct {
		name  string
		value string
		dst   *colorful.Color
	}{
		{"background", c.Theme.Background, &theme.Background},
		{"element", c.Theme.Element, &theme.Element},
		{"hover", c.Theme.Hover, &theme.Hover},
		{"active", c.Theme.Active, &theme.Active},
		{"clip", c.Theme.Clip, &theme.Clip},
	}
	for _, col := range colours {
		if col.value == "" {
			continue
		}
		parsed, err := colorful.Hex(strings.TrimSpace(col.value))
		if err != nil {
			return theme, fmt.Errorf("theme.%s %q: %w", col.name, col.value, ErrInvalidColor)
		}
		*col.dst = parsed
	}
	if c.Theme.LineWidth > 0 {
		theme.LineWidth = c.Theme.LineWidth
	}
	if c.Theme.Labels != nil {
		theme.Labels = *c.Theme.Labels
	}
	return theme, nil
}

// Apply sets the helper options the file controls.
func (c *Config) Apply(opts *subselect.Options) {
	opts.ScrollDebounce = c.ScrollDebounce()
}

func (c *Config) level() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger builds a logger writing to w at the configured level and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
