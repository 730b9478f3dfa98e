// Package config loads the overlay's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"WebCanvas/internal/history"
	"WebCanvas/internal/state"
	"WebCanvas/internal/stroke"
	"WebCanvas/internal/surface"
)

var ErrInvalid = errors.New("invalid config")

const (
	DefaultWidth      = 1280
	DefaultHeight     = 800
	DefaultBackground = "#FFFFFF"
)

// DefaultPalette is the swatch row of the toolbar.
var DefaultPalette = []string{"#4F46E5", "#DC2626", "#16A34A", "#000000"}

type Config struct {
	Canvas  CanvasConfig       `toml:"canvas"`
	Tool    state.ToolSettings `toml:"tool"`
	Stroke  StrokeConfig       `toml:"stroke"`
	Storage StorageConfig      `toml:"storage"`
	UI      UIConfig           `toml:"ui"`
}

type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// Background is what the eraser paints with.
	Background string `toml:"background"`
	HistoryCap int    `toml:"history_cap"`
}

type StrokeConfig struct {
	Thinning   float64 `toml:"thinning"`
	TaperStart float64 `toml:"taper_start"`
	TaperEnd   float64 `toml:"taper_end"`
	FlatStart  bool    `toml:"flat_start"`
	FlatEnd    bool    `toml:"flat_end"`
}

type StorageConfig struct {
	// Dir overrides the app storage root when set.
	Dir      string `toml:"dir"`
	Autosave bool   `toml:"autosave"`
}

type UIConfig struct {
	Palette []string `toml:"palette"`
}

func Default() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Background: DefaultBackground,
			HistoryCap: history.DefaultCap,
		},
		Tool: state.DefaultSettings(),
		Stroke: StrokeConfig{
			Thinning: stroke.DefaultOptions(0).Thinning,
		},
		Storage: StorageConfig{Autosave: true},
		UI:      UIConfig{Palette: append([]string(nil), DefaultPalette...)},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		problems = append(problems, fmt.Sprintf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height))
	}
	if _, err := surface.ParseColor(c.Canvas.Background); err != nil {
		problems = append(problems, "canvas.background: "+err.Error())
	}
	if c.Canvas.HistoryCap < 2 {
		problems = append(problems, fmt.Sprintf("canvas.history_cap %d must be at least 2", c.Canvas.HistoryCap))
	}
	if !c.Tool.Tool.Valid() {
		problems = append(problems, fmt.Sprintf("tool.tool %q is not a tool", c.Tool.Tool))
	}
	if !c.Tool.Shape.Valid() {
		problems = append(problems, fmt.Sprintf("tool.shape %q is not a shape", c.Tool.Shape))
	}
	if _, err := surface.ParseColor(c.Tool.Color); err != nil {
		problems = append(problems, "tool.color: "+err.Error())
	}
	if c.Tool.Size < state.MinSize || c.Tool.Size > state.MaxSize {
		problems = append(problems, fmt.Sprintf("tool.size %g outside [%d, %d]", c.Tool.Size, state.MinSize, state.MaxSize))
	}
	if c.Tool.Smoothing < 0 || c.Tool.Smoothing > 1 {
		problems = append(problems, fmt.Sprintf("tool.smoothing %g outside [0, 1]", c.Tool.Smoothing))
	}
	if c.Stroke.Thinning < -1 || c.Stroke.Thinning > 1 {
		problems = append(problems, fmt.Sprintf("stroke.thinning %g outside [-1, 1]", c.Stroke.Thinning))
	}
	if c.Stroke.TaperStart < 0 || c.Stroke.TaperEnd < 0 {
		problems = append(problems, "stroke tapers must not be negative")
	}
	for _, p := range c.UI.Palette {
		if _, err := surface.ParseColor(p); err != nil {
			problems = append(problems, "ui.palette: "+err.Error())
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// StrokeTemplate returns the configured outline options. Size, smoothing and
// streamline are filled in per stroke from the tool settings.
func (c Config) StrokeTemplate() stroke.Options {
	opts := stroke.DefaultOptions(0)
	opts.Thinning = c.Stroke.Thinning
	opts.TaperStart = c.Stroke.TaperStart
	opts.TaperEnd = c.Stroke.TaperEnd
	opts.FlatStart = c.Stroke.FlatStart
	opts.FlatEnd = c.Stroke.FlatEnd
	return opts
}
