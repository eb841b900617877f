package lumina

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

// Config is the single configuration value shared by every component of a
// Scene. Construct it once (DefaultConfig or LoadConfig), adjust it, and pass
// the pointer to NewScene; components keep the pointer and never copy it.
type Config struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title,omitempty"`

	// MaxNoteAgeMS is the age in milliseconds after which a note is evicted
	// even if no note-off arrived.
	MaxNoteAgeMS float64 `json:"maxNoteAgeMs"`

	// FadeAlpha is the opacity of the per-frame background wash. Lower values
	// leave longer motion trails.
	FadeAlpha  float64 `json:"fadeAlpha"`
	Background Color   `json:"background"`

	// GlowRadius is the fixed blur radius in pixels used by glow strokes.
	GlowRadius int `json:"glowRadius"`

	// Wobble is the peak-to-peak vertex noise in pixels for wobbly shapes.
	Wobble float64 `json:"wobble"`

	TrackCount int     `json:"trackCount"`
	Palette    []Color `json:"palette,omitempty"`

	// Routes maps a MIDI channel (0-15) to the luminode channels that receive
	// its notes. Channels without an entry broadcast to every luminode channel.
	Routes map[int][]string `json:"routes,omitempty"`

	ShowHUD  bool   `json:"showHud"`
	Debug    bool   `json:"debug"`
	LogLevel string `json:"logLevel,omitempty"`

	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string `json:"screenshotDir,omitempty"`

	Clock  Clock        `json:"-"`
	Logger *slog.Logger `json:"-"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Width:        1280,
		Height:       720,
		Title:        "lumina",
		MaxNoteAgeMS: 2000,
		FadeAlpha:    0.18,
		Background:   Color{0.02, 0.02, 0.05, 1},
		GlowRadius:   8,
		Wobble:       6,
		TrackCount:   4,
		Palette: []Color{
			{0.05, 0.10, 0.35, 1},
			{0.45, 0.10, 0.55, 1},
			{0.95, 0.35, 0.30, 1},
			{1.00, 0.80, 0.35, 1},
		},
		LogLevel:      "info",
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig reads a JSON config from path on top of the defaults. A missing
// file is not an error; the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Save writes the config as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate replaces out-of-range values with defaults and fills in the
// runtime collaborators (Clock, Logger) when absent.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.MaxNoteAgeMS <= 0 {
		c.MaxNoteAgeMS = def.MaxNoteAgeMS
	}
	if c.FadeAlpha <= 0 || c.FadeAlpha > 1 {
		c.FadeAlpha = def.FadeAlpha
	}
	if c.GlowRadius < 0 {
		c.GlowRadius = 0
	}
	if c.Wobble < 0 {
		c.Wobble = 0
	}
	if c.TrackCount < 1 {
		c.TrackCount = def.TrackCount
	}
	if len(c.Palette) == 0 {
		c.Palette = def.Palette
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = def.ScreenshotDir
	}
	if c.Clock == nil {
		c.Clock = NewWallClock()
	}
	if c.Logger == nil {
		c.Logger = logger
	}
}

// MaxNoteAge returns MaxNoteAgeMS as a time.Duration.
func (c *Config) MaxNoteAge() time.Duration {
	return time.Duration(c.MaxNoteAgeMS * float64(time.Millisecond))
}
