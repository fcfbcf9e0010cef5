package config

import (
	"fmt"
	"image/color"
	"os"
	"os/user"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	General GeneralConfig          `toml:"general"`
	Theme   ThemeConfig            `toml:"theme"`
	Groups  map[string]LaunchGroup `toml:"groups"`
}

type GeneralConfig struct {
	HistorySize int    `toml:"history_size"`
	Terminal    string `toml:"terminal"`
}

// LaunchGroup selects which item sources are active and which
// whitelist/blacklist/env overrides apply when that group is launched.
type LaunchGroup struct {
	Sources   []string          `toml:"sources"`
	Env       map[string]string `toml:"env"`
	Whitelist []string          `toml:"whitelist"`
	Blacklist []string          `toml:"blacklist"`
	Items     []StaticItem      `toml:"items"`
}

// StaticItem is an item defined directly in the config file rather than
// discovered by a scanner.
type StaticItem struct {
	Name     string `toml:"name"`
	Command  string `toml:"command"`
	Icon     string `toml:"icon"`
	Terminal bool   `toml:"terminal"`
}

// ThemeConfig holds panel geometry and colors. Colors are 8-hex-digit RGBA
// strings; anything else falls back to opaque black at parse time.
type ThemeConfig struct {
	Width               uint32  `toml:"width"`
	Height              uint32  `toml:"height"`
	Padding             float64 `toml:"padding"`
	Spacing             float64 `toml:"spacing"`
	BorderRadius        float64 `toml:"border_radius"`
	Background          string  `toml:"background"`
	BorderColor         string  `toml:"border_color"`
	Text                string  `toml:"text"`
	SelectionBackground string  `toml:"selection_background"`
	SelectionText       string  `toml:"selection_text"`
	NumberColor         string  `toml:"number_color"`
}

var DefaultConfig = Config{
	General: GeneralConfig{
		HistorySize: 50,
		Terminal:    "",
	},
	Theme: ThemeConfig{
		Width:               600,
		Height:              400,
		Padding:             20,
		Spacing:             10,
		BorderRadius:        12,
		Background:          "1e1e1eff",
		BorderColor:         "3c3c50ff",
		Text:                "c8c8c8ff",
		SelectionBackground: "3c3c50ff",
		SelectionText:       "ffffffff",
		NumberColor:         "646464ff",
	},
	Groups: map[string]LaunchGroup{
		"default": {
			Sources: []string{"desktop", "bin", "scripts"},
		},
	},
}

// DefaultPath returns the config file location under the user's config dir.
func DefaultPath() string {
	return expandPath("~/.config/lumen/config.toml")
}

func LoadConfig(path string) (*Config, error) {
	expandedPath := expandPath(path)

	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		cfg := DefaultConfig
		return &cfg, nil
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Groups == nil {
		cfg.Groups = map[string]LaunchGroup{}
	}
	if _, ok := cfg.Groups["default"]; !ok {
		cfg.Groups["default"] = DefaultConfig.Groups["default"]
	}

	return &cfg, nil
}

func LoadAndValidateConfig(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	t := c.Theme
	if t.Width < 100 || t.Width > 4000 {
		return fmt.Errorf("invalid theme width: %d (must be 100-4000)", t.Width)
	}
	if t.Height < 100 || t.Height > 4000 {
		return fmt.Errorf("invalid theme height: %d (must be 100-4000)", t.Height)
	}
	if t.Padding < 0 || t.Padding > 200 {
		return fmt.Errorf("invalid padding: %v (must be 0-200)", t.Padding)
	}
	if t.BorderRadius < 0 || t.BorderRadius > 100 {
		return fmt.Errorf("invalid border_radius: %v (must be 0-100)", t.BorderRadius)
	}
	if c.General.HistorySize < 0 || c.General.HistorySize > 10000 {
		return fmt.Errorf("invalid history_size: %d (must be 0-10000)", c.General.HistorySize)
	}
	return nil
}

// Group returns the named launch group, falling back to "default" when the
// name is unknown.
func (c *Config) Group(name string) (string, LaunchGroup) {
	if g, ok := c.Groups[name]; ok {
		return name, g
	}
	return "default", c.Groups["default"]
}

// ParseColor decodes an 8-hex-digit RGBA string (an optional leading '#' is
// allowed). Malformed or short strings yield opaque black.
func ParseColor(hex string) color.NRGBA {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 8 {
		return color.NRGBA{A: 0xff}
	}
	var out [4]uint8
	for i := 0; i < 4; i++ {
		hi, ok1 := hexVal(hex[i*2])
		lo, ok2 := hexVal(hex[i*2+1])
		if !ok1 || !ok2 {
			return color.NRGBA{A: 0xff}
		}
		out[i] = hi<<4 | lo
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

func hexVal(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		usr, err := user.Current()
		if err == nil {
			return filepath.Join(usr.HomeDir, path[1:])
		}
	}
	return path
}

func SaveConfig(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(expandedPath, data, 0644)
}
