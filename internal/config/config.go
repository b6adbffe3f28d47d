// Package config provides TOML-based drawbot settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	appDir     = "drawbot"
	configFile = "config.toml"
)

// Config holds the settings a drawing run starts from. Command-line flags
// override individual values.
type Config struct {
	Width     int      `toml:"width"`
	OriginX   int      `toml:"origin_x"`
	OriginY   int      `toml:"origin_y"`
	Backend   string   `toml:"backend"`
	Mode      string   `toml:"mode"`
	Delay     Duration `toml:"delay"`
	Countdown Duration `toml:"countdown"`

	MinPoints    int `toml:"min_points"`
	MaxPoints    int `toml:"max_points"`
	BlurKernel   int `toml:"blur_kernel"`
	DilateKernel int `toml:"dilate_kernel"`

	YdotoolPath string  `toml:"ydotool_path"`
	JCodeSpeed  float64 `toml:"jcode_speed"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:        100,
		OriginX:      400,
		OriginY:      600,
		Backend:      "ydotool",
		Mode:         "click",
		Delay:        Duration(2 * time.Millisecond),
		Countdown:    Duration(5 * time.Second),
		MinPoints:    5,
		MaxPoints:    300,
		BlurKernel:   3,
		DilateKernel: 2,
		JCodeSpeed:   100,
	}
}

// DefaultPath returns ~/.config/drawbot/config.toml (or the platform equivalent).
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, configFile)
}

// Load reads the config at path over the defaults. A missing file is not an
// error when the path is the default one.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the pipeline cannot run with. Width is checked
// by the image loader so that bad values surface as width errors.
func (c Config) Validate() error {
	if c.BlurKernel < 1 || c.BlurKernel%2 == 0 {
		return fmt.Errorf("blur_kernel must be odd and positive, got %d", c.BlurKernel)
	}
	if c.DilateKernel < 0 {
		return fmt.Errorf("dilate_kernel must not be negative, got %d", c.DilateKernel)
	}
	if c.MinPoints < 1 {
		return fmt.Errorf("min_points must be positive, got %d", c.MinPoints)
	}
	if c.MaxPoints < 2 {
		return fmt.Errorf("max_points must be at least 2, got %d", c.MaxPoints)
	}
	if c.Delay < 0 || c.Countdown < 0 {
		return errors.New("delay and countdown must not be negative")
	}
	return nil
}

// Duration is a time.Duration stored as a string such as "2ms" in TOML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
