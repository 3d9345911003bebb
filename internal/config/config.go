// Package config loads the optional YAML settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sparkdice/sparkos/dice"
	"sparkdice/sparkos/theme"
)

var ErrInvalid = errors.New("config: invalid")

type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Scale  int `yaml:"scale"`
	TPS    int `yaml:"tps"`
}

type Config struct {
	Window   Window `yaml:"window"`
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	Theme string `yaml:"theme"`
	Sound bool   `yaml:"sound"`

	// Assets is a directory holding roll.tea and settle.tea. Empty selects
	// the built-in clips.
	Assets string `yaml:"assets"`
	// Prefs is the preferences database path. Empty disables persistence.
	Prefs string `yaml:"prefs"`
	// Listen is the spectator stream address. Empty disables the stream.
	Listen string `yaml:"listen"`

	// Seed fixes the roll sequence; 0 seeds from the clock.
	Seed        int64 `yaml:"seed"`
	TextureSize int   `yaml:"texture_size"`

	Tuning dice.Tuning `yaml:"tuning"`
}

func Default() Config {
	return Config{
		Window:      Window{Width: 320, Height: 320, Scale: 2, TPS: 60},
		LogLevel:    "info",
		Theme:       theme.Default,
		Sound:       true,
		Prefs:       DefaultPrefsPath(),
		TextureSize: 128,
		Tuning:      dice.DefaultTuning(),
	}
}

// DefaultPrefsPath returns prefs.db under the user config directory.
func DefaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".sparkdice", "prefs.db")
	}
	return filepath.Join(dir, "sparkdice", "prefs.db")
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.Scale <= 0:
		return fmt.Errorf("%w: window scale %d", ErrInvalid, c.Window.Scale)
	case c.Window.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.Window.TPS)
	case c.TextureSize <= 0:
		return fmt.Errorf("%w: texture_size %d", ErrInvalid, c.TextureSize)
	case c.Tuning.Duration <= 0:
		return fmt.Errorf("%w: tuning.duration %s", ErrInvalid, c.Tuning.Duration)
	case c.Tuning.Restitution <= 0 || c.Tuning.Restitution > 1:
		return fmt.Errorf("%w: tuning.restitution %v not in (0,1]", ErrInvalid, c.Tuning.Restitution)
	}
	return nil
}
