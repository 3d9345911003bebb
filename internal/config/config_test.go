package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dice.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
theme: neon
sound: false
listen: 127.0.0.1:8089
window:
  width: 480
tuning:
  duration: 1500ms
  spin_turns: 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "neon" || cfg.Sound || cfg.Listen != "127.0.0.1:8089" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Window.Width != 480 || cfg.Window.Height != 320 {
		t.Fatalf("window=%+v", cfg.Window)
	}
	if cfg.Tuning.Duration != 1500*time.Millisecond || cfg.Tuning.SpinTurns != 4 {
		t.Fatalf("tuning=%+v", cfg.Tuning)
	}
	if cfg.Tuning.Restitution != 0.8 {
		t.Fatalf("restitution=%v, want default 0.8", cfg.Tuning.Restitution)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != Default().Theme {
		t.Fatalf("theme=%q", cfg.Theme)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	if _, err := Load(writeFile(t, "colour: red\n")); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []string{
		"tuning:\n  duration: 0s\n",
		"tuning:\n  restitution: 1.5\n",
		"window:\n  scale: 0\n",
		"texture_size: -1\n",
	}
	for _, body := range cases {
		_, err := Load(writeFile(t, body))
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("%q: err=%v, want ErrInvalid", body, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v, want not exist", err)
	}
}
