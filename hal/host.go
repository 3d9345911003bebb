//go:build !tinygo

package hal

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// HostConfig controls the desktop/headless host backends.
type HostConfig struct {
	Title    string
	Width    int
	Height   int
	Scale    int
	TPS      int
	LogLevel string
	LogJSON  bool

	// Silent disables audio output (headless runs).
	Silent bool
}

func (c *HostConfig) normalize() {
	if c.Title == "" {
		c.Title = "Spark Dice"
	}
	if c.Width <= 0 {
		c.Width = 320
	}
	if c.Height <= 0 {
		c.Height = 320
	}
	if c.Scale <= 0 {
		c.Scale = 2
	}
	if c.TPS <= 0 {
		c.TPS = 60
	}
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer
	t      *hostTime
	aud    Audio
}

// New returns a host HAL implementation with default settings.
func New() HAL {
	return NewWithConfig(HostConfig{})
}

// NewWithConfig returns a host HAL implementation.
func NewWithConfig(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	cfg.normalize()
	var aud Audio = nullAudio{}
	if !cfg.Silent {
		aud = newHostAudio()
	}
	return &hostHAL{
		logger: newHostLogger(os.Stdout, cfg.LogLevel, cfg.LogJSON),
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:    newHostKeyboard(),
		ptr:    newHostPointer(),
		t:      newHostTime(),
		aud:    aud,
	}
}

type nullAudio struct{}

func (nullAudio) SampleRate() int { return 44100 }

func (nullAudio) Play(samples []int16, volume float64) error {
	_ = samples
	_ = volume
	return ErrNotImplemented
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Audio() Audio     { return h.aud }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

// hostLogger adapts line-oriented HAL logging onto zerolog.
//
// A leading "error:", "warn:" or "debug:" tag selects the level; the tag is kept in
// the message so lines read the same on every backend.
type hostLogger struct {
	z zerolog.Logger
}

func newHostLogger(w io.Writer, level string, jsonOut bool) *hostLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.SyncWriter(w)
	if !jsonOut {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}
	}
	return &hostLogger{z: zerolog.New(out).Level(lvl).With().Timestamp().Logger()}
}

func (l *hostLogger) WriteLineString(s string) {
	l.z.WithLevel(lineLevel(s)).Msg(s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

func lineLevel(s string) zerolog.Level {
	// Task lines look like "dice: warn: ..."; only the first two fields matter.
	fields := strings.SplitN(s, ": ", 3)
	for i := 0; i < len(fields) && i < 2; i++ {
		switch fields[i] {
		case "error", "panic":
			return zerolog.ErrorLevel
		case "warn":
			return zerolog.WarnLevel
		case "debug":
			return zerolog.DebugLevel
		}
	}
	return zerolog.InfoLevel
}
