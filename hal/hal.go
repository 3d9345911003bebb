package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrQuit is returned by an app step function to stop the host loop cleanly.
	ErrQuit = errors.New("quit requested")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// Width and Height may change between frames when the host viewport is resized.
// Callers must re-read them (and Buffer) every frame.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeyEscape
	KeySpace
)

// KeyEvent is a keyboard event.
//
// Printable input arrives as Rune with Code == KeyUnknown.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerEvent is a primary button event in framebuffer coordinates.
type PointerEvent struct {
	X, Y  int
	Press bool
}

// Pointer provides mouse/touch events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time provides a base tick stream.
//
// One tick is one millisecond on host builds.
type Time interface {
	Ticks() <-chan uint64
}

// Audio plays short mono PCM16 clips.
//
// Play is fire-and-forget: it must not block the caller for the clip duration.
type Audio interface {
	SampleRate() int
	Play(samples []int16, volume float64) error
}

// HAL provides the only contact point between the app and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
	Audio() Audio
}
