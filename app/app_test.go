package app

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"sparkdice/hal"
	"sparkdice/internal/config"
	"sparkdice/sparkos/dice"
	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/prefs"
)

type memLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *memLog) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *memLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *memLog) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeFB struct {
	w, h int
	buf  []byte
}

func (f *fakeFB) Width() int              { return f.w }
func (f *fakeFB) Height() int             { return f.h }
func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFB) StrideBytes() int        { return f.w * 2 }
func (f *fakeFB) Buffer() []byte          { return f.buf }
func (f *fakeFB) ClearRGB(r, g, b uint8)  {}
func (f *fakeFB) Present() error          { return nil }

type fakeAudio struct{}

func (fakeAudio) SampleRate() int             { return 22050 }
func (fakeAudio) Play([]int16, float64) error { return nil }

type fakeHAL struct {
	log  *memLog
	fb   *fakeFB
	keys chan hal.KeyEvent
	ptr  chan hal.PointerEvent
	tick chan uint64
}

func newFakeHAL() *fakeHAL {
	return &fakeHAL{
		log:  &memLog{},
		fb:   &fakeFB{w: 48, h: 48, buf: make([]byte, 48*48*2)},
		keys: make(chan hal.KeyEvent, 8),
		ptr:  make(chan hal.PointerEvent, 8),
		tick: make(chan uint64, 8),
	}
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) Display() hal.Display { return h }
func (h *fakeHAL) Input() hal.Input     { return h }
func (h *fakeHAL) Time() hal.Time       { return h }
func (h *fakeHAL) Audio() hal.Audio     { return fakeAudio{} }

func (h *fakeHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *fakeHAL) Keyboard() hal.Keyboard       { return fakeKeyboard{h.keys} }
func (h *fakeHAL) Pointer() hal.Pointer         { return fakePointer{h.ptr} }
func (h *fakeHAL) Ticks() <-chan uint64         { return h.tick }

type fakeKeyboard struct{ ch chan hal.KeyEvent }

func (k fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type fakePointer struct{ ch chan hal.PointerEvent }

func (p fakePointer) Events() <-chan hal.PointerEvent { return p.ch }

func testSettings(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Prefs = filepath.Join(t.TempDir(), "prefs.db")
	cfg.Seed = 42
	cfg.TextureSize = 8
	cfg.Tuning.Duration = 100 * time.Millisecond
	return cfg
}

func runFrames(t *testing.T, s *System, h *fakeHAL, now *uint64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		*now += 16
		h.tick <- *now
		if err := s.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
}

func TestRollPersistsResult(t *testing.T) {
	h := newFakeHAL()
	set := testSettings(t)
	s := NewSystem(h, Config{Settings: set, ASCII: true})

	var now uint64
	runFrames(t, s, h, &now, 2)
	h.keys <- hal.KeyEvent{Code: hal.KeySpace, Press: true}
	runFrames(t, s, h, &now, 20)

	c := s.Roller().Controller()
	if c.State() != dice.Idle || c.Seq() != 1 {
		t.Fatalf("state=%s seq=%d, want idle after one roll", c.State(), c.Seq())
	}
	if got := dice.TopFace(c.Pose().Orientation); got != c.Result() {
		t.Fatalf("top face %d != result %d", got, c.Result())
	}
	if !h.log.contains("dice: rolled " + strconv.Itoa(int(c.Result()))) {
		t.Fatalf("result line missing from log: %v", h.log.lines)
	}
	if !h.log.contains("dice: +-------+") {
		t.Fatalf("ascii die missing from log")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err := prefs.Open(set.Prefs)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	snap, err := store.Load(prefs.Snapshot{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.LastResult != c.Result() || snap.Rolls != 1 {
		t.Fatalf("snapshot=%+v, want last=%d rolls=1", snap, c.Result())
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close store: %v", err)
	}

	// A restart shows the last result again.
	h2 := newFakeHAL()
	s2 := NewSystem(h2, Config{Settings: set})
	defer s2.Close()
	now = 0
	runFrames(t, s2, h2, &now, 1)
	c2 := s2.Roller().Controller()
	if c2.Result() != c.Result() || dice.TopFace(c2.Pose().Orientation) != c.Result() {
		t.Fatalf("restart shows %d (top %d), want %d", c2.Result(), dice.TopFace(c2.Pose().Orientation), c.Result())
	}
	if s2.Roller().Rolls() != 1 {
		t.Fatalf("rolls after restart=%d, want 1", s2.Roller().Rolls())
	}
}

func TestPrefsRestoreTheme(t *testing.T) {
	set := testSettings(t)

	h := newFakeHAL()
	s := NewSystem(h, Config{Settings: set})
	var now uint64
	runFrames(t, s, h, &now, 1)
	h.keys <- hal.KeyEvent{Press: true, Rune: 't'}
	runFrames(t, s, h, &now, 2)
	theme := s.Roller().Theme()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	h2 := newFakeHAL()
	s2 := NewSystem(h2, Config{Settings: set})
	defer s2.Close()
	now = 0
	runFrames(t, s2, h2, &now, 1)
	if got := s2.Roller().Theme(); got != theme {
		t.Fatalf("theme after restart=%q, want %q", got, theme)
	}
}

func TestEscapeQuits(t *testing.T) {
	h := newFakeHAL()
	set := testSettings(t)
	set.Prefs = ""
	s := NewSystem(h, Config{Settings: set})

	var now uint64
	runFrames(t, s, h, &now, 1)
	h.keys <- hal.KeyEvent{Code: hal.KeyEscape, Press: true}
	h.tick <- now + 16
	if err := s.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("Step err=%v, want ErrQuit", err)
	}
	if err := s.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("Step after close err=%v, want ErrQuit", err)
	}
}

func TestBadPrefsPathDegrades(t *testing.T) {
	h := newFakeHAL()
	set := testSettings(t)
	set.Prefs = filepath.Join(t.TempDir(), "missing", "\x00bad", "prefs.db")
	s := NewSystem(h, Config{Settings: set})
	defer s.Close()

	var now uint64
	runFrames(t, s, h, &now, 2)
	if !h.log.contains("prefs: warn:") {
		t.Fatalf("expected prefs warning, got %v", h.log.lines)
	}
}

func TestPanicLines(t *testing.T) {
	lines := panicLines(kernel.PanicInfo{TaskID: 3, Value: "boom", Stack: []byte("a\n\nb\n")})
	want := []string{"Spark Dice panic", "task: 3", "panic: boom", "stack:", "a", "b"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("lines=%q", lines)
	}
}

func TestTakeRunes(t *testing.T) {
	p, r := takeRunes("héllo", 2)
	if p != "hé" || r != "llo" {
		t.Fatalf("got %q %q", p, r)
	}
	p, r = takeRunes("ab", 4)
	if p != "ab" || r != "" {
		t.Fatalf("got %q %q", p, r)
	}
}
