//go:build !tinygo

package hal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFramebufferResizeIgnoresZero(t *testing.T) {
	fb := newHostFramebuffer(10, 8)
	if fb.Resize(0, 20) {
		t.Fatal("expected zero width to be ignored")
	}
	if fb.Width() != 10 || fb.Height() != 8 {
		t.Fatalf("size changed: %dx%d", fb.Width(), fb.Height())
	}
	if !fb.Resize(4, 3) {
		t.Fatal("expected resize to apply")
	}
	if got, want := len(fb.Buffer()), 4*3*2; got != want {
		t.Fatalf("buffer len=%d want %d", got, want)
	}
	if fb.StrideBytes() != 8 {
		t.Fatalf("stride=%d want 8", fb.StrideBytes())
	}
}

func TestFramebufferSnapshotRGBA(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	fb.ClearRGB(255, 0, 0)
	pix := fb.snapshotRGBA(nil)
	if len(pix) != 8 {
		t.Fatalf("len=%d want 8", len(pix))
	}
	if pix[0] != 255 || pix[1] != 0 || pix[2] != 0 || pix[3] != 255 {
		t.Fatalf("unexpected pixel %v", pix[:4])
	}
}

func TestHostTimeKeepsNewestTick(t *testing.T) {
	base := time.Unix(0, 0)
	now := base
	ht := newHostTime()
	ht.now = func() time.Time { return now }

	ht.step(1)
	now = now.Add(5 * time.Millisecond)
	ht.step(1)
	now = now.Add(2500 * time.Microsecond)
	ht.step(1)

	var last uint64
	for {
		select {
		case v := <-ht.Ticks():
			last = v
			continue
		default:
		}
		break
	}
	if last != 8 {
		t.Fatalf("last tick=%d want 8", last)
	}
}

func TestLineLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"dice: roll -> 4":           zerolog.InfoLevel,
		"audio: warn: clip missing": zerolog.WarnLevel,
		"error: boom":               zerolog.ErrorLevel,
		"prefs: debug: set theme":   zerolog.DebugLevel,
		"dice: note: warn: later":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := lineLevel(in); got != want {
			t.Fatalf("lineLevel(%q)=%s want %s", in, got, want)
		}
	}
}

func TestHostLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newHostLogger(&buf, "warn", true)
	l.WriteLineString("dice: roll -> 3")
	l.WriteLineString("audio: warn: clip missing")
	out := buf.String()
	if strings.Contains(out, "roll -> 3") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "clip missing") {
		t.Fatalf("warn line missing: %q", out)
	}
}
