package roller

import (
	"strings"
	"testing"
	"time"

	"sparkdice/hal"
	"sparkdice/sparkos/dice"
	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/prefs"
	"sparkdice/sparkos/proto"
	"sparkdice/sparkos/quarkgl"
	"sparkdice/sparkos/theme"
)

type fixedSource struct {
	face int
	u    float64
}

func (s fixedSource) Intn(n int) int   { return (s.face - 1) % n }
func (s fixedSource) Float64() float64 { return s.u }

type testFB struct {
	w, h int
	buf  []byte
}

func newTestFB(w, h int) *testFB {
	fb := &testFB{}
	fb.resize(w, h)
	return fb
}

func (f *testFB) resize(w, h int) {
	f.w, f.h = w, h
	f.buf = make([]byte, w*h*2)
}

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFB) StrideBytes() int        { return f.w * 2 }
func (f *testFB) Buffer() []byte          { return f.buf }
func (f *testFB) ClearRGB(r, g, b uint8)  {}
func (f *testFB) Present() error          { return nil }

func (f *testFB) pixel(x, y int) uint16 {
	off := y*f.w*2 + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

type testDisplay struct{ fb *testFB }

func (d testDisplay) Framebuffer() hal.Framebuffer { return d.fb }

type testKeyboard struct{ ch chan hal.KeyEvent }

func (k testKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type testPointer struct{ ch chan hal.PointerEvent }

func (p testPointer) Events() <-chan hal.PointerEvent { return p.ch }

type testInput struct {
	kbd testKeyboard
	ptr testPointer
}

func (in testInput) Keyboard() hal.Keyboard { return in.kbd }
func (in testInput) Pointer() hal.Pointer   { return in.ptr }

// recorder is a sink task that keeps every message sent to its endpoint.
type recorder struct {
	ep   kernel.Capability
	msgs []kernel.Message
}

func (r *recorder) Step(ctx *kernel.Context) {
	for {
		msg, ok := ctx.Recv(r.ep)
		if !ok {
			break
		}
		r.msgs = append(r.msgs, msg)
	}
	ctx.BlockOn(r.ep)
}

func (r *recorder) kinds(kind proto.Kind) []kernel.Message {
	var out []kernel.Message
	for _, m := range r.msgs {
		if proto.Kind(m.Kind) == kind {
			out = append(out, m)
		}
	}
	return out
}

type rig struct {
	k      *kernel.Kernel
	task   *Task
	fb     *testFB
	in     testInput
	now    uint64
	stream *recorder
	prefs  *recorder
	audio  *recorder
	log    *recorder
	quit   bool
}

func testTuning() dice.Tuning {
	tun := dice.DefaultTuning()
	tun.Duration = 200 * time.Millisecond
	tun.LaunchVelocity = 0
	tun.Gravity = 0
	return tun
}

func newRig(t *testing.T, face int, w, h int, opts ...func(*rig, *Config)) *rig {
	t.Helper()
	r := &rig{
		k:  kernel.New(),
		fb: newTestFB(w, h),
		in: testInput{
			kbd: testKeyboard{ch: make(chan hal.KeyEvent, 8)},
			ptr: testPointer{ch: make(chan hal.PointerEvent, 8)},
		},
	}
	newSink := func() (*recorder, kernel.Capability) {
		ep := r.k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		rec := &recorder{ep: ep.Restrict(kernel.RightRecv)}
		return rec, ep.Restrict(kernel.RightSend)
	}
	var streamCap, prefsCap, audioCap, logCap kernel.Capability
	r.stream, streamCap = newSink()
	r.prefs, prefsCap = newSink()
	r.audio, audioCap = newSink()
	r.log, logCap = newSink()

	cfg := Config{
		Tuning:      testTuning(),
		Rand:        fixedSource{face: face, u: 0.5},
		Theme:       theme.Default,
		Sound:       true,
		TextureSize: 16,
		StreamCap:   streamCap,
		PrefsCap:    prefsCap,
		AudioCap:    audioCap,
		LogCap:      logCap,
		Quit:        func() { r.quit = true },
	}
	for _, opt := range opts {
		opt(r, &cfg)
	}
	r.task = New(testDisplay{fb: r.fb}, r.in, cfg)
	r.k.AddTask(r.task)
	r.k.AddTask(r.stream)
	r.k.AddTask(r.prefs)
	r.k.AddTask(r.audio)
	r.k.AddTask(r.log)
	r.frame()
	return r
}

// frame advances the clock by one 16 ms frame and runs every task.
func (r *rig) frame() {
	r.now += 16
	r.k.TickTo(r.now)
	r.k.RunUntilIdle(64)
}

func (r *rig) frames(n int) {
	for i := 0; i < n; i++ {
		r.frame()
	}
}

func (r *rig) key(ev hal.KeyEvent) {
	r.in.kbd.ch <- ev
	r.frame()
}

func (r *rig) logLines() []string {
	var out []string
	for _, m := range r.log.kinds(proto.MsgLogLine) {
		out = append(out, string(m.Payload()))
	}
	return out
}

func clear565() uint16 {
	return rgb565From888(0x12, 0x16, 0x22)
}

func TestSpaceRollsAndPublishes(t *testing.T) {
	r := newRig(t, 4, 96, 128)
	if got := r.task.Controller().Result(); got != 3 {
		t.Fatalf("initial result=%d, want 3", got)
	}

	r.key(hal.KeyEvent{Code: hal.KeySpace, Press: true})
	if r.task.Controller().State() != dice.Rolling {
		t.Fatalf("state=%s after space, want rolling", r.task.Controller().State())
	}
	r.frames(20)

	c := r.task.Controller()
	if c.State() != dice.Idle || c.Result() != 4 {
		t.Fatalf("state=%s result=%d, want idle 4", c.State(), c.Result())
	}
	if got := dice.TopFace(c.Pose().Orientation); got != 4 {
		t.Fatalf("top face=%d, want 4", got)
	}

	started := r.stream.kinds(proto.MsgRollStarted)
	if len(started) != 1 {
		t.Fatalf("roll started messages=%d, want 1", len(started))
	}
	settled := r.stream.kinds(proto.MsgRollSettled)
	// The first settle message announces the initial face.
	if len(settled) != 2 {
		t.Fatalf("roll settled messages=%d, want 2", len(settled))
	}
	seq, face, _, ok := proto.DecodeRollPayload(settled[1].Payload())
	if !ok || seq != 1 || face != 4 {
		t.Fatalf("settled payload seq=%d face=%d ok=%v", seq, face, ok)
	}
	if len(r.stream.kinds(proto.MsgPose)) == 0 {
		t.Fatalf("no pose messages while rolling")
	}

	var plays []string
	for _, m := range r.audio.kinds(proto.MsgSoundPlay) {
		name, _ := proto.DecodeSoundPlayPayload(m.Payload())
		plays = append(plays, name)
	}
	if len(plays) != 2 || plays[0] != "roll" || plays[1] != "settle" {
		t.Fatalf("plays=%v, want [roll settle]", plays)
	}

	got := map[string]string{}
	for _, m := range r.prefs.kinds(proto.MsgPrefSet) {
		k, v, _ := proto.DecodePrefSetPayload(m.Payload())
		got[k] = v
	}
	if got[prefs.KeyLastResult] != "4" || got[prefs.KeyRolls] != "1" {
		t.Fatalf("prefs=%v", got)
	}
	if r.task.Rolls() != 1 {
		t.Fatalf("rolls=%d, want 1", r.task.Rolls())
	}
}

func TestSecondRequestIgnored(t *testing.T) {
	r := newRig(t, 2, 96, 128)
	r.in.kbd.ch <- hal.KeyEvent{Code: hal.KeySpace, Press: true}
	r.in.kbd.ch <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}
	r.frame()
	r.key(hal.KeyEvent{Code: hal.KeySpace, Press: true})
	r.frames(30)

	if n := len(r.stream.kinds(proto.MsgRollStarted)); n != 1 {
		t.Fatalf("rolls started=%d, want 1", n)
	}
	if r.task.Rolls() != 1 {
		t.Fatalf("rolls=%d, want 1", r.task.Rolls())
	}
}

func TestButtonClick(t *testing.T) {
	r := newRig(t, 6, 96, 128)
	l := computeLayout(96, 128)

	r.in.ptr.ch <- hal.PointerEvent{X: 1, Y: 1, Press: true}
	r.frame()
	if r.task.Controller().State() != dice.Idle {
		t.Fatalf("click outside the button started a roll")
	}

	r.in.ptr.ch <- hal.PointerEvent{X: l.button.x + 2, Y: l.button.y + 2, Press: true}
	r.frame()
	if r.task.Controller().State() != dice.Rolling {
		t.Fatalf("button click did not start a roll")
	}
	r.frames(20)
	if got := r.task.Controller().Result(); got != 6 {
		t.Fatalf("result=%d, want 6", got)
	}
}

func TestResizeMidRoll(t *testing.T) {
	r := newRig(t, 5, 96, 128)
	if got := r.fb.pixel(48, 64); got == clear565() {
		t.Fatalf("die not drawn at centre before resize")
	}

	r.key(hal.KeyEvent{Code: hal.KeySpace, Press: true})
	r.frames(4)
	before := r.task.Controller().Progress()

	r.fb.resize(128, 96)
	r.frame()
	after := r.task.Controller().Progress()
	if after < before || r.task.Controller().State() != dice.Rolling {
		t.Fatalf("progress %v -> %v state=%s after resize", before, after, r.task.Controller().State())
	}
	if got := r.fb.pixel(64, 48); got == clear565() {
		t.Fatalf("die not drawn at new centre")
	}
	if got := r.fb.pixel(0, 95); got != clear565() {
		t.Fatalf("corner pixel=%#04x, want clear", got)
	}

	r.frames(20)
	if got := r.task.Controller().Result(); got != 5 {
		t.Fatalf("result=%d after resize, want 5", got)
	}
}

func TestZeroSizeFramebuffer(t *testing.T) {
	r := newRig(t, 1, 0, 0)
	r.key(hal.KeyEvent{Code: hal.KeySpace, Press: true})
	r.frames(20)
	if got := r.task.Controller().Result(); got != 1 {
		t.Fatalf("result=%d, want 1", got)
	}
}

func TestThemeAndSoundKeys(t *testing.T) {
	r := newRig(t, 1, 96, 128)

	r.key(hal.KeyEvent{Press: true, Rune: 't'})
	if got := r.task.Theme(); got != theme.Next(theme.Default) {
		t.Fatalf("theme=%q, want %q", got, theme.Next(theme.Default))
	}
	r.key(hal.KeyEvent{Press: true, Rune: 'm'})
	if r.task.SoundEnabled() {
		t.Fatalf("sound still enabled after toggle")
	}

	got := map[string]string{}
	for _, m := range r.prefs.kinds(proto.MsgPrefSet) {
		k, v, _ := proto.DecodePrefSetPayload(m.Payload())
		got[k] = v
	}
	if got[prefs.KeyTheme] != "dark" || got[prefs.KeySound] != "false" {
		t.Fatalf("prefs=%v", got)
	}

	enables := r.audio.kinds(proto.MsgSoundEnable)
	if len(enables) != 2 {
		t.Fatalf("sound enable messages=%d, want 2", len(enables))
	}
	if on, _ := proto.DecodeSoundEnablePayload(enables[1].Payload()); on {
		t.Fatalf("last enable message turns sound on")
	}

	r.key(hal.KeyEvent{Code: hal.KeySpace, Press: true})
	r.frames(20)
	if n := len(r.audio.kinds(proto.MsgSoundPlay)); n != 0 {
		t.Fatalf("played %d clips with sound off", n)
	}
}

func TestEscapeQuits(t *testing.T) {
	r := newRig(t, 1, 32, 32)
	r.key(hal.KeyEvent{Code: hal.KeyEscape, Press: true})
	if !r.quit {
		t.Fatalf("escape did not call Quit")
	}
}

func TestASCIIFace(t *testing.T) {
	got := asciiFace(5)
	want := []string{
		"+-------+",
		"| o   o |",
		"|   o   |",
		"| o   o |",
		"+-------+",
	}
	if len(got) != len(want) {
		t.Fatalf("lines=%d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d=%q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderModeKeyCycles(t *testing.T) {
	r := newRig(t, 3, 96, 128)
	want := []quarkgl.RenderMode{
		quarkgl.RenderSolidFlat,
		quarkgl.RenderSolidVertexColor,
		quarkgl.RenderWireframe,
		quarkgl.RenderSolidTextured,
	}
	for _, m := range want {
		r.key(hal.KeyEvent{Press: true, Rune: 'w'})
		if r.task.r.Mode != m {
			t.Fatalf("mode=%d, want %d", r.task.r.Mode, m)
		}
		if m == quarkgl.RenderWireframe {
			continue
		}
		if got := r.fb.pixel(48, 64); got == clear565() {
			t.Fatalf("mode %d: die not drawn at centre", m)
		}
	}
}

func TestVertexShadeFollowsTheme(t *testing.T) {
	r := newRig(t, 3, 96, 128)
	r.key(hal.KeyEvent{Press: true, Rune: 'w'})
	r.key(hal.KeyEvent{Press: true, Rune: 'w'})
	before := r.fb.pixel(48, 64)

	r.key(hal.KeyEvent{Press: true, Rune: 't'})
	if r.task.Theme() != "dark" {
		t.Fatalf("theme=%q, want dark", r.task.Theme())
	}
	if after := r.fb.pixel(48, 64); after == before {
		t.Fatalf("vertex colours unchanged after theme switch: %#04x", after)
	}
}

func TestZoomKeysClamp(t *testing.T) {
	r := newRig(t, 3, 96, 128)
	base := r.task.orbit.Radius

	r.key(hal.KeyEvent{Press: true, Rune: '+'})
	if got := r.task.orbit.Radius; got != base-zoomStep {
		t.Fatalf("radius after zoom in=%v, want %v", got, base-zoomStep)
	}
	for i := 0; i < 40; i++ {
		r.in.kbd.ch <- hal.KeyEvent{Press: true, Rune: '-'}
		if i%4 == 3 {
			r.frame()
		}
	}
	r.frame()
	if got := r.task.orbit.Radius; got != r.task.orbit.MaxRadius {
		t.Fatalf("radius=%v, want clamp at %v", got, r.task.orbit.MaxRadius)
	}
	if got := r.fb.pixel(48, 64); got == clear565() {
		t.Fatalf("die not drawn when zoomed out")
	}
}

func TestOrthoKeyToggles(t *testing.T) {
	r := newRig(t, 3, 96, 128)
	r.key(hal.KeyEvent{Press: true, Rune: 'o'})
	if r.task.s.Camera.Type != quarkgl.CameraOrtho {
		t.Fatalf("camera type=%d, want ortho", r.task.s.Camera.Type)
	}
	if r.task.s.Camera.OrthoSize <= 0 {
		t.Fatalf("ortho size=%v", r.task.s.Camera.OrthoSize)
	}
	if got := r.fb.pixel(48, 64); got == clear565() {
		t.Fatalf("die not drawn in ortho view")
	}
	if got := r.fb.pixel(0, 127); got != clear565() {
		t.Fatalf("corner pixel=%#04x in ortho view, want clear", got)
	}
	r.key(hal.KeyEvent{Press: true, Rune: 'o'})
	if r.task.s.Camera.Type != quarkgl.CameraPerspective {
		t.Fatalf("camera type=%d, want perspective", r.task.s.Camera.Type)
	}
}

func TestStartupAudioErrorLogged(t *testing.T) {
	r := newRig(t, 3, 32, 32, func(r *rig, cfg *Config) {
		ep := r.k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		cfg.AudioCap = ep.Restrict(kernel.RightRecv)
	})
	found := false
	for _, line := range r.logLines() {
		if strings.HasPrefix(line, "dice: warn: audio client send") {
			found = true
		}
	}
	if !found {
		t.Fatalf("log=%q, want audio warning", r.logLines())
	}
}

func TestStartsOnLastResult(t *testing.T) {
	r := newRig(t, 2, 96, 128, func(_ *rig, cfg *Config) {
		cfg.LastResult = 6
	})
	if got := r.task.Controller().Result(); got != 6 {
		t.Fatalf("initial result=%d, want 6", got)
	}
	settled := r.stream.kinds(proto.MsgRollSettled)
	if len(settled) != 1 {
		t.Fatalf("settled messages=%d, want 1", len(settled))
	}
	if seq, face, _, ok := proto.DecodeRollPayload(settled[0].Payload()); !ok || seq != 0 || face != 6 {
		t.Fatalf("startup payload seq=%d face=%d ok=%v", seq, face, ok)
	}
}
