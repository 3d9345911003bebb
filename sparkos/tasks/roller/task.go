// Package roller is the kernel task that shows the die, takes roll input and
// publishes results to the other services.
package roller

import (
	"math"
	"strconv"

	"sparkdice/hal"
	audioclient "sparkdice/sparkos/client/audio"
	logclient "sparkdice/sparkos/client/logger"
	"sparkdice/sparkos/dice"
	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/prefs"
	"sparkdice/sparkos/proto"
	"sparkdice/sparkos/quarkgl"
	"sparkdice/sparkos/theme"
)

const defaultTextureSize = 128

const (
	fovY     = 45 * math.Pi / 180
	zoomStep = 1
)

// renderModes is the order the W key steps through.
var renderModes = [...]quarkgl.RenderMode{
	quarkgl.RenderSolidTextured,
	quarkgl.RenderSolidFlat,
	quarkgl.RenderSolidVertexColor,
	quarkgl.RenderWireframe,
}

// Config wires the task to its collaborators. Invalid capabilities turn the
// matching output off.
type Config struct {
	Tuning dice.Tuning
	Rand   dice.Source

	Theme string
	Sound bool
	Rolls uint64

	// LastResult is the face shown at startup; zero keeps the default.
	LastResult dice.Face

	// ASCII logs a text rendering of every result.
	ASCII bool

	TextureSize int

	LogCap    kernel.Capability
	AudioCap  kernel.Capability
	PrefsCap  kernel.Capability
	StreamCap kernel.Capability

	// Quit is called when the user asks to leave.
	Quit func()
}

type event struct {
	settled bool
	seq     uint32
	face    dice.Face
}

type Task struct {
	cfg  Config
	disp hal.Display
	in   hal.Input

	ctrl  *dice.Controller
	audio *audioclient.Client

	r      *quarkgl.Renderer
	s      *quarkgl.Scene
	orbit  quarkgl.OrbitController
	meshID int

	theme theme.Theme
	sound bool
	rolls uint64

	started   bool
	lastFrame uint64
	w, h      int

	events []event
}

func New(disp hal.Display, in hal.Input, cfg Config) *Task {
	if cfg.TextureSize <= 0 {
		cfg.TextureSize = defaultTextureSize
	}
	t := &Task{
		cfg:    cfg,
		disp:   disp,
		in:     in,
		audio:  audioclient.New(cfg.AudioCap),
		sound:  cfg.Sound,
		rolls:  cfg.Rolls,
		meshID: -1,
	}
	t.ctrl = dice.NewController(cfg.Tuning, cfg.Rand, dice.Hooks{
		RollStarted: func(seq uint32, target dice.RollTarget) {
			t.events = append(t.events, event{seq: seq, face: target.Face})
		},
		RollSettled: func(seq uint32, face dice.Face) {
			t.events = append(t.events, event{settled: true, seq: seq, face: face})
		},
	})
	if cfg.LastResult.Valid() {
		t.ctrl.RestOn(cfg.LastResult)
	}
	return t
}

// Controller exposes the die state.
func (t *Task) Controller() *dice.Controller { return t.ctrl }

// Theme returns the active theme name.
func (t *Task) Theme() string { return t.theme.Name }

func (t *Task) SoundEnabled() bool { return t.sound }

func (t *Task) Rolls() uint64 { return t.rolls }

func (t *Task) Step(ctx *kernel.Context) {
	now := ctx.NowTick()
	if !t.started {
		t.start(ctx, now)
	}

	t.pollInput(ctx, now)

	if now != t.lastFrame || t.lastFrame == 0 {
		t.lastFrame = now
		pose := t.ctrl.Tick(now)
		rolling := t.ctrl.State() == dice.Rolling
		if rolling || t.hasSettle() {
			t.sendPose(ctx, now, pose)
		}
		t.flush(ctx, now)
		t.render(pose)
	}

	ctx.BlockOnTick()
}

func (t *Task) start(ctx *kernel.Context, now uint64) {
	t.started = true

	th, ok := theme.Resolve(t.cfg.Theme)
	if !ok && t.cfg.Theme != "" {
		logclient.Logf(ctx, t.cfg.LogCap, "dice: warn: unknown theme %q, using %s", t.cfg.Theme, th.Name)
	}
	t.theme = th

	if err := t.audio.SetEnabled(ctx, t.sound); err != nil {
		logclient.Logf(ctx, t.cfg.LogCap, "dice: warn: %v", err)
	}
	t.send(ctx, t.cfg.StreamCap, proto.MsgThemeChanged, proto.ThemeChangedPayload(th.Name))
	t.send(ctx, t.cfg.StreamCap, proto.MsgRollSettled, proto.RollPayload(0, uint8(t.ctrl.Result()), now))
	logclient.Logf(ctx, t.cfg.LogCap, "dice: ready, showing %d (theme %s, sound %t)", t.ctrl.Result(), th.Name, t.sound)
}

func (t *Task) pollInput(ctx *kernel.Context, now uint64) {
	if t.in == nil {
		return
	}
	if kbd := t.in.Keyboard(); kbd != nil {
		if ch := kbd.Events(); ch != nil {
		keys:
			for {
				select {
				case ev := <-ch:
					t.handleKey(ctx, now, ev)
				default:
					break keys
				}
			}
		}
	}
	if ptr := t.in.Pointer(); ptr != nil {
		if ch := ptr.Events(); ch != nil {
		clicks:
			for {
				select {
				case ev := <-ch:
					if ev.Press && computeLayout(t.w, t.h).button.contains(ev.X, ev.Y) {
						t.roll(now)
					}
				default:
					break clicks
				}
			}
		}
	}
}

func (t *Task) handleKey(ctx *kernel.Context, now uint64, ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	switch ev.Code {
	case hal.KeySpace, hal.KeyEnter:
		t.roll(now)
		return
	case hal.KeyEscape:
		if t.cfg.Quit != nil {
			t.cfg.Quit()
		}
		return
	}
	switch ev.Rune {
	case 't', 'T':
		t.cycleTheme(ctx)
	case 'm', 'M':
		t.toggleSound(ctx)
	case 'w', 'W':
		t.nextRenderMode()
	case '+', '=':
		t.orbit.Zoom(-zoomStep)
	case '-', '_':
		t.orbit.Zoom(zoomStep)
	case 'o', 'O':
		if t.s == nil {
			return
		}
		if t.s.Camera.Type == quarkgl.CameraOrtho {
			t.s.Camera.Type = quarkgl.CameraPerspective
		} else {
			t.s.Camera.Type = quarkgl.CameraOrtho
		}
	}
}

func (t *Task) nextRenderMode() {
	if t.r == nil {
		return
	}
	for i, m := range renderModes {
		if m == t.r.Mode {
			t.r.Mode = renderModes[(i+1)%len(renderModes)]
			return
		}
	}
	t.r.Mode = renderModes[0]
}

// roll requests a roll; requests while rolling are dropped.
func (t *Task) roll(now uint64) {
	_ = t.ctrl.RequestRoll(now)
}

func (t *Task) cycleTheme(ctx *kernel.Context) {
	th, _ := theme.Resolve(theme.Next(t.theme.Name))
	t.theme = th
	t.applyTheme()
	t.setPref(ctx, prefs.KeyTheme, th.Name)
	t.send(ctx, t.cfg.StreamCap, proto.MsgThemeChanged, proto.ThemeChangedPayload(th.Name))
	logclient.Logf(ctx, t.cfg.LogCap, "dice: theme %s", th.Name)
}

func (t *Task) toggleSound(ctx *kernel.Context) {
	t.sound = !t.sound
	if err := t.audio.SetEnabled(ctx, t.sound); err != nil {
		logclient.Logf(ctx, t.cfg.LogCap, "dice: warn: %v", err)
	}
	t.setPref(ctx, prefs.KeySound, strconv.FormatBool(t.sound))
	logclient.Logf(ctx, t.cfg.LogCap, "dice: sound %t", t.sound)
}

func (t *Task) hasSettle() bool {
	for _, ev := range t.events {
		if ev.settled {
			return true
		}
	}
	return false
}

// flush forwards controller events queued by the hooks.
func (t *Task) flush(ctx *kernel.Context, now uint64) {
	for _, ev := range t.events {
		if !ev.settled {
			t.send(ctx, t.cfg.StreamCap, proto.MsgRollStarted, proto.RollPayload(ev.seq, uint8(ev.face), now))
			t.play(ctx, audioclient.ClipRoll)
			logclient.Logf(ctx, t.cfg.LogCap, "dice: debug: roll %d started", ev.seq)
			continue
		}

		t.rolls++
		t.send(ctx, t.cfg.StreamCap, proto.MsgRollSettled, proto.RollPayload(ev.seq, uint8(ev.face), now))
		t.play(ctx, audioclient.ClipSettle)
		t.setPref(ctx, prefs.KeyLastResult, strconv.Itoa(int(ev.face)))
		t.setPref(ctx, prefs.KeyRolls, strconv.FormatUint(t.rolls, 10))
		logclient.Logf(ctx, t.cfg.LogCap, "dice: rolled %d", ev.face)
		if t.cfg.ASCII {
			for _, line := range asciiFace(ev.face) {
				logclient.Log(ctx, t.cfg.LogCap, "dice: "+line)
			}
		}
	}
	t.events = t.events[:0]
}

func (t *Task) play(ctx *kernel.Context, clip string) {
	if !t.sound {
		return
	}
	_ = t.audio.Play(ctx, clip)
}

func (t *Task) sendPose(ctx *kernel.Context, now uint64, p dice.Pose) {
	q := p.Orientation
	t.send(ctx, t.cfg.StreamCap, proto.MsgPose, proto.PosePayload(proto.Pose{
		Seq:  t.ctrl.Seq(),
		Tick: now,
		Y:    float32(p.Position.Y()),
		Q:    [4]float32{float32(q.W), float32(q.V[0]), float32(q.V[1]), float32(q.V[2])},
	}))
}

func (t *Task) setPref(ctx *kernel.Context, key, value string) {
	payload, ok := proto.PrefSetPayload(key, value)
	if !ok {
		return
	}
	t.send(ctx, t.cfg.PrefsCap, proto.MsgPrefSet, payload)
}

func (t *Task) send(ctx *kernel.Context, to kernel.Capability, kind proto.Kind, payload []byte) {
	if !to.Valid() {
		return
	}
	_ = ctx.SendToCapResult(to, uint16(kind), payload, kernel.Capability{})
}

func (t *Task) ensureScene() {
	if t.s != nil && t.r != nil {
		return
	}

	t.r = quarkgl.NewRenderer(t.w, t.h, true)
	t.r.ClearColor = quarkgl.RGB(0x12, 0x16, 0x22)
	t.r.Mode = quarkgl.RenderSolidTextured

	t.s = quarkgl.CreateScene(1)
	t.s.Camera.Type = quarkgl.CameraPerspective
	t.s.Camera.Up = quarkgl.V3(0, 1, 0)
	t.s.Camera.FOVYRad = fovY
	t.s.Camera.Near = 0.1
	t.s.Camera.Far = 1000
	t.orbit = quarkgl.OrbitFrom(quarkgl.V3(4, 6, 8), quarkgl.V3(0, 1, 0))
	t.orbit.MinRadius = t.orbit.Radius / 2
	t.orbit.MaxRadius = t.orbit.Radius * 2

	t.s.Light.Mode = quarkgl.LightAmbientDirectional
	t.s.Light.Ambient = 0.5
	t.s.Light.Dir = quarkgl.V3(0, -1, 0)
	t.s.Light.DirAmount = 0.9
	t.s.Light.Fill = quarkgl.DirLight{Dir: quarkgl.V3(-5, -3, -7), Amount: 0.4}

	t.meshID = t.s.AddMesh(newCubeMesh())
	t.applyTheme()
}

// applyTheme regenerates the six face textures and the vertex shading used
// by the untextured modes.
func (t *Task) applyTheme() {
	if t.s == nil || t.meshID < 0 {
		return
	}
	texs := theme.FaceTextures(t.theme, t.cfg.TextureSize)
	for i, fn := range dice.FaceNormalTable {
		t.s.SetMeshGroupTexture(t.meshID, i, texs[fn.Face-1])
		t.s.SetMeshGroupShade(t.meshID, i, t.theme.Face, t.theme.Border)
	}
}

func (t *Task) render(pose dice.Pose) {
	if t.disp == nil {
		return
	}
	fb := t.disp.Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	// Size is re-read every frame; the host may have resized the framebuffer.
	t.w, t.h = fb.Width(), fb.Height()
	if t.w <= 0 || t.h <= 0 {
		return
	}

	t.ensureScene()
	t.orbit.ApplyFit(&t.s.Camera, t.w, t.h)
	// The ortho view frames what the perspective view shows at the target.
	dist := quarkgl.Len(t.s.Camera.Position.Sub(t.s.Camera.Target))
	t.s.Camera.OrthoSize = dist * quarkgl.Scalar(math.Tan(fovY/2))
	t.s.UpdateMeshTransform(t.meshID, modelMatrix(pose))

	target := &quarkgl.RGB565Target{
		Buf:    fb.Buffer(),
		Stride: fb.StrideBytes(),
		W:      t.w,
		H:      t.h,
	}
	t.r.Render(target, t.s)
	t.drawUI(fb)

	_ = fb.Present()
}

func (t *Task) drawUI(fb hal.Framebuffer) {
	d := &fbDisplay{fb: fb}
	l := computeLayout(t.w, t.h)

	sound := "off"
	if t.sound {
		sound = "on"
	}
	d.text(smallFont, 4, l.hintY, "theme "+t.theme.Name+"  sound "+sound, colDim)
	d.textCentered(largeFont, t.w/2, l.resultY, strconv.Itoa(int(t.ctrl.Result())), colText)

	if l.button.empty() {
		return
	}
	label, bg := "ROLL", colButton
	if !t.ctrl.TriggerEnabled() {
		label, bg = "ROLLING", colDisabled
	}
	d.fillRect(l.button, bg)
	d.textCentered(smallFont, l.button.x+l.button.w/2, int16(l.button.y+l.button.h/2+4), label, colText)
}
