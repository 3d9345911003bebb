//go:build !tinygo && cgo

package hal

import (
	"errors"
	"sparkdice/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a resizable desktop window that displays the framebuffer and
// forwards keyboard and pointer input. It blocks until the window closes.
func RunWindow(cfg HostConfig, newApp func(HAL) func() error) error {
	cfg.normalize()
	h := newHost(cfg)
	step := newApp(h)

	g := &hostGame{h: h, step: step, scale: cfg.Scale}
	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	h     *hostHAL
	scale int

	pix   []byte
	fbImg *ebiten.Image
	imgW  int
	imgH  int

	step func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.size()
	if w <= 0 || h <= 0 {
		return
	}
	if g.fbImg == nil || g.imgW != w || g.imgH != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
		g.imgW, g.imgH = w, h
	}

	g.pix = fb.snapshotRGBA(g.pix)
	if len(g.pix) != w*h*4 {
		// Resized between size() and snapshot; draw next frame.
		return
	}
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout maps the window size onto the framebuffer. A zero-sized window (minimized)
// keeps the previous framebuffer size.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := outsideWidth / g.scale
	h := outsideHeight / g.scale
	if w > 0 && h > 0 {
		g.h.fb.Resize(w, h)
	}
	return g.h.fb.size()
}
