package roller

import (
	"image/color"

	"sparkdice/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	smallFont tinyfont.Fonter = &proggy.TinySZ8pt7b
	largeFont tinyfont.Fonter = &freemono.Bold18pt7b
)

var (
	colText     = color.RGBA{R: 0xE8, G: 0xEC, B: 0xF4, A: 0xFF}
	colDim      = color.RGBA{R: 0x90, G: 0x9A, B: 0xAC, A: 0xFF}
	colButton   = color.RGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}
	colDisabled = color.RGBA{R: 0x55, G: 0x5B, B: 0x66, A: 0xFF}
)

type rect struct {
	x, y, w, h int
}

func (r rect) empty() bool { return r.w <= 0 || r.h <= 0 }

func (r rect) contains(x, y int) bool {
	return !r.empty() && x >= r.x && y >= r.y && x < r.x+r.w && y < r.y+r.h
}

// layout positions the UI for a w×h framebuffer. It is recomputed every
// frame so a resize takes effect immediately.
type layout struct {
	button  rect
	resultY int16
	hintY   int16
}

const (
	buttonW      = 120
	buttonH      = 22
	buttonMargin = 8
)

func computeLayout(w, h int) layout {
	var l layout
	if w <= 0 || h <= 0 {
		return l
	}
	bw := buttonW
	if bw > w-2*buttonMargin {
		bw = w - 2*buttonMargin
	}
	bh := buttonH
	if bh > h/4 {
		bh = h / 4
	}
	if bw > 0 && bh > 0 {
		l.button = rect{x: (w - bw) / 2, y: h - bh - buttonMargin, w: bw, h: bh}
	}
	l.resultY = 34
	l.hintY = 12
	return l
}

// fbDisplay adapts the framebuffer to the tinyfont drawing interface.
type fbDisplay struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || iy < 0 || ix >= d.fb.Width() || iy >= d.fb.Height() {
		return
	}
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := rgb565From888(c.R, c.G, c.B)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error { return nil }

func (d *fbDisplay) fillRect(r rect, c color.RGBA) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			d.SetPixel(int16(x), int16(y), c)
		}
	}
}

// textCentered draws s with its baseline at y, centred on cx.
func (d *fbDisplay) textCentered(font tinyfont.Fonter, cx int, y int16, s string, c color.RGBA) {
	_, w := tinyfont.LineWidth(font, s)
	tinyfont.WriteLine(d, font, int16(cx-int(w)/2), y, s, c)
}

func (d *fbDisplay) text(font tinyfont.Fonter, x, y int16, s string, c color.RGBA) {
	tinyfont.WriteLine(d, font, x, y, s, c)
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}
