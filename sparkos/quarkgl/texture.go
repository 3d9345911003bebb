package quarkgl

// Texture is an RGBA8 image sampled with nearest-neighbour lookup.
type Texture struct {
	W, H int
	Pix  []uint8 // len W*H*4, row-major
}

func NewTexture(w, h int) *Texture {
	if w <= 0 || h <= 0 {
		return &Texture{}
	}
	return &Texture{W: w, H: h, Pix: make([]uint8, w*h*4)}
}

func (t *Texture) Set(x, y int, c Color) {
	if t == nil || x < 0 || y < 0 || x >= t.W || y >= t.H {
		return
	}
	off := (y*t.W + x) * 4
	t.Pix[off+0] = c.R
	t.Pix[off+1] = c.G
	t.Pix[off+2] = c.B
	t.Pix[off+3] = c.A
}

func (t *Texture) At(x, y int) Color {
	if t == nil || x < 0 || y < 0 || x >= t.W || y >= t.H {
		return Color{}
	}
	off := (y*t.W + x) * 4
	return Color{R: t.Pix[off], G: t.Pix[off+1], B: t.Pix[off+2], A: t.Pix[off+3]}
}

func (t *Texture) Fill(c Color) {
	if t == nil {
		return
	}
	for i := 0; i+3 < len(t.Pix); i += 4 {
		t.Pix[i+0] = c.R
		t.Pix[i+1] = c.G
		t.Pix[i+2] = c.B
		t.Pix[i+3] = c.A
	}
}

// Sample returns the texel at (u, v) in 0..1, origin top-left. Coordinates
// outside the range are clamped to the edge.
func (t *Texture) Sample(u, v float32) Color {
	if t == nil || t.W <= 0 || t.H <= 0 {
		return Color{}
	}
	x := int(u * float32(t.W))
	y := int(v * float32(t.H))
	if x < 0 {
		x = 0
	} else if x >= t.W {
		x = t.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.H {
		y = t.H - 1
	}
	return t.At(x, y)
}
