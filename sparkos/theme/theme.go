// Package theme holds the die colour schemes and renders face textures.
package theme

import (
	"math"

	"sparkdice/sparkos/dice"
	"sparkdice/sparkos/quarkgl"
)

// Theme colours one die. Glow adds a soft halo around every pip.
type Theme struct {
	Name   string
	Face   quarkgl.Color
	Border quarkgl.Color
	Pip    quarkgl.Color
	Glow   bool
}

const Default = "classic"

var themes = map[string]Theme{
	"classic": {Name: "classic", Face: quarkgl.Hex(0xffffff), Border: quarkgl.Hex(0x333333), Pip: quarkgl.Hex(0x333333)},
	"dark":    {Name: "dark", Face: quarkgl.Hex(0x222222), Border: quarkgl.Hex(0x888888), Pip: quarkgl.Hex(0xffffff)},
	"ruby":    {Name: "ruby", Face: quarkgl.Hex(0xb3122e), Border: quarkgl.Hex(0x5c0a18), Pip: quarkgl.Hex(0xfff4e0)},
	"emerald": {Name: "emerald", Face: quarkgl.Hex(0x0f7a4a), Border: quarkgl.Hex(0x064026), Pip: quarkgl.Hex(0xf2f2f2)},
	"neon":    {Name: "neon", Face: quarkgl.Hex(0x10101a), Border: quarkgl.Hex(0xff00ff), Pip: quarkgl.Hex(0x00ffff), Glow: true},
}

var order = []string{"classic", "dark", "ruby", "emerald", "neon"}

// Lookup returns the theme by name.
func Lookup(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// Resolve returns the named theme, or classic and false when it is unknown.
func Resolve(name string) (Theme, bool) {
	if t, ok := themes[name]; ok {
		return t, true
	}
	return themes[Default], false
}

// Names lists theme names in cycle order.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Next returns the theme after name in cycle order. Unknown names restart
// the cycle.
func Next(name string) string {
	for i, n := range order {
		if n == name {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

// Texture sizes are in texels; the border and pips scale with size.
const (
	borderInset = 8.0 / 256.0
	borderWidth = 6.0 / 256.0
	glowReach   = 2.0
)

// FaceTexture renders face f in theme th as a size×size texture.
func FaceTexture(f dice.Face, th Theme, size int) *quarkgl.Texture {
	tex := quarkgl.NewTexture(size, size)
	if size <= 0 {
		return tex
	}
	tex.Fill(th.Face)

	s := float64(size)
	strokeRect(tex, borderInset*s, borderWidth*s, th.Border)

	pips := dice.PipLayout(f)
	r := dice.PipRadius * s
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5
			d := math.Inf(1)
			for _, p := range pips {
				d = math.Min(d, math.Hypot(px-p.X*s, py-p.Y*s))
			}
			switch {
			case d <= r:
				tex.Set(x, y, th.Pip)
			case d <= r+1:
				// One texel of coverage-based edge.
				tex.Set(x, y, tex.At(x, y).Lerp(th.Pip, float32(r+1-d)))
			case th.Glow && d <= r*glowReach:
				fall := 1 - (d-r)/(r*(glowReach-1))
				tex.Set(x, y, tex.At(x, y).Lerp(th.Pip, float32(0.6*fall*fall)))
			}
		}
	}
	return tex
}

// strokeRect draws a square outline inset from the texture edge.
func strokeRect(tex *quarkgl.Texture, inset, width float64, c quarkgl.Color) {
	lo := inset - width/2
	hi := float64(tex.W) - inset + width/2
	in0 := inset + width/2
	in1 := float64(tex.W) - inset - width/2
	for y := 0; y < tex.H; y++ {
		fy := float64(y) + 0.5
		for x := 0; x < tex.W; x++ {
			fx := float64(x) + 0.5
			if fx < lo || fx > hi || fy < lo || fy > hi {
				continue
			}
			if fx > in0 && fx < in1 && fy > in0 && fy < in1 {
				continue
			}
			tex.Set(x, y, c)
		}
	}
}

// FaceTextures renders all six faces, indexed by face-1.
func FaceTextures(th Theme, size int) [6]*quarkgl.Texture {
	var out [6]*quarkgl.Texture
	for f := dice.MinFace; f <= dice.MaxFace; f++ {
		out[f-1] = FaceTexture(f, th, size)
	}
	return out
}
