package quarkgl

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	Mode       RenderMode
	Depth      bool
	ClearColor Color

	depthBuf []float32
}

// NewRenderer creates a renderer for a given maximum target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{
		Mode:       RenderSolidFlat,
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
	}
	if enableDepth && w > 0 && h > 0 {
		r.depthBuf = make([]float32, w*h)
	}
	return r
}

func (r *Renderer) SetRenderMode(m RenderMode) { r.Mode = m }

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on {
		r.depthBuf = nil
		return
	}
	if w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = 1e9
	}
}

// Render renders a scene into the target. A zero-sized target is skipped.
//
// The projection aspect is taken from the target every call, so a resized
// target renders correctly on the next frame.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)

	if r.Depth {
		r.EnableDepth(true, w, h)
		r.clearDepth()
	}

	aspect := Scalar(w) / Scalar(h)
	view := s.Camera.View()
	proj := s.Camera.Projection(aspect)

	s.eachMesh(func(m *Mesh) {
		if m == nil || !m.Enabled {
			return
		}
		r.renderMesh(t, w, h, proj, view, m, s.Light)
	})
}

type screenVertex struct {
	x, y int
	z    float32
	invW float32
}

func (r *Renderer) renderMesh(t Target, w, h int, proj, view Mat4, m *Mesh, light Light) {
	if len(m.Vertices) == 0 || len(m.Indices) < 3 {
		return
	}
	model := m.Transform
	if model == (Mat4{}) {
		model = Mat4Identity()
	}

	mvp := Mat4Mul(proj, Mat4Mul(view, model))

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0 := int(m.Indices[i+0])
		i1 := int(m.Indices[i+1])
		i2 := int(m.Indices[i+2])
		if i0 >= len(m.Vertices) || i1 >= len(m.Vertices) || i2 >= len(m.Vertices) {
			continue
		}

		v0 := m.Vertices[i0]
		v1 := m.Vertices[i1]
		v2 := m.Vertices[i2]

		s0, ok0 := project(mvp, v0.Pos, w, h)
		s1, ok1 := project(mvp, v1.Pos, w, h)
		s2, ok2 := project(mvp, v2.Pos, w, h)
		// No near-plane clipping: triangles crossing the camera plane are dropped.
		if !ok0 || !ok1 || !ok2 {
			continue
		}

		base := m.Material.BaseColor
		intensity := Scalar(1)
		if light.Mode == LightAmbientDirectional {
			n := triangleNormal(TransformPoint(model, v0.Pos), TransformPoint(model, v1.Pos), TransformPoint(model, v2.Pos))
			intensity = lightIntensity(light, n)
			base = base.MulScalar(intensity)
		}

		switch r.Mode {
		case RenderWireframe:
			c := base
			r.drawLine(t, s0.x, s0.y, s1.x, s1.y, c)
			r.drawLine(t, s1.x, s1.y, s2.x, s2.y, c)
			r.drawLine(t, s2.x, s2.y, s0.x, s0.y, c)
		case RenderSolidVertexColor:
			c0, c1, c2 := v0.Color.MulScalar(intensity), v1.Color.MulScalar(intensity), v2.Color.MulScalar(intensity)
			r.fillTriangle(t, w, h, s0.x, s0.y, s0.z, c0, s1.x, s1.y, s1.z, c1, s2.x, s2.y, s2.z, c2)
		case RenderSolidTextured:
			tex := m.textureFor(i)
			if tex == nil {
				r.fillTriangleFlat(t, w, h, s0.x, s0.y, s0.z, s1.x, s1.y, s1.z, s2.x, s2.y, s2.z, base)
				continue
			}
			r.fillTriangleTextured(t, w, h, tex, intensity,
				s0, v0.U, v0.V,
				s1, v1.U, v1.V,
				s2, v2.U, v2.V)
		default:
			r.fillTriangleFlat(t, w, h, s0.x, s0.y, s0.z, s1.x, s1.y, s1.z, s2.x, s2.y, s2.z, base)
		}
	}
}

func project(mvp Mat4, p Vec3, w, h int) (screenVertex, bool) {
	c := Mat4MulV4(mvp, Vec4{X: p.X, Y: p.Y, Z: p.Z, W: 1})
	ndc, ok := clipToNDC(c)
	if !ok {
		return screenVertex{}, false
	}
	x, y := ndcToScreen(ndc, w, h)
	return screenVertex{x: x, y: y, z: ndc.Z, invW: 1 / c.W}, true
}

type ndcPoint struct {
	X, Y, Z float32
}

func clipToNDC(p Vec4) (ndcPoint, bool) {
	if p.W <= 0 {
		return ndcPoint{}, false
	}
	invW := 1 / p.W
	return ndcPoint{X: p.X * invW, Y: p.Y * invW, Z: p.Z * invW}, true
}

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	sx := (p.X*0.5 + 0.5) * float32(w-1)
	sy := (1 - (p.Y*0.5 + 0.5)) * float32(h-1)
	return int(sx + 0.5), int(sy + 0.5)
}

func triangleNormal(a, b, c Vec3) Vec3 {
	return Normalize(Cross(b.Sub(a), c.Sub(a)))
}

func lightIntensity(l Light, n Vec3) Scalar {
	amb := Clamp01(l.Ambient)
	dir := Clamp01(l.DirAmount)
	ld := Normalize(l.Dir)
	if ld == (Vec3{}) {
		return amb
	}
	d := Dot(n, ld.Mul(-1))
	if d < 0 {
		d = 0
	}
	total := amb + d*dir
	if fd := Normalize(l.Fill.Dir); fd != (Vec3{}) && l.Fill.Amount > 0 {
		if fdot := Dot(n, fd.Mul(-1)); fdot > 0 {
			total += fdot * Clamp01(l.Fill.Amount)
		}
	}
	return Clamp01(total)
}

func (r *Renderer) depthTest(w int, x, y int, z float32) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	if x < 0 || y < 0 || x >= w {
		return false
	}
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return false
	}
	// NDC z is typically in [-1,1]. Map to [0,1].
	d := (z*0.5 + 0.5)
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	if d >= r.depthBuf[idx] {
		return false
	}
	r.depthBuf[idx] = d
	return true
}

func (r *Renderer) drawLine(t Target, x0, y0, x1, y1 int, c Color) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Renderer) fillTriangleFlat(t Target, w, h int, x0, y0 int, z0 float32, x1, y1 int, z1 float32, x2, y2 int, z2 float32, c Color) {
	minX, maxX := min3(x0, x1, x2), max3(x0, x1, x2)
	minY, maxY := min3(y0, y1, y2), max3(y0, y1, y2)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	invArea := 1.0 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			z := a0*z0 + a1*z1 + a2*z2
			if !r.depthTest(w, x, y, z) {
				continue
			}
			t.SetPixel(x, y, c)
		}
	}
}

func (r *Renderer) fillTriangle(t Target, w, h int, x0, y0 int, z0 float32, c0 Color, x1, y1 int, z1 float32, c1 Color, x2, y2 int, z2 float32, c2 Color) {
	minX, maxX := min3(x0, x1, x2), max3(x0, x1, x2)
	minY, maxY := min3(y0, y1, y2), max3(y0, y1, y2)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	invArea := 1.0 / float32(area)

	r0, g0, b0 := float32(c0.R), float32(c0.G), float32(c0.B)
	r1, g1, b1 := float32(c1.R), float32(c1.G), float32(c1.B)
	r2, g2, b2 := float32(c2.R), float32(c2.G), float32(c2.B)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			z := a0*z0 + a1*z1 + a2*z2
			if !r.depthTest(w, x, y, z) {
				continue
			}
			rr := uint8(clampF32(a0*r0+a1*r1+a2*r2, 0, 255))
			gg := uint8(clampF32(a0*g0+a1*g1+a2*g2, 0, 255))
			bb := uint8(clampF32(a0*b0+a1*b1+a2*b2, 0, 255))
			t.SetPixel(x, y, Color{R: rr, G: gg, B: bb, A: 0xFF})
		}
	}
}

// fillTriangleTextured interpolates u/w, v/w and 1/w across the triangle so
// texture coordinates stay correct under perspective.
func (r *Renderer) fillTriangleTextured(t Target, w, h int, tex *Texture, shade Scalar,
	p0 screenVertex, u0, v0 Scalar,
	p1 screenVertex, u1, v1 Scalar,
	p2 screenVertex, u2, v2 Scalar,
) {
	minX, maxX := min3(p0.x, p1.x, p2.x), max3(p0.x, p1.x, p2.x)
	minY, maxY := min3(p0.y, p1.y, p2.y), max3(p0.y, p1.y, p2.y)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	area := edgeFn(p0.x, p0.y, p1.x, p1.y, p2.x, p2.y)
	if area == 0 {
		return
	}
	invArea := 1.0 / float32(area)

	uw0, vw0 := u0*p0.invW, v0*p0.invW
	uw1, vw1 := u1*p1.invW, v1*p1.invW
	uw2, vw2 := u2*p2.invW, v2*p2.invW

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(p1.x, p1.y, p2.x, p2.y, x, y)
			w1 := edgeFn(p2.x, p2.y, p0.x, p0.y, x, y)
			w2 := edgeFn(p0.x, p0.y, p1.x, p1.y, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			z := a0*p0.z + a1*p1.z + a2*p2.z
			if !r.depthTest(w, x, y, z) {
				continue
			}
			iw := a0*p0.invW + a1*p1.invW + a2*p2.invW
			if iw == 0 {
				continue
			}
			u := (a0*uw0 + a1*uw1 + a2*uw2) / iw
			v := (a0*vw0 + a1*vw1 + a2*vw2) / iw
			t.SetPixel(x, y, tex.Sample(u, v).MulScalar(shade))
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
