package quarkgl

import "math"

// OrbitController places a camera on a sphere around Target.
//
// Yaw turns about world up, Pitch tilts above (negative) or below the target.
type OrbitController struct {
	Target Vec3
	Yaw    Scalar
	Pitch  Scalar
	Radius Scalar

	MinRadius Scalar
	MaxRadius Scalar
}

// OrbitFrom returns the controller that puts the camera at eye looking at target.
func OrbitFrom(eye, target Vec3) OrbitController {
	d := eye.Sub(target)
	r := Len(d)
	if r == 0 {
		return OrbitController{Target: target, Radius: 1}
	}
	flat := Scalar(math.Hypot(float64(d.X), float64(d.Z)))
	return OrbitController{
		Target: target,
		Yaw:    Scalar(math.Atan2(float64(d.X), float64(d.Z))),
		Pitch:  -Scalar(math.Atan2(float64(d.Y), float64(flat))),
		Radius: r,
	}
}

func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	r := c.clamp(c.Radius)
	if r == 0 {
		r = Scalar(3)
	}

	m := Mat4Mul(Mat4RotateY(c.Yaw), Mat4RotateX(c.Pitch))
	p := Mat4MulV4(m, Vec4{X: 0, Y: 0, Z: r, W: 1})

	cam.Position = c.Target.Add(V3(p.X, p.Y, p.Z))
	cam.Target = c.Target
	if cam.Up == (Vec3{}) {
		cam.Up = V3(0, 1, 0)
	}
}

// ApplyFit is Apply with the radius stretched for portrait targets, so an
// object framed for a square view stays inside a narrow one.
func (c *OrbitController) ApplyFit(cam *Camera, w, h int) {
	fit := *c
	if w > 0 && h > 0 && w < h {
		fit.Radius = c.Radius * Scalar(h) / Scalar(w)
	}
	fit.Apply(cam)
}

func (c *OrbitController) Rotate(deltaYaw, deltaPitch Scalar) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
}

func (c *OrbitController) Zoom(delta Scalar) {
	c.Radius = c.clamp(c.Radius + delta)
}

func (c *OrbitController) clamp(r Scalar) Scalar {
	if c.MinRadius != 0 && r < c.MinRadius {
		r = c.MinRadius
	}
	if c.MaxRadius != 0 && r > c.MaxRadius {
		r = c.MaxRadius
	}
	return r
}
