package quarkgl

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Scalar is the numeric type used by QuarkGL math operations.
type Scalar = float32

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z Scalar
}

// Vec4 is a 4D vector.
type Vec4 struct {
	X, Y, Z, W Scalar
}

// Mat4 is a column-major 4x4 matrix, m[col*4+row], shared with mathgl.
type Mat4 = mgl32.Mat4

func V3(x, y, z Scalar) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3   { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3   { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s Scalar) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) gl() mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

func fromGL(v mgl32.Vec3) Vec3 { return Vec3{X: v[0], Y: v[1], Z: v[2]} }

func Dot(a, b Vec3) Scalar { return a.gl().Dot(b.gl()) }

func Cross(a, b Vec3) Vec3 { return fromGL(a.gl().Cross(b.gl())) }

func Len(v Vec3) Scalar { return v.gl().Len() }

// Normalize returns v scaled to unit length; the zero vector stays zero.
func Normalize(v Vec3) Vec3 {
	if v == (Vec3{}) {
		return v
	}
	return fromGL(v.gl().Normalize())
}

func Clamp01(v Scalar) Scalar { return mgl32.Clamp(v, 0, 1) }

func Mat4Identity() Mat4 { return mgl32.Ident4() }

func Mat4Mul(a, b Mat4) Mat4 { return a.Mul4(b) }

func Mat4MulV4(m Mat4, v Vec4) Vec4 {
	r := m.Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, v.W})
	return Vec4{X: r[0], Y: r[1], Z: r[2], W: r[3]}
}

func Mat4Translate(v Vec3) Mat4 { return mgl32.Translate3D(v.X, v.Y, v.Z) }

func Mat4Scale(v Vec3) Mat4 { return mgl32.Scale3D(v.X, v.Y, v.Z) }

func Mat4RotateX(rad Scalar) Mat4 { return mgl32.HomogRotate3DX(rad) }

func Mat4RotateY(rad Scalar) Mat4 { return mgl32.HomogRotate3DY(rad) }

// Mat4LookAt is a right-handed view matrix looking from eye at target.
func Mat4LookAt(eye, target, up Vec3) Mat4 {
	return mgl32.LookAtV(eye.gl(), target.gl(), up.gl())
}

// Mat4Perspective maps a symmetric frustum to clip space. A zero aspect is
// treated as square.
func Mat4Perspective(fovYRad Scalar, aspect Scalar, zNear, zFar Scalar) Mat4 {
	if aspect == 0 {
		aspect = 1
	}
	return mgl32.Perspective(fovYRad, aspect, zNear, zFar)
}

// Mat4Ortho maps a box to clip space. Degenerate extents are widened to one
// unit so the result stays finite.
func Mat4Ortho(left, right, bottom, top, zNear, zFar Scalar) Mat4 {
	if right == left {
		right = left + 1
	}
	if top == bottom {
		top = bottom + 1
	}
	if zFar == zNear {
		zFar = zNear + 1
	}
	return mgl32.Ortho(left, right, bottom, top, zNear, zFar)
}

// Mat4FromQuat returns the rotation matrix for a unit quaternion.
func Mat4FromQuat(q mgl64.Quat) Mat4 {
	src := q.Normalize().Mat4()
	var m Mat4
	for i := range m {
		m[i] = Scalar(src[i])
	}
	return m
}

// V3From converts a mathgl vector.
func V3From(v mgl64.Vec3) Vec3 {
	return Vec3{X: Scalar(v[0]), Y: Scalar(v[1]), Z: Scalar(v[2])}
}

// TransformPoint applies m to p with w = 1.
func TransformPoint(m Mat4, p Vec3) Vec3 {
	return fromGL(m.Mul4x1(p.gl().Vec4(1)).Vec3())
}
