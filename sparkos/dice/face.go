// Package dice is the roll core: face geometry, the top-face solver, the roll
// animator and the controller that ties them together.
//
// Everything here is single-threaded and driven by explicit millisecond
// timestamps; nothing reads a wall clock or spawns goroutines.
package dice

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is a die face value in 1..6.
type Face uint8

const (
	MinFace Face = 1
	MaxFace Face = 6
)

func (f Face) Valid() bool { return f >= MinFace && f <= MaxFace }

// Opposite returns the face on the other side of the die. Opposite faces sum to 7.
func (f Face) Opposite() Face {
	mustValid(f)
	return 7 - f
}

func (f Face) String() string { return fmt.Sprintf("%d", uint8(f)) }

func mustValid(f Face) {
	if !f.Valid() {
		panic(fmt.Sprintf("dice: invalid face %d", uint8(f)))
	}
}

// Orientation is a unit quaternion describing the die attitude in world space.
type Orientation = mgl64.Quat

// Angles are per-axis Euler angles in radians, applied as R = Rx·Ry·Rz.
//
// The animator interpolates in this space; Quat converts for rendering and
// for the solver.
type Angles struct {
	X, Y, Z float64
}

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

func (a Angles) Quat() Orientation {
	return mgl64.QuatRotate(a.X, axisX).
		Mul(mgl64.QuatRotate(a.Y, axisY)).
		Mul(mgl64.QuatRotate(a.Z, axisZ))
}

func (a Angles) lerp(b Angles, t float64) Angles {
	return Angles{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// Pose is the full per-frame render state of the die.
type Pose struct {
	Position    mgl64.Vec3
	Orientation Orientation
}

// RollTarget is fixed at roll start and never changes during the roll.
type RollTarget struct {
	Face        Face
	Angles      Angles
	Orientation Orientation
}

// TargetFor builds the roll target for face f.
func TargetFor(f Face) RollTarget {
	a := RestAngles(f)
	return RollTarget{Face: f, Angles: a, Orientation: a.Quat()}
}

// FaceNormal binds a local-frame axis to the face printed on it.
type FaceNormal struct {
	Normal mgl64.Vec3
	Face   Face
}

// FaceNormalTable lists the six local face normals. Table order is the solver's
// tie-break order.
var FaceNormalTable = [6]FaceNormal{
	{Normal: mgl64.Vec3{1, 0, 0}, Face: 2},
	{Normal: mgl64.Vec3{-1, 0, 0}, Face: 5},
	{Normal: mgl64.Vec3{0, 1, 0}, Face: 3},
	{Normal: mgl64.Vec3{0, -1, 0}, Face: 4},
	{Normal: mgl64.Vec3{0, 0, 1}, Face: 1},
	{Normal: mgl64.Vec3{0, 0, -1}, Face: 6},
}

// NormalOf returns the local normal of face f.
func NormalOf(f Face) mgl64.Vec3 {
	mustValid(f)
	for _, fn := range FaceNormalTable {
		if fn.Face == f {
			return fn.Normal
		}
	}
	panic("dice: face table incomplete")
}

// restAngles[f-1] turns face f's normal onto world +Y.
var restAngles = [6]Angles{
	{X: -halfPi}, // 1: +Z up
	{Z: halfPi},  // 2: +X up
	{},           // 3: +Y up
	{X: pi},      // 4: -Y up
	{Z: -halfPi}, // 5: -X up
	{X: halfPi},  // 6: -Z up
}

// RestAngles returns the resting attitude for face f as Euler angles.
func RestAngles(f Face) Angles {
	mustValid(f)
	return restAngles[f-1]
}

// RestOrientation returns the resting attitude that shows face f on top.
func RestOrientation(f Face) Orientation {
	return RestAngles(f).Quat()
}
