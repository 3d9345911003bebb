package dice

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	pi     = math.Pi
	halfPi = math.Pi / 2
)

var worldUp = mgl64.Vec3{0, 1, 0}

// TopFace reports which face points most nearly at world up.
//
// Ties go to the earlier FaceNormalTable entry.
func TopFace(o Orientation) Face {
	best := FaceNormalTable[0].Face
	bestDot := math.Inf(-1)
	for _, fn := range FaceNormalTable {
		d := o.Rotate(fn.Normal).Dot(worldUp)
		if d > bestDot {
			bestDot = d
			best = fn.Face
		}
	}
	return best
}
