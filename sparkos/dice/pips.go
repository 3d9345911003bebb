package dice

// Point is a position on a face in unit coordinates, origin top-left.
type Point struct {
	X, Y float64
}

const (
	pipCenter = 0.5
	pipOffset = 70.0 / 256.0
)

const (
	pipLo = pipCenter - pipOffset
	pipHi = pipCenter + pipOffset
)

var pipLayouts = [6][]Point{
	{{pipCenter, pipCenter}},
	{{pipLo, pipLo}, {pipHi, pipHi}},
	{{pipLo, pipLo}, {pipCenter, pipCenter}, {pipHi, pipHi}},
	{{pipLo, pipLo}, {pipLo, pipHi}, {pipHi, pipLo}, {pipHi, pipHi}},
	{{pipLo, pipLo}, {pipLo, pipHi}, {pipCenter, pipCenter}, {pipHi, pipLo}, {pipHi, pipHi}},
	{{pipLo, pipLo}, {pipLo, pipCenter}, {pipLo, pipHi}, {pipHi, pipLo}, {pipHi, pipCenter}, {pipHi, pipHi}},
}

// PipRadius is the pip radius in unit face coordinates.
const PipRadius = 20.0 / 256.0

// PipLayout returns the pip centres for face f in draw order. The result is a
// fresh slice the caller may modify.
func PipLayout(f Face) []Point {
	mustValid(f)
	src := pipLayouts[f-1]
	out := make([]Point, len(src))
	copy(out, src)
	return out
}
