package roller

import (
	"github.com/go-gl/mathgl/mgl64"

	"sparkdice/sparkos/dice"
	"sparkdice/sparkos/quarkgl"
)

// halfEdge is half the die edge in world units.
const halfEdge = 1.5

// newCubeMesh builds a die of half-edge 1 as one quad per FaceNormalTable
// entry. Group i holds the two triangles of FaceNormalTable[i], so its
// texture is the one for FaceNormalTable[i].Face.
func newCubeMesh() quarkgl.Mesh {
	verts := make([]quarkgl.Vertex, 0, 24)
	indices := make([]uint16, 0, 36)
	groups := make([]quarkgl.MeshGroup, 0, 6)

	for _, fn := range dice.FaceNormalTable {
		n := fn.Normal
		up := mgl64.Vec3{0, 1, 0}
		switch {
		case n.Y() > 0:
			up = mgl64.Vec3{0, 0, -1}
		case n.Y() < 0:
			up = mgl64.Vec3{0, 0, 1}
		}
		right := up.Cross(n)
		corner := func(sx, sy float64, u, v quarkgl.Scalar) quarkgl.Vertex {
			p := n.Add(right.Mul(sx)).Add(up.Mul(sy))
			return quarkgl.Vertex{Pos: quarkgl.V3From(p), Normal: quarkgl.V3From(n), U: u, V: v}
		}

		base := uint16(len(verts))
		verts = append(verts,
			corner(-1, 1, 0, 0),
			corner(-1, -1, 0, 1),
			corner(1, -1, 1, 1),
			corner(1, 1, 1, 0),
		)
		start := len(indices)
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
		groups = append(groups, quarkgl.MeshGroup{Start: start, Count: 6})
	}

	return quarkgl.Mesh{
		Vertices: verts,
		Indices:  indices,
		Groups:   groups,
		Material: quarkgl.Material{BaseColor: quarkgl.RGB(0xFF, 0xFF, 0xFF), Opacity: 0xFF},
	}
}

// modelMatrix places the die at pose and scales it to halfEdge.
func modelMatrix(p dice.Pose) quarkgl.Mat4 {
	rs := quarkgl.Mat4Mul(
		quarkgl.Mat4FromQuat(p.Orientation),
		quarkgl.Mat4Scale(quarkgl.V3(halfEdge, halfEdge, halfEdge)),
	)
	return quarkgl.Mat4Mul(quarkgl.Mat4Translate(quarkgl.V3From(p.Position)), rs)
}
