package frame

import (
	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/textplane/backend"
)

// SolidQuad fills q with a w x h rectangle at (x, y) in color c.
func SolidQuad(q *backend.Quad, x, y, w, h float32, c textplane.RGBA) {
	setCorners(q, x, y, w, h, c, backend.PrimitiveSolid)
}

// GlyphQuad fills q with the atlas entry e drawn at (x, y) in color c.
// The quad covers e's logical size; UVs come from e.UV.
func GlyphQuad(q *backend.Quad, x, y float32, e atlas.Entry, c textplane.RGBA) {
	setCorners(q, x, y, e.QuadWidth, e.QuadHeight, c, backend.PrimitiveGlyph)

	u0, v0 := e.UV[0], e.UV[1]
	u1, v1 := u0+e.UV[2], v0+e.UV[3]
	q[0].UV = [2]float32{u0, v0}
	q[1].UV = [2]float32{u1, v0}
	q[2].UV = [2]float32{u1, v1}
	q[3].UV = [2]float32{u1, v1}
	q[4].UV = [2]float32{u0, v1}
	q[5].UV = [2]float32{u0, v0}
}

func setCorners(q *backend.Quad, x, y, w, h float32, c textplane.RGBA, kind float32) {
	col := c.Vec4()
	q[0] = backend.Vertex{Color: col, Pos: [2]float32{x, y}, Kind: kind}
	q[1] = backend.Vertex{Color: col, Pos: [2]float32{x + w, y}, Kind: kind}
	q[2] = backend.Vertex{Color: col, Pos: [2]float32{x + w, y + h}, Kind: kind}
	q[3] = backend.Vertex{Color: col, Pos: [2]float32{x + w, y + h}, Kind: kind}
	q[4] = backend.Vertex{Color: col, Pos: [2]float32{x, y + h}, Kind: kind}
	q[5] = backend.Vertex{Color: col, Pos: [2]float32{x, y}, Kind: kind}
}
