package backend

import (
	"encoding/binary"
	"math"
)

// Primitive kinds stored in Vertex.Kind. The fragment stage selects its
// shading variant from this value.
const (
	// PrimitiveSolid fills with the vertex color.
	PrimitiveSolid float32 = 0

	// PrimitiveGlyph samples the atlas and modulates it by the vertex color.
	PrimitiveGlyph float32 = 1

	// PrimitiveEmoji is reserved for color glyphs sampled without
	// modulation. No renderer emits it yet.
	PrimitiveEmoji float32 = 2
)

// VerticesPerQuad is the number of vertices of one quad (two triangles).
const VerticesPerQuad = 6

// VertexStride is the byte size of one serialized Vertex.
// Layout:
//
//	color (vec4<f32>) = 16 bytes (location 0)
//	pos   (vec2<f32>) =  8 bytes (location 1)
//	uv    (vec2<f32>) =  8 bytes (location 2)
//	kind  (f32)       =  4 bytes (location 3)
//
// Total = 36 bytes per vertex.
const VertexStride = 36

// Vertex is one corner of a quad. Pos is in logical pixels; UV is in
// normalized atlas coordinates and ignored for solid quads.
type Vertex struct {
	Color [4]float32
	Pos   [2]float32
	UV    [2]float32
	Kind  float32
}

// Quad is two triangles in the order
// (x,y) (x+w,y) (x+w,y+h) (x+w,y+h) (x,y+h) (x,y).
type Quad [VerticesPerQuad]Vertex

// AppendVertexBytes appends the little-endian serialization of vs to dst.
func AppendVertexBytes(dst []byte, vs ...Vertex) []byte {
	for i := range vs {
		v := &vs[i]
		for _, f := range v.Color {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
		}
		for _, f := range v.Pos {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
		}
		for _, f := range v.UV {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
		}
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Kind))
	}
	return dst
}

// Bytes returns the serialized quad, VerticesPerQuad*VertexStride bytes.
func (q *Quad) Bytes() []byte {
	return AppendVertexBytes(make([]byte, 0, VerticesPerQuad*VertexStride), q[:]...)
}

// Bounds returns the quad's bounding box in logical pixels.
func (q *Quad) Bounds() (x0, y0, x1, y1 float32) {
	x0, y0 = q[0].Pos[0], q[0].Pos[1]
	x1, y1 = x0, y0
	for _, v := range q[1:] {
		x0, x1 = min(x0, v.Pos[0]), max(x1, v.Pos[0])
		y0, y1 = min(y0, v.Pos[1]), max(y1, v.Pos[1])
	}
	return x0, y0, x1, y1
}
