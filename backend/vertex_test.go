package backend

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestAppendVertexBytes_Layout(t *testing.T) {
	v := Vertex{
		Color: [4]float32{0.1, 0.2, 0.3, 0.4},
		Pos:   [2]float32{5, 6},
		UV:    [2]float32{0.25, 0.75},
		Kind:  PrimitiveGlyph,
	}
	b := AppendVertexBytes(nil, v)
	if len(b) != VertexStride {
		t.Fatalf("len = %d, want %d", len(b), VertexStride)
	}

	want := []float32{0.1, 0.2, 0.3, 0.4, 5, 6, 0.25, 0.75, 1}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestQuadBytes(t *testing.T) {
	var q Quad
	for i := range q {
		q[i].Pos = [2]float32{float32(i), 0}
	}
	b := q.Bytes()
	if len(b) != VerticesPerQuad*VertexStride {
		t.Fatalf("len = %d, want %d", len(b), VerticesPerQuad*VertexStride)
	}
	// Pos.x of the last vertex sits after its 16 color bytes.
	off := 5*VertexStride + 16
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[off:])); got != 5 {
		t.Errorf("last vertex x = %v, want 5", got)
	}
}

func TestQuadBounds(t *testing.T) {
	q := Quad{
		{Pos: [2]float32{3, 4}}, {Pos: [2]float32{9, 4}}, {Pos: [2]float32{9, 7}},
		{Pos: [2]float32{9, 7}}, {Pos: [2]float32{3, 7}}, {Pos: [2]float32{3, 4}},
	}
	x0, y0, x1, y1 := q.Bounds()
	if x0 != 3 || y0 != 4 || x1 != 9 || y1 != 7 {
		t.Errorf("Bounds() = %v,%v,%v,%v", x0, y0, x1, y1)
	}
}
