package software

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/textplane/backend"
)

func params(w, h, scale float32, clear textplane.RGBA, tex atlas.Texture) backend.FrameParams {
	return backend.NewFrameParams(textplane.Size{Width: w, Height: h}, scale, clear, tex)
}

func solidQuad(x, y, w, h float32, c [4]float32) *backend.Quad {
	v := func(px, py float32) backend.Vertex {
		return backend.Vertex{Color: c, Pos: [2]float32{px, py}, Kind: backend.PrimitiveSolid}
	}
	return &backend.Quad{v(x, y), v(x+w, y), v(x+w, y+h), v(x+w, y+h), v(x, y+h), v(x, y)}
}

func TestRegistered(t *testing.T) {
	b, err := backend.Get(Name)
	if err != nil {
		t.Fatalf("backend.Get(%q) error = %v", Name, err)
	}
	if b.Name() != Name {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestSolidRect(t *testing.T) {
	b := New()
	p, err := b.Begin(params(20, 10, 1, textplane.Transparent, nil))
	if err != nil {
		t.Fatal(err)
	}
	blue := textplane.FromARGB(0xFF0000FF).Vec4()
	if err := p.DrawQuad(solidQuad(0, 0, 10, 5, blue)); err != nil {
		t.Fatal(err)
	}
	if err := p.End(); err != nil {
		t.Fatal(err)
	}

	img := b.Front()
	if img == nil {
		t.Fatal("Front() = nil after End")
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{0, 0, 255, 255}},
		{9, 4, color.RGBA{0, 0, 255, 255}},
		{10, 0, color.RGBA{}},
		{0, 5, color.RGBA{}},
		{19, 9, color.RGBA{}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestClearAndBlend(t *testing.T) {
	b := New()
	bg := textplane.RGBA{R: 0.2, G: 0.2, B: 0.2, A: 1}
	p, _ := b.Begin(params(4, 4, 1, bg, nil))
	p.DrawQuad(solidQuad(0, 0, 2, 4, [4]float32{1, 0, 0, 0.4}))
	p.End()

	img := b.Front()
	// red: 1*0.4 + 0.2 = 0.6; green: 0 + 0.2; alpha: 0.4 + 1 saturates.
	if got, want := img.RGBAAt(0, 0), (color.RGBA{R: 153, G: 51, B: 51, A: 255}); got != want {
		t.Errorf("blended pixel = %v, want %v", got, want)
	}
	if got, want := img.RGBAAt(3, 0), (color.RGBA{R: 51, G: 51, B: 51, A: 255}); got != want {
		t.Errorf("clear pixel = %v, want %v", got, want)
	}
}

func TestHighDPI(t *testing.T) {
	b := New()
	p, _ := b.Begin(params(10, 10, 2, textplane.Transparent, nil))
	p.DrawQuad(solidQuad(1, 1, 2, 2, [4]float32{1, 1, 1, 1}))
	p.End()

	img := b.Front()
	if got := img.Rect.Dx(); got != 20 {
		t.Fatalf("drawable width = %d, want 20", got)
	}
	for _, pt := range [][2]int{{2, 2}, {5, 5}} {
		if img.RGBAAt(pt[0], pt[1]).A != 255 {
			t.Errorf("pixel %v not covered", pt)
		}
	}
	for _, pt := range [][2]int{{1, 1}, {6, 6}} {
		if img.RGBAAt(pt[0], pt[1]).A != 0 {
			t.Errorf("pixel %v covered", pt)
		}
	}
}

func TestGlyphSampling(t *testing.T) {
	b := New()
	texIface, _ := b.NewTexture(4, 4)
	tex := texIface.(*atlas.MemoryTexture)
	// 2x1 glyph at (1,2): left texel opaque white, right texel transparent.
	tex.WriteRegion(1, 2, 2, 1, []byte{255, 255, 255, 255, 0, 0, 0, 0})

	p, _ := b.Begin(params(8, 8, 1, textplane.Transparent, tex))
	green := [4]float32{0, 1, 0, 1}
	q := solidQuad(3, 3, 2, 1, green)
	uv := [6][2]float32{{0.25, 0.5}, {0.75, 0.5}, {0.75, 0.75}, {0.75, 0.75}, {0.25, 0.75}, {0.25, 0.5}}
	for i := range q {
		q[i].Kind = backend.PrimitiveGlyph
		q[i].UV = uv[i]
	}
	p.DrawQuad(q)
	p.End()

	img := b.Front()
	if got, want := img.RGBAAt(3, 3), (color.RGBA{G: 255, A: 255}); got != want {
		t.Errorf("covered glyph pixel = %v, want %v", got, want)
	}
	if got := img.RGBAAt(4, 3); got != (color.RGBA{}) {
		t.Errorf("transparent glyph pixel = %v, want zero", got)
	}
}

func TestHoldReportsNoDrawable(t *testing.T) {
	b := New()
	b.Hold()
	if _, err := b.Begin(params(1, 1, 1, textplane.Transparent, nil)); !errors.Is(err, backend.ErrNoDrawable) {
		t.Errorf("Begin() while held error = %v, want ErrNoDrawable", err)
	}
	b.Release()
	if _, err := b.Begin(params(1, 1, 1, textplane.Transparent, nil)); err != nil {
		t.Errorf("Begin() after Release error = %v", err)
	}
}

func TestSwapChainRotates(t *testing.T) {
	b := New(WithBuffers(2))
	frame := func() {
		p, err := b.Begin(params(2, 2, 1, textplane.Transparent, nil))
		if err != nil {
			t.Fatal(err)
		}
		p.End()
	}

	frame()
	first := b.Front()
	frame()
	second := b.Front()
	frame()
	third := b.Front()

	if first == second {
		t.Error("consecutive frames share a drawable")
	}
	if first != third {
		t.Error("swap chain of 2 did not wrap around")
	}
	if b.Presented() != 3 {
		t.Errorf("Presented() = %d, want 3", b.Presented())
	}
}

func TestWithBuffersMinimum(t *testing.T) {
	b := New(WithBuffers(0))
	if len(b.chain) != 1 {
		t.Errorf("chain length = %d, want 1", len(b.chain))
	}
}

func TestPassAfterEnd(t *testing.T) {
	b := New()
	p, _ := b.Begin(params(2, 2, 1, textplane.Transparent, nil))
	p.End()
	if err := p.DrawQuad(solidQuad(0, 0, 1, 1, [4]float32{1, 1, 1, 1})); !errors.Is(err, errPassEnded) {
		t.Errorf("DrawQuad after End error = %v", err)
	}
	if err := p.End(); !errors.Is(err, errPassEnded) {
		t.Errorf("second End error = %v", err)
	}
}

type otherTexture struct{}

func (otherTexture) Size() (int, int)                          { return 1, 1 }
func (otherTexture) WriteRegion(int, int, int, int, []byte) error { return nil }

func TestForeignTexture(t *testing.T) {
	b := New()
	if _, err := b.Begin(params(1, 1, 1, textplane.Transparent, otherTexture{})); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("Begin() error = %v, want ErrForeignTexture", err)
	}
}

func TestClosed(t *testing.T) {
	b := New()
	b.Close()
	if _, err := b.Begin(params(1, 1, 1, textplane.Transparent, nil)); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("Begin() error = %v, want ErrClosed", err)
	}
	if _, err := b.NewTexture(1, 1); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("NewTexture() error = %v, want ErrClosed", err)
	}
}
