package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/textplane/backend"
)

// recordingBackend records every pass and quad it receives.
type recordingBackend struct {
	busy     bool  // Begin reports ErrNoDrawable
	beginErr error // Begin fails with this error
	endErr   error
	drawErr  error

	params []backend.FrameParams
	passes []*recordingPass
}

type recordingPass struct {
	b     *recordingBackend
	quads []backend.Quad
	ended bool
}

func (b *recordingBackend) Name() string { return "recording" }

func (b *recordingBackend) NewTexture(w, h int) (atlas.Texture, error) {
	return atlas.NewMemoryTexture(w, h), nil
}

func (b *recordingBackend) Begin(p backend.FrameParams) (backend.Pass, error) {
	b.params = append(b.params, p)
	if b.busy {
		return nil, backend.ErrNoDrawable
	}
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	pass := &recordingPass{b: b}
	b.passes = append(b.passes, pass)
	return pass, nil
}

func (b *recordingBackend) Close() {}

func (p *recordingPass) DrawQuad(q *backend.Quad) error {
	if p.ended {
		panic("DrawQuad after End")
	}
	if p.b.drawErr != nil {
		return p.b.drawErr
	}
	p.quads = append(p.quads, *q)
	return nil
}

func (p *recordingPass) End() error {
	p.ended = true
	return p.b.endErr
}

// boxRasterizer returns w x h white bitmaps offset by (xoff, yoff) and
// counts calls.
type boxRasterizer struct {
	w, h       int
	xoff, yoff float32
	calls      int
	fail       map[textplane.GlyphID]bool
}

func (r *boxRasterizer) Rasterize(k atlas.Key) (*atlas.Bitmap, error) {
	r.calls++
	if r.fail[k.Glyph] {
		return nil, atlas.ErrNotRenderable
	}
	pix := make([]byte, r.w*r.h*atlas.BytesPerPixel)
	for i := range pix {
		pix[i] = 0xFF
	}
	return &atlas.Bitmap{Width: r.w, Height: r.h, XOff: r.xoff, YOff: r.yoff, Pix: pix}, nil
}

func newTestRenderer(t *testing.T, b *recordingBackend, r atlas.Rasterizer) *Renderer {
	t.Helper()
	fr, err := New(b, r, WithAtlasConfig(atlas.Config{Width: 256, Height: 256}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return fr
}

var frameSize = textplane.Size{Width: 200, Height: 100}

func TestSolidRectScenario(t *testing.T) {
	b := &recordingBackend{}
	r := newTestRenderer(t, b, &boxRasterizer{})

	r.BeginDraw(frameSize, 1)
	r.DrawSolidRect(0, 0, 10, 5, 0xFF0000FF)
	r.EndDraw()

	if len(b.passes) != 1 || len(b.passes[0].quads) != 1 {
		t.Fatalf("passes=%d, want one pass with one quad", len(b.passes))
	}
	q := b.passes[0].quads[0]
	wantPos := [6][2]float32{{0, 0}, {10, 0}, {10, 5}, {10, 5}, {0, 5}, {0, 0}}
	wantColor := textplane.FromARGB(0xFF0000FF).Vec4()
	for i, v := range q {
		if v.Pos != wantPos[i] {
			t.Errorf("vertex %d pos = %v, want %v", i, v.Pos, wantPos[i])
		}
		if v.Color != wantColor {
			t.Errorf("vertex %d color = %v, want %v", i, v.Color, wantColor)
		}
		if v.Kind != backend.PrimitiveSolid {
			t.Errorf("vertex %d kind = %v, want solid", i, v.Kind)
		}
	}
	if !b.passes[0].ended {
		t.Error("pass not ended")
	}
}

func TestNoDrawableSkipsFrame(t *testing.T) {
	b := &recordingBackend{busy: true}
	r := newTestRenderer(t, b, &boxRasterizer{w: 4, h: 4})

	r.BeginDraw(frameSize, 2)
	if r.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want idle", r.Phase())
	}
	r.DrawSolidRect(0, 0, 1, 1, 0xFFFFFFFF)
	r.DrawGlyphInstance(textplane.GlyphInstance{Glyph: 1}, 0, 0)
	r.EndDraw()

	if len(b.passes) != 0 {
		t.Errorf("passes = %d, want 0", len(b.passes))
	}
	if r.Scale() != 2 {
		t.Errorf("Scale() = %v, want 2 (recorded before acquiring)", r.Scale())
	}
	if r.Atlas().Len() != 0 {
		t.Errorf("atlas Len() = %d, glyph rasterized during skipped frame", r.Atlas().Len())
	}
	s := r.Stats()
	if s.SkippedFrames != 1 || s.Frames != 0 || s.Quads != 0 {
		t.Errorf("Stats() = %+v", s)
	}

	// The next frame with a drawable proceeds normally.
	b.busy = false
	r.BeginDraw(frameSize, 1)
	if r.Phase() != PhaseDrawing {
		t.Fatalf("Phase() = %v, want drawing", r.Phase())
	}
	r.EndDraw()
	if r.Phase() != PhaseIdle {
		t.Errorf("Phase() after EndDraw = %v, want idle", r.Phase())
	}
}

func TestBeginFailureSkipsFrame(t *testing.T) {
	b := &recordingBackend{beginErr: errors.New("device lost")}
	r := newTestRenderer(t, b, &boxRasterizer{})

	r.BeginDraw(frameSize, 1)
	if r.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want idle", r.Phase())
	}
	if r.Stats().SkippedFrames != 1 {
		t.Errorf("SkippedFrames = %d, want 1", r.Stats().SkippedFrames)
	}
}

func TestReentrantBeginPanics(t *testing.T) {
	b := &recordingBackend{}
	r := newTestRenderer(t, b, &boxRasterizer{})
	r.BeginDraw(frameSize, 1)

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, ErrReentrantBegin) {
			t.Errorf("recover() = %v, want ErrReentrantBegin", rec)
		}
	}()
	r.BeginDraw(frameSize, 1)
}

func TestGlyphQuadGeometry(t *testing.T) {
	b := &recordingBackend{}
	ras := &boxRasterizer{w: 8, h: 12, xoff: 2, yoff: -10}
	r := newTestRenderer(t, b, ras)

	red := textplane.RGBA{R: 1, A: 1}
	r.BeginDraw(frameSize, 2)
	r.DrawGlyphInstance(textplane.GlyphInstance{Font: 1, Glyph: 'x', X: 5, Y: 1, Color: red}, 100, 50)
	r.EndDraw()

	q := b.passes[0].quads[0]
	// Bitmap pixels and offsets are halved at scale 2.
	x, y := float32(100+5+1), float32(50+1-5)
	wantPos := [6][2]float32{{x, y}, {x + 4, y}, {x + 4, y + 6}, {x + 4, y + 6}, {x, y + 6}, {x, y}}
	du, dv := float32(8)/256, float32(12)/256
	wantUV := [6][2]float32{{0, 0}, {du, 0}, {du, dv}, {du, dv}, {0, dv}, {0, 0}}
	for i, v := range q {
		if v.Pos != wantPos[i] {
			t.Errorf("vertex %d pos = %v, want %v", i, v.Pos, wantPos[i])
		}
		if v.UV != wantUV[i] {
			t.Errorf("vertex %d uv = %v, want %v", i, v.UV, wantUV[i])
		}
		if v.Kind != backend.PrimitiveGlyph {
			t.Errorf("vertex %d kind = %v, want glyph", i, v.Kind)
		}
		if v.Color != red.Vec4() {
			t.Errorf("vertex %d color = %v", i, v.Color)
		}
	}

	k := atlas.Key{Font: 1, Glyph: 'x', Scale: 2}
	if _, ok := r.Atlas().Lookup(k); !ok {
		t.Error("glyph not cached at the frame scale")
	}
}

func TestInvalidScaleIsNormalized(t *testing.T) {
	nan := float32(math.NaN())
	for _, scale := range []float32{0, -2, nan} {
		b := &recordingBackend{}
		ras := &boxRasterizer{w: 4, h: 4}
		r := newTestRenderer(t, b, ras)

		for range 3 {
			r.BeginDraw(frameSize, scale)
			r.DrawGlyphInstance(textplane.GlyphInstance{Font: 1, Glyph: 'a'}, 0, 0)
			r.EndDraw()
		}

		if b.params[0].Scale != 1 {
			t.Errorf("scale %v: frame scale = %v, want 1", scale, b.params[0].Scale)
		}
		if ras.calls != 1 {
			t.Errorf("scale %v: rasterizer calls = %d, want 1", scale, ras.calls)
		}
		if n := r.Atlas().Len(); n != 1 {
			t.Errorf("scale %v: atlas entries = %d, want 1", scale, n)
		}
		if _, ok := r.Atlas().Lookup(atlas.Key{Font: 1, Glyph: 'a', Scale: 1}); !ok {
			t.Errorf("scale %v: glyph not cached at scale 1", scale)
		}
	}
}

func TestEveryDrawEmitsSixVertices(t *testing.T) {
	b := &recordingBackend{}
	r := newTestRenderer(t, b, &boxRasterizer{w: 3, h: 3})

	r.BeginDraw(frameSize, 1)
	r.DrawSolidRect(1, 2, 3, 4, 0x80FFFFFF)
	r.DrawGlyphInstance(textplane.GlyphInstance{Glyph: 1}, 0, 0)
	r.DrawGlyphInstance(textplane.GlyphInstance{Glyph: 1}, 10, 0)
	r.EndDraw()

	quads := b.passes[0].quads
	if len(quads) != 3 {
		t.Fatalf("quads = %d, want 3", len(quads))
	}
	for i, q := range quads {
		// Triangles (0,1,2) and (3,4,5) share the diagonal 2-3 and close at 0-5.
		if q[2] != q[3] || q[0] != q[5] {
			t.Errorf("quad %d does not follow the fixed vertex order: %+v", i, q)
		}
	}
	if got := r.Stats().Quads; got != 3 {
		t.Errorf("Stats().Quads = %d, want 3", got)
	}
}

func TestUnrenderableGlyphIsSkipped(t *testing.T) {
	b := &recordingBackend{}
	ras := &boxRasterizer{w: 4, h: 4, fail: map[textplane.GlyphID]bool{2: true}}
	r := newTestRenderer(t, b, ras)

	line := &textplane.TextLine{Glyphs: []textplane.GlyphInstance{{Glyph: 1}, {Glyph: 2, X: 5}, {Glyph: 3, X: 10}}}
	r.BeginDraw(frameSize, 1)
	r.DrawLine(line, 0, 0)
	r.EndDraw()

	if got := len(b.passes[0].quads); got != 2 {
		t.Errorf("quads = %d, want 2", got)
	}
	if got := r.Stats().SkippedGlyphs; got != 1 {
		t.Errorf("SkippedGlyphs = %d, want 1", got)
	}
}

func TestOversizedGlyphIsSkipped(t *testing.T) {
	b := &recordingBackend{}
	ras := &boxRasterizer{w: 300, h: 300}
	r := newTestRenderer(t, b, ras)

	r.BeginDraw(frameSize, 1)
	r.DrawGlyphInstance(textplane.GlyphInstance{Glyph: 1}, 0, 0)
	r.DrawSolidRect(0, 0, 1, 1, 0xFFFFFFFF)
	r.EndDraw()

	if ras.calls != 2 {
		t.Errorf("rasterizer calls = %d, want 2", ras.calls)
	}
	if got := len(b.passes[0].quads); got != 1 {
		t.Errorf("quads = %d, want only the rect", got)
	}
	if s := r.Stats(); s.SkippedGlyphs != 1 || s.AtlasFlushes != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestZeroAreaGlyphDrawsNothing(t *testing.T) {
	b := &recordingBackend{}
	r := newTestRenderer(t, b, &boxRasterizer{w: 0, h: 0})

	r.BeginDraw(frameSize, 1)
	r.DrawGlyphInstance(textplane.GlyphInstance{Glyph: ' '}, 0, 0)
	r.EndDraw()

	if got := len(b.passes[0].quads); got != 0 {
		t.Errorf("quads = %d, want 0", got)
	}
	if got := r.Stats().SkippedGlyphs; got != 0 {
		t.Errorf("SkippedGlyphs = %d, want 0", got)
	}
}

func TestDrawLineBg(t *testing.T) {
	b := &recordingBackend{}
	r := newTestRenderer(t, b, &boxRasterizer{})

	line := &textplane.TextLine{BgRanges: []textplane.BgRange{
		{Span: textplane.Span{Start: 0, End: 30}, ARGB: 0xFF112233},
		{Span: textplane.Span{Start: 40, End: 45}, ARGB: 0x80445566},
	}}
	r.BeginDraw(frameSize, 1)
	r.DrawLineBg(line, 10, textplane.Span{Start: 20, End: 38})
	r.EndDraw()

	quads := b.passes[0].quads
	if len(quads) != 2 {
		t.Fatalf("quads = %d, want 2", len(quads))
	}
	tests := []struct {
		x0, y0, x1, y1 float32
		argb           uint32
	}{
		{10, 20, 40, 38, 0xFF112233},
		{50, 20, 55, 38, 0x80445566},
	}
	for i, tt := range tests {
		x0, y0, x1, y1 := quads[i].Bounds()
		if x0 != tt.x0 || y0 != tt.y0 || x1 != tt.x1 || y1 != tt.y1 {
			t.Errorf("rect %d = (%v,%v)-(%v,%v), want (%v,%v)-(%v,%v)",
				i, x0, y0, x1, y1, tt.x0, tt.y0, tt.x1, tt.y1)
		}
		if quads[i][0].Color != textplane.FromARGB(tt.argb).Vec4() {
			t.Errorf("rect %d color = %v", i, quads[i][0].Color)
		}
	}
}

func TestExtensionPointsDrawNothing(t *testing.T) {
	b := &recordingBackend{}
	r := newTestRenderer(t, b, &boxRasterizer{w: 2, h: 2})
	line := &textplane.TextLine{Glyphs: []textplane.GlyphInstance{{Glyph: 1}}}

	r.BeginDraw(frameSize, 1)
	r.DrawRectForRange(line, 0, textplane.Span{End: 10}, textplane.IndexRange{End: 1}, 0xFFFFFFFF)
	r.DrawLineDecorations(line, 0, 0)
	r.EndDraw()

	if got := len(b.passes[0].quads); got != 0 {
		t.Errorf("quads = %d, want 0", got)
	}
}

func TestClearAppliesFromNextFrame(t *testing.T) {
	b := &recordingBackend{}
	r := newTestRenderer(t, b, &boxRasterizer{})

	r.BeginDraw(frameSize, 1)
	r.Clear(textplane.FromARGB(0xFF336699))
	r.EndDraw()
	r.BeginDraw(frameSize, 1)
	r.EndDraw()

	if b.params[0].Clear != textplane.Transparent {
		t.Errorf("first frame clear = %v, want transparent", b.params[0].Clear)
	}
	if b.params[1].Clear != textplane.FromARGB(0xFF336699) {
		t.Errorf("second frame clear = %v", b.params[1].Clear)
	}
	if b.params[1].ScreenScale != [2]float32{2.0 / 200, -2.0 / 100} {
		t.Errorf("ScreenScale = %v", b.params[1].ScreenScale)
	}
}

func TestEndDrawReleasesPassOnError(t *testing.T) {
	b := &recordingBackend{endErr: errors.New("present failed")}
	r := newTestRenderer(t, b, &boxRasterizer{})

	r.BeginDraw(frameSize, 1)
	r.EndDraw()
	if r.Phase() != PhaseIdle {
		t.Fatalf("Phase() = %v, want idle", r.Phase())
	}
	// A fresh frame must not panic as reentrant.
	r.BeginDraw(frameSize, 1)
	r.EndDraw()
	if len(b.passes) != 2 {
		t.Errorf("passes = %d, want 2", len(b.passes))
	}
}

func TestDrawErrorIsNotCounted(t *testing.T) {
	b := &recordingBackend{drawErr: errors.New("out of memory")}
	r := newTestRenderer(t, b, &boxRasterizer{})

	r.BeginDraw(frameSize, 1)
	r.DrawSolidRect(0, 0, 1, 1, 0xFFFFFFFF)
	r.EndDraw()
	if got := r.Stats().Quads; got != 0 {
		t.Errorf("Quads = %d, want 0", got)
	}
}

func TestNew_InvalidAtlasConfig(t *testing.T) {
	_, err := New(&recordingBackend{}, &boxRasterizer{}, WithAtlasConfig(atlas.Config{Width: -1, Height: 1}))
	var cfgErr *atlas.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("New() error = %v, want *atlas.ConfigError", err)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseIdle.String() != "idle" || PhaseDrawing.String() != "drawing" {
		t.Errorf("String() = %q, %q", PhaseIdle, PhaseDrawing)
	}
}
