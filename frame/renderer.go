package frame

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/textplane/backend"
)

// ErrReentrantBegin is the panic value of a BeginDraw issued while a frame
// is already being drawn.
var ErrReentrantBegin = errors.New("frame: BeginDraw called before EndDraw")

// Phase is the renderer's position in the frame cycle.
type Phase uint8

const (
	// PhaseIdle accepts only BeginDraw and Clear.
	PhaseIdle Phase = iota
	// PhaseDrawing accepts draw calls and EndDraw.
	PhaseDrawing
)

func (p Phase) String() string {
	if p == PhaseDrawing {
		return "drawing"
	}
	return "idle"
}

// Stats counts renderer activity since creation.
type Stats struct {
	Frames        int // frames that reached the drawing phase
	SkippedFrames int // frames with no drawable or a failed pass
	Quads         int // quads submitted
	SkippedGlyphs int // glyphs that could not be rasterized or cached
	AtlasFlushes  int
}

// Renderer draws text frames through a backend. It implements
// textplane.Renderer.
//
// Renderer owns the glyph atlas and the per-frame pass. It is not safe for
// concurrent use.
type Renderer struct {
	backend backend.Backend
	raster  atlas.Rasterizer
	atlas   *atlas.Atlas
	log     *slog.Logger

	clear textplane.RGBA
	scale float32

	// pass is non-nil only between a successful BeginDraw and EndDraw.
	pass backend.Pass
	quad backend.Quad

	stats Stats
}

var _ textplane.Renderer = (*Renderer)(nil)

// New creates a renderer drawing with b and rasterizing glyphs with r.
// The atlas texture is created through b.
func New(b backend.Backend, r atlas.Rasterizer, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = textplane.Logger()
	}
	if err := o.atlas.Validate(); err != nil {
		return nil, err
	}

	tex, err := b.NewTexture(o.atlas.Width, o.atlas.Height)
	if err != nil {
		return nil, fmt.Errorf("frame: create atlas texture: %w", err)
	}
	a, err := atlas.New(tex, o.atlas)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	a.SetLogger(o.logger)

	return &Renderer{
		backend: b,
		raster:  r,
		atlas:   a,
		log:     o.logger,
		clear:   textplane.Transparent,
		scale:   1,
	}, nil
}

// BeginDraw starts a frame. If the backend has no drawable, or the pass
// cannot be opened, the frame is skipped and the renderer stays idle;
// draw calls and EndDraw until the next BeginDraw do nothing. A scale that
// is not positive, NaN included, is taken as 1.
//
// BeginDraw panics with ErrReentrantBegin if a frame is in progress.
func (r *Renderer) BeginDraw(size textplane.Size, scale float32) {
	if r.pass != nil {
		panic(ErrReentrantBegin)
	}
	if !(scale > 0) {
		scale = 1
	}
	r.scale = scale

	params := backend.NewFrameParams(size, scale, r.clear, r.atlas.Texture())
	pass, err := r.backend.Begin(params)
	if err != nil {
		r.stats.SkippedFrames++
		if errors.Is(err, backend.ErrNoDrawable) {
			r.log.Debug("frame skipped: no drawable", "backend", r.backend.Name())
		} else {
			r.log.Warn("frame skipped", "backend", r.backend.Name(), "err", err)
		}
		return
	}
	r.pass = pass
	r.stats.Frames++
}

// EndDraw submits and presents the frame. The pass is released even if
// submission fails.
func (r *Renderer) EndDraw() {
	if r.pass == nil {
		return
	}
	pass := r.pass
	r.pass = nil
	if err := pass.End(); err != nil {
		r.log.Warn("frame submission failed", "backend", r.backend.Name(), "err", err)
	}
}

// Clear sets the clear color for frames started after this call.
func (r *Renderer) Clear(c textplane.RGBA) {
	r.clear = c
}

// DrawSolidRect fills a rectangle with a packed 0xAARRGGBB color.
func (r *Renderer) DrawSolidRect(x, y, width, height float32, argb uint32) {
	if r.pass == nil {
		return
	}
	SolidQuad(&r.quad, x, y, width, height, textplane.FromARGB(argb))
	r.submit()
}

// DrawGlyphInstance draws one glyph with its line origin at (x0, y0).
// Glyphs that cannot be rasterized or cached are skipped.
func (r *Renderer) DrawGlyphInstance(g textplane.GlyphInstance, x0, y0 float32) {
	if r.pass == nil {
		return
	}
	key := atlas.Key{Font: g.Font, Glyph: g.Glyph, Flags: g.Flags, Scale: r.scale}
	e, ok := r.atlas.GetOrRasterize(key, r.raster)
	if !ok {
		r.stats.SkippedGlyphs++
		return
	}
	if e.Width == 0 || e.Height == 0 {
		return
	}
	GlyphQuad(&r.quad, x0+g.X+e.XOff, y0+g.Y+e.YOff, e, g.Color)
	r.submit()
}

// DrawLine draws the line's glyphs in order.
func (r *Renderer) DrawLine(line *textplane.TextLine, x0, y0 float32) {
	if r.pass == nil || line == nil {
		return
	}
	for _, g := range line.Glyphs {
		r.DrawGlyphInstance(g, x0, y0)
	}
}

// DrawLineBg draws one rectangle per background range, spanning the range
// horizontally (offset by x0) and y vertically.
func (r *Renderer) DrawLineBg(line *textplane.TextLine, x0 float32, y textplane.Span) {
	if r.pass == nil || line == nil {
		return
	}
	for _, bg := range line.BgRanges {
		r.DrawSolidRect(x0+bg.Span.Start, y.Start, bg.Span.Len(), y.Len(), bg.ARGB)
	}
}

// DrawRectForRange is reserved for selection highlights and draws nothing.
func (r *Renderer) DrawRectForRange(*textplane.TextLine, float32, textplane.Span, textplane.IndexRange, uint32) {
}

// DrawLineDecorations is reserved for underlines and draws nothing.
func (r *Renderer) DrawLineDecorations(*textplane.TextLine, float32, float32) {}

func (r *Renderer) submit() {
	if err := r.pass.DrawQuad(&r.quad); err != nil {
		r.log.Warn("draw failed", "backend", r.backend.Name(), "err", err)
		return
	}
	r.stats.Quads++
}

// Phase reports whether a frame is in progress.
func (r *Renderer) Phase() Phase {
	if r.pass != nil {
		return PhaseDrawing
	}
	return PhaseIdle
}

// Scale returns the DPI scale of the current or most recent frame.
func (r *Renderer) Scale() float32 {
	return r.scale
}

// Atlas returns the glyph atlas.
func (r *Renderer) Atlas() *atlas.Atlas {
	return r.atlas
}

// Stats returns activity counters.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.AtlasFlushes = r.atlas.Flushes()
	return s
}
