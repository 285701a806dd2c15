package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
)

// ErrInvalidFont is returned by RegisterTTF for data that is not a font.
var ErrInvalidFont = errors.New("raster: invalid font data")

// LineMetrics are vertical font metrics in logical pixels.
type LineMetrics struct {
	Ascent  float32
	Descent float32
	Height  float32
}

// Rasterizer renders glyph outlines of registered fonts into atlas bitmaps.
//
// Bitmaps are straight-alpha white: color channels are 0xFF and coverage
// is the alpha, so tinting and the source-alpha blend apply it once.
//
// Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	fonts map[textplane.FontRef]*sfnt.Font
	size  float32

	buf sfnt.Buffer
	vec vector.Rasterizer
}

var _ atlas.Rasterizer = (*Rasterizer)(nil)

// New creates a rasterizer with no fonts.
func New(opts ...Option) *Rasterizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Rasterizer{
		fonts: make(map[textplane.FontRef]*sfnt.Font),
		size:  o.size,
	}
}

// Register makes f available under ref, replacing any earlier font.
func (r *Rasterizer) Register(ref textplane.FontRef, f *sfnt.Font) {
	r.fonts[ref] = f
}

// RegisterTTF parses TrueType or OpenType data and registers it under ref.
func (r *Rasterizer) RegisterTTF(ref textplane.FontRef, data []byte) error {
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFont, err)
	}
	r.Register(ref, f)
	return nil
}

// Size returns the font size in logical pixels per em.
func (r *Rasterizer) Size() float32 {
	return r.size
}

// Rasterize implements atlas.Rasterizer. Glyphs without an outline (such
// as spaces) produce an empty bitmap.
func (r *Rasterizer) Rasterize(key atlas.Key) (*atlas.Bitmap, error) {
	f, ok := r.fonts[key.Font]
	if !ok {
		return nil, fmt.Errorf("%w: unknown font %d", atlas.ErrNotRenderable, key.Font)
	}
	segs, err := f.LoadGlyph(&r.buf, sfnt.GlyphIndex(key.Glyph), r.ppem(key.Scale), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: font %d glyph %d: %w", atlas.ErrNotRenderable, key.Font, key.Glyph, err)
	}
	if len(segs) == 0 {
		return &atlas.Bitmap{}, nil
	}

	// Outline coordinates are relative to the pen on the baseline, y down.
	b := segs.Bounds()
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	w, h := b.Max.X.Ceil()-minX, b.Max.Y.Ceil()-minY
	if w <= 0 || h <= 0 {
		return &atlas.Bitmap{}, nil
	}

	r.vec.Reset(w, h)
	r.vec.DrawOp = draw.Src
	dx, dy := float32(minX), float32(minY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 - dx, float32(p.Y)/64 - dy
	}
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			r.vec.MoveTo(pt(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			r.vec.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(s.Args[0])
			tx, ty := pt(s.Args[1])
			r.vec.QuadTo(cx, cy, tx, ty)
		case sfnt.SegmentOpCubeTo:
			ax, ay := pt(s.Args[0])
			bx, by := pt(s.Args[1])
			tx, ty := pt(s.Args[2])
			r.vec.CubeTo(ax, ay, bx, by, tx, ty)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.vec.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	pix := make([]byte, w*h*atlas.BytesPerPixel)
	for i, a := range mask.Pix {
		j := i * atlas.BytesPerPixel
		pix[j], pix[j+1], pix[j+2], pix[j+3] = 0xFF, 0xFF, 0xFF, a
	}
	return &atlas.Bitmap{
		Width:  w,
		Height: h,
		XOff:   dx,
		YOff:   dy,
		Pix:    pix,
	}, nil
}

// Advance returns the horizontal advance of a glyph in logical pixels.
// The advance is measured at the physical size for scale, so it matches the
// rasterized bitmaps.
func (r *Rasterizer) Advance(ref textplane.FontRef, glyph textplane.GlyphID, scale float32) (float32, error) {
	f, ok := r.fonts[ref]
	if !ok {
		return 0, fmt.Errorf("%w: unknown font %d", atlas.ErrNotRenderable, ref)
	}
	adv, err := f.GlyphAdvance(&r.buf, sfnt.GlyphIndex(glyph), r.ppem(scale), font.HintingNone)
	if err != nil {
		return 0, fmt.Errorf("raster: advance of glyph %d: %w", glyph, err)
	}
	return float32(adv) / 64 / normScale(scale), nil
}

// GlyphIndex returns the glyph for rune c, or 0 if the font has none.
func (r *Rasterizer) GlyphIndex(ref textplane.FontRef, c rune) textplane.GlyphID {
	f, ok := r.fonts[ref]
	if !ok {
		return 0
	}
	idx, err := f.GlyphIndex(&r.buf, c)
	if err != nil {
		return 0
	}
	return textplane.GlyphID(idx)
}

// Metrics returns the vertical metrics of a font at the configured size.
func (r *Rasterizer) Metrics(ref textplane.FontRef) (LineMetrics, error) {
	f, ok := r.fonts[ref]
	if !ok {
		return LineMetrics{}, fmt.Errorf("%w: unknown font %d", atlas.ErrNotRenderable, ref)
	}
	m, err := f.Metrics(&r.buf, r.ppem(1), font.HintingNone)
	if err != nil {
		return LineMetrics{}, fmt.Errorf("raster: metrics: %w", err)
	}
	return LineMetrics{
		Ascent:  float32(m.Ascent) / 64,
		Descent: float32(m.Descent) / 64,
		Height:  float32(m.Height) / 64,
	}, nil
}

// ppem returns the physical size in 26.6 fixed point.
func (r *Rasterizer) ppem(scale float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(r.size * normScale(scale) * 64)))
}

func normScale(scale float32) float32 {
	if !(scale > 0) {
		return 1
	}
	return scale
}
