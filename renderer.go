package textplane

// FontRef identifies a loaded font. Values are assigned by the host and
// are opaque to the renderer.
type FontRef uint32

// GlyphID is a glyph index within a font.
type GlyphID uint32

// RenderFlags selects rasterization variants of the same glyph
// (synthetic bold, subpixel position bucket, ...). Glyphs with different
// flags are cached separately.
type RenderFlags uint32

// GlyphInstance is one shaped glyph of a text line.
type GlyphInstance struct {
	Font  FontRef
	Glyph GlyphID
	Flags RenderFlags

	// X, Y is the pen position relative to the line origin, in logical pixels.
	X, Y float32

	// Color is the foreground color.
	Color RGBA
}

// Span is a half-open extent [Start, End) along one axis, in logical pixels.
type Span struct {
	Start, End float32
}

// Len returns End - Start.
func (s Span) Len() float32 { return s.End - s.Start }

// BgRange is a background color run of a text line.
type BgRange struct {
	Span Span
	ARGB uint32
}

// TextLine is an already-shaped line of text as produced by the layout layer.
type TextLine struct {
	Glyphs   []GlyphInstance
	BgRanges []BgRange
}

// IndexRange is a half-open range of UTF-16 code unit offsets into a line.
type IndexRange struct {
	Start, End int
}

// Size is a width and height in logical pixels.
type Size struct {
	Width, Height float32
}

// Rect is an axis-aligned rectangle in logical pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Union returns the smallest rectangle containing both r and o.
// An empty rectangle is the identity.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1 := max(r.X+r.Width, o.X+o.Width)
	y1 := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Renderer draws text lines into a surface, one frame at a time.
//
// All methods must be called from a single goroutine. Drawing methods are
// only effective between BeginDraw and EndDraw; a frame whose surface was
// unavailable is skipped and its drawing calls do nothing.
type Renderer interface {
	// BeginDraw starts a frame of the given logical size at the given
	// DPI scale. Calling BeginDraw twice without EndDraw panics.
	BeginDraw(size Size, scale float32)

	// EndDraw submits and presents the frame.
	EndDraw()

	// Clear sets the color used to clear the surface, starting with the
	// next BeginDraw.
	Clear(c RGBA)

	// DrawSolidRect fills a rectangle with a packed 0xAARRGGBB color.
	DrawSolidRect(x, y, width, height float32, argb uint32)

	// DrawGlyphInstance draws one glyph with the line origin at (x0, y0).
	DrawGlyphInstance(glyph GlyphInstance, x0, y0 float32)

	// DrawLine draws every glyph of the line.
	DrawLine(line *TextLine, x0, y0 float32)

	// DrawLineBg draws the line's background ranges spanning y vertically.
	DrawLineBg(line *TextLine, x0 float32, y Span)

	// DrawRectForRange highlights the glyphs covering a UTF-16 range.
	DrawRectForRange(line *TextLine, x0 float32, y Span, r IndexRange, argb uint32)

	// DrawLineDecorations draws underlines and similar decorations.
	DrawLineDecorations(line *TextLine, x0, y0 float32)
}
