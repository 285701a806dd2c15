package display

import (
	"log/slog"

	"github.com/gogpu/textplane"
)

// Delegate draws the content of a layer. It is called between BeginDraw
// and EndDraw with the region that needs redrawing.
type Delegate interface {
	Render(r textplane.Renderer, dirty textplane.Rect)
}

// DelegateFunc adapts an ordinary function to the Delegate interface.
type DelegateFunc func(r textplane.Renderer, dirty textplane.Rect)

// Render calls f(r, dirty).
func (f DelegateFunc) Render(r textplane.Renderer, dirty textplane.Rect) {
	f(r, dirty)
}

// Layer drives a renderer once per needed redraw.
//
// The host calls Invalidate when content changes and Refresh on every
// display refresh; a frame is drawn only when something is dirty.
// Layer is not safe for concurrent use.
type Layer struct {
	renderer textplane.Renderer
	delegate Delegate
	log      *slog.Logger

	size  textplane.Size
	scale float32
	dirty textplane.Rect

	fps  *FPSMeter
	prev *FrameTimer
}

// New creates a layer drawing with r.
func New(r textplane.Renderer, opts ...Option) *Layer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = textplane.Logger()
	}
	return &Layer{
		renderer: r,
		log:      o.logger,
		scale:    1,
		fps:      NewFPSMeter(o.fpsWindow, o.now),
	}
}

// SetDelegate registers the content delegate. The layer keeps a plain
// reference and does not manage the delegate's lifetime; nil unregisters.
func (l *Layer) SetDelegate(d Delegate) {
	l.delegate = d
}

// SetFrame sets the layer's logical size and DPI scale and marks the whole
// layer dirty.
func (l *Layer) SetFrame(size textplane.Size, scale float32) {
	if !(scale > 0) {
		scale = 1
	}
	l.size = size
	l.scale = scale
	l.dirty = l.Bounds()
}

// Bounds returns the layer rectangle in logical pixels.
func (l *Layer) Bounds() textplane.Rect {
	return textplane.Rect{Width: l.size.Width, Height: l.size.Height}
}

// Invalidate marks rect as needing a redraw.
func (l *Layer) Invalidate(rect textplane.Rect) {
	l.dirty = l.dirty.Union(rect)
}

// Dirty returns the region waiting to be redrawn.
func (l *Layer) Dirty() textplane.Rect {
	return l.dirty
}

// Refresh draws a frame if any region is dirty and reports whether it did.
func (l *Layer) Refresh() bool {
	if l.dirty.Empty() {
		return false
	}
	dirty := l.dirty
	l.dirty = textplane.Rect{}
	l.draw(dirty)
	return true
}

// Display draws a frame of the whole layer unconditionally.
func (l *Layer) Display() {
	l.dirty = textplane.Rect{}
	l.draw(l.Bounds())
}

// draw runs one frame. The frame rate is measured between successive
// draws, since presentation completes asynchronously.
func (l *Layer) draw(dirty textplane.Rect) {
	l.prev.Stop()
	l.prev = l.fps.StartRender()

	l.renderer.BeginDraw(l.size, l.scale)
	if l.delegate != nil {
		l.delegate.Render(l.renderer, dirty)
	} else {
		l.log.Debug("display: frame without delegate")
	}
	l.renderer.EndDraw()
}

// FPS returns the layer's frame rate meter.
func (l *Layer) FPS() *FPSMeter {
	return l.fps
}

// Size returns the logical size.
func (l *Layer) Size() textplane.Size {
	return l.size
}

// Scale returns the DPI scale.
func (l *Layer) Scale() float32 {
	return l.scale
}
