package backend

import (
	"errors"

	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
)

// Common backend errors.
var (
	// ErrNoDrawable is returned by Begin when the surface has no drawable to
	// hand out right now. The frame should be skipped, not retried.
	ErrNoDrawable = errors.New("backend: no drawable available")

	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("backend: closed")
)

// Backend is the interface for rendering backends.
// It abstracts the GPU API so that the frame renderer can drive the
// wgpu, OpenGL and software implementations the same way.
//
// Backends are not safe for concurrent use; all calls come from the
// drawing goroutine.
type Backend interface {
	// Name returns the backend identifier (e.g., "software", "wgpu").
	Name() string

	// NewTexture creates a BGRA8 texture suitable for the glyph atlas.
	NewTexture(width, height int) (atlas.Texture, error)

	// Begin acquires the next drawable and opens a render pass that clears
	// it to params.Clear. It returns ErrNoDrawable when the surface is busy.
	Begin(params FrameParams) (Pass, error)

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()
}

// Pass is one frame's render pass against an acquired drawable.
type Pass interface {
	// DrawQuad submits one quad (two triangles) with the fixed pipeline.
	DrawQuad(q *Quad) error

	// End closes the pass, submits it and schedules presentation. The pass
	// and its drawable must not be used afterwards, even if End fails.
	End() error
}

// FrameParams carries the per-frame state a backend needs to open a pass.
type FrameParams struct {
	// Size is the logical size of the frame.
	Size textplane.Size

	// Scale is the DPI scale; the drawable is Size*Scale physical pixels.
	Scale float32

	// Clear is the color the drawable is cleared to.
	Clear textplane.RGBA

	// ScreenScale maps logical pixels to normalized device coordinates:
	// ndc = pos*ScreenScale + (-1, 1).
	ScreenScale [2]float32

	// Atlas is the glyph texture sampled by glyph quads. It was created by
	// the same backend's NewTexture.
	Atlas atlas.Texture
}

// NewFrameParams fills in FrameParams, deriving ScreenScale from size.
func NewFrameParams(size textplane.Size, scale float32, clear textplane.RGBA, tex atlas.Texture) FrameParams {
	p := FrameParams{
		Size:  size,
		Scale: scale,
		Clear: clear,
		Atlas: tex,
	}
	if size.Width > 0 && size.Height > 0 {
		p.ScreenScale = [2]float32{2 / size.Width, -2 / size.Height}
	}
	return p
}

// PixelSize returns the drawable size in physical pixels, rounded up.
func (p FrameParams) PixelSize() (width, height int) {
	return ceilPixels(p.Size.Width * p.Scale), ceilPixels(p.Size.Height * p.Scale)
}

func ceilPixels(v float32) int {
	n := int(v)
	if float32(n) < v {
		n++
	}
	return max(n, 0)
}
