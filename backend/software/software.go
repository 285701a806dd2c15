package software

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/textplane/backend"
)

// Name is the registry name of the software backend.
const Name = "software"

// ErrForeignTexture is returned by Begin when the atlas texture was not
// created by a software backend.
var ErrForeignTexture = errors.New("software: atlas texture is not a *atlas.MemoryTexture")

// errPassEnded is returned when a pass is used after End.
var errPassEnded = errors.New("software: pass already ended")

// init registers the software backend on package import.
func init() {
	backend.Register(Name, func() (backend.Backend, error) {
		return New(), nil
	})
}

// Backend renders into a swap chain of *image.RGBA drawables in CPU memory.
//
// Drawables hold raw framebuffer values, exactly what the blend equation
// produces; they are not converted to premultiplied alpha.
type Backend struct {
	chain []*image.RGBA
	next  int

	front     *image.RGBA
	presented int

	held   bool
	closed bool
}

var _ backend.Backend = (*Backend)(nil)

// New creates a software backend.
func New(opts ...Option) *Backend {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{chain: make([]*image.RGBA, o.buffers)}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return Name
}

// NewTexture creates an atlas texture in CPU memory.
func (b *Backend) NewTexture(width, height int) (atlas.Texture, error) {
	if b.closed {
		return nil, backend.ErrClosed
	}
	return atlas.NewMemoryTexture(width, height), nil
}

// Begin acquires the next drawable of the swap chain, resized to the
// frame's physical size, and clears it.
func (b *Backend) Begin(params backend.FrameParams) (backend.Pass, error) {
	if b.closed {
		return nil, backend.ErrClosed
	}
	if b.held {
		return nil, backend.ErrNoDrawable
	}
	var tex *atlas.MemoryTexture
	if params.Atlas != nil {
		t, ok := params.Atlas.(*atlas.MemoryTexture)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrForeignTexture, params.Atlas)
		}
		tex = t
	}

	w, h := params.PixelSize()
	img := b.chain[b.next]
	if img == nil || img.Rect.Dx() != w || img.Rect.Dy() != h {
		img = image.NewRGBA(image.Rect(0, 0, w, h))
		b.chain[b.next] = img
	}
	fill(img, params.Clear.Vec4())

	return &pass{
		b:     b,
		img:   img,
		tex:   tex,
		scale: params.Scale,
	}, nil
}

// Close releases the swap chain.
func (b *Backend) Close() {
	clear(b.chain)
	b.front = nil
	b.closed = true
}

// Front returns the most recently presented drawable, or nil before the
// first frame. The image is reused by a later frame once the swap chain
// wraps around.
func (b *Backend) Front() *image.RGBA {
	return b.front
}

// Presented returns the number of frames presented.
func (b *Backend) Presented() int {
	return b.presented
}

// Hold marks every drawable as in use by the compositor. Begin reports
// ErrNoDrawable until Release.
func (b *Backend) Hold() {
	b.held = true
}

// Release returns held drawables.
func (b *Backend) Release() {
	b.held = false
}

func (b *Backend) present(img *image.RGBA) {
	b.front = img
	b.presented++
	b.next = (b.next + 1) % len(b.chain)
}

// pass draws into one drawable.
type pass struct {
	b     *Backend
	img   *image.RGBA
	tex   *atlas.MemoryTexture
	scale float32
	ended bool
}

// DrawQuad rasterizes the quad's bounding box at pixel centers.
func (p *pass) DrawQuad(q *backend.Quad) error {
	if p.ended {
		return errPassEnded
	}
	x0, y0, x1, y1 := q.Bounds()
	if x1 <= x0 || y1 <= y0 {
		return nil
	}

	s := p.scale
	bounds := p.img.Rect
	px0 := max(pixelStart(x0*s), bounds.Min.X)
	py0 := max(pixelStart(y0*s), bounds.Min.Y)
	px1 := min(pixelStart(x1*s), bounds.Max.X)
	py1 := min(pixelStart(y1*s), bounds.Max.Y)

	kind := q[0].Kind
	color := q[0].Color
	u0, v0 := q[0].UV[0], q[0].UV[1]
	u1, v1 := q[2].UV[0], q[2].UV[1]

	for py := py0; py < py1; py++ {
		ly := (float32(py) + 0.5) / s
		v := v0 + (ly-y0)/(y1-y0)*(v1-v0)
		for px := px0; px < px1; px++ {
			src := color
			if kind != backend.PrimitiveSolid {
				lx := (float32(px) + 0.5) / s
				u := u0 + (lx-x0)/(x1-x0)*(u1-u0)
				src = p.shade(kind, color, u, v)
			}
			i := p.img.PixOffset(px, py)
			dst := [4]float32{
				float32(p.img.Pix[i]) / 255,
				float32(p.img.Pix[i+1]) / 255,
				float32(p.img.Pix[i+2]) / 255,
				float32(p.img.Pix[i+3]) / 255,
			}
			out := backend.Blend.Apply(src, dst)
			p.img.Pix[i] = to8(out[0])
			p.img.Pix[i+1] = to8(out[1])
			p.img.Pix[i+2] = to8(out[2])
			p.img.Pix[i+3] = to8(out[3])
		}
	}
	return nil
}

// shade samples the atlas with nearest filtering. Glyph texels are
// modulated by the vertex color; color glyphs are taken as is.
func (p *pass) shade(kind float32, color [4]float32, u, v float32) [4]float32 {
	if p.tex == nil {
		return [4]float32{}
	}
	w, h := p.tex.Size()
	tb, tg, tr, ta := p.tex.BGRAAt(int(u*float32(w)), int(v*float32(h)))
	texel := [4]float32{float32(tr) / 255, float32(tg) / 255, float32(tb) / 255, float32(ta) / 255}
	if kind == backend.PrimitiveEmoji {
		return texel
	}
	return [4]float32{texel[0] * color[0], texel[1] * color[1], texel[2] * color[2], texel[3] * color[3]}
}

// End presents the drawable.
func (p *pass) End() error {
	if p.ended {
		return errPassEnded
	}
	p.ended = true
	p.b.present(p.img)
	return nil
}

// pixelStart returns the first pixel whose center is at or after v.
func pixelStart(v float32) int {
	return int(math.Ceil(float64(v) - 0.5))
}

func fill(img *image.RGBA, c [4]float32) {
	r, g, b, a := to8(c[0]), to8(c[1]), to8(c[2]), to8(c[3])
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
	}
}

func to8(v float32) uint8 {
	return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
}
