package atlas

import (
	"errors"
	"fmt"
)

// BytesPerPixel is the size of one BGRA8 texel.
const BytesPerPixel = 4

// ErrRegionOutOfBounds is returned when a write does not fit the texture.
var ErrRegionOutOfBounds = errors.New("atlas: region out of bounds")

// Texture is the storage behind an atlas. Backends implement it over their
// native texture objects; MemoryTexture implements it in CPU memory.
type Texture interface {
	// Size returns the texture dimensions in pixels.
	Size() (width, height int)

	// WriteRegion replaces the w x h region at (x, y) with pix, which holds
	// tightly packed BGRA rows (stride w*4).
	WriteRegion(x, y, w, h int, pix []byte) error
}

// MemoryTexture is a BGRA8 texture held in CPU memory.
type MemoryTexture struct {
	// Pix holds the texels in row-major BGRA order.
	Pix    []byte
	Stride int

	width, height int
}

// NewMemoryTexture allocates a zeroed width x height texture.
func NewMemoryTexture(width, height int) *MemoryTexture {
	return &MemoryTexture{
		Pix:    make([]byte, width*height*BytesPerPixel),
		Stride: width * BytesPerPixel,
		width:  width,
		height: height,
	}
}

// Size implements Texture.
func (t *MemoryTexture) Size() (width, height int) {
	return t.width, t.height
}

// WriteRegion implements Texture.
func (t *MemoryTexture) WriteRegion(x, y, w, h int, pix []byte) error {
	if err := CheckRegion(t.width, t.height, x, y, w, h, pix); err != nil {
		return err
	}
	row := w * BytesPerPixel
	for j := 0; j < h; j++ {
		dst := (y+j)*t.Stride + x*BytesPerPixel
		copy(t.Pix[dst:dst+row], pix[j*row:(j+1)*row])
	}
	return nil
}

// BGRAAt returns the texel at (x, y). Coordinates are clamped to the edge.
func (t *MemoryTexture) BGRAAt(x, y int) (b, g, r, a uint8) {
	x = min(max(x, 0), t.width-1)
	y = min(max(y, 0), t.height-1)
	i := y*t.Stride + x*BytesPerPixel
	return t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3]
}

// CheckRegion validates a WriteRegion request against a texture of the
// given size. Texture implementations call it before uploading so that
// every backend rejects the same inputs.
func CheckRegion(texW, texH, x, y, w, h int, pix []byte) error {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > texW || y+h > texH {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d", ErrRegionOutOfBounds, w, h, x, y, texW, texH)
	}
	if len(pix) < w*h*BytesPerPixel {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrBitmapSize, len(pix), w*h*BytesPerPixel)
	}
	return nil
}
