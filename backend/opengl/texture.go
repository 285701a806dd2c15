package opengl

import (
	"fmt"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/textplane/atlas"
)

// Texture is an RGBA8 GL texture fed with BGRA uploads.
type Texture struct {
	id            uint32
	width, height int
}

var _ atlas.Texture = (*Texture)(nil)

func newTexture(width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("opengl: invalid atlas texture size %dx%d", width, height)
	}
	t := &Texture{width: width, height: height}
	mainthread.Call(func() {
		gl.GenTextures(1, &t.id)
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
			gl.BGRA, gl.UNSIGNED_BYTE, nil)
		// Glyphs map 1:1 to atlas texels.
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	})
	return t, nil
}

// Size implements atlas.Texture.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// WriteRegion implements atlas.Texture.
func (t *Texture) WriteRegion(x, y, w, h int, pix []byte) error {
	if t.id == 0 {
		return fmt.Errorf("opengl: write to destroyed atlas texture")
	}
	if err := atlas.CheckRegion(t.width, t.height, x, y, w, h, pix); err != nil {
		return err
	}
	if w == 0 || h == 0 {
		return nil
	}
	var glErr uint32
	mainthread.Call(func() {
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(w), int32(h),
			gl.BGRA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
		glErr = gl.GetError()
	})
	if glErr != gl.NO_ERROR {
		return fmt.Errorf("opengl: upload glyph: GL error 0x%x", glErr)
	}
	return nil
}

// ID returns the GL texture name.
func (t *Texture) ID() uint32 {
	return t.id
}

// Destroy deletes the GL texture. Safe to call multiple times.
func (t *Texture) Destroy() {
	if t.id == 0 {
		return
	}
	mainthread.Call(func() {
		gl.DeleteTextures(1, &t.id)
	})
	t.id = 0
}
