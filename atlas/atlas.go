package atlas

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/textplane"
)

// Atlas errors.
var (
	// ErrNoSpace is returned by Insert when the bitmap does not fit the
	// remaining packing space. Flushing makes room.
	ErrNoSpace = errors.New("atlas: no space")

	// ErrBitmapSize is returned when a bitmap's pixel slice is shorter than
	// its dimensions require.
	ErrBitmapSize = errors.New("atlas: bitmap pixel data too short")

	// ErrNilBitmap is returned by Insert for a nil bitmap.
	ErrNilBitmap = errors.New("atlas: nil bitmap")

	// ErrTextureSize is returned by New when the texture does not match the config.
	ErrTextureSize = errors.New("atlas: texture size does not match config")

	// ErrNotRenderable is the conventional rasterizer failure for glyphs
	// that cannot be drawn (unknown font, unsupported glyph).
	ErrNotRenderable = errors.New("atlas: glyph not renderable")
)

// Key identifies one rasterization of a glyph.
type Key struct {
	Font  textplane.FontRef
	Glyph textplane.GlyphID
	Flags textplane.RenderFlags
	Scale float32
}

// Bitmap is a rasterized glyph handed to the atlas.
type Bitmap struct {
	Width, Height int

	// XOff, YOff place the bitmap's top-left corner relative to the pen
	// position, in physical pixels.
	XOff, YOff float32

	// Pix holds tightly packed BGRA rows.
	Pix []byte
}

// Entry describes where a glyph lives in the atlas.
type Entry struct {
	// Texture region in pixels.
	X, Y, Width, Height int

	// XOff, YOff offset the quad from the pen position, in logical pixels.
	XOff, YOff float32

	// QuadWidth, QuadHeight are the quad's size in logical pixels.
	QuadWidth, QuadHeight float32

	// UV is (u0, v0, du, dv) in normalized texture coordinates.
	UV [4]float32
}

// Rasterizer produces glyph bitmaps. It must be deterministic for a given
// key and must not touch the atlas.
type Rasterizer interface {
	Rasterize(key Key) (*Bitmap, error)
}

// RasterizerFunc adapts an ordinary function to the Rasterizer interface.
type RasterizerFunc func(key Key) (*Bitmap, error)

// Rasterize calls f(key).
func (f RasterizerFunc) Rasterize(key Key) (*Bitmap, error) {
	return f(key)
}

// Atlas caches glyph bitmaps in a single texture.
//
// The eviction policy is all-or-nothing: when a glyph does not fit, the
// whole cache is flushed and repopulated on demand.
//
// Atlas is not safe for concurrent use.
type Atlas struct {
	tex       Texture
	config    Config
	allocator *ShelfAllocator
	entries   map[Key]Entry
	flushes   int
	log       *slog.Logger
}

// New creates an atlas over tex. The texture must have the configured size.
func New(tex Texture, config Config) (*Atlas, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if w, h := tex.Size(); w != config.Width || h != config.Height {
		return nil, fmt.Errorf("%w: texture %dx%d, config %dx%d",
			ErrTextureSize, w, h, config.Width, config.Height)
	}
	return &Atlas{
		tex:       tex,
		config:    config,
		allocator: NewShelfAllocator(config.Width, config.Height, config.Padding),
		entries:   make(map[Key]Entry),
		log:       textplane.Logger(),
	}, nil
}

// SetLogger replaces the atlas logger. Nil restores the package default.
func (a *Atlas) SetLogger(l *slog.Logger) {
	if l == nil {
		l = textplane.Logger()
	}
	a.log = l
}

// Lookup returns the cached entry for key, if any.
func (a *Atlas) Lookup(key Key) (Entry, bool) {
	e, ok := a.entries[key]
	return e, ok
}

// Insert packs bmp into the remaining space, uploads it and records the
// entry under key. It returns ErrNoSpace when the bitmap does not fit;
// the caller decides whether to Flush. Space is consumed only by a
// successful upload. A key that is already cached returns its entry and
// bmp is ignored.
//
// Bitmaps with zero area are recorded without consuming space.
func (a *Atlas) Insert(key Key, bmp *Bitmap) (Entry, error) {
	if e, ok := a.entries[key]; ok {
		return e, nil
	}
	if bmp == nil {
		return Entry{}, ErrNilBitmap
	}
	if bmp.Width < 0 || bmp.Height < 0 || len(bmp.Pix) < bmp.Width*bmp.Height*BytesPerPixel {
		return Entry{}, fmt.Errorf("%w: %dx%d with %d bytes", ErrBitmapSize, bmp.Width, bmp.Height, len(bmp.Pix))
	}

	scale := key.Scale
	if !(scale > 0) {
		scale = 1
	}
	e := Entry{
		Width:      bmp.Width,
		Height:     bmp.Height,
		XOff:       bmp.XOff / scale,
		YOff:       bmp.YOff / scale,
		QuadWidth:  float32(bmp.Width) / scale,
		QuadHeight: float32(bmp.Height) / scale,
	}

	if bmp.Width > 0 && bmp.Height > 0 {
		s, ok := a.allocator.find(bmp.Width, bmp.Height)
		if !ok {
			return Entry{}, fmt.Errorf("%w: %dx%d glyph in %dx%d atlas",
				ErrNoSpace, bmp.Width, bmp.Height, a.config.Width, a.config.Height)
		}
		x, y := s.x, s.y
		if err := a.tex.WriteRegion(x, y, bmp.Width, bmp.Height, bmp.Pix); err != nil {
			return Entry{}, fmt.Errorf("atlas: upload glyph: %w", err)
		}
		a.allocator.commit(s)
		w, h := float32(a.config.Width), float32(a.config.Height)
		e.X, e.Y = x, y
		e.UV = [4]float32{
			float32(x) / w,
			float32(y) / h,
			float32(bmp.Width) / w,
			float32(bmp.Height) / h,
		}
	}

	a.entries[key] = e
	return e, nil
}

// Flush drops every entry and resets the packer. Texture memory is not
// cleared; no surviving entry refers to it.
func (a *Atlas) Flush() {
	n := len(a.entries)
	clear(a.entries)
	a.allocator.Reset()
	a.flushes++
	a.log.Debug("atlas flushed", "entries", n, "flushes", a.flushes)
}

// GetOrRasterize returns the entry for key, rasterizing and inserting it on
// a miss. When the atlas is full it flushes once and retries once, so r is
// called at most twice. It reports false if the glyph cannot be rasterized
// or does not fit even an empty atlas; the caller skips such glyphs.
func (a *Atlas) GetOrRasterize(key Key, r Rasterizer) (Entry, bool) {
	if e, ok := a.entries[key]; ok {
		return e, true
	}

	e, err := a.rasterizeAndInsert(key, r)
	if errors.Is(err, ErrNoSpace) {
		a.Flush()
		e, err = a.rasterizeAndInsert(key, r)
	}
	if err != nil {
		a.log.Warn("glyph is not renderable",
			"font", key.Font, "glyph", key.Glyph, "flags", key.Flags, "scale", key.Scale, "err", err)
		return Entry{}, false
	}
	return e, true
}

func (a *Atlas) rasterizeAndInsert(key Key, r Rasterizer) (Entry, error) {
	bmp, err := r.Rasterize(key)
	if err != nil {
		return Entry{}, fmt.Errorf("rasterize: %w", err)
	}
	return a.Insert(key, bmp)
}

// Len returns the number of cached glyphs.
func (a *Atlas) Len() int {
	return len(a.entries)
}

// Flushes returns how many times the atlas has been flushed.
func (a *Atlas) Flushes() int {
	return a.flushes
}

// Utilization returns the fraction of the texture covered by glyphs.
func (a *Atlas) Utilization() float64 {
	return a.allocator.Utilization()
}

// Texture returns the texture backing the atlas.
func (a *Atlas) Texture() Texture {
	return a.tex
}

// Config returns the atlas configuration.
func (a *Atlas) Config() Config {
	return a.config
}
