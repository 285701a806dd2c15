// Package atlas caches rasterized glyph bitmaps in a single BGRA texture.
//
// Glyphs are packed with a shelf allocator and addressed by [Key]
// (font, glyph, render flags, DPI scale). When a new glyph does not fit,
// [Atlas.GetOrRasterize] flushes the whole cache and retries once:
//
//	a, _ := atlas.New(atlas.NewMemoryTexture(1024, 1024), atlas.DefaultConfig())
//	e, ok := a.GetOrRasterize(key, rasterizer)
//	if !ok {
//		// skip the glyph
//	}
//
// The texture is supplied by a rendering backend through the [Texture]
// interface; [MemoryTexture] keeps it in CPU memory.
package atlas
