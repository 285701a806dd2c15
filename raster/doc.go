// Package raster turns glyph outlines into atlas bitmaps.
//
// Fonts are parsed with golang.org/x/image/font/sfnt and rasterized with
// golang.org/x/image/vector at size times the display scale, so high-DPI
// frames get crisp glyphs. A Rasterizer plugs into atlas.GetOrRasterize:
//
//	r := raster.New(raster.WithSize(16))
//	if err := r.RegisterTTF(0, goregular.TTF); err != nil {
//		return err
//	}
//	renderer, err := frame.New(b, r)
package raster
