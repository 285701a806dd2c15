// Package frame implements textplane.Renderer on top of a backend.
//
// A Renderer cycles between two phases. BeginDraw acquires a drawable and
// moves to the drawing phase; if none is available the frame is skipped and
// the renderer stays idle. While drawing, every solid rectangle and every
// glyph becomes one quad of six vertices, submitted immediately. EndDraw
// submits, presents and releases the drawable.
//
// Glyphs are cached in an atlas owned by the Renderer. A glyph that cannot
// be rasterized, or that does not fit even an empty atlas, is logged and
// skipped; the frame continues.
//
//	r, err := frame.New(b, rasterizer)
//	if err != nil {
//		return err
//	}
//	r.Clear(textplane.FromARGB(0xFF202020))
//	r.BeginDraw(textplane.Size{Width: 800, Height: 600}, 2)
//	r.DrawLineBg(line, 0, textplane.Span{Start: 0, End: 20})
//	r.DrawLine(line, 0, 16)
//	r.EndDraw()
package frame
