// Package textplane provides the GPU text rendering plane of a text editor.
//
// # Overview
//
// textplane rasterizes shaped text lines into a window surface once per
// frame. Glyph bitmaps are cached in a single atlas texture; every glyph and
// every background rectangle is drawn as a quad of two triangles through a
// fixed blending pipeline.
//
// textplane does not decide what to draw. A layout layer hands it
// [TextLine] values and calls [Renderer] methods between BeginDraw and
// EndDraw.
//
// # Quick Start
//
//	b := software.New()
//	r, err := frame.New(b, raster.New(raster.Options{}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r.Clear(textplane.FromARGB(0xFF202020))
//	r.BeginDraw(textplane.Size{Width: 800, Height: 600}, 2)
//	r.DrawLineBg(line, 0, textplane.Span{Start: 0, End: 20})
//	r.DrawLine(line, 0, 16)
//	r.EndDraw()
//
// # Architecture
//
// The module is organized into:
//   - Public vocabulary: Renderer, TextLine, GlyphInstance, RGBA (this package)
//   - atlas: shelf-packed glyph cache over a texture
//   - frame: the per-frame renderer implementing Renderer over a backend
//   - backend: the capability set a GPU backend provides
//   - backend/wgpu, backend/opengl, backend/software: concrete backends
//   - raster, layout: reference rasterizer and layout collaborators
//   - display: the frame driver invoked on display refresh
//
// # Concurrency
//
// Rendering is single-threaded. Neither the renderer nor the atlas lock
// internally; callers serialize all drawing on one goroutine.
package textplane
