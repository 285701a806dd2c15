// Package backend defines the capability set a GPU API must provide to
// draw text frames.
//
// A [Backend] creates the atlas texture and opens one [Pass] per frame.
// A pass accepts quads, each six vertices forming two triangles, and
// renders them with a single fixed pipeline:
//
//   - solid quads are filled with the vertex color;
//   - glyph quads sample the atlas and modulate it by the vertex color;
//   - both blend additively with [Blend]: src-alpha/one for color,
//     one/one for alpha.
//
// # Backend Selection
//
// Backends that need no window register themselves on import and can be
// created by name:
//
//	import _ "github.com/gogpu/textplane/backend/software"
//
//	b, err := backend.Get("software")
//
// Surface-bound backends are constructed directly:
//
//   - backend/wgpu: WebGPU HAL via gogpu/wgpu, shaders compiled with naga
//   - backend/opengl: OpenGL 4.1 core via go-gl
//   - backend/software: CPU rasterizer into image.RGBA swap chains
package backend
