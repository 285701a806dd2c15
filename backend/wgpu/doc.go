// Package wgpu provides a GPU text rendering backend using gogpu/wgpu.
//
// The backend talks to the WebGPU HAL directly and works on every platform
// gogpu/wgpu supports (Vulkan, Metal, DX12, GLES). The shader is written in
// WGSL and compiled to SPIR-V with gogpu/naga at construction time.
//
// # Architecture Overview
//
//	frame.Renderer -> Backend.Begin -> pass.DrawQuad ... -> pass.End
//	                     |                  |                  |
//	              acquire drawable   vertex buffer + draw   submit, present
//
// Key components:
//
//   - Backend: implements backend.Backend over a Surface
//   - Pipeline: shader, bind group layout, sampler and the render pipeline
//     with the fixed additive blend
//   - Texture: the BGRA8 atlas texture, updated with queue.WriteTexture
//
// # Surfaces
//
// The windowing layer implements Surface and Drawable. AcquireDrawable
// returns nil when every drawable is still owned by the compositor; the
// frame is then skipped.
//
// # Sharing a Device
//
// Use NewFromProvider to render with the device of a gpucontext provider:
//
//	b, err := wgpu.NewFromProvider(window, surface)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//	r, err := frame.New(b, rasterizer)
package wgpu
