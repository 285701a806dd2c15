// Package software implements a CPU rendering backend.
//
// Quads are rasterized at pixel centers into a swap chain of *image.RGBA
// drawables using the same blend equation as the GPU backends. It needs no
// window or device and is registered as "software":
//
//	b := software.New(software.WithBuffers(3))
//	r, _ := frame.New(b, rasterizer)
//	...
//	img := b.Front()
package software
