// Package opengl implements the text plane backend on OpenGL 4.1 core.
//
// The backend draws into the default framebuffer of a context created by
// the caller (for example a GLFW window). GL is bound to one OS thread, so
// every call goes through github.com/faiface/mainthread:
//
//	func main() {
//		mainthread.Run(run)
//	}
//
//	func run() {
//		var win *glfw.Window
//		mainthread.Call(func() {
//			win = createWindow()
//			win.MakeContextCurrent()
//		})
//		b, err := opengl.New(opengl.WithSwap(win.SwapBuffers))
//		...
//	}
//
// The atlas texture is stored as RGBA8 and filled from BGRA uploads, so
// glyph bitmaps need no conversion.
package opengl
