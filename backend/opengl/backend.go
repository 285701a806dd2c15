package opengl

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/textplane/backend"
)

// Name is the identifier reported by Backend.Name.
const Name = "opengl"

var (
	// ErrForeignTexture is returned by Begin when the atlas texture was not
	// created by this backend.
	ErrForeignTexture = errors.New("opengl: atlas texture was not created by this backend")

	// ErrPassOpen is returned by Begin while the previous pass has not ended.
	ErrPassOpen = errors.New("opengl: previous pass still open")

	errPassEnded = errors.New("opengl: pass already ended")
)

// Backend draws text frames into the default framebuffer of the current
// OpenGL 4.1 context.
//
// Every GL call is made through mainthread.Call, so the program must run
// its main function with mainthread.Run and make the context current on
// the main thread before calling New.
type Backend struct {
	log  *slog.Logger
	swap func()

	program  uint32
	vao, vbo uint32
	scaleLoc int32
	blend    [4]uint32

	textures []*Texture

	passOpen bool
	closed   bool
}

var _ backend.Backend = (*Backend)(nil)

// New loads the GL entry points and builds the program and vertex state.
func New(opts ...Option) (*Backend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = textplane.Logger()
	}

	b := &Backend{
		log:   o.logger,
		swap:  o.swap,
		blend: blendFuncs(backend.Blend),
	}
	var err error
	mainthread.Call(func() {
		err = b.init()
	})
	if err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl: init: %w", err)
	}
	program, err := newProgram()
	if err != nil {
		return err
	}
	b.program = program
	b.scaleLoc = gl.GetUniformLocation(program, gl.Str("screen_scale\x00"))
	gl.UseProgram(program)
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("atlas\x00")), 0)
	gl.UseProgram(0)

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, backend.VerticesPerQuad*backend.VertexStride, nil, gl.DYNAMIC_DRAW)
	for _, a := range vertexAttribs {
		gl.VertexAttribPointerWithOffset(a.loc, a.size, gl.FLOAT, false, backend.VertexStride, a.offset)
		gl.EnableVertexAttribArray(a.loc)
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("opengl: setup: GL error 0x%x", e)
	}
	return nil
}

// vertexAttribs describes backend.Vertex to the vertex array.
var vertexAttribs = []struct {
	loc    uint32
	size   int32
	offset uintptr
}{
	{attribColor, 4, 0},
	{attribPos, 2, 16},
	{attribUV, 2, 24},
	{attribKind, 1, 32},
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return Name
}

// NewTexture creates an atlas texture.
func (b *Backend) NewTexture(width, height int) (atlas.Texture, error) {
	if b.closed {
		return nil, backend.ErrClosed
	}
	t, err := newTexture(width, height)
	if err != nil {
		return nil, err
	}
	b.textures = append(b.textures, t)
	return t, nil
}

// Begin clears the default framebuffer and binds the program. The default
// framebuffer is always available, so Begin never reports ErrNoDrawable.
func (b *Backend) Begin(params backend.FrameParams) (backend.Pass, error) {
	if b.closed {
		return nil, backend.ErrClosed
	}
	if b.passOpen {
		return nil, ErrPassOpen
	}
	tex, ok := params.Atlas.(*Texture)
	if !ok || tex.id == 0 {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, params.Atlas)
	}

	w, h := params.PixelSize()
	scale := mgl32.Vec2{params.ScreenScale[0], params.ScreenScale[1]}
	c := params.Clear
	mainthread.Call(func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, pixelSize(w), pixelSize(h))
		gl.ClearColor(c.R, c.G, c.B, c.A)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		gl.UseProgram(b.program)
		gl.Uniform2fv(b.scaleLoc, 1, &scale[0])
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.id)
		gl.BindVertexArray(b.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

		gl.Enable(gl.BLEND)
		gl.BlendEquation(gl.FUNC_ADD)
		gl.BlendFuncSeparate(b.blend[0], b.blend[1], b.blend[2], b.blend[3])
	})

	b.passOpen = true
	return &pass{b: b}, nil
}

// Close deletes textures and GL objects.
func (b *Backend) Close() {
	if b.closed {
		return
	}
	b.closed = true
	for _, t := range b.textures {
		t.Destroy()
	}
	b.textures = nil
	mainthread.Call(func() {
		if b.vbo != 0 {
			gl.DeleteBuffers(1, &b.vbo)
		}
		if b.vao != 0 {
			gl.DeleteVertexArrays(1, &b.vao)
		}
		if b.program != 0 {
			gl.DeleteProgram(b.program)
		}
	})
	b.vbo, b.vao, b.program = 0, 0, 0
}

// pass records one frame.
type pass struct {
	b     *Backend
	ended bool
}

// DrawQuad streams the quad into the vertex buffer and draws it.
func (p *pass) DrawQuad(q *backend.Quad) error {
	if p.ended {
		return errPassEnded
	}
	data := q.Bytes()
	var glErr uint32
	mainthread.Call(func() {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data), gl.Ptr(data))
		gl.DrawArrays(gl.TRIANGLES, 0, backend.VerticesPerQuad)
		glErr = gl.GetError()
	})
	if glErr != gl.NO_ERROR {
		return fmt.Errorf("opengl: draw: GL error 0x%x", glErr)
	}
	return nil
}

// End flushes the frame and presents it with the swap function.
func (p *pass) End() error {
	if p.ended {
		return errPassEnded
	}
	p.ended = true
	b := p.b
	b.passOpen = false

	var glErr uint32
	mainthread.Call(func() {
		gl.BindVertexArray(0)
		gl.UseProgram(0)
		gl.Flush()
		glErr = gl.GetError()
		if b.swap != nil {
			b.swap()
		}
	})
	if glErr != gl.NO_ERROR {
		b.log.Warn("opengl: frame ended with GL error", "code", glErr)
		return fmt.Errorf("opengl: end frame: GL error 0x%x", glErr)
	}
	return nil
}

// blendFuncs converts the blend state to glBlendFuncSeparate arguments.
func blendFuncs(s backend.BlendState) [4]uint32 {
	return [4]uint32{
		blendFactor(s.Color.Src),
		blendFactor(s.Color.Dst),
		blendFactor(s.Alpha.Src),
		blendFactor(s.Alpha.Dst),
	}
}

func blendFactor(f backend.BlendFactor) uint32 {
	switch f {
	case backend.BlendZero:
		return gl.ZERO
	case backend.BlendOne:
		return gl.ONE
	case backend.BlendSrcAlpha:
		return gl.SRC_ALPHA
	case backend.BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	default:
		return gl.ONE
	}
}

// pixelSize guards the viewport against sizes GL cannot express.
func pixelSize(v int) int32 {
	return int32(min(v, math.MaxInt32))
}
