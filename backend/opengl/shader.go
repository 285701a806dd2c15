package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Attribute locations, bound before linking. They follow the Vertex layout.
const (
	attribColor = 0
	attribPos   = 1
	attribUV    = 2
	attribKind  = 3
)

const vertexShader = `#version 410 core

uniform vec2 screen_scale;

in vec4 color;
in vec2 pos;
in vec2 uv;
in float kind;

out vec4 v_color;
out vec2 v_uv;
flat out float v_kind;

void main() {
	vec2 ndc = pos * screen_scale + vec2(-1.0, 1.0);
	gl_Position = vec4(ndc, 0.0, 1.0);
	v_color = color;
	v_uv = uv;
	v_kind = kind;
}
`

const fragmentShader = `#version 410 core

uniform sampler2D atlas;

in vec4 v_color;
in vec2 v_uv;
flat in float v_kind;

out vec4 frag_color;

void main() {
	if (v_kind < 0.5) {
		frag_color = v_color;
	} else if (v_kind < 1.5) {
		frag_color = v_color * texture(atlas, v_uv);
	} else {
		frag_color = texture(atlas, v_uv);
	}
}
`

// attribBindings maps vertex shader inputs to their locations.
var attribBindings = []struct {
	name string
	loc  uint32
}{
	{"color", attribColor},
	{"pos", attribPos},
	{"uv", attribUV},
	{"kind", attribKind},
}

// newProgram compiles and links the text plane program.
// Must be called on the main thread with a current context.
func newProgram() (uint32, error) {
	vs, err := compileShader(vertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("opengl: vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("opengl: fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	for _, a := range attribBindings {
		gl.BindAttribLocation(program, a.loc, gl.Str(a.name+"\x00"))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := programLog(program)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("opengl: link program: %s", log)
	}
	return program, nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	src, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, src, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(shader, n, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func programLog(program uint32) string {
	var n int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
	log := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(program, n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}
