// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/textplane/backend"
	"github.com/gogpu/wgpu/hal"
)

// Embedded text plane shader source.
//
//go:embed shaders/textplane.wgsl
var shaderSource string

// globalsSize is the byte size of the Globals uniform:
// screen_scale (vec2<f32>) + padding (vec2<f32>) = 16 bytes.
const globalsSize = 16

// Pipeline is the fixed render pipeline shared by every frame: one shader
// with solid and glyph variants selected per vertex, and the additive
// blend from backend.Blend.
//
// A Pipeline is bound to one surface format; a format change requires a
// new Backend.
type Pipeline struct {
	device hal.Device
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler

	// spirv is kept for diagnostics.
	spirv []uint32
}

// NewPipeline compiles the shader and creates the render pipeline for
// format. Any failure is fatal for the backend.
func NewPipeline(device hal.Device, format gputypes.TextureFormat) (*Pipeline, error) {
	p := &Pipeline{device: device, format: format}
	if err := p.init(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) init() error {
	spirv, err := compileShader(shaderSource)
	if err != nil {
		return err
	}
	p.spirv = spirv

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "textplane_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create shader module: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: Globals (uniform buffer, vertex)
	//   Binding 1: atlas texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "textplane_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "textplane_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// Glyphs map 1:1 to atlas texels.
	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "textplane_atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sampler: %w", err)
	}
	p.sampler = sampler

	blend := blendState(backend.Blend)
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "textplane_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// Format returns the color target format the pipeline was built for.
func (p *Pipeline) Format() gputypes.TextureFormat {
	return p.format
}

// SPIRV returns the compiled shader code.
func (p *Pipeline) SPIRV() []uint32 {
	return p.spirv
}

// Destroy releases all pipeline resources in reverse creation order.
// Safe to call on a partially created pipeline.
func (p *Pipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// compileShader compiles WGSL to SPIR-V words.
func compileShader(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return code, nil
}

// vertexLayout matches VertexInput in textplane.wgsl and backend.Vertex.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: backend.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // color
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1}, // pos
				{Format: gputypes.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2}, // uv
				{Format: gputypes.VertexFormatFloat32, Offset: 32, ShaderLocation: 3},   // kind
			},
		},
	}
}

// blendState converts the backend blend description.
func blendState(s backend.BlendState) gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: blendFactor(s.Color.Src),
			DstFactor: blendFactor(s.Color.Dst),
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: blendFactor(s.Alpha.Src),
			DstFactor: blendFactor(s.Alpha.Dst),
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

func blendFactor(f backend.BlendFactor) gputypes.BlendFactor {
	switch f {
	case backend.BlendOne:
		return gputypes.BlendFactorOne
	case backend.BlendSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case backend.BlendOneMinusSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	default:
		return gputypes.BlendFactorZero
	}
}

// globalsBytes serializes the Globals uniform.
func globalsBytes(screenScale [2]float32) []byte {
	b := make([]byte, globalsSize)
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(screenScale[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(screenScale[1]))
	return b
}
