// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/textplane/backend"
	"github.com/gogpu/wgpu/hal"
)

// Name is the identifier reported by Backend.Name.
const Name = "wgpu"

// wgpu backend errors.
var (
	// ErrForeignTexture is returned by Begin when the atlas texture was not
	// created by this backend.
	ErrForeignTexture = errors.New("wgpu: atlas texture was not created by this backend")

	// ErrPassOpen is returned by Begin while the previous pass has not ended.
	ErrPassOpen = errors.New("wgpu: previous pass still open")

	errPassEnded = errors.New("wgpu: pass already ended")
)

// Surface is the presentation surface frames are drawn to.
type Surface interface {
	// AcquireDrawable returns the next drawable, or nil if none is
	// available right now.
	AcquireDrawable() Drawable

	// Format returns the pixel format of the surface's drawables.
	Format() gputypes.TextureFormat
}

// Drawable is one presentable texture of a Surface.
type Drawable interface {
	// View returns the texture view used as the color attachment.
	View() hal.TextureView

	// Present schedules the drawable for presentation after all submitted
	// work that renders to it.
	Present() error

	// Discard returns the drawable to the surface without presenting it.
	Discard()
}

// Backend draws text frames with gogpu/wgpu HAL.
//
// Each frame records one render pass into its own command buffer. Vertex
// buffers and command buffers of a frame are kept until the queue reports
// the frame's submission index as completed and are reclaimed at a later
// Begin without blocking.
type Backend struct {
	device  hal.Device
	queue   hal.Queue
	surface Surface
	log     *slog.Logger

	pipeline *Pipeline
	uniform  hal.Buffer

	bindGroup hal.BindGroup
	boundTex  *Texture

	textures []*Texture

	inFlight []*frameResources

	passOpen bool
	closed   bool
}

// frameResources are released once the queue completes their submission.
type frameResources struct {
	index   uint64
	cmdBuf  hal.CommandBuffer
	buffers []hal.Buffer
}

var _ backend.Backend = (*Backend)(nil)

// New creates a backend rendering to surface with device and queue.
// The pipeline is built for the surface's format.
func New(device hal.Device, queue hal.Queue, surface Surface, opts ...Option) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: device and queue are required")
	}
	if surface == nil {
		return nil, fmt.Errorf("wgpu: surface is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = textplane.Logger()
	}

	b := &Backend{
		device:  device,
		queue:   queue,
		surface: surface,
		log:     o.logger,
	}
	if err := b.init(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) init() error {
	pipeline, err := NewPipeline(b.device, b.surface.Format())
	if err != nil {
		return err
	}
	b.pipeline = pipeline

	uniform, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "textplane_globals",
		Size:  globalsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}
	b.uniform = uniform
	return nil
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return Name
}

// NewTexture creates a BGRA8 atlas texture owned by the backend.
func (b *Backend) NewTexture(width, height int) (atlas.Texture, error) {
	if b.closed {
		return nil, backend.ErrClosed
	}
	t, err := newTexture(b.device, b.queue, width, height)
	if err != nil {
		return nil, err
	}
	b.textures = append(b.textures, t)
	return t, nil
}

// Begin acquires a drawable and opens a render pass that clears it.
func (b *Backend) Begin(params backend.FrameParams) (backend.Pass, error) {
	if b.closed {
		return nil, backend.ErrClosed
	}
	if b.passOpen {
		return nil, ErrPassOpen
	}
	b.reclaim()

	tex, ok := params.Atlas.(*Texture)
	if !ok || tex.tex == nil {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, params.Atlas)
	}
	if err := b.bind(tex); err != nil {
		return nil, err
	}

	if err := b.queue.WriteBuffer(b.uniform, 0, globalsBytes(params.ScreenScale)); err != nil {
		return nil, fmt.Errorf("wgpu: upload globals: %w", err)
	}

	drawable := b.surface.AcquireDrawable()
	if drawable == nil {
		return nil, backend.ErrNoDrawable
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "textplane_encoder",
	})
	if err != nil {
		drawable.Discard()
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("textplane_frame"); err != nil {
		drawable.Discard()
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	c := params.Clear
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "textplane_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       drawable.View(),
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)},
		}},
	})
	rp.SetPipeline(b.pipeline.pipeline)
	rp.SetBindGroup(0, b.bindGroup, nil)

	b.passOpen = true
	return &pass{
		b:        b,
		encoder:  encoder,
		rp:       rp,
		drawable: drawable,
	}, nil
}

// bind makes tex the texture sampled by glyph quads. The bind group is
// rebuilt only when the atlas texture changes.
func (b *Backend) bind(tex *Texture) error {
	if b.bindGroup != nil && b.boundTex == tex {
		return nil
	}
	bindGroup, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "textplane_bind",
		Layout: b.pipeline.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: b.uniform.NativeHandle(), Offset: 0, Size: globalsSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: tex.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: b.pipeline.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}
	if b.bindGroup != nil {
		// In-flight frames may still reference the old group.
		b.waitIdle()
		b.device.DestroyBindGroup(b.bindGroup)
	}
	b.bindGroup = bindGroup
	b.boundTex = tex
	return nil
}

// reclaim releases resources of frames the GPU has finished, without
// waiting for the others.
func (b *Backend) reclaim() {
	if len(b.inFlight) == 0 {
		return
	}
	completed := b.queue.PollCompleted()
	n := 0
	for n < len(b.inFlight) && b.inFlight[n].index <= completed {
		b.release(b.inFlight[n])
		n++
	}
	b.inFlight = b.inFlight[n:]
}

// waitIdle blocks until every submitted frame has completed.
func (b *Backend) waitIdle() {
	if len(b.inFlight) == 0 {
		return
	}
	last := b.inFlight[len(b.inFlight)-1]
	if b.queue.PollCompleted() < last.index {
		if err := b.device.WaitIdle(); err != nil {
			b.log.Warn("wgpu: wait for GPU failed", "index", last.index, "err", err)
		}
	}
	for _, f := range b.inFlight {
		b.release(f)
	}
	b.inFlight = nil
}

func (b *Backend) release(f *frameResources) {
	for _, buf := range f.buffers {
		b.device.DestroyBuffer(buf)
	}
	if f.cmdBuf != nil {
		b.device.FreeCommandBuffer(f.cmdBuf)
	}
}

// InFlight returns the number of submitted frames not yet reclaimed.
func (b *Backend) InFlight() int {
	return len(b.inFlight)
}

// Pipeline returns the render pipeline.
func (b *Backend) Pipeline() *Pipeline {
	return b.pipeline
}

// Close waits for submitted frames and releases all GPU resources.
// The device and queue are not destroyed.
func (b *Backend) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.waitIdle()

	for _, t := range b.textures {
		t.Destroy()
	}
	b.textures = nil
	if b.bindGroup != nil {
		b.device.DestroyBindGroup(b.bindGroup)
		b.bindGroup = nil
	}
	if b.uniform != nil {
		b.device.DestroyBuffer(b.uniform)
		b.uniform = nil
	}
	if b.pipeline != nil {
		b.pipeline.Destroy()
		b.pipeline = nil
	}
}

// pass records one frame.
type pass struct {
	b        *Backend
	encoder  hal.CommandEncoder
	rp       hal.RenderPassEncoder
	drawable Drawable
	buffers  []hal.Buffer
	ended    bool
}

// DrawQuad uploads the quad into its own vertex buffer and draws it.
func (p *pass) DrawQuad(q *backend.Quad) error {
	if p.ended {
		return errPassEnded
	}
	data := q.Bytes()
	buf, err := p.b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "textplane_quad",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create vertex buffer: %w", err)
	}
	if err := p.b.queue.WriteBuffer(buf, 0, data); err != nil {
		p.b.device.DestroyBuffer(buf)
		return fmt.Errorf("wgpu: upload vertices: %w", err)
	}
	p.buffers = append(p.buffers, buf)

	p.rp.SetVertexBuffer(0, buf, 0)
	p.rp.Draw(backend.VerticesPerQuad, 1, 0, 0)
	return nil
}

// End submits the frame and presents the drawable. The drawable is
// released on every path.
func (p *pass) End() error {
	if p.ended {
		return errPassEnded
	}
	p.ended = true
	b := p.b
	b.passOpen = false

	p.rp.End()
	cmdBuf, err := p.encoder.EndEncoding()
	if err != nil {
		p.abandon(nil)
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}

	index, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		p.abandon(cmdBuf)
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	b.inFlight = append(b.inFlight, &frameResources{
		index:   index,
		cmdBuf:  cmdBuf,
		buffers: p.buffers,
	})

	if err := p.drawable.Present(); err != nil {
		return fmt.Errorf("wgpu: present: %w", err)
	}
	return nil
}

// abandon releases a frame that never reached the GPU.
func (p *pass) abandon(cmdBuf hal.CommandBuffer) {
	p.b.release(&frameResources{cmdBuf: cmdBuf, buffers: p.buffers})
	p.drawable.Discard()
}
