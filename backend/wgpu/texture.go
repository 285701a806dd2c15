// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/wgpu/hal"
)

// Texture is a BGRA8Unorm atlas texture on the GPU.
type Texture struct {
	device hal.Device
	queue  hal.Queue

	tex  hal.Texture
	view hal.TextureView

	width, height int
}

var _ atlas.Texture = (*Texture)(nil)

func newTexture(device hal.Device, queue hal.Queue, width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wgpu: invalid atlas texture size %dx%d", width, height)
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "textplane_atlas",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // validated above
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create atlas texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "textplane_atlas_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create atlas texture view: %w", err)
	}
	return &Texture{
		device: device,
		queue:  queue,
		tex:    tex,
		view:   view,
		width:  width,
		height: height,
	}, nil
}

// Size implements atlas.Texture.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// WriteRegion uploads tightly packed BGRA rows to the region at (x, y).
// The write is ordered on the queue before any later submission.
func (t *Texture) WriteRegion(x, y, w, h int, pix []byte) error {
	if t.tex == nil {
		return fmt.Errorf("wgpu: write to destroyed atlas texture")
	}
	if err := atlas.CheckRegion(t.width, t.height, x, y, w, h, pix); err != nil {
		return err
	}
	if w == 0 || h == 0 {
		return nil
	}
	//nolint:gosec // region validated by CheckRegion
	err := t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		pix[:w*h*atlas.BytesPerPixel],
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * atlas.BytesPerPixel),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: upload atlas region: %w", err)
	}
	return nil
}

// View returns the texture view bound by the pipeline.
func (t *Texture) View() hal.TextureView {
	return t.view
}

// Destroy releases the texture. Safe to call multiple times.
func (t *Texture) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
