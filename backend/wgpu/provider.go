// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrNoHAL is returned when a device provider does not expose HAL objects.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL device and queue")

	// ErrFormatMismatch is returned when the surface format differs from the
	// format the provider configured its surface with.
	ErrFormatMismatch = errors.New("wgpu: surface format does not match provider")
)

// halProvider is implemented by providers that share their HAL objects,
// such as gogpu windows.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewFromProvider creates a backend on the device shared by an external
// provider (e.g., a gogpu window). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider, surface Surface, opts ...Option) (*Backend, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
	}
	if surface != nil && provider.SurfaceFormat() != surface.Format() {
		return nil, fmt.Errorf("%w: provider %v, surface %v", ErrFormatMismatch, provider.SurfaceFormat(), surface.Format())
	}
	return New(device, queue, surface, opts...)
}
