// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "noop"}
}

var _ gpucontext.DeviceProvider = (*mockProvider)(nil)

// mockHALProvider additionally exposes HAL objects.
type mockHALProvider struct {
	mockProvider
	device any
	queue  any
}

func (m *mockHALProvider) HalDevice() any { return m.device }
func (m *mockHALProvider) HalQueue() any  { return m.queue }

func TestNewFromProvider_NoHAL(t *testing.T) {
	p := &mockProvider{format: gputypes.TextureFormatBGRA8Unorm}
	if _, err := NewFromProvider(p, nil); !errors.Is(err, ErrNoHAL) {
		t.Errorf("NewFromProvider() error = %v, want ErrNoHAL", err)
	}
}

func TestNewFromProvider_WrongTypes(t *testing.T) {
	p := &mockHALProvider{
		mockProvider: mockProvider{format: gputypes.TextureFormatBGRA8Unorm},
		device:       "not a device",
		queue:        42,
	}
	if _, err := NewFromProvider(p, nil); !errors.Is(err, ErrNoHAL) {
		t.Errorf("NewFromProvider() error = %v, want ErrNoHAL", err)
	}
}

func TestNewFromProvider_FormatMismatch(t *testing.T) {
	device, queue := createNoopDevice(t)
	p := &mockHALProvider{
		mockProvider: mockProvider{format: gputypes.TextureFormatRGBA8Unorm},
		device:       device,
		queue:        queue,
	}
	surface := &testSurface{t: t, device: device}
	if _, err := NewFromProvider(p, surface); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("NewFromProvider() error = %v, want ErrFormatMismatch", err)
	}
}

func TestNewFromProvider(t *testing.T) {
	device, queue := createNoopDevice(t)
	p := &mockHALProvider{
		mockProvider: mockProvider{format: gputypes.TextureFormatBGRA8Unorm},
		device:       device,
		queue:        queue,
	}
	b, err := NewFromProvider(p, &testSurface{t: t, device: device})
	if err != nil {
		t.Fatalf("NewFromProvider() error = %v", err)
	}
	defer b.Close()
	if b.device != device {
		t.Error("backend does not use the provider's device")
	}
}
