// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package minui provides the minimal display backend used to draw the
// recovery UI. It negotiates a pixel format with the kernel framebuffer
// device, maps the framebuffer into memory and exposes it as one or two
// [Surface] values for page-flipped drawing. Rendering into a Surface is the
// caller's concern.
package minui

// PixelFormat identifies the in-memory pixel layout of a [Surface].
type PixelFormat int

// Supported framebuffer pixel formats.
//
//go:generate go tool stringer -type=PixelFormat
const (
	RGB565 PixelFormat = iota
	RGBX8888
	BGRA8888
)

// Size returns the size of one pixel in bytes.
func (f PixelFormat) Size() int {
	if f == RGB565 {
		return 2
	}
	return 4
}

// NumBuffers is the maximum number of surfaces a backend exposes.
const NumBuffers = 2

// Surface describes one drawable framebuffer page. Data aliases the mapped
// framebuffer memory; writes to it appear on screen when the surface is
// active. Stride is measured in pixels, not bytes.
type Surface struct {
	Width  int
	Height int
	Stride int
	Format PixelFormat
	Data   []byte
}
