// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package minui

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DefaultDevice is the framebuffer node recovery traditionally draws to.
const DefaultDevice = "/dev/graphics/fb0"

// fbdev ioctl requests and blanking levels from the kernel fb UAPI.
const (
	fbioGetVScreenInfo = 0x4600
	fbioPutVScreenInfo = 0x4601
	fbioGetFScreenInfo = 0x4602
	fbioBlank          = 0x4611

	fbBlankUnblank   = 0
	fbBlankPowerdown = 4
)

// fbBitfield mirrors struct fb_bitfield.
type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// fbVarScreeninfo mirrors struct fb_var_screeninfo.
type fbVarScreeninfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          fbBitfield
	Green        fbBitfield
	Blue         fbBitfield
	Transp       fbBitfield
	NonStd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	PixClock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HSyncLen     uint32
	VSyncLen     uint32
	Sync         uint32
	VMode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// fbFixScreeninfo mirrors struct fb_fix_screeninfo.
type fbFixScreeninfo struct {
	ID           [16]byte
	SMemStart    uintptr
	SMemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	_            uint16
	LineLength   uint32
	MMIOStart    uintptr
	MMIOLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// FBDev is a display backend backed by a kernel framebuffer device. It
// exposes one or two [Surface] pages; with two, drawing into the inactive
// page and flipping with [FBDev.SetActive] avoids tearing.
type FBDev struct {
	fd       int
	vi       fbVarScreeninfo
	fi       fbFixScreeninfo
	mem      []byte
	surfaces []Surface
}

// OpenFBDev opens the framebuffer device at path, switches it to the given
// pixel format and maps its memory. The device is left unblanked in whatever
// state the kernel had it; call [FBDev.Blank] to control power explicitly.
func OpenFBDev(path string, format PixelFormat) (*FBDev, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("minui: open %s: %w", path, err)
	}
	d := &FBDev{fd: fd}

	if err := d.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&d.vi)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("minui: reading screen info: %w", err)
	}

	d.vi.BitsPerPixel = uint32(format.Size()) * 8
	switch format {
	case BGRA8888:
		d.vi.Red = fbBitfield{Offset: 8, Length: 8}
		d.vi.Green = fbBitfield{Offset: 16, Length: 8}
		d.vi.Blue = fbBitfield{Offset: 24, Length: 8}
		d.vi.Transp = fbBitfield{Offset: 0, Length: 8}
	case RGBX8888:
		d.vi.Red = fbBitfield{Offset: 24, Length: 8}
		d.vi.Green = fbBitfield{Offset: 16, Length: 8}
		d.vi.Blue = fbBitfield{Offset: 8, Length: 8}
		d.vi.Transp = fbBitfield{Offset: 0, Length: 8}
	default: // RGB565
		d.vi.Red = fbBitfield{Offset: 11, Length: 5}
		d.vi.Green = fbBitfield{Offset: 5, Length: 6}
		d.vi.Blue = fbBitfield{Offset: 0, Length: 5}
		d.vi.Transp = fbBitfield{}
	}
	if err := d.ioctl(fbioPutVScreenInfo, unsafe.Pointer(&d.vi)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("minui: setting pixel format: %w", err)
	}
	if err := d.ioctl(fbioGetFScreenInfo, unsafe.Pointer(&d.fi)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("minui: reading fixed screen info: %w", err)
	}

	d.mem, err = unix.Mmap(fd, 0, int(d.fi.SMemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("minui: mapping framebuffer: %w", err)
	}

	pageSize := int(d.vi.YRes) * int(d.fi.LineLength)
	pages := 1
	if NumBuffers*pageSize <= int(d.fi.SMemLen) {
		pages = NumBuffers
	}
	for i := range pages {
		page := d.mem[i*pageSize : (i+1)*pageSize]
		clear(page)
		d.surfaces = append(d.surfaces, Surface{
			Width:  int(d.vi.XRes),
			Height: int(d.vi.YRes),
			Stride: int(d.fi.LineLength) / format.Size(),
			Format: format,
			Data:   page,
		})
	}
	return d, nil
}

// Surfaces returns the drawable pages of the device. The slice has
// [NumBuffers] entries if the framebuffer supports page flipping and one
// otherwise.
func (d *FBDev) Surfaces() []Surface { return d.surfaces }

// DoubleBuffered reports whether the device exposes two flippable pages.
func (d *FBDev) DoubleBuffered() bool { return len(d.surfaces) == NumBuffers }

// SetActive makes page n the one being scanned out by panning the display.
func (d *FBDev) SetActive(n int) error {
	if n < 0 || n >= len(d.surfaces) {
		return fmt.Errorf("minui: no surface %d", n)
	}
	d.vi.YResVirtual = d.vi.YRes * NumBuffers
	d.vi.YOffset = uint32(n) * d.vi.YRes
	if err := d.ioctl(fbioPutVScreenInfo, unsafe.Pointer(&d.vi)); err != nil {
		return fmt.Errorf("minui: page flip: %w", err)
	}
	return nil
}

// Blank powers the display down or back up.
func (d *FBDev) Blank(blank bool) error {
	level := fbBlankUnblank
	if blank {
		level = fbBlankPowerdown
	}
	if err := unix.IoctlSetInt(d.fd, fbioBlank, level); err != nil {
		return fmt.Errorf("minui: blank: %w", err)
	}
	return nil
}

// Close unmaps the framebuffer and closes the device. The Surfaces become
// invalid.
func (d *FBDev) Close() error {
	var first error
	if d.mem != nil {
		first = unix.Munmap(d.mem)
		d.mem = nil
		d.surfaces = nil
	}
	if err := unix.Close(d.fd); first == nil {
		first = err
	}
	d.fd = -1
	return first
}

func (d *FBDev) ioctl(req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
