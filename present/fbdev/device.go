// Copyright 2013 Konstantin Kulikov. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fbdev

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srlehn/lcdpipe/internal/errors"
)

// bitfield mirrors struct fb_bitfield.
type bitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// fixedScreenInfo mirrors struct fb_fix_screeninfo.
type fixedScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// variableScreenInfo mirrors struct fb_var_screeninfo.
type variableScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp bitfield
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	PixClock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync, VMode              uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// Device is a memory mapped framebuffer. Only packed true colour layouts
// with 16, 24 or 32 bits per pixel are supported.
type Device struct {
	data   []byte
	finfo  fixedScreenInfo
	vinfo  variableScreenInfo
	closer func() error
}

func newDevice(data []byte, finfo fixedScreenInfo, vinfo variableScreenInfo) (*Device, error) {
	switch vinfo.BitsPerPixel {
	case 16, 24, 32:
	default:
		return nil, errors.Errorf(`unsupported pixel depth: %d bits`, vinfo.BitsPerPixel)
	}
	need := int(vinfo.YOffset+vinfo.YRes-1)*int(finfo.LineLength) +
		int(vinfo.XOffset+vinfo.XRes)*int(vinfo.BitsPerPixel/8)
	if vinfo.XRes == 0 || vinfo.YRes == 0 || need > len(data) {
		return nil, errors.New(`framebuffer mapping smaller than its resolution`)
	}
	return &Device{data: data, finfo: finfo, vinfo: vinfo}, nil
}

// Close unmaps and closes the device.
func (d *Device) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	c := d.closer
	d.closer = nil
	return c()
}

var _ draw.Image = (*Device)(nil)

func (d *Device) ColorModel() color.Model { return color.NRGBAModel }

func (d *Device) Bounds() image.Rectangle {
	if d == nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, int(d.vinfo.XRes), int(d.vinfo.YRes))
}

func (d *Device) offset(x, y int) int {
	return (int(d.vinfo.XOffset)+x)*int(d.vinfo.BitsPerPixel/8) +
		(int(d.vinfo.YOffset)+y)*int(d.finfo.LineLength)
}

func (d *Device) pixel(off int) uint32 {
	var v uint32
	for i := range int(d.vinfo.BitsPerPixel / 8) {
		v |= uint32(d.data[off+i]) << (8 * i)
	}
	return v
}

func (d *Device) At(x, y int) color.Color {
	if d == nil || !(image.Point{x, y}.In(d.Bounds())) {
		return color.NRGBA{}
	}
	v := d.pixel(d.offset(x, y))
	return color.NRGBA{
		R: unpack(v, d.vinfo.Red),
		G: unpack(v, d.vinfo.Green),
		B: unpack(v, d.vinfo.Blue),
		A: 0xFF,
	}
}

// Set changes pixel at x, y to the specified color.
func (d *Device) Set(x, y int, c color.Color) {
	if d == nil || c == nil || !(image.Point{x, y}.In(d.Bounds())) {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	v := pack(n.R, d.vinfo.Red) | pack(n.G, d.vinfo.Green) | pack(n.B, d.vinfo.Blue)
	if d.vinfo.Transp.Length > 0 {
		v |= pack(0xFF, d.vinfo.Transp)
	}
	off := d.offset(x, y)
	for i := range int(d.vinfo.BitsPerPixel / 8) {
		d.data[off+i] = byte(v >> (8 * i))
	}
}

// Clear fills the screen with the specified color.
func (d *Device) Clear(c color.Color) {
	if d == nil {
		return
	}
	draw.Draw(d, d.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func pack(v uint8, f bitfield) uint32 {
	if f.Length == 0 {
		return 0
	}
	return (uint32(v) >> (8 - min(f.Length, 8))) << f.Offset
}

func unpack(v uint32, f bitfield) uint8 {
	if f.Length == 0 {
		return 0
	}
	l := min(f.Length, 8)
	c := (v >> f.Offset) & (1<<l - 1)
	// replicate the high bits into the low ones so 0x1F becomes 0xFF
	c <<= 8 - l
	return uint8(c | c>>l)
}
