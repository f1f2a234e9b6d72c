package proto

import (
	"fmt"
	"image/color"
)

// Color is a 24 bit RGB value as carried on the wire (0xRRGGBB).
type Color struct {
	R, G, B uint8
}

var _ color.Color = Color{}

// ColorFromUint32 unpacks v as 0xRRGGBB. Bits above 24 are ignored.
func ColorFromUint32(v uint32) Color {
	return Color{
		R: uint8((v >> 16) & 0xFF),
		G: uint8((v >> 8) & 0xFF),
		B: uint8(v & 0xFF),
	}
}

// ColorFromStd converts any color.Color, dropping alpha.
func ColorFromStd(c color.Color) Color {
	if c == nil {
		return Color{}
	}
	if pc, ok := c.(Color); ok {
		return pc
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: nc.R, G: nc.G, B: nc.B}
}

func (c Color) Uint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xFFFF
}

func (c Color) NRGBA() color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF} }

func (c Color) String() string { return fmt.Sprintf(`0x%06X`, c.Uint32()) }

// colours of the reference LCD driver
var (
	Black   = ColorFromUint32(0x000000)
	Red     = ColorFromUint32(0xFF0000)
	Green   = ColorFromUint32(0x00FF00)
	Blue    = ColorFromUint32(0x0000FF)
	Yellow  = ColorFromUint32(0xFFFF00)
	Cyan    = ColorFromUint32(0x00FFFF)
	Magenta = ColorFromUint32(0xFF00FF)
	White   = ColorFromUint32(0xFFFFFF)

	RedDim     = ColorFromUint32(0x800000)
	GreenDim   = ColorFromUint32(0x008000)
	BlueDim    = ColorFromUint32(0x000080)
	YellowDim  = ColorFromUint32(0x808000)
	CyanDim    = ColorFromUint32(0x008080)
	MagentaDim = ColorFromUint32(0x800080)
	Grey       = ColorFromUint32(0x808080)
)
