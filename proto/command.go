// Package proto implements the line protocol spoken over the LCD pipe.
//
// One command per line, fields separated by single spaces:
//
//	reset
//	box <x1> <x2> <y1> <y2> <color>
//	bitmap <x1> <x2> <y1> <y2> <fg> <bg> <hexbits>
//	plot <x> <y> <color>
//
// Integers are decimal, 0x-prefixed hex or 0-prefixed octal. Colours are a
// single integer packed as 0xRRGGBB. Note that box and bitmap carry both x
// coordinates before both y coordinates.
package proto

import (
	"fmt"
	"image"
	"math"
	"math/bits"
)

const (
	KeywordReset  = `reset`
	KeywordBox    = `box`
	KeywordBitmap = `bitmap`
	KeywordPlot   = `plot`
)

// Command is one decoded drawing instruction.
// The concrete types are Clear, SetPixel, FillBox and BlitBitmap.
type Command interface {
	Keyword() string
	command()
}

var (
	_ Command = Clear{}
	_ Command = SetPixel{}
	_ Command = FillBox{}
	_ Command = BlitBitmap{}
)

// Clear resets every pixel to black.
type Clear struct{}

func (Clear) Keyword() string { return KeywordReset }
func (Clear) command()        {}
func (Clear) String() string  { return KeywordReset }

// SetPixel writes a single pixel.
type SetPixel struct {
	P     image.Point
	Color Color
}

func (SetPixel) Keyword() string { return KeywordPlot }
func (SetPixel) command()        {}
func (c SetPixel) String() string {
	return fmt.Sprintf(`%s %v %v`, KeywordPlot, c.P, c.Color)
}

// FillBox paints the closed rectangle P1 (top left) to P2 (bottom right).
type FillBox struct {
	P1, P2 image.Point
	Color  Color
}

func (FillBox) Keyword() string { return KeywordBox }
func (FillBox) command()        {}
func (c FillBox) String() string {
	return fmt.Sprintf(`%s %v-%v %v`, KeywordBox, c.P1, c.P2, c.Color)
}

// BlitBitmap paints the closed rectangle P1 to P2 row by row from a 1 bit
// per pixel raster, most significant bit first. Set bits are FG, clear bits BG.
type BlitBitmap struct {
	P1, P2 image.Point
	FG, BG Color
	Bits   []byte
}

func (BlitBitmap) Keyword() string { return KeywordBitmap }
func (BlitBitmap) command()        {}
func (c BlitBitmap) String() string {
	return fmt.Sprintf(`%s %v-%v fg=%v bg=%v bytes=%d`, KeywordBitmap, c.P1, c.P2, c.FG, c.BG, len(c.Bits))
}

// PixelCount returns the number of cells (and bits) the rectangle covers,
// 0 for an inverted rectangle. It saturates at math.MaxUint64.
func (c BlitBitmap) PixelCount() uint64 { return rectArea(c.P1, c.P2) }

func rectArea(p1, p2 image.Point) uint64 {
	if p2.X < p1.X || p2.Y < p1.Y {
		return 0
	}
	hi, lo := bits.Mul64(uint64(int64(p2.X)-int64(p1.X)+1), uint64(int64(p2.Y)-int64(p1.Y)+1))
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
