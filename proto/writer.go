package proto

import (
	"bufio"
	"image"
	"io"

	"github.com/srlehn/lcdpipe/internal/errors"
)

// Writer is the sending side of the protocol. Each command is flushed as
// soon as it is written so a reader on the pipe sees it without delay.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Write(cmd Command) error {
	if w == nil || w.w == nil {
		return errors.NilReceiver()
	}
	line, err := Encode(cmd)
	if err != nil {
		return err
	}
	if _, err := w.w.WriteString(line + "\n"); err != nil {
		return errors.New(err)
	}
	if err := w.w.Flush(); err != nil {
		return errors.New(err)
	}
	return nil
}

func (w *Writer) Reset() error { return w.Write(Clear{}) }

// FillRectangle paints columns x1..x2 and rows y1..y2.
func (w *Writer) FillRectangle(col Color, x1, x2, y1, y2 int) error {
	return w.Write(FillBox{P1: image.Pt(x1, y1), P2: image.Pt(x2, y2), Color: col})
}

func (w *Writer) Pixel(col Color, x, y int) error {
	return w.Write(SetPixel{P: image.Pt(x, y), Color: col})
}

// MonoRectangle sends a 1bpp raster of (x2-x1+1)*(y2-y1+1) bits. Surplus
// bytes in pixels are not transmitted.
func (w *Writer) MonoRectangle(fg, bg Color, x1, x2, y1, y2 int, pixels []byte) error {
	cmd := BlitBitmap{P1: image.Pt(x1, y1), P2: image.Pt(x2, y2), FG: fg, BG: bg}
	n := cmd.PixelCount()
	size := n / 8
	if n%8 != 0 {
		size++
	}
	if uint64(len(pixels)) < size {
		return errors.Errorf(`mono rectangle needs %d bytes, got %d`, size, len(pixels))
	}
	cmd.Bits = pixels[:size]
	return w.Write(cmd)
}

// ColourRectangle sends a full colour rectangle as individual plot
// commands. Each entry of rle holds a repeat count in its top byte and the
// colour in the lower 24 bits.
func (w *Writer) ColourRectangle(x1, x2, y1, y2 int, rle []uint32) error {
	remaining := rectArea(image.Pt(x1, y1), image.Pt(x2, y2))
	x, y := x1, y1
	for remaining > 0 {
		if len(rle) == 0 {
			return errors.Errorf(`colour rectangle: run-length data exhausted with %d pixels left`, remaining)
		}
		pixel := rle[0]
		rle = rle[1:]
		count := uint64(pixel >> 24)
		if count == 0 {
			return errors.New(`colour rectangle: zero length run`)
		}
		if count > remaining {
			count = remaining
		}
		remaining -= count
		col := ColorFromUint32(pixel)
		for ; count > 0; count-- {
			if err := w.Pixel(col, x, y); err != nil {
				return err
			}
			if x == x2 {
				x = x1
				y++
			} else {
				x++
			}
		}
	}
	return nil
}
