// Package framebuffer holds the in-memory image of the remote LCD.
//
// Out of range coordinates never touch memory outside the grid:
// SetPixel refuses them with ErrOutOfBounds, FillBox and BlitBitmap clip to
// the grid. Mutations are serialised with a lock that Snapshot shares, so a
// snapshot always shows the result of whole mutations.
package framebuffer

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/srlehn/lcdpipe/proto"
)

// size of the reference display in portrait orientation
const (
	DefaultWidth  = 272
	DefaultHeight = 480
)

// Framebuffer is a fixed size row-major grid of RGB pixels, initially black.
type Framebuffer struct {
	mu     sync.RWMutex
	width  int
	height int
	pix    []proto.Color
}

var _ image.Image = (*Framebuffer)(nil)

func New(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, &ApplyError{Op: `new`, Rect: image.Rect(0, 0, width, height), Err: ErrInvalidSize}
	}
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]proto.Color, width*height),
	}, nil
}

func (fb *Framebuffer) Width() int  { return fb.width }
func (fb *Framebuffer) Height() int { return fb.height }

func (fb *Framebuffer) Bounds() image.Rectangle {
	if fb == nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, fb.width, fb.height)
}

func (fb *Framebuffer) ColorModel() color.Model { return color.NRGBAModel }

// At returns black outside the grid.
func (fb *Framebuffer) At(x, y int) color.Color {
	return fb.Pixel(image.Pt(x, y))
}

func (fb *Framebuffer) Pixel(p image.Point) proto.Color {
	if fb == nil || !p.In(fb.Bounds()) {
		return proto.Black
	}
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.pix[p.Y*fb.width+p.X]
}

// Clear sets every pixel to black.
func (fb *Framebuffer) Clear() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	clear(fb.pix)
}

// SetPixel writes a single pixel or fails with ErrOutOfBounds.
func (fb *Framebuffer) SetPixel(p image.Point, c proto.Color) error {
	if !p.In(fb.Bounds()) {
		return &ApplyError{Op: proto.KeywordPlot, Rect: image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}, Err: ErrOutOfBounds}
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.pix[p.Y*fb.width+p.X] = c
	return nil
}

// FillBox paints the closed rectangle from p1 to p2, clipped to the grid.
// An inverted rectangle paints nothing.
func (fb *Framebuffer) FillBox(p1, p2 image.Point, c proto.Color) {
	if p2.X < p1.X || p2.Y < p1.Y {
		return
	}
	r := closedRect(p1, p2).Intersect(fb.Bounds())
	if r.Empty() {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := fb.pix[y*fb.width+r.Min.X : y*fb.width+r.Max.X]
		for i := range row {
			row[i] = c
		}
	}
}

// BlitBitmap paints the closed rectangle from p1 to p2 row by row, taking
// one bit per cell from bits, most significant bit first: fg for set bits,
// bg for clear ones. Cells outside the grid consume their bit but are not
// painted. If bits holds fewer bits than the rectangle has cells nothing is
// painted and ErrInsufficientBitmapData is returned; surplus bits are ignored.
func (fb *Framebuffer) BlitBitmap(p1, p2 image.Point, fg, bg proto.Color, bits []byte) error {
	if p2.X < p1.X || p2.Y < p1.Y {
		return nil
	}
	// extents of 32 bit coordinates overflow int on 32 bit platforms and
	// their product overflows uint64
	w64, h64 := int64(p2.X)-int64(p1.X)+1, int64(p2.Y)-int64(p1.Y)+1
	if have := uint64(len(bits)) * 8; uint64(w64) > have || uint64(h64) > have/uint64(w64) {
		return &ApplyError{Op: proto.KeywordBitmap, Rect: closedRect(p1, p2), Err: ErrInsufficientBitmapData}
	}
	w := int(w64)
	r := closedRect(p1, p2).Intersect(fb.Bounds())
	if r.Empty() {
		return nil
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		rowBit := (y - p1.Y) * w
		for x := r.Min.X; x < r.Max.X; x++ {
			i := rowBit + x - p1.X
			c := bg
			if bits[i>>3]&(0x80>>(i&7)) != 0 {
				c = fg
			}
			fb.pix[y*fb.width+x] = c
		}
	}
	return nil
}

// Snapshot returns a copy of the whole grid. It never observes a mutation
// halfway through.
func (fb *Framebuffer) Snapshot() *image.NRGBA {
	img := image.NewNRGBA(fb.Bounds())
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	for i, c := range fb.pix {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 0xFF
	}
	return img
}

// Apply performs cmd on the framebuffer.
func (fb *Framebuffer) Apply(cmd proto.Command) error {
	switch c := cmd.(type) {
	case proto.Clear:
		fb.Clear()
		return nil
	case proto.SetPixel:
		return fb.SetPixel(c.P, c.Color)
	case proto.FillBox:
		fb.FillBox(c.P1, c.P2, c.Color)
		return nil
	case proto.BlitBitmap:
		return fb.BlitBitmap(c.P1, c.P2, c.FG, c.BG, c.Bits)
	default:
		return &ApplyError{Op: `apply`, Err: errUnsupported(cmd)}
	}
}

// closedRect converts inclusive corners to a half-open image.Rectangle.
func closedRect(p1, p2 image.Point) image.Rectangle {
	return image.Rectangle{Min: p1, Max: image.Pt(min(p2.X, math.MaxInt-1)+1, min(p2.Y, math.MaxInt-1)+1)}
}
