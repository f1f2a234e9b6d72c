// Package present contains the pieces shared by the display surfaces that
// show the framebuffer.
package present

import (
	"image"
)

// Snapshotter provides a consistent copy of the current frame.
type Snapshotter interface {
	Snapshot() *image.NRGBA
}

// Signal coalesces redraw requests: any number of Redraw calls between two
// receives on C result in a single pending wake-up. Redraw never blocks.
type Signal struct {
	ch chan struct{}
}

func NewSignal() *Signal { return &Signal{ch: make(chan struct{}, 1)} }

func (s *Signal) Redraw() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *Signal) C() <-chan struct{} { return s.ch }

// Fit returns the largest size with the aspect ratio of src that fits into
// dst. With integer set only whole multiples (or whole fractions) of src are
// used so that pixel edges stay sharp.
func Fit(src, dst image.Point, integer bool) image.Point {
	if src.X <= 0 || src.Y <= 0 || dst.X <= 0 || dst.Y <= 0 {
		return image.Point{}
	}
	if integer {
		if k := min(dst.X/src.X, dst.Y/src.Y); k >= 1 {
			return src.Mul(k)
		}
		k := max((src.X+dst.X-1)/dst.X, (src.Y+dst.Y-1)/dst.Y)
		return src.Div(k)
	}
	// compare dst.X/src.X with dst.Y/src.Y without floats
	if dst.X*src.Y <= dst.Y*src.X {
		return image.Pt(dst.X, max(1, src.Y*dst.X/src.X))
	}
	return image.Pt(max(1, src.X*dst.Y/src.Y), dst.Y)
}

// Center returns the offset that centers size inside area.
func Center(size, area image.Point) image.Point {
	return image.Pt((area.X-size.X)/2, (area.Y-size.Y)/2)
}
