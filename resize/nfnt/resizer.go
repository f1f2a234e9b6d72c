package nfnt

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/srlehn/lcdpipe/internal/errors"
	lcdresize "github.com/srlehn/lcdpipe/resize"
)

// Resizer uses "github.com/nfnt/resize"
type Resizer struct {
	// Interpolation defaults to resize.NearestNeighbor (the zero value)
	Interpolation resize.InterpolationFunction
}

var _ lcdresize.Resizer = (*Resizer)(nil)

// Resize ...
func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	if img == nil {
		return nil, errors.NilParam()
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, errors.Errorf(`invalid size %v`, size)
	}
	interp := resize.NearestNeighbor
	if r != nil {
		interp = r.Interpolation
	}
	return resize.Resize(uint(size.X), uint(size.Y), img, interp), nil
}
