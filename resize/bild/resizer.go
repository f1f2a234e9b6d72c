package bild

import (
	"image"

	"github.com/anthonynsimon/bild/transform"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/resize"
)

// Resizer uses "github.com/anthonynsimon/bild"
type Resizer struct {
	// Filter defaults to nearest neighbour
	Filter *transform.ResampleFilter
}

var _ resize.Resizer = (*Resizer)(nil)

// Resize ...
func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	if img == nil {
		return nil, errors.NilParam()
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, errors.Errorf(`invalid size %v`, size)
	}
	filter := transform.NearestNeighbor
	if r != nil && r.Filter != nil {
		filter = *r.Filter
	}
	return transform.Resize(img, size.X, size.Y, filter), nil
}
