package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/resize"
)

// Resizer uses "github.com/disintegration/imaging"
type Resizer struct {
	// Filter defaults to nearest neighbour
	Filter *imaging.ResampleFilter
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
	filter := imaging.NearestNeighbor
	if r != nil && r.Filter != nil {
		filter = *r.Filter
	}
	return imaging.Resize(img, size.X, size.Y, filter), nil
}
