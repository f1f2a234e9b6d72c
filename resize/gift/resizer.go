package gift

import (
	"image"

	"github.com/disintegration/gift"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/resize"
)

// Resizer uses "github.com/disintegration/gift"
type Resizer struct {
	// Filter defaults to nearest neighbour
	Filter gift.Resampling
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
	filter := gift.NearestNeighborResampling
	if r != nil && r.Filter != nil {
		filter = r.Filter
	}
	g := gift.New(gift.Resize(size.X, size.Y, filter))
	m := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(m, img)
	return m, nil
}
