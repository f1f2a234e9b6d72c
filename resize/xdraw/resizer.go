// Package xdraw provides a resizer implementation using golang.org/x/image/draw.
// NearestNeighbor keeps the hard pixel edges of the panel and is the default.
package xdraw

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/resize"
)

// resizer uses "golang.org/x/image/draw"
type resizer struct {
	scaler draw.Scaler
}

var _ resize.Resizer = (*resizer)(nil)

func NearestNeighbor() resize.Resizer { return &resizer{scaler: draw.NearestNeighbor} }

// ApproxBiLinear creates a new resizer with ApproxBiLinear scaling (balanced speed/quality).
func ApproxBiLinear() resize.Resizer { return &resizer{scaler: draw.ApproxBiLinear} }

func BiLinear() resize.Resizer { return &resizer{scaler: draw.BiLinear} }

func CatmullRom() resize.Resizer { return &resizer{scaler: draw.CatmullRom} }

// Resize scales an image to the target size using the configured scaler.
func (r *resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	if r == nil || r.scaler == nil {
		return nil, errors.NilReceiver()
	}
	if img == nil {
		return nil, errors.NilParam()
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, errors.Errorf(`invalid size %v`, size)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	r.scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}
