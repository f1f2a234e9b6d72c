// Package resize defines the interface for scaling a frame to the size of a
// display surface. The subpackages wrap one image library each.
package resize

import (
	"image"
)

// Resizer scales img to exactly size.
type Resizer interface {
	Resize(img image.Image, size image.Point) (image.Image, error)
}

var _ Resizer = (ResizerFunc)(nil)

type ResizerFunc func(img image.Image, size image.Point) (image.Image, error)

func (f ResizerFunc) Resize(img image.Image, size image.Point) (image.Image, error) {
	return f(img, size)
}

// Same reports whether no scaling is needed.
func Same(img image.Image, size image.Point) bool {
	return img != nil && img.Bounds().Size() == size
}
