// Package rdefault selects a resizer by name.
package rdefault

import (
	"image"
	"slices"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	giftlib "github.com/disintegration/gift"
	imaginglib "github.com/disintegration/imaging"
	nfntlib "github.com/nfnt/resize"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/resize"
	"github.com/srlehn/lcdpipe/resize/bild"
	"github.com/srlehn/lcdpipe/resize/gift"
	"github.com/srlehn/lcdpipe/resize/imaging"
	"github.com/srlehn/lcdpipe/resize/nfnt"
	"github.com/srlehn/lcdpipe/resize/xdraw"
)

var registry = map[string]func() resize.Resizer{
	`nearest`:         xdraw.NearestNeighbor,
	`approx-bilinear`: xdraw.ApproxBiLinear,
	`bilinear`:        xdraw.BiLinear,
	`catmull-rom`:     xdraw.CatmullRom,
	`nfnt-lanczos`:    func() resize.Resizer { return &nfnt.Resizer{Interpolation: nfntlib.Lanczos3} },
	`gift-lanczos`:    func() resize.Resizer { return &gift.Resizer{Filter: giftlib.LanczosResampling} },
	`bild-lanczos`:    func() resize.Resizer { return &bild.Resizer{Filter: &transform.Lanczos} },
	`imaging-lanczos`: func() resize.Resizer { return &imaging.Resizer{Filter: &imaginglib.Lanczos} },
}

// Resizer scales with the default scaler. Frames that already have the
// requested size are returned unchanged.
type Resizer struct{}

var _ resize.Resizer = (*Resizer)(nil)

func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	if resize.Same(img, size) {
		return img, nil
	}
	return xdraw.NearestNeighbor().Resize(img, size)
}

// Default returns the nearest neighbour resizer.
func Default() resize.Resizer { return &Resizer{} }

// ByName returns the resizer registered under name. The empty name selects
// the default.
func ByName(name string) (resize.Resizer, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == `` || name == `default` {
		return Default(), nil
	}
	f, ok := registry[name]
	if !ok {
		return nil, errors.Errorf(`unknown scaler %q (available: %s)`, name, strings.Join(Names(), `, `))
	}
	return f(), nil
}

// Names lists the registered scaler names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
