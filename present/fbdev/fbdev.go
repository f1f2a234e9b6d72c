// Package fbdev shows the framebuffer on a linux framebuffer device such as
// /dev/fb0, for consoles without a terminal emulator.
package fbdev

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/internal/logx"
	"github.com/srlehn/lcdpipe/present"
	"github.com/srlehn/lcdpipe/resize"
	"github.com/srlehn/lcdpipe/resize/rdefault"
)

const DefaultDevice = `/dev/fb0`

type Config struct {
	Resizer resize.Resizer
	Logger  *slog.Logger
	// Integer restricts scaling to whole factors.
	Integer bool
}

type Display struct {
	dst     draw.Image
	src     present.Snapshotter
	cfg     Config
	sig     *present.Signal
	cleared bool
}

// New draws the frames of src onto dst, usually a *Device.
func New(dst draw.Image, src present.Snapshotter, cfg Config) (*Display, error) {
	if dst == nil || src == nil {
		return nil, errors.NilParam()
	}
	if cfg.Resizer == nil {
		cfg.Resizer = rdefault.Default()
	}
	return &Display{dst: dst, src: src, cfg: cfg, sig: present.NewSignal()}, nil
}

func (d *Display) Logger() *slog.Logger { return d.cfg.Logger }

// Redraw schedules a repaint. It never blocks.
func (d *Display) Redraw() { d.sig.Redraw() }

// Run repaints on every redraw request until ctx is done.
func (d *Display) Run(ctx context.Context) error {
	d.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.sig.C():
			d.draw()
		}
	}
}

func (d *Display) draw() {
	bounds := d.dst.Bounds()
	if !d.cleared {
		draw.Draw(d.dst, bounds, image.NewUniform(color.Black), image.Point{}, draw.Src)
		d.cleared = true
	}
	frame := d.src.Snapshot()
	size := present.Fit(frame.Bounds().Size(), bounds.Size(), d.cfg.Integer)
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	img, err := d.cfg.Resizer.Resize(frame, size)
	if err != nil {
		_ = logx.IsErr(err, d, slog.LevelError, `size`, size)
		return
	}
	at := bounds.Min.Add(present.Center(size, bounds.Size()))
	draw.Draw(d.dst, image.Rectangle{Min: at, Max: at.Add(size)}, img, img.Bounds().Min, draw.Src)
}
