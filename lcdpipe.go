// Package lcdpipe emulates a small colour LCD panel that is driven by text
// commands written to a named pipe.
package lcdpipe

import (
	"context"
	"log/slog"

	"github.com/srlehn/lcdpipe/framebuffer"
	"github.com/srlehn/lcdpipe/ingest"
	"github.com/srlehn/lcdpipe/present"
	"github.com/srlehn/lcdpipe/present/fbdev"
	"github.com/srlehn/lcdpipe/present/pngfile"
	"github.com/srlehn/lcdpipe/present/screen"
	"github.com/srlehn/lcdpipe/receiver"
)

var (
	// chosen defaults
	DefaultConfig = receiver.Options{
		receiver.SetSize(framebuffer.DefaultWidth, framebuffer.DefaultHeight),
		receiver.SetQueueSize(receiver.DefaultQueueSize),
		receiver.SetBackoff(ingest.DefaultBackoffMin, ingest.DefaultBackoffMax),
	}
)

// Run shows the panel in the terminal and reads commands from the named pipe
// at fifoPath, creating it if needed, until ctx is done or the user quits.
func Run(ctx context.Context, fifoPath string, opts ...receiver.Option) error {
	opts = append([]receiver.Option{
		DefaultConfig,
		receiver.SetFIFO(fifoPath, true),
		receiver.SetPresenter(Screen(screen.Config{})),
	}, opts...)
	r, err := receiver.New(opts...)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Run(ctx)
}

// Screen presents the panel in the terminal.
func Screen(cfg screen.Config) receiver.PresenterProvider {
	return func(src present.Snapshotter, logger *slog.Logger, status func() string) (receiver.Presenter, error) {
		if cfg.Logger == nil {
			cfg.Logger = logger
		}
		if cfg.Status == nil {
			cfg.Status = status
		}
		return screen.New(src, cfg)
	}
}

// PNG writes the panel to a PNG file instead of showing it.
func PNG(path string, cfg pngfile.Config) receiver.PresenterProvider {
	return func(src present.Snapshotter, logger *slog.Logger, _ func() string) (receiver.Presenter, error) {
		if cfg.Logger == nil {
			cfg.Logger = logger
		}
		return pngfile.New(path, src, cfg)
	}
}

// FBDev draws the panel on a linux framebuffer device.
func FBDev(dev string, cfg fbdev.Config) receiver.PresenterProvider {
	return func(src present.Snapshotter, logger *slog.Logger, _ func() string) (receiver.Presenter, error) {
		if cfg.Logger == nil {
			cfg.Logger = logger
		}
		if len(dev) == 0 {
			dev = fbdev.DefaultDevice
		}
		d, err := fbdev.Open(dev)
		if err != nil {
			return nil, err
		}
		disp, err := fbdev.New(d, src, cfg)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		return &deviceDisplay{Display: disp, dev: d}, nil
	}
}

// deviceDisplay unmaps the device when the display stops.
type deviceDisplay struct {
	*fbdev.Display
	dev *fbdev.Device
}

func (d *deviceDisplay) Run(ctx context.Context) error {
	defer d.dev.Close()
	return d.Display.Run(ctx)
}
