// Package pngfile writes the framebuffer to a PNG file whenever it changes.
// It is the display surface for headless use.
package pngfile

import (
	"context"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/internal/logx"
	"github.com/srlehn/lcdpipe/present"
	"github.com/srlehn/lcdpipe/resize"
	"github.com/srlehn/lcdpipe/resize/rdefault"
)

const DefaultInterval = 200 * time.Millisecond

type Config struct {
	// Interval is the minimum time between two writes.
	Interval time.Duration
	// Scale multiplies the frame size. Values below 2 write the frame as is.
	Scale   int
	Resizer resize.Resizer
	Logger  *slog.Logger
}

type Writer struct {
	path string
	src  present.Snapshotter
	cfg  Config
	sig  *present.Signal

	written int
}

func New(path string, src present.Snapshotter, cfg Config) (*Writer, error) {
	if src == nil {
		return nil, errors.NilParam()
	}
	if path == `` {
		return nil, errors.New(`empty png path`)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Resizer == nil {
		cfg.Resizer = rdefault.Default()
	}
	return &Writer{path: path, src: src, cfg: cfg, sig: present.NewSignal()}, nil
}

func (w *Writer) Logger() *slog.Logger { return w.cfg.Logger }

func (w *Writer) Path() string { return w.path }

// Redraw schedules a write. It never blocks.
func (w *Writer) Redraw() { w.sig.Redraw() }

// Run writes the current frame once, then again after each redraw request,
// at most once per interval. The last frame is written when ctx is done.
func (w *Writer) Run(ctx context.Context) error {
	if err := w.write(); err != nil {
		return err
	}
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			if err := w.write(); err != nil {
				return errors.Join(ctx.Err(), err)
			}
			return ctx.Err()
		case <-w.sig.C():
		}
		if wait := w.cfg.Interval - time.Since(last); wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				continue
			case <-t.C:
			}
		}
		if err := w.write(); err != nil {
			_ = logx.IsErr(err, w, slog.LevelError, `path`, w.path)
		}
		last = time.Now()
	}
}

func (w *Writer) write() error {
	var img image.Image = w.src.Snapshot()
	if w.cfg.Scale > 1 {
		var err error
		img, err = w.cfg.Resizer.Resize(img, img.Bounds().Size().Mul(w.cfg.Scale))
		if err != nil {
			return err
		}
	}
	if err := WriteFile(w.path, img); err != nil {
		return err
	}
	w.written++
	logx.Debug(`frame written`, w, `path`, w.path, `count`, w.written)
	return nil
}

// WriteFile encodes img as PNG into a temporary file next to path and renames
// it into place so that readers never see a partial image.
func WriteFile(path string, img image.Image) error {
	if img == nil {
		return errors.NilParam()
	}
	f, err := os.CreateTemp(filepath.Dir(path), `.`+filepath.Base(path)+`.*`)
	if err != nil {
		return errors.New(err)
	}
	tmp := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.New(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return errors.New(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.New(err)
	}
	return nil
}
