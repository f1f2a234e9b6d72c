// Package dispatch applies decoded commands to the framebuffer. The
// dispatcher is the only writer of the framebuffer.
package dispatch

import (
	"log/slog"
	"sync/atomic"

	"github.com/srlehn/lcdpipe/framebuffer"
	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/internal/logx"
	"github.com/srlehn/lcdpipe/internal/metrics"
	"github.com/srlehn/lcdpipe/proto"
)

// Notifier is told that the framebuffer changed. Redraw must not block.
type Notifier interface {
	Redraw()
}

var _ Notifier = (NotifierFunc)(nil)

type NotifierFunc func()

func (f NotifierFunc) Redraw() { f() }

type Config struct {
	Notifier Notifier
	Logger   *slog.Logger
	Metrics  *metrics.Collector
}

type Dispatcher struct {
	fb  *framebuffer.Framebuffer
	cfg Config

	applied atomic.Uint64
	failed  atomic.Uint64
}

func New(fb *framebuffer.Framebuffer, cfg Config) (*Dispatcher, error) {
	if fb == nil {
		return nil, errors.NilParam()
	}
	return &Dispatcher{fb: fb, cfg: cfg}, nil
}

func (d *Dispatcher) Logger() *slog.Logger { return d.cfg.Logger }

// Stats returns the number of commands applied and refused.
func (d *Dispatcher) Stats() (applied, failed uint64) {
	return d.applied.Load(), d.failed.Load()
}

// Run applies commands in arrival order until in is closed. Commands still
// queued when the producer closes in are applied before Run returns.
func (d *Dispatcher) Run(in <-chan proto.Command) {
	for cmd := range in {
		if err := d.Apply(cmd); err != nil {
			logx.Warn(`command refused`, d, `command`, cmd, `err`, err)
		}
	}
	logx.Debug(`dispatcher stopped`, d, `applied`, d.applied.Load(), `failed`, d.failed.Load())
}

// Apply performs a single command and signals the notifier on success.
func (d *Dispatcher) Apply(cmd proto.Command) error {
	if err := d.fb.Apply(cmd); err != nil {
		d.failed.Add(1)
		d.cfg.Metrics.ApplyError(framebuffer.ErrorKind(err))
		return err
	}
	d.applied.Add(1)
	d.cfg.Metrics.Command(cmd.Keyword())
	if d.cfg.Notifier != nil {
		d.cfg.Notifier.Redraw()
	}
	return nil
}
