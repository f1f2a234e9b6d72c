package receiver

import (
	"log/slog"
	"os"
	"time"

	"github.com/srlehn/lcdpipe/ingest"
	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/internal/logx"
	"github.com/srlehn/lcdpipe/internal/metrics"
	"github.com/srlehn/lcdpipe/transport"
)

type Option interface {
	ApplyOption(r *Receiver) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Receiver) error

func (o OptFunc) ApplyOption(r *Receiver) error { return o(r) }

var _ Option = (Options)(nil)

type Options []Option

func (o Options) ApplyOption(r *Receiver) error { return r.SetOptions([]Option(o)...) }

func (r *Receiver) SetOptions(opts ...Option) error {
	if r == nil {
		return errors.NilReceiver()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(r); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

// SetSize sets the framebuffer dimensions in pixels.
func SetSize(width, height int) Option {
	return OptFunc(func(r *Receiver) error {
		if width <= 0 || height <= 0 {
			return errors.Errorf(`invalid framebuffer size %dx%d`, width, height)
		}
		r.width, r.height = width, height
		return nil
	})
}

// SetQueueSize sets the capacity of the queue between ingest and dispatch.
// 0 makes every hand-off synchronous.
func SetQueueSize(n int) Option {
	return OptFunc(func(r *Receiver) error {
		if n < 0 {
			return errors.Errorf(`invalid queue size %d`, n)
		}
		r.queueSize = n
		return nil
	})
}

func SetSLogger(logger *slog.Logger) Option {
	return OptFunc(func(r *Receiver) error {
		r.logger = logger
		return nil
	})
}

// SetLogFile logs to the file at path, appending. The file is closed by
// Receiver.Close.
func SetLogFile(path string, lvl slog.Level) Option {
	return OptFunc(func(r *Receiver) error {
		if len(path) == 0 {
			return nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.New(err)
		}
		r.closer.AddClosers(f)
		r.logger = slog.New(logx.NewHandler(f, lvl))
		return nil
	})
}

// SetFIFO reads from the named pipe at path. With create set a missing pipe
// is created, otherwise the receiver waits for it to appear.
func SetFIFO(path string, create bool) Option {
	return OptFunc(func(r *Receiver) error {
		if len(path) == 0 {
			return errors.New(`empty pipe path`)
		}
		r.fifoPath, r.fifoCreate = path, create
		r.opener = nil
		return nil
	})
}

// SetOpener replaces the named pipe with an arbitrary transport.
func SetOpener(op ingest.Opener) Option {
	return OptFunc(func(r *Receiver) error {
		if op == nil {
			return errors.NilParam()
		}
		r.opener = op
		r.fifoPath = ``
		return nil
	})
}

// SetPresenter sets the display surface. Without one the receiver runs
// headless and only keeps the framebuffer.
func SetPresenter(prov PresenterProvider) Option {
	return OptFunc(func(r *Receiver) error {
		r.presenterProv = prov
		return nil
	})
}

func SetBackoff(minDelay, maxDelay time.Duration) Option {
	return OptFunc(func(r *Receiver) error {
		if minDelay < 0 || maxDelay < 0 {
			return errors.New(`negative backoff`)
		}
		r.backoffMin, r.backoffMax = minDelay, maxDelay
		return nil
	})
}

// SetMetrics records metrics in c. A non-empty addr serves them over HTTP
// at /metrics.
func SetMetrics(c *metrics.Collector, addr string) Option {
	return OptFunc(func(r *Receiver) error {
		if c == nil && len(addr) > 0 {
			c = metrics.New()
		}
		r.metrics, r.metricsAddr = c, addr
		return nil
	})
}

var _ ingest.Opener = (*transport.FIFO)(nil)
