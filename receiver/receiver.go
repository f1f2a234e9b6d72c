// Package receiver assembles the framebuffer, the ingest loop, the
// dispatcher and a display surface into one runnable unit.
package receiver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/srlehn/lcdpipe/dispatch"
	"github.com/srlehn/lcdpipe/framebuffer"
	"github.com/srlehn/lcdpipe/ingest"
	"github.com/srlehn/lcdpipe/internal"
	"github.com/srlehn/lcdpipe/internal/consts"
	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/internal/logx"
	"github.com/srlehn/lcdpipe/internal/metrics"
	"github.com/srlehn/lcdpipe/present"
	"github.com/srlehn/lcdpipe/proto"
	"github.com/srlehn/lcdpipe/transport"
)

const DefaultQueueSize = 1024

// Presenter shows the framebuffer. Redraw must not block. Run returns when
// ctx is done or when the user asks to quit (consts.ErrQuit).
type Presenter interface {
	dispatch.Notifier
	Run(ctx context.Context) error
}

// PresenterProvider builds the presenter once the framebuffer exists. status
// describes the receiver in a single line.
type PresenterProvider func(src present.Snapshotter, logger *slog.Logger, status func() string) (Presenter, error)

type Receiver struct {
	width, height int
	queueSize     int
	logger        *slog.Logger

	fifoPath   string
	fifoCreate bool
	opener     ingest.Opener

	presenterProv PresenterProvider
	backoffMin    time.Duration
	backoffMax    time.Duration
	metrics       *metrics.Collector
	metricsAddr   string

	fb         *framebuffer.Framebuffer
	queue      chan proto.Command
	loop       *ingest.Loop
	dispatcher *dispatch.Dispatcher
	presenter  Presenter
	closer     internal.Closer
	started    atomic.Bool
}

func New(opts ...Option) (*Receiver, error) {
	r := &Receiver{
		width:     framebuffer.DefaultWidth,
		height:    framebuffer.DefaultHeight,
		queueSize: DefaultQueueSize,
		closer:    internal.NewCloser(),
	}
	if err := r.SetOptions(opts...); err != nil {
		_ = r.Close()
		return nil, err
	}
	if err := r.init(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Receiver) init() error {
	if r.opener == nil {
		if len(r.fifoPath) == 0 {
			return errors.New(`no transport: neither pipe path nor opener set`)
		}
		r.opener = transport.NewFIFO(r.fifoPath, r.fifoCreate, r.logger)
	}
	fb, err := framebuffer.New(r.width, r.height)
	if err != nil {
		return err
	}
	r.fb = fb
	r.queue = make(chan proto.Command, r.queueSize)
	r.metrics.RegisterQueue(func() int { return len(r.queue) })

	if r.presenterProv != nil {
		r.presenter, err = r.presenterProv(fb, r.logger, r.Status)
		if err != nil {
			return err
		}
		if r.presenter == nil {
			return errors.New(`presenter provider returned nil`)
		}
	}
	var notifier dispatch.Notifier
	if r.presenter != nil {
		notifier = r.presenter
	}
	r.dispatcher, err = dispatch.New(fb, dispatch.Config{
		Notifier: notifier,
		Logger:   r.logger,
		Metrics:  r.metrics,
	})
	if err != nil {
		return err
	}
	r.loop, err = ingest.New(r.opener, r.queue, ingest.Config{
		Logger:     r.logger,
		Metrics:    r.metrics,
		BackoffMin: r.backoffMin,
		BackoffMax: r.backoffMax,
		OnStateChange: func(s ingest.State) {
			logx.Debug(`ingest state`, r, `state`, s)
			if notifier != nil {
				notifier.Redraw()
			}
		},
	})
	return err
}

func (r *Receiver) Logger() *slog.Logger { return r.logger }

func (r *Receiver) Framebuffer() *framebuffer.Framebuffer { return r.fb }

func (r *Receiver) Metrics() *metrics.Collector { return r.metrics }

// Status describes the receiver in a single line.
func (r *Receiver) Status() string {
	if r == nil || r.loop == nil {
		return ``
	}
	lines, decodeErrors, _ := r.loop.Stats()
	_, failed := r.dispatcher.Stats()
	return fmt.Sprintf(`%s %dx%d  %s  lines:%d rejected:%d refused:%d  q:quit`,
		consts.LibraryName, r.width, r.height, r.loop.State(), lines, decodeErrors, failed)
}

// Run starts ingest, dispatch, the presenter and the metrics endpoint and
// blocks until ctx is done or the presenter quits. Both count as a regular
// shutdown and return nil. Commands already queued are applied before Run
// returns. Run can only be called once.
func (r *Receiver) Run(ctx context.Context) error {
	if r == nil || r.loop == nil {
		return errors.NilReceiver()
	}
	if r.started.Swap(true) {
		return errors.New(`receiver already started`)
	}
	logx.Info(`receiver started`, r, `size`, fmt.Sprintf(`%dx%d`, r.width, r.height), `queue`, r.queueSize)

	g, gctx := errgroup.WithContext(ctx)
	// the presenter outlives the dispatcher so that it shows the drained queue
	presentCtx, stopPresenter := context.WithCancel(context.WithoutCancel(ctx))
	defer stopPresenter()
	g.Go(func() error { return r.loop.Run(gctx) })
	g.Go(func() error {
		r.dispatcher.Run(r.queue)
		stopPresenter()
		return nil
	})
	if r.presenter != nil {
		g.Go(func() error {
			if err := r.presenter.Run(presentCtx); err != nil {
				return err
			}
			// surface closed without error
			return errors.New(consts.ErrQuit)
		})
	}
	if len(r.metricsAddr) > 0 {
		r.serveMetrics(gctx, g)
	}

	err := g.Wait()
	applied, failed := r.dispatcher.Stats()
	logx.Info(`receiver stopped`, r, `applied`, applied, `refused`, failed)
	if errors.Is(err, context.Canceled) || errors.Is(err, consts.ErrQuit) {
		return nil
	}
	return err
}

func (r *Receiver) serveMetrics(ctx context.Context, g *errgroup.Group) {
	mux := http.NewServeMux()
	mux.Handle(`/metrics`, r.metrics.Handler())
	srv := &http.Server{
		Addr:              r.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		logx.Info(`serving metrics`, r, `addr`, r.metricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.New(err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// Close releases resources acquired by options, such as the log file.
func (r *Receiver) Close() error {
	if r == nil {
		return nil
	}
	return r.closer.Close()
}
