// Package ingest reads protocol lines from a transport and hands the
// decoded commands to the dispatcher, in order.
package ingest

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/internal/logx"
	"github.com/srlehn/lcdpipe/internal/metrics"
	"github.com/srlehn/lcdpipe/proto"
)

const (
	DefaultBackoffMin = 50 * time.Millisecond
	DefaultBackoffMax = 5 * time.Second
)

// Opener opens the transport for one connection cycle.
type Opener interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

var _ Opener = (OpenerFunc)(nil)

type OpenerFunc func(ctx context.Context) (io.ReadCloser, error)

func (f OpenerFunc) Open(ctx context.Context) (io.ReadCloser, error) { return f(ctx) }

type Config struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
	// backoff between failed opens, exponential from BackoffMin up to BackoffMax
	BackoffMin time.Duration
	BackoffMax time.Duration
	// OnStateChange is called from the loop goroutine on every transition.
	OnStateChange func(State)
}

// Loop is the single reader of the transport.
type Loop struct {
	opener Opener
	out    chan<- proto.Command
	cfg    Config
	state  atomic.Int32

	lines        atomic.Uint64
	decodeErrors atomic.Uint64
	reconnects   atomic.Uint64
}

// New returns a loop that pushes decoded commands to out. The loop owns
// out and closes it when Run returns.
func New(opener Opener, out chan<- proto.Command, cfg Config) (*Loop, error) {
	if opener == nil || out == nil {
		return nil, errors.NilParam()
	}
	if cfg.BackoffMin <= 0 {
		cfg.BackoffMin = DefaultBackoffMin
	}
	if cfg.BackoffMax < cfg.BackoffMin {
		cfg.BackoffMax = max(DefaultBackoffMax, cfg.BackoffMin)
	}
	l := &Loop{opener: opener, out: out, cfg: cfg}
	l.state.Store(-1)
	return l, nil
}

func (l *Loop) Logger() *slog.Logger { return l.cfg.Logger }

func (l *Loop) State() State { return State(l.state.Load()) }

// Stats returns the number of lines read, lines rejected by the decoder and
// reopens after end of stream.
func (l *Loop) Stats() (lines, decodeErrors, reconnects uint64) {
	return l.lines.Load(), l.decodeErrors.Load(), l.reconnects.Load()
}

// Run reads until ctx is done and then returns ctx.Err(). Transport and
// decode failures are logged and never end the loop.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.out)
	for {
		l.setState(Connecting)
		rc, err := l.connect(ctx)
		if err != nil {
			return err
		}
		l.setState(Streaming)
		n, err := l.stream(ctx, rc)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logx.IsErr(err, l, slog.LevelWarn, `state`, Streaming)
		}
		l.reconnects.Add(1)
		l.cfg.Metrics.Reconnect()
		logx.Debug(`end of stream, reopening`, l, `lines`, n)
		if n == 0 {
			// a source that ends without delivering anything would spin
			if err := sleep(ctx, l.cfg.BackoffMin); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) setState(s State) {
	if State(l.state.Swap(int32(s))) == s {
		return
	}
	l.cfg.Metrics.SetIngestState(int(s))
	if l.cfg.OnStateChange != nil {
		l.cfg.OnStateChange(s)
	}
}

func (l *Loop) connect(ctx context.Context) (io.ReadCloser, error) {
	backoff := retry.WithCappedDuration(l.cfg.BackoffMax, retry.NewExponential(l.cfg.BackoffMin))
	var rc io.ReadCloser
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		rc, err = l.opener.Open(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logx.IsErr(err, l, slog.LevelWarn, `state`, Connecting)
			return retry.RetryableError(err)
		}
		if rc == nil {
			return retry.RetryableError(errors.New(`opener returned nil reader`))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// stream reads lines until end of stream and returns the number of lines read.
func (l *Loop) stream(ctx context.Context, rc io.ReadCloser) (int, error) {
	// closing the source is the only way to interrupt a blocked read
	stop := context.AfterFunc(ctx, func() { _ = rc.Close() })
	defer func() {
		if stop() {
			_ = rc.Close()
		}
	}()

	rd := bufio.NewReader(rc)
	var n int
	for {
		line, readErr := rd.ReadString('\n')
		if len(line) > 0 {
			n++
			if err := l.handleLine(ctx, line); err != nil {
				return n, err
			}
		}
		if readErr == io.EOF {
			return n, nil
		}
		if readErr != nil {
			return n, errors.New(readErr)
		}
	}
}

func (l *Loop) handleLine(ctx context.Context, line string) error {
	if len(strings.TrimSpace(line)) == 0 {
		return nil
	}
	l.lines.Add(1)
	l.cfg.Metrics.Line()
	cmd, err := proto.Decode(line)
	if err != nil {
		l.decodeErrors.Add(1)
		l.cfg.Metrics.DecodeError(proto.ErrorKind(err))
		logx.Warn(`line rejected`, l, `err`, err)
		return nil
	}
	select {
	case l.out <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
