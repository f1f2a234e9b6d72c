package receiver_test

import (
	"context"
	"image"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/lcdpipe/internal/consts"
	"github.com/srlehn/lcdpipe/internal/metrics"
	"github.com/srlehn/lcdpipe/present"
	"github.com/srlehn/lcdpipe/proto"
	"github.com/srlehn/lcdpipe/receiver"
)

// onceOpener serves src once and then blocks until ctx is done.
func onceOpener(src string) receiver.Option {
	var served atomic.Bool
	return receiver.SetOpener(ingestFunc(func(ctx context.Context) (io.ReadCloser, error) {
		if served.Swap(true) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return io.NopCloser(strings.NewReader(src)), nil
	}))
}

type ingestFunc func(ctx context.Context) (io.ReadCloser, error)

func (f ingestFunc) Open(ctx context.Context) (io.ReadCloser, error) { return f(ctx) }

type fakePresenter struct {
	redraws atomic.Int32
	quit    chan struct{}
	status  func() string
}

func (p *fakePresenter) Redraw() { p.redraws.Add(1) }

func (p *fakePresenter) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return consts.ErrQuit
	}
}

func TestReceiverAppliesCommands(t *testing.T) {
	col := metrics.New()
	p := &fakePresenter{quit: make(chan struct{})}
	r, err := receiver.New(
		receiver.SetSize(16, 8),
		receiver.SetQueueSize(4),
		onceOpener("reset\nbox 0 15 0 7 0x0000FF\nplot 3 3 0xFF0000\nnonsense\nplot 99 0 0xFF0000\n"),
		receiver.SetPresenter(func(src present.Snapshotter, _ *slog.Logger, status func() string) (receiver.Presenter, error) {
			p.status = status
			return p, nil
		}),
		receiver.SetMetrics(col, ``),
	)
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		return r.Framebuffer().Pixel(image.Pt(3, 3)) == proto.Red
	}, 5*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		n, err := testutil.GatherAndCount(col.Registry(), `lcdpipe_apply_errors_total`)
		return err == nil && n == 1
	}, 5*time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)

	assert.Equal(t, proto.Blue, r.Framebuffer().Pixel(image.Pt(0, 0)))
	assert.GreaterOrEqual(t, p.redraws.Load(), int32(3))
	assert.Contains(t, p.status(), `16x8`)
	assert.Contains(t, p.status(), `rejected:1`)
}

func TestReceiverQuitIsCleanShutdown(t *testing.T) {
	p := &fakePresenter{quit: make(chan struct{})}
	r, err := receiver.New(
		onceOpener(``),
		receiver.SetPresenter(func(present.Snapshotter, *slog.Logger, func() string) (receiver.Presenter, error) {
			return p, nil
		}),
	)
	require.NoError(t, err)
	defer r.Close()

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()
	close(p.quit)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal(`receiver did not stop`)
	}
	assert.Error(t, r.Run(context.Background()), `second Run must fail`)
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := receiver.New()
	assert.Error(t, err, `transport required`)
	_, err = receiver.New(onceOpener(``), receiver.SetSize(0, 10))
	assert.Error(t, err)
	_, err = receiver.New(onceOpener(``), receiver.SetQueueSize(-1))
	assert.Error(t, err)

	r, err := receiver.New(receiver.Options{onceOpener(``), receiver.SetSize(8, 4)})
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, image.Rect(0, 0, 8, 4), r.Framebuffer().Bounds())
}

func TestReceiversShareCollector(t *testing.T) {
	col := metrics.New()
	for range 2 {
		var (
			r   *receiver.Receiver
			err error
		)
		require.NotPanics(t, func() {
			r, err = receiver.New(onceOpener(``), receiver.SetSize(4, 4), receiver.SetMetrics(col, ``))
		})
		require.NoError(t, err)
		require.NoError(t, r.Close())
	}
	n, err := testutil.GatherAndCount(col.Registry(), `lcdpipe_queue_depth`)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
