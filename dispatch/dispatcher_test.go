package dispatch_test

import (
	"context"
	"fmt"
	"image"
	"io"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/lcdpipe/dispatch"
	"github.com/srlehn/lcdpipe/framebuffer"
	"github.com/srlehn/lcdpipe/ingest"
	"github.com/srlehn/lcdpipe/proto"
)

func TestApplyNotifiesOnSuccessOnly(t *testing.T) {
	fb, err := framebuffer.New(8, 8)
	require.NoError(t, err)
	var redraws atomic.Int32
	d, err := dispatch.New(fb, dispatch.Config{Notifier: dispatch.NotifierFunc(func() { redraws.Add(1) })})
	require.NoError(t, err)

	require.NoError(t, d.Apply(proto.SetPixel{P: image.Pt(1, 1), Color: proto.Red}))
	err = d.Apply(proto.SetPixel{P: image.Pt(9, 1), Color: proto.Red})
	assert.ErrorIs(t, err, framebuffer.ErrOutOfBounds)
	err = d.Apply(proto.BlitBitmap{P1: image.Pt(0, 0), P2: image.Pt(7, 7), Bits: []byte{0xFF}})
	assert.ErrorIs(t, err, framebuffer.ErrInsufficientBitmapData)

	assert.Equal(t, int32(1), redraws.Load())
	applied, failed := d.Stats()
	assert.Equal(t, uint64(1), applied)
	assert.Equal(t, uint64(2), failed)
}

func TestRunContinuesAfterFailureAndDrains(t *testing.T) {
	fb, err := framebuffer.New(8, 8)
	require.NoError(t, err)
	d, err := dispatch.New(fb, dispatch.Config{})
	require.NoError(t, err)

	in := make(chan proto.Command, 8)
	in <- proto.FillBox{P1: image.Pt(0, 0), P2: image.Pt(7, 7), Color: proto.Blue}
	in <- proto.SetPixel{P: image.Pt(-1, 0), Color: proto.Red} // refused
	in <- proto.SetPixel{P: image.Pt(3, 3), Color: proto.Red}
	close(in)

	d.Run(in)
	assert.Equal(t, proto.Red, fb.Pixel(image.Pt(3, 3)))
	assert.Equal(t, proto.Blue, fb.Pixel(image.Pt(0, 0)))
	applied, failed := d.Stats()
	assert.Equal(t, uint64(2), applied)
	assert.Equal(t, uint64(1), failed)
}

func randomScript(r *rand.Rand, n, w, h int) []string {
	lines := make([]string, 0, n)
	for i := range n {
		switch r.Intn(4) {
		case 0:
			lines = append(lines, fmt.Sprintf(`plot %d %d 0x%06x`, r.Intn(w), r.Intn(h), r.Intn(1<<24)))
		case 1:
			x, y := r.Intn(w), r.Intn(h)
			lines = append(lines, fmt.Sprintf(`box %d %d %d %d 0x%06x`, x, x+r.Intn(8), y, y+r.Intn(8), r.Intn(1<<24)))
		case 2:
			x, y := r.Intn(w), r.Intn(h)
			lines = append(lines, fmt.Sprintf(`bitmap %d %d %d %d 0x%06x 0x%06x %02X%02X`, x, x+3, y, y+3, r.Intn(1<<24), r.Intn(1<<24), r.Intn(256), r.Intn(256)))
		default:
			if i%50 == 0 {
				lines = append(lines, `reset`)
			} else {
				lines = append(lines, fmt.Sprintf(`plot 0x%x 0%o 0x%06x`, r.Intn(w), r.Intn(h), r.Intn(1<<24)))
			}
		}
	}
	return lines
}

// The final frame depends only on the command sequence, not on how the
// ingest and dispatch goroutines interleave.
func TestPipelineDeterministic(t *testing.T) {
	const w, h = 32, 24
	script := randomScript(rand.New(rand.NewSource(1)), 500, w, h)

	// sequential reference
	ref, err := framebuffer.New(w, h)
	require.NoError(t, err)
	for _, line := range script {
		cmd, err := proto.Decode(line)
		require.NoError(t, err)
		_ = ref.Apply(cmd)
	}

	for _, queueSize := range []int{0, 1, 7, 1024} {
		t.Run(fmt.Sprintf(`queue_%d`, queueSize), func(t *testing.T) {
			fb, err := framebuffer.New(w, h)
			require.NoError(t, err)
			d, err := dispatch.New(fb, dispatch.Config{})
			require.NoError(t, err)

			var served atomic.Bool
			opener := ingest.OpenerFunc(func(ctx context.Context) (io.ReadCloser, error) {
				if served.Swap(true) {
					<-ctx.Done()
					return nil, ctx.Err()
				}
				return io.NopCloser(strings.NewReader(strings.Join(script, "\n") + "\n")), nil
			})
			queue := make(chan proto.Command, queueSize)
			loop, err := ingest.New(opener, queue, ingest.Config{})
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			loopErr := make(chan error, 1)
			go func() { loopErr <- loop.Run(ctx) }()
			dispDone := make(chan struct{})
			go func() { d.Run(queue); close(dispDone) }()

			require.Eventually(t, func() bool {
				applied, failed := d.Stats()
				return applied+failed == uint64(len(script))
			}, 5*time.Second, 5*time.Millisecond)
			cancel()
			<-loopErr
			<-dispDone

			assert.Equal(t, ref.Snapshot().Pix, fb.Snapshot().Pix)
		})
	}
}
