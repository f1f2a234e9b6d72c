package framebuffer_test

import (
	"image"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/lcdpipe/framebuffer"
	"github.com/srlehn/lcdpipe/proto"
)

func newFB(t *testing.T, w, h int) *framebuffer.Framebuffer {
	t.Helper()
	fb, err := framebuffer.New(w, h)
	require.NoError(t, err)
	return fb
}

// assertOnly checks that exactly the pixels inside want have colour c and
// every other pixel is black.
func assertOnly(t *testing.T, fb *framebuffer.Framebuffer, want image.Rectangle, c proto.Color) {
	t.Helper()
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			p := image.Pt(x, y)
			if p.In(want) {
				require.Equal(t, c, fb.Pixel(p), "pixel %v", p)
			} else {
				require.Equal(t, proto.Black, fb.Pixel(p), "pixel %v", p)
			}
		}
	}
}

func TestNew(t *testing.T) {
	fb := newFB(t, framebuffer.DefaultWidth, framebuffer.DefaultHeight)
	assert.Equal(t, image.Rect(0, 0, 272, 480), fb.Bounds())
	assertOnly(t, fb, image.Rectangle{}, proto.Black)

	_, err := framebuffer.New(0, 10)
	assert.ErrorIs(t, err, framebuffer.ErrInvalidSize)
	_, err = framebuffer.New(10, -1)
	assert.ErrorIs(t, err, framebuffer.ErrInvalidSize)
}

func TestClear(t *testing.T) {
	fb := newFB(t, 16, 16)
	fb.FillBox(image.Pt(0, 0), image.Pt(15, 15), proto.White)
	require.NoError(t, fb.SetPixel(image.Pt(3, 3), proto.Red))
	fb.Clear()
	assertOnly(t, fb, image.Rectangle{}, proto.Black)
}

func TestSetPixel(t *testing.T) {
	fb := newFB(t, 32, 32)
	red := proto.Color{R: 255}
	require.NoError(t, fb.SetPixel(image.Pt(16, 20), red))
	assertOnly(t, fb, image.Rect(16, 20, 17, 21), red)
}

func TestSetPixelOutOfBounds(t *testing.T) {
	fb := newFB(t, 8, 8)
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, 100}} {
		err := fb.SetPixel(p, proto.White)
		assert.ErrorIs(t, err, framebuffer.ErrOutOfBounds, "%v", p)
		var applyErr *framebuffer.ApplyError
		assert.ErrorAs(t, err, &applyErr)
	}
	assertOnly(t, fb, image.Rectangle{}, proto.Black)
}

func TestFillBox(t *testing.T) {
	fb := newFB(t, 32, 32)
	green := proto.Color{G: 255}
	fb.FillBox(image.Pt(0, 0), image.Pt(9, 9), green)
	assertOnly(t, fb, image.Rect(0, 0, 10, 10), green)
}

func TestFillBoxInvertedIsNoop(t *testing.T) {
	fb := newFB(t, 16, 16)
	fb.FillBox(image.Pt(5, 5), image.Pt(4, 9), proto.White)
	fb.FillBox(image.Pt(5, 5), image.Pt(9, 4), proto.White)
	assertOnly(t, fb, image.Rectangle{}, proto.Black)
}

func TestFillBoxClips(t *testing.T) {
	fb := newFB(t, 16, 16)
	fb.FillBox(image.Pt(-5, 12), image.Pt(3, 40), proto.Cyan)
	assertOnly(t, fb, image.Rect(0, 12, 4, 16), proto.Cyan)

	fb.Clear()
	fb.FillBox(image.Pt(20, 20), image.Pt(30, 30), proto.Cyan)
	assertOnly(t, fb, image.Rectangle{}, proto.Black)
}

func TestBlitBitmapAllForeground(t *testing.T) {
	fb := newFB(t, 16, 16)
	require.NoError(t, fb.BlitBitmap(image.Pt(0, 0), image.Pt(7, 0), proto.White, proto.Black, []byte{0xFF}))
	assertOnly(t, fb, image.Rect(0, 0, 8, 1), proto.White)
}

func TestBlitBitmapOrder(t *testing.T) {
	fb := newFB(t, 8, 8)
	fb.FillBox(image.Pt(0, 0), image.Pt(7, 7), proto.Blue)
	// 3x3 at (2,2): bits 101 010 110 (+ padding)
	bits := []byte{0b10101011, 0b00000000}
	require.NoError(t, fb.BlitBitmap(image.Pt(2, 2), image.Pt(4, 4), proto.White, proto.Red, bits))

	want := [3][3]proto.Color{
		{proto.White, proto.Red, proto.White},
		{proto.Red, proto.White, proto.Red},
		{proto.White, proto.White, proto.Red},
	}
	for dy := range 3 {
		for dx := range 3 {
			assert.Equal(t, want[dy][dx], fb.Pixel(image.Pt(2+dx, 2+dy)), "cell %d,%d", dx, dy)
		}
	}
	// outside untouched
	assert.Equal(t, proto.Blue, fb.Pixel(image.Pt(1, 2)))
	assert.Equal(t, proto.Blue, fb.Pixel(image.Pt(5, 4)))
	assert.Equal(t, proto.Blue, fb.Pixel(image.Pt(2, 5)))
}

func TestBlitBitmapInsufficientData(t *testing.T) {
	fb := newFB(t, 16, 16)
	fb.FillBox(image.Pt(0, 0), image.Pt(15, 15), proto.Grey)
	before := fb.Snapshot()

	// 4x4 = 16 bits, only 8 supplied
	err := fb.BlitBitmap(image.Pt(2, 2), image.Pt(5, 5), proto.White, proto.Black, []byte{0xFF})
	require.ErrorIs(t, err, framebuffer.ErrInsufficientBitmapData)
	assert.Equal(t, `insufficient_bitmap_data`, framebuffer.ErrorKind(err))
	assert.Equal(t, before.Pix, fb.Snapshot().Pix)
}

func TestBlitBitmapHugeRectangle(t *testing.T) {
	fb := newFB(t, 16, 16)
	lo, hi := image.Pt(math.MinInt32, math.MinInt32), image.Pt(math.MaxInt32, math.MaxInt32)
	// 2^32 * 2^32 cells wrap a 64 bit product to zero
	var err error
	require.NotPanics(t, func() { err = fb.BlitBitmap(lo, hi, proto.White, proto.Red, nil) })
	require.ErrorIs(t, err, framebuffer.ErrInsufficientBitmapData)
	require.NotPanics(t, func() { err = fb.BlitBitmap(lo, hi, proto.White, proto.Red, []byte{0xFF}) })
	require.ErrorIs(t, err, framebuffer.ErrInsufficientBitmapData)
	assertOnly(t, fb, image.Rectangle{}, proto.Black)

	cmd, err := proto.Decode(`bitmap -2147483648 2147483647 -2147483648 2147483647 0 0 FF`)
	require.NoError(t, err)
	require.NotPanics(t, func() { err = fb.Apply(cmd) })
	assert.ErrorIs(t, err, framebuffer.ErrInsufficientBitmapData)
}

func TestFillBoxToLargestCoordinate(t *testing.T) {
	fb := newFB(t, 4, 4)
	fb.FillBox(image.Pt(2, 2), image.Pt(math.MaxInt32, math.MaxInt32), proto.Cyan)
	assertOnly(t, fb, image.Rect(2, 2, 4, 4), proto.Cyan)
}

func TestBlitBitmapClipsAndConsumesHiddenBits(t *testing.T) {
	fb := newFB(t, 4, 4)
	// 4 wide starting at x=-2: per row bits for x=-2,-1 are skipped.
	// row 0: 0011 row 1: 1100
	bits := []byte{0b00111100}
	require.NoError(t, fb.BlitBitmap(image.Pt(-2, 0), image.Pt(1, 1), proto.White, proto.Red, bits))
	assert.Equal(t, proto.White, fb.Pixel(image.Pt(0, 0)))
	assert.Equal(t, proto.White, fb.Pixel(image.Pt(1, 0)))
	assert.Equal(t, proto.Red, fb.Pixel(image.Pt(0, 1)))
	assert.Equal(t, proto.Red, fb.Pixel(image.Pt(1, 1)))
	assert.Equal(t, proto.Black, fb.Pixel(image.Pt(2, 0)))
}

func TestBlitBitmapSurplusBitsIgnored(t *testing.T) {
	fb := newFB(t, 4, 4)
	require.NoError(t, fb.BlitBitmap(image.Pt(0, 0), image.Pt(1, 0), proto.White, proto.Red, []byte{0x80, 0xFF, 0xFF}))
	assert.Equal(t, proto.White, fb.Pixel(image.Pt(0, 0)))
	assert.Equal(t, proto.Red, fb.Pixel(image.Pt(1, 0)))
	assert.Equal(t, proto.Black, fb.Pixel(image.Pt(2, 0)))
}

func TestApplyDecoded(t *testing.T) {
	fb := newFB(t, framebuffer.DefaultWidth, framebuffer.DefaultHeight)
	for _, line := range []string{
		`box 0 271 0 479 0xFFFFFF`,
		`reset`,
		`plot 0x10 0x14 0xFF0000`,
	} {
		cmd, err := proto.Decode(line)
		require.NoError(t, err)
		require.NoError(t, fb.Apply(cmd))
	}
	assertOnly(t, fb, image.Rect(16, 20, 17, 21), proto.Color{R: 255})
	assert.Error(t, fb.Apply(nil))
}

func TestSnapshotIsCopy(t *testing.T) {
	fb := newFB(t, 4, 2)
	require.NoError(t, fb.SetPixel(image.Pt(1, 1), proto.Color{R: 1, G: 2, B: 3}))
	snap := fb.Snapshot()
	assert.Equal(t, fb.Bounds(), snap.Bounds())
	assert.Equal(t, []uint8{1, 2, 3, 0xFF}, snap.Pix[snap.PixOffset(1, 1):snap.PixOffset(1, 1)+4])

	fb.Clear()
	assert.Equal(t, uint8(1), snap.Pix[snap.PixOffset(1, 1)])
}

func TestSnapshotNeverTorn(t *testing.T) {
	fb := newFB(t, 64, 64)
	colors := []proto.Color{proto.Red, proto.Green}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 200 {
			fb.FillBox(image.Pt(0, 0), image.Pt(63, 63), colors[i%2])
		}
	}()
	for range 200 {
		snap := fb.Snapshot()
		first := [3]uint8{snap.Pix[0], snap.Pix[1], snap.Pix[2]}
		for i := 0; i < len(snap.Pix); i += 4 {
			if [3]uint8{snap.Pix[i], snap.Pix[i+1], snap.Pix[i+2]} != first {
				t.Fatalf("torn snapshot at byte %d", i)
			}
		}
	}
	wg.Wait()
}
