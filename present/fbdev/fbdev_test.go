package fbdev

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/lcdpipe/framebuffer"
	"github.com/srlehn/lcdpipe/proto"
)

func bgra32(w, h int) (fixedScreenInfo, variableScreenInfo) {
	return fixedScreenInfo{LineLength: uint32(4 * w)}, variableScreenInfo{
		XRes: uint32(w), YRes: uint32(h), BitsPerPixel: 32,
		Blue:   bitfield{Offset: 0, Length: 8},
		Green:  bitfield{Offset: 8, Length: 8},
		Red:    bitfield{Offset: 16, Length: 8},
		Transp: bitfield{Offset: 24, Length: 8},
	}
}

func rgb565(w, h int) (fixedScreenInfo, variableScreenInfo) {
	return fixedScreenInfo{LineLength: uint32(2 * w)}, variableScreenInfo{
		XRes: uint32(w), YRes: uint32(h), BitsPerPixel: 16,
		Blue:  bitfield{Offset: 0, Length: 5},
		Green: bitfield{Offset: 5, Length: 6},
		Red:   bitfield{Offset: 11, Length: 5},
	}
}

func TestDeviceBGRA(t *testing.T) {
	finfo, vinfo := bgra32(4, 2)
	d, err := newDevice(make([]byte, 4*4*2), finfo, vinfo)
	require.NoError(t, err)

	d.Set(1, 1, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF})
	off := 1*4 + 1*16
	assert.Equal(t, []byte{0x56, 0x34, 0x12, 0xFF}, d.data[off:off+4])
	assert.Equal(t, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF}, d.At(1, 1))
}

func TestDeviceRGB565(t *testing.T) {
	finfo, vinfo := rgb565(2, 2)
	d, err := newDevice(make([]byte, 2*2*2), finfo, vinfo)
	require.NoError(t, err)

	d.Set(0, 1, color.NRGBA{R: 0xFF, A: 0xFF})
	assert.Equal(t, []byte{0x00, 0xF8}, d.data[4:6])
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 0xFF}, d.At(0, 1))

	d.Set(1, 1, color.NRGBA{G: 0xFF, B: 0xFF, A: 0xFF})
	assert.Equal(t, color.NRGBA{G: 0xFF, B: 0xFF, A: 0xFF}, d.At(1, 1))
}

func TestDeviceRejects(t *testing.T) {
	finfo, vinfo := bgra32(4, 4)
	_, err := newDevice(make([]byte, 8), finfo, vinfo)
	assert.Error(t, err)
	vinfo.BitsPerPixel = 8
	_, err = newDevice(make([]byte, 64), finfo, vinfo)
	assert.Error(t, err)
}

func TestDisplayDrawsCentered(t *testing.T) {
	fb, err := framebuffer.New(2, 2)
	require.NoError(t, err)
	fb.FillBox(image.Pt(0, 0), image.Pt(1, 1), proto.Red)

	finfo, vinfo := bgra32(8, 4)
	dev, err := newDevice(make([]byte, 8*4*4), finfo, vinfo)
	require.NoError(t, err)
	disp, err := New(dev, fb, Config{Integer: true})
	require.NoError(t, err)

	disp.draw()

	// 2x2 scaled by 2 is 4x4, centered in 8x4 at x=2
	assert.Equal(t, proto.Black, proto.ColorFromStd(dev.At(1, 0)))
	assert.Equal(t, proto.Red, proto.ColorFromStd(dev.At(5, 3)))
	assert.Equal(t, proto.Black, proto.ColorFromStd(dev.At(6, 3)))
}

func TestDisplayRunStopsOnCancel(t *testing.T) {
	fb, err := framebuffer.New(2, 2)
	require.NoError(t, err)
	finfo, vinfo := rgb565(4, 4)
	dev, err := newDevice(make([]byte, 4*4*2), finfo, vinfo)
	require.NoError(t, err)
	disp, err := New(dev, fb, Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- disp.Run(ctx) }()
	disp.Redraw()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal(`display did not stop`)
	}
}
