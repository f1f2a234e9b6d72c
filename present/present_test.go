package present_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srlehn/lcdpipe/present"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name     string
		src, dst image.Point
		integer  bool
		want     image.Point
	}{
		{`same`, image.Pt(272, 480), image.Pt(272, 480), false, image.Pt(272, 480)},
		{`height bound`, image.Pt(272, 480), image.Pt(200, 240), false, image.Pt(136, 240)},
		{`width bound`, image.Pt(272, 480), image.Pt(136, 1000), false, image.Pt(136, 240)},
		{`integer upscale`, image.Pt(10, 20), image.Pt(35, 100), true, image.Pt(30, 60)},
		{`integer downscale`, image.Pt(272, 480), image.Pt(160, 96), true, image.Pt(54, 96)},
		{`empty`, image.Pt(0, 10), image.Pt(10, 10), false, image.Point{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, present.Fit(tc.src, tc.dst, tc.integer))
		})
	}
}

func TestSignalCoalesces(t *testing.T) {
	s := present.NewSignal()
	for range 10 {
		s.Redraw()
	}
	<-s.C()
	select {
	case <-s.C():
		t.Fatal(`redraws were not coalesced`)
	default:
	}
}

func TestCenter(t *testing.T) {
	assert.Equal(t, image.Pt(5, 0), present.Center(image.Pt(10, 20), image.Pt(20, 20)))
}
