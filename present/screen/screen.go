// Package screen shows the framebuffer in a terminal. Every cell holds two
// vertically stacked pixels drawn with the upper half block: the foreground
// is the upper pixel, the background the lower one.
package screen

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/srlehn/lcdpipe/internal/consts"
	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/internal/logx"
	"github.com/srlehn/lcdpipe/present"
	"github.com/srlehn/lcdpipe/resize"
	"github.com/srlehn/lcdpipe/resize/rdefault"
)

const BlockUpperHalfBlock rune = '\u2580' // ▀

type Config struct {
	// Screen defaults to the terminal of the process.
	Screen  tcell.Screen
	Resizer resize.Resizer
	Logger  *slog.Logger
	// Integer restricts scaling to whole factors.
	Integer bool
	// Status, if set, is shown in the last row.
	Status func() string
}

type Screen struct {
	src     present.Snapshotter
	scr     tcell.Screen
	resizer resize.Resizer
	cfg     Config
	sig     *present.Signal

	initOnce sync.Once
	initErr  error
}

func New(src present.Snapshotter, cfg Config) (*Screen, error) {
	if src == nil {
		return nil, errors.NilParam()
	}
	scr := cfg.Screen
	if scr == nil {
		var err error
		scr, err = tcell.NewScreen()
		if err != nil {
			return nil, errors.New(err)
		}
	}
	rsz := cfg.Resizer
	if rsz == nil {
		rsz = rdefault.Default()
	}
	return &Screen{
		src:     src,
		scr:     scr,
		resizer: rsz,
		cfg:     cfg,
		sig:     present.NewSignal(),
	}, nil
}

func (s *Screen) Logger() *slog.Logger { return s.cfg.Logger }

// Redraw schedules a repaint. It never blocks.
func (s *Screen) Redraw() { s.sig.Redraw() }

// Init takes over the terminal. Run calls it; calling it earlier is allowed.
func (s *Screen) Init() error {
	s.initOnce.Do(func() {
		if err := s.scr.Init(); err != nil {
			s.initErr = errors.New(err)
			return
		}
		s.scr.HideCursor()
	})
	return s.initErr
}

// Run repaints on every redraw request and on terminal resizes until ctx is
// done or the user quits with q, Esc or Ctrl-C, in which case consts.ErrQuit
// is returned. The terminal is restored before Run returns.
func (s *Screen) Run(ctx context.Context) error {
	if err := s.Init(); err != nil {
		return err
	}
	defer s.scr.Fini()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go s.scr.ChannelEvents(events, quit)

	s.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.sig.C():
			s.draw()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.scr.Sync()
				s.draw()
			case *tcell.EventKey:
				if isQuitKey(ev) {
					logx.Debug(`quit requested`, s, `key`, ev.Name())
					return errors.New(consts.ErrQuit)
				}
			}
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// area returns the drawable size in pixels.
func (s *Screen) area() image.Point {
	w, h := s.scr.Size()
	if s.cfg.Status != nil {
		h--
	}
	return image.Pt(w, 2*h)
}

func (s *Screen) draw() {
	s.scr.Clear()
	defer s.scr.Show()

	frame := s.src.Snapshot()
	area := s.area()
	size := present.Fit(frame.Bounds().Size(), area, s.cfg.Integer)
	if size.X > 0 && size.Y > 0 {
		img, err := s.resizer.Resize(frame, size)
		if err != nil {
			_ = logx.IsErr(err, s, slog.LevelError, `size`, size)
		} else {
			off := present.Center(size, area)
			off.Y -= off.Y % 2
			s.drawImage(img, off)
		}
	}
	if s.cfg.Status != nil {
		_, h := s.scr.Size()
		s.drawStatus(h-1, s.cfg.Status())
	}
}

func (s *Screen) drawImage(img image.Image, off image.Point) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y += 2 {
		for x := range b.Dx() {
			top := cellColor(img.At(b.Min.X+x, b.Min.Y+y))
			bottom := tcell.ColorBlack
			if y+1 < b.Dy() {
				bottom = cellColor(img.At(b.Min.X+x, b.Min.Y+y+1))
			}
			st := tcell.StyleDefault.Foreground(top).Background(bottom)
			s.scr.SetContent(off.X+x, (off.Y+y)/2, BlockUpperHalfBlock, nil, st)
		}
	}
}

func (s *Screen) drawStatus(row int, text string) {
	st := tcell.StyleDefault.Reverse(true)
	w, _ := s.scr.Size()
	col := 0
	for _, r := range text {
		if col >= w {
			break
		}
		s.scr.SetContent(col, row, r, nil, st)
		col++
	}
	for ; col < w; col++ {
		s.scr.SetContent(col, row, ' ', nil, st)
	}
}

func cellColor(c color.Color) tcell.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}
