package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlehn/lcdpipe/framebuffer"
	"github.com/srlehn/lcdpipe/internal/consts"
	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/proto"
	"github.com/srlehn/lcdpipe/transport"
)

func init() {
	rootCmd.AddCommand(demoCmd)
	fl := demoCmd.Flags()
	fl.StringVarP(&demoFIFOFlag, `fifo`, `f`, consts.DefaultFIFOName, `named pipe to write to, - for stdout`)
	fl.IntVar(&demoCountFlag, `count`, 100, `count up to this number`)
	fl.DurationVar(&demoIntervalFlag, `interval`, 250*time.Millisecond, `delay between numbers`)
	fl.IntVar(&demoScaleFlag, `scale`, 4, `digit size multiplier`)
}

var demoCmd = &cobra.Command{
	Use:   demoCmdStr,
	Short: "send a test sequence",
	Long:  "send the panel start-up sequence followed by a counter drawn with bitmaps",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(runDemo)
	},
}

var (
	demoCmdStr = "demo"

	demoFIFOFlag     string
	demoCountFlag    int
	demoIntervalFlag time.Duration
	demoScaleFlag    int
)

func runDemo(ctx context.Context) error {
	var out io.Writer = os.Stdout
	if demoFIFOFlag != `-` {
		// blocks until the receiver has the pipe open
		wc, err := transport.OpenWriter(demoFIFOFlag)
		if err != nil {
			return err
		}
		defer wc.Close()
		out = wc
	}
	d := &demo{
		w:        proto.NewWriter(out),
		width:    framebuffer.DefaultWidth,
		interval: demoIntervalFlag,
	}
	if err := d.init(ctx); err != nil {
		return err
	}
	return d.count(ctx, demoCountFlag, max(1, demoScaleFlag))
}

type demo struct {
	w        *proto.Writer
	width    int
	interval time.Duration
}

// init replays the start-up sequence of the panel: three colour bands,
// each shown for a moment, then a blank screen.
func (d *demo) init(ctx context.Context) error {
	if err := d.w.Reset(); err != nil {
		return err
	}
	bands := []struct {
		col    proto.Color
		y1, y2 int
	}{
		{proto.Red, 0, 20},
		{proto.Blue, 20, 40},
		{proto.Green, 40, 60},
	}
	for _, b := range bands {
		if err := d.w.FillRectangle(b.col, 0, d.width-1, b.y1, b.y2); err != nil {
			return err
		}
		if err := wait(ctx, 100*time.Millisecond); err != nil {
			return err
		}
	}
	return d.w.Reset()
}

// count draws the numbers 0..n-1 in the top left corner.
func (d *demo) count(ctx context.Context, n, scale int) error {
	for i := range n {
		if err := d.number(i, 3, scale); err != nil {
			return err
		}
		if err := wait(ctx, d.interval); err != nil {
			return err
		}
	}
	return nil
}

func (d *demo) number(v, digits, scale int) error {
	pos := make([]int, digits)
	for i := digits - 1; i >= 0; i-- {
		pos[i] = v % 10
		v /= 10
	}
	w, h := glyphWidth*scale, glyphHeight*scale
	for i, digit := range pos {
		x := i * (w + scale)
		bits := glyphBits(digit, scale)
		if err := d.w.MonoRectangle(proto.Blue, proto.Black, x, x+w-1, 0, h-1, bits); err != nil {
			return err
		}
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return errors.New(ctx.Err())
	case <-t.C:
		return nil
	}
}
