package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlehn/lcdpipe"
	"github.com/srlehn/lcdpipe/framebuffer"
	"github.com/srlehn/lcdpipe/internal/consts"
	"github.com/srlehn/lcdpipe/internal/logx"
	"github.com/srlehn/lcdpipe/internal/metrics"
	"github.com/srlehn/lcdpipe/present/fbdev"
	"github.com/srlehn/lcdpipe/present/pngfile"
	"github.com/srlehn/lcdpipe/present/screen"
	"github.com/srlehn/lcdpipe/receiver"
	"github.com/srlehn/lcdpipe/resize/rdefault"
)

func init() {
	rootCmd.AddCommand(runCmd)
	fl := runCmd.Flags()
	fl.StringVarP(&runFIFOFlag, `fifo`, `f`, consts.DefaultFIFOName, `named pipe to read commands from`)
	fl.IntVar(&runWidthFlag, `width`, framebuffer.DefaultWidth, `panel width in pixels`)
	fl.IntVar(&runHeightFlag, `height`, framebuffer.DefaultHeight, `panel height in pixels`)
	fl.IntVar(&runQueueFlag, `queue`, receiver.DefaultQueueSize, `commands buffered between reader and painter`)
	fl.StringVar(&runScalerFlag, `scaler`, ``, `scaling filter, one of: `+strings.Join(rdefault.Names(), `, `))
	fl.BoolVar(&runIntegerFlag, `integer`, false, `scale by whole factors only`)
	fl.StringVar(&runPNGFlag, `png`, ``, `write the panel to this PNG file instead of the terminal`)
	fl.DurationVar(&runPNGIntervalFlag, `png-interval`, pngfile.DefaultInterval, `minimum time between PNG writes`)
	fl.IntVar(&runPNGScaleFlag, `png-scale`, 1, `PNG size multiplier`)
	fl.StringVar(&runFBDevFlag, `fbdev`, ``, `draw on this framebuffer device (e.g. `+fbdev.DefaultDevice+`) instead of the terminal`)
	fl.BoolVar(&runNoCreateFlag, `no-create`, false, `wait for the pipe instead of creating it`)
	fl.StringVarP(&runLogFileFlag, `log-file`, `l`, ``, `log file (the terminal is owned by the display)`)
	fl.StringVar(&runLogLevelFlag, `log-level`, `info`, `log level: debug, info, warn, error`)
	fl.StringVar(&runMetricsAddrFlag, `metrics-addr`, ``, `serve prometheus metrics on this address`)
}

var runCmd = &cobra.Command{
	Use:   runCmdStr,
	Short: "show the panel and read commands from the pipe",
	Long:  "show the panel and read commands from the pipe until interrupted or q is pressed",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(runReceiver)
	},
}

var (
	runCmdStr = "run"

	runFIFOFlag        string
	runWidthFlag       int
	runHeightFlag      int
	runQueueFlag       int
	runScalerFlag      string
	runIntegerFlag     bool
	runPNGFlag         string
	runPNGIntervalFlag time.Duration
	runPNGScaleFlag    int
	runFBDevFlag       string
	runNoCreateFlag    bool
	runLogFileFlag     string
	runLogLevelFlag    string
	runMetricsAddrFlag string
)

func runReceiver(ctx context.Context) error {
	lvl, err := logx.ParseLevel(runLogLevelFlag)
	if err != nil {
		return err
	}
	rsz, err := rdefault.ByName(runScalerFlag)
	if err != nil {
		return err
	}
	opts := receiver.Options{
		lcdpipe.DefaultConfig,
		receiver.SetSize(runWidthFlag, runHeightFlag),
		receiver.SetQueueSize(runQueueFlag),
		receiver.SetFIFO(runFIFOFlag, !runNoCreateFlag),
	}

	headless := len(runPNGFlag) > 0 || len(runFBDevFlag) > 0
	switch {
	case len(runLogFileFlag) > 0:
		opts = append(opts, receiver.SetLogFile(runLogFileFlag, lvl))
	case headless:
		opts = append(opts, receiver.SetSLogger(slog.New(logx.NewHandler(os.Stderr, lvl))))
	default:
		// the screen owns the terminal
		opts = append(opts, receiver.SetSLogger(logx.Discard()))
	}

	switch {
	case len(runPNGFlag) > 0:
		opts = append(opts, receiver.SetPresenter(lcdpipe.PNG(runPNGFlag, pngfile.Config{
			Interval: runPNGIntervalFlag,
			Scale:    runPNGScaleFlag,
			Resizer:  rsz,
		})))
	case len(runFBDevFlag) > 0:
		opts = append(opts, receiver.SetPresenter(lcdpipe.FBDev(runFBDevFlag, fbdev.Config{
			Resizer: rsz,
			Integer: runIntegerFlag,
		})))
	default:
		opts = append(opts, receiver.SetPresenter(lcdpipe.Screen(screen.Config{
			Resizer: rsz,
			Integer: runIntegerFlag,
		})))
	}
	if len(runMetricsAddrFlag) > 0 {
		opts = append(opts, receiver.SetMetrics(metrics.New(), runMetricsAddrFlag))
	}

	r, err := receiver.New(opts...)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Run(ctx)
}
