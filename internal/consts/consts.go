package consts

import (
	"errors"
)

var (
	ErrNilReceiver          = errors.New(`nil receiver`)
	ErrNilParam             = errors.New(`nil parameter`)
	ErrPlatformNotSupported = errors.New(`platform not supported`)
	ErrUnsupportedCommand   = errors.New(`unsupported command type`)
	ErrQuit                 = errors.New(`quit requested`)
)

const (
	LibraryName = `lcdpipe`

	DefaultFIFOName = `lcd_fifo`
	MetricNamespace = `lcdpipe`
)
