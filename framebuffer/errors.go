package framebuffer

import (
	"errors"
	"fmt"
	"image"

	"github.com/srlehn/lcdpipe/internal/consts"
)

var (
	ErrOutOfBounds            = errors.New(`out of bounds`)
	ErrInsufficientBitmapData = errors.New(`insufficient bitmap data`)
	ErrInvalidSize            = errors.New(`invalid framebuffer size`)
)

// ApplyError is returned by a mutation that was refused. A refused
// mutation leaves the framebuffer unchanged.
type ApplyError struct {
	Op   string
	Rect image.Rectangle
	Err  error
}

func (e *ApplyError) Error() string {
	if e == nil {
		return `<nil>`
	}
	return fmt.Sprintf(`framebuffer %s %v: %v`, e.Op, e.Rect, e.Err)
}

func (e *ApplyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorKind returns a short label for err, suitable for metrics.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrOutOfBounds):
		return `out_of_bounds`
	case errors.Is(err, ErrInsufficientBitmapData):
		return `insufficient_bitmap_data`
	default:
		return `other`
	}
}

func errUnsupported(cmd any) error {
	return fmt.Errorf(`%w: %T`, consts.ErrUnsupportedCommand, cmd)
}
