//go:build !linux || android

package fbdev

import (
	"github.com/srlehn/lcdpipe/internal/consts"
	"github.com/srlehn/lcdpipe/internal/errors"
)

func Open(dev string) (*Device, error) {
	return nil, errors.New(consts.ErrPlatformNotSupported)
}
