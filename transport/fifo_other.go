//go:build !unix

package transport

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/srlehn/lcdpipe/internal/consts"
	"github.com/srlehn/lcdpipe/internal/errors"
)

func Mkfifo(path string, mode fs.FileMode) error {
	return errors.New(&fs.PathError{Op: `mkfifo`, Path: path, Err: consts.ErrPlatformNotSupported})
}

func openReader(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err)
	}
	return f, nil
}

func OpenWriter(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errors.New(err)
	}
	return f, nil
}
