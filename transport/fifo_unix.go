//go:build unix

package transport

import (
	"context"
	"io"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"

	"github.com/srlehn/lcdpipe/internal/errors"
)

// Mkfifo creates a named pipe at path.
func Mkfifo(path string, mode fs.FileMode) error {
	if err := unix.Mkfifo(path, uint32(mode.Perm())); err != nil {
		return errors.New(&fs.PathError{Op: `mkfifo`, Path: path, Err: err})
	}
	return nil
}

// openReader opens path read-only. Opening a pipe blocks in the kernel until
// a writer shows up; on cancellation the pending open is released by
// briefly connecting as a writer ourselves.
func openReader(ctx context.Context, path string) (io.ReadCloser, error) {
	type result struct {
		f   *os.File
		err error
	}
	ch := make(chan result, 1)
	go func() {
		f, err := os.OpenFile(path, os.O_RDONLY, 0)
		ch <- result{f: f, err: err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			return nil, errors.New(r.err)
		}
		return r.f, nil
	case <-ctx.Done():
		if w, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0); err == nil {
			_ = w.Close()
		}
		go func() {
			if r := <-ch; r.f != nil {
				_ = r.f.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// OpenWriter opens the pipe for sending, creating it if needed. It blocks
// until a reader has the pipe open.
func OpenWriter(path string) (io.WriteCloser, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := Mkfifo(path, 0o600); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, errors.New(err)
	}
	return f, nil
}
