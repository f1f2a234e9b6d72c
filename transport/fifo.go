// Package transport opens the byte stream the protocol is read from.
package transport

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/internal/logx"
)

// FIFO opens a named pipe for reading, once per connection cycle.
//
// If the pipe does not exist it is created when Create is set, otherwise
// Open waits until some other process creates it. Open blocks until a
// writer connects or ctx is done.
type FIFO struct {
	Path   string
	Create bool
	Mode   fs.FileMode
	logger *slog.Logger
}

func NewFIFO(path string, create bool, logger *slog.Logger) *FIFO {
	return &FIFO{Path: path, Create: create, Mode: 0o600, logger: logger}
}

func (f *FIFO) Logger() *slog.Logger { return f.logger }

func (f *FIFO) Open(ctx context.Context) (io.ReadCloser, error) {
	if f == nil || len(f.Path) == 0 {
		return nil, errors.NilReceiver()
	}
	fi, err := os.Stat(f.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && f.Create:
		logx.Info(`creating pipe`, f, `path`, f.Path)
		if err := Mkfifo(f.Path, f.Mode); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		logx.Info(`waiting for pipe`, f, `path`, f.Path)
		if err := WaitForPath(ctx, f.Path); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, errors.New(err)
	case fi.Mode()&fs.ModeNamedPipe == 0:
		logx.Warn(`not a named pipe, reading as a regular file`, f, `path`, f.Path)
	}
	logx.Debug(`opening pipe`, f, `path`, f.Path)
	return openReader(ctx, f.Path)
}
