package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// Adapter keeps data file contents on the local disk under a root directory.
type Adapter struct {
	dir    string
	logger *zap.Logger
}

type Option func(*Adapter)

func WithDir(dir string) Option {
	return func(a *Adapter) {
		a.dir = dir
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(opts ...Option) (*Adapter, error) {
	a := &Adapter{
		dir:    os.TempDir(),
		logger: zap.NewNop(),
	}

	for _, o := range opts {
		o(a)
	}

	info, err := os.Stat(a.dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", a.dir)
	}

	a.logger.Sugar().With(
		"directory", a.dir,
	).Info("init filestorage adapter")

	return a, nil
}

// resolve maps an object name to a file below the root directory. Names cannot
// climb out of the root.
func (a *Adapter) resolve(name string) (string, error) {
	cleaned := path.Clean("/" + filepath.ToSlash(name))
	if cleaned == "/" {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(a.dir, filepath.FromSlash(cleaned)), nil
}

func (a *Adapter) Write(ctx context.Context, name string, data io.Reader) error {
	target, err := a.resolve(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	// Write to a sibling temp file first so readers never see partial contents.
	f, err := os.CreateTemp(filepath.Dir(target), ".upload*")
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			a.logger.Sugar().With("location", f.Name(), "error", err).Warn("error removing temp file")
		}
	}()

	if _, err := io.Copy(f, contextReader{ctx: ctx, r: data}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), target)
}

func (a *Adapter) Exists(ctx context.Context, name string) (bool, error) {
	target, err := a.resolve(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *Adapter) Read(ctx context.Context, name string) (io.ReadSeekCloser, error) {
	target, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(target)
}

func (a *Adapter) Delete(ctx context.Context, name string) error {
	target, err := a.resolve(name)
	if err != nil {
		return err
	}
	return os.Remove(target)
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
