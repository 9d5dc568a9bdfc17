package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Load reads a dataset, choosing the format by file extension (.nc or .json).
func Load(ctx context.Context, path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nc", ".nc4", ".cdf":
		return ReadNetCDFFile(ctx, path)
	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return ReadJSONFile(path)
	}
}

// Loader loads a dataset in the background. The result becomes available
// exactly once; callers must not tick against the field until Ready reports true.
type Loader struct {
	path string
	done chan struct{}
	ds   *Dataset
	err  error
}

// LoadAsync starts loading path in a new goroutine.
func LoadAsync(ctx context.Context, path string) *Loader {
	l := &Loader{path: path, done: make(chan struct{})}
	go func() {
		defer close(l.done)
		start := time.Now()
		l.ds, l.err = Load(ctx, path)
		if l.err != nil {
			slog.Error("dataset load failed", "path", path, "error", l.err)
			return
		}
		slog.Info("dataset loaded",
			"path", path,
			"grid_shape", l.ds.Metadata.GridShape,
			"faces", l.ds.Faces(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}()
	return l
}

// Done returns a channel closed when loading finishes.
func (l *Loader) Done() <-chan struct{} { return l.done }

// Ready reports whether loading has finished, successfully or not.
func (l *Loader) Ready() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Result blocks until loading finishes and returns its outcome.
func (l *Loader) Result() (*Dataset, error) {
	<-l.done
	return l.ds, l.err
}

// Wait blocks until loading finishes or ctx is cancelled.
func (l *Loader) Wait(ctx context.Context) (*Dataset, error) {
	select {
	case <-l.done:
		return l.ds, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
