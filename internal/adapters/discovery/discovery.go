// Package discovery finds job identifiers in a results directory.
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/okian/threadplot/internal/domain/dedupe"
	"github.com/okian/threadplot/pkg/logger"
)

type walker struct {
	logger logger.Logger
}

// Option configures Walk.
type Option func(*walker)

// WithLogger reports identifiers that collapse into an earlier one.
func WithLogger(l logger.Logger) Option {
	return func(w *walker) {
		if l != nil {
			w.logger = l
		}
	}
}

// Walk visits every regular file below dir and returns each file's base name
// without its extension, once, in walk order. Files in subdirectories
// contribute identifiers too.
func Walk(ctx context.Context, dir string, opts ...Option) ([]string, error) {
	w := &walker{logger: logger.Nop()}
	for _, opt := range opts {
		opt(w)
	}

	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.Type().IsRegular() {
			names = append(names, d.Name())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalk, dir, err)
	}

	seen := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(len(names)))
	for _, name := range names {
		id := identifier(name)
		if seen.SeenAndRecord(ctx, id) {
			w.logger.Debug(ctx, "duplicate job id collapsed", logger.String("job", id), logger.String("file", name))
		}
	}
	return seen.Ordered(), nil
}

// identifier drops the final extension, so "a.b.txt" becomes "a.b".
func identifier(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
