// Package batch runs the estimator over many images in parallel.
//
// Each image gets its own independent pipeline run; the only shared state is
// the Estimator, which is safe for concurrent use.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/bbox-estimator/internal/debug"
	"github.com/ironsheep/bbox-estimator/internal/detection"
	"github.com/ironsheep/bbox-estimator/internal/estimator"
	"github.com/ironsheep/bbox-estimator/internal/report"
)

// imageExtensions are the file types Expand picks up from directories.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Item is the outcome for one image.
type Item struct {
	Path   string
	Result detection.Result

	// Done is false for images that were never processed because the run
	// was cancelled.
	Done bool
}

// Response converts the item to its output line.
func (it Item) Response() report.Response {
	resp := report.FromResult(it.Result)
	resp.Path = it.Path
	return resp
}

// Run estimates every path using at most workers goroutines. Items come back
// in the order of paths.
//
// When ctx is cancelled no new images are started, images already running
// finish, and the context error is returned alongside the items.
func Run(ctx context.Context, est *estimator.Estimator, paths []string, workers int) ([]Item, error) {
	if workers < 1 {
		workers = 1
	}

	items := make([]Item, len(paths))
	for i, p := range paths {
		items[i].Path = p
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i].Result = est.EstimatePath(items[i].Path)
			items[i].Done = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}
	if err := ctx.Err(); err != nil {
		return items, err
	}

	debug.Log("batch of %d images finished with %d workers", len(items), workers)
	return items, nil
}

// Expand replaces every directory in paths with the image files below it,
// in lexical order. Plain files are kept as given whatever their extension.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(path))] {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}
	return out, nil
}
