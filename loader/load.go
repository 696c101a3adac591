package loader

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kdtree"
)

// Inserter is the part of a tree the loader feeds.
type Inserter interface {
	Dimensions() int
	InsertBatch(points [][]float32) (kdtree.BatchResult, error)
}

// Report describes the outcome of loading one file.
type Report struct {
	Path   string
	Rows   int
	Result kdtree.BatchResult
}

// ReadFile parses every point in path.
func ReadFile(ctx context.Context, path string, dims int, optFns ...Option) ([][]float32, error) {
	return readFile(ctx, path, dims, applyOptions(optFns))
}

func readFile(ctx context.Context, path string, dims int, o options) ([][]float32, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return parse(ctx, rc, path, dims, o)
}

// LoadFile parses path and inserts its points into tree in file order.
// Parsing is all-or-nothing; individual insert failures are reported in the
// returned Report.
func LoadFile(ctx context.Context, tree Inserter, path string, optFns ...Option) (Report, error) {
	o := applyOptions(optFns)

	points, err := readFile(ctx, path, tree.Dimensions(), o)
	if err != nil {
		return Report{Path: path}, err
	}
	return insert(tree, path, points, o)
}

// LoadFiles parses paths concurrently and inserts them into tree one file at
// a time, in the order given. The first parse error cancels the remaining
// work and nothing is inserted.
func LoadFiles(ctx context.Context, tree Inserter, paths []string, optFns ...Option) ([]Report, error) {
	o := applyOptions(optFns)
	dims := tree.Dimensions()
	parsed := make([][][]float32, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			points, err := readFile(gctx, path, dims, o)
			if err != nil {
				return err
			}
			parsed[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(paths))
	for i, path := range paths {
		r, err := insert(tree, path, parsed[i], o)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func insert(tree Inserter, path string, points [][]float32, o options) (Report, error) {
	start := time.Now()
	res, err := tree.InsertBatch(points)
	if err != nil {
		return Report{Path: path, Rows: len(points)}, err
	}

	o.logger.Info("file loaded",
		"path", path,
		"rows", len(points),
		"inserted", res.Succeeded,
		"failed", res.FailedCount(),
		"duration", time.Since(start),
	)
	return Report{Path: path, Rows: len(points), Result: res}, nil
}
