package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"audex/internal/dataset"
	"audex/internal/extract"
	"audex/internal/logging"
)

// Orchestrator runs the extraction pipeline over one or many input files.
type Orchestrator struct {
	Format     dataset.Format
	Columns    dataset.Columns
	Dispatcher *extract.Dispatcher
	Logger     *slog.Logger
}

// Summary aggregates per-file results for one invocation. Failed files
// appear in Results with zero counts and carry their error in Errors.
type Summary struct {
	Results   []extract.Result
	Errors    map[string]error
	TotalRows int64
	Failures  int
}

// RunFile processes a single dataset file. The path must name a regular
// file; anything else is an immediate error.
func (o *Orchestrator) RunFile(ctx context.Context, path string) (extract.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return extract.Result{}, fmt.Errorf("stat input %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return extract.Result{}, fmt.Errorf("input %s is not a regular file", path)
	}
	return o.processFile(ctx, path)
}

// RunDirectory processes every matching regular file directly under dir.
// Files fan out concurrently; a failing file is logged, counted as a
// failure, and contributes zero rows.
func (o *Orchestrator) RunDirectory(ctx context.Context, dir string) (Summary, error) {
	logger := logging.WithContext(ctx, o.Logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("list input directory %s: %w", dir, err)
	}

	var (
		total   atomic.Int64
		mu      sync.Mutex
		summary = Summary{Errors: map[string]error{}}
		wg      sync.WaitGroup
	)
	for _, entry := range entries {
		if entry.IsDir() || !o.Format.Matches(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := o.processFile(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("extraction failed", logging.FieldInput, path, "error", err)
				summary.Failures++
				summary.Errors[path] = err
				summary.Results = append(summary.Results, extract.Result{Input: path})
				return
			}
			total.Add(res.Rows)
			summary.Results = append(summary.Results, res)
		}()
	}
	wg.Wait()

	summary.TotalRows = total.Load()
	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Input < summary.Results[j].Input
	})
	return summary, nil
}

func (o *Orchestrator) processFile(ctx context.Context, path string) (extract.Result, error) {
	tbl, err := dataset.Open(ctx, path, o.Format, o.Columns)
	if err != nil {
		return extract.Result{}, err
	}
	defer tbl.Release()

	res, err := o.Dispatcher.Run(tbl, o.Columns)
	res.Input = path
	if err != nil {
		return res, fmt.Errorf("extract %s: %w", path, err)
	}
	logging.WithContext(ctx, o.Logger).Info("file extracted",
		logging.FieldInput, path,
		"rows", res.Rows,
		"written", res.Written,
		"skipped_existing", res.SkippedExisting,
		"skipped_invalid", res.SkippedInvalid,
		"failed", res.Failed,
	)
	return res, nil
}
