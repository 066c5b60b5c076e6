package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apache/arrow-go/v18/arrow"

	"audex/internal/dataset"
	"audex/internal/logging"
	"audex/internal/workerpool"
)

// Result summarizes one input file's extraction.
type Result struct {
	Input           string
	Rows            int64
	Written         int64
	SkippedExisting int64
	SkippedInvalid  int64
	Failed          int64
	Duration        time.Duration
}

// Dispatcher fans per-row extraction and writing out across the shared
// worker pool.
type Dispatcher struct {
	Pool      *workerpool.Pool
	OutputDir string
	// Metadata receives (filename, transcription) pairs; nil disables the
	// side-table.
	Metadata *Accumulator
	// Strict aborts a file on its first failed write instead of logging and
	// continuing.
	Strict bool
	Logger *slog.Logger
}

// Run processes every row of the shaped table. Rows failing the type guard
// are logged and skipped; every other row is attempted exactly once. Write
// ordering between rows is unspecified.
func (d *Dispatcher) Run(tbl arrow.Table, cols dataset.Columns) (Result, error) {
	logger := d.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	start := time.Now()
	reader, err := dataset.NewRowReader(tbl, cols)
	if err != nil {
		return Result{}, err
	}

	var (
		written         atomic.Int64
		skippedExisting atomic.Int64
		skippedInvalid  atomic.Int64
		failed          atomic.Int64
		aborted         atomic.Bool
		strictOnce      sync.Once
		strictErr       error
		wg              sync.WaitGroup
	)

	for i := int64(0); i < reader.Len(); i++ {
		if d.Strict && aborted.Load() {
			break
		}

		row, err := reader.Row(i)
		if err != nil {
			if errors.Is(err, dataset.ErrTypeMismatch) {
				skippedInvalid.Add(1)
				logger.Warn("skipping row", logging.FieldRow, i, "error", err)
				continue
			}
			wg.Wait()
			return Result{}, err
		}

		name := filepath.Base(row.Name)
		if name == "." || name == string(filepath.Separator) || name == "" {
			skippedInvalid.Add(1)
			logger.Warn("skipping row with unusable identifier", logging.FieldRow, i, "identifier", row.Name)
			continue
		}

		wg.Add(1)
		d.Pool.Go(func() {
			defer wg.Done()
			dest := filepath.Join(d.OutputDir, name)
			wrote, err := WritePayload(dest, row.Payload)
			if err != nil {
				failed.Add(1)
				if d.Strict {
					strictOnce.Do(func() {
						strictErr = fmt.Errorf("row %d: %w", i, err)
						aborted.Store(true)
					})
				} else {
					logger.Warn("write failed", logging.FieldPath, dest, "error", err)
				}
				return
			}
			if wrote {
				written.Add(1)
			} else {
				skippedExisting.Add(1)
			}
			if d.Metadata != nil && row.HasText {
				d.Metadata.Append(name, row.Transcription)
			}
		})
	}
	wg.Wait()

	res := Result{
		Rows:            reader.Len(),
		Written:         written.Load(),
		SkippedExisting: skippedExisting.Load(),
		SkippedInvalid:  skippedInvalid.Load(),
		Failed:          failed.Load(),
		Duration:        time.Since(start),
	}
	if strictErr != nil {
		return res, strictErr
	}
	return res, nil
}
