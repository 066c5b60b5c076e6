// Package batch orchestrates extraction runs over single files and
// directories of dataset files.
//
// Directory mode fans out one goroutine per matching file while row-level
// work inside each file still contends on the shared worker pool, so the
// two parallelism axes compose without exceeding the configured width.
// Per-file failures are reported and contribute zero rows; they never abort
// the batch.
package batch
