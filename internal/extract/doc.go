// Package extract materializes dataset rows as files on disk.
//
// The Dispatcher fans per-row work out across the shared worker pool: each
// row is written idempotently (existing files are never overwritten) and its
// metadata tuple, when a transcription is present, is appended to the shared
// Accumulator under mutual exclusion. Row failures are isolated: a skipped
// or failed row never aborts its siblings unless strict mode is configured.
package extract
