// Package dataset normalizes columnar dataset containers into Arrow tables
// and extracts per-row audio records from them.
//
// Two container encodings are supported: Arrow IPC streams and Parquet
// files. IPC streams are converted to the Parquet encoding in an in-memory
// buffer first, so both paths share a single decoder. After decoding, the
// nested audio struct column (when present) is promoted to top-level columns
// and the table is projected down to the payload, identifier, and optional
// transcription columns.
//
// Row access goes through RowReader, which enforces the type guards: a row
// whose payload is not binary or whose identifier is not a string is
// reported as ErrTypeMismatch and skipped by callers rather than failing the
// whole file.
package dataset
