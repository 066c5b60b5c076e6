// Package manifest persists extraction run history in SQLite.
//
// One row per run records the invocation mode, input, and totals; one row
// per processed input file records its counts and any terminal error. The
// manifest is optional — it only exists when a database path is configured —
// and is consulted by the runs command for operator-facing history.
package manifest
