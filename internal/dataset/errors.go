package dataset

import "errors"

var (
	// ErrDecode marks container-level failures: malformed payloads, empty
	// streams, and schemas missing the projected columns. Fatal for the
	// affected file; directory batches continue with the remaining files.
	ErrDecode = errors.New("dataset decode error")

	// ErrTypeMismatch marks a row whose payload or identifier value does not
	// satisfy the declared type. Recovered per row, never file-fatal.
	ErrTypeMismatch = errors.New("column type mismatch")
)
