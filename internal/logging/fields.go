package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for extraction run identifiers.
	FieldRunID = "run_id"
	// FieldInput is the standardized structured logging key for input dataset paths.
	FieldInput = "input"
	// FieldRow is the standardized structured logging key for row indices within a dataset.
	FieldRow = "row"
	// FieldPath is the standardized structured logging key for output file paths.
	FieldPath = "path"
)
