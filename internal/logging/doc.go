// Package logging assembles the structured slog loggers used across audex.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes the standardized field names so extraction workers
// tag log lines consistently. Prefer these constructors over hand-rolled
// slog setup so every component emits data with the same shape.
package logging
