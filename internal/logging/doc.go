// Package logging assembles the structured slog loggers used across the
// tool.
//
// The console handler emits logfmt-style lines with millisecond timestamps;
// the JSON handler suits log collectors. Prefer these constructors over
// hand-rolled slog setup so every component logs with the same shape.
package logging
