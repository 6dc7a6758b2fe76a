// Package logging provides structured, file-based logging with rotation
// for the vector search core. Every component logs through a single
// slog.Logger obtained from Setup; there is no separate CLI output path.
package logging
