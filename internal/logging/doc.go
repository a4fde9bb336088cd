// Package logging builds the slog loggers used across folio.
//
// It maps config values onto console or JSON handlers, fans output out to
// stderr and the on-disk log file, and standardizes attribute keys so run
// identifiers and entity kinds are queryable across components. NewNop
// supplies a discard logger for library and test use.
package logging
