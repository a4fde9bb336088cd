// Package catalog persists the book library in SQLite and exposes the store
// operations the rest of folio builds on.
//
// The Store manages the database connection, schema migrations, book CRUD,
// and the two roles it plays for deduplication: loading entity rows
// (dedup.Loader) and executing atomic merges (dedup.Merger). The merge path
// is the only code in the repository that rewrites references between tables;
// everything runs inside a single transaction per duplicate group so the
// catalog is never observable in a half-merged state.
//
// All statements are parameterized. Table and column identifiers come from
// fixed internal maps, never from user input.
package catalog
