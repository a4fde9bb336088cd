package testsupport

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"folio/internal/catalog"
	"folio/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddBook registers a book for tests using the provided store.
func AddBook(t testing.TB, store *catalog.Store, nb catalog.NewBook) *catalog.Book {
	t.Helper()

	book, err := store.AddBook(context.Background(), nb)
	if err != nil {
		t.Fatalf("store.AddBook: %v", err)
	}
	return book
}

// OpenRawDB opens a second connection to the store's database file so tests
// can inspect rows or shape the schema outside the store's API.
func OpenRawDB(t testing.TB, store *catalog.Store) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", store.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("apply pragma: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
