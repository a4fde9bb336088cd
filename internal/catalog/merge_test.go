package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"folio/internal/catalog"
	"folio/internal/dedup"
	"folio/internal/testsupport"
)

func entityID(t *testing.T, db *sql.DB, table, name string) int64 {
	t.Helper()
	var id int64
	if err := db.QueryRow("SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id); err != nil {
		t.Fatalf("lookup %s %q: %v", table, name, err)
	}
	return id
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count (%s): %v", query, err)
	}
	return n
}

func TestMergeCollapsesJunctionRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.AddBook(t, store, catalog.NewBook{Title: "Carrie", Authors: []string{"Stephen King"}})
	testsupport.AddBook(t, store, catalog.NewBook{Title: "Misery", Authors: []string{"King, Stephen"}})
	// Both spellings credited on one book: after the merge its two author rows
	// become identical and must collapse to one.
	testsupport.AddBook(t, store, catalog.NewBook{
		Title:   "The Talisman",
		Authors: []string{"Stephen King", "King, Stephen"},
	})

	raw := testsupport.OpenRawDB(t, store)
	primary := entityID(t, raw, "people", "Stephen King")
	dup := entityID(t, raw, "people", "King, Stephen")

	stats, err := store.Merge(ctx, dedup.KindPerson, primary, []int64{dup})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if stats.PrimaryID != primary || len(stats.MergedIDs) != 1 || stats.MergedIDs[0] != dup {
		t.Fatalf("stats = %+v", stats)
	}
	// Misery's row retargets, The Talisman's second row collapses.
	if stats.RowsUpdated["book_authors"] != 2 {
		t.Fatalf("book_authors touched = %d, want 2", stats.RowsUpdated["book_authors"])
	}

	if n := countRows(t, raw, "SELECT COUNT(*) FROM people"); n != 1 {
		t.Fatalf("people remaining = %d, want 1", n)
	}
	if n := countRows(t, raw, "SELECT COUNT(*) FROM book_authors WHERE person_id = ?", dup); n != 0 {
		t.Fatalf("%d rows still reference merged id %d", n, dup)
	}
	if n := countRows(t, raw, "SELECT COUNT(*) FROM book_authors WHERE person_id = ?", primary); n != 3 {
		t.Fatalf("primary author rows = %d, want 3", n)
	}
}

func TestMergeRewritesColumnReferences(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.AddBook(t, store, catalog.NewBook{Title: "Foundation", Publisher: "Penguin Books"})
	testsupport.AddBook(t, store, catalog.NewBook{Title: "Hyperion", Publisher: "Penguin"})
	testsupport.AddBook(t, store, catalog.NewBook{Title: "Dune", Publisher: "Penguin"})

	raw := testsupport.OpenRawDB(t, store)
	primary := entityID(t, raw, "publishers", "Penguin Books")
	dup := entityID(t, raw, "publishers", "Penguin")

	stats, err := store.Merge(ctx, dedup.KindPublisher, primary, []int64{dup})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if stats.RowsUpdated["books"] != 2 {
		t.Fatalf("books touched = %d, want 2", stats.RowsUpdated["books"])
	}
	if n := countRows(t, raw, "SELECT COUNT(*) FROM books WHERE publisher_id = ?", primary); n != 3 {
		t.Fatalf("books on primary = %d, want 3", n)
	}
	if n := countRows(t, raw, "SELECT COUNT(*) FROM publishers"); n != 1 {
		t.Fatalf("publishers remaining = %d, want 1", n)
	}
}

func TestMergeValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Merge(ctx, dedup.KindPerson, 1, nil); !errors.Is(err, dedup.ErrValidation) {
		t.Fatalf("empty duplicates: got %v, want ErrValidation", err)
	}
	if _, err := store.Merge(ctx, dedup.KindPerson, 1, []int64{2, 1}); !errors.Is(err, dedup.ErrValidation) {
		t.Fatalf("primary in duplicates: got %v, want ErrValidation", err)
	}
	if _, err := store.Merge(ctx, dedup.Kind("shelf"), 1, []int64{2}); !errors.Is(err, dedup.ErrValidation) {
		t.Fatalf("unknown kind: got %v, want ErrValidation", err)
	}
}

func TestMergeRejectsVanishedIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.AddBook(t, store, catalog.NewBook{Title: "Carrie", Authors: []string{"Stephen King"}})

	raw := testsupport.OpenRawDB(t, store)
	primary := entityID(t, raw, "people", "Stephen King")

	if _, err := store.Merge(ctx, dedup.KindPerson, primary, []int64{primary + 100}); !errors.Is(err, dedup.ErrNotFound) {
		t.Fatalf("missing duplicate: got %v, want ErrNotFound", err)
	}
	if n := countRows(t, raw, "SELECT COUNT(*) FROM people"); n != 1 {
		t.Fatalf("people = %d after failed merge, want 1", n)
	}
}

func TestMergeSecondRunFindsNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.AddBook(t, store, catalog.NewBook{Title: "Carrie", Authors: []string{"Stephen King"}})
	testsupport.AddBook(t, store, catalog.NewBook{Title: "Misery", Authors: []string{"King, Stephen"}})

	raw := testsupport.OpenRawDB(t, store)
	primary := entityID(t, raw, "people", "Stephen King")
	dup := entityID(t, raw, "people", "King, Stephen")

	if _, err := store.Merge(ctx, dedup.KindPerson, primary, []int64{dup}); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	if _, err := store.Merge(ctx, dedup.KindPerson, primary, []int64{dup}); !errors.Is(err, dedup.ErrNotFound) {
		t.Fatalf("second merge: got %v, want ErrNotFound", err)
	}
}

func TestMergeRollsBackOnConstraintViolation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.AddBook(t, store, catalog.NewBook{Title: "Carrie", Authors: []string{"Stephen King"}})
	testsupport.AddBook(t, store, catalog.NewBook{Title: "Misery", Authors: []string{"King, Stephen"}})

	raw := testsupport.OpenRawDB(t, store)
	primary := entityID(t, raw, "people", "Stephen King")
	dup := entityID(t, raw, "people", "King, Stephen")

	// A referencing table the merge does not know about keeps a live pointer
	// at the duplicate, so the final delete trips the foreign key and the
	// whole transaction must unwind.
	if _, err := raw.Exec(`CREATE TABLE person_notes (
		id INTEGER PRIMARY KEY,
		person_id INTEGER NOT NULL REFERENCES people(id),
		note TEXT NOT NULL
	)`); err != nil {
		t.Fatalf("create person_notes: %v", err)
	}
	if _, err := raw.Exec("INSERT INTO person_notes (person_id, note) VALUES (?, ?)", dup, "signed copy"); err != nil {
		t.Fatalf("insert note: %v", err)
	}

	before := countRows(t, raw, "SELECT COUNT(*) FROM book_authors WHERE person_id = ?", dup)

	_, err := store.Merge(ctx, dedup.KindPerson, primary, []int64{dup})
	if !errors.Is(err, dedup.ErrTransaction) {
		t.Fatalf("constrained merge: got %v, want ErrTransaction", err)
	}

	// Nothing moved: the junction rewrite inside the failed transaction must
	// not be observable.
	if n := countRows(t, raw, "SELECT COUNT(*) FROM book_authors WHERE person_id = ?", dup); n != before {
		t.Fatalf("book_authors rows for dup = %d after rollback, want %d", n, before)
	}
	if n := countRows(t, raw, "SELECT COUNT(*) FROM people"); n != 2 {
		t.Fatalf("people = %d after rollback, want 2", n)
	}
}
