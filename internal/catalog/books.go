package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// NewBook carries the fields needed to register a book. Author, publisher,
// series, and tag names are resolved to existing rows by exact name or
// created on the fly; variant spellings therefore accumulate as separate
// entities until a dedup run merges them.
type NewBook struct {
	Title       string
	Authors     []string
	Publisher   string
	Series      string
	SeriesIndex float64
	Tags        []string
	Path        string
}

// Book is a catalog entry with its related entity names resolved.
type Book struct {
	ID          int64
	Title       string
	Authors     []string
	Publisher   string
	Series      string
	SeriesIndex float64
	Tags        []string
	Path        string
	AddedAt     string
}

// AddBook inserts a book and its author/publisher/series/tag links in one
// transaction.
func (s *Store) AddBook(ctx context.Context, nb NewBook) (*Book, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(nb.Title) == "" {
		return nil, errors.New("book title is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	publisherID, err := getOrCreateNamed(ctx, tx, "publishers", nb.Publisher)
	if err != nil {
		return nil, err
	}
	seriesID, err := getOrCreateNamed(ctx, tx, "series", nb.Series)
	if err != nil {
		return nil, err
	}

	now := timestamp()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO books (title, sort_title, publisher_id, series_id, series_index, path, added_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nb.Title, sortTitle(nb.Title), nullableID(publisherID), nullableID(seriesID),
		nb.SeriesIndex, nb.Path, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	bookID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, author := range nb.Authors {
		personID, err := getOrCreateNamed(ctx, tx, "people", author)
		if err != nil {
			return nil, err
		}
		if personID == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO book_authors (book_id, person_id, role) VALUES (?, ?, 'author')",
			bookID, personID,
		); err != nil {
			return nil, fmt.Errorf("link author: %w", err)
		}
	}
	for _, tag := range nb.Tags {
		tagID, err := getOrCreateNamed(ctx, tx, "tags", tag)
		if err != nil {
			return nil, err
		}
		if tagID == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO book_tags (book_id, tag_id) VALUES (?, ?)",
			bookID, tagID,
		); err != nil {
			return nil, fmt.Errorf("link tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit book: %w", err)
	}
	return s.GetBook(ctx, bookID)
}

// GetBook fetches one book with related names resolved.
func (s *Store) GetBook(ctx context.Context, id int64) (*Book, error) {
	ctx = ensureContext(ctx)
	book := &Book{ID: id}
	var (
		publisher   sql.NullString
		series      sql.NullString
		seriesIndex sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT b.title, b.path, b.added_at, b.series_index, p.name, sr.name
           FROM books b
           LEFT JOIN publishers p ON p.id = b.publisher_id
           LEFT JOIN series sr ON sr.id = b.series_id
          WHERE b.id = ?`, id,
	).Scan(&book.Title, &book.Path, &book.AddedAt, &seriesIndex, &publisher, &series)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	book.Publisher = publisher.String
	book.Series = series.String
	book.SeriesIndex = seriesIndex.Float64

	if book.Authors, err = s.relatedNames(ctx,
		`SELECT p.name FROM book_authors ba JOIN people p ON p.id = ba.person_id
          WHERE ba.book_id = ? ORDER BY p.name`, id); err != nil {
		return nil, err
	}
	if book.Tags, err = s.relatedNames(ctx,
		`SELECT t.name FROM book_tags bt JOIN tags t ON t.id = bt.tag_id
          WHERE bt.book_id = ? ORDER BY t.name`, id); err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks returns all books ordered by sort title.
func (s *Store) ListBooks(ctx context.Context) ([]Book, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM books ORDER BY sort_title, id")
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan book id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	books := make([]Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.GetBook(ctx, id)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, nil
}

// EntityCounts reports row counts for each deduplicatable entity table.
func (s *Store) EntityCounts(ctx context.Context) (map[string]int64, error) {
	ctx = ensureContext(ctx)
	counts := make(map[string]int64, 4)
	for _, table := range []string{"people", "publishers", "series", "tags"} {
		var n int64
		// Table names come from the fixed list above, never from input.
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (s *Store) relatedNames(ctx context.Context, query string, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("related names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return names, nil
}

// getOrCreateNamed resolves a named row by exact match, inserting it when
// absent. A blank name resolves to 0 (no link). The table name is always one
// of the fixed entity tables.
func getOrCreateNamed(ctx context.Context, tx *sql.Tx, table, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}
	var id int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup %s %q: %w", table, name, err)
	}
	res, err := tx.ExecContext(ctx, "INSERT INTO "+table+" (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("insert %s %q: %w", table, name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// sortTitle strips a leading English article for shelf ordering.
func sortTitle(title string) string {
	lower := strings.ToLower(title)
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(lower, article) {
			return title[len(article):]
		}
	}
	return title
}
