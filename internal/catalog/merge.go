package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"folio/internal/dedup"
)

// reference describes one place an entity table is pointed at from elsewhere
// in the schema. Junction references carry a uniqueness constraint, so
// rewriting can produce identical rows that must collapse to one.
type reference struct {
	table    string
	column   string
	junction bool
}

// references maps each entity kind to every foreign-key column and junction
// table that stores its ids. Merge correctness depends on this list being
// complete: a referencing table missing here would keep rows pointing at
// deleted ids, which the foreign-key constraints turn into a rollback rather
// than silent corruption.
func references(kind dedup.Kind) []reference {
	switch kind {
	case dedup.KindPerson:
		return []reference{{table: "book_authors", column: "person_id", junction: true}}
	case dedup.KindPublisher:
		return []reference{{table: "books", column: "publisher_id"}}
	case dedup.KindSeries:
		return []reference{{table: "books", column: "series_id"}}
	case dedup.KindTag:
		return []reference{{table: "book_tags", column: "tag_id", junction: true}}
	}
	return nil
}

// Merge collapses duplicate entities into a primary inside one transaction:
// every reference to a duplicate id is rewritten to the primary, junction
// rows that become identical are collapsed, and the duplicate rows are
// deleted. Any failure rolls the whole transaction back; no partial rewrite
// is ever observable. Implements dedup.Merger.
//
// Running a merge twice is a no-op at the data level: the duplicate ids no
// longer exist, so the second call fails existence validation before
// touching anything.
func (s *Store) Merge(ctx context.Context, kind dedup.Kind, primaryID int64, duplicateIDs []int64) (*dedup.MergeStats, error) {
	ctx = ensureContext(ctx)
	table, err := entityTable(kind)
	if err != nil {
		return nil, dedup.Wrap(dedup.ErrValidation, "merge", err.Error(), nil)
	}
	if len(duplicateIDs) == 0 {
		return nil, dedup.Wrap(dedup.ErrValidation, "merge", "no duplicate ids supplied", nil)
	}
	for _, id := range duplicateIDs {
		if id == primaryID {
			return nil, dedup.Wrap(dedup.ErrValidation, "merge",
				fmt.Sprintf("primary id %d present in duplicate set", primaryID), nil)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "begin", err)
	}
	// Rollback is a no-op after a successful commit; every early return
	// below leaves the store untouched.
	defer func() {
		_ = tx.Rollback()
	}()

	// Re-validate against the live rows: scoring happened earlier and an
	// external deletion may have raced us.
	all := append([]int64{primaryID}, duplicateIDs...)
	for _, id := range all {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dedup.Wrap(dedup.ErrNotFound, "merge",
				fmt.Sprintf("%s id %d no longer exists", kind, id), nil)
		}
		if err != nil {
			return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "validate ids", err)
		}
	}

	stats := &dedup.MergeStats{
		PrimaryID:   primaryID,
		MergedIDs:   append([]int64(nil), duplicateIDs...),
		RowsUpdated: make(map[string]int64),
	}
	in := placeholders(len(duplicateIDs))
	dupArgs := idArgs(duplicateIDs)

	for _, ref := range references(kind) {
		var touched int64
		if ref.junction {
			// UPDATE OR IGNORE retargets rows unless the rewrite would
			// collide with an existing row under the junction's uniqueness
			// constraint; colliding leftovers are the duplicates to collapse.
			res, err := tx.ExecContext(ctx,
				"UPDATE OR IGNORE "+ref.table+" SET "+ref.column+" = ? WHERE "+ref.column+" IN ("+in+")",
				append([]any{primaryID}, dupArgs...)...,
			)
			if err != nil {
				return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "rewrite "+ref.table, err)
			}
			updated, err := res.RowsAffected()
			if err != nil {
				return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "rows affected", err)
			}
			res, err = tx.ExecContext(ctx,
				"DELETE FROM "+ref.table+" WHERE "+ref.column+" IN ("+in+")",
				dupArgs...,
			)
			if err != nil {
				return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "collapse "+ref.table, err)
			}
			collapsed, err := res.RowsAffected()
			if err != nil {
				return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "rows affected", err)
			}
			touched = updated + collapsed
		} else {
			res, err := tx.ExecContext(ctx,
				"UPDATE "+ref.table+" SET "+ref.column+" = ? WHERE "+ref.column+" IN ("+in+")",
				append([]any{primaryID}, dupArgs...)...,
			)
			if err != nil {
				return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "rewrite "+ref.table, err)
			}
			if touched, err = res.RowsAffected(); err != nil {
				return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "rows affected", err)
			}
		}
		stats.RowsUpdated[ref.table] = touched
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id IN ("+in+")", dupArgs...)
	if err != nil {
		return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "delete duplicates", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "rows affected", err)
	}
	if deleted != int64(len(duplicateIDs)) {
		return nil, dedup.Wrap(dedup.ErrDataIntegrity, "merge",
			fmt.Sprintf("expected to delete %d rows, deleted %d", len(duplicateIDs), deleted), nil)
	}

	if err := tx.Commit(); err != nil {
		return nil, dedup.Wrap(dedup.ErrTransaction, "merge", "commit", err)
	}
	return stats, nil
}
