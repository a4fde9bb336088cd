package catalog

import (
	"context"
	"fmt"

	"folio/internal/dedup"
)

// entityTable maps an entity kind to its backing table. Table names are fixed
// here; nothing user-supplied ever reaches a query as an identifier.
func entityTable(kind dedup.Kind) (string, error) {
	switch kind {
	case dedup.KindPerson:
		return "people", nil
	case dedup.KindPublisher:
		return "publishers", nil
	case dedup.KindSeries:
		return "series", nil
	case dedup.KindTag:
		return "tags", nil
	}
	return "", fmt.Errorf("unknown entity kind %q", kind)
}

// Entities loads current rows for a kind as dedup records. Implements
// dedup.Loader. Ids are stable and display text is returned exactly as
// stored; canonicalization is the engine's job.
func (s *Store) Entities(ctx context.Context, kind dedup.Kind) ([]dedup.Record, error) {
	ctx = ensureContext(ctx)
	table, err := entityTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var records []dedup.Record
	for rows.Next() {
		var rec dedup.Record
		if err := rows.Scan(&rec.ID, &rec.DisplayText); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return records, nil
}
