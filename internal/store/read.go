package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/designrail/internal/rail"
)

const decisionColumns = `id, card_id, parent_id, accepted_at, summary, card_snapshot, card_hash`

// LoadAll returns every decision in acceptance order (seq ASC).
//
// Returns an empty slice (not nil) for an empty store.
func (s *Store) LoadAll(ctx context.Context) ([]rail.DecisionNode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+decisionColumns+`
		FROM decisions
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	nodes := []rail.DecisionNode{}
	for rows.Next() {
		n, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return nodes, nil
}

// Count returns the number of stored decisions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count decisions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(row scanner) (rail.DecisionNode, error) {
	var (
		n               rail.DecisionNode
		parent, summary sql.NullString
		acceptedAt      int64
		snapshot, hash  string
	)
	if err := row.Scan(&n.ID, &n.CardID, &parent, &acceptedAt, &summary, &snapshot, &hash); err != nil {
		return rail.DecisionNode{}, fmt.Errorf("scan decision: %w", err)
	}
	c, err := unmarshalSnapshot(snapshot, hash)
	if err != nil {
		return rail.DecisionNode{}, fmt.Errorf("decision %s: %w", n.ID, err)
	}
	n.ParentID = stringPtr(parent)
	n.Summary = stringPtr(summary)
	n.AcceptedAt = fromMillis(acceptedAt)
	n.CardSnapshot = c
	return n, nil
}
