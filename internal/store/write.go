package store

import (
	"context"
	"fmt"

	"github.com/roach88/designrail/internal/rail"
)

// Append stores a decision and returns it as it will be loaded back:
// AcceptedAt truncated to milliseconds in UTC.
//
// The seq is assigned inside the same transaction as the insert. A decision
// whose id is already stored returns ErrDuplicate and writes nothing.
func (s *Store) Append(ctx context.Context, node rail.DecisionNode) (rail.DecisionNode, error) {
	if node.ID == "" {
		return rail.DecisionNode{}, fmt.Errorf("append decision: empty id")
	}
	snapshot, hash, err := marshalSnapshot(node.CardSnapshot)
	if err != nil {
		return rail.DecisionNode{}, fmt.Errorf("append decision %s: %w", node.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rail.DecisionNode{}, fmt.Errorf("append decision: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM decisions`).Scan(&seq); err != nil {
		return rail.DecisionNode{}, fmt.Errorf("append decision: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO decisions
		(id, card_id, parent_id, accepted_at, summary, card_snapshot, card_hash, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		node.ID,
		node.CardID,
		nullString(node.ParentID),
		toMillis(node.AcceptedAt),
		nullString(node.Summary),
		snapshot,
		hash,
		seq,
	)
	if err != nil {
		if isConstraint(err) {
			return rail.DecisionNode{}, fmt.Errorf("append decision %s: %w", node.ID, ErrDuplicate)
		}
		return rail.DecisionNode{}, fmt.Errorf("append decision %s: %w", node.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return rail.DecisionNode{}, fmt.Errorf("append decision: commit: %w", err)
	}

	stored := node
	stored.AcceptedAt = fromMillis(toMillis(node.AcceptedAt))
	return stored, nil
}

// DeleteAll removes every decision. Used for a full-forest reset.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM decisions`); err != nil {
		return fmt.Errorf("delete decisions: %w", err)
	}
	return nil
}
