package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/designrail/internal/card"
)

// marshalSnapshot converts a card to canonical JSON TEXT and its content hash.
func marshalSnapshot(c card.Card) (string, string, error) {
	if card.IsNil(c) {
		return "", "", fmt.Errorf("marshal snapshot: nil card")
	}
	data, err := card.EncodeCanonical(c)
	if err != nil {
		return "", "", fmt.Errorf("marshal snapshot: %w", err)
	}
	hash, err := card.ContentHash(c)
	if err != nil {
		return "", "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), hash, nil
}

// unmarshalSnapshot decodes a stored snapshot and checks it against hash.
func unmarshalSnapshot(data, hash string) (card.Card, error) {
	c, err := card.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	got, err := card.ContentHash(c)
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if got != hash {
		return nil, fmt.Errorf("unmarshal snapshot: content hash mismatch: stored %s, computed %s", hash, got)
	}
	return c, nil
}

// toMillis converts a timestamp to Unix milliseconds for storage.
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// fromMillis converts stored Unix milliseconds back to a UTC timestamp.
func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
