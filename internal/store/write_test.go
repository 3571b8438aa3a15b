package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/rail"
)

func TestAppend_AssignsSequentialSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		parent := ""
		if i > 0 {
			parent = "a"
		}
		if _, err := s.Append(ctx, createTestDecision(id, parent, time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("Append(%s) failed: %v", id, err)
		}
	}

	rows, err := s.db.Query("SELECT id, seq FROM decisions ORDER BY seq")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	defer rows.Close()

	want := []string{"a", "b", "c"}
	i := 0
	for rows.Next() {
		var id string
		var seq int64
		if err := rows.Scan(&id, &seq); err != nil {
			t.Fatal(err)
		}
		if id != want[i] || seq != int64(i+1) {
			t.Errorf("row %d = (%s, %d), want (%s, %d)", i, id, seq, want[i], i+1)
		}
		i++
	}
	if i != 3 {
		t.Errorf("got %d rows, want 3", i)
	}
}

func TestAppend_Duplicate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Append(ctx, createTestDecision("a", "", 0)); err != nil {
		t.Fatalf("first Append failed: %v", err)
	}
	_, err := s.Append(ctx, createTestDecision("a", "", time.Second))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second Append error = %v, want ErrDuplicate", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestAppend_TruncatesToMillis(t *testing.T) {
	s := createTestStore(t)
	d := createTestDecision("a", "", 1234567*time.Nanosecond)

	stored, err := s.Append(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	want := testEpoch.Add(time.Millisecond)
	if !stored.AcceptedAt.Equal(want) {
		t.Errorf("AcceptedAt = %v, want %v", stored.AcceptedAt, want)
	}
}

func TestAppend_StoresCanonicalSnapshot(t *testing.T) {
	s := createTestStore(t)
	d := createTestDecision("a", "", 0)

	if _, err := s.Append(context.Background(), d); err != nil {
		t.Fatal(err)
	}

	var snapshot, hash string
	if err := s.db.QueryRow("SELECT card_snapshot, card_hash FROM decisions WHERE id = 'a'").Scan(&snapshot, &hash); err != nil {
		t.Fatal(err)
	}
	want, err := card.EncodeCanonical(d.CardSnapshot)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot != string(want) {
		t.Errorf("snapshot = %s\nwant %s", snapshot, want)
	}
	wantHash, _ := card.ContentHash(d.CardSnapshot)
	if hash != wantHash {
		t.Errorf("hash = %s, want %s", hash, wantHash)
	}
}

func TestAppend_Rejects(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Append(ctx, rail.DecisionNode{CardSnapshot: createTestDecision("x", "", 0).CardSnapshot}); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := s.Append(ctx, rail.DecisionNode{ID: "x"}); err == nil {
		t.Error("expected error for missing snapshot")
	}
}

func TestDeleteAll(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if _, err := s.Append(ctx, createTestDecision(id, "", 0)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}

	nodes, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 0 {
		t.Errorf("LoadAll after DeleteAll = %d nodes, want 0", len(nodes))
	}

	// ids are free again after a reset
	if _, err := s.Append(ctx, createTestDecision("a", "", 0)); err != nil {
		t.Errorf("Append after DeleteAll failed: %v", err)
	}
}
