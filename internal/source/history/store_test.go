package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"postpulse/internal/analyzer"
)

func fileStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "outcomes.json"))
}

func sampleOutcome(product string, postedAt time.Time) analyzer.OutcomeRecord {
	return analyzer.OutcomeRecord{
		Product:  product,
		Category: "Jewelry",
		PostedAt: postedAt,
		Likes:    120,
		Comments: 18,
		Region:   "Maharashtra",
		Festival: "Diwali",
	}
}

func TestFileStore_RecordAndReadBack(t *testing.T) {
	s := fileStore(t)
	ctx := context.Background()

	older := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 0, 7)
	if err := s.Record(ctx, sampleOutcome("Silver Earrings", older)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(ctx, sampleOutcome("Silver Earrings", newer)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := s.Outcomes(ctx, "silver earrings", "JEWELRY")
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2 (key lookup is case-insensitive)", len(got))
	}
	if !got[0].PostedAt.Equal(newer) {
		t.Fatalf("want most recent first, got %v", got[0].PostedAt)
	}
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outcomes.json")
	ctx := context.Background()

	s := New(path)
	if err := s.Record(ctx, sampleOutcome("Brass Idol", time.Now().UTC())); err != nil {
		t.Fatalf("Record: %v", err)
	}

	reopened := New(path)
	got, err := reopened.Outcomes(ctx, "Brass Idol", "Jewelry")
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records after reopen, want 1", len(got))
	}
}

func TestFileStore_UnknownKeyIsEmptyNotError(t *testing.T) {
	s := fileStore(t)
	got, err := s.Outcomes(context.Background(), "nothing", "here")
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d records, want none", len(got))
	}
}

func TestFileStore_IgnoresBlankKey(t *testing.T) {
	s := fileStore(t)
	if err := s.Record(context.Background(), analyzer.OutcomeRecord{}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got, _ := s.Outcomes(context.Background(), "", ""); len(got) != 0 {
		t.Fatalf("blank key should never store or return records, got %d", len(got))
	}
}
