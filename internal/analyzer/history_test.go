package analyzer

import (
	"testing"
	"time"
)

func outcomeAt(t *testing.T, day time.Weekday, hour, likes, comments int, region, festival string) OutcomeRecord {
	t.Helper()
	r := postAt(t, day, hour, likes, comments)
	return OutcomeRecord{
		Product:  "Brass Ganesh Idol",
		Category: "Spiritual Items",
		PostedAt: r.Timestamp,
		Likes:    likes,
		Comments: comments,
		Region:   region,
		Festival: festival,
	}
}

func TestSummarizeHistory_Empty(t *testing.T) {
	p := SummarizeHistory(nil)
	if !p.Empty() || p.Confidence != 0 {
		t.Fatalf("empty history should be unusable, got %+v", p)
	}
}

func TestSummarizeHistory_MirrorsEngagementShape(t *testing.T) {
	records := []OutcomeRecord{
		outcomeAt(t, time.Sunday, 18, 150, 30, "Maharashtra", "Diwali"),
		outcomeAt(t, time.Sunday, 19, 140, 28, "Maharashtra", "Diwali"),
		outcomeAt(t, time.Monday, 9, 10, 1, "Gujarat", ""),
	}
	p := SummarizeHistory(records)
	if len(p.Days) == 0 || p.Days[0] != "Sunday" {
		t.Fatalf("days = %v, want Sunday first", p.Days)
	}
	if p.Window.IsZero() {
		t.Fatal("expected a window from the outcome surface")
	}
	if p.Confidence <= 0 {
		t.Fatalf("confidence = %v, want > 0", p.Confidence)
	}
	// Maharashtra recurs twice and outranks Gujarat.
	if len(p.Regions) != 2 || p.Regions[0] != "Maharashtra" {
		t.Fatalf("regions = %v", p.Regions)
	}
	if len(p.Festivals) != 1 || p.Festivals[0] != "Diwali" {
		t.Fatalf("festivals = %v", p.Festivals)
	}
}

func TestSummarizeHistory_RegionsWithoutTimingStillCount(t *testing.T) {
	records := []OutcomeRecord{
		{Product: "p", Category: "c", Region: "Kerala", Festival: "Onam"},
	}
	p := SummarizeHistory(records)
	if len(p.Regions) != 1 || len(p.Festivals) != 1 {
		t.Fatalf("partial = %+v", p)
	}
	if p.Confidence <= 0 {
		t.Fatal("audience facts alone should yield a small confidence")
	}
	if len(p.Days) != 0 {
		t.Fatalf("no timing data, days = %v", p.Days)
	}
}
