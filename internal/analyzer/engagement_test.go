package analyzer

import (
	"testing"
	"time"
)

// postAt builds a record on the given weekday/hour of a fixed reference week.
func postAt(t *testing.T, day time.Weekday, hour, likes, comments int) EngagementRecord {
	t.Helper()
	// 2025-06-02 is a Monday.
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	ts := base.AddDate(0, 0, dayIndex(day)).Add(time.Duration(hour) * time.Hour)
	if ts.Weekday() != day {
		t.Fatalf("fixture bug: got %v want %v", ts.Weekday(), day)
	}
	return EngagementRecord{Timestamp: ts, Likes: likes, Comments: comments}
}

func TestSummarizeEngagement_EmptySet(t *testing.T) {
	surface, confidence := SummarizeEngagement(nil)
	if confidence != 0 {
		t.Fatalf("confidence = %v, want 0", confidence)
	}
	if surface.totalSamples() != 0 {
		t.Fatal("expected empty surface")
	}
}

func TestSummarizeEngagement_Idempotent(t *testing.T) {
	records := []EngagementRecord{
		postAt(t, time.Friday, 19, 120, 30),
		postAt(t, time.Friday, 20, 90, 22),
		postAt(t, time.Tuesday, 9, 15, 1),
	}
	s1, c1 := SummarizeEngagement(records)
	s2, c2 := SummarizeEngagement(records)
	if s1 != s2 {
		t.Fatal("re-summarizing the same records changed the surface")
	}
	if c1 != c2 {
		t.Fatalf("confidence drifted: %v vs %v", c1, c2)
	}
}

func TestSummarizeEngagement_CoverageDistinguishesZeroFromUnknown(t *testing.T) {
	records := []EngagementRecord{
		postAt(t, time.Monday, 8, 0, 0), // a measured flop
	}
	surface, _ := SummarizeEngagement(records)
	d := dayIndex(time.Monday)
	if surface.Samples[d][8] != 1 {
		t.Fatalf("sampled cell count = %d, want 1", surface.Samples[d][8])
	}
	if surface.Score[d][8] != 0 {
		t.Fatalf("score = %v, want 0", surface.Score[d][8])
	}
	if surface.Samples[d][9] != 0 {
		t.Fatal("unsampled cell should have zero coverage")
	}
}

func TestSummarizeEngagement_ConfidenceSaturates(t *testing.T) {
	few := make([]EngagementRecord, 3)
	many := make([]EngagementRecord, 25)
	for i := range few {
		few[i] = postAt(t, time.Friday, 19, 10, 2)
	}
	for i := range many {
		many[i] = postAt(t, time.Friday, 19, 10, 2)
	}
	_, cFew := SummarizeEngagement(few)
	_, cMany := SummarizeEngagement(many)
	if cFew >= cMany {
		t.Fatalf("confidence should rise with samples: %v vs %v", cFew, cMany)
	}
	if cFew > 0.5 {
		t.Fatalf("three posts should not claim high trust, got %v", cFew)
	}
	if cMany < 0.8 || cMany >= 1 {
		t.Fatalf("many posts should approach but not reach 1, got %v", cMany)
	}
}

func TestRecommend_FridayEveningConcentration(t *testing.T) {
	records := []EngagementRecord{
		postAt(t, time.Friday, 19, 200, 50),
		postAt(t, time.Friday, 20, 180, 45),
		postAt(t, time.Friday, 19, 150, 40),
		postAt(t, time.Monday, 9, 10, 1),
		postAt(t, time.Wednesday, 14, 12, 2),
	}
	surface, confidence := SummarizeEngagement(records)
	p := surface.Recommend(confidence)

	if len(p.Days) == 0 || p.Days[0] != "Friday" {
		t.Fatalf("days = %v, want Friday first", p.Days)
	}
	want := TimeWindow{StartHour: 19, EndHour: 21}
	if p.Window != want {
		t.Fatalf("window = %+v, want %+v", p.Window, want)
	}
	if p.Confidence != confidence {
		t.Fatalf("partial confidence = %v, want %v", p.Confidence, confidence)
	}
	if p.Rationale == "" {
		t.Fatal("expected a rationale for a populated surface")
	}
}

func TestRecommend_TieBreaksToEarliestWeekdayAndHour(t *testing.T) {
	records := []EngagementRecord{
		postAt(t, time.Thursday, 10, 50, 10),
		postAt(t, time.Tuesday, 15, 50, 10),
	}
	surface, confidence := SummarizeEngagement(records)
	p := surface.Recommend(confidence)
	if len(p.Days) != 2 || p.Days[0] != "Tuesday" || p.Days[1] != "Thursday" {
		t.Fatalf("days = %v, want earliest weekday first on tie", p.Days)
	}
	// Equal scores at 10 and 15 across chosen rows: window tie resolves to
	// the earliest start. 9-11 and 10-12 both contain hour 10; 9-11 starts
	// earlier but only 10 contributes, so the first maximal window wins.
	if p.Window.StartHour > 10 {
		t.Fatalf("window = %+v, want earliest maximal start", p.Window)
	}
}

func TestRecommend_ZeroScoreSurfaceIsUnusable(t *testing.T) {
	records := []EngagementRecord{postAt(t, time.Monday, 8, 0, 0)}
	surface, confidence := SummarizeEngagement(records)
	p := surface.Recommend(confidence)
	if !p.Empty() || p.Confidence != 0 {
		t.Fatalf("zero-score surface should be unusable, got %+v", p)
	}
}
