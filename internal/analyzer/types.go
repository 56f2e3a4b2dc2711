package analyzer

import (
	"strings"
	"time"
)

// Request carries the product context one analysis runs against.
type Request struct {
	Product  string   `json:"product_name" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Keywords []string `json:"keywords" validate:"required,min=1,dive,required"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// EngagementRecord is one measured post. Immutable once fetched.
type EngagementRecord struct {
	Timestamp   time.Time
	Likes       int
	Comments    int
	Saves       int
	Reach       int
	Impressions int
}

// OutcomeRecord is one prior publish outcome kept by the business itself.
type OutcomeRecord struct {
	Product  string
	Category string
	PostedAt time.Time
	Likes    int
	Comments int
	Saves    int
	Reach    int
	Region   string
	Festival string
}

// EngagementSurface is a day-of-week x hour-of-day score grid. Samples is the
// parallel coverage grid: a zero score with samples is a measured zero, a zero
// score without samples is unknown.
type EngagementSurface struct {
	Score   [7][24]float64
	Samples [7][24]int
}

// TimeWindow is a half-open [StartHour, EndHour) range on a 24h clock,
// both bounds on the same calendar day.
type TimeWindow struct {
	StartHour int
	EndHour   int
}

func (w TimeWindow) IsZero() bool { return w.StartHour == 0 && w.EndHour == 0 }

// Hours returns the window width.
func (w TimeWindow) Hours() int { return w.EndHour - w.StartHour }

// Overlaps reports whether two non-zero windows share at least one hour.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	if w.IsZero() || o.IsZero() {
		return false
	}
	return w.StartHour < o.EndHour && o.StartHour < w.EndHour
}

// PartialRecommendation is the common shape every source is reduced to before
// fusion. Confidence is how much of the shape the source actually populated.
type PartialRecommendation struct {
	Days       []string
	Window     TimeWindow
	Regions    []string
	Festivals  []string
	Seasons    []string
	Rationale  string
	Confidence float64
}

// Empty reports whether the partial carries no usable signal at all.
func (p PartialRecommendation) Empty() bool {
	return len(p.Days) == 0 && p.Window.IsZero() && len(p.Regions) == 0 &&
		len(p.Festivals) == 0 && len(p.Seasons) == 0 && strings.TrimSpace(p.Rationale) == ""
}

// SourceWeights is the per-request trust split. Sums to 1.0 after allocation.
type SourceWeights struct {
	Engagement float64
	Insight    float64
	History    float64
}

// FinalRecommendation is the fused result, the only entity crossing the
// system boundary (via Assemble).
type FinalRecommendation struct {
	Product        string
	Category       string
	Days           []string
	Window         TimeWindow
	Regions        []string
	Seasons        []string
	Festivals      []string
	Reasoning      string
	CulturalNote   string
	ImprovementPct int
}

// weekdayNames is the canonical Monday-first order used for day ranking and
// tie-breaking everywhere in the analyzer.
var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// dayIndex maps a time.Weekday (Sunday=0) onto the Monday-first row index.
func dayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// dayIndexByName resolves a canonical or loosely cased weekday name.
// Returns -1 when the name is not a weekday.
func dayIndexByName(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range weekdayNames {
		ln := strings.ToLower(n)
		if name == ln || name == ln[:3] || name == ln+"s" {
			return i
		}
	}
	return -1
}
