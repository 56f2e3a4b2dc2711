package analyzer

import "fmt"

// Per-record score weights. Comments signal stronger intent than likes;
// saves sit in between; reach contributes a small volume term.
const (
	likeScore    = 1.0
	commentScore = 2.5
	saveScore    = 2.0
	reachDivisor = 200.0
)

// Day rows within this fraction of the best row count as the top tier.
const dayTierRatio = 0.75

// SummarizeEngagement reduces raw post records into a score surface plus a
// confidence. Confidence is 0 for an empty set and saturates with sample
// count so a handful of posts does not claim full trust.
func SummarizeEngagement(records []EngagementRecord) (EngagementSurface, float64) {
	var surface EngagementSurface
	if len(records) == 0 {
		return surface, 0
	}
	for _, r := range records {
		ts := r.Timestamp
		if ts.IsZero() {
			continue
		}
		d := dayIndex(ts.Weekday())
		h := ts.Hour()
		surface.Score[d][h] += recordScore(r)
		surface.Samples[d][h]++
	}
	return surface, sampleConfidence(surface.totalSamples())
}

func recordScore(r EngagementRecord) float64 {
	s := likeScore*float64(r.Likes) + commentScore*float64(r.Comments) + saveScore*float64(r.Saves)
	if r.Reach > 0 {
		s += float64(r.Reach) / reachDivisor
	}
	return s
}

// sampleConfidence rises with n and flattens out around twenty samples.
func sampleConfidence(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) / float64(n+4)
}

func (s EngagementSurface) totalSamples() int {
	n := 0
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			n += s.Samples[d][h]
		}
	}
	return n
}

func (s EngagementSurface) totalScore() float64 {
	t := 0.0
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			t += s.Score[d][h]
		}
	}
	return t
}

// Recommend extracts a PartialRecommendation from the surface: the top tier
// of weekday rows and the strongest contiguous 2-hour window across them.
// A surface with no positive score yields an all-empty partial with zero
// confidence, regardless of the sample-count confidence passed in.
func (s EngagementSurface) Recommend(confidence float64) PartialRecommendation {
	if s.totalScore() <= 0 {
		return PartialRecommendation{}
	}

	rowTotal := [7]float64{}
	best := 0.0
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			rowTotal[d] += s.Score[d][h]
		}
		if rowTotal[d] > best {
			best = rowTotal[d]
		}
	}

	// Top tier rows, strongest first, earliest weekday on ties, max three.
	order := make([]int, 0, 7)
	for d := 0; d < 7; d++ {
		if rowTotal[d] > 0 && rowTotal[d] >= best*dayTierRatio {
			order = append(order, d)
		}
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && rowTotal[order[j]] > rowTotal[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	if len(order) > 3 {
		order = order[:3]
	}

	days := make([]string, len(order))
	for i, d := range order {
		days[i] = weekdayNames[d]
	}

	// Best 2-hour window summed over the chosen rows, earliest start on ties.
	var hourly [24]float64
	for _, d := range order {
		for h := 0; h < 24; h++ {
			hourly[h] += s.Score[d][h]
		}
	}
	winStart, winSum := 0, -1.0
	for h := 0; h+2 <= 24; h++ {
		sum := hourly[h] + hourly[h+1]
		if sum > winSum {
			winStart, winSum = h, sum
		}
	}
	window := TimeWindow{StartHour: winStart, EndHour: winStart + 2}

	return PartialRecommendation{
		Days:       days,
		Window:     window,
		Rationale:  engagementRationale(days, window, s.totalSamples()),
		Confidence: confidence,
	}
}

func engagementRationale(days []string, w TimeWindow, samples int) string {
	if len(days) == 0 {
		return ""
	}
	return fmt.Sprintf("posts published on %s between %s and %s drew the strongest likes and comments across %d recent posts",
		joinDays(days), formatHour12(w.StartHour), formatHour12(w.EndHour), samples)
}

func joinDays(days []string) string {
	switch len(days) {
	case 0:
		return ""
	case 1:
		return days[0]
	default:
		out := days[0]
		for _, d := range days[1 : len(days)-1] {
			out += ", " + d
		}
		return out + " and " + days[len(days)-1]
	}
}
