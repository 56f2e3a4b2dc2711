package analyzer

import (
	"fmt"
	"strings"
)

// Response is the flat external schema. It never carries per-source
// confidences, surfaces or other analyzer internals.
type Response struct {
	Product                       string   `json:"product"`
	Category                      string   `json:"category"`
	TargetRegion                  []string `json:"target_region"`
	BestTimeToPost                string   `json:"best_time_to_post"`
	BestDays                      []string `json:"best_days"`
	ExpectedEngagementImprovement string   `json:"expected_engagement_improvement"`
	SeasonSpike                   []string `json:"season_spike"`
	Festivals                     []string `json:"festivals"`
	Reasoning                     string   `json:"reasoning"`
	CulturalInsights              string   `json:"cultural_insights"`
}

// Assemble maps a FinalRecommendation 1:1 onto the external schema.
// Pure and total: it cannot fail for a valid recommendation.
func Assemble(rec FinalRecommendation) Response {
	return Response{
		Product:                       rec.Product,
		Category:                      rec.Category,
		TargetRegion:                  emptyIfNil(rec.Regions),
		BestTimeToPost:                formatBestTime(rec.Days, rec.Window),
		BestDays:                      emptyIfNil(rec.Days),
		ExpectedEngagementImprovement: formatImprovement(rec.ImprovementPct),
		SeasonSpike:                   emptyIfNil(rec.Seasons),
		Festivals:                     emptyIfNil(rec.Festivals),
		Reasoning:                     rec.Reasoning,
		CulturalInsights:              rec.CulturalNote,
	}
}

// formatBestTime renders "Friday, Saturday | 7:00pm-9:00pm". Either half is
// omitted when the fusion produced nothing for it.
func formatBestTime(days []string, w TimeWindow) string {
	dayPart := strings.Join(days, ", ")
	if w.IsZero() {
		return dayPart
	}
	timePart := formatHour12(w.StartHour) + "-" + formatHour12(w.EndHour)
	if dayPart == "" {
		return timePart
	}
	return dayPart + " | " + timePart
}

func formatImprovement(pct int) string {
	if pct <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d%%", pct)
}

func formatHour12(h int) string {
	suffix := "am"
	display := h % 24
	if display >= 12 {
		suffix = "pm"
	}
	display %= 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:00%s", display, suffix)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
