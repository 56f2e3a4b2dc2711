package analyzer

import "strings"

// SummarizeHistory reduces the business's own outcome records into a partial
// recommendation. The day/hour treatment mirrors SummarizeEngagement; on top
// of it, regions and festivals recorded with past wins are carried through,
// ordered by how often they recur.
func SummarizeHistory(records []OutcomeRecord) PartialRecommendation {
	if len(records) == 0 {
		return PartialRecommendation{}
	}

	var surface EngagementSurface
	regionCount := map[string]int{}
	regionFirst := map[string]string{}
	festivalCount := map[string]int{}
	festivalFirst := map[string]string{}

	for _, r := range records {
		if !r.PostedAt.IsZero() {
			d := dayIndex(r.PostedAt.Weekday())
			h := r.PostedAt.Hour()
			surface.Score[d][h] += recordScore(EngagementRecord{
				Likes:    r.Likes,
				Comments: r.Comments,
				Saves:    r.Saves,
				Reach:    r.Reach,
			})
			surface.Samples[d][h]++
		}
		countNamed(regionCount, regionFirst, r.Region)
		countNamed(festivalCount, festivalFirst, r.Festival)
	}

	partial := surface.Recommend(sampleConfidence(surface.totalSamples()))
	partial.Regions = rankNamed(regionCount, regionFirst)
	partial.Festivals = rankNamed(festivalCount, festivalFirst)
	if partial.Confidence == 0 && (len(partial.Regions) > 0 || len(partial.Festivals) > 0) {
		// Outcomes with no usable timing still say something about audience.
		partial.Confidence = sampleConfidence(len(records)) / 2
	}
	if len(partial.Days) > 0 {
		partial.Rationale = strings.Replace(partial.Rationale, "recent posts", "recorded outcomes", 1)
	}
	return partial
}

func countNamed(count map[string]int, first map[string]string, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if _, seen := first[key]; !seen {
		first[key] = name
	}
	count[key]++
}

// rankNamed orders values by descending recurrence, keeping the casing of
// the first occurrence. Ties resolve alphabetically for determinism.
func rankNamed(count map[string]int, first map[string]string) []string {
	keys := make([]string, 0, len(count))
	for k := range count {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			a, b := keys[j], keys[j-1]
			if count[a] > count[b] || (count[a] == count[b] && a < b) {
				keys[j], keys[j-1] = keys[j-1], keys[j]
			} else {
				break
			}
		}
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = first[k]
	}
	return out
}
