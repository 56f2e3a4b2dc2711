package analyzer

import (
	"math"
	"sort"
	"strings"
)

const (
	maxWindowHours    = 3
	dayVoteTierRatio  = 0.2
	maxDaysKept       = 3
	maxImprovementPct = 90
	minImprovementPct = 5
	maxReasoningLen   = 600
)

const fallbackReasoning = "Recommendation based on the strongest posting windows observed across the available signals."

type weightedSource struct {
	label   string
	partial PartialRecommendation
	weight  float64
}

// Fuse merges the three partial recommendations under the allocated weights.
// It never fails on partial data; the only failure mode is every partial
// being entirely empty, which collapses to the same fatal condition the
// weight allocator reports.
func Fuse(req Request, engagement, insight, history PartialRecommendation, w SourceWeights) (FinalRecommendation, error) {
	if engagement.Empty() && insight.Empty() && history.Empty() {
		return FinalRecommendation{}, ErrAllSourcesUnavailable
	}

	sources := []weightedSource{
		{label: "Engagement data", partial: engagement, weight: w.Engagement},
		{label: "Cultural insight", partial: insight, weight: w.Insight},
		{label: "Past performance", partial: history, weight: w.History},
	}
	sort.SliceStable(sources, func(i, j int) bool { return sources[i].weight > sources[j].weight })

	days := fuseDays(sources)
	window := fuseWindow(sources)

	rec := FinalRecommendation{
		Product:      req.Product,
		Category:     req.Category,
		Days:         days,
		Window:       window,
		Regions:      fuseNamed(sources, func(p PartialRecommendation) []string { return p.Regions }),
		Seasons:      fuseNamed(sources, func(p PartialRecommendation) []string { return p.Seasons }),
		Festivals:    fuseNamed(sources, func(p PartialRecommendation) []string { return p.Festivals }),
		Reasoning:    fuseReasoning(sources),
		CulturalNote: strings.TrimSpace(insight.Rationale),
		ImprovementPct: improvementEstimate(
			availableMass(engagement.Confidence, insight.Confidence, history.Confidence),
			sources,
		),
	}
	return rec, nil
}

// fuseDays lets each source split its weight evenly across the days it
// names and ranks days by accumulated vote, canonical Monday-first order
// breaking ties. Days within the vote-mass tier of the leader are kept,
// between one and maxDaysKept of them.
func fuseDays(sources []weightedSource) []string {
	var votes [7]float64
	total := 0.0
	for _, s := range sources {
		if s.weight <= 0 || len(s.partial.Days) == 0 {
			continue
		}
		share := s.weight / float64(len(s.partial.Days))
		for _, name := range s.partial.Days {
			if idx := dayIndexByName(name); idx >= 0 {
				votes[idx] += share
				total += share
			}
		}
	}
	if total <= 0 {
		return nil
	}

	order := make([]int, 0, 7)
	for d := 0; d < 7; d++ {
		if votes[d] > 0 {
			order = append(order, d)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		if votes[order[i]] != votes[order[j]] {
			return votes[order[i]] > votes[order[j]]
		}
		return order[i] < order[j]
	})

	top := votes[order[0]]
	kept := make([]string, 0, maxDaysKept)
	for _, d := range order {
		if len(kept) >= maxDaysKept {
			break
		}
		if len(kept) > 0 && votes[d] < dayVoteTierRatio*top {
			break
		}
		kept = append(kept, weekdayNames[d])
	}
	return kept
}

// fuseWindow computes a weighted hour coverage from all source windows and
// picks the heaviest fully covered contiguous run of at most maxWindowHours.
// On equal coverage the run holding the heaviest source's midpoint wins,
// then the earlier start.
func fuseWindow(sources []weightedSource) TimeWindow {
	var cover [24]float64
	any := false
	heavyMid := -1.0
	for _, s := range sources {
		win := s.partial.Window
		if s.weight <= 0 || win.IsZero() {
			continue
		}
		any = true
		if heavyMid < 0 {
			// Sources are sorted by weight, so the first window seen
			// belongs to the heaviest source naming one.
			heavyMid = float64(win.StartHour+win.EndHour) / 2
		}
		for h := win.StartHour; h < win.EndHour && h < 24; h++ {
			cover[h] += s.weight
		}
	}
	if !any {
		return TimeWindow{}
	}

	const eps = 1e-9
	best := TimeWindow{}
	bestSum := -1.0
	bestHolds := false
	for start := 0; start < 24; start++ {
		sum := 0.0
		for width := 1; width <= maxWindowHours && start+width <= 24; width++ {
			h := start + width - 1
			if cover[h] <= 0 {
				break
			}
			sum += cover[h]
			cand := TimeWindow{StartHour: start, EndHour: start + width}
			holds := heavyMid >= float64(cand.StartHour) && heavyMid <= float64(cand.EndHour)
			switch {
			case sum > bestSum+eps:
			case sum > bestSum-eps && holds && !bestHolds:
			default:
				continue
			}
			best, bestSum, bestHolds = cand, sum, holds
		}
	}
	return best
}

// fuseNamed unions a string-valued field across sources, ordered by the
// descending total weight of the sources naming each value, deduplicated
// case-insensitively keeping the first-seen casing.
func fuseNamed(sources []weightedSource, field func(PartialRecommendation) []string) []string {
	type entry struct {
		value  string
		weight float64
		order  int
	}
	byKey := map[string]*entry{}
	entries := make([]*entry, 0, 8)
	for _, s := range sources {
		if s.weight <= 0 {
			continue
		}
		for _, v := range field(s.partial) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			key := strings.ToLower(v)
			e, ok := byKey[key]
			if !ok {
				e = &entry{value: v, order: len(entries)}
				byKey[key] = e
				entries = append(entries, e)
			}
			e.weight += s.weight
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].weight != entries[j].weight {
			return entries[i].weight > entries[j].weight
		}
		return entries[i].order < entries[j].order
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}

// fuseReasoning concatenates rationales in descending weight order, each
// prefixed with the kind of signal that produced it, capped in length.
func fuseReasoning(sources []weightedSource) string {
	var parts []string
	for _, s := range sources {
		r := strings.TrimSpace(s.partial.Rationale)
		if s.weight <= 0 || r == "" {
			continue
		}
		if !strings.HasSuffix(r, ".") {
			r += "."
		}
		parts = append(parts, s.label+": "+upperFirst(r))
	}
	if len(parts) == 0 {
		return fallbackReasoning
	}
	out := strings.Join(parts, " ")
	if len(out) > maxReasoningLen {
		out = strings.TrimSpace(out[:maxReasoningLen]) + "…"
	}
	return out
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// improvementEstimate maps the trust mass actually backing the request and
// the agreement between sources onto the published percentage. Monotone in
// both, capped at maxImprovementPct; documented in DESIGN.md.
func improvementEstimate(mass float64, sources []weightedSource) int {
	if mass <= 0 {
		return 0
	}
	agreement := sourceAgreement(sources)
	pct := int(math.Round(maxImprovementPct * mass * (0.55 + 0.45*agreement)))
	if pct < minImprovementPct {
		pct = minImprovementPct
	}
	if pct > maxImprovementPct {
		pct = maxImprovementPct
	}
	return pct
}

// sourceAgreement is the weight-weighted pairwise overlap of day sets and
// time windows across usable sources, in [0,1]. A single usable source has
// no pairs and scores 0.
func sourceAgreement(sources []weightedSource) float64 {
	usable := make([]weightedSource, 0, 3)
	for _, s := range sources {
		if s.weight > 0 && !s.partial.Empty() {
			usable = append(usable, s)
		}
	}
	num, den := 0.0, 0.0
	for i := 0; i < len(usable); i++ {
		for j := i + 1; j < len(usable); j++ {
			pw := usable[i].weight * usable[j].weight
			num += pw * pairAgreement(usable[i].partial, usable[j].partial)
			den += pw
		}
	}
	if den <= 0 {
		return 0
	}
	return num / den
}

func pairAgreement(a, b PartialRecommendation) float64 {
	score, n := 0.0, 0
	if len(a.Days) > 0 && len(b.Days) > 0 {
		score += dayJaccard(a.Days, b.Days)
		n++
	}
	if !a.Window.IsZero() && !b.Window.IsZero() {
		score += windowOverlapRatio(a.Window, b.Window)
		n++
	}
	if n == 0 {
		return 0
	}
	return score / float64(n)
}

func dayJaccard(a, b []string) float64 {
	var setA, setB, union, inter int
	var inA, inB [7]bool
	for _, d := range a {
		if idx := dayIndexByName(d); idx >= 0 && !inA[idx] {
			inA[idx] = true
			setA++
		}
	}
	for _, d := range b {
		if idx := dayIndexByName(d); idx >= 0 && !inB[idx] {
			inB[idx] = true
			setB++
		}
	}
	if setA == 0 || setB == 0 {
		return 0
	}
	for i := 0; i < 7; i++ {
		if inA[i] || inB[i] {
			union++
		}
		if inA[i] && inB[i] {
			inter++
		}
	}
	return float64(inter) / float64(union)
}

func windowOverlapRatio(a, b TimeWindow) float64 {
	lo := a.StartHour
	if b.StartHour > lo {
		lo = b.StartHour
	}
	hi := a.EndHour
	if b.EndHour < hi {
		hi = b.EndHour
	}
	overlap := hi - lo
	if overlap <= 0 {
		return 0
	}
	unionLo := a.StartHour
	if b.StartHour < unionLo {
		unionLo = b.StartHour
	}
	unionHi := a.EndHour
	if b.EndHour > unionHi {
		unionHi = b.EndHour
	}
	return float64(overlap) / float64(unionHi-unionLo)
}
