package analyzer

import "errors"

// ErrAllSourcesUnavailable is the single fatal analyzer condition: every
// source resolved with zero confidence, so no recommendation is possible.
var ErrAllSourcesUnavailable = errors.New("analyzer: all sources unavailable")

// Base trust split across sources when everything is fully available.
const (
	baseEngagementWeight = 0.5
	baseInsightWeight    = 0.3
	baseHistoryWeight    = 0.2
)

// AllocateWeights turns the three per-source confidences into the effective
// trust split for this request. Each base weight is scaled by its source's
// confidence and the result is renormalized to sum 1.0, which hands the mass
// of degraded sources to the survivors in proportion to their base weights.
func AllocateWeights(engagement, insight, history float64) (SourceWeights, error) {
	e := baseEngagementWeight * clamp01(engagement)
	i := baseInsightWeight * clamp01(insight)
	h := baseHistoryWeight * clamp01(history)

	total := e + i + h
	if total <= 0 {
		return SourceWeights{}, ErrAllSourcesUnavailable
	}
	return SourceWeights{
		Engagement: e / total,
		Insight:    i / total,
		History:    h / total,
	}, nil
}

// availableMass is the pre-normalization trust actually backing a request,
// in (0, 1]. Fusion uses it to bound the published improvement estimate.
func availableMass(engagement, insight, history float64) float64 {
	return baseEngagementWeight*clamp01(engagement) +
		baseInsightWeight*clamp01(insight) +
		baseHistoryWeight*clamp01(history)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
