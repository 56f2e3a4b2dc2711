// Package analyzer fuses measured engagement, generative cultural insight
// and historical outcome records into one posting-time recommendation.
package analyzer

import (
	"context"
	"log"
	"sync"
	"time"
)

// EngagementFetcher returns recent post-level engagement records for the
// product context. May fail or return an empty set.
type EngagementFetcher interface {
	RecentMedia(ctx context.Context, req Request) ([]EngagementRecord, error)
}

// InsightGenerator returns one natural-language answer for the product
// context. Never parsed here; the extractor owns that.
type InsightGenerator interface {
	CulturalInsight(ctx context.Context, req Request) (string, error)
}

// HistoryReader returns prior publish outcomes for the product/category.
type HistoryReader interface {
	Outcomes(ctx context.Context, product, category string) ([]OutcomeRecord, error)
}

const defaultSourceTimeout = 12 * time.Second

// Analyzer runs one request end to end. All state is request-scoped; a
// single Analyzer value is safe for concurrent use.
type Analyzer struct {
	Engagement EngagementFetcher
	Insight    InsightGenerator
	History    HistoryReader

	// SourceTimeout bounds each adapter call. Zero means the default.
	SourceTimeout time.Duration

	// OnProgress, when set, receives per-source progress events.
	OnProgress ProgressFunc
}

// Analyze invokes the three sources concurrently, reduces each to a partial
// recommendation, allocates trust weights from the resulting confidences and
// fuses the partials. Per-source failures degrade the result; the only
// fatal condition is ErrAllSourcesUnavailable.
func (a *Analyzer) Analyze(ctx context.Context, analysisID string, req Request) (Response, error) {
	a.emit(analysisID, "", StageStarted, "")

	var (
		wg                           sync.WaitGroup
		engagement, insight, history PartialRecommendation
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		engagement = a.engagementPartial(ctx, analysisID, req)
	}()
	go func() {
		defer wg.Done()
		insight = a.insightPartial(ctx, analysisID, req)
	}()
	go func() {
		defer wg.Done()
		history = a.historyPartial(ctx, analysisID, req)
	}()
	wg.Wait()

	// Caller went away: discard whatever the sources produced.
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	weights, err := AllocateWeights(engagement.Confidence, insight.Confidence, history.Confidence)
	if err != nil {
		log.Printf("analyzer: %s: no usable source, aborting analysis", analysisID)
		a.emit(analysisID, "", StageUnavailable, "all sources unavailable")
		return Response{}, err
	}

	rec, err := Fuse(req, engagement, insight, history, weights)
	if err != nil {
		log.Printf("analyzer: %s: fusion failed: %v", analysisID, err)
		return Response{}, err
	}
	a.emit(analysisID, "", StageFused, "")

	resp := Assemble(rec)
	a.emit(analysisID, "", StageDone, "")
	return resp, nil
}

func (a *Analyzer) engagementPartial(ctx context.Context, analysisID string, req Request) PartialRecommendation {
	const source = "engagement"
	if a.Engagement == nil {
		a.degraded(analysisID, source, "not configured")
		return PartialRecommendation{}
	}
	ctx, cancel := a.sourceContext(ctx)
	defer cancel()

	records, err := a.Engagement.RecentMedia(ctx, req)
	if err != nil {
		a.degraded(analysisID, source, err.Error())
		return PartialRecommendation{}
	}
	surface, confidence := SummarizeEngagement(records)
	partial := surface.Recommend(confidence)
	a.resolved(analysisID, source, partial)
	return partial
}

func (a *Analyzer) insightPartial(ctx context.Context, analysisID string, req Request) PartialRecommendation {
	const source = "insight"
	if a.Insight == nil {
		a.degraded(analysisID, source, "not configured")
		return PartialRecommendation{}
	}
	ctx, cancel := a.sourceContext(ctx)
	defer cancel()

	text, err := a.Insight.CulturalInsight(ctx, req)
	if err != nil {
		a.degraded(analysisID, source, err.Error())
		return PartialRecommendation{}
	}
	partial := ExtractInsight(text)
	a.resolved(analysisID, source, partial)
	return partial
}

func (a *Analyzer) historyPartial(ctx context.Context, analysisID string, req Request) PartialRecommendation {
	const source = "history"
	if a.History == nil {
		a.degraded(analysisID, source, "not configured")
		return PartialRecommendation{}
	}
	ctx, cancel := a.sourceContext(ctx)
	defer cancel()

	records, err := a.History.Outcomes(ctx, req.Product, req.Category)
	if err != nil {
		a.degraded(analysisID, source, err.Error())
		return PartialRecommendation{}
	}
	partial := SummarizeHistory(records)
	a.resolved(analysisID, source, partial)
	return partial
}

func (a *Analyzer) sourceContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := a.SourceTimeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// degraded records a recoverable per-source failure. Deliberately distinct
// from the fatal all-sources log line so operators can tell a degraded
// recommendation from no recommendation.
func (a *Analyzer) degraded(analysisID, source, reason string) {
	log.Printf("analyzer: %s: %s source unusable (degraded): %s", analysisID, source, reason)
	a.emit(analysisID, source, StageUnavailable, reason)
}

func (a *Analyzer) resolved(analysisID, source string, p PartialRecommendation) {
	if p.Confidence <= 0 {
		a.degraded(analysisID, source, "no usable signal")
		return
	}
	a.emit(analysisID, source, StageReady, "")
}

func (a *Analyzer) emit(analysisID, source, stage, detail string) {
	if a.OnProgress == nil {
		return
	}
	a.OnProgress(ProgressEvent{
		AnalysisID: analysisID,
		Source:     source,
		Stage:      stage,
		Detail:     detail,
		At:         time.Now(),
	})
}
