// Package analytics orchestrates one best-time-to-post analysis per request:
// it hands the request to the analyzer, streams progress to watchers and
// archives the finished report.
package analytics

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"postpulse/internal/analyzer"
	"postpulse/internal/gateway/repository/archive"
)

const archiveTimeout = 10 * time.Second

// OutcomeRecorder is the history store's write path.
type OutcomeRecorder interface {
	Record(ctx context.Context, rec analyzer.OutcomeRecord) error
}

type Service struct {
	analyzer *analyzer.Analyzer
	archive  archive.Store
	outcomes OutcomeRecorder
	hub      *Hub
}

// New wires the analyzer's progress callback into the hub. archiveStore and
// outcomes may be nil; the matching features are then disabled.
func New(a *analyzer.Analyzer, archiveStore archive.Store, outcomes OutcomeRecorder, hub *Hub) *Service {
	if hub == nil {
		hub = NewHub()
	}
	a.OnProgress = hub.Publish
	return &Service{
		analyzer: a,
		archive:  archiveStore,
		outcomes: outcomes,
		hub:      hub,
	}
}

func (s *Service) Hub() *Hub { return s.hub }

// Analyze runs one analysis. Clients that want to watch progress supply
// their own analysis id (any UUID) and attach to the watch stream while the
// analysis runs, or within the hub's grace window after it; anything else
// gets a fresh id. The id is returned even on failure so clients can
// correlate watch streams with errors.
func (s *Service) Analyze(ctx context.Context, requestedID string, req analyzer.Request) (string, analyzer.Response, error) {
	analysisID := normalizeAnalysisID(requestedID)
	s.hub.Open(analysisID)
	defer s.hub.Close(analysisID)

	resp, err := s.analyzer.Analyze(ctx, analysisID, req)
	if err != nil {
		return analysisID, analyzer.Response{}, err
	}
	s.archiveReport(analysisID, resp)
	return analysisID, resp, nil
}

func normalizeAnalysisID(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested != "" {
		if id, err := uuid.Parse(requested); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

// Report returns one archived recommendation report.
func (s *Service) Report(ctx context.Context, analysisID string) ([]byte, error) {
	if s.archive == nil {
		return nil, archive.ErrNotFound
	}
	return s.archive.Get(ctx, analysisID)
}

// Reports lists the archived analysis ids.
func (s *Service) Reports(ctx context.Context) ([]string, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.List(ctx)
}

// RecordOutcome stores one published-post outcome for future analyses.
func (s *Service) RecordOutcome(ctx context.Context, rec analyzer.OutcomeRecord) error {
	if s.outcomes == nil {
		return nil
	}
	return s.outcomes.Record(ctx, rec)
}

// archiveReport is best-effort and off the request path.
func (s *Service) archiveReport(analysisID string, resp analyzer.Response) {
	if s.archive == nil {
		return
	}
	report, err := json.Marshal(resp)
	if err != nil {
		log.Printf("analytics: marshal report %s: %v", analysisID, err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := s.archive.Put(ctx, analysisID, report); err != nil {
			log.Printf("analytics: archive report %s: %v", analysisID, err)
		}
	}()
}

// SampleRequest is the canned product used by the test endpoint.
func SampleRequest() analyzer.Request {
	return analyzer.Request{
		Product:  "Silver Oxidized Jhumkas",
		Category: "Jewelry",
		Keywords: []string{"silver", "jhumka", "handmade"},
		Hashtags: []string{"#silverjewelry", "#jhumkalove"},
	}
}
