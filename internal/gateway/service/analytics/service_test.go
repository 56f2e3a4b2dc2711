package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"postpulse/internal/analyzer"
	"postpulse/internal/gateway/repository/archive"
	"postpulse/internal/source/insight"
)

type recorderSpy struct {
	recorded []analyzer.OutcomeRecord
}

func (r *recorderSpy) Record(_ context.Context, rec analyzer.OutcomeRecord) error {
	r.recorded = append(r.recorded, rec)
	return nil
}

func insightOnlyAnalyzer() *analyzer.Analyzer {
	return &analyzer.Analyzer{Insight: insight.FakeGenerator{}}
}

func TestService_AnalyzeReturnsIDAndArchives(t *testing.T) {
	store := archive.NewMemoryStore()
	svc := New(insightOnlyAnalyzer(), store, nil, NewHub())

	id, resp, err := svc.Analyze(context.Background(), "", SampleRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if id == "" {
		t.Fatal("analysis id must not be empty")
	}
	if resp.BestTimeToPost == "" {
		t.Fatalf("response looks empty: %+v", resp)
	}

	// archiving runs off the request path
	deadline := time.Now().Add(2 * time.Second)
	for {
		if report, err := store.Get(context.Background(), id); err == nil && len(report) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("report never reached the archive")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestService_AnalyzeFailureStillReturnsID(t *testing.T) {
	svc := New(&analyzer.Analyzer{}, nil, nil, NewHub())
	id, _, err := svc.Analyze(context.Background(), "", SampleRequest())
	if err == nil {
		t.Fatal("no sources configured, want error")
	}
	if id == "" {
		t.Fatal("analysis id must be set even on failure")
	}
}

func TestService_RecordOutcome(t *testing.T) {
	spy := &recorderSpy{}
	svc := New(insightOnlyAnalyzer(), nil, spy, NewHub())
	rec := analyzer.OutcomeRecord{Product: "p", Category: "c", Likes: 10}
	if err := svc.RecordOutcome(context.Background(), rec); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if len(spy.recorded) != 1 || spy.recorded[0].Likes != 10 {
		t.Fatalf("recorded = %+v", spy.recorded)
	}

	// nil recorder is a no-op, not an error
	none := New(insightOnlyAnalyzer(), nil, nil, NewHub())
	if err := none.RecordOutcome(context.Background(), rec); err != nil {
		t.Fatalf("RecordOutcome without store: %v", err)
	}
}

func TestService_ProgressFlowsThroughHub(t *testing.T) {
	core := insightOnlyAnalyzer()
	hub := NewHub()
	svc := New(core, nil, nil, hub)

	// Subscribe as soon as the first event reveals the analysis id; the hub
	// replays whatever was published before the watcher attached.
	collected := make(chan []analyzer.ProgressEvent, 1)
	var once sync.Once
	publish := core.OnProgress
	core.OnProgress = func(evt analyzer.ProgressEvent) {
		publish(evt)
		once.Do(func() {
			ch, cancel, ok := hub.Subscribe(evt.AnalysisID)
			if !ok {
				collected <- nil
				return
			}
			go func() {
				defer cancel()
				var events []analyzer.ProgressEvent
				for e := range ch {
					events = append(events, e)
				}
				collected <- events
			}()
		})
	}

	id, _, err := svc.Analyze(context.Background(), "", SampleRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	events := <-collected
	if len(events) == 0 {
		t.Fatal("watcher saw no progress events")
	}
	last := events[len(events)-1]
	if last.Stage != analyzer.StageDone || last.AnalysisID != id {
		t.Fatalf("last event = %+v", last)
	}
	// the finished stream is retained, so a late watcher gets the replay
	replay, _, ok := hub.Subscribe(id)
	if !ok {
		t.Fatal("finished analysis should stay subscribable for the grace window")
	}
	var replayed []analyzer.ProgressEvent
	for e := range replay {
		replayed = append(replayed, e)
	}
	if len(replayed) != len(events) {
		t.Fatalf("replay has %d events, live watcher saw %d", len(replayed), len(events))
	}
}

func TestService_WatchableAfterAnalyzeReturns(t *testing.T) {
	hub := NewHub()
	svc := New(insightOnlyAnalyzer(), nil, nil, hub)

	id, _, err := svc.Analyze(context.Background(), "", SampleRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// A client can only learn the id once Analyze has returned; subscribing
	// then must still yield the full replay.
	ch, cancel, ok := hub.Subscribe(id)
	if !ok {
		t.Fatal("Subscribe after Analyze returned ok=false")
	}
	defer cancel()
	var events []analyzer.ProgressEvent
	for e := range ch {
		events = append(events, e)
	}
	if len(events) == 0 {
		t.Fatal("replay buffer was dropped before the watcher could attach")
	}
	if last := events[len(events)-1]; last.Stage != analyzer.StageDone {
		t.Fatalf("last replayed event = %+v, want the done stage", last)
	}
}

func TestService_ClientSuppliedAnalysisID(t *testing.T) {
	svc := New(insightOnlyAnalyzer(), nil, nil, NewHub())

	want := "7f9c24e5-2f3a-4b1d-9a6e-8c5d4e3f2a1b"
	id, _, err := svc.Analyze(context.Background(), want, SampleRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if id != want {
		t.Fatalf("id = %q, want the client-supplied %q", id, want)
	}

	// junk ids are replaced, not trusted
	id, _, err = svc.Analyze(context.Background(), "not-a-uuid", SampleRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if id == "not-a-uuid" || id == "" {
		t.Fatalf("id = %q, want a freshly minted uuid", id)
	}
}
