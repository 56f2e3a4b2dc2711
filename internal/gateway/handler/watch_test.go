package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"postpulse/internal/analyzer"
	"postpulse/internal/gateway/service/analytics"
)

func TestWatchWS_StreamsProgressUntilDone(t *testing.T) {
	hub := analytics.NewHub()
	hub.Open("a1")
	hub.Publish(analyzer.ProgressEvent{
		AnalysisID: "a1",
		Source:     "engagement",
		Stage:      analyzer.StageReady,
		At:         time.Now(),
	})

	srv := httptest.NewServer(http.HandlerFunc(NewWatchHandler(hub).HandleWatchWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?analysis_id=a1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var first watchWSOutbound
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read replayed event: %v", err)
	}
	if first.Type != "progress" || first.Source != "engagement" {
		t.Fatalf("first = %+v", first)
	}

	hub.Close("a1")

	var last watchWSOutbound
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&last); err != nil {
		t.Fatalf("read done event: %v", err)
	}
	if last.Type != "done" {
		t.Fatalf("last = %+v", last)
	}
}

func TestWatchWS_UnknownAnalysisIs404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(NewWatchHandler(analytics.NewHub()).HandleWatchWS))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?analysis_id=missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestWatchWS_MissingIDIs400(t *testing.T) {
	w := httptest.NewRecorder()
	NewWatchHandler(analytics.NewHub()).HandleWatchWS(w, httptest.NewRequest(http.MethodGet, "/analytics/watch", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
