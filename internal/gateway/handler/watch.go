package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"postpulse/internal/analyzer"
	"postpulse/internal/gateway/service/analytics"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchWSOutbound struct {
	Type       string `json:"type"`
	AnalysisID string `json:"analysisId,omitempty"`
	Source     string `json:"source,omitempty"`
	Stage      string `json:"stage,omitempty"`
	Detail     string `json:"detail,omitempty"`
	At         string `json:"at,omitempty"`
	Message    string `json:"message,omitempty"`
}

type WatchHandler struct {
	hub *analytics.Hub
}

func NewWatchHandler(hub *analytics.Hub) *WatchHandler {
	return &WatchHandler{hub: hub}
}

// HandleWatchWS streams per-source progress events for one running analysis.
// The stream is server-push only; the read loop exists to notice the client
// going away.
func (h *WatchHandler) HandleWatchWS(w http.ResponseWriter, r *http.Request) {
	analysisID := strings.TrimSpace(r.URL.Query().Get("analysis_id"))
	if analysisID == "" {
		http.Error(w, "analysis_id is required", http.StatusBadRequest)
		return
	}

	events, cancel, ok := h.hub.Subscribe(analysisID)
	if !ok {
		http.Error(w, "analysis not found or already finished", http.StatusNotFound)
		return
	}
	defer cancel()

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(watchWSPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case evt, ok := <-events:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait))
				_ = conn.WriteJSON(watchWSOutbound{Type: "done", AnalysisID: analysisID})
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(progressOutbound(evt)); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func progressOutbound(evt analyzer.ProgressEvent) watchWSOutbound {
	return watchWSOutbound{
		Type:       "progress",
		AnalysisID: evt.AnalysisID,
		Source:     evt.Source,
		Stage:      evt.Stage,
		Detail:     evt.Detail,
		At:         evt.At.UTC().Format(time.RFC3339Nano),
	}
}
