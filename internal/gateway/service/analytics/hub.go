package analytics

import (
	"strings"
	"sync"
	"time"

	"postpulse/internal/analyzer"
)

// streamRetention keeps a finished stream subscribable. Analyses run
// synchronously inside the POST, so most watchers arrive after the stream
// finished, holding an id they read from the X-Analysis-Id header; they get
// the full replay as long as they connect within this window.
const streamRetention = 60 * time.Second

// Hub fans analyzer progress events out to websocket watchers. Events
// published before a watcher connects are replayed on subscribe, and the
// replay outlives the analysis by streamRetention.
type Hub struct {
	mu        sync.RWMutex
	streams   map[string]*stream
	retention time.Duration
}

type stream struct {
	past []analyzer.ProgressEvent
	subs []chan analyzer.ProgressEvent
	done bool
}

func NewHub() *Hub {
	return &Hub{
		streams:   make(map[string]*stream),
		retention: streamRetention,
	}
}

// Open registers an analysis id so watchers can attach to it.
func (h *Hub) Open(analysisID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.streams[analysisID]; !ok {
		h.streams[analysisID] = &stream{}
	}
}

// Publish delivers one event to current watchers and keeps it for late ones.
// Implements analyzer.ProgressFunc.
func (h *Hub) Publish(evt analyzer.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.streams[evt.AnalysisID]
	if !ok || st.done {
		return
	}
	st.past = append(st.past, evt)
	for _, ch := range st.subs {
		select {
		case ch <- evt:
		default:
			// slow watcher; it still has the replay on reconnect
		}
	}
}

// Close ends the stream. Live watcher channels are closed; the replay buffer
// survives for the retention window so late watchers still see the history.
func (h *Hub) Close(analysisID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.streams[analysisID]
	if !ok || st.done {
		return
	}
	st.done = true
	for _, ch := range st.subs {
		close(ch)
	}
	st.subs = nil

	retention := h.retention
	time.AfterFunc(retention, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.streams, analysisID)
	})
}

// Subscribe attaches to an analysis. The returned channel first receives
// every event published so far, then live events; it is closed when the
// analysis finishes. Subscribing to a finished-but-retained id yields the
// full replay on an already-closed channel. ok is false only for ids the
// hub has never seen or has expired.
func (h *Hub) Subscribe(analysisID string) (<-chan analyzer.ProgressEvent, func(), bool) {
	analysisID = strings.TrimSpace(analysisID)
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.streams[analysisID]
	if !ok {
		return nil, nil, false
	}

	ch := make(chan analyzer.ProgressEvent, 32+len(st.past))
	for _, evt := range st.past {
		ch <- evt
	}
	if st.done {
		close(ch)
		return ch, func() {}, true
	}
	st.subs = append(st.subs, ch)

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		cur, ok := h.streams[analysisID]
		if !ok || cur.done {
			return
		}
		for i, sub := range cur.subs {
			if sub == ch {
				cur.subs = append(cur.subs[:i], cur.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel, true
}
