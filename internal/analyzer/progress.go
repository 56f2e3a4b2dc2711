package analyzer

import "time"

// Progress stages emitted while an analysis runs. Degraded sources surface
// as StageUnavailable; they are operator signal, not caller errors.
const (
	StageStarted     = "started"
	StageReady       = "ready"
	StageUnavailable = "unavailable"
	StageFused       = "fused"
	StageDone        = "done"
)

// ProgressEvent describes one step of one analysis.
type ProgressEvent struct {
	AnalysisID string    `json:"analysis_id"`
	Source     string    `json:"source,omitempty"`
	Stage      string    `json:"stage"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

// ProgressFunc receives progress events. Implementations must not block.
type ProgressFunc func(ProgressEvent)
