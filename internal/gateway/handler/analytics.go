package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"postpulse/internal/analyzer"
	"postpulse/internal/gateway/repository/archive"
	"postpulse/internal/gateway/service/analytics"
)

type AnalyticsHandler struct {
	svc      *analytics.Service
	validate *validator.Validate
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

// HandleBestTimeToPost runs one analysis for the posted product context.
func (h *AnalyticsHandler) HandleBestTimeToPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req analyzer.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.analyze(w, r, req)
}

// HandleTest runs the canned sample analysis.
func (h *AnalyticsHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.analyze(w, r, analytics.SampleRequest())
}

func (h *AnalyticsHandler) analyze(w http.ResponseWriter, r *http.Request, req analyzer.Request) {
	// A client that wants the watch stream sends its own id here, then opens
	// /analytics/watch with it while the analysis runs or shortly after.
	analysisID, resp, err := h.svc.Analyze(r.Context(), r.Header.Get("X-Analysis-Id"), req)
	w.Header().Set("X-Analysis-Id", analysisID)
	if err != nil {
		if errors.Is(err, analyzer.ErrAllSourcesUnavailable) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		log.Printf("analytics: analysis %s failed: %v", analysisID, err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeData(w, resp)
}

// HandleRecordOutcome stores one published-post outcome.
func (h *AnalyticsHandler) HandleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Product  string    `json:"product_name" validate:"required"`
		Category string    `json:"category" validate:"required"`
		PostedAt time.Time `json:"posted_at"`
		Likes    int       `json:"likes" validate:"min=0"`
		Comments int       `json:"comments" validate:"min=0"`
		Saves    int       `json:"saves" validate:"min=0"`
		Reach    int       `json:"reach" validate:"min=0"`
		Region   string    `json:"region"`
		Festival string    `json:"festival"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := h.svc.RecordOutcome(r.Context(), analyzer.OutcomeRecord{
		Product:  in.Product,
		Category: in.Category,
		PostedAt: in.PostedAt,
		Likes:    in.Likes,
		Comments: in.Comments,
		Saves:    in.Saves,
		Reach:    in.Reach,
		Region:   in.Region,
		Festival: in.Festival,
	})
	if err != nil {
		log.Printf("analytics: record outcome: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to record outcome")
		return
	}
	writeData(w, map[string]any{"recorded": true})
}

// HandleReports lists archived analysis ids.
func (h *AnalyticsHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ids, err := h.svc.Reports(r.Context())
	if err != nil {
		log.Printf("analytics: list reports: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeData(w, map[string]any{"analysis_ids": ids})
}

// HandleReport serves one archived report verbatim.
func (h *AnalyticsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	analysisID := strings.TrimPrefix(r.URL.Path, "/analytics/reports/")
	if analysisID == "" || strings.Contains(analysisID, "/") {
		writeError(w, http.StatusBadRequest, "analysis id is required")
		return
	}
	report, err := h.svc.Report(r.Context(), analysisID)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		log.Printf("analytics: read report %s: %v", analysisID, err)
		writeError(w, http.StatusInternalServerError, "failed to read report")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(report)
}

func HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
