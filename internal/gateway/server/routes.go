package server

import (
	"net/http"

	"postpulse/internal/gateway/handler"
	"postpulse/internal/gateway/middleware"
)

func NewMux(
	analyticsHandler *handler.AnalyticsHandler,
	watchHandler *handler.WatchHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/analytics/best-time-to-post", analyticsHandler.HandleBestTimeToPost)
	mux.HandleFunc("/analytics/test", analyticsHandler.HandleTest)
	mux.HandleFunc("/analytics/outcomes", analyticsHandler.HandleRecordOutcome)
	mux.HandleFunc("/analytics/reports", analyticsHandler.HandleReports)
	mux.HandleFunc("/analytics/reports/", analyticsHandler.HandleReport)
	mux.HandleFunc("/analytics/watch", watchHandler.HandleWatchWS)
	mux.HandleFunc("/healthz", handler.HandleHealthz)

	return middleware.CORS(mux)
}
