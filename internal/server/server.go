package server

import (
	"log/slog"
	"net/http"

	"retail-insights/internal/handlers"
	"retail-insights/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

func NewServer(analytics *services.Analytics, logger *slog.Logger) *Server {
	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard routes
	s.mux.HandleFunc("GET /", handlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/daily-metrics", s.apiHandlers.HandleDailyMetrics)
	s.mux.HandleFunc("GET /api/weekly-metrics", s.apiHandlers.HandleWeeklyMetrics)
	s.mux.HandleFunc("GET /api/category-mix", s.apiHandlers.HandleCategoryMix)
	s.mux.HandleFunc("GET /api/dow-summary", s.apiHandlers.HandleDowSummary)
	s.mux.HandleFunc("GET /api/month-summary", s.apiHandlers.HandleMonthSummary)
	s.mux.HandleFunc("GET /api/month-dow-grid", s.apiHandlers.HandleMonthDowGrid)
	s.mux.HandleFunc("GET /api/scored-daily", s.apiHandlers.HandleScoredDaily)
	s.mux.HandleFunc("GET /api/spikes", s.apiHandlers.HandleTopSpikes)
	s.mux.HandleFunc("GET /api/spike-cards", s.apiHandlers.HandleSpikeCards)
	s.mux.HandleFunc("GET /api/quality", s.apiHandlers.HandleQuality)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/spike-days", s.sseHandlers.HandleSpikeDays)
	s.mux.HandleFunc("GET /sse/dow-summary", s.sseHandlers.HandleDowSummary)
	s.mux.HandleFunc("GET /sse/month-summary", s.sseHandlers.HandleMonthSummary)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
