package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"retail-insights/internal/config"
	"retail-insights/internal/errors"
	"retail-insights/internal/observability"
	"retail-insights/internal/services"
)

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleDailyMetrics(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.DailyMetrics(), cacheHeaders)
}

func (h *APIHandlers) HandleWeeklyMetrics(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.WeeklyMetrics(), cacheHeaders)
}

func (h *APIHandlers) HandleCategoryMix(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.CategoryMix(), cacheHeaders)
}

func (h *APIHandlers) HandleDowSummary(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.DowSummary(), cacheHeaders)
}

func (h *APIHandlers) HandleMonthSummary(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.MonthSummary(), cacheHeaders)
}

func (h *APIHandlers) HandleMonthDowGrid(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.MonthDowGrid(), cacheHeaders)
}

func (h *APIHandlers) HandleScoredDaily(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.ScoredDaily(), cacheHeaders)
}

func (h *APIHandlers) HandleTopSpikes(w http.ResponseWriter, r *http.Request) {
	n := topNParam(r)
	errors.WriteSuccessWithHeaders(w, h.analytics.TopSpikes(n), cacheHeaders)
}

func (h *APIHandlers) HandleSpikeCards(w http.ResponseWriter, r *http.Request) {
	n := topNParam(r)
	cards, err := h.analytics.SpikeCards(n)
	if err != nil {
		requestID := observability.GetRequestID(r.Context())
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to build spike cards"), requestID)
		return
	}
	errors.WriteSuccessWithHeaders(w, cards, cacheHeaders)
}

func (h *APIHandlers) HandleQuality(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.QualitySummary(), cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

// topNParam reads ?n= and clamps it to the product bounds.
func topNParam(r *http.Request) int {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return config.DefaultTopN
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return config.DefaultTopN
	}
	return config.ClampTopN(n)
}
