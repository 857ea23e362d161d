package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retail-insights/internal/config"
	"retail-insights/internal/models"
	"retail-insights/internal/services"
)

func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics(config.AnalyticsConfig{
		TopN:        15,
		MinCellDays: 2,
		ScoreColumn: services.ScoreRobustZResidual,
	})
	testData := []models.Transaction{
		{
			TransactionID: "T001",
			Date:          time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			CustomerID:    "C001",
			Gender:        "Female",
			Age:           34,
			Category:      "Beauty",
			Quantity:      3,
			PricePerUnit:  50,
			TotalAmount:   150,
		},
		{
			TransactionID: "T002",
			Date:          time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC),
			CustomerID:    "C002",
			Gender:        "Male",
			Age:           41,
			Category:      "Clothing",
			Quantity:      2,
			PricePerUnit:  500,
			TotalAmount:   1000,
		},
		{
			TransactionID: "T003",
			Date:          time.Date(2023, 5, 8, 0, 0, 0, 0, time.UTC),
			CustomerID:    "C003",
			Gender:        "Male",
			Age:           29,
			Category:      "Electronics",
			Quantity:      1,
			PricePerUnit:  30,
			TotalAmount:   30,
		},
		{
			TransactionID: "T004",
			Date:          time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC),
			CustomerID:    "C004",
			Gender:        "Female",
			Age:           52,
			Category:      "Beauty",
			Quantity:      2,
			PricePerUnit:  25,
			TotalAmount:   50,
		},
	}
	if err := a.SetData(testData); err != nil {
		panic(err)
	}
	return a
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	if handlers == nil {
		t.Error("NewAPIHandlers() returned nil")
	}

	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

// decodeSuccess checks the envelope and returns the data field.
func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder) interface{} {
	t.Helper()

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"]
	if !ok {
		t.Fatal("expected data field in response")
	}
	return data
}

func TestAPIHandlers_HandleDailyMetrics(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/daily-metrics", nil)
	w := httptest.NewRecorder()

	handlers.HandleDailyMetrics(w, req)

	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
	}

	data := decodeSuccess(t, w)
	rows, ok := data.([]interface{})
	if !ok || len(rows) != 4 {
		t.Errorf("expected 4 daily rows, got %v", data)
	}
}

func TestAPIHandlers_HandleWeeklyMetrics(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/weekly-metrics", nil)
	w := httptest.NewRecorder()

	handlers.HandleWeeklyMetrics(w, req)

	data := decodeSuccess(t, w)
	if rows, ok := data.([]interface{}); !ok || len(rows) == 0 {
		t.Error("expected non-empty weekly data")
	}
}

func TestAPIHandlers_HandleDowSummary(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/dow-summary", nil)
	w := httptest.NewRecorder()

	handlers.HandleDowSummary(w, req)

	data := decodeSuccess(t, w)
	if rows, ok := data.([]interface{}); !ok || len(rows) == 0 {
		t.Error("expected non-empty day-of-week data")
	}
}

func TestAPIHandlers_HandleMonthDowGrid(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/month-dow-grid", nil)
	w := httptest.NewRecorder()

	handlers.HandleMonthDowGrid(w, req)

	data := decodeSuccess(t, w)
	grid, ok := data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected grid object, got %T", data)
	}
	if months, ok := grid["months"].([]interface{}); !ok || len(months) != 2 {
		t.Errorf("expected 2 months in grid, got %v", grid["months"])
	}
}

func TestAPIHandlers_HandleTopSpikes(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"default n", "", 4},
		{"explicit n below row count", "?n=5", 4},
		{"n below lower bound clamps to 5", "?n=1", 4},
		{"n above upper bound clamps to 50", "?n=999", 4},
		{"garbage n falls back to default", "?n=abc", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/spikes"+tt.query, nil)
			w := httptest.NewRecorder()

			handlers.HandleTopSpikes(w, req)

			data := decodeSuccess(t, w)
			rows, ok := data.([]interface{})
			if !ok {
				t.Fatalf("expected array, got %T", data)
			}
			if len(rows) != tt.expected {
				t.Errorf("expected %d spike rows, got %d", tt.expected, len(rows))
			}
		})
	}
}

func TestAPIHandlers_HandleSpikeCards(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/spike-cards?n=5", nil)
	w := httptest.NewRecorder()

	handlers.HandleSpikeCards(w, req)

	data := decodeSuccess(t, w)
	cards, ok := data.([]interface{})
	if !ok || len(cards) == 0 {
		t.Fatalf("expected non-empty cards array, got %v", data)
	}

	card, ok := cards[0].(map[string]interface{})
	if !ok {
		t.Fatalf("expected card object, got %T", cards[0])
	}
	for _, field := range []string{"date", "dow", "actual_revenue", "drivers", "notes"} {
		if _, ok := card[field]; !ok {
			t.Errorf("card missing %q field", field)
		}
	}
}

func TestAPIHandlers_HandleQuality(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/quality", nil)
	w := httptest.NewRecorder()

	handlers.HandleQuality(w, req)

	data := decodeSuccess(t, w)
	summary, ok := data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected quality object, got %T", data)
	}
	if n, ok := summary["n_rows"].(float64); !ok || n != 4 {
		t.Errorf("expected n_rows=4, got %v", summary["n_rows"])
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	data := decodeSuccess(t, w)
	health, ok := data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected health object, got %T", data)
	}
	if health["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %v", health["status"])
	}
}
