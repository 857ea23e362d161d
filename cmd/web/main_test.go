package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"retail-insights/internal/config"
	"retail-insights/internal/models"
	"retail-insights/internal/server"
	"retail-insights/internal/services"
)

// Test helper to create analytics with test data
func newTestAnalytics() *services.Analytics {
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
			Date:          time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC),
			CustomerID:    "C003",
			Gender:        "Male",
			Age:           29,
			Category:      "Electronics",
			Quantity:      1,
			PricePerUnit:  80,
			TotalAmount:   80,
		},
	}
	if err := a.SetData(testData); err != nil {
		panic(err)
	}
	return a
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := server.NewServer(newTestAnalytics(), logger)

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/daily-metrics", http.StatusOK, "application/json"},
		{"/api/weekly-metrics", http.StatusOK, "application/json"},
		{"/api/category-mix", http.StatusOK, "application/json"},
		{"/api/dow-summary", http.StatusOK, "application/json"},
		{"/api/month-summary", http.StatusOK, "application/json"},
		{"/api/month-dow-grid", http.StatusOK, "application/json"},
		{"/api/scored-daily", http.StatusOK, "application/json"},
		{"/api/spikes", http.StatusOK, "application/json"},
		{"/api/spike-cards", http.StatusOK, "application/json"},
		{"/api/quality", http.StatusOK, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			ct := w.Header().Get("Content-Type")
			if !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}

			// Validate JSON responses
			if tt.contentType == "application/json" {
				var result any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

// Test JSON API responses
func TestServer_JSONResponse(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := server.NewServer(newTestAnalytics(), logger)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/spikes?n=5", nil)
	srv.ServeHTTP(w, r)

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].([]interface{})
	if !ok {
		t.Fatalf("expected data array in response")
	}
	if len(data) != 3 {
		t.Errorf("expected 3 ranked days, got %d", len(data))
	}

	row, ok := data[0].(map[string]interface{})
	if !ok {
		t.Fatalf("expected row object, got %T", data[0])
	}
	for _, field := range []string{"date", "revenue", "expected_revenue", "residual", "robust_z_residual"} {
		if _, ok := row[field]; !ok {
			t.Errorf("row missing %q field", field)
		}
	}
}

// Test SSE endpoints stream datastar events
func TestServer_SSERoutes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := server.NewServer(newTestAnalytics(), logger)

	for _, path := range []string{"/sse/spike-days", "/sse/dow-summary", "/sse/month-summary", "/sse/refresh-all"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("content-type = %q, want text/event-stream", ct)
			}
			if !strings.Contains(w.Body.String(), "event: datastar-") {
				t.Error("expected at least one datastar event in the stream")
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := server.NewServer(newTestAnalytics(), logger)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/spikes", nil)
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
