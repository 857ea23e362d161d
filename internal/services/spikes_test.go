package services

import (
	"math"
	"testing"

	"retail-insights/internal/models"
)

func TestRobustZScoresConstantSeries(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
	}{
		{"single value", []float64{42}},
		{"all identical", []float64{7, 7, 7, 7, 7}},
		{"all zero", []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := RobustZScores(tt.x)
			if len(z) != len(tt.x) {
				t.Fatalf("expected %d scores, got %d", len(tt.x), len(z))
			}
			for i, v := range z {
				if v != 0 {
					t.Errorf("z[%d] = %v, want 0 for a degenerate series", i, v)
				}
			}
		})
	}
}

func TestRobustZScoresValues(t *testing.T) {
	// median = 3, MAD = median(|x - 3|) = median([2,1,0,1,97]) = 1.
	x := []float64{1, 2, 3, 4, 100}
	z := RobustZScores(x)

	if z[2] != 0 {
		t.Errorf("z at the median should be 0, got %v", z[2])
	}
	if math.Abs(z[0]-(-2*0.6745)) > 1e-12 {
		t.Errorf("z[0] = %v, want %v", z[0], -2*0.6745)
	}
	if math.Abs(z[4]-97*0.6745) > 1e-9 {
		t.Errorf("z[4] = %v, want %v", z[4], 97*0.6745)
	}
}

func TestScoreDailyResiduals(t *testing.T) {
	daily := []models.DailyMetric{
		metric("2023-05-01", 100, 1, 1, 100),
		metric("2023-05-02", 300, 1, 1, 100),
	}
	expected := []float64{150, 250}

	scored, err := ScoreDaily(daily, expected)
	if err != nil {
		t.Fatalf("ScoreDaily() error: %v", err)
	}

	if scored[0].Residual != -50 {
		t.Errorf("expected residual -50 (signed), got %v", scored[0].Residual)
	}
	if scored[1].Residual != 50 {
		t.Errorf("expected residual 50, got %v", scored[1].Residual)
	}
	if scored[0].ExpectedRevenue != 150 {
		t.Errorf("expected revenue not joined: got %v", scored[0].ExpectedRevenue)
	}
}

func TestScoreDailyMisaligned(t *testing.T) {
	daily := []models.DailyMetric{
		metric("2023-05-01", 100, 1, 1, 100),
	}

	if _, err := ScoreDaily(daily, []float64{1, 2}); err == nil {
		t.Error("expected an error for a misaligned expected series")
	}
}

func TestTopSpikeDaysOrderingAndTruncation(t *testing.T) {
	daily := []models.DailyMetric{
		metric("2023-05-01", 100, 1, 1, 100),
		metric("2023-05-02", 500, 1, 1, 100),
		metric("2023-05-03", 200, 1, 1, 100),
		metric("2023-05-04", 900, 1, 1, 100),
	}
	expected := make([]float64, len(daily))
	for i := range expected {
		expected[i] = 150
	}

	scored, err := ScoreDaily(daily, expected)
	if err != nil {
		t.Fatalf("ScoreDaily() error: %v", err)
	}

	top, err := TopSpikeDays(scored, 3, ScoreRobustZResidual)
	if err != nil {
		t.Fatalf("TopSpikeDays() error: %v", err)
	}

	if len(top) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i-1].RobustZResidual < top[i].RobustZResidual {
			t.Errorf("ranking not non-increasing at %d: %v < %v", i, top[i-1].RobustZResidual, top[i].RobustZResidual)
		}
	}
	if !top[0].Date.Equal(mustDate("2023-05-04")) {
		t.Errorf("expected 2023-05-04 ranked first, got %v", top[0].Date)
	}

	// n beyond the table returns every date.
	all, err := TopSpikeDays(scored, 50, ScoreRobustZResidual)
	if err != nil {
		t.Fatalf("TopSpikeDays() error: %v", err)
	}
	if len(all) != len(scored) {
		t.Errorf("expected min(n, dates) = %d rows, got %d", len(scored), len(all))
	}
}

func TestTopSpikeDaysStableTies(t *testing.T) {
	daily := []models.DailyMetric{
		metric("2023-05-01", 100, 1, 1, 100),
		metric("2023-05-02", 100, 1, 1, 100),
		metric("2023-05-03", 100, 1, 1, 100),
	}
	expected := []float64{100, 100, 100}

	scored, err := ScoreDaily(daily, expected)
	if err != nil {
		t.Fatalf("ScoreDaily() error: %v", err)
	}

	top, err := TopSpikeDays(scored, 3, ScoreRobustZResidual)
	if err != nil {
		t.Fatalf("TopSpikeDays() error: %v", err)
	}

	// All scores tie at zero; the existing table order must survive.
	for i, want := range []string{"2023-05-01", "2023-05-02", "2023-05-03"} {
		if !top[i].Date.Equal(mustDate(want)) {
			t.Errorf("tie order broken at %d: got %v, want %s", i, top[i].Date, want)
		}
	}
}

func TestTopSpikeDaysUnknownColumn(t *testing.T) {
	if _, err := TopSpikeDays(nil, 5, "zscore_of_vibes"); err == nil {
		t.Error("expected an error for an unknown score column")
	}
}
