package services

import (
	"fmt"
	"math"
	"sort"

	"retail-insights/internal/models"
)

// madScale rescales MAD to match the standard deviation of a normal
// distribution, so robust z-scores are comparable in magnitude to ordinary
// z-scores while staying insensitive to a few extreme outliers.
const madScale = 0.6745

// Score column names accepted by TopSpikeDays and BuildSpikeCards.
const (
	ScoreRobustZResidual = "robust_z_residual"
	ScoreRobustZRevenue  = "robust_z_revenue"
	ScoreResidual        = "residual"
)

// RobustZScores computes median/MAD z-scores for x. A degenerate series
// (MAD exactly 0) yields the zero vector rather than a division fault.
func RobustZScores(x []float64) []float64 {
	z := make([]float64, len(x))
	if len(x) == 0 {
		return z
	}

	med := median(x)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}
	mad := median(dev)

	if mad == 0 {
		return z
	}
	for i, v := range x {
		z[i] = madScale * (v - med) / mad
	}
	return z
}

// ScoreDaily joins the expected-revenue series onto the daily table and
// scores each date. The two robust z-scores are independent: one over raw
// revenue, one over the residual. Expected must be index-aligned with daily.
func ScoreDaily(daily []models.DailyMetric, expected []float64) ([]models.ScoredDay, error) {
	if len(expected) != len(daily) {
		return nil, fmt.Errorf("expected revenue series has %d values for %d dates", len(expected), len(daily))
	}

	revenue := make([]float64, len(daily))
	residual := make([]float64, len(daily))
	for i, d := range daily {
		revenue[i] = d.Revenue
		residual[i] = d.Revenue - expected[i]
	}

	zRevenue := RobustZScores(revenue)
	zResidual := RobustZScores(residual)

	scored := make([]models.ScoredDay, len(daily))
	for i, d := range daily {
		scored[i] = models.ScoredDay{
			DailyMetric:     d,
			ExpectedRevenue: expected[i],
			Residual:        residual[i],
			RobustZRevenue:  zRevenue[i],
			RobustZResidual: zResidual[i],
		}
	}
	return scored, nil
}

func scoreSelector(column string) (func(models.ScoredDay) float64, error) {
	switch column {
	case ScoreRobustZResidual:
		return func(s models.ScoredDay) float64 { return s.RobustZResidual }, nil
	case ScoreRobustZRevenue:
		return func(s models.ScoredDay) float64 { return s.RobustZRevenue }, nil
	case ScoreResidual:
		return func(s models.ScoredDay) float64 { return s.Residual }, nil
	default:
		return nil, fmt.Errorf("unknown score column %q", column)
	}
}

// TopSpikeDays ranks scored dates by the chosen score, highest first, and
// truncates to min(n, available dates). The sort is stable: ties keep the
// existing table order. No upper bound on n is imposed here; callers clamp.
func TopSpikeDays(scored []models.ScoredDay, n int, scoreColumn string) ([]models.ScoredDay, error) {
	score, err := scoreSelector(scoreColumn)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.ScoredDay, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})

	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}
