package services

import "sort"

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// meanCount accumulates a grouped mean without storing members.
type meanCount struct {
	sum   float64
	count int
}

func (m *meanCount) add(v float64) {
	m.sum += v
	m.count++
}

func (m meanCount) mean() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
