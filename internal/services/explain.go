package services

import (
	"math"
	"sort"
	"time"

	"retail-insights/internal/models"
)

// spikeCardNotes is the fixed caveat list attached to every card.
var spikeCardNotes = []string{
	"Baseline expectations use a simple seasonal hierarchy (month+dow, then month, then dow).",
	"Treat missing dates as unknown coverage (dataset includes only transaction-days).",
}

// BuildSpikeCards creates explanation cards for the top-N dates by the
// chosen score. Driver baselines are the arithmetic mean of each column over
// ALL scored dates, computed once and shared by every card.
func BuildSpikeCards(scored []models.ScoredDay, mix []models.CategoryMix, topN int, scoreColumn string) ([]models.SpikeCard, error) {
	score, err := scoreSelector(scoreColumn)
	if err != nil {
		return nil, err
	}

	top, err := TopSpikeDays(scored, topN, scoreColumn)
	if err != nil {
		return nil, err
	}

	var txns, units, aov meanCount
	for _, s := range scored {
		txns.add(float64(s.Txns))
		units.add(s.Units)
		aov.add(s.AOV)
	}
	baselineTxns := txns.mean()
	baselineUnits := units.mean()
	baselineAOV := aov.mean()

	mixByDate := make(map[time.Time][]models.CategoryMix)
	for _, m := range mix {
		mixByDate[m.Date] = append(mixByDate[m.Date], m)
	}

	cards := make([]models.SpikeCard, 0, len(top))
	for _, day := range top {
		card := models.SpikeCard{
			Date:            day.Date.Format("2006-01-02"),
			Dow:             day.Dow,
			ActualRevenue:   asFloat(day.Revenue),
			ExpectedRevenue: asFloat(day.ExpectedRevenue),
			Score:           asFloat(score(day)),
			Drivers: models.SpikeDrivers{
				Txns:  models.DriverStat{Actual: asFloat(float64(day.Txns)), BaselineMean: asFloat(baselineTxns)},
				Units: models.DriverStat{Actual: asFloat(day.Units), BaselineMean: asFloat(baselineUnits)},
				AOV:   models.DriverStat{Actual: asFloat(day.AOV), BaselineMean: asFloat(baselineAOV)},
			},
			TopCategory: topCategory(mixByDate[day.Date]),
			Notes:       spikeCardNotes,
		}

		if card.ActualRevenue != nil && card.ExpectedRevenue != nil {
			delta := *card.ActualRevenue - *card.ExpectedRevenue
			card.DeltaRevenue = &delta
			if *card.ExpectedRevenue != 0 {
				pct := delta / *card.ExpectedRevenue * 100
				card.DeltaPct = &pct
			}
		}

		cards = append(cards, card)
	}
	return cards, nil
}

// topCategory picks the date's highest-revenue category. An empty mix is a
// valid state and yields an all-null section.
func topCategory(dayMix []models.CategoryMix) models.TopCategory {
	if len(dayMix) == 0 {
		return models.TopCategory{}
	}

	ranked := make([]models.CategoryMix, len(dayMix))
	copy(ranked, dayMix)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CategoryRevenue > ranked[j].CategoryRevenue
	})

	best := ranked[0]
	name := best.Category
	return models.TopCategory{
		Name:    &name,
		Revenue: asFloat(best.CategoryRevenue),
		Share:   asFloat(best.CategoryShare),
	}
}

// asFloat converts a value to a nullable card field: NaN and infinities
// become null rather than breaking JSON encoding.
func asFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
