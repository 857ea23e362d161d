package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"retail-insights/internal/services"
)

// WriteReport renders the Markdown insights report: dataset profile,
// day-of-week and month summaries, and the top spike days.
func WriteReport(path string, ins *services.Insights, topN int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	var b strings.Builder
	b.WriteString("# Retail Calendar Insights\n\n")

	b.WriteString("## Dataset\n\n")
	fmt.Fprintf(&b, "- Rows: %d\n", ins.Quality.Rows)
	fmt.Fprintf(&b, "- Transaction days: %d\n", len(ins.Daily))
	fmt.Fprintf(&b, "- Date range: %s to %s\n", ins.Quality.DateMin, ins.Quality.DateMax)
	fmt.Fprintf(&b, "- Rows with missing values: %d\n", ins.Quality.MissingAny)
	fmt.Fprintf(&b, "- Total-amount identity mismatches: %d\n\n", ins.Quality.TotalAmountMismatches)

	b.WriteString("## Revenue by Day of Week\n\n")
	b.WriteString("| Day | Avg revenue | Median revenue | Avg txns | Avg units | Avg AOV | Days |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, d := range ins.Dow {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %d |\n",
			d.Dow, d.AvgDailyRevenue, d.MedianDailyRevenue, d.AvgTxnsPerDay, d.AvgUnitsPerDay, d.AvgAOV, d.Days)
	}
	b.WriteString("\n")

	b.WriteString("## Revenue by Month\n\n")
	b.WriteString("| Month | Revenue | Txns | Units | Avg AOV | Days |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, m := range ins.Months {
		fmt.Fprintf(&b, "| %s | %.2f | %d | %.0f | %.2f | %d |\n",
			m.Month, m.Revenue, m.Txns, m.Units, m.AvgAOV, m.Days)
	}
	b.WriteString("\n")

	spikes := ins.Ranked
	if topN >= 0 && topN < len(spikes) {
		spikes = spikes[:topN]
	}
	b.WriteString("## Top Spike Days\n\n")
	b.WriteString("| Date | Day | Revenue | Expected | Residual | Robust z (residual) |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, s := range spikes {
		fmt.Fprintf(&b, "| %s | %s | %.2f | %.2f | %+.2f | %.2f |\n",
			s.Date.Format(dateFormat), s.Dow, s.Revenue, s.ExpectedRevenue, s.Residual, s.RobustZResidual)
	}
	b.WriteString("\n")

	b.WriteString("## Notes\n\n")
	b.WriteString("- Expected revenue uses a seasonal mean hierarchy: month+day-of-week cell, then month, then day-of-week, then the overall mean.\n")
	b.WriteString("- Only dates with at least one transaction appear; zero-revenue days are not synthesized.\n")
	b.WriteString("- AOV is the mean of per-row total amount within a day, not revenue divided by transactions.\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
