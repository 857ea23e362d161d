package services

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"retail-insights/internal/config"
	"retail-insights/internal/models"
	"retail-insights/internal/observability"
)

const (
	cacheVersion = "v1"
	cacheDir     = ".cache"
)

// Insights is the full precomputed output set of one pipeline run. Built
// once per load, never mutated afterwards.
type Insights struct {
	Daily        []models.DailyMetric   `json:"daily"`
	Weekly       []models.WeeklyMetric  `json:"weekly"`
	Mix          []models.CategoryMix   `json:"mix"`
	Dow          []models.DowSummary    `json:"dow"`
	Months       []models.MonthSummary  `json:"months"`
	Grid         models.MonthDowGrid    `json:"grid"`
	Scored       []models.ScoredDay     `json:"scored"`
	Ranked       []models.ScoredDay     `json:"ranked"`
	Cards        []models.SpikeCard     `json:"cards"`
	Quality      models.QualitySummary  `json:"quality"`
	LastModified time.Time              `json:"last_modified"`
	RecordCount  int64                  `json:"record_count"`
}

type Analytics struct {
	mu               sync.RWMutex
	insights         *Insights
	cfg              config.AnalyticsConfig
	csvPath          string
	recordsProcessed atomic.Int64
	logger           *slog.Logger
}

func NewAnalytics(cfg config.AnalyticsConfig) *Analytics {
	if cfg.TopN == 0 {
		cfg.TopN = config.DefaultTopN
	}
	if cfg.MinCellDays == 0 {
		cfg.MinCellDays = DefaultMinCellDays
	}
	if cfg.ScoreColumn == "" {
		cfg.ScoreColumn = ScoreRobustZResidual
	}
	return &Analytics{
		insights: &Insights{},
		cfg:      cfg,
		logger:   slog.Default(),
	}
}

// SetData runs the pipeline over an in-memory transaction set.
func (a *Analytics) SetData(rows []models.Transaction) error {
	ins, err := a.computeInsights(context.Background(), rows)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.insights = ins
	a.mu.Unlock()
	a.recordsProcessed.Store(ins.RecordCount)
	return nil
}

func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	a.csvPath = filename

	if cached, err := a.loadFromCache(filename); err == nil {
		fileInfo, err := os.Stat(filename)
		if err == nil && fileInfo.ModTime().Before(cached.LastModified) {
			a.mu.Lock()
			a.insights = cached
			a.mu.Unlock()
			a.recordsProcessed.Store(cached.RecordCount)
			a.logger.Info("loaded from cache", "records", cached.RecordCount)
			return nil
		}
	}

	start := time.Now()
	a.logger.Info("processing CSV file", "filename", filename)

	ctx, span := observability.StartSpan(ctx, "pipeline.load")
	defer span.Finish()

	rows, err := LoadCSV(ctx, filename)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("load csv: %w", err)
	}

	ins, err := a.computeInsights(ctx, rows)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("compute insights: %w", err)
	}

	a.mu.Lock()
	a.insights = ins
	a.mu.Unlock()
	a.recordsProcessed.Store(ins.RecordCount)

	if err := a.saveToCache(filename); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}

	duration := time.Since(start)
	a.logger.Info("pipeline complete",
		"records", ins.RecordCount,
		"days", len(ins.Daily),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(ins.RecordCount)/duration.Seconds()))

	return nil
}

// computeInsights is the single deterministic pass wiring the pipeline:
// aggregation feeds the summarizer and the baseline; the baseline feeds the
// scorer; the scorer and the category mix feed the explainer. Identical
// input always yields identical output.
func (a *Analytics) computeInsights(ctx context.Context, rows []models.Transaction) (*Insights, error) {
	_, span := observability.StartSpan(ctx, "pipeline.compute")
	defer span.Finish()
	span.SetTag("rows", fmt.Sprintf("%d", len(rows)))

	quality := SanityChecks(rows)

	daily := DailyMetrics(rows)
	weekly := WeeklyMetrics(rows)
	mix := DailyCategoryMix(rows)

	dow := DowSummary(daily)
	months := MonthSummary(daily)
	grid := MonthDowGrid(daily)

	expected := ExpectedRevenue(daily, a.cfg.MinCellDays)
	scored, err := ScoreDaily(daily, expected)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	// Ranked holds every date; accessors truncate to the caller's n.
	ranked, err := TopSpikeDays(scored, len(scored), a.cfg.ScoreColumn)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	cards, err := BuildSpikeCards(scored, mix, a.cfg.TopN, a.cfg.ScoreColumn)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return &Insights{
		Daily:        daily,
		Weekly:       weekly,
		Mix:          mix,
		Dow:          dow,
		Months:       months,
		Grid:         grid,
		Scored:       scored,
		Ranked:       ranked,
		Cards:        cards,
		Quality:      quality,
		LastModified: time.Now(),
		RecordCount:  int64(len(rows)),
	}, nil
}

// Cache management
func (a *Analytics) getCacheFilename(csvPath string) string {
	return fmt.Sprintf("%s/%s_%s.gob", cacheDir, strings.ReplaceAll(csvPath, "/", "_"), cacheVersion)
}

func (a *Analytics) saveToCache(csvPath string) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(a.getCacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	a.mu.RLock()
	defer a.mu.RUnlock()

	return gob.NewEncoder(file).Encode(a.insights)
}

func (a *Analytics) loadFromCache(csvPath string) (*Insights, error) {
	file, err := os.Open(a.getCacheFilename(csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var ins Insights
	if err := gob.NewDecoder(file).Decode(&ins); err != nil {
		return nil, err
	}
	return &ins, nil
}

// Accessors return precomputed slices; callers must not mutate them.

func (a *Analytics) Insights() *Insights {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights
}

func (a *Analytics) DailyMetrics() []models.DailyMetric {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights.Daily
}

func (a *Analytics) WeeklyMetrics() []models.WeeklyMetric {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights.Weekly
}

func (a *Analytics) CategoryMix() []models.CategoryMix {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights.Mix
}

func (a *Analytics) DowSummary() []models.DowSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights.Dow
}

func (a *Analytics) MonthSummary() []models.MonthSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights.Months
}

func (a *Analytics) MonthDowGrid() models.MonthDowGrid {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights.Grid
}

func (a *Analytics) ScoredDaily() []models.ScoredDay {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights.Scored
}

// TopSpikes returns the first min(n, dates) entries of the precomputed
// ranking.
func (a *Analytics) TopSpikes(n int) []models.ScoredDay {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if len(a.insights.Ranked) <= n {
		return a.insights.Ranked
	}
	return a.insights.Ranked[:n]
}

// SpikeCards rebuilds cards for the requested n. The build is a pure
// function of the precomputed tables, so per-request recomputation stays
// deterministic.
func (a *Analytics) SpikeCards(n int) ([]models.SpikeCard, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if n == a.cfg.TopN {
		return a.insights.Cards, nil
	}
	return BuildSpikeCards(a.insights.Scored, a.insights.Mix, n, a.cfg.ScoreColumn)
}

func (a *Analytics) QualitySummary() models.QualitySummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.insights.Quality
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":   a.insights.RecordCount,
		"last_processed": a.insights.LastModified,
		"days":           len(a.insights.Daily),
		"weeks":          len(a.insights.Weekly),
		"months":         len(a.insights.Months),
		"mix_rows":       len(a.insights.Mix),
		"spike_cards":    len(a.insights.Cards),
		"score_column":   a.cfg.ScoreColumn,
	}
}
