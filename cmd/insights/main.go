// Command insights runs the full analytics pipeline once and writes every
// output: CSV tables, spike cards JSON, quality summary JSON, an Excel
// workbook and a Markdown report.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"retail-insights/internal/config"
	"retail-insights/internal/export"
	"retail-insights/internal/observability"
	"retail-insights/internal/services"
)

const runTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	input := flag.String("input", cfg.Data.CSVFile, "path to the retail sales CSV")
	outDir := flag.String("out", cfg.Output.Dir, "output directory")
	report := flag.String("report", cfg.Output.ReportPath, "markdown report path")
	workbook := flag.String("workbook", cfg.Output.WorkbookPath, "Excel workbook path")
	topN := flag.Int("top-n", cfg.Analytics.TopN, "top N spike days to export")
	flag.Parse()

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	n := config.ClampTopN(*topN)
	cfg.Analytics.TopN = n

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	analytics := services.NewAnalytics(cfg.Analytics)

	start := time.Now()
	if err := analytics.LoadFromCSV(ctx, *input); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
	ins := analytics.Insights()

	if err := export.WriteTables(*outDir, ins, n); err != nil {
		logger.Error("failed to write output tables", "error", err)
		os.Exit(1)
	}
	if err := export.WriteWorkbook(*workbook, ins, n); err != nil {
		logger.Error("failed to write workbook", "error", err)
		os.Exit(1)
	}
	if err := export.WriteReport(*report, ins, n); err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(1)
	}

	logger.Info("pipeline outputs created",
		"out_dir", *outDir,
		"report", *report,
		"workbook", *workbook,
		"spike_days", n,
		"duration", time.Since(start),
	)
}
