package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"trendcli/internal/batch"
	"trendcli/internal/config"
	"trendcli/internal/exporter"
	"trendcli/internal/files"
	"trendcli/internal/infrastructure"
	"trendcli/internal/services"
	"trendcli/internal/trend"
	"trendcli/internal/validation"
	"trendcli/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", "", "input directory containing .xlsx batch files (default: configured data dir)")
	outDir := flag.String("out", "", "output directory for CSV reports (default: configured reports dir)")
	mode := flag.String("mode", "", "trend mode override: strict or ma_above")
	closeDays := flag.Int("days", 0, "close days override (>= 2)")
	threshold := flag.Float64("threshold", 0, "minimum slope threshold override, percent")
	headerRows := flag.Int("header-rows", 0, "header rows override (>= 1)")
	skipRows := flag.Int("skip-rows", -1, "rows of leading commentary to skip")
	conceptCol := flag.String("concept-col", "", "concept column name override")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	applyOverrides(&cfg.Analysis, *mode, *closeDays, *threshold, *headerRows, *skipRows, *conceptCol)
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid analysis parameters", "error", err)
		os.Exit(1)
	}

	if *inDir == "" {
		*inDir = cfg.Paths.DataDir
	}
	if *outDir == "" {
		*outDir = cfg.Paths.ReportsDir
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(*inDir, "*.xlsx"); err != nil {
		logger.Error("Input directory validation failed", "error", err)
		os.Exit(1)
	}

	discovery := files.NewDiscovery("")
	batchFiles, err := discovery.FindExcelFiles(*inDir)
	if err != nil {
		logger.Error("Failed to discover batch files", "error", err)
		os.Exit(1)
	}
	if len(batchFiles) == 0 {
		logger.Warn("No batch files found", "dir", *inDir)
		return
	}

	paths := make([]string, len(batchFiles))
	for i, f := range batchFiles {
		paths[i] = f.Path
	}
	logger.Info("Processing batch files", "count", len(paths), "dir", *inDir)

	service := services.NewAnalysisService(batch.Config{
		Mode:           trend.Mode(cfg.Analysis.Mode),
		SlopeThreshold: cfg.Analysis.SlopeThreshold,
		CloseDays:      cfg.Analysis.CloseDays,
		HeaderRows:     cfg.Analysis.HeaderRows,
		SkipRows:       cfg.Analysis.SkipRows,
		ConceptColumn:  cfg.Analysis.ConceptColumn,
	}, logger)

	agg, failures := service.ProcessFiles(context.Background(), paths)
	for _, failure := range failures {
		logger.Warn("Batch file skipped", "file", failure.Name, "error", failure.Error)
	}
	if agg.BatchCount() == 0 {
		logger.Error("No batches could be processed")
		os.Exit(1)
	}

	if err := writeReports(cfg, agg, *outDir, logger); err != nil {
		logger.Error("Failed to write reports", "error", err)
		os.Exit(1)
	}

	printSummary(agg, failures)
}

func applyOverrides(a *config.AnalysisConfig, mode string, closeDays int, threshold float64, headerRows, skipRows int, conceptCol string) {
	if mode != "" {
		a.Mode = mode
	}
	if closeDays > 0 {
		a.CloseDays = closeDays
	}
	if threshold > 0 {
		a.SlopeThreshold = threshold
	}
	if headerRows > 0 {
		a.HeaderRows = headerRows
	}
	if skipRows >= 0 {
		a.SkipRows = skipRows
	}
	if conceptCol != "" {
		a.ConceptColumn = conceptCol
	}
}

func writeReports(cfg *config.Config, agg *batch.AggregationContext, outDir string, logger *slog.Logger) error {
	writer := exporter.NewCSVWriter(outDir)
	history := exporter.NewHistoryStore(writer, cfg.Paths.HistoryFile)
	reports := exporter.NewReportExporter(writer)

	merged, err := history.Append(agg.Records())
	if err != nil {
		return err
	}
	logger.Info("History merged", "total_records", len(merged), "file", cfg.Paths.HistoryFile)

	if dates := agg.BatchDates(); len(dates) > 0 {
		latest := dates[len(dates)-1]
		if err := reports.WriteLastBatch(cfg.Paths.LastBatchFile, recordsForDate(agg, latest)); err != nil {
			return err
		}
	}

	if err := reports.WriteBatchTrend(cfg.Paths.BatchTrendFile, agg.BatchTrend()); err != nil {
		return err
	}
	return reports.WriteConceptRanking(cfg.Paths.ConceptFile, agg.ConceptRanking())
}

func recordsForDate(agg *batch.AggregationContext, date string) []domain.BatchRecord {
	var out []domain.BatchRecord
	for _, rec := range agg.Records() {
		if rec.Date == date {
			out = append(out, rec)
		}
	}
	return out
}

func printSummary(agg *batch.AggregationContext, failures []services.FileFailure) {
	fmt.Printf("Processed %d batches (%d failed files)\n", agg.BatchCount(), len(failures))
	for _, point := range agg.BatchTrend() {
		fmt.Printf("  %s: %d/%d passed (%.1f%%)\n", point.Date, point.Passed, point.Total, point.PassRate*100)
	}
	if ranking := agg.ConceptRanking(); len(ranking) > 0 {
		top := ranking
		if len(top) > 5 {
			top = top[:5]
		}
		fmt.Println("Top concepts by average gain:")
		for _, stat := range top {
			fmt.Printf("  %s: %.2f%% avg over %d stocks\n", stat.Concept, stat.AvgGain, stat.StockCount)
		}
	}
}
