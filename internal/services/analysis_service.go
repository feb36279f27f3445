package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"trendcli/internal/batch"
	"trendcli/internal/dataprocessing"
	"trendcli/internal/infrastructure"
)

// BatchSource is one uploadable batch: a display name plus an opener for
// its workbook bytes.
type BatchSource struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileFailure records a batch file that could not be processed. Failures
// are per-file and never abort the remaining batches.
type FileFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// AnalysisService orchestrates batch processing: sources are parsed and
// classified concurrently (each batch is pure, self-contained work) and
// the results are merged into the aggregation context serially, in input
// order.
type AnalysisService struct {
	cfg    batch.Config
	logger *slog.Logger
}

// NewAnalysisService creates an analysis service with the given
// parameters.
func NewAnalysisService(cfg batch.Config, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{cfg: cfg, logger: logger}
}

// maxConcurrentBatches bounds parallel workbook parsing; batches are
// memory-heavy, not CPU-bound, so a small limit suffices.
const maxConcurrentBatches = 4

// ProcessSources runs every source through the classification pipeline
// and merges the successful results into a fresh aggregation context.
// Returns the context together with the per-file failures.
func (s *AnalysisService) ProcessSources(ctx context.Context, sources []BatchSource) (*batch.AggregationContext, []FileFailure) {
	results := make([]*batch.Result, len(sources))

	var mu sync.Mutex
	var failures []FileFailure

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.processOne(src)
			if err != nil {
				s.logger.WarnContext(gctx, "skipping batch file",
					slog.String("file", src.Name),
					slog.String("error", err.Error()))
				infrastructure.BatchFailures.Inc()
				mu.Lock()
				failures = append(failures, FileFailure{Name: src.Name, Error: err.Error()})
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// Per-file errors are swallowed above; the only group error is
	// context cancellation, which still leaves partial results usable.
	_ = g.Wait()

	agg := batch.NewAggregationContext()
	for _, res := range results {
		if res == nil {
			continue
		}
		agg.Merge(res)
		infrastructure.BatchesProcessed.Inc()
		infrastructure.RecordsClassified.Add(float64(len(res.Records)))
		infrastructure.RowsSkipped.Add(float64(res.SkippedRows))
	}

	s.logger.InfoContext(ctx, "batch set processed",
		slog.Int("sources", len(sources)),
		slog.Int("merged", agg.BatchCount()),
		slog.Int("failed", len(failures)))

	return agg, failures
}

// ProcessFiles is a convenience wrapper over ProcessSources for on-disk
// workbooks.
func (s *AnalysisService) ProcessFiles(ctx context.Context, paths []string) (*batch.AggregationContext, []FileFailure) {
	sources := make([]BatchSource, len(paths))
	for i, path := range paths {
		path := path
		sources[i] = BatchSource{
			Name: path,
			Open: func() (io.ReadCloser, error) {
				return os.Open(path)
			},
		}
	}
	return s.ProcessSources(ctx, sources)
}

func (s *AnalysisService) processOne(src BatchSource) (*batch.Result, error) {
	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Name, err)
	}
	defer r.Close()

	grid, err := dataprocessing.ReadGrid(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Name, err)
	}

	return batch.Process(grid, src.Name, s.cfg, time.Now())
}
