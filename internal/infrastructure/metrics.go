package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters, exposed on /metrics by the web service.
var (
	// BatchesProcessed counts successfully processed batch files.
	BatchesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendcli_batches_processed_total",
		Help: "Number of batch files processed successfully.",
	})

	// BatchFailures counts batch files that could not be read or had no
	// identifiable structure.
	BatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendcli_batch_failures_total",
		Help: "Number of batch files skipped due to read or structural failures.",
	})

	// RecordsClassified counts per-stock classification records emitted.
	RecordsClassified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendcli_records_classified_total",
		Help: "Number of per-stock trend classification records produced.",
	})

	// RowsSkipped counts data rows dropped for missing identity columns.
	RowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendcli_rows_skipped_total",
		Help: "Number of data rows skipped due to missing stock codes.",
	})
)
