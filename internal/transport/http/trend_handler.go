package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"trendcli/internal/batch"
	"trendcli/internal/dataprocessing"
	apierrors "trendcli/internal/errors"
	"trendcli/internal/exporter"
	"trendcli/internal/infrastructure"
	"trendcli/internal/services"
	"trendcli/internal/trend"
	"trendcli/internal/validation"
	"trendcli/pkg/contracts/domain"
)

// TrendHandler serves batch uploads, raw window classification, and the
// aggregated cross-batch views.
type TrendHandler struct {
	service        *services.AnalysisService
	history        *exporter.HistoryStore
	validator      *validation.FileValidator
	maxUploadBytes int64

	mu      sync.RWMutex
	lastAgg *batch.AggregationContext
}

// NewTrendHandler creates a new trend handler.
func NewTrendHandler(service *services.AnalysisService, history *exporter.HistoryStore, validator *validation.FileValidator, maxUploadBytes int64) *TrendHandler {
	return &TrendHandler{
		service:        service,
		history:        history,
		validator:      validator,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes sets up the trend analysis routes.
func (h *TrendHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/batches", h.ProcessBatches)
	r.Post("/classify", h.Classify)
	r.Get("/history", h.GetHistory)
	r.Get("/concepts", h.GetConcepts)
	r.Get("/common", h.GetCommonStocks)
	return r
}

// BatchSetResponse is the response for a processed upload set.
type BatchSetResponse struct {
	BatchDates     []string                 `json:"batch_dates"`
	Records        []domain.BatchRecord     `json:"records"`
	BatchTrend     []domain.BatchTrendPoint `json:"batch_trend"`
	ConceptRanking []domain.ConceptStat     `json:"concept_ranking"`
	CommonStocks   []domain.CommonStock     `json:"common_stocks"`
	Failures       []services.FileFailure   `json:"failures,omitempty"`
	Warnings       []string                 `json:"warnings,omitempty"`
}

// ProcessBatches accepts a multipart upload of one or more workbook
// files, runs the full pipeline, persists the merged history, and
// returns the aggregated results. Per-file failures are reported in the
// response, not as request errors.
func (h *TrendHandler) ProcessBatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := infrastructure.LoggerWithContext(ctx)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		render.Render(w, r, apierrors.BadRequest("invalid multipart upload"))
		return
	}
	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		render.Render(w, r, apierrors.BadRequest("no files uploaded (use form field 'files')"))
		return
	}

	var sources []services.BatchSource
	var failures []services.FileFailure
	for _, header := range uploads {
		if err := h.validator.ValidateUploadName(header.Filename); err != nil {
			failures = append(failures, services.FileFailure{Name: header.Filename, Error: err.Error()})
			continue
		}
		sources = append(sources, batchSource(header))
	}

	agg, processFailures := h.service.ProcessSources(ctx, sources)
	failures = append(failures, processFailures...)

	records := agg.Records()
	if _, err := h.history.Append(records); err != nil {
		logger.ErrorContext(ctx, "failed to persist history", "error", err)
		render.Render(w, r, apierrors.ErrFileSystem)
		return
	}

	h.mu.Lock()
	h.lastAgg = agg
	h.mu.Unlock()

	resp := &BatchSetResponse{
		BatchDates:     agg.BatchDates(),
		Records:        records,
		BatchTrend:     agg.BatchTrend(),
		ConceptRanking: agg.ConceptRanking(),
		CommonStocks:   agg.CommonStocks(),
		Failures:       failures,
		Warnings:       agg.Warnings(),
	}
	render.JSON(w, r, resp)
}

// ClassifyRequest is a raw classification request over explicit windows.
type ClassifyRequest struct {
	Closes         []float64 `json:"closes"`
	MAValues       []float64 `json:"ma_values"`
	CloseDays      int       `json:"close_days"`
	Mode           string    `json:"mode"`
	SlopeThreshold float64   `json:"slope_threshold"`
}

// Bind implements render.Binder.
func (req *ClassifyRequest) Bind(r *http.Request) error {
	return nil
}

// Classify applies the trend predicate to an explicit observation window.
// When no moving-average values are supplied they are synthesized from
// the closes, matching the batch pipeline's fallback.
func (h *TrendHandler) Classify(w http.ResponseWriter, r *http.Request) {
	req := &ClassifyRequest{}
	if err := render.Bind(r, req); err != nil {
		render.Render(w, r, apierrors.ErrInvalidRequest)
		return
	}

	mode := trend.Mode(req.Mode)
	if !mode.Valid() {
		render.Render(w, r, apierrors.BadRequest("mode must be 'strict' or 'ma_above'"))
		return
	}
	if req.CloseDays < 2 {
		render.Render(w, r, apierrors.BadRequest("close_days must be >= 2"))
		return
	}

	maValues := req.MAValues
	if len(maValues) == 0 {
		maValues = synthesizeMA(req.Closes)
	}

	assessment := trend.Classify(req.Closes, maValues, req.CloseDays, mode, req.SlopeThreshold)
	render.JSON(w, r, assessment)
}

// GetHistory returns the persisted cross-batch trend history.
func (h *TrendHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.Load()
	if err != nil {
		infrastructure.LoggerWithContext(r.Context()).ErrorContext(r.Context(), "failed to load history", "error", err)
		render.Render(w, r, apierrors.ErrFileSystem)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// GetConcepts returns the concept gain ranking from the last upload set.
func (h *TrendHandler) GetConcepts(w http.ResponseWriter, r *http.Request) {
	agg := h.currentAgg()
	if agg == nil {
		render.Render(w, r, apierrors.New(http.StatusNotFound, "NO_BATCHES", "no batches processed yet"))
		return
	}
	render.JSON(w, r, agg.ConceptRanking())
}

// GetCommonStocks returns the stocks present in every batch of the last
// upload set.
func (h *TrendHandler) GetCommonStocks(w http.ResponseWriter, r *http.Request) {
	agg := h.currentAgg()
	if agg == nil {
		render.Render(w, r, apierrors.New(http.StatusNotFound, "NO_BATCHES", "no batches processed yet"))
		return
	}
	render.JSON(w, r, agg.CommonStocks())
}

func (h *TrendHandler) currentAgg() *batch.AggregationContext {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastAgg
}

func batchSource(header *multipart.FileHeader) services.BatchSource {
	return services.BatchSource{
		Name: header.Filename,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func synthesizeMA(closes []float64) []float64 {
	return dataprocessing.SynthesizeMA(closes)
}
