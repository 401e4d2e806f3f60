package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	"github.com/turtacn/KeyRank-Intelligence/pkg/types/common"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// ReportAggregator produces a competitor report for a primary keyword.
type ReportAggregator interface {
	Aggregate(ctx context.Context, primary string, limit int) (ktypes.CompetitorReport, error)
}

// AnalysisStore persists competitor reports for later retrieval.
type AnalysisStore interface {
	Save(ctx context.Context, report ktypes.CompetitorReport) (ktypes.AnalysisRecord, error)
	GetByID(ctx context.Context, id string) (ktypes.AnalysisRecord, error)
	List(ctx context.Context, limit, offset int) ([]ktypes.AnalysisSummary, int64, error)
}

// ReportArchive mirrors analysis records into object storage and produces
// presigned export links.
type ReportArchive interface {
	PutReport(ctx context.Context, rec ktypes.AnalysisRecord) error
	ExportURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

// AnalysisHandler serves competitor analysis runs and their stored history.
type AnalysisHandler struct {
	aggregator   ReportAggregator
	store        AnalysisStore
	archive      ReportArchive
	logger       logging.Logger
	defaultLimit int
}

// AnalysisOption adjusts analysis handler construction.
type AnalysisOption func(*AnalysisHandler)

// WithCompetitorLimit sets the limit substituted when an analyze request
// omits one. Values below 1 are ignored.
func WithCompetitorLimit(n int) AnalysisOption {
	return func(h *AnalysisHandler) {
		if n >= 1 {
			h.defaultLimit = n
		}
	}
}

// NewAnalysisHandler wires the competitor and analysis endpoints. archive
// may be nil; export then returns a feature-disabled error.
func NewAnalysisHandler(aggregator ReportAggregator, store AnalysisStore, archive ReportArchive, logger logging.Logger, opts ...AnalysisOption) *AnalysisHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	h := &AnalysisHandler{
		aggregator:   aggregator,
		store:        store,
		archive:      archive,
		logger:       logger.Named("http.analyses"),
		defaultLimit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Analyze handles POST /competitors/analyze: run the aggregation, persist
// the report and hand back the stored record with its analysis ID. A request
// that omits the limit gets the configured server default.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req ktypes.CompetitorRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = h.defaultLimit
	}

	report, err := h.aggregator.Aggregate(r.Context(), req.Keyword, limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	rec, err := h.store.Save(r.Context(), report)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	// Archive mirroring is best-effort: the report is already durable in
	// postgres, only export is degraded on failure.
	if h.archive != nil {
		if archErr := h.archive.PutReport(r.Context(), rec); archErr != nil {
			h.logger.Warn("report archive upload failed",
				logging.String("analysis_id", rec.ID),
				logging.Err(archErr),
			)
		}
	}

	writeSuccess(w, r, http.StatusOK, rec)
}

// List handles GET /analyses with page/page_size query parameters.
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r)

	items, total, err := h.store.List(r.Context(), p.PageSize, p.Offset())
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, common.PageResponse[ktypes.AnalysisSummary]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: int((total + int64(p.PageSize) - 1) / int64(p.PageSize)),
	})
}

// Get handles GET /analyses/{analysisID}.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetByID(r.Context(), chi.URLParam(r, "analysisID"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, rec)
}

// exportResponse carries a presigned download link.
type exportResponse struct {
	AnalysisID string `json:"analysis_id"`
	URL        string `json:"url"`
}

// Export handles GET /analyses/{analysisID}/export. The record is looked up
// first so a missing analysis yields 404 rather than a presigned URL to a
// nonexistent object.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeAppError(w, r, errors.New(errors.ErrCodeFeatureDisabled, "report export is disabled"))
		return
	}

	id := chi.URLParam(r, "analysisID")
	if _, err := h.store.GetByID(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}

	u, err := h.archive.ExportURL(r.Context(), id, 0)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, exportResponse{AnalysisID: id, URL: u})
}
