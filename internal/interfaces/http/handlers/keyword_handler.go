package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// KeywordScorer scores one raw keyword.
type KeywordScorer interface {
	Score(ctx context.Context, raw string) (ktypes.ScoreRecord, error)
}

// SuggestionExpander expands a seed into related suggestions.
type SuggestionExpander interface {
	Expand(ctx context.Context, seed string, limit int) ([]string, error)
}

// BatchAnalyzer scores a keyword batch with per-keyword fault isolation.
// ValidateBatch applies the same admission checks without scoring, so async
// submissions can be rejected before a job row exists.
type BatchAnalyzer interface {
	Analyze(ctx context.Context, keywords []string) (ktypes.BulkAnalysis, error)
	ValidateBatch(keywords []string) error
}

// JobStore persists asynchronous bulk jobs.
type JobStore interface {
	Create(ctx context.Context, keywords []string) (ktypes.BulkJob, error)
	GetByID(ctx context.Context, id string) (ktypes.BulkJob, error)
	Fail(ctx context.Context, id string, reason string) error
}

// JobPublisher enqueues bulk job requests for the workers.
type JobPublisher interface {
	PublishRequest(ctx context.Context, req kafka.JobRequest) error
}

// DefaultLimit applies when a request leaves its limit field unset.
const DefaultLimit = 20

// KeywordHandler serves the /keywords endpoints: single scoring, suggestion
// expansion and synchronous or asynchronous bulk analysis.
type KeywordHandler struct {
	scorer       KeywordScorer
	expander     SuggestionExpander
	analyzer     BatchAnalyzer
	jobs         JobStore
	publisher    JobPublisher
	logger       logging.Logger
	suggestLimit int
}

// KeywordOption adjusts keyword handler construction.
type KeywordOption func(*KeywordHandler)

// WithSuggestLimit sets the limit substituted when a suggest request omits
// one. Values below 1 are ignored.
func WithSuggestLimit(n int) KeywordOption {
	return func(h *KeywordHandler) {
		if n >= 1 {
			h.suggestLimit = n
		}
	}
}

// NewKeywordHandler wires the keyword endpoints. jobs and publisher may be
// nil when async bulk analysis is disabled; the async endpoints then return
// a feature-disabled error.
func NewKeywordHandler(scorer KeywordScorer, expander SuggestionExpander, analyzer BatchAnalyzer, jobs JobStore, publisher JobPublisher, logger logging.Logger, opts ...KeywordOption) *KeywordHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	h := &KeywordHandler{
		scorer:       scorer,
		expander:     expander,
		analyzer:     analyzer,
		jobs:         jobs,
		publisher:    publisher,
		logger:       logger.Named("http.keywords"),
		suggestLimit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Score handles POST /keywords/score.
func (h *KeywordHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ktypes.ScoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}

	record, err := h.scorer.Score(r.Context(), req.Keyword)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, record)
}

// Suggest handles POST /keywords/suggest. A request that omits the limit
// gets the configured server default.
func (h *KeywordHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req ktypes.SuggestRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = h.suggestLimit
	}

	suggestions, err := h.expander.Expand(r.Context(), req.Seed, limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, ktypes.SeedSuggestions{
		Seed:        req.Seed,
		Suggestions: suggestions,
		Total:       len(suggestions),
	})
}

// Bulk handles POST /keywords/bulk, scoring the batch inline.
func (h *KeywordHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req ktypes.BulkRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), req.Keywords)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, analysis)
}

// bulkJobAccepted is the 202 body for an enqueued bulk job.
type bulkJobAccepted struct {
	JobID  string           `json:"job_id"`
	Status ktypes.JobStatus `json:"status"`
}

// BulkAsync handles POST /keywords/bulk/async. The job row is created first,
// then the request is published for the workers; if publishing fails the job
// is marked failed so the client never polls a stuck pending job.
func (h *KeywordHandler) BulkAsync(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil || h.publisher == nil {
		writeAppError(w, r, errors.New(errors.ErrCodeFeatureDisabled, "async bulk analysis is disabled"))
		return
	}

	var req ktypes.BulkRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}

	// Reject invalid batches at submission; a job the worker is guaranteed
	// to fail must never reach the queue.
	if err := h.analyzer.ValidateBatch(req.Keywords); err != nil {
		writeAppError(w, r, err)
		return
	}

	job, err := h.jobs.Create(r.Context(), req.Keywords)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	pubErr := h.publisher.PublishRequest(r.Context(), kafka.JobRequest{
		JobID:      job.ID,
		Keywords:   job.Keywords,
		EnqueuedAt: time.Now().UTC(),
	})
	if pubErr != nil {
		if failErr := h.jobs.Fail(r.Context(), job.ID, "enqueue failed"); failErr != nil {
			h.logger.Error("could not mark unpublished job as failed",
				logging.String("job_id", job.ID),
				logging.Err(failErr),
			)
		}
		writeAppError(w, r, pubErr)
		return
	}

	writeSuccess(w, r, http.StatusAccepted, bulkJobAccepted{JobID: job.ID, Status: job.Status})
}

// BulkJob handles GET /keywords/bulk/jobs/{jobID}.
func (h *KeywordHandler) BulkJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		writeAppError(w, r, errors.New(errors.ErrCodeFeatureDisabled, "async bulk analysis is disabled"))
		return
	}

	jobID := chi.URLParam(r, "jobID")
	job, err := h.jobs.GetByID(r.Context(), jobID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, job)
}
