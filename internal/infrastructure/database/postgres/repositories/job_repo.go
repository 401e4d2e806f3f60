package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// JobRepository tracks asynchronous bulk jobs from enqueue to completion.
// The queue delivers at least once, so every transition tolerates replays:
// Claim refuses jobs that already finished and Complete writes the same
// deterministic result on every delivery.
type JobRepository struct {
	db      Querier
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewJobRepository returns a repository over db. A nil logger falls back to
// the no-op logger; nil metrics disable instrumentation.
func NewJobRepository(db Querier, logger logging.Logger, metrics *prometheus.AppMetrics) *JobRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &JobRepository{db: db, logger: logger, metrics: metrics}
}

// Create stores a pending job and returns it with ID and timestamps set.
func (r *JobRepository) Create(ctx context.Context, keywords []string) (ktypes.BulkJob, error) {
	rawKeywords, err := json.Marshal(keywords)
	if err != nil {
		return ktypes.BulkJob{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode job keywords")
	}

	query := `
		INSERT INTO bulk_jobs (id, status, keywords)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	id := uuid.New()
	job := ktypes.BulkJob{
		ID:       id.String(),
		Status:   ktypes.JobStatusPending,
		Keywords: keywords,
	}

	start := time.Now()
	err = r.db.QueryRow(ctx, query, id, ktypes.JobStatusPending, rawKeywords).Scan(&job.CreatedAt, &job.UpdatedAt)
	recordQuery(r.metrics, "bulk_jobs.insert", start, err)
	if err != nil {
		return ktypes.BulkJob{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to store bulk job")
	}

	r.logger.Debug("bulk job created",
		logging.String("job_id", job.ID),
		logging.Int("keywords", len(keywords)),
	)
	return job, nil
}

// GetByID loads one job with its result when present. Unknown and malformed
// IDs both surface as job-not-found.
func (r *JobRepository) GetByID(ctx context.Context, id string) (ktypes.BulkJob, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return ktypes.BulkJob{}, errors.New(errors.ErrCodeJobNotFound, "bulk job not found")
	}

	query := `
		SELECT id, status, keywords, result, error, created_at, updated_at
		FROM bulk_jobs
		WHERE id = $1
	`

	var (
		storedID    uuid.UUID
		status      string
		rawKeywords []byte
		rawResult   []byte
		job         ktypes.BulkJob
	)
	start := time.Now()
	err = r.db.QueryRow(ctx, query, jobID).Scan(
		&storedID, &status, &rawKeywords, &rawResult, &job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	recordQuery(r.metrics, "bulk_jobs.get", start, err)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return ktypes.BulkJob{}, errors.New(errors.ErrCodeJobNotFound, "bulk job not found")
		}
		return ktypes.BulkJob{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load bulk job")
	}

	job.ID = storedID.String()
	job.Status = ktypes.JobStatus(status)
	if err := json.Unmarshal(rawKeywords, &job.Keywords); err != nil {
		return ktypes.BulkJob{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode job keywords")
	}
	if len(rawResult) > 0 {
		var result ktypes.BulkAnalysis
		if err := json.Unmarshal(rawResult, &result); err != nil {
			return ktypes.BulkJob{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode job result")
		}
		job.Result = &result
	}
	return job, nil
}

// Claim moves a job to running unless it already reached a terminal state.
// Workers skip the message when Claim reports false: the job either finished
// on an earlier delivery or belongs to nobody.
func (r *JobRepository) Claim(ctx context.Context, id string) (bool, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return false, errors.New(errors.ErrCodeJobNotFound, "bulk job not found")
	}

	query := `
		UPDATE bulk_jobs
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status IN ($3, $4)
	`
	start := time.Now()
	tag, err := r.db.Exec(ctx, query, jobID,
		ktypes.JobStatusRunning, ktypes.JobStatusPending, ktypes.JobStatusRunning)
	recordQuery(r.metrics, "bulk_jobs.claim", start, err)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to claim bulk job")
	}
	return tag.RowsAffected() > 0, nil
}

// Complete stores the result and marks the job done.
func (r *JobRepository) Complete(ctx context.Context, id string, result ktypes.BulkAnalysis) error {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return errors.New(errors.ErrCodeJobNotFound, "bulk job not found")
	}
	rawResult, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode job result")
	}

	query := `
		UPDATE bulk_jobs
		SET status = $2, result = $3, error = '', updated_at = now()
		WHERE id = $1
	`
	start := time.Now()
	tag, err := r.db.Exec(ctx, query, jobID, ktypes.JobStatusCompleted, rawResult)
	recordQuery(r.metrics, "bulk_jobs.complete", start, err)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to complete bulk job")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeJobNotFound, "bulk job not found")
	}

	r.logger.Debug("bulk job completed",
		logging.String("job_id", id),
		logging.Int("successful", result.Successful),
		logging.Int("failed", result.Failed),
	)
	return nil
}

// Fail marks the job failed with the reason shown to clients.
func (r *JobRepository) Fail(ctx context.Context, id string, reason string) error {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return errors.New(errors.ErrCodeJobNotFound, "bulk job not found")
	}

	query := `
		UPDATE bulk_jobs
		SET status = $2, error = $3, updated_at = now()
		WHERE id = $1
	`
	start := time.Now()
	tag, err := r.db.Exec(ctx, query, jobID, ktypes.JobStatusFailed, reason)
	recordQuery(r.metrics, "bulk_jobs.fail", start, err)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to mark bulk job failed")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeJobNotFound, "bulk job not found")
	}
	return nil
}
