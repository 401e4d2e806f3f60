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

// defaultListLimit bounds List calls that pass a non-positive limit.
const defaultListLimit = 20

// AnalysisRepository stores finished competitor reports so they can be
// retrieved, listed and exported later.
type AnalysisRepository struct {
	db      Querier
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewAnalysisRepository returns a repository over db. A nil logger falls
// back to the no-op logger; nil metrics disable instrumentation.
func NewAnalysisRepository(db Querier, logger logging.Logger, metrics *prometheus.AppMetrics) *AnalysisRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AnalysisRepository{db: db, logger: logger, metrics: metrics}
}

// Save persists a competitor report and returns the stored record with its
// generated analysis ID.
func (r *AnalysisRepository) Save(ctx context.Context, report ktypes.CompetitorReport) (ktypes.AnalysisRecord, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return ktypes.AnalysisRecord{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode report")
	}

	query := `
		INSERT INTO analyses (id, primary_keyword, market, total_found, report)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	id := uuid.New()
	var createdAt time.Time

	start := time.Now()
	err = r.db.QueryRow(ctx, query, id, report.PrimaryKeyword, report.Market, report.TotalFound, raw).Scan(&createdAt)
	recordQuery(r.metrics, "analyses.insert", start, err)
	if err != nil {
		return ktypes.AnalysisRecord{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to store analysis")
	}

	r.logger.Debug("analysis stored",
		logging.String("analysis_id", id.String()),
		logging.String("primary_keyword", report.PrimaryKeyword),
		logging.Int("total_found", report.TotalFound),
	)
	return ktypes.AnalysisRecord{ID: id.String(), Report: report, CreatedAt: createdAt}, nil
}

// GetByID loads one stored analysis. Unknown and malformed IDs both surface
// as analysis-not-found so the transport layer maps them to 404.
func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (ktypes.AnalysisRecord, error) {
	analysisID, err := uuid.Parse(id)
	if err != nil {
		return ktypes.AnalysisRecord{}, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found")
	}

	query := `SELECT id, report, created_at FROM analyses WHERE id = $1`

	var (
		storedID  uuid.UUID
		raw       []byte
		createdAt time.Time
	)
	start := time.Now()
	err = r.db.QueryRow(ctx, query, analysisID).Scan(&storedID, &raw, &createdAt)
	recordQuery(r.metrics, "analyses.get", start, err)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return ktypes.AnalysisRecord{}, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found")
		}
		return ktypes.AnalysisRecord{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load analysis")
	}

	var report ktypes.CompetitorReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return ktypes.AnalysisRecord{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode stored report")
	}
	return ktypes.AnalysisRecord{ID: storedID.String(), Report: report, CreatedAt: createdAt}, nil
}

// List returns stored analyses newest first, plus the total row count for
// pagination.
func (r *AnalysisRepository) List(ctx context.Context, limit, offset int) ([]ktypes.AnalysisSummary, int64, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	start := time.Now()
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&total)
	recordQuery(r.metrics, "analyses.count", start, err)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count analyses")
	}

	query := `
		SELECT id, primary_keyword, market, total_found, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	start = time.Now()
	rows, err := r.db.Query(ctx, query, limit, offset)
	recordQuery(r.metrics, "analyses.list", start, err)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list analyses")
	}
	defer rows.Close()

	summaries := make([]ktypes.AnalysisSummary, 0, limit)
	for rows.Next() {
		var (
			rowID   uuid.UUID
			summary ktypes.AnalysisSummary
		)
		if err := rows.Scan(&rowID, &summary.PrimaryKeyword, &summary.Market, &summary.TotalFound, &summary.CreatedAt); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan analysis row")
		}
		summary.ID = rowID.String()
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read analysis rows")
	}
	return summaries, total, nil
}
