package repositories_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

func newAnalysisRepo(t *testing.T) (*repositories.AnalysisRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return repositories.NewAnalysisRepository(mock, nil, nil), mock
}

func testReport() ktypes.CompetitorReport {
	return ktypes.CompetitorReport{
		PrimaryKeyword: "yoga mat",
		CompetitorKeywords: []ktypes.ScoreRecord{
			{Keyword: "yoga mat thick", MagnetScore: 61},
		},
		TotalFound: 1,
		Market:     "in",
		Currency:   "INR",
	}
}

func TestAnalysisRepositorySave(t *testing.T) {
	repo, mock := newAnalysisRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO analyses`).
		WithArgs(pgxmock.AnyArg(), "yoga mat", "in", 1, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	rec, err := repo.Save(context.Background(), testReport())
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "yoga mat", rec.Report.PrimaryKeyword)
	assert.Equal(t, now, rec.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryGetByID(t *testing.T) {
	repo, mock := newAnalysisRepo(t)
	id := uuid.New()
	now := time.Now().UTC()

	raw, err := json.Marshal(testReport())
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, report, created_at FROM analyses`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "report", "created_at"}).AddRow(id, raw, now))

	rec, err := repo.GetByID(context.Background(), id.String())
	require.NoError(t, err)

	assert.Equal(t, id.String(), rec.ID)
	assert.Equal(t, "INR", rec.Report.Currency)
	require.Len(t, rec.Report.CompetitorKeywords, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newAnalysisRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, report, created_at FROM analyses`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id.String())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisNotFound))
}

func TestAnalysisRepositoryGetByIDMalformed(t *testing.T) {
	repo, _ := newAnalysisRepo(t)

	_, err := repo.GetByID(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisNotFound))
}

func TestAnalysisRepositoryList(t *testing.T) {
	repo, mock := newAnalysisRepo(t)
	now := time.Now().UTC()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM analyses`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))
	mock.ExpectQuery(`SELECT id, primary_keyword, market, total_found, created_at`).
		WithArgs(2, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "primary_keyword", "market", "total_found", "created_at"}).
			AddRow(first, "yoga mat", "in", 12, now).
			AddRow(second, "desk lamp", "in", 8, now.Add(-time.Hour)))

	summaries, total, err := repo.List(context.Background(), 2, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 7, total)
	require.Len(t, summaries, 2)
	assert.Equal(t, first.String(), summaries[0].ID)
	assert.Equal(t, "yoga mat", summaries[0].PrimaryKeyword)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryListDefaultsLimit(t *testing.T) {
	repo, mock := newAnalysisRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM analyses`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`SELECT id, primary_keyword, market, total_found, created_at`).
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "primary_keyword", "market", "total_found", "created_at"}))

	summaries, total, err := repo.List(context.Background(), 0, -3)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, summaries)
	require.NoError(t, mock.ExpectationsWereMet())
}
