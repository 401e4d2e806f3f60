//go:build integration

package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

func TestBulkJobLifecycle(t *testing.T) {
	conn := startPostgres(t)
	ctx := testContext(t)
	jobs := repositories.NewJobRepository(conn.Pool(), logging.NewNopLogger(), nil)

	created, err := jobs.Create(ctx, []string{"yoga mat", "desk lamp"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, ktypes.JobStatusPending, created.Status)

	fetched, err := jobs.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, []string{"yoga mat", "desk lamp"}, fetched.Keywords)

	claimed, err := jobs.Claim(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, claimed, "first claim should win the job")

	claimedAgain, err := jobs.Claim(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, claimedAgain, "a running job must not be claimable twice")

	result := ktypes.BulkAnalysis{
		Results: []ktypes.ScoreRecord{
			{Keyword: "yoga mat", MagnetScore: 68},
			{Keyword: "desk lamp", MagnetScore: 55},
		},
		Total:            2,
		Successful:       2,
		ProcessingTimeMS: 12,
	}
	require.NoError(t, jobs.Complete(ctx, created.ID, result))

	done, err := jobs.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, ktypes.JobStatusCompleted, done.Status)
	require.NotNil(t, done.Result)
	assert.Equal(t, 2, done.Result.Total)
	assert.Len(t, done.Result.Results, 2)
	assert.True(t, done.UpdatedAt.After(done.CreatedAt.Add(-time.Second)))
}

func TestBulkJobFailure(t *testing.T) {
	conn := startPostgres(t)
	ctx := testContext(t)
	jobs := repositories.NewJobRepository(conn.Pool(), logging.NewNopLogger(), nil)

	created, err := jobs.Create(ctx, []string{"yoga mat"})
	require.NoError(t, err)

	claimed, err := jobs.Claim(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, jobs.Fail(ctx, created.ID, "scoring backend unavailable"))

	failed, err := jobs.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, ktypes.JobStatusFailed, failed.Status)
	assert.Equal(t, "scoring backend unavailable", failed.Error)
	assert.Nil(t, failed.Result)
}

func TestBulkJobNotFound(t *testing.T) {
	conn := startPostgres(t)
	ctx := testContext(t)
	jobs := repositories.NewJobRepository(conn.Pool(), logging.NewNopLogger(), nil)

	_, err := jobs.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
