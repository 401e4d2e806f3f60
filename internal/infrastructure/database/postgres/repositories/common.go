// Package repositories implements postgres persistence for analysis history
// and asynchronous bulk jobs.
package repositories

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// Querier abstracts *pgxpool.Pool and pgx.Tx so repositories run the same
// statements inside or outside a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// recordQuery reports query timing, counting only infrastructure failures.
// A no-rows outcome is a domain miss, not a database error.
func recordQuery(m *prometheus.AppMetrics, operation string, start time.Time, err error) {
	if stderrors.Is(err, pgx.ErrNoRows) {
		err = nil
	}
	prometheus.RecordDBQuery(m, "postgres", operation, time.Since(start), err)
}
