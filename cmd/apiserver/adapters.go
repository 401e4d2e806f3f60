package main

import (
	"context"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/KeyRank-Intelligence/internal/interfaces/http/handlers"
)

// buildCheckers assembles readiness checkers for the wired dependencies.
// Optional clients that were not configured contribute no checker.
func buildCheckers(conn *postgres.Connection, redisClient *redis.Client, minioClient *minio.Client) []handlers.HealthChecker {
	checkers := []handlers.HealthChecker{postgresChecker{conn: conn}}
	if redisClient != nil {
		checkers = append(checkers, redisChecker{client: redisClient})
	}
	if minioClient != nil {
		checkers = append(checkers, minioChecker{client: minioClient})
	}
	return checkers
}

type postgresChecker struct {
	conn *postgres.Connection
}

func (c postgresChecker) Name() string { return "postgres" }

func (c postgresChecker) Check(ctx context.Context) error {
	return c.conn.HealthCheck(ctx)
}

type redisChecker struct {
	client *redis.Client
}

func (c redisChecker) Name() string { return "redis" }

func (c redisChecker) Check(ctx context.Context) error {
	return c.client.Ping(ctx)
}

type minioChecker struct {
	client *minio.Client
}

func (c minioChecker) Name() string { return "minio" }

func (c minioChecker) Check(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}
