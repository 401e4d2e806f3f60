package client

import (
	"context"
	"fmt"
	"net/url"

	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// KeywordsClient exposes the /keywords operations.
type KeywordsClient struct {
	client *Client
}

// Score scores a single keyword.
func (kc *KeywordsClient) Score(ctx context.Context, keyword string) (ktypes.ScoreRecord, error) {
	var record ktypes.ScoreRecord
	err := kc.client.post(ctx, "/api/v1/keywords/score", ktypes.ScoreRequest{Keyword: keyword}, &record)
	return record, err
}

// Suggest expands a seed keyword into suggestions. A zero limit uses the
// server default.
func (kc *KeywordsClient) Suggest(ctx context.Context, seed string, limit int) (ktypes.SeedSuggestions, error) {
	var result ktypes.SeedSuggestions
	err := kc.client.post(ctx, "/api/v1/keywords/suggest", ktypes.SuggestRequest{Seed: seed, Limit: limit}, &result)
	return result, err
}

// Bulk scores a batch of keywords synchronously.
func (kc *KeywordsClient) Bulk(ctx context.Context, keywords []string) (ktypes.BulkAnalysis, error) {
	var analysis ktypes.BulkAnalysis
	err := kc.client.post(ctx, "/api/v1/keywords/bulk", ktypes.BulkRequest{Keywords: keywords}, &analysis)
	return analysis, err
}

// BulkJobAccepted is the enqueue acknowledgement for an async bulk job.
type BulkJobAccepted struct {
	JobID  string           `json:"job_id"`
	Status ktypes.JobStatus `json:"status"`
}

// BulkAsync enqueues a batch for background scoring and returns the job ID.
func (kc *KeywordsClient) BulkAsync(ctx context.Context, keywords []string) (BulkJobAccepted, error) {
	var accepted BulkJobAccepted
	err := kc.client.post(ctx, "/api/v1/keywords/bulk/async", ktypes.BulkRequest{Keywords: keywords}, &accepted)
	return accepted, err
}

// BulkJob fetches the current state of an async bulk job.
func (kc *KeywordsClient) BulkJob(ctx context.Context, jobID string) (ktypes.BulkJob, error) {
	var job ktypes.BulkJob
	err := kc.client.get(ctx, fmt.Sprintf("/api/v1/keywords/bulk/jobs/%s", url.PathEscape(jobID)), &job)
	return job, err
}

// Marketplaces returns the supported marketplace table.
func (kc *KeywordsClient) Marketplaces(ctx context.Context) ([]ktypes.Marketplace, error) {
	var result struct {
		Marketplaces []ktypes.Marketplace `json:"marketplaces"`
	}
	err := kc.client.get(ctx, "/api/v1/marketplaces", &result)
	return result.Marketplaces, err
}
