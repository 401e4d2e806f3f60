package client

import (
	"context"
	"fmt"
	"net/url"

	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// AnalysesClient exposes competitor analysis runs and their stored history.
type AnalysesClient struct {
	client *Client
}

// Analyze runs a competitor analysis for the primary keyword and returns the
// persisted record. A zero limit uses the server default.
func (ac *AnalysesClient) Analyze(ctx context.Context, keyword string, limit int) (ktypes.AnalysisRecord, error) {
	var rec ktypes.AnalysisRecord
	err := ac.client.post(ctx, "/api/v1/competitors/analyze", ktypes.CompetitorRequest{Keyword: keyword, Limit: limit}, &rec)
	return rec, err
}

// AnalysisPage is one page of stored analysis runs.
type AnalysisPage struct {
	Items      []ktypes.AnalysisSummary `json:"items"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

// List pages through stored analysis runs, newest first.
func (ac *AnalysesClient) List(ctx context.Context, page, pageSize int) (AnalysisPage, error) {
	var result AnalysisPage
	path := fmt.Sprintf("/api/v1/analyses?page=%d&page_size=%d", page, pageSize)
	err := ac.client.get(ctx, path, &result)
	return result, err
}

// Get fetches one stored analysis run.
func (ac *AnalysesClient) Get(ctx context.Context, analysisID string) (ktypes.AnalysisRecord, error) {
	var rec ktypes.AnalysisRecord
	err := ac.client.get(ctx, fmt.Sprintf("/api/v1/analyses/%s", url.PathEscape(analysisID)), &rec)
	return rec, err
}

// Export is a presigned download link for one stored analysis.
type Export struct {
	AnalysisID string `json:"analysis_id"`
	URL        string `json:"url"`
}

// ExportURL requests a presigned download link for one stored analysis.
func (ac *AnalysesClient) ExportURL(ctx context.Context, analysisID string) (Export, error) {
	var result Export
	err := ac.client.get(ctx, fmt.Sprintf("/api/v1/analyses/%s/export", url.PathEscape(analysisID)), &result)
	return result, err
}
