package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysesAnalyze(t *testing.T) {
	c, stub := newStubClient(t, map[string]interface{}{
		"id": "an-1",
		"report": map[string]interface{}{
			"primary_keyword": "yoga mat",
			"total_found":     12,
		},
	})

	rec, err := c.Analyses().Analyze(context.Background(), "yoga mat", 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"POST /api/v1/competitors/analyze"}, stub.paths)
	assert.Equal(t, "yoga mat", stub.bodies[0]["keyword"])
	assert.EqualValues(t, 20, stub.bodies[0]["limit"])
	assert.Equal(t, "an-1", rec.ID)
	assert.Equal(t, 12, rec.Report.TotalFound)
}

func TestAnalysesList(t *testing.T) {
	c, stub := newStubClient(t, map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": "an-1", "primary_keyword": "yoga mat"},
		},
		"total":       7,
		"page":        2,
		"page_size":   5,
		"total_pages": 2,
	})

	page, err := c.Analyses().List(context.Background(), 2, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /api/v1/analyses?page=2&page_size=5"}, stub.paths)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestAnalysesGetAndExport(t *testing.T) {
	c, stub := newStubClient(t, map[string]interface{}{"id": "an-9"})

	rec, err := c.Analyses().Get(context.Background(), "an-9")
	require.NoError(t, err)
	assert.Equal(t, "an-9", rec.ID)

	stub.response = map[string]interface{}{
		"analysis_id": "an-9",
		"url":         "https://store.local/analyses/an-9.json?signed=1",
	}
	export, err := c.Analyses().ExportURL(context.Background(), "an-9")
	require.NoError(t, err)
	assert.Contains(t, export.URL, "an-9.json")

	assert.Equal(t, []string{
		"GET /api/v1/analyses/an-9",
		"GET /api/v1/analyses/an-9/export",
	}, stub.paths)
}

func TestAnalysesGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"RPT_002","message":"analysis not found"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Analyses().Get(context.Background(), "missing")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "RPT_002", apiErr.Code)
}
