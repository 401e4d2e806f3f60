package autocomplete

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"exact", "in", "in"},
		{"uppercase", "US", "us"},
		{"surrounding space", "  uk ", "uk"},
		{"unknown falls back", "xx", "in"},
		{"empty falls back", "", "in"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.code).Code)
		})
	}
}

func TestFind(t *testing.T) {
	m, ok := Find("de")
	require.True(t, ok)
	assert.Equal(t, "A1PA6795UKMFR9", m.MarketplaceID)
	assert.Equal(t, "EUR", m.Currency)

	_, ok = Find("xx")
	assert.False(t, ok)
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 6)

	codes := make([]string, 0, len(all))
	for _, m := range all {
		codes = append(codes, m.Code)
		assert.NotEmpty(t, m.MarketplaceID, m.Code)
		assert.NotEmpty(t, m.Host, m.Code)
		assert.NotEmpty(t, m.Locale, m.Code)
		assert.NotEmpty(t, m.Currency, m.Code)
		assert.NotEmpty(t, m.Country, m.Code)
	}
	assert.Equal(t, []string{"au", "ca", "de", "in", "uk", "us"}, codes)
}

func TestNewClient_UnknownMarketFallsBack(t *testing.T) {
	c := NewClient("zz", nil, nil)
	assert.Equal(t, "in", c.Marketplace().Code)
	assert.Equal(t, "https://completion.amazon.in", c.baseURL)
}

func TestClient_Fetch_Success(t *testing.T) {
	var (
		gotPath  string
		gotQuery url.Values
		gotUA    string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"alias":"aps","prefix":"phone","suggestions":[{"value":"phone case"},{"value":"phone cover"},{"value":"   "}]}`)
	}))
	defer srv.Close()

	c := NewClient("in", nil, nil, WithBaseURL(srv.URL))
	got, err := c.Fetch(context.Background(), "phone")
	require.NoError(t, err)

	assert.Equal(t, []string{"phone case", "phone cover"}, got, "blank values dropped")
	assert.Equal(t, "/api/2017/suggestions", gotPath)
	assert.Equal(t, "A21TJRUUN4KGV", gotQuery.Get("mid"))
	assert.Equal(t, "aps", gotQuery.Get("alias"))
	assert.Equal(t, "phone", gotQuery.Get("prefix"))
	assert.Equal(t, "KEYWORD", gotQuery.Get("suggestion-type"))
	assert.Equal(t, "Search", gotQuery.Get("page-type"))
	assert.Equal(t, "en_IN", gotQuery.Get("lop"))
	assert.Equal(t, "desktop", gotQuery.Get("site-variant"))
	assert.Equal(t, "search-ui", gotQuery.Get("client-info"))
	assert.Contains(t, gotUA, "Mozilla")
}

func TestClient_Fetch_EmptySuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"suggestions":[]}`)
	}))
	defer srv.Close()

	c := NewClient("in", nil, nil, WithBaseURL(srv.URL))
	got, err := c.Fetch(context.Background(), "obscure gadget")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_Fetch_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("in", nil, nil, WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), "phone")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceRateLimited))
}

func TestClient_Fetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("in", nil, nil, WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), "phone")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceBadStatus))
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Fetch_DecodeFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `this is not json`)
	}))
	defer srv.Close()

	c := NewClient("in", nil, nil, WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), "phone")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceDecodeFailed))
}

func TestClient_Fetch_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient("in", nil, nil, WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), "phone")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceUnavailable))
}

func TestClient_Fetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("in", nil, nil, WithBaseURL(srv.URL))
	_, err := c.Fetch(ctx, "phone")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceUnavailable))
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestSourceStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", errors.New(errors.ErrCodeSourceRateLimited, "throttled"), "rate_limited"},
		{"bad status", errors.New(errors.ErrCodeSourceBadStatus, "502"), "bad_status"},
		{"decode failed", errors.New(errors.ErrCodeSourceDecodeFailed, "bad json"), "decode_failed"},
		{"network", stderrors.New("dial tcp: connection refused"), "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sourceStatus(tt.err))
		})
	}
}

func TestWithTimeout(t *testing.T) {
	c := NewClient("in", nil, nil, WithTimeout(3*time.Second))
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)

	c = NewClient("in", nil, nil, WithTimeout(0))
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}
