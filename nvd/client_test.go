package nvd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakeNow = func() time.Time {
	return time.Date(2025, 10, 4, 15, 30, 45, 0, time.UTC)
}

func TestBuildWindow(t *testing.T) {
	tests := []struct {
		name          string
		query         Query
		wantField     string
		wantSinceDays int
		wantStartISO  string
		wantEndISO    string
	}{
		{
			name:          "default window",
			query:         Query{},
			wantField:     "published",
			wantSinceDays: 180,
			wantStartISO:  "2025-04-07T00:00:00.000Z",
			wantEndISO:    "2025-10-04T00:00:00.000Z",
		},
		{
			name:          "explicit sinceDays",
			query:         Query{SinceDays: 7},
			wantField:     "published",
			wantSinceDays: 7,
			wantStartISO:  "2025-09-27T00:00:00.000Z",
			wantEndISO:    "2025-10-04T00:00:00.000Z",
		},
		{
			name:          "negative sinceDays clamps to zero",
			query:         Query{SinceDays: -5},
			wantField:     "published",
			wantSinceDays: 0,
			wantStartISO:  "2025-10-04T00:00:00.000Z",
			wantEndISO:    "2025-10-04T00:00:00.000Z",
		},
		{
			name:          "lastModified field",
			query:         Query{SinceDays: 1, DateField: "lastModified"},
			wantField:     "lastModified",
			wantSinceDays: 1,
			wantStartISO:  "2025-10-03T00:00:00.000Z",
			wantEndISO:    "2025-10-04T00:00:00.000Z",
		},
		{
			name:          "unknown field falls back to published",
			query:         Query{SinceDays: 1, DateField: "created"},
			wantField:     "published",
			wantSinceDays: 1,
			wantStartISO:  "2025-10-03T00:00:00.000Z",
			wantEndISO:    "2025-10-04T00:00:00.000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(WithNow(fakeNow))
			got := c.BuildWindow(tt.query)
			assert.Equal(t, tt.wantField, got.Field)
			assert.Equal(t, tt.wantSinceDays, got.SinceDays)
			assert.Equal(t, tt.wantStartISO, got.StartISO)
			assert.Equal(t, tt.wantEndISO, got.EndISO)
		})
	}
}

func TestFetch(t *testing.T) {
	respBody := `{
		"resultsPerPage": 1,
		"startIndex": 0,
		"totalResults": 1,
		"vulnerabilities": [
			{"cve": {"id": "CVE-2025-1234", "vulnStatus": "Analyzed",
				"descriptions": [{"lang": "en", "value": "test record"}]}}
		]
	}`

	var gotURL string
	var gotAPIKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		gotAPIKey = r.Header.Get("apiKey")
		_, _ = w.Write([]byte(respBody))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithAPIKey("test_api_key"), WithNow(fakeNow))
	resp, window, err := c.Fetch(context.Background(), Query{
		Keyword:        "openssl",
		SinceDays:      30,
		ResultsPerPage: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "test_api_key", gotAPIKey)
	assert.Contains(t, gotURL, "keywordSearch=openssl")
	assert.Contains(t, gotURL, "resultsPerPage=5")
	assert.Contains(t, gotURL, "startIndex=0")
	assert.Contains(t, gotURL, "pubStartDate=2025-09-04T00%3A00%3A00.000Z")
	assert.Contains(t, gotURL, "pubEndDate=2025-10-04T00%3A00%3A00.000Z")

	assert.Equal(t, "published", window.Field)
	assert.Equal(t, 30, window.SinceDays)

	require.Len(t, resp.Vulnerabilities, 1)
	assert.Equal(t, "CVE-2025-1234", resp.Vulnerabilities[0].CVE.ID)
	assert.Equal(t, 1, resp.TotalResults)
}

func TestFetchLastModifiedParams(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_, _ = w.Write([]byte(`{"resultsPerPage":0,"startIndex":0,"totalResults":0,"vulnerabilities":[]}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithNow(fakeNow))
	_, _, err := c.Fetch(context.Background(), Query{SinceDays: 2, DateField: "lastModified"})
	require.NoError(t, err)

	assert.Contains(t, gotURL, "lastModStartDate=2025-10-02T00%3A00%3A00.000Z")
	assert.Contains(t, gotURL, "lastModEndDate=2025-10-04T00%3A00%3A00.000Z")
	assert.NotContains(t, gotURL, "pubStartDate")
}

func TestFetchUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"NVD is down"}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithNow(fakeNow))
	_, _, err := c.Fetch(context.Background(), Query{})
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.Status)
	assert.Equal(t, `{"message":"NVD is down"}`, upstreamErr.Body)
}

func TestFetchDecodeError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"vulnerabilities": [`},
		{name: "record missing cve id", body: `{"vulnerabilities": [{"cve": {"vulnStatus": "Analyzed"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c := NewClient(WithBaseURL(ts.URL), WithNow(fakeNow))
			_, _, err := c.Fetch(context.Background(), Query{})
			require.Error(t, err)

			var decodeErr *DecodeError
			assert.ErrorAs(t, err, &decodeErr)
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithNow(fakeNow))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := c.Fetch(ctx, Query{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamTimeout), "got %v", err)
}
