package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainguardia/chainguardia-backend/alerts"
	"github.com/chainguardia/chainguardia-backend/config"
	"github.com/chainguardia/chainguardia-backend/matcher"
	"github.com/chainguardia/chainguardia-backend/model"
	"github.com/chainguardia/chainguardia-backend/nvd"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/applications"
)

const feedBody = `{
	"resultsPerPage": 2,
	"startIndex": 0,
	"totalResults": 2,
	"vulnerabilities": [
		{"cve": {"id": "CVE-2025-2001", "vulnStatus": "Analyzed",
			"descriptions": [{"lang": "en", "value": "remote code execution in nginx request parsing"}],
			"metrics": {"cvssMetricV31": [{"cvssData": {"version": "3.1", "baseScore": 9.8, "baseSeverity": "CRITICAL"}}]}}},
		{"cve": {"id": "CVE-2025-2002", "vulnStatus": "Analyzed",
			"descriptions": [{"lang": "en", "value": "issue in some unrelated package"}],
			"metrics": {"cvssMetricV31": [{"cvssData": {"version": "3.1", "baseScore": 5.0, "baseSeverity": "MEDIUM"}}]}}}
	]
}`

func newTestScanner(t *testing.T, ts *httptest.Server) (*Scanner, *applications.MemoryInventory, *alerts.MemoryStore) {
	t.Helper()
	inventory := applications.NewMemoryInventory()
	store := alerts.NewMemoryStore()
	sc := &Scanner{
		Feed:      nvd.NewClient(nvd.WithBaseURL(ts.URL)),
		Inventory: inventory,
		Alerts:    store,
		Matcher:   matcher.NameMatcher{},
		Config:    config.DefaultAlertConfig(),
		Logger:    zap.NewNop(),
	}
	return sc, inventory, store
}

func TestScanUserRaisesAlertsForMatches(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer ts.Close()

	sc, inventory, store := newTestScanner(t, ts)
	ctx := context.Background()

	app := model.NewApplication("alice", "nginx", "F5", "1.27.0", "web server")
	_, err := inventory.CreateOrRestore(ctx, app)
	require.NoError(t, err)

	created, err := sc.ScanUser(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	got, err := store.Filter(ctx, "alice", alerts.FilterOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CVE-2025-2001", got[0].VulnerabilityID)
	assert.Equal(t, "CRITICAL", got[0].Severity)
	assert.Equal(t, []string{app.Key}, got[0].AppIDs)
}

func TestScanUserDedupsAcrossRuns(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer ts.Close()

	sc, inventory, store := newTestScanner(t, ts)
	ctx := context.Background()

	_, err := inventory.CreateOrRestore(ctx, model.NewApplication("alice", "nginx", "F5", "1.27.0", ""))
	require.NoError(t, err)

	created, err := sc.ScanUser(ctx, "alice", "")
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// the second run sees the same feed window and must stay quiet
	created, err = sc.ScanUser(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	got, err := store.Filter(ctx, "alice", alerts.FilterOptions{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestScanUserSkipsEmptyInventory(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(feedBody))
	}))
	defer ts.Close()

	sc, _, _ := newTestScanner(t, ts)

	created, err := sc.ScanUser(context.Background(), "alice", "")
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 0, requests, "no inventory means no upstream call")
}

func TestScanUserPropagatesFeedErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	sc, inventory, _ := newTestScanner(t, ts)
	ctx := context.Background()

	_, err := inventory.CreateOrRestore(ctx, model.NewApplication("alice", "nginx", "F5", "1.27.0", ""))
	require.NoError(t, err)

	_, err = sc.ScanUser(ctx, "alice", "")
	require.Error(t, err)

	var upstreamErr *nvd.UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
}

func TestScanUserForwardsKeyword(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_, _ = w.Write([]byte(`{"resultsPerPage":0,"startIndex":0,"totalResults":0,"vulnerabilities":[]}`))
	}))
	defer ts.Close()

	sc, inventory, _ := newTestScanner(t, ts)
	ctx := context.Background()

	_, err := inventory.CreateOrRestore(ctx, model.NewApplication("alice", "nginx", "F5", "1.27.0", ""))
	require.NoError(t, err)

	_, err = sc.ScanUser(ctx, "alice", "nginx")
	require.NoError(t, err)
	assert.Contains(t, gotURL, "keywordSearch=nginx")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resultsPerPage":0,"startIndex":0,"totalResults":0,"vulnerabilities":[]}`))
	}))
	defer ts.Close()

	sc, _, _ := newTestScanner(t, ts)
	sc.Users = staticUserSource{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sc.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

type staticUserSource struct{}

func (staticUserSource) ListUserIDs(context.Context) ([]string, error) {
	return nil, nil
}
