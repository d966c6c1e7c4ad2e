package nvd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL        = "https://services.nvd.nist.gov/rest/json/cves/2.0"
	defaultSinceDays      = 180
	defaultResultsPerPage = 20
	defaultTimeout        = 30 * time.Second
	isoMidnightFormat     = "2006-01-02T15:04:05.000Z"

	// DateFieldPublished and DateFieldLastModified select which CVE date
	// the feed window bounds.
	DateFieldPublished    = "published"
	DateFieldLastModified = "lastModified"
)

// ErrUpstreamTimeout marks deadline expiry on the upstream call so callers
// can distinguish a hung provider from other failures.
var ErrUpstreamTimeout = errors.New("nvd upstream request timed out")

// UpstreamError carries a non-success upstream status and its raw body
// unchanged. No retry, no status translation: callers must be able to
// distinguish provider outage from local logic.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("nvd upstream returned status %d", e.Status)
}

// Query describes one synchronous feed request
type Query struct {
	Keyword        string
	SinceDays      int    // default 180, clamped to >= 0
	DateField      string // published | lastModified, default published
	StartIndex     int
	ResultsPerPage int // default 20
}

// Window is the computed date window sent upstream
type Window struct {
	Field     string `json:"field"`
	SinceDays int    `json:"sinceDays"`
	StartISO  string `json:"startIso"`
	EndISO    string `json:"endIso"`
}

type options struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
	logger     *zap.Logger
}

type option func(*options)

// WithBaseURL overrides the upstream endpoint, used by tests
func WithBaseURL(baseURL string) option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithAPIKey sets the NVD API key sent on each request
func WithAPIKey(apiKey string) option {
	return func(opts *options) {
		opts.apiKey = apiKey
	}
}

// WithHTTPClient overrides the upstream HTTP client
func WithHTTPClient(client *http.Client) option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

// WithNow overrides the clock used for window computation, used by tests
func WithNow(now func() time.Time) option {
	return func(opts *options) {
		opts.now = now
	}
}

// WithLogger sets the logger for the client
func WithLogger(logger *zap.Logger) option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// Client issues bounded time-window queries against the NVD CVE API 2.0.
// One synchronous request per Fetch; paging is the caller advancing
// StartIndex across repeated calls.
type Client struct {
	*options
}

// NewClient builds a feed client with the given options
func NewClient(opts ...option) Client {
	o := &options{
		baseURL:    defaultBaseURL,
		apiKey:     os.Getenv("NVD_API_KEY"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return Client{options: o}
}

// toIsoMidnight snaps a time to UTC midnight in the ISO8601 form the
// API accepts for start/end boundaries, e.g. 2025-10-04T00:00:00.000Z.
func toIsoMidnight(t time.Time) string {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Format(isoMidnightFormat)
}

// BuildWindow computes the [now - sinceDays, now] window with both
// bounds snapped to UTC midnight.
func (c Client) BuildWindow(q Query) Window {
	sinceDays := q.SinceDays
	if sinceDays <= 0 {
		if sinceDays < 0 {
			sinceDays = 0
		} else {
			sinceDays = defaultSinceDays
		}
	}

	field := q.DateField
	if field != DateFieldLastModified {
		field = DateFieldPublished
	}

	now := c.now()
	cutoff := now.Add(-time.Duration(sinceDays) * 24 * time.Hour)

	return Window{
		Field:     field,
		SinceDays: sinceDays,
		StartISO:  toIsoMidnight(cutoff),
		EndISO:    toIsoMidnight(now),
	}
}

func (c Client) buildURL(q Query, window Window) string {
	params := url.Values{}

	resultsPerPage := q.ResultsPerPage
	if resultsPerPage <= 0 {
		resultsPerPage = defaultResultsPerPage
	}
	params.Set("resultsPerPage", strconv.Itoa(resultsPerPage))
	params.Set("startIndex", strconv.Itoa(q.StartIndex))

	if keyword := strings.TrimSpace(q.Keyword); keyword != "" {
		params.Set("keywordSearch", keyword)
	}

	if window.Field == DateFieldLastModified {
		params.Set("lastModStartDate", window.StartISO)
		params.Set("lastModEndDate", window.EndISO)
	} else {
		params.Set("pubStartDate", window.StartISO)
		params.Set("pubEndDate", window.EndISO)
	}

	return c.baseURL + "?" + params.Encode()
}

// Fetch issues a single synchronous upstream query for the window derived
// from q. A non-success upstream response comes back as *UpstreamError with
// the status code and raw body unchanged; an unparsable body as *DecodeError.
func (c Client) Fetch(ctx context.Context, q Query) (*Response, Window, error) {
	window := c.BuildWindow(q)
	reqURL := c.buildURL(q, window)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, window, fmt.Errorf("unable to build NVD request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("apiKey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, window, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, window, fmt.Errorf("unable to reach NVD: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, window, fmt.Errorf("unable to read NVD response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Sugar().Warnf("NVD upstream returned %d for window %s..%s", resp.StatusCode, window.StartISO, window.EndISO)
		return nil, window, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	decoded, err := decodeResponse(body)
	if err != nil {
		return nil, window, err
	}
	return decoded, window, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
