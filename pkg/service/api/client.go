package api

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
)

const (
	// ReportRangeLayout is the layout of each side of the report "daterange" field
	ReportRangeLayout = "2006-01-02 15:04:05"

	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Client calls the dashboard JSON API
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

var _ interfaces.DashboardAPI = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a client for the API served at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, goerr.Wrap(err, "invalid API base URL",
			goerr.V("url", baseURL),
			goerr.T(model.ErrTagInvalidArgument))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("API base URL must be http or https",
			goerr.V("url", baseURL),
			goerr.T(model.ErrTagInvalidArgument))
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: defaultTimeout,
			// The report endpoint answers "nothing found" with a redirect
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	ctxlog.From(ctx).Debug("calling dashboard API", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "dashboard API request failed",
			goerr.V("url", req.URL.String()),
			goerr.T(model.ErrTagUpstream))
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("url", target))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode dashboard API response",
			goerr.V("url", target),
			goerr.T(model.ErrTagDecode))
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return goerr.New("dashboard API returned an error status",
		goerr.V("url", resp.Request.URL.String()),
		goerr.V("status", resp.StatusCode),
		goerr.V("body", string(body)),
		goerr.T(model.ErrTagUpstream))
}

// GetDashboardStats fetches statistics and transactions of a time window
func (c *Client) GetDashboardStats(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error) {
	q := url.Values{}
	q.Set("time_window", strconv.Itoa(window.Minutes()))

	var resp model.DashboardResponse
	if err := c.getJSON(ctx, "/api/dashboard-stats", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTransactionsFeed fetches the newest numItems transactions
func (c *Client) GetTransactionsFeed(ctx context.Context, numItems int) (*model.FeedResponse, error) {
	q := url.Values{}
	q.Set("num_items", strconv.Itoa(numItems))

	var resp model.FeedResponse
	if err := c.getJSON(ctx, "/api/transactions-feed", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUsernames fetches the distinct usernames
func (c *Client) GetUsernames(ctx context.Context) ([]string, error) {
	var resp model.UsernamesResponse
	if err := c.getJSON(ctx, "/api/usernames", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Usernames, nil
}

// GetDBStatus fetches the transaction source status
func (c *Client) GetDBStatus(ctx context.Context) (*model.DBStatus, error) {
	var resp model.DBStatus
	if err := c.getJSON(ctx, "/api/db-status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDBTableStats fetches the record count per collection
func (c *Client) GetDBTableStats(ctx context.Context) (*model.DBTableStats, error) {
	var resp model.DBTableStats
	if err := c.getJSON(ctx, "/api/db-table-stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadReport requests a report. It returns model.ErrNoTransactions when
// the range holds no transactions.
func (c *Client) DownloadReport(ctx context.Context, r model.ReportRequest) (*model.Report, error) {
	form := url.Values{}
	form.Set("daterange", r.Start.Format(ReportRangeLayout)+" - "+r.End.Format(ReportRangeLayout))
	username := r.Username
	if username == "" {
		username = "all"
	}
	form.Set("username", username)
	form.Set("report_format", string(r.Format))

	target := c.endpoint("/download_report", nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", target))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusSeeOther || resp.StatusCode == http.StatusFound {
		return nil, goerr.Wrap(model.ErrNoTransactions, "report is empty",
			goerr.V("location", resp.Header.Get("Location")))
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read report body", goerr.T(model.ErrTagUpstream))
	}

	report := &model.Report{
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		report.Filename = params["filename"]
	}
	return report, nil
}

// ClearDatabase removes every stored transaction
func (c *Client) ClearDatabase(ctx context.Context) (*model.ClearResult, error) {
	target := c.endpoint("/admin/clear-db", nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", target))
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var result model.ClearResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode clear result", goerr.T(model.ErrTagDecode))
	}
	return &result, nil
}
