// Package cms implements the structured list/detail API strategy.
// The remote schema drifts, so listing requests are issued in several
// known shapes and responses are decoded tolerantly.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"AlphaWatcher/internal/domain"
	"AlphaWatcher/internal/scanner"
)

const (
	defaultCatalogID = "48"
	defaultPageSize  = "30"
	defaultLang      = "en"

	maxAttempts = 3
	baseBackoff = time.Second
)

// Client talks to a CMS-style announcement API.
type Client struct {
	client  *http.Client
	logger  *slog.Logger
	backoff time.Duration
}

var _ scanner.Strategy = (*Client)(nil)

// New wires an HTTP client; a nil client gets a 20s-timeout default.
func New(client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{client: client, logger: logger, backoff: baseBackoff}
}

// Name identifies the strategy inside the registry.
func (c *Client) Name() string {
	return "cms"
}

// listVariant is one observed request shape for the listing endpoint.
// Field names and the type discriminator have drifted over time.
type listVariant struct {
	name  string
	query func(catalog, pageSize, lang string) url.Values
}

var listVariants = []listVariant{
	{"catalogId-typed", func(catalog, pageSize, lang string) url.Values {
		return url.Values{
			"catalogId": {catalog},
			"pageNo":    {"1"},
			"pageSize":  {pageSize},
			"type":      {"1"},
		}
	}},
	{"catalogId-plain", func(catalog, pageSize, lang string) url.Values {
		return url.Values{
			"catalogId": {catalog},
			"pageNo":    {"1"},
			"pageSize":  {pageSize},
			"lang":      {lang},
		}
	}},
	{"catalogue-language", func(catalog, pageSize, lang string) url.Values {
		return url.Values{
			"catalogueId": {catalog},
			"page":        {"1"},
			"rows":        {pageSize},
			"language":    {lang},
		}
	}},
	{"cid-short", func(catalog, pageSize, lang string) url.Values {
		return url.Values{
			"cid":      {catalog},
			"page":     {"1"},
			"pageSize": {pageSize},
		}
	}},
}

// List tries each request-shape variant in priority order and keeps the
// first one that answers without a transport error. A successful but
// empty response wins too; only when every variant fails does List fail.
func (c *Client) List(ctx context.Context, req scanner.Request) ([]domain.Announcement, error) {
	endpoint := req.Endpoint("list")
	if endpoint == "" {
		return nil, fmt.Errorf("source %s: no list endpoint configured", req.SourceName)
	}

	catalog := req.Option("catalogId", defaultCatalogID)
	pageSize := req.Option("pageSize", defaultPageSize)
	lang := req.Option("lang", defaultLang)

	var lastErr error
	for _, variant := range listVariants {
		doc, err := c.getJSON(ctx, endpoint, variant.query(catalog, pageSize, lang))
		if err != nil {
			c.debug("list variant failed", "variant", variant.name, "error", err)
			lastErr = err
			continue
		}
		c.debug("list variant accepted", "variant", variant.name)
		return c.decodeList(doc, req), nil
	}

	return nil, fmt.Errorf("source %s: all %d list variants failed: %w", req.SourceName, len(listVariants), lastErr)
}

// Body fetches the detail payload for one announcement id.
func (c *Client) Body(ctx context.Context, req scanner.Request, id string) (domain.Body, error) {
	endpoint := req.Endpoint("detail")
	if endpoint == "" {
		return domain.Body{}, fmt.Errorf("source %s: no detail endpoint configured", req.SourceName)
	}

	query := url.Values{
		"articleCode": {id},
		"lang":        {req.Option("lang", defaultLang)},
	}

	doc, err := c.getJSON(ctx, endpoint, query)
	if err != nil {
		return domain.Body{}, fmt.Errorf("detail %s: %w", id, err)
	}

	return domain.Body{AnnouncementID: id, Content: detailContent(doc)}, nil
}

// getJSON issues one GET with bounded linear-backoff retries on
// rate-limit and server-error statuses and on connection failures.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values) (any, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * c.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		doc, retryable, err := c.getJSONOnce(ctx, endpoint, query)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		c.debug("transient fetch error", "attempt", attempt, "error", err)
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) getJSONOnce(ctx context.Context, endpoint string, query url.Values) (doc any, retryable bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "AlphaWatcher/1.0")
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, true, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("transient status %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status %s", resp.Status)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, 8<<20))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return doc, false, nil
}

// decodeList tolerates the observed payload shapes: article arrays
// under data.articles, data.catalogs[].articles, or a top-level
// articles key. Entries without an id are dropped; duplicates collapse
// last-wins.
func (c *Client) decodeList(doc any, req scanner.Request) []domain.Announcement {
	records := articleRecords(doc)

	urlPrefix := req.Option("articleUrlPrefix", "")
	index := map[string]int{}
	var out []domain.Announcement
	for _, rec := range records {
		id := stringField(rec, "code", "articleCode", "id")
		if id == "" {
			continue
		}

		ann := domain.Announcement{
			ID:         id,
			Title:      stringField(rec, "title"),
			Brief:      stringField(rec, "brief", "summary", "description"),
			URL:        stringField(rec, "url", "link"),
			Source:     req.SourceName,
			ReleasedAt: timeField(rec, "releaseDate", "releasedAt"),
		}
		if ann.URL == "" && urlPrefix != "" {
			ann.URL = urlPrefix + id
		}

		if at, ok := index[id]; ok {
			out[at] = ann
			continue
		}
		index[id] = len(out)
		out = append(out, ann)
	}
	return out
}

func articleRecords(doc any) []map[string]any {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil
	}

	if data, ok := root["data"].(map[string]any); ok {
		if recs := recordArray(data["articles"]); recs != nil {
			return recs
		}
		if catalogs, ok := data["catalogs"].([]any); ok {
			var out []map[string]any
			for _, cat := range catalogs {
				if cm, ok := cat.(map[string]any); ok {
					out = append(out, recordArray(cm["articles"])...)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}

	return recordArray(root["articles"])
}

func recordArray(node any) []map[string]any {
	items, ok := node.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// detailContent accepts the body under data.content, data.body, or a
// top-level content key.
func detailContent(doc any) string {
	root, ok := doc.(map[string]any)
	if !ok {
		return ""
	}
	if data, ok := root["data"].(map[string]any); ok {
		if s := stringField(data, "content", "body"); s != "" {
			return s
		}
	}
	return stringField(root, "content")
}

func stringField(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func timeField(rec map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		if n, ok := rec[key].(json.Number); ok {
			if ms, err := strconv.ParseInt(n.String(), 10, 64); err == nil && ms > 0 {
				return time.UnixMilli(ms).UTC()
			}
		}
	}
	return time.Time{}
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
