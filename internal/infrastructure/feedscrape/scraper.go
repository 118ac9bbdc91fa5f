// Package feedscrape implements the rendered-page strategy: fetch one
// or more localized feed pages, recover the JSON state blob the app
// embeds in the markup, and walk it for announcement-shaped nodes.
// The remote structure is undocumented, so the walk is schema-agnostic
// on purpose: any object carrying both an id-like and a title-like
// field at any depth counts.
package feedscrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"time"

	"AlphaWatcher/internal/domain"
	"AlphaWatcher/internal/scanner"
)

// statePatterns are the known embedding conventions, in priority
// order: a primary embedded-state marker, a secondary app-state
// marker, then an attribute-encoded state that needs entity unescaping.
var statePatterns = []struct {
	name     string
	re       *regexp.Regexp
	unescape bool
}{
	{"app-data", regexp.MustCompile(`(?s)__APP_DATA\s*=\s*(\{.*?\})\s*(?:;\s*)?</script>`), false},
	{"app-state", regexp.MustCompile(`(?s)__APP_STATE__\s*=\s*(\{.*?\})\s*(?:;\s*)?</script>`), false},
	{"attr-state", regexp.MustCompile(`data-state="(\{[^"]*\})"`), true},
}

var (
	idKeys    = []string{"id", "code", "articleCode"}
	titleKeys = []string{"title", "name"}
	briefKeys = []string{"brief", "summary", "description"}
)

// Scraper fetches feed pages and recovers embedded listing records.
type Scraper struct {
	client *http.Client
	logger *slog.Logger
}

var _ scanner.Strategy = (*Scraper)(nil)

// New wires an HTTP client; a nil client gets a 20s-timeout default.
func New(client *http.Client, logger *slog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scraper{client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *Scraper) Name() string {
	return "feed"
}

// List fetches every configured page variant and merges the recovered
// records. A page that fails to fetch or parse is skipped; List fails
// only when no page produced a state blob.
func (s *Scraper) List(ctx context.Context, req scanner.Request) ([]domain.Announcement, error) {
	if len(req.Endpoints) == 0 {
		return nil, fmt.Errorf("source %s: no page endpoints configured", req.SourceName)
	}

	urlPrefix := req.Option("articleUrlPrefix", "")

	index := map[string]int{}
	var merged []domain.Announcement
	pages := 0
	var lastErr error

	for _, page := range req.Endpoints {
		raw, err := s.fetch(ctx, page.URL)
		if err != nil {
			s.debug("page fetch failed", "page", page.Name, "error", err)
			lastErr = err
			continue
		}

		state, convention, err := recoverState(raw)
		if err != nil {
			s.debug("no embedded state", "page", page.Name, "error", err)
			lastErr = err
			continue
		}
		s.debug("embedded state recovered", "page", page.Name, "convention", convention)
		pages++

		for _, ann := range collectAnnouncements(state) {
			ann.Source = req.SourceName
			if ann.URL == "" && urlPrefix != "" {
				ann.URL = urlPrefix + ann.ID
			}
			// Duplicate ids across locales collapse, last-seen wins.
			if at, ok := index[ann.ID]; ok {
				merged[at] = ann
				continue
			}
			index[ann.ID] = len(merged)
			merged = append(merged, ann)
		}
	}

	if pages == 0 {
		return nil, fmt.Errorf("source %s: no page variant yielded state: %w", req.SourceName, lastErr)
	}
	return merged, nil
}

// Body downloads the article page itself; the raw markup feeds the
// extractor directly.
func (s *Scraper) Body(ctx context.Context, req scanner.Request, id string) (domain.Body, error) {
	prefix := req.Option("articleUrlPrefix", "")
	if prefix == "" {
		return domain.Body{}, fmt.Errorf("source %s: no articleUrlPrefix configured", req.SourceName)
	}

	raw, err := s.fetch(ctx, prefix+id)
	if err != nil {
		return domain.Body{}, fmt.Errorf("article page %s: %w", id, err)
	}
	return domain.Body{AnnouncementID: id, Content: string(raw)}, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "AlphaWatcher/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}

// recoverState tries each embedding convention in priority order and
// returns the first blob that parses as JSON.
func recoverState(page []byte) (any, string, error) {
	for _, pat := range statePatterns {
		m := pat.re.FindSubmatch(page)
		if m == nil {
			continue
		}
		raw := m[1]
		if pat.unescape {
			raw = []byte(html.UnescapeString(string(raw)))
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var state any
		if err := dec.Decode(&state); err != nil {
			continue
		}
		return state, pat.name, nil
	}
	return nil, "", fmt.Errorf("no known state embedding matched")
}

// collectAnnouncements recursively walks an arbitrary JSON tree. Map
// keys are visited in sorted order so output is stable across runs.
func collectAnnouncements(node any) []domain.Announcement {
	var out []domain.Announcement
	walk(node, &out)
	return out
}

func walk(node any, out *[]domain.Announcement) {
	switch v := node.(type) {
	case map[string]any:
		if ann, ok := announcementFrom(v); ok {
			*out = append(*out, ann)
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(v[k], out)
		}
	case []any:
		for _, item := range v {
			walk(item, out)
		}
	}
}

// announcementFrom accepts a node only when it exposes both an
// id-like and a title-like field. Numeric ids are normalized to their
// decimal string form.
func announcementFrom(node map[string]any) (domain.Announcement, bool) {
	id := scalarString(node, idKeys)
	title := scalarString(node, titleKeys)
	if id == "" || title == "" {
		return domain.Announcement{}, false
	}

	return domain.Announcement{
		ID:    id,
		Title: title,
		Brief: scalarString(node, briefKeys),
		URL:   scalarString(node, []string{"url", "link"}),
	}, true
}

func scalarString(node map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := node[key].(type) {
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

func (s *Scraper) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
