// Package source composes the registered strategies into a single
// AnnouncementSource: config lists sources in priority order, and the
// first one that answers wins.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"AlphaWatcher/internal/config"
	"AlphaWatcher/internal/domain"
	"AlphaWatcher/internal/ports"
	"AlphaWatcher/internal/scanner"
)

// Fallback tries each configured source in order and returns the first
// successful listing; an empty listing is still a success. Body
// fetches go through whichever strategy produced the current listing.
type Fallback struct {
	registry *scanner.Registry
	sources  []config.SourceConfig
	logger   *slog.Logger

	active *binding
}

type binding struct {
	strategy scanner.Strategy
	request  scanner.Request
}

var _ ports.AnnouncementSource = (*Fallback)(nil)

// NewFallback wires the strategy registry with config-defined sources.
func NewFallback(reg *scanner.Registry, sources []config.SourceConfig, log *slog.Logger) *Fallback {
	return &Fallback{registry: reg, sources: sources, logger: log}
}

// ListCandidates walks the source list in priority order. Only when
// every strategy fails does it return ErrSourceUnavailable.
func (f *Fallback) ListCandidates(ctx context.Context) ([]domain.Announcement, error) {
	if f.registry == nil || len(f.sources) == 0 {
		return nil, fmt.Errorf("no sources configured: %w", domain.ErrSourceUnavailable)
	}

	var lastErr error
	for _, src := range f.sources {
		strategy, err := f.registry.Resolve(src.Strategy)
		if err != nil {
			f.warn("unknown strategy", "source", src.Name, "strategy", src.Strategy)
			lastErr = err
			continue
		}

		req := toRequest(src)
		candidates, err := strategy.List(ctx, req)
		if err != nil {
			f.warn("source failed, trying next", "source", src.Name, "error", err)
			lastErr = err
			continue
		}

		f.debug("source accepted", "source", src.Name, "candidates", len(candidates))
		f.active = &binding{strategy: strategy, request: req}
		return candidates, nil
	}

	return nil, fmt.Errorf("all %d sources failed (last: %v): %w", len(f.sources), lastErr, domain.ErrSourceUnavailable)
}

// FetchBody loads the detail content via the strategy that produced
// the current candidate list.
func (f *Fallback) FetchBody(ctx context.Context, id string) (domain.Body, error) {
	if f.active == nil {
		return domain.Body{}, fmt.Errorf("no active source: %w", domain.ErrDetailUnavailable)
	}

	body, err := f.active.strategy.Body(ctx, f.active.request, id)
	if err != nil {
		return domain.Body{}, fmt.Errorf("%v: %w", err, domain.ErrDetailUnavailable)
	}
	return body, nil
}

func toRequest(src config.SourceConfig) scanner.Request {
	endpoints := make([]scanner.Endpoint, 0, len(src.Endpoints))
	for _, e := range src.Endpoints {
		endpoints = append(endpoints, scanner.Endpoint{Name: e.Name, URL: e.URL})
	}
	return scanner.Request{
		SourceName: src.Name,
		Endpoints:  endpoints,
		Options:    src.Options,
	}
}

func (f *Fallback) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *Fallback) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
