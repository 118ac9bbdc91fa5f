package scanner

import (
	"context"
	"fmt"

	"AlphaWatcher/internal/domain"
)

// Endpoint describes a concrete URL a strategy talks to, as provided
// by config (list/detail API endpoints, localized page variants).
type Endpoint struct {
	Name string
	URL  string
}

// Request carries all parameters required to run one source strategy.
type Request struct {
	SourceName string
	Endpoints  []Endpoint
	Options    map[string]string
}

// Endpoint returns the URL registered under name, or "" when absent.
func (r Request) Endpoint(name string) string {
	for _, e := range r.Endpoints {
		if e.Name == name {
			return e.URL
		}
	}
	return ""
}

// Option returns a per-source option with a fallback default.
func (r Request) Option(key, def string) string {
	if v, ok := r.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// Strategy captures a single way of reaching the announcement surface
// (structured CMS API, rendered-page scrape, etc.).
type Strategy interface {
	Name() string
	List(ctx context.Context, req Request) ([]domain.Announcement, error)
	Body(ctx context.Context, req Request, id string) (domain.Body, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("strategy %s is not registered", name)
}
