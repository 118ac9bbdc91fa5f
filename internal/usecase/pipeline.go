package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"AlphaWatcher/internal/classify"
	"AlphaWatcher/internal/domain"
	"AlphaWatcher/internal/extract"
	"AlphaWatcher/internal/ports"
)

// PipelineDeps wires all driven adapters into the watch cycle.
type PipelineDeps struct {
	Source      ports.AnnouncementSource
	Seen        ports.SeenStore
	Notifier    ports.Notifier
	Logger      *slog.Logger
	NotifyDelay time.Duration
}

// Pipeline implements one watch cycle: list -> classify -> detail ->
// extract -> notify -> record. Per-candidate failures never abort the
// cycle; only a total listing failure does.
type Pipeline struct {
	source      ports.AnnouncementSource
	seen        ports.SeenStore
	notifier    ports.Notifier
	logger      *slog.Logger
	notifyDelay time.Duration
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:      deps.Source,
		seen:        deps.Seen,
		notifier:    deps.Notifier,
		logger:      deps.Logger,
		notifyDelay: deps.NotifyDelay,
	}
}

// RunCycle executes one pass over the announcement surface. The
// returned report is valid even when err is non-nil. Candidates are
// processed strictly in source order, single-threaded.
func (p *Pipeline) RunCycle(ctx context.Context) (domain.CycleReport, error) {
	var report domain.CycleReport
	if p.source == nil || p.notifier == nil {
		return report, nil
	}

	seen := map[string]struct{}{}
	if p.seen != nil {
		loaded, err := p.seen.Load(ctx)
		if err != nil {
			// Corrupt state degrades to empty: re-notifying beats crashing.
			p.warn("seen state unreadable, starting empty", "error", err)
		}
		if loaded != nil {
			seen = loaded
		}
	}

	candidates, err := p.source.ListCandidates(ctx)
	if err != nil {
		return report, fmt.Errorf("list candidates: %w", err)
	}
	report.Fetched = len(candidates)

	for _, cand := range candidates {
		// Seen check comes before any detail call.
		if _, ok := seen[cand.ID]; ok {
			report.Skipped++
			continue
		}
		if !classify.Qualifies(cand.Title, cand.Brief) {
			continue
		}
		report.Classified++

		// Detail failure degrades to a title-only alert: the title
		// already carries the listing fact, and skipping would retry a
		// permanently broken detail endpoint forever.
		content := ""
		body, err := p.source.FetchBody(ctx, cand.ID)
		if err != nil {
			report.DetailFailures++
			p.warn("detail fetch failed, sending title-only alert", "id", cand.ID, "error", err)
		} else {
			content = body.Content
		}

		refs := extract.Extract(cand.Title, content)

		if err := p.notifier.Send(ctx, FormatAlert(cand, refs)); err != nil {
			report.NotifyFailures++
			p.warn("notify failed, will retry next cycle", "id", cand.ID, "error", err)
			continue
		}
		report.Notified++
		seen[cand.ID] = struct{}{}

		if p.notifyDelay > 0 {
			time.Sleep(p.notifyDelay)
		}
	}

	// Persist even when some candidates failed, so successful sends
	// survive a later crash.
	if p.seen != nil {
		if err := p.seen.Persist(ctx, seen); err != nil {
			p.errorLog("persist seen set", "error", err)
		}
	}

	return report, nil
}

// FormatAlert renders the Telegram HTML message for one announcement.
func FormatAlert(a domain.Announcement, refs domain.ExtractedRefs) string {
	name := refs.TokenName
	if name == "" {
		name = a.Title
	}

	handle := ""
	if len(refs.Handles) > 0 {
		h := refs.Handles[0]
		handle = fmt.Sprintf(`<a href="%s">%s</a>`, h, h)
	}

	var pairs []string
	for _, cc := range refs.Contracts {
		for _, addr := range cc.Addresses {
			pairs = append(pairs, fmt.Sprintf("%s: %s", cc.Chain, addr))
		}
	}
	contracts := "TBA"
	if len(pairs) > 0 {
		contracts = strings.Join(pairs, " ")
	}

	return fmt.Sprintf(
		`🚨 Alpha listing: <b>%s</b> (%s) — <a href="%s">Announcement</a> | X: %s | Contract(s): %s`,
		name, refs.Ticker, a.URL, handle, contracts,
	)
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) errorLog(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
