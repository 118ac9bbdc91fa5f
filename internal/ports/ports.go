package ports

import (
	"context"
	"time"

	"AlphaWatcher/internal/domain"
)

// AnnouncementSource lists candidate announcements and lazily loads
// their bodies. Candidate order is stable and preserved downstream.
type AnnouncementSource interface {
	ListCandidates(ctx context.Context) ([]domain.Announcement, error)
	FetchBody(ctx context.Context, id string) (domain.Body, error)
}

// SeenStore persists the set of already-notified announcement ids.
// Persist is always called with a superset of the previously loaded set.
type SeenStore interface {
	Load(ctx context.Context) (map[string]struct{}, error)
	Persist(ctx context.Context, seen map[string]struct{}) error
}

// Notifier delivers one formatted alert to the outbound channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Scheduler controls when watch cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
