package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlphaWatcher/internal/config"
	"AlphaWatcher/internal/domain"
	"AlphaWatcher/internal/scanner"
)

type fakeStrategy struct {
	name      string
	listErr   error
	listed    []domain.Announcement
	bodyErr   error
	body      string
	listCalls int
	bodyCalls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) List(_ context.Context, _ scanner.Request) ([]domain.Announcement, error) {
	f.listCalls++
	return f.listed, f.listErr
}

func (f *fakeStrategy) Body(_ context.Context, _ scanner.Request, id string) (domain.Body, error) {
	f.bodyCalls++
	if f.bodyErr != nil {
		return domain.Body{}, f.bodyErr
	}
	return domain.Body{AnnouncementID: id, Content: f.body}, nil
}

func sources(names ...string) []config.SourceConfig {
	out := make([]config.SourceConfig, 0, len(names))
	for _, n := range names {
		out = append(out, config.SourceConfig{Name: n + "-src", Strategy: n})
	}
	return out
}

func TestFallbackFirstSuccessWins(t *testing.T) {
	t.Parallel()

	primary := &fakeStrategy{name: "primary", listed: []domain.Announcement{{ID: "a1", Title: "T"}}}
	secondary := &fakeStrategy{name: "secondary"}

	reg := scanner.NewRegistry()
	reg.Register(primary)
	reg.Register(secondary)

	f := NewFallback(reg, sources("primary", "secondary"), nil)
	anns, err := f.ListCandidates(context.Background())
	require.NoError(t, err)

	require.Len(t, anns, 1)
	assert.Equal(t, 1, primary.listCalls)
	assert.Equal(t, 0, secondary.listCalls, "secondary must not run once primary succeeded")
}

func TestFallbackEmptySuccessStops(t *testing.T) {
	t.Parallel()

	primary := &fakeStrategy{name: "primary", listed: []domain.Announcement{}}
	secondary := &fakeStrategy{name: "secondary", listed: []domain.Announcement{{ID: "x"}}}

	reg := scanner.NewRegistry()
	reg.Register(primary)
	reg.Register(secondary)

	f := NewFallback(reg, sources("primary", "secondary"), nil)
	anns, err := f.ListCandidates(context.Background())
	require.NoError(t, err)

	assert.Empty(t, anns)
	assert.Equal(t, 0, secondary.listCalls, "empty listing is a success, not a reason to fall through")
}

func TestFallbackAdvancesOnError(t *testing.T) {
	t.Parallel()

	primary := &fakeStrategy{name: "primary", listErr: errors.New("boom")}
	secondary := &fakeStrategy{name: "secondary", listed: []domain.Announcement{{ID: "x", Title: "T"}}}

	reg := scanner.NewRegistry()
	reg.Register(primary)
	reg.Register(secondary)

	f := NewFallback(reg, sources("primary", "secondary"), nil)
	anns, err := f.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, anns, 1)

	// Body fetches route through the strategy that produced the listing.
	body, err := f.FetchBody(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", body.AnnouncementID)
	assert.Equal(t, 1, secondary.bodyCalls)
	assert.Equal(t, 0, primary.bodyCalls)
}

func TestFallbackAllFail(t *testing.T) {
	t.Parallel()

	primary := &fakeStrategy{name: "primary", listErr: errors.New("down")}
	secondary := &fakeStrategy{name: "secondary", listErr: errors.New("also down")}

	reg := scanner.NewRegistry()
	reg.Register(primary)
	reg.Register(secondary)

	f := NewFallback(reg, sources("primary", "secondary"), nil)
	_, err := f.ListCandidates(context.Background())
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestFallbackBodyErrorWrapsDetailUnavailable(t *testing.T) {
	t.Parallel()

	primary := &fakeStrategy{
		name:    "primary",
		listed:  []domain.Announcement{{ID: "a1"}},
		bodyErr: errors.New("detail 500"),
	}

	reg := scanner.NewRegistry()
	reg.Register(primary)

	f := NewFallback(reg, sources("primary"), nil)
	_, err := f.ListCandidates(context.Background())
	require.NoError(t, err)

	_, err = f.FetchBody(context.Background(), "a1")
	require.ErrorIs(t, err, domain.ErrDetailUnavailable)
}
