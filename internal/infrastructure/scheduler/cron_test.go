package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCronRunsImmediatelyOnStart(t *testing.T) {
	t.Parallel()

	fired := make(chan time.Time, 1)
	c := NewCron("*/15 * * * *", time.UTC, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, c.Start(ctx, func(trigger time.Time) {
		select {
		case fired <- trigger:
		default:
		}
	}))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate cycle on start")
	}

	require.NoError(t, c.Stop(context.Background()))
}

func TestCronRejectsBadSpec(t *testing.T) {
	t.Parallel()

	c := NewCron("not a cron spec", time.UTC, nil)
	err := c.Start(context.Background(), func(time.Time) {})
	require.Error(t, err)
}
