package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"AlphaWatcher/internal/ports"
)

// Cron drives watch cycles on a cron expression. The job also fires
// once immediately on Start so a restart does not wait a full period.
type Cron struct {
	spec     string
	location *time.Location
	cron     *cron.Cron
}

var _ ports.Scheduler = (*Cron)(nil)

// NewCron builds a scheduler for the given cron spec and timezone.
func NewCron(spec string, location *time.Location, logger *log.Logger) *Cron {
	if location == nil {
		location = time.UTC
	}
	opts := []cron.Option{cron.WithLocation(location)}
	if logger != nil {
		opts = append(opts, cron.WithLogger(cron.PrintfLogger(logger)))
	}
	return &Cron{
		spec:     spec,
		location: location,
		cron:     cron.New(opts...),
	}
}

// Start registers the job and begins the schedule.
func (c *Cron) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.spec, func() {
		job(time.Now().In(c.location))
	}); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", c.spec, err)
	}

	c.cron.Start()
	go job(time.Now().In(c.location))

	go func() {
		<-ctx.Done()
		c.cron.Stop()
	}()

	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (c *Cron) Stop(ctx context.Context) error {
	done := c.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
