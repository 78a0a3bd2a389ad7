// Package scheduler runs the periodic maintenance jobs of the notification
// service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"learnhub/pkg/logger"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// Archiver is the job body: it archives stale READ notifications.
type Archiver interface {
	ArchiveStale(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
}

// New registers the archive job on schedule (standard five-field cron syntax,
// UTC). The scheduler does nothing until Start.
func New(schedule string, archiver Archiver, log *logger.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		log.Info("[ARCHIVER] Running notification archive job...")
		if _, err := archiver.ArchiveStale(ctx); err != nil {
			log.Error("[ARCHIVER] Archive job failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid archive schedule %q: %w", schedule, err)
	}

	return &Scheduler{cron: c, logger: log}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("[ARCHIVER] Scheduler started")
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Next reports the next planned run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return s.cron.Entry(entries[0].ID).Schedule.Next(time.Now().UTC())
}
