package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/skycastapp/skycast/internal/core/workers"
)

type Enqueuer interface {
	Enqueue(job workers.RefreshJob)
}

// CronScheduler enqueues periodic snapshot refresh jobs.
type CronScheduler struct {
	cron   *cron.Cron
	worker Enqueuer
}

func NewCronScheduler(worker Enqueuer) *CronScheduler {
	return &CronScheduler{
		cron:   cron.New(),
		worker: worker,
	}
}

func (s *CronScheduler) Schedule(interval time.Duration, job workers.RefreshJob) error {
	spec := fmt.Sprintf("@every %s", interval)

	if _, err := s.cron.AddFunc(spec, func() {
		s.worker.Enqueue(job)
	}); err != nil {
		return fmt.Errorf("scheduler: failed to add refresh job: %w", err)
	}

	s.cron.Start()
	log.Printf("Snapshot refresh scheduled every %s", interval)
	return nil
}

func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
