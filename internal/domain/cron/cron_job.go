package cron

import (
	"context"
	"sync"
	"time"

	"github.com/lifequest-lab/backend/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)
	RunNow() bool
	Next() time.Time
}

// CronJobManager drives registered jobs on their own schedules until the
// context is cancelled.
type CronJobManager struct {
	jobs []CronJob
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{}
}

func (m *CronJobManager) Register(job CronJob) {
	m.jobs = append(m.jobs, job)
}

// Start blocks until the context is cancelled and every job loop has exited.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started")

	var wait sync.WaitGroup
	for _, job := range m.jobs {
		wait.Add(1)
		go func(job CronJob) {
			defer wait.Done()
			m.loop(ctx, job)
		}(job)
	}

	wait.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

func (m *CronJobManager) loop(ctx context.Context, job CronJob) {
	if job.RunNow() {
		m.run(ctx, job)
	}

	timer := time.NewTimer(time.Until(job.Next()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			m.run(ctx, job)
			timer.Reset(time.Until(job.Next()))
		}
	}
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	xcontext.Logger(ctx).Infof("%T is running...", job)
	job.Do(ctx)
	xcontext.Logger(ctx).Infof("%T ok", job)
}
