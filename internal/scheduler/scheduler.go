package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"anoa.com/dailyguessr/pkg/apperror"
	"github.com/robfig/cron/v3"
)

// Job is a named task the scheduler can run on a cron schedule or on demand.
type Job interface {
	// Name is unique per scheduler and used in logs.
	Name() string
	// Schedule is a standard 5-field cron spec. An empty schedule registers
	// the job for on-demand runs only.
	Schedule() string
	Execute(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	entries map[string]cron.EntryID
}

func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		jobs:    make([]Job, 0),
		entries: make(map[string]cron.EntryID),
	}
}

// Register adds job and, if it has a schedule, schedules it.
func (s *Scheduler) Register(job Job) error {
	for _, existing := range s.jobs {
		if existing.Name() == job.Name() {
			return fmt.Errorf("job %s already registered", job.Name())
		}
	}

	schedule := job.Schedule()
	if schedule == "" {
		s.jobs = append(s.jobs, job)
		log.Printf("📝 [%s] Registered as on-demand job (no schedule)", job.Name())
		return nil
	}

	id, err := s.cron.AddFunc(schedule, func() {
		_ = s.run(context.Background(), job)
	})
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name(), err)
	}

	s.jobs = append(s.jobs, job)
	s.entries[job.Name()] = id
	log.Printf("📅 [%s] Scheduled with cron: %s", job.Name(), schedule)
	return nil
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	log.Printf("🤖 [%s] Starting job...", job.Name())
	if err := job.Execute(ctx); err != nil {
		log.Printf("❌ [%s] Job failed: %v", job.Name(), err)
		return err
	}
	log.Printf("✅ [%s] Job completed successfully", job.Name())
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("🚀 Scheduler started with %d registered jobs", len(s.jobs))
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Println("⚠️ Scheduler stopped before running jobs finished")
		return
	}
	log.Println("🛑 Scheduler stopped")
}

// RunJobByName runs a registered job right away.
func (s *Scheduler) RunJobByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			return s.run(ctx, job)
		}
	}
	return fmt.Errorf("job %s: %w", name, apperror.ErrNotFound)
}

func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name()
	}
	return names
}

// NextRun reports when a scheduled job fires next. It is only known once
// the scheduler has been started.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}, false
	}
	next := s.cron.Entry(id).Next
	return next, !next.IsZero()
}
