package scheduler

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Task is one unit of periodic work. It returns how many items it changed.
type Task func(ctx context.Context) (int, error)

type Scheduler struct {
	jobs   map[string]*Job // job name -> job
	mu     sync.RWMutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger
}

type Job struct {
	name     string
	interval time.Duration
	task     Task
	ticker   *time.Ticker
	cancel   context.CancelFunc
	runs     int
	changed  int
}

// NewScheduler initializes a new Scheduler instance
func NewScheduler(logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]*Job),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Stop cancels every job and waits for running tasks to return.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cancel()

	s.mu.Lock()
	for _, job := range s.jobs {
		job.ticker.Stop()
		job.cancel()
	}
	s.jobs = make(map[string]*Job)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// AddJob runs task every interval, starting with an immediate run. Adding a
// job under an existing name replaces it. A non-positive interval only
// removes any existing job.
func (s *Scheduler) AddJob(name string, interval time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	if existing, exists := s.jobs[name]; exists {
		existing.ticker.Stop()
		existing.cancel()
		delete(s.jobs, name)
	}

	if interval <= 0 {
		s.logger.WithField("job", name).Info("job disabled")
		return
	}

	jobCtx, jobCancel := context.WithCancel(s.ctx)
	job := &Job{
		name:     name,
		interval: interval,
		task:     task,
		ticker:   time.NewTicker(interval),
		cancel:   jobCancel,
	}
	s.jobs[name] = job

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(jobCtx, job)
		s.run(jobCtx, job)
	}()

	s.logger.WithFields(log.Fields{"job": name, "interval": interval.String()}).Info("job scheduled")
}

func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, exists := s.jobs[name]; exists {
		job.ticker.Stop()
		job.cancel()
		delete(s.jobs, name)
		s.logger.WithField("job", name).Info("job removed")
	}
}

func (s *Scheduler) run(ctx context.Context, job *Job) {
	defer job.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-job.ticker.C:
			s.execute(ctx, job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job *Job) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	changed, err := job.task(ctx)

	s.mu.Lock()
	job.runs++
	job.changed += changed
	s.mu.Unlock()

	entry := s.logger.WithFields(log.Fields{
		"job":         job.name,
		"changed":     changed,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil && ctx.Err() == nil {
		entry.WithError(err).Error("job failed")
		return
	}
	if changed > 0 {
		entry.Info("job completed")
	} else {
		entry.Debug("job completed")
	}
}

// GetStatus returns current scheduler status
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]interface{}, len(s.jobs))
	for name, job := range s.jobs {
		jobs[name] = map[string]interface{}{
			"interval": job.interval.String(),
			"runs":     job.runs,
			"changed":  job.changed,
		}
	}

	return map[string]interface{}{
		"jobs":    jobs,
		"running": s.ctx.Err() == nil,
	}
}
