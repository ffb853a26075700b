// Package scheduler runs maintenance jobs on a fixed interval inside the
// server process.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of periodic maintenance work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Name returns the job name
func (f JobFunc) Name() string { return f.JobName }

// Run calls the wrapped function
func (f JobFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

// Config holds scheduler configuration
type Config struct {
	Enabled    bool
	Interval   time.Duration
	JobTimeout time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Interval:   time.Hour,
		JobTimeout: time.Minute,
	}
}

// Scheduler runs every registered job once per interval. Runs never
// overlap: a tick that arrives while jobs are still running is dropped.
type Scheduler struct {
	config Config
	logger *zap.Logger
	jobs   []Job

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// New creates a scheduler for the given jobs
func New(config Config, logger *zap.Logger, jobs ...Job) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	return &Scheduler{
		config: config,
		logger: logger,
		jobs:   jobs,
	}
}

// Start starts the run loop. It is a no-op when disabled or already running.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler disabled")
		return nil
	}
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Scheduler started",
		zap.Int("jobs", len(s.jobs)),
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop cancels the loop and waits for the current run to finish
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *Scheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs every job sequentially. A failing job is logged and does
// not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return
		}
		s.execute(ctx, job)
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scheduled job panicked",
				zap.String("job", job.Name()),
				zap.Any("panic", r))
		}
	}()

	if err := job.Run(jobCtx); err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", job.Name()),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err))
		return
	}
	s.logger.Debug("Scheduled job finished",
		zap.String("job", job.Name()),
		zap.Duration("duration", time.Since(started)))
}
