package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/observability"
)

// Job is one unit of "send this submission to the external evaluator" work.
// Run performs the network call; OnFail is invoked once the retry budget is
// exhausted.
type Job struct {
	TeamID  uint
	Retries int
	Run     func() error
	OnFail  func(error)
}

// PendingEntry tracks a dispatched job whose result is expected via webhook.
type PendingEntry struct {
	StoredName string
	StartedAt  time.Time
}

// Config tunes the coordinator. Zero values fall back to defaults.
type Config struct {
	MaxConcurrency int
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
}

const (
	defaultMaxConcurrency = 3
	defaultMaxRetries     = 5
	defaultBaseDelay      = 2 * time.Second
	defaultMaxDelay       = 60 * time.Second
)

// Coordinator owns the dispatch queue, the bounded worker pool and the
// pending-job registry. It is constructed once at process start and passed by
// handle to the pipeline, reconciler and sweeper; all internal state is
// mutex-guarded.
type Coordinator struct {
	cfg    Config
	logger zerolog.Logger

	mu      sync.Mutex
	queue   []*Job
	active  int
	pending map[uint]PendingEntry
	stopped bool

	wg sync.WaitGroup
}

// New constructs a Coordinator.
func New(cfg Config, logger zerolog.Logger) *Coordinator {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultMaxConcurrency
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaultMaxDelay
	}

	return &Coordinator{
		cfg:     cfg,
		logger:  logger.With().Str("component", "dispatch_coordinator").Logger(),
		pending: make(map[uint]PendingEntry),
	}
}

// Enqueue appends the job to the FIFO queue and triggers a drain pass. The
// caller never blocks on job execution.
func (c *Coordinator) Enqueue(job *Job) {
	if job == nil {
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, job)
	observability.DispatchQueueDepth().Set(float64(len(c.queue)))
	c.mu.Unlock()

	go c.drain()
}

// drain starts queued jobs until the concurrency cap is reached or the queue
// is empty.
func (c *Coordinator) drain() {
	for {
		c.mu.Lock()
		if c.stopped || c.active >= c.cfg.MaxConcurrency || len(c.queue) == 0 {
			c.mu.Unlock()
			return
		}
		job := c.queue[0]
		c.queue = c.queue[1:]
		c.active++
		// Add while still holding the lock so Stop's Wait cannot race a
		// drain that already passed the stopped check.
		c.wg.Add(1)
		observability.DispatchQueueDepth().Set(float64(len(c.queue)))
		observability.DispatchActiveWorkers().Set(float64(c.active))
		c.mu.Unlock()

		go c.execute(job)
	}
}

func (c *Coordinator) execute(job *Job) {
	defer c.wg.Done()

	err := runGuarded(job)

	c.mu.Lock()
	c.active--
	observability.DispatchActiveWorkers().Set(float64(c.active))
	c.mu.Unlock()

	if err != nil {
		c.handleFailure(job, err)
	} else {
		observability.DispatchJobs().WithLabelValues("success").Inc()
	}

	c.drain()
}

// runGuarded keeps a panicking job from escaping the per-job boundary.
func runGuarded(job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch job panicked: %v", r)
		}
	}()

	return job.Run()
}

func (c *Coordinator) handleFailure(job *Job, err error) {
	job.Retries++
	if job.Retries <= c.cfg.MaxRetries {
		delay := c.backoff(job.Retries)
		observability.DispatchRetries().Inc()
		c.logger.Warn().
			Err(err).
			Uint("team_id", job.TeamID).
			Int("retries", job.Retries).
			Dur("delay", delay).
			Msg("dispatch job failed, retry scheduled")
		time.AfterFunc(delay, func() {
			c.Enqueue(job)
		})
		return
	}

	observability.DispatchJobs().WithLabelValues("failed").Inc()
	c.logger.Error().
		Err(err).
		Uint("team_id", job.TeamID).
		Int("retries", job.Retries).
		Msg("dispatch job exhausted retries")
	if job.OnFail != nil {
		job.OnFail(err)
	}
}

// backoff returns min(MaxDelay, BaseDelay * 2^(attempt-1)); the first retry
// waits BaseDelay.
func (c *Coordinator) backoff(attempt int) time.Duration {
	delay := c.cfg.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.cfg.MaxDelay {
			return c.cfg.MaxDelay
		}
	}
	if delay > c.cfg.MaxDelay {
		return c.cfg.MaxDelay
	}
	return delay
}

// TrackPending records a dispatched job that awaits a webhook result.
func (c *Coordinator) TrackPending(teamID uint, storedName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[teamID] = PendingEntry{StoredName: storedName, StartedAt: time.Now()}
}

// Pending looks up the registry entry for a team.
func (c *Coordinator) Pending(teamID uint) (PendingEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.pending[teamID]
	return entry, ok
}

// ClearPending removes the registry entry for a team.
func (c *Coordinator) ClearPending(teamID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, teamID)
}

// Stop rejects new work and waits for in-flight jobs to finish. Jobs still
// queued or awaiting a retry timer are dropped; the sweeper recovers their
// submissions on the next start.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.queue = nil
	observability.DispatchQueueDepth().Set(0)
	c.mu.Unlock()

	c.wg.Wait()
}
