// Package core runs the telemetry loop: it polls the source on a ticker, hands
// every sample to the dashboard and fires the scheduled jobs.
package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"killick/pkg/config"
	"killick/pkg/telemetry"
)

const defaultInterval = time.Second

// TelemetrySink receives every sample read from the source.
type TelemetrySink interface {
	Update(s *telemetry.Sample)
}

// Scheduler polls a telemetry source and dispatches samples.
type Scheduler struct {
	cfg    *config.TelemetryConfig
	source telemetry.Source
	sink   TelemetrySink
	logger *slog.Logger

	mu   sync.Mutex
	jobs []Job
	wg   sync.WaitGroup
}

// NewScheduler creates a scheduler. sink may be nil.
func NewScheduler(cfg *config.TelemetryConfig, source telemetry.Source, sink TelemetrySink) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		source: source,
		sink:   sink,
		logger: slog.Default(),
	}
}

// AddJob registers a job evaluated on every sample.
func (s *Scheduler) AddJob(j Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
}

// Start runs the loop until ctx is cancelled, then waits for running jobs.
func (s *Scheduler) Start(ctx context.Context) {
	interval := time.Duration(s.cfg.Interval)
	if interval <= 0 {
		interval = defaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler started", "interval", interval)

	// First sample right away so the dashboard has data before the first tick.
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	sample, err := s.source.Sample(ctx)
	if err != nil {
		if errors.Is(err, telemetry.ErrNoSample) || errors.Is(err, context.Canceled) {
			s.logger.Debug("No telemetry", "error", err)
		} else {
			s.logger.Warn("Failed to read telemetry", "error", err)
		}
		return
	}

	if s.sink != nil {
		s.sink.Update(&sample)
	}

	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		if job.ShouldFire(&sample) {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				job.Run(ctx, &sample)
			}()
		}
	}
}
