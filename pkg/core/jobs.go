package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"killick/pkg/geo"
	"killick/pkg/telemetry"
)

// Job is evaluated by the scheduler on every sample.
type Job interface {
	Name() string
	ShouldFire(s *telemetry.Sample) bool
	Run(ctx context.Context, s *telemetry.Sample)
}

// BaseJob keeps a job from running twice at once.
type BaseJob struct {
	name    string
	running int32
}

func NewBaseJob(name string) BaseJob {
	return BaseJob{name: name}
}

func (b *BaseJob) Name() string { return b.name }

// TryLock marks the job running. It returns false if it already was.
func (b *BaseJob) TryLock() bool {
	return atomic.CompareAndSwapInt32(&b.running, 0, 1)
}

func (b *BaseJob) Unlock() {
	atomic.StoreInt32(&b.running, 0)
}

func (b *BaseJob) Running() bool {
	return atomic.LoadInt32(&b.running) == 1
}

// Trigger decides when a TriggerJob is due again. Mark records a run.
type Trigger interface {
	Due(s *telemetry.Sample) bool
	Mark(s *telemetry.Sample)
}

// DistanceTrigger is due once the boat is Meters away from the last run.
type DistanceTrigger struct {
	Meters float64
	last   geo.Point
}

func (t *DistanceTrigger) Due(s *telemetry.Sample) bool {
	return geo.Distance(t.last, s.Position) >= t.Meters
}

func (t *DistanceTrigger) Mark(s *telemetry.Sample) { t.last = s.Position }

// IntervalTrigger is due once Every has passed on the wall clock.
type IntervalTrigger struct {
	Every time.Duration
	Now   func() time.Time
	last  time.Time
}

func (t *IntervalTrigger) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *IntervalTrigger) Due(_ *telemetry.Sample) bool {
	return t.now().Sub(t.last) >= t.Every
}

func (t *IntervalTrigger) Mark(_ *telemetry.Sample) { t.last = t.now() }

// TriggerJob runs action whenever its trigger is due. The first sample
// always fires.
type TriggerJob struct {
	BaseJob
	mu      sync.Mutex
	trigger Trigger
	fired   bool
	action  func(context.Context, telemetry.Sample)
}

func NewTriggerJob(name string, trigger Trigger, action func(context.Context, telemetry.Sample)) *TriggerJob {
	return &TriggerJob{
		BaseJob: NewBaseJob(name),
		trigger: trigger,
		action:  action,
	}
}

// NewDistanceJob fires every thresholdMeters travelled.
func NewDistanceJob(name string, thresholdMeters float64, action func(context.Context, telemetry.Sample)) *TriggerJob {
	return NewTriggerJob(name, &DistanceTrigger{Meters: thresholdMeters}, action)
}

// NewTimeJob fires every threshold.
func NewTimeJob(name string, threshold time.Duration, action func(context.Context, telemetry.Sample)) *TriggerJob {
	return NewTriggerJob(name, &IntervalTrigger{Every: threshold}, action)
}

func (j *TriggerJob) ShouldFire(s *telemetry.Sample) bool {
	if j.Running() {
		return false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return !j.fired || j.trigger.Due(s)
}

func (j *TriggerJob) Run(ctx context.Context, s *telemetry.Sample) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()

	j.mu.Lock()
	j.trigger.Mark(s)
	j.fired = true
	j.mu.Unlock()

	j.action(ctx, *s)
}
