// Package probe runs startup checks before the server accepts connections.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTimeout bounds a check that sets no Timeout of its own.
const DefaultTimeout = 5 * time.Second

// CheckFunc returns nil if the check passes.
type CheckFunc func(ctx context.Context) error

// Probe is a single startup check.
type Probe struct {
	Name     string
	Check    CheckFunc
	Critical bool // a failure aborts startup
	Timeout  time.Duration
}

// Result holds the outcome of a single probe.
type Result struct {
	Probe    Probe
	Error    error
	Duration time.Duration
}

// Failed reports whether the check returned an error.
func (r Result) Failed() bool { return r.Error != nil }

// Run executes probes in order. Each check gets its own deadline.
func Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, 0, len(probes))

	for _, p := range probes {
		timeout := p.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := p.Check(checkCtx)
		cancel()

		results = append(results, Result{Probe: p, Error: err, Duration: time.Since(start)})
	}

	return results
}

// AnalyzeResults logs a summary line per probe and joins the errors of
// failed critical probes.
func AnalyzeResults(logger *slog.Logger, results []Result) error {
	if logger == nil {
		logger = slog.Default()
	}

	var critical []error
	logger.Info("Startup checks", "count", len(results))

	for _, r := range results {
		attrs := []any{"probe", r.Probe.Name, "duration", r.Duration.Round(time.Millisecond)}
		if !r.Failed() {
			logger.Info("Startup check passed", attrs...)
			continue
		}

		attrs = append(attrs, "critical", r.Probe.Critical, "error", r.Error)
		if r.Probe.Critical {
			logger.Error("Startup check failed", attrs...)
			critical = append(critical, fmt.Errorf("%s: %w", r.Probe.Name, r.Error))
		} else {
			logger.Warn("Startup check failed", attrs...)
		}
	}

	return errors.Join(critical...)
}
