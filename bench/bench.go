package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// FitFunc runs one full model fit with the given worker count. The
// function is expected to close over its dataset and model settings so
// the sweep only varies the worker count.
type FitFunc func(ctx context.Context, workers int) error

// Sample records the timing of one worker count: the fastest run, every
// run in order, and the error if the fit failed.
type Sample struct {
	Workers  int
	Duration time.Duration   // fastest successful run
	Runs     []time.Duration // every successful run, in order
	Err      error
}

// Failed reports whether the fit failed at this worker count.
func (s Sample) Failed() bool {
	return s.Err != nil
}

// Config holds timing-sweep settings.
type Config struct {
	Counts  []int       // worker counts to time, in sweep order
	Repeats int         // runs per count; the fastest is the headline duration (default 1)
	Logger  *zap.Logger // nil disables logging
}

// DefaultConfig returns a config timing one run each of 1 to 4 workers.
func DefaultConfig() *Config {
	return &Config{
		Counts:  []int{1, 2, 3, 4},
		Repeats: 1,
	}
}

// Result aggregates a full timing sweep.
type Result struct {
	Samples []Sample // one per requested count, in request order
	Fastest *Sample  // nil when every count failed
	Elapsed time.Duration
}

// FastestWorkers returns the winning worker count. The boolean is false
// when every count failed and there is nothing to report.
func (r *Result) FastestWorkers() (int, bool) {
	if r == nil || r.Fastest == nil {
		return 0, false
	}
	return r.Fastest.Workers, true
}

// Sweep times fit once per worker count (or Repeats times, keeping the
// fastest run) in request order, measuring wall-clock duration on the
// monotonic clock. Each count yields exactly one Sample. A failed fit is
// recorded on its sample and the sweep continues; failed samples are
// excluded from the fastest fold, so an all-failed sweep leaves Fastest
// nil.
//
// The fastest count is picked by strict less-than comparison in request
// order, so the earlier of two equal timings wins. Cancellation is
// checked between counts; a canceled sweep returns the partial result
// together with the context error.
func Sweep(ctx context.Context, fit FitFunc, config *Config) (*Result, error) {
	if fit == nil {
		return nil, errors.New("sweep requires a fit function")
	}
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	repeats := config.Repeats
	if repeats <= 0 {
		repeats = 1
	}

	if len(config.Counts) == 0 {
		return nil, errors.New("sweep requires at least one worker count")
	}
	for _, c := range config.Counts {
		if c < 1 {
			return nil, fmt.Errorf("worker count must be at least 1, got %d", c)
		}
	}

	result := &Result{Samples: make([]Sample, 0, len(config.Counts))}
	start := time.Now()
	fastestIdx := -1

	for _, workers := range config.Counts {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			if fastestIdx >= 0 {
				result.Fastest = &result.Samples[fastestIdx]
			}
			return result, ctx.Err()
		default:
		}

		sample := Sample{Workers: workers, Runs: make([]time.Duration, 0, repeats)}
		for run := 0; run < repeats; run++ {
			runStart := time.Now()
			err := fit(ctx, workers)
			elapsed := time.Since(runStart)

			if err != nil {
				sample.Err = fmt.Errorf("fit with %d workers: %w", workers, err)
				break
			}
			sample.Runs = append(sample.Runs, elapsed)
			if len(sample.Runs) == 1 || elapsed < sample.Duration {
				sample.Duration = elapsed
			}
		}
		result.Samples = append(result.Samples, sample)

		if sample.Err != nil {
			logger.Warn("fit failed",
				zap.Int("workers", workers),
				zap.Error(sample.Err))
			continue
		}

		logger.Info("fit timed",
			zap.Int("workers", workers),
			zap.Duration("duration", sample.Duration),
			zap.Int("runs", len(sample.Runs)))

		// Strict less-than keeps the first-seen count on ties.
		if fastestIdx < 0 || sample.Duration < result.Samples[fastestIdx].Duration {
			fastestIdx = len(result.Samples) - 1
		}
	}

	result.Elapsed = time.Since(start)
	if fastestIdx >= 0 {
		result.Fastest = &result.Samples[fastestIdx]
	}

	logger.Info("sweep complete",
		zap.Int("counts", len(result.Samples)),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}
