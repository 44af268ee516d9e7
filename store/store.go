// Package store persists sweep results to SQLite so repeated runs can be
// compared after the fact.
package store

import (
	"time"

	"github.com/Lakeshed/applied-machine-learning/bench"
	"github.com/Lakeshed/applied-machine-learning/gridsearch"
)

// Run kinds as stored in the runs table.
const (
	KindGrid   = "grid"
	KindTiming = "timing"
)

// Run identifies one persisted sweep.
type Run struct {
	ID        int64
	Kind      string
	Dataset   string
	CreatedAt time.Time
	Elapsed   time.Duration
}

// GridOutcome is one persisted candidate configuration, as read back from
// the store. MSE is zero and Error non-empty when the configuration failed.
type GridOutcome struct {
	P       int
	D       int
	Q       int
	MSE     float64
	Elapsed time.Duration
	Error   string
	Best    bool
}

// TimingSample is one persisted worker-count timing, as read back from the
// store. Runs counts the successful repeats folded into Duration.
type TimingSample struct {
	Workers  int
	Duration time.Duration
	Runs     int
	Error    string
	Fastest  bool
}

// Store defines the interface for persisting and recalling sweep results.
type Store interface {
	SaveGridRun(dataset string, result *gridsearch.Result) (int64, error)
	SaveTimingRun(dataset string, result *bench.Result) (int64, error)

	// ListRuns returns persisted runs, most recent first. Kind filters to
	// KindGrid or KindTiming; the empty string returns every run.
	ListRuns(kind string) ([]Run, error)

	// GridOutcomes and TimingSamples return a run's rows in the order the
	// sweep produced them. An unknown run ID yields an empty slice.
	GridOutcomes(runID int64) ([]GridOutcome, error)
	TimingSamples(runID int64) ([]TimingSample, error)

	Close() error
}
