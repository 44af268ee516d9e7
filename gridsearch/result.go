package gridsearch

import (
	"time"

	"github.com/Lakeshed/applied-machine-learning/arima"
)

// Outcome records the result of one candidate configuration: a score on
// success, or the reason it failed. Every configuration tried appears as
// an outcome, so failures are observable without aborting the sweep.
type Outcome struct {
	Order   arima.Order
	MSE     float64
	Elapsed time.Duration
	Err     error
}

// Failed reports whether this configuration failed to evaluate.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Result aggregates a full grid sweep.
type Result struct {
	Outcomes  []Outcome // one per configuration, in enumeration order
	Best      *Outcome  // nil when every configuration failed
	Evaluated int       // configurations scored successfully
	Failed    int       // configurations that failed
	Elapsed   time.Duration
}

// BestOrder returns the winning order. The boolean is false when every
// configuration failed and there is no best to report.
func (r *Result) BestOrder() (arima.Order, bool) {
	if r == nil || r.Best == nil {
		return arima.Order{}, false
	}
	return r.Best.Order, true
}

// Successes returns the successfully scored outcomes in enumeration order.
func (r *Result) Successes() []Outcome {
	out := make([]Outcome, 0, r.Evaluated)
	for _, o := range r.Outcomes {
		if !o.Failed() {
			out = append(out, o)
		}
	}
	return out
}

// Failures returns the failed outcomes in enumeration order.
func (r *Result) Failures() []Outcome {
	out := make([]Outcome, 0, r.Failed)
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}
