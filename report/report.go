// Package report renders sweep results as Markdown tables and JSON
// documents for files or stdout.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Lakeshed/applied-machine-learning/bench"
	"github.com/Lakeshed/applied-machine-learning/gridsearch"
)

type gridEntry struct {
	P         int     `json:"p"`
	D         int     `json:"d"`
	Q         int     `json:"q"`
	MSE       float64 `json:"mse"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Error     string  `json:"error,omitempty"`
}

type gridReport struct {
	Dataset   string      `json:"dataset"`
	Evaluated int         `json:"evaluated"`
	Failed    int         `json:"failed"`
	ElapsedMS float64     `json:"elapsed_ms"`
	Best      *gridEntry  `json:"best,omitempty"`
	Outcomes  []gridEntry `json:"outcomes"`
}

type timingEntry struct {
	Workers    int     `json:"workers"`
	DurationMS float64 `json:"duration_ms"`
	Runs       int     `json:"runs"`
	Speedup    float64 `json:"speedup_vs_first,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type timingReport struct {
	Dataset   string        `json:"dataset"`
	ElapsedMS float64       `json:"elapsed_ms"`
	Fastest   *timingEntry  `json:"fastest,omitempty"`
	Samples   []timingEntry `json:"samples"`
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// WriteGridMarkdown renders a grid sweep as a Markdown report: a summary
// block, the winning order (or an explicit all-failed note), and a
// per-configuration table in sweep order.
func WriteGridMarkdown(w io.Writer, dataset string, result *gridsearch.Result) error {
	if result == nil {
		return errors.New("nil grid result")
	}

	fmt.Fprintln(w, "# ARIMA Grid Search")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "**Dataset**: %s\n", dataset)
	fmt.Fprintf(w, "**Configurations**: %d (%d evaluated, %d failed)\n",
		len(result.Outcomes), result.Evaluated, result.Failed)
	fmt.Fprintf(w, "**Elapsed**: %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)

	if result.Best != nil {
		fmt.Fprintf(w, "**Best**: %s with test MSE %.4f\n", result.Best.Order, result.Best.MSE)
	} else {
		fmt.Fprintln(w, "Every configuration failed; no model was selected.")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Order | MSE | Fit Time | Status |")
	fmt.Fprintln(w, "|-------|-----|----------|--------|")
	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		status := ""
		mse := ""
		switch {
		case o.Failed():
			status = o.Err.Error()
		default:
			mse = fmt.Sprintf("%.4f", o.MSE)
			if result.Best == o {
				status = "best"
			}
		}
		fmt.Fprintf(w, "| %s | %s | %v | %s |\n", o.Order, mse, o.Elapsed.Round(time.Microsecond), status)
	}
	return nil
}

// WriteTimingMarkdown renders a timing sweep as a Markdown report. The
// speedup column compares each count against the first successful one.
func WriteTimingMarkdown(w io.Writer, dataset string, result *bench.Result) error {
	if result == nil {
		return errors.New("nil timing result")
	}

	fmt.Fprintln(w, "# Thread Scaling Sweep")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "**Dataset**: %s\n", dataset)
	fmt.Fprintf(w, "**Counts**: %d\n", len(result.Samples))
	fmt.Fprintf(w, "**Elapsed**: %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)

	if result.Fastest != nil {
		fmt.Fprintf(w, "**Fastest**: %d workers in %v\n",
			result.Fastest.Workers, result.Fastest.Duration.Round(time.Microsecond))
	} else {
		fmt.Fprintln(w, "Every worker count failed; nothing to compare.")
	}
	fmt.Fprintln(w)

	baseline, haveBaseline := firstSuccess(result.Samples)

	fmt.Fprintln(w, "| Workers | Duration | Runs | Speedup | Status |")
	fmt.Fprintln(w, "|---------|----------|------|---------|--------|")
	for i := range result.Samples {
		s := &result.Samples[i]
		status := ""
		duration := ""
		speedup := ""
		switch {
		case s.Failed():
			status = s.Err.Error()
		default:
			duration = fmt.Sprintf("%v", s.Duration.Round(time.Microsecond))
			if haveBaseline && s.Duration > 0 {
				speedup = fmt.Sprintf("%.2fx", float64(baseline)/float64(s.Duration))
			}
			if result.Fastest == s {
				status = "fastest"
			}
		}
		fmt.Fprintf(w, "| %d | %s | %d | %s | %s |\n", s.Workers, duration, len(s.Runs), speedup, status)
	}
	return nil
}

// WriteGridJSON renders a grid sweep as an indented JSON document.
func WriteGridJSON(w io.Writer, dataset string, result *gridsearch.Result) error {
	if result == nil {
		return errors.New("nil grid result")
	}

	doc := gridReport{
		Dataset:   dataset,
		Evaluated: result.Evaluated,
		Failed:    result.Failed,
		ElapsedMS: millis(result.Elapsed),
		Outcomes:  make([]gridEntry, 0, len(result.Outcomes)),
	}
	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		entry := gridEntry{
			P:         o.Order.P,
			D:         o.Order.D,
			Q:         o.Order.Q,
			MSE:       o.MSE,
			ElapsedMS: millis(o.Elapsed),
		}
		if o.Failed() {
			entry.Error = o.Err.Error()
		}
		doc.Outcomes = append(doc.Outcomes, entry)
		if result.Best == o {
			best := entry
			doc.Best = &best
		}
	}

	return writeIndented(w, doc)
}

// WriteTimingJSON renders a timing sweep as an indented JSON document.
func WriteTimingJSON(w io.Writer, dataset string, result *bench.Result) error {
	if result == nil {
		return errors.New("nil timing result")
	}

	baseline, haveBaseline := firstSuccess(result.Samples)

	doc := timingReport{
		Dataset:   dataset,
		ElapsedMS: millis(result.Elapsed),
		Samples:   make([]timingEntry, 0, len(result.Samples)),
	}
	for i := range result.Samples {
		s := &result.Samples[i]
		entry := timingEntry{
			Workers:    s.Workers,
			DurationMS: millis(s.Duration),
			Runs:       len(s.Runs),
		}
		if s.Failed() {
			entry.Error = s.Err.Error()
		} else if haveBaseline && s.Duration > 0 {
			entry.Speedup = float64(baseline) / float64(s.Duration)
		}
		doc.Samples = append(doc.Samples, entry)
		if result.Fastest == s {
			fastest := entry
			doc.Fastest = &fastest
		}
	}

	return writeIndented(w, doc)
}

// firstSuccess returns the duration of the first successful sample, the
// speedup baseline.
func firstSuccess(samples []bench.Sample) (time.Duration, bool) {
	for _, s := range samples {
		if !s.Failed() {
			return s.Duration, true
		}
	}
	return 0, false
}

func writeIndented(w io.Writer, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
