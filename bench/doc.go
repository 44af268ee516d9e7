// Package bench times model training across worker counts.
//
// A sweep varies exactly one thing, the worker count handed to the fit
// function, and observes exactly one thing, wall-clock duration. The
// fit call is a black box: whatever parallelism the worker count buys
// happens inside it and shows up only as elapsed time.
//
// # Basic Usage
//
//	table, err := dataset.Synthetic(2000, 10, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fit := func(ctx context.Context, workers int) error {
//	    cfg := boost.DefaultConfig()
//	    cfg.Workers = workers
//	    return boost.New(cfg).Fit(table.X, table.Y)
//	}
//
//	result, err := bench.Sweep(context.Background(), fit, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range result.Samples {
//	    fmt.Printf("workers=%d duration=%s\n", s.Workers, s.Duration)
//	}
//	if workers, ok := result.FastestWorkers(); ok {
//	    fmt.Printf("fastest: %d workers\n", workers)
//	}
//
// # Samples
//
// Every requested count produces a Sample in request order, timed or
// failed. By default each count is timed once, matching a quick
// exploratory run; Config.Repeats re-times each count and keeps the
// fastest run as the headline duration, which damps scheduler noise
// when the numbers matter.
package bench
