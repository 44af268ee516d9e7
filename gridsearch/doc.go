// Package gridsearch selects ARIMA orders by exhaustive walk-forward
// evaluation.
//
// Unlike information-criterion selection, which scores a model on the
// data it was fit to, walk-forward evaluation scores each candidate
// order by genuine out-of-sample forecasts: the series splits into an
// initial training history and a held-out tail, and every held-out
// observation is forecast one step ahead before joining the history.
// The candidate's score is the mean squared error of those forecasts.
//
// # Basic Usage
//
//	series, err := timeseries.LoadCSV("sales.csv", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := gridsearch.Search(context.Background(), series, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if order, ok := result.BestOrder(); ok {
//	    fmt.Printf("best: %s mse=%.3f\n", order, result.Best.MSE)
//	} else {
//	    fmt.Println("every configuration failed")
//	}
//
// # Outcomes
//
// Every configuration tried produces an Outcome, scored or failed, in
// enumeration order (p outer, d middle, q inner). Recoverable model
// failures (too little data for the order, an unstable fit) are
// recorded on the outcome and the sweep continues; anything else aborts
// the search as a caller bug. The best outcome is the strict minimum
// over the scores, with the first-enumerated order winning ties, so
// repeated runs report the same winner.
//
// # Choosing a Grid
//
// Candidate sets come from Config.Grid. DefaultGrid covers
// p in {0,1,2,4,6,8,10}, d in {0,1,2}, q in {0,1,2}. SuggestGrid
// builds a data-driven alternative from significant PACF and ACF lags
// and KPSS-based differencing.
package gridsearch
