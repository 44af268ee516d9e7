// Package appliedml provides tooling for two model-selection
// exercises: tuning an ARIMA order by walk-forward validation and
// timing gradient-boosted tree fits across worker counts.
//
// The forecasting side fits ARIMA(p, d, q) models over a configurable
// grid and picks the order with the lowest one-step forecast MSE on a
// holdout tail. The classification side fits the same boosted model at
// several worker-pool sizes and reports how wall-clock fit time
// scales.
//
// # Features
//
//   - ARIMA models with CSS fitting for non-seasonal time series
//   - Grid search over (p, d, q) with walk-forward one-step validation
//   - ACF/PACF-based grid suggestion and KPSS-based differencing
//   - Residual diagnostics (Ljung-Box, Box-Pierce, Durbin-Watson)
//   - Gradient-boosted trees with a configurable split-search pool
//   - Worker-count timing sweeps with per-count wall-clock samples
//   - SQLite persistence plus JSON and Markdown reporting for runs
//
// # Quick Start
//
// Tune an ARIMA order:
//
//	series, _ := timeseries.LoadCSV("sales.csv", nil)
//	result, _ := gridsearch.Search(ctx, series, nil)
//	if order, ok := result.BestOrder(); ok {
//		fmt.Println("best:", order)
//	}
//
// Time boosting fits across worker counts:
//
//	table, _ := dataset.Synthetic(2000, 10, 42)
//	fit := func(ctx context.Context, workers int) error {
//		cfg := boost.DefaultConfig()
//		cfg.Workers = workers
//		return boost.New(cfg).Fit(table.X, table.Y)
//	}
//	result, _ := bench.Sweep(ctx, fit, nil)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - arima: Non-seasonal ARIMA models
//   - gridsearch: Order selection by walk-forward validation
//   - boost: Gradient-boosted trees for binary classification
//   - bench: Worker-count timing sweeps
//   - dataset: Classification tables and synthetic data
//   - stats: Statistical tests and analysis functions
//   - timeseries: Time series data structures and utilities
//   - store: SQLite persistence for runs
//   - report: JSON and Markdown run reports
//   - config: Layered configuration for the CLIs
//
// The cmd/gridsearch and cmd/threadsweep commands wrap the two
// workflows for the command line.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Friedman, J. H. (2001). Greedy Function Approximation: A Gradient Boosting Machine
package appliedml
