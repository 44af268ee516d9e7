// Package dataset provides classification tables for training and
// benchmarking.
//
// A Table pairs a gonum feature matrix with a label vector and column
// names. Tables load from CSV (header required, any column selectable
// as the label, NA rows skipped) or come from the deterministic
// Synthetic generator, which builds balanced two-class Gaussian blobs
// for benchmarks and tests:
//
//	table, err := dataset.Synthetic(2000, 10, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	train, test, err := table.Split(0.66)
//
// Split divides at floor(frac * rows), the same convention the
// forecast evaluator uses for its train/holdout split.
package dataset
