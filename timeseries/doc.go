// Package timeseries provides time series data structures and utilities.
//
// This package includes the Series type for representing ordered numeric
// observations, along with functions for data loading, transformation, and
// summary statistics. A Series is treated as immutable: transforms return
// new series, which keeps sweep evaluations free of aliasing between grid
// points.
//
// # Creating a Series
//
// Create a series from a slice:
//
//	values := []float64{100, 102, 105, 103, 108, 110}
//	series := timeseries.New(values)
//
// # Loading from CSV
//
// Load series data from CSV files:
//
//	// Load a specific column
//	series, err := timeseries.LoadCSVColumn("sales.csv", "Sales")
//
//	// Load with filtering
//	series, err := timeseries.LoadCSVFiltered(
//	    "data.csv",
//	    "country", "Australia",  // filter column and value
//	    "population",            // value column
//	)
//
// Monthly tables that index time as "year-month" offsets ("1-01" through
// "3-12") parse via CSVOptions.BaseYear.
//
// # Basic Statistics
//
// Calculate summary statistics:
//
//	mean := series.Mean()
//	std := series.Std()
//	min := series.Min()
//	max := series.Max()
//	median := series.Median()
//
// # Transformations
//
// Transform the series:
//
//	diff := series.Diff()    // First difference
//	diff2 := series.DiffN(2) // Second difference
//
// # Slicing and Growing
//
// Work with subsets of the data, and grow a forecast history one
// observation at a time:
//
//	train := series.Slice(0, 23)
//	history := train.Extend(nextActual)
//	clone := series.Copy()
//
// # CSV Options
//
// Customize CSV loading:
//
//	opts := &timeseries.CSVOptions{
//	    DateColumn:  "Month",
//	    ValueColumn: "Sales",
//	    BaseYear:    1900,
//	    HasHeader:   true,
//	}
//	series, err := timeseries.LoadCSVFromReader(reader, opts)
package timeseries
