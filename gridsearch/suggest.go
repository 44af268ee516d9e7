package gridsearch

import (
	"github.com/Lakeshed/applied-machine-learning/stats"
	"github.com/Lakeshed/applied-machine-learning/timeseries"
)

// maxSuggestedLag caps the candidate order values SuggestGrid proposes.
const maxSuggestedLag = 5

// SuggestGrid proposes candidate sets from the series itself: AR
// candidates from significant PACF lags, MA candidates from significant
// ACF lags, and differencing candidates from repeated KPSS tests. Every
// dimension always contains 0 so the sweep can fall back to the
// simplest models. Short series get the minimal {0} grid.
func SuggestGrid(series *timeseries.Series) Grid {
	grid := Grid{P: []int{0}, D: []int{0}, Q: []int{0}}
	if series == nil || series.Len() < 10 {
		return grid
	}

	maxLag := series.Len() / 4
	if maxLag > 10 {
		maxLag = 10
	}

	if pacf := stats.PACFWithConfidence(series, maxLag); pacf != nil {
		for _, lag := range stats.SignificantLags(pacf.Values, pacf.ConfBounds) {
			if lag <= maxSuggestedLag {
				grid.P = append(grid.P, lag)
			}
		}
	}
	if acf := stats.ACFWithConfidence(series, maxLag); acf != nil {
		for _, lag := range stats.SignificantLags(acf.Values, acf.ConfBounds) {
			if lag <= maxSuggestedLag {
				grid.Q = append(grid.Q, lag)
			}
		}
	}
	ndiffs := stats.NDiffs(series, 2, "kpss")
	for d := 1; d <= ndiffs; d++ {
		grid.D = append(grid.D, d)
	}
	return grid
}
