package gridsearch

import "math"

// MSE returns the mean squared error between predictions and actuals.
// Returns NaN when the slices are empty or their lengths differ.
func MSE(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return math.NaN()
	}
	sum := 0.0
	for i := range predicted {
		diff := predicted[i] - actual[i]
		sum += diff * diff
	}
	return sum / float64(len(predicted))
}

// RMSE returns the root mean squared error between predictions and actuals.
func RMSE(predicted, actual []float64) float64 {
	return math.Sqrt(MSE(predicted, actual))
}

// MAE returns the mean absolute error between predictions and actuals.
// Returns NaN when the slices are empty or their lengths differ.
func MAE(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return math.NaN()
	}
	sum := 0.0
	for i := range predicted {
		sum += math.Abs(predicted[i] - actual[i])
	}
	return sum / float64(len(predicted))
}

// MAPE returns the mean absolute percentage error between predictions
// and actuals. Observations with a zero actual value are skipped; if
// every actual is zero the result is NaN.
func MAPE(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return math.NaN()
	}
	sum := 0.0
	count := 0
	for i := range predicted {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs((predicted[i] - actual[i]) / actual[i])
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count) * 100
}
