package gridsearch

import (
	"errors"
	"fmt"
	"math"

	"github.com/Lakeshed/applied-machine-learning/arima"
	"github.com/Lakeshed/applied-machine-learning/timeseries"
)

// DefaultTrainFraction is the share of observations used as the initial
// training history in walk-forward evaluation.
const DefaultTrainFraction = 0.66

// Evaluation holds the walk-forward result for a single candidate order.
type Evaluation struct {
	Order       arima.Order
	Predictions []float64
	Actuals     []float64
	MSE         float64
	TrainSize   int
	TestSize    int
}

// WalkForward scores one candidate order by walk-forward one-step
// forecasting. The series splits at floor(trainFraction * n): the first
// part seeds the training history, the remainder is held out. Each
// held-out observation is forecast one step ahead from the history seen
// so far, then the actual value joins the history before the next step.
// The score is the mean squared error over the held-out range.
//
// Model failures during fitting or forecasting propagate to the caller
// wrapped with the failing step; classifying them is the caller's job.
// The evaluation is deterministic: the same series, order, and fraction
// always produce identical predictions and error.
func WalkForward(series *timeseries.Series, order arima.Order, trainFraction float64) (*Evaluation, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if series == nil || series.Len() == 0 {
		return nil, errors.New("walk-forward requires a non-empty series")
	}
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, fmt.Errorf("train fraction must be in (0, 1), got %v", trainFraction)
	}

	n := series.Len()
	split := int(math.Floor(trainFraction * float64(n)))
	if split < 1 || split >= n {
		return nil, fmt.Errorf("series of length %d cannot be split at fraction %v", n, trainFraction)
	}

	history := series.Slice(0, split)
	holdout := series.Slice(split, n)

	predictions := make([]float64, 0, holdout.Len())
	for i, actual := range holdout.Values {
		model := arima.NewFromOrder(order)
		if err := model.Fit(history); err != nil {
			return nil, fmt.Errorf("fit at step %d of %d: %w", i+1, holdout.Len(), err)
		}

		forecast, err := model.Predict(1)
		if err != nil {
			return nil, fmt.Errorf("forecast at step %d of %d: %w", i+1, holdout.Len(), err)
		}
		if len(forecast) != 1 {
			return nil, fmt.Errorf("forecast at step %d of %d: expected 1 value, got %d", i+1, holdout.Len(), len(forecast))
		}

		predictions = append(predictions, forecast[0])
		history = history.Extend(actual)
	}

	mse := MSE(predictions, holdout.Values)
	if math.IsNaN(mse) || math.IsInf(mse, 0) {
		return nil, fmt.Errorf("%s: non-finite error over holdout: %w", order, arima.ErrUnstable)
	}

	return &Evaluation{
		Order:       order,
		Predictions: predictions,
		Actuals:     holdout.Values,
		MSE:         mse,
		TrainSize:   split,
		TestSize:    holdout.Len(),
	}, nil
}
