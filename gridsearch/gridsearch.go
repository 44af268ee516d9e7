package gridsearch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Lakeshed/applied-machine-learning/arima"
	"github.com/Lakeshed/applied-machine-learning/timeseries"
)

// Grid holds the candidate values for each order dimension.
type Grid struct {
	P []int
	D []int
	Q []int
}

// DefaultGrid returns the candidate sets of the documented sales run.
func DefaultGrid() Grid {
	return Grid{
		P: []int{0, 1, 2, 4, 6, 8, 10},
		D: []int{0, 1, 2},
		Q: []int{0, 1, 2},
	}
}

// Size returns the number of configurations the grid enumerates.
func (g Grid) Size() int {
	return len(g.P) * len(g.D) * len(g.Q)
}

// Validate checks that every dimension has at least one candidate and
// that every candidate value is non-negative.
func (g Grid) Validate() error {
	dims := []struct {
		name   string
		values []int
	}{
		{"p", g.P},
		{"d", g.D},
		{"q", g.Q},
	}
	for _, dim := range dims {
		if len(dim.values) == 0 {
			return fmt.Errorf("grid dimension %s has no candidates", dim.name)
		}
		for _, v := range dim.values {
			if v < 0 {
				return fmt.Errorf("grid dimension %s contains negative candidate %d", dim.name, v)
			}
		}
	}
	return nil
}

// Orders enumerates the Cartesian product in p-outer, d-middle, q-inner
// order. Enumeration order is also the tie-break order of the sweep.
func (g Grid) Orders() []arima.Order {
	orders := make([]arima.Order, 0, g.Size())
	for _, p := range g.P {
		for _, d := range g.D {
			for _, q := range g.Q {
				orders = append(orders, arima.Order{P: p, D: d, Q: q})
			}
		}
	}
	return orders
}

// Config holds grid-search settings.
type Config struct {
	Grid          Grid
	TrainFraction float64     // share of the series used as initial history (default 0.66)
	Logger        *zap.Logger // nil disables logging
}

// DefaultConfig returns a config with the default grid and train fraction.
func DefaultConfig() *Config {
	return &Config{
		Grid:          DefaultGrid(),
		TrainFraction: DefaultTrainFraction,
	}
}

// Search exhaustively evaluates every configuration in the grid with
// walk-forward validation and folds the outcomes into a best order.
//
// Recoverable model failures (arima.ErrInsufficientData,
// arima.ErrUnstable) are recorded on the configuration's Outcome and the
// sweep continues. Any other evaluation error aborts the search: it
// signals invalid input rather than an infeasible configuration.
//
// The best outcome is picked by strict less-than comparison over the
// scores in enumeration order, so the first of two equally scored
// configurations wins. Cancellation is checked between configurations;
// a canceled search returns the partial result together with the
// context error.
func Search(ctx context.Context, series *timeseries.Series, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	frac := config.TrainFraction
	if frac == 0 {
		frac = DefaultTrainFraction
	}

	if series == nil || series.Len() < 3 {
		return nil, errors.New("grid search requires a series with at least 3 observations")
	}
	if frac <= 0 || frac >= 1 {
		return nil, fmt.Errorf("train fraction must be in (0, 1), got %v", frac)
	}
	if err := config.Grid.Validate(); err != nil {
		return nil, err
	}

	orders := config.Grid.Orders()
	result := &Result{Outcomes: make([]Outcome, 0, len(orders))}

	start := time.Now()
	bestIdx := -1
	bestMSE := math.Inf(1)

	for _, order := range orders {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			if bestIdx >= 0 {
				result.Best = &result.Outcomes[bestIdx]
			}
			return result, ctx.Err()
		default:
		}

		evalStart := time.Now()
		eval, err := WalkForward(series, order, frac)
		elapsed := time.Since(evalStart)

		if err != nil {
			if !recoverable(err) {
				return nil, fmt.Errorf("evaluate %s: %w", order, err)
			}
			result.Outcomes = append(result.Outcomes, Outcome{Order: order, Elapsed: elapsed, Err: err})
			result.Failed++
			logger.Debug("configuration failed",
				zap.Stringer("order", order),
				zap.Error(err))
			continue
		}

		result.Outcomes = append(result.Outcomes, Outcome{Order: order, MSE: eval.MSE, Elapsed: elapsed})
		result.Evaluated++
		logger.Info("configuration evaluated",
			zap.Stringer("order", order),
			zap.Float64("mse", eval.MSE),
			zap.Duration("elapsed", elapsed))

		// Strict less-than keeps the first-seen order on ties.
		if eval.MSE < bestMSE {
			bestMSE = eval.MSE
			bestIdx = len(result.Outcomes) - 1
		}
	}

	result.Elapsed = time.Since(start)
	if bestIdx >= 0 {
		result.Best = &result.Outcomes[bestIdx]
	}

	logger.Info("grid search complete",
		zap.Int("evaluated", result.Evaluated),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// recoverable reports whether an evaluation error marks an infeasible
// configuration rather than bad input.
func recoverable(err error) bool {
	return errors.Is(err, arima.ErrInsufficientData) || errors.Is(err, arima.ErrUnstable)
}
