// Package arima implements AutoRegressive Integrated Moving Average (ARIMA) models.
//
// ARIMA models are used for analyzing and forecasting time series data. An ARIMA(p,d,q)
// model combines:
//   - AR(p): AutoRegressive component with p lags
//   - I(d): Integration (differencing) of order d
//   - MA(q): Moving Average component with q lags
//
// # Basic Usage
//
// Create and fit an ARIMA model:
//
//	// Create ARIMA(1,1,0) model
//	model := arima.New(1, 1, 0)
//
//	// Fit the model to data
//	err := model.Fit(series)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Get model summary
//	summary := model.Summary()
//	fmt.Printf("AIC: %.2f, BIC: %.2f\n", summary.AIC, summary.BIC)
//
//	// Generate forecasts
//	forecasts, _ := model.Predict(10)
//
// # Failure Classification
//
// Fit and Predict report failures through sentinel errors so that callers
// sweeping many candidate orders can tell recoverable conditions apart
// from bugs:
//
//	err := model.Fit(series)
//	switch {
//	case errors.Is(err, arima.ErrInsufficientData),
//	    errors.Is(err, arima.ErrUnstable):
//	    // expected for infeasible orders; record and move on
//	case err != nil:
//	    // caller bug; stop the sweep
//	}
//
// # Residual Analysis
//
// Analyze model residuals to check model adequacy:
//
//	residuals := model.Residuals()
//	// Use stats.LjungBox to test for autocorrelation in residuals
//
// For selecting an order by out-of-sample forecast error, use the
// gridsearch package.
package arima
