// Package stats provides statistical tests and analysis functions for time series.
//
// This package includes stationarity tests, autocorrelation functions, and
// diagnostic tests for ARIMA model validation.
//
// # Stationarity Tests
//
// Test whether a time series is stationary:
//
//	// Augmented Dickey-Fuller test
//	// H0: Series has unit root (non-stationary)
//	adf := stats.ADF(series, 0)
//	fmt.Printf("ADF: stat=%.4f, p=%.4f, stationary=%v\n",
//	    adf.Statistic, adf.PValue, adf.IsStationary)
//
//	// KPSS test (recommended)
//	// H0: Series is stationary
//	kpss := stats.KPSS(series, "c", 0)
//	fmt.Printf("KPSS: stat=%.4f, p=%.4f, stationary=%v\n",
//	    kpss.Statistic, kpss.PValue, kpss.IsStationary)
//
//	// Phillips-Perron test
//	pp := stats.PhillipsPerron(series, 0)
//
// # Differencing Analysis
//
// Determine the differencing order needed to reach stationarity:
//
//	// Number of first differences needed, judged by repeated KPSS tests
//	d := stats.NDiffs(series, 2, "kpss")
//
//	// The test type may also be "adf" or "pp"
//	d = stats.NDiffs(series, 2, "pp")
//
// # Autocorrelation Functions
//
// Analyze autocorrelation patterns:
//
//	// Autocorrelation Function
//	acf := stats.ACF(series, 20)
//
//	// Partial Autocorrelation Function
//	pacf := stats.PACF(series, 20)
//
//	// ACF with confidence bounds
//	acfResult := stats.ACFWithConfidence(series, 20)
//	significant := stats.SignificantLags(acfResult.Values, acfResult.ConfBounds)
//
// # Residual Diagnostics
//
// Test residuals for autocorrelation:
//
//	// Ljung-Box test for autocorrelation
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb.PValue > 0.05 {
//	    // Residuals are white noise (good)
//	}
//
//	// Box-Pierce test
//	bp := stats.BoxPierce(residuals, 10, p+q)
//
//	// Durbin-Watson test
//	dw := stats.DurbinWatson(residuals.Values)
//
// # Information Criteria
//
// Compare fitted models of different complexity:
//
//	ic := stats.CalculateIC(logLikelihood, nObs, nParams)
//	// ic.AIC, ic.AICc, ic.BIC
package stats
