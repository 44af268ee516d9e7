// Command gridsearch tunes an ARIMA order on a CSV series. It walks
// the configured (p, d, q) grid with walk-forward validation, prints
// one line per candidate and a best-order summary, and can persist the
// run and export JSON or Markdown reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Lakeshed/applied-machine-learning/arima"
	"github.com/Lakeshed/applied-machine-learning/config"
	"github.com/Lakeshed/applied-machine-learning/gridsearch"
	"github.com/Lakeshed/applied-machine-learning/report"
	"github.com/Lakeshed/applied-machine-learning/store"
	"github.com/Lakeshed/applied-machine-learning/timeseries"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "gridsearch: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("gridsearch", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	csvPath := fs.String("csv", "", "CSV file with the series to tune on")
	dateColumn := fs.String("date-column", "", "date column name (default: autodetect)")
	valueColumn := fs.String("value-column", "", "value column name (default: last column)")
	suggest := fs.Bool("suggest", false, "derive the candidate grid from ACF/PACF instead of the configured one")
	jsonPath := fs.String("json", "", "write the result as JSON to this file")
	reportPath := fs.String("report", "", "write a Markdown report to this file")
	listRuns := fs.Bool("list", false, "list persisted grid runs and exit")
	printConfig := fs.Bool("print-config", false, "print the effective configuration and exit")
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		return err
	}
	if *printConfig {
		doc, err := cfg.YAML()
		if err != nil {
			return err
		}
		fmt.Print(doc)
		return nil
	}
	logger, err := cfg.Logging.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if *listRuns {
		if cfg.Store.Path == "" {
			return errors.New("--list requires a database path (--db)")
		}
		return printRuns(cfg.Store.Path, store.KindGrid)
	}

	if *csvPath == "" {
		return errors.New("a series file is required (--csv)")
	}

	opts := timeseries.DefaultCSVOptions()
	if *dateColumn != "" {
		opts.DateColumn = *dateColumn
	}
	if *valueColumn != "" {
		opts.ValueColumn = *valueColumn
	}
	series, err := timeseries.LoadCSV(*csvPath, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	searchCfg := cfg.Grid.SearchConfig(logger)
	if *suggest {
		searchCfg.Grid = gridsearch.SuggestGrid(series)
		fmt.Printf("suggested grid from ACF/PACF: p=%v d=%v q=%v\n",
			searchCfg.Grid.P, searchCfg.Grid.D, searchCfg.Grid.Q)
	}

	fmt.Printf("%s: %d observations, %d candidate orders\n",
		filepath.Base(*csvPath), series.Len(), searchCfg.Grid.Size())

	result, err := gridsearch.Search(ctx, series, searchCfg)
	if err != nil {
		if result != nil {
			printOutcomes(result)
			fmt.Printf("\nstopped after %d of %d configurations\n",
				len(result.Outcomes), searchCfg.Grid.Size())
		}
		return err
	}

	printOutcomes(result)
	printSummary(result)

	if best, ok := result.BestOrder(); ok {
		printDiagnostics(series, best, logger)
	}

	name := filepath.Base(*csvPath)
	if cfg.Store.Path != "" {
		if err := persistGrid(cfg.Store.Path, name, result, logger); err != nil {
			return err
		}
	}
	if *jsonPath != "" {
		if err := writeFile(*jsonPath, func(w io.Writer) error {
			return report.WriteGridJSON(w, name, result)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", *jsonPath)
	}
	if *reportPath != "" {
		if err := writeFile(*reportPath, func(w io.Writer) error {
			return report.WriteGridMarkdown(w, name, result)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", *reportPath)
	}
	return nil
}

func printOutcomes(result *gridsearch.Result) {
	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		if o.Failed() {
			fmt.Printf("%-14s failed: %v\n", o.Order, o.Err)
			continue
		}
		fmt.Printf("%-14s MSE %.4f  (%v)\n", o.Order, o.MSE, o.Elapsed.Round(time.Millisecond))
	}
}

func printSummary(result *gridsearch.Result) {
	fmt.Println()
	if best, ok := result.BestOrder(); ok {
		fmt.Printf("best: %s with test MSE %.4f (%d evaluated, %d failed, %v)\n",
			best, result.Best.MSE, result.Evaluated, result.Failed,
			result.Elapsed.Round(time.Millisecond))
		return
	}
	fmt.Printf("every configuration failed (%d attempted, %v)\n",
		result.Failed, result.Elapsed.Round(time.Millisecond))
}

// printDiagnostics refits the winning order on the full series and
// reports the Ljung-Box test on its residuals.
func printDiagnostics(series *timeseries.Series, order arima.Order, logger *zap.Logger) {
	model := arima.NewFromOrder(order)
	if err := model.Fit(series); err != nil {
		logger.Warn("refit on full series failed",
			zap.Stringer("order", order),
			zap.Error(err))
		return
	}
	summary := model.Summary()
	if summary == nil {
		return
	}
	fmt.Printf("refit on full series: AIC %.2f, BIC %.2f\n", summary.AIC, summary.BIC)
	if lb := summary.LjungBox; lb != nil {
		verdict := "residuals look like white noise"
		if lb.PValue < 0.05 {
			verdict = "residual autocorrelation remains"
		}
		fmt.Printf("Ljung-Box Q(%d) = %.3f, p = %.3f: %s\n",
			lb.Lags, lb.Statistic, lb.PValue, verdict)
	}
}

func persistGrid(path, name string, result *gridsearch.Result, logger *zap.Logger) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.SaveGridRun(name, result)
	if err != nil {
		return err
	}
	logger.Info("run persisted", zap.Int64("run_id", id), zap.String("db", path))
	fmt.Printf("saved run %d to %s\n", id, path)
	return nil
}

func printRuns(path, kind string) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(kind)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	fmt.Printf("%-5s %-20s %-24s %s\n", "ID", "CREATED", "DATASET", "ELAPSED")
	for _, r := range runs {
		fmt.Printf("%-5d %-20s %-24s %v\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Dataset,
			r.Elapsed.Round(time.Millisecond))
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
