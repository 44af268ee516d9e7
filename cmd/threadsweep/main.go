// Command threadsweep times gradient boosting fits across worker
// counts. It loads (or synthesizes) a classification table, fits the
// same model once per configured count, prints one line per count and
// a fastest-count summary, and can persist the run and export JSON or
// Markdown reports.
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

	"github.com/cdipaolo/goml/base"
	"github.com/cdipaolo/goml/linear"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Lakeshed/applied-machine-learning/bench"
	"github.com/Lakeshed/applied-machine-learning/boost"
	"github.com/Lakeshed/applied-machine-learning/config"
	"github.com/Lakeshed/applied-machine-learning/dataset"
	"github.com/Lakeshed/applied-machine-learning/report"
	"github.com/Lakeshed/applied-machine-learning/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "threadsweep: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("threadsweep", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	csvPath := fs.String("csv", "", "CSV file with the classification table (default: synthetic data)")
	labelColumn := fs.String("label-column", "", "label column name (default: last column)")
	jsonPath := fs.String("json", "", "write the result as JSON to this file")
	reportPath := fs.String("report", "", "write a Markdown report to this file")
	listRuns := fs.Bool("list", false, "list persisted timing runs and exit")
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
		return printRuns(cfg.Store.Path, store.KindTiming)
	}

	table, name, err := loadTable(*csvPath, *labelColumn, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boostCfg := cfg.Bench.BoostConfig()
	fit := func(_ context.Context, workers int) error {
		c := *boostCfg
		c.Workers = workers
		return boost.New(&c).Fit(table.X, table.Y)
	}

	fmt.Printf("%s: %d rows, %d features, %d rounds per fit\n",
		name, table.Len(), table.Features(), boostCfg.Rounds)

	result, err := bench.Sweep(ctx, fit, cfg.Bench.SweepConfig(logger))
	if err != nil {
		if result != nil {
			printSamples(result)
			fmt.Printf("\nstopped after %d of %d worker counts\n",
				len(result.Samples), len(cfg.Bench.Workers))
		}
		return err
	}

	printSamples(result)
	printSummary(result)

	if workers, ok := result.FastestWorkers(); ok {
		printAccuracy(table, boostCfg, workers, logger)
	}

	if cfg.Store.Path != "" {
		if err := persistTiming(cfg.Store.Path, name, result, logger); err != nil {
			return err
		}
	}
	if *jsonPath != "" {
		if err := writeFile(*jsonPath, func(w io.Writer) error {
			return report.WriteTimingJSON(w, name, result)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", *jsonPath)
	}
	if *reportPath != "" {
		if err := writeFile(*reportPath, func(w io.Writer) error {
			return report.WriteTimingMarkdown(w, name, result)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", *reportPath)
	}
	return nil
}

// loadTable returns the table to fit on. Without --csv it generates
// the synthetic dataset described by the bench config.
func loadTable(path, label string, cfg *config.Config) (*dataset.Table, string, error) {
	if path != "" {
		opts := dataset.DefaultCSVOptions()
		if label != "" {
			opts.LabelColumn = label
		}
		table, err := dataset.LoadCSV(path, opts)
		if err != nil {
			return nil, "", err
		}
		return table, filepath.Base(path), nil
	}

	b := cfg.Bench
	table, err := dataset.Synthetic(b.Rows, b.Features, b.Seed)
	if err != nil {
		return nil, "", err
	}
	return table, fmt.Sprintf("synthetic-%dx%d", b.Rows, b.Features), nil
}

func printSamples(result *bench.Result) {
	for i := range result.Samples {
		s := &result.Samples[i]
		if s.Failed() {
			fmt.Printf("%2d workers  failed: %v\n", s.Workers, s.Err)
			continue
		}
		if len(s.Runs) > 1 {
			fmt.Printf("%2d workers  %v (best of %d)\n",
				s.Workers, s.Duration.Round(time.Millisecond), len(s.Runs))
			continue
		}
		fmt.Printf("%2d workers  %v\n", s.Workers, s.Duration.Round(time.Millisecond))
	}
}

func printSummary(result *bench.Result) {
	fmt.Println()
	if workers, ok := result.FastestWorkers(); ok {
		fmt.Printf("fastest: %d workers in %v (sweep took %v)\n",
			workers, result.Fastest.Duration.Round(time.Millisecond),
			result.Elapsed.Round(time.Millisecond))
		return
	}
	fmt.Printf("every worker count failed (%d attempted, %v)\n",
		len(result.Samples), result.Elapsed.Round(time.Millisecond))
}

// printAccuracy fits at the fastest count on a train split and scores
// the holdout, so the timing numbers come with a quality check. A
// plain logistic regression on the same split gives the boosted score
// a reference point.
func printAccuracy(table *dataset.Table, cfg *boost.Config, workers int, logger *zap.Logger) {
	train, test, err := table.Split(0.66)
	if err != nil {
		logger.Warn("holdout split failed", zap.Error(err))
		return
	}
	c := *cfg
	c.Workers = workers
	model := boost.New(&c)
	if err := model.Fit(train.X, train.Y); err != nil {
		logger.Warn("holdout fit failed", zap.Error(err))
		return
	}
	acc, err := model.Score(test.X, test.Y)
	if err != nil {
		logger.Warn("holdout score failed", zap.Error(err))
		return
	}
	ref, err := logisticBaseline(train, test)
	if err != nil {
		logger.Warn("logistic baseline failed", zap.Error(err))
		fmt.Printf("holdout accuracy at %d workers: %.3f\n", workers, acc)
		return
	}
	fmt.Printf("holdout accuracy at %d workers: %.3f (logistic baseline %.3f)\n",
		workers, acc, ref)
}

func logisticBaseline(train, test *dataset.Table) (float64, error) {
	model := linear.NewLogistic(base.BatchGA, 1e-4, 0, 500, train.Rows(), train.Y)
	model.Output = io.Discard
	if err := model.Learn(); err != nil {
		return 0, fmt.Errorf("learn baseline: %w", err)
	}

	rows := test.Rows()
	correct := 0
	for i, row := range rows {
		guess, err := model.Predict(row)
		if err != nil {
			return 0, fmt.Errorf("predict row %d: %w", i, err)
		}
		label := 0.0
		if guess[0] >= 0.5 {
			label = 1
		}
		if label == test.Y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(rows)), nil
}

func persistTiming(path, name string, result *bench.Result, logger *zap.Logger) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.SaveTimingRun(name, result)
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
