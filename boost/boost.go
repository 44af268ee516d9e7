package boost

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

// ErrNotFitted is returned when predictions are requested before Fit.
var ErrNotFitted = errors.New("model has not been fitted")

// probEps keeps probabilities away from 0 and 1 so log-odds and
// hessians stay finite.
const probEps = 1e-6

// Config holds gradient-boosting settings.
type Config struct {
	Rounds         int     // boosting rounds, one tree each (default: 50)
	MaxDepth       int     // tree depth limit (default: 3)
	LearningRate   float64 // shrinkage per tree (default: 0.1)
	MinSamplesLeaf int     // minimum samples on each side of a split (default: 5)
	Workers        int     // split-search pool size; <= 0 means runtime.NumCPU()
}

// DefaultConfig returns the default boosting configuration.
func DefaultConfig() *Config {
	return &Config{
		Rounds:         50,
		MaxDepth:       3,
		LearningRate:   0.1,
		MinSamplesLeaf: 5,
	}
}

// Model is a binary classifier: gradient-boosted depth-limited
// regression trees on logistic loss. The fitted model is identical for
// any worker count; Workers only changes how fast Fit runs.
type Model struct {
	Config Config

	trees      []*tree
	baseScore  float64
	features   int
	importance []float64
	fitted     bool
}

// New creates an unfitted model. Zero-valued config fields fall back
// to the defaults.
func New(config *Config) *Model {
	cfg := *DefaultConfig()
	if config != nil {
		if config.Rounds > 0 {
			cfg.Rounds = config.Rounds
		}
		if config.MaxDepth > 0 {
			cfg.MaxDepth = config.MaxDepth
		}
		if config.LearningRate > 0 {
			cfg.LearningRate = config.LearningRate
		}
		if config.MinSamplesLeaf > 0 {
			cfg.MinSamplesLeaf = config.MinSamplesLeaf
		}
		cfg.Workers = config.Workers
	}
	return &Model{Config: cfg}
}

// Fit trains the model on a feature matrix and 0/1 labels.
func (m *Model) Fit(x *mat.Dense, y []float64) error {
	if x == nil {
		return errors.New("fit requires a feature matrix")
	}
	n, features := x.Dims()
	if n != len(y) {
		return fmt.Errorf("feature rows (%d) and labels (%d) must match", n, len(y))
	}
	if n < 2 {
		return fmt.Errorf("fit requires at least 2 rows, got %d", n)
	}

	positives := 0
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("label at row %d is %v, labels must be 0 or 1", i, label)
		}
		if label == 1 {
			positives++
		}
	}

	workers := m.Config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > features {
		workers = features
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, x)
	}

	p0 := clampProb(float64(positives) / float64(n))
	m.baseScore = math.Log(p0 / (1 - p0))
	m.features = features
	m.trees = make([]*tree, 0, m.Config.Rounds)
	m.importance = make([]float64, features)

	score := make([]float64, n)
	for i := range score {
		score[i] = m.baseScore
	}

	samples := make([]int, n)
	for i := range samples {
		samples[i] = i
	}

	b := &builder{
		rows:       rows,
		grad:       make([]float64, n),
		hess:       make([]float64, n),
		maxDepth:   m.Config.MaxDepth,
		minLeaf:    m.Config.MinSamplesLeaf,
		workers:    workers,
		importance: m.importance,
	}

	for round := 0; round < m.Config.Rounds; round++ {
		for i := range score {
			p := clampProb(sigmoid(score[i]))
			b.grad[i] = p - y[i]
			b.hess[i] = p * (1 - p)
		}

		t := b.build(samples)
		m.trees = append(m.trees, t)

		for i := range score {
			score[i] += m.Config.LearningRate * t.predict(rows[i])
		}
	}

	m.fitted = true
	return nil
}

// PredictProb returns the positive-class probability for every row.
func (m *Model) PredictProb(x *mat.Dense) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if x == nil {
		return nil, errors.New("predict requires a feature matrix")
	}
	n, features := x.Dims()
	if features != m.features {
		return nil, fmt.Errorf("matrix has %d features, model was fitted on %d", features, m.features)
	}

	probs := make([]float64, n)
	for i := range probs {
		row := mat.Row(nil, i, x)
		score := m.baseScore
		for _, t := range m.trees {
			score += m.Config.LearningRate * t.predict(row)
		}
		probs[i] = sigmoid(score)
	}
	return probs, nil
}

// Predict returns 0/1 labels using a 0.5 probability threshold.
func (m *Model) Predict(x *mat.Dense) ([]float64, error) {
	probs, err := m.PredictProb(x)
	if err != nil {
		return nil, err
	}
	labels := make([]float64, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

// Score returns the accuracy against known labels.
func (m *Model) Score(x *mat.Dense, y []float64) (float64, error) {
	labels, err := m.Predict(x)
	if err != nil {
		return 0, err
	}
	if len(labels) != len(y) {
		return 0, fmt.Errorf("predictions (%d) and labels (%d) must match", len(labels), len(y))
	}
	if len(y) == 0 {
		return 0, errors.New("score requires at least one row")
	}

	correct := 0
	for i := range labels {
		if labels[i] == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y)), nil
}

// FeatureImportances returns the per-feature share of total split gain.
// Returns nil before Fit; an all-leaf model yields all zeros.
func (m *Model) FeatureImportances() []float64 {
	if !m.fitted {
		return nil
	}
	total := 0.0
	for _, g := range m.importance {
		total += g
	}
	out := make([]float64, len(m.importance))
	if total == 0 {
		return out
	}
	for i, g := range m.importance {
		out[i] = g / total
	}
	return out
}

// Summary holds a summary of a fitted model.
type Summary struct {
	Rounds         int
	MaxDepth       int
	LearningRate   float64
	MinSamplesLeaf int
	Features       int
	BaseScore      float64
}

// Summary returns a summary of the fitted model.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}
	return &Summary{
		Rounds:         len(m.trees),
		MaxDepth:       m.Config.MaxDepth,
		LearningRate:   m.Config.LearningRate,
		MinSamplesLeaf: m.Config.MinSamplesLeaf,
		Features:       m.features,
		BaseScore:      m.baseScore,
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clampProb(p float64) float64 {
	return math.Max(probEps, math.Min(1-probEps, p))
}
