package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Table holds a classification dataset: a feature matrix, one label per
// row, and the feature column names in matrix order. A table is treated
// as immutable once built; Split returns copies.
type Table struct {
	X     *mat.Dense
	Y     []float64
	Names []string
}

// New builds a table from row-major features and labels.
func New(x [][]float64, y []float64, names []string) (*Table, error) {
	if len(x) == 0 {
		return nil, errors.New("table requires at least one row")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("feature rows (%d) and labels (%d) must match", len(x), len(y))
	}

	cols := len(x[0])
	if cols == 0 {
		return nil, errors.New("table requires at least one feature column")
	}
	if names != nil && len(names) != cols {
		return nil, fmt.Errorf("column names (%d) and feature columns (%d) must match", len(names), cols)
	}

	flat := make([]float64, 0, len(x)*cols)
	for i, row := range x {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}

	labels := make([]float64, len(y))
	copy(labels, y)

	return &Table{
		X:     mat.NewDense(len(x), cols, flat),
		Y:     labels,
		Names: append([]string(nil), names...),
	}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	rows, _ := t.X.Dims()
	return rows
}

// Features returns the number of feature columns.
func (t *Table) Features() int {
	_, cols := t.X.Dims()
	return cols
}

// Rows returns the feature matrix as row slices, for libraries that
// want [][]float64 input.
func (t *Table) Rows() [][]float64 {
	rows := make([][]float64, t.Len())
	for i := range rows {
		rows[i] = mat.Row(nil, i, t.X)
	}
	return rows
}

// Split divides the table at floor(frac * rows): the first part trains,
// the remainder tests. Errors when either side would be empty.
func (t *Table) Split(frac float64) (train, test *Table, err error) {
	if frac <= 0 || frac >= 1 {
		return nil, nil, fmt.Errorf("split fraction must be in (0, 1), got %v", frac)
	}

	n := t.Len()
	k := int(math.Floor(frac * float64(n)))
	if k < 1 || k >= n {
		return nil, nil, fmt.Errorf("table of %d rows cannot be split at fraction %v", n, frac)
	}

	cols := t.Features()
	train = &Table{
		X:     mat.DenseCopyOf(t.X.Slice(0, k, 0, cols)),
		Y:     append([]float64(nil), t.Y[:k]...),
		Names: append([]string(nil), t.Names...),
	}
	test = &Table{
		X:     mat.DenseCopyOf(t.X.Slice(k, n, 0, cols)),
		Y:     append([]float64(nil), t.Y[k:]...),
		Names: append([]string(nil), t.Names...),
	}
	return train, test, nil
}

// Synthetic generates a deterministic two-class blob dataset: class 0
// centers at -2 and class 1 at +2 in every feature, with unit Gaussian
// noise. Classes alternate row by row, so the table is balanced and any
// prefix split keeps both classes. The same seed always produces the
// same table.
func Synthetic(rows, features int, seed int64) (*Table, error) {
	if rows < 2 {
		return nil, fmt.Errorf("synthetic table requires at least 2 rows, got %d", rows)
	}
	if features < 1 {
		return nil, fmt.Errorf("synthetic table requires at least 1 feature, got %d", features)
	}

	rng := rand.New(rand.NewSource(seed))
	flat := make([]float64, 0, rows*features)
	labels := make([]float64, rows)

	for i := 0; i < rows; i++ {
		class := float64(i % 2)
		center := -2.0
		if class == 1 {
			center = 2.0
		}
		for j := 0; j < features; j++ {
			flat = append(flat, center+rng.NormFloat64())
		}
		labels[i] = class
	}

	names := make([]string, features)
	for j := range names {
		names[j] = fmt.Sprintf("f%d", j)
	}

	return &Table{
		X:     mat.NewDense(rows, features, flat),
		Y:     labels,
		Names: names,
	}, nil
}
