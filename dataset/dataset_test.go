package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNew(t *testing.T) {
	table, err := New(
		[][]float64{{1, 2}, {3, 4}, {5, 6}},
		[]float64{0, 1, 0},
		[]string{"a", "b"},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 2, table.Features())
	assert.Equal(t, []string{"a", "b"}, table.Names)
	assert.Equal(t, 4.0, table.X.At(1, 1))
}

func TestNewInvalid(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err)

	_, err = New([][]float64{{1}}, []float64{0, 1}, nil)
	assert.Error(t, err)

	_, err = New([][]float64{{1, 2}, {3}}, []float64{0, 1}, nil)
	assert.Error(t, err)

	_, err = New([][]float64{{1, 2}}, []float64{0}, []string{"only"})
	assert.Error(t, err)
}

func TestRows(t *testing.T) {
	table, err := New(
		[][]float64{{1, 2}, {3, 4}},
		[]float64{0, 1},
		nil,
	)
	require.NoError(t, err)

	rows := table.Rows()
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, rows)

	// Returned rows are copies, not views into the matrix
	rows[0][0] = 99
	assert.Equal(t, 1.0, table.X.At(0, 0))
}

func TestSplit(t *testing.T) {
	table, err := Synthetic(36, 3, 7)
	require.NoError(t, err)

	train, test, err := table.Split(0.66)
	require.NoError(t, err)

	// floor(0.66 * 36) = 23
	assert.Equal(t, 23, train.Len())
	assert.Equal(t, 13, test.Len())
	assert.Equal(t, table.Features(), train.Features())
	assert.Equal(t, table.Names, test.Names)

	// Row 23 of the original is row 0 of the test set
	assert.Equal(t, mat.Row(nil, 23, table.X), mat.Row(nil, 0, test.X))
	assert.Equal(t, table.Y[23], test.Y[0])
}

func TestSplitInvalid(t *testing.T) {
	table, err := Synthetic(10, 2, 1)
	require.NoError(t, err)

	_, _, err = table.Split(0)
	assert.Error(t, err)

	_, _, err = table.Split(1)
	assert.Error(t, err)

	small, err := New([][]float64{{1}}, []float64{0}, nil)
	require.NoError(t, err)
	_, _, err = small.Split(0.5)
	assert.Error(t, err)
}

func TestSyntheticDeterministic(t *testing.T) {
	first, err := Synthetic(100, 4, 42)
	require.NoError(t, err)
	second, err := Synthetic(100, 4, 42)
	require.NoError(t, err)

	assert.True(t, mat.Equal(first.X, second.X))
	assert.Equal(t, first.Y, second.Y)

	different, err := Synthetic(100, 4, 43)
	require.NoError(t, err)
	assert.False(t, mat.Equal(first.X, different.X))
}

func TestSyntheticBalancedAndSeparated(t *testing.T) {
	table, err := Synthetic(200, 3, 1)
	require.NoError(t, err)

	ones := 0
	for _, label := range table.Y {
		require.Contains(t, []float64{0, 1}, label)
		if label == 1 {
			ones++
		}
	}
	assert.Equal(t, 100, ones)

	// Class means should sit near their configured centers
	sum0, sum1 := 0.0, 0.0
	for i, label := range table.Y {
		if label == 0 {
			sum0 += table.X.At(i, 0)
		} else {
			sum1 += table.X.At(i, 0)
		}
	}
	assert.Less(t, sum0/100, -1.0)
	assert.Greater(t, sum1/100, 1.0)
}

func TestSyntheticInvalid(t *testing.T) {
	_, err := Synthetic(1, 3, 0)
	assert.Error(t, err)

	_, err = Synthetic(10, 0, 0)
	assert.Error(t, err)
}
