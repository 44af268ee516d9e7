package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVFromReader(t *testing.T) {
	data := `x1,x2,label
1.0,2.0,0
2.5,1.5,1
3.0,4.0,1
`
	table, err := LoadCSVFromReader(strings.NewReader(data), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 2, table.Features())
	assert.Equal(t, []string{"x1", "x2"}, table.Names)
	assert.Equal(t, []float64{0, 1, 1}, table.Y)
	assert.Equal(t, 2.5, table.X.At(1, 0))
}

func TestLoadCSVLabelColumnByName(t *testing.T) {
	data := `outcome,size,weight
1,10,2.5
0,20,3.5
`
	opts := &CSVOptions{LabelColumn: "Outcome", Delimiter: ','}
	table, err := LoadCSVFromReader(strings.NewReader(data), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"size", "weight"}, table.Names)
	assert.Equal(t, []float64{1, 0}, table.Y)
	assert.Equal(t, 10.0, table.X.At(0, 0))
}

func TestLoadCSVSkipsNARows(t *testing.T) {
	data := `x1,x2,label
1.0,2.0,0
NA,3.0,1
2.0,,1
3.0,4.0,1
`
	table, err := LoadCSVFromReader(strings.NewReader(data), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []float64{0, 1}, table.Y)
}

func TestLoadCSVParseError(t *testing.T) {
	data := `x1,label
1.0,0
abc,1
`
	_, err := LoadCSVFromReader(strings.NewReader(data), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadCSVMissingLabelColumn(t *testing.T) {
	data := `x1,x2
1.0,2.0
`
	opts := &CSVOptions{LabelColumn: "target", Delimiter: ','}
	_, err := LoadCSVFromReader(strings.NewReader(data), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := LoadCSVFromReader(strings.NewReader(""), nil)
	assert.Error(t, err)

	_, err = LoadCSVFromReader(strings.NewReader("x1,label\n"), nil)
	assert.Error(t, err)
}

func TestLoadCSVFile(t *testing.T) {
	table, err := LoadCSV(filepath.Join("testdata", "points.csv"), nil)
	require.NoError(t, err)

	assert.Equal(t, 10, table.Len())
	assert.Equal(t, 2, table.Features())
	assert.Equal(t, []string{"x1", "x2"}, table.Names)

	_, err = LoadCSV(filepath.Join("testdata", "missing.csv"), nil)
	assert.Error(t, err)
}
