package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVOptions holds options for table loading.
type CSVOptions struct {
	LabelColumn string // Column name for labels (default: last column)
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for table loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Delimiter: ',',
	}
}

// LoadCSV loads a classification table from a CSV file. The first row
// must be a header; every other column becomes a feature.
func LoadCSV(filename string, opts *CSVOptions) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer file.Close()

	table, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return table, nil
}

// LoadCSVFromReader loads a classification table from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty dataset")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.Trim(h, "\""))
	}

	labelIdx := len(header) - 1
	if opts.LabelColumn != "" {
		labelIdx = -1
		for i, h := range header {
			if strings.EqualFold(h, opts.LabelColumn) {
				labelIdx = i
				break
			}
		}
		if labelIdx == -1 {
			return nil, fmt.Errorf("label column %q not found in header %v", opts.LabelColumn, header)
		}
	}

	names := make([]string, 0, len(header)-1)
	for i, h := range header {
		if i != labelIdx {
			names = append(names, h)
		}
	}
	if len(names) == 0 {
		return nil, errors.New("dataset requires at least one feature column")
	}

	var x [][]float64
	var y []float64

	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		row++

		if len(record) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", row, len(record), len(header))
		}

		features := make([]float64, 0, len(names))
		label := 0.0
		skip := false
		for i, cell := range record {
			cell = strings.TrimSpace(strings.Trim(cell, "\""))
			if cell == "" || cell == "NA" || cell == "NaN" || cell == "null" {
				skip = true
				break
			}
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: parse %q: %w", row, header[i], cell, err)
			}
			if i == labelIdx {
				label = val
			} else {
				features = append(features, val)
			}
		}
		if skip {
			continue
		}

		x = append(x, features)
		y = append(y, label)
	}

	if len(x) == 0 {
		return nil, errors.New("no valid rows found in dataset")
	}

	return New(x, y, names)
}
