package timeseries

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSVFromReader(t *testing.T) {
	// Test basic CSV loading
	csvData := `ds,y
2020-01-01,100
2020-01-02,101
2020-01-03,102
2020-01-04,103
2020-01-05,104`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if series.Len() != 5 {
		t.Errorf("Expected 5 observations, got %d", series.Len())
	}

	// Check values
	expected := []float64{100, 101, 102, 103, 104}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}

	t.Logf("Loaded %d values: %v", series.Len(), series.Values)
}

func TestLoadCSVWithFilter(t *testing.T) {
	// Test filtered CSV loading
	csvData := `unique_id,ds,y
A,2020-01-01,100
B,2020-01-01,200
A,2020-01-02,101
B,2020-01-02,201
A,2020-01-03,102`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()
	opts.IDColumn = "unique_id"
	opts.IDFilter = "A"

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if series.Len() != 3 {
		t.Errorf("Expected 3 observations for 'A', got %d", series.Len())
	}

	// Check values (should only have A's values)
	expected := []float64{100, 101, 102}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}

	t.Logf("Filtered series: %v", series.Values)
}

func TestLoadCSVWithNAValues(t *testing.T) {
	// Test handling of NA values
	csvData := `ds,y
2020-01-01,100
2020-01-02,NA
2020-01-03,102
2020-01-04,NaN
2020-01-05,104`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	// NA and NaN values should be skipped
	if series.Len() != 3 {
		t.Errorf("Expected 3 observations (NA values skipped), got %d", series.Len())
	}

	expected := []float64{100, 102, 104}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}

	t.Logf("Series with NA skipped: %v", series.Values)
}

func TestLoadCSVMultipleColumns(t *testing.T) {
	// Test loading specific column
	csvData := `ds,Beer,Cement,Gas
2020-01-01,100,200,50
2020-01-02,110,210,55
2020-01-03,120,220,60`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()
	opts.ValueColumn = "Cement"

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	expected := []float64{200, 210, 220}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}

	t.Logf("Cement column: %v", series.Values)
}

func TestLoadCSVQuotedFields(t *testing.T) {
	// Test handling of quoted fields
	csvData := `"unique_id","ds","y"
"Australia","2020-01-01","1000000"
"Australia","2020-01-02","1000100"
"Australia","2020-01-03","1000200"`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if series.Len() != 3 {
		t.Errorf("Expected 3 observations, got %d", series.Len())
	}

	t.Logf("Quoted fields loaded: %v", series.Values)
}

func TestLoadCSVDateFormats(t *testing.T) {
	// Test various date formats
	testCases := []struct {
		name    string
		csvData string
	}{
		{
			"ISO format",
			`ds,y
2020-01-01,100
2020-01-02,101`,
		},
		{
			"Year only",
			`ds,y
2020,100
2021,101`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := strings.NewReader(tc.csvData)
			opts := DefaultCSVOptions()

			series, err := LoadCSVFromReader(reader, opts)
			if err != nil {
				t.Fatalf("Failed to load CSV: %v", err)
			}

			if series.Len() != 2 {
				t.Errorf("Expected 2 observations, got %d", series.Len())
			}
		})
	}
}

func TestLoadCSVMonthIndexDates(t *testing.T) {
	// Multi-year monthly tables index time as "year-month" offsets
	csvData := `Month,Sales
1-01,266.0
1-02,145.9
1-03,183.1
2-01,194.3
3-12,646.9`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if series.Len() != 5 {
		t.Fatalf("Expected 5 observations, got %d", series.Len())
	}

	if series.Values[0] != 266.0 {
		t.Errorf("Expected first value 266.0, got %f", series.Values[0])
	}

	first := series.Timestamps[0]
	if first.Year() != 1901 || first.Month() != 1 {
		t.Errorf("Expected first timestamp 1901-01, got %v", first)
	}

	last := series.Timestamps[4]
	if last.Year() != 1903 || last.Month() != 12 {
		t.Errorf("Expected last timestamp 1903-12, got %v", last)
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV("testdata/does-not-exist.csv", nil)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	t.Logf("Missing file error: %v", err)
}

func TestLoadCSVEmptyData(t *testing.T) {
	reader := strings.NewReader("ds,y\n")
	_, err := LoadCSVFromReader(reader, DefaultCSVOptions())
	if err == nil {
		t.Fatal("Expected error for CSV with no data rows")
	}
}

func TestDefaultCSVOptions(t *testing.T) {
	opts := DefaultCSVOptions()

	if opts.ValueColumn != "y" {
		t.Errorf("Expected default value column 'y', got '%s'", opts.ValueColumn)
	}

	if opts.DateFormat != "2006-01-02" {
		t.Errorf("Expected default date format '2006-01-02', got '%s'", opts.DateFormat)
	}

	if opts.BaseYear != 1900 {
		t.Errorf("Expected default base year 1900, got %d", opts.BaseYear)
	}

	if !opts.HasHeader {
		t.Error("Expected HasHeader to be true by default")
	}

	if opts.Delimiter != ',' {
		t.Errorf("Expected default delimiter ',', got '%c'", opts.Delimiter)
	}
}

func writeTempCSV(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.csv")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write CSV fixture: %v", err)
	}
	return path
}

func TestLoadCSVColumn(t *testing.T) {
	path := writeTempCSV(t, `ds,Beer,Cement
2020-01-01,100,200
2020-01-02,110,210
2020-01-03,120,220`)

	series, err := LoadCSVColumn(path, "Beer")
	if err != nil {
		t.Fatalf("Failed to load column: %v", err)
	}

	expected := []float64{100, 110, 120}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}
}

func TestLoadCSVFiltered(t *testing.T) {
	path := writeTempCSV(t, `country,ds,population
Australia,2020-01-01,1000
Sweden,2020-01-01,2000
Australia,2020-01-02,1001
Sweden,2020-01-02,2002`)

	series, err := LoadCSVFiltered(path, "country", "Sweden", "population")
	if err != nil {
		t.Fatalf("Failed to load filtered series: %v", err)
	}

	if series.Len() != 2 {
		t.Fatalf("Expected 2 observations for Sweden, got %d", series.Len())
	}
	if series.Values[0] != 2000 || series.Values[1] != 2002 {
		t.Errorf("Unexpected filtered values: %v", series.Values)
	}
}
