package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ErrUnreadable is returned when the uploaded file cannot be turned into a grid
var ErrUnreadable = errors.New("unreadable spreadsheet")

// ImportResult holds the result of an import operation
type ImportResult struct {
	Items       []models.VocabItem
	Layout      Layout
	SheetName   string
	RowsScanned int
	Skipped     int
}

// Empty reports whether nothing could be extracted
func (r *ImportResult) Empty() bool {
	return len(r.Items) == 0
}

// Import reads a spreadsheet (xlsx or csv, chosen by file name) and extracts its vocabulary
func Import(r io.Reader, filename string) (*ImportResult, error) {
	grid, sheet, err := readGrid(r, filename)
	if err != nil {
		return nil, err
	}

	items, layout := NewExtractor().Extract(grid)

	result := &ImportResult{
		Items:     items,
		Layout:    layout,
		SheetName: sheet,
	}
	if layout.Found() {
		result.RowsScanned = len(grid) - layout.HeaderRow - 1
		result.Skipped = result.RowsScanned - len(items)
	}
	return result, nil
}

// ReadGrid reads the first sheet of an Excel workbook, or a CSV file, into rows of cells
func ReadGrid(r io.Reader, filename string) ([][]string, error) {
	grid, _, err := readGrid(r, filename)
	return grid, err
}

func readGrid(r io.Reader, filename string) ([][]string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == ".csv" {
		grid, err := readCSV(r)
		return grid, "", err
	}

	return readExcel(r)
}

// readExcel opens a workbook from r and returns the rows of its first sheet
func readExcel(r io.Reader) ([][]string, string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to open Excel file: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return [][]string{}, "", nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to get rows: %v", ErrUnreadable, err)
	}
	return rows, sheets[0], nil
}

// readCSV reads every record; rows may have different lengths
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", ErrUnreadable, err)
	}
	// Excel writes a BOM in front of UTF-8 CSV exports
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var grid [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: error reading CSV: %v", ErrUnreadable, err)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

// GridFromValues converts decoded JSON cells (strings, numbers, booleans, nulls) into a string grid
func GridFromValues(rows [][]any) [][]string {
	grid := make([][]string, len(rows))
	for i, row := range rows {
		out := make([]string, len(row))
		for j, v := range row {
			out[j] = cellString(v)
		}
		grid[i] = out
	}
	return grid
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// TopicNameFromFile suggests a topic name from an upload's file name
func TopicNameFromFile(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}
