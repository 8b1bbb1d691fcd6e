package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Reader loads tables with an optional sheet selection and required column set.
// The zero value reads the first sheet and requires no columns.
type Reader struct {
	Sheet    string
	Required []string
}

// Load reads the spreadsheet at path with the first sheet and the given required columns.
func Load(path string, required ...string) (*Table, error) {
	return Reader{Required: required}.Load(path)
}

// Load reads a local spreadsheet file.
func (rd Reader) Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: ErrFileNotFound}
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	return rd.Read(path, f)
}

// Read parses a spreadsheet stream. The format is chosen from the extension of name.
func (rd Reader) Read(name string, r io.Reader) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		records, err = readWorkbook(r, rd.Sheet)
	case ".csv":
		records, err = readCSV(r)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}

	t, err := build(name, records)
	if err != nil {
		return nil, err
	}

	if err := t.Require(rd.Required...); err != nil {
		return nil, err
	}
	return t, nil
}

func readWorkbook(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmpty
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func build(name string, records [][]string) (*Table, error) {
	header := -1
	for i, rec := range records {
		if !blank(rec) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, &LoadError{Path: name, Err: ErrEmpty}
	}

	columns := make([]string, 0, len(records[header]))
	index := make([]int, 0, len(records[header]))
	seen := make(map[string]bool)

	for i, h := range records[header] {
		col := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true
		columns = append(columns, col)
		index = append(index, i)
	}

	rows := make([]Row, 0, len(records)-header-1)
	for _, rec := range records[header+1:] {
		if blank(rec) {
			continue
		}
		row := make(Row, len(columns))
		for j, col := range columns {
			row[col] = cell(rec, index[j])
		}
		rows = append(rows, row)
	}

	return &Table{
		Name:    strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
		Source:  name,
		Columns: columns,
		Rows:    rows,
	}, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
