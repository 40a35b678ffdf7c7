// Package ingest parses bulk-upload spreadsheets into attorney and
// public-source records. Validation is deliberately relaxed: only a small set
// of columns is required, headers are case-insensitive, and optional fields
// may be blank.
package ingest

import (
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lexatlas/lexatlas/pkg/errors"
)

// RowError describes one rejected spreadsheet row. Row is the 1-based
// spreadsheet row number, counting the header as row 1.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// sheetRows reads the first sheet of an XLSX workbook.
func sheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIngestParseFailed, "failed to read workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeIngestParseFailed, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeIngestParseFailed, "failed to read sheet %q", sheets[0])
	}
	return rows, nil
}

// headerIndex maps normalized column names to their positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

// missingColumns returns the required column names absent from the header.
func missingColumns(idx map[string]int, required ...string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// cellAt returns the trimmed cell value for a column, or "" when the row is
// shorter than the header or the column is absent.
func cellAt(row []string, idx map[string]int, column string) string {
	i, ok := idx[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseInt accepts integer cells and numeric cells Excel renders with a
// decimal point ("12" and "12.0" both parse to 12).
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
