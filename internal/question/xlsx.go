package question

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Required column headers in the question sheet. Matching is
// case-insensitive and ignores surrounding whitespace.
const (
	colQuestion = "question"
	colOptionA  = "option_a"
	colOptionB  = "option_b"
	colOptionC  = "option_c"
)

// LoadXLSX reads the question set from one worksheet of an .xlsx workbook.
// The first row must be a header row containing the question and option
// columns; every later row becomes one question. Any missing file, sheet,
// header or cell is a load error — the quiz cannot run without a complete
// question set, so the caller is expected to treat failure as fatal.
func LoadXLSX(path, sheet string) (*Store, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q must have a header row and at least one question row", sheet)
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{colQuestion, colOptionA, colOptionB, colOptionC} {
		if _, ok := headerMap[required]; !ok {
			return nil, fmt.Errorf("sheet %q is missing required column %q", sheet, required)
		}
	}

	questions := make([]Question, 0, len(rows)-1)
	for rowIndex, row := range rows[1:] {
		q := Question{
			Text:    cell(row, headerMap[colQuestion]),
			OptionA: cell(row, headerMap[colOptionA]),
			OptionB: cell(row, headerMap[colOptionB]),
			OptionC: cell(row, headerMap[colOptionC]),
		}
		if q.Text == "" || q.OptionA == "" || q.OptionB == "" || q.OptionC == "" {
			// rowIndex+2: 1-based, plus the header row
			return nil, fmt.Errorf("row %d is incomplete: question and all three options are required", rowIndex+2)
		}
		questions = append(questions, q)
	}

	return NewStore(questions), nil
}

// cell returns the trimmed cell value at idx, or "" when the row is
// shorter than idx (excelize drops trailing empty cells).
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
