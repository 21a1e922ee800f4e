package question_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/N0Z0My/xlsx-data-app/internal/question"
)

// writeWorkbook creates an .xlsx fixture with the given rows (header
// included) on a sheet named "sheet1" and returns its path.
func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "sheet1"
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	path := filepath.Join(t.TempDir(), "questions.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"question", "option_a", "option_b", "option_c"},
		{"What is the capital of Japan?", "Tokyo", "Osaka", "Kyoto"},
		{"Which currency is used in Japan?", "Yen", "Won", "Yuan"},
	})

	store, err := question.LoadXLSX(path, "sheet1")
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())

	q, ok := store.Get(0)
	require.True(t, ok)
	assert.Equal(t, "What is the capital of Japan?", q.Text)
	assert.Equal(t, [3]string{"Tokyo", "Osaka", "Kyoto"}, q.Options())

	q, ok = store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Yen", q.OptionA)
}

func TestLoadXLSX_HeaderIsCaseInsensitive(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{" Question ", "OPTION_A", "Option_B", "option_c"},
		{"Q1", "a", "b", "c"},
	})

	store, err := question.LoadXLSX(path, "sheet1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestLoadXLSX_MissingFile(t *testing.T) {
	_, err := question.LoadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), "sheet1")
	assert.Error(t, err)
}

func TestLoadXLSX_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"question", "option_a", "option_b", "option_c"},
		{"Q1", "a", "b", "c"},
	})

	_, err := question.LoadXLSX(path, "no_such_sheet")
	assert.Error(t, err)
}

func TestLoadXLSX_MissingColumn(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"question", "option_a", "option_b"},
		{"Q1", "a", "b"},
	})

	_, err := question.LoadXLSX(path, "sheet1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "option_c")
}

func TestLoadXLSX_IncompleteRow(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"question", "option_a", "option_b", "option_c"},
		{"Q1", "a", "b", "c"},
		{"Q2", "a", "", "c"},
	})

	_, err := question.LoadXLSX(path, "sheet1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadXLSX_NoDataRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"question", "option_a", "option_b", "option_c"},
	})

	_, err := question.LoadXLSX(path, "sheet1")
	assert.Error(t, err)
}

func TestStore_GetOutOfRange(t *testing.T) {
	store := question.NewStore([]question.Question{{Text: "Q1", OptionA: "a", OptionB: "b", OptionC: "c"}})

	_, ok := store.Get(-1)
	assert.False(t, ok)
	_, ok = store.Get(1)
	assert.False(t, ok)
}
