package excel

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImport_Excel(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Unit 4"},
		{"No", "Word", "Definition", "Synonyms"},
		{1, "1. Happy (adj.)", "feeling pleasure", "joyful, glad"},
		{2, "Sad", "unhappy", ""},
		{3, "Brave", "", "bold; daring"},
	})

	result, err := Import(buf, "unit4.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", result.SheetName)
	assert.Equal(t, 1, result.Layout.HeaderRow)
	assert.Equal(t, 3, result.RowsScanned)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Happy", result.Items[0].Word)
	assert.Equal(t, []string{"bold", "daring"}, result.Items[1].Synonyms)
}

func TestImport_CSV(t *testing.T) {
	data := "\xef\xbb\xbfWord,Synonyms\n\"1. Happy (adj.)\",\"joyful, glad\"\nCalm,serene\n"

	result, err := Import(strings.NewReader(data), "Emotions.CSV")
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, []string{"joyful", "glad"}, result.Items[0].Synonyms)
	assert.Equal(t, "Calm", result.Items[1].Word)
}

func TestImport_NoHeaderIsEmptyNotError(t *testing.T) {
	result, err := Import(strings.NewReader("a,b\nc,d\n"), "list.csv")
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.False(t, result.Layout.Found())
}

func TestImport_Unreadable(t *testing.T) {
	_, err := Import(strings.NewReader("definitely not a zip archive"), "broken.xlsx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadable))
}

func TestGridFromValues(t *testing.T) {
	grid := GridFromValues([][]any{
		{float64(1), "Word", nil, true},
		{2.5, int64(7)},
	})

	assert.Equal(t, [][]string{
		{"1", "Word", "", "true"},
		{"2.5", "7"},
	}, grid)
}

func TestTopicNameFromFile(t *testing.T) {
	assert.Equal(t, "IELTS Week 3", TopicNameFromFile("/tmp/IELTS Week 3.xlsx"))
	assert.Equal(t, "list", TopicNameFromFile("list.csv"))
}
