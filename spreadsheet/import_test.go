package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"attendance-server-go/models"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseRoster(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Roll", "Name"},
		{"01", "Ann"},
		{42, " Ben "},
		{},
		{"03"},
		{nil, "Nameless"},
		{"01", "Ann Again"},
		{"04", "Di", "extra column"},
	})

	res, err := ParseRoster(buf)
	require.NoError(t, err)
	assert.Equal(t, []models.Student{
		{Name: "Ann", Roll: "01"},
		{Name: "Ben", Roll: "42"},
		{Name: "Di", Roll: "04"},
	}, res.Students)
	assert.Equal(t, []RejectedRow{
		{Row: 5, Reason: "missing name"},
		{Row: 6, Reason: "missing roll"},
		{Row: 7, Reason: `duplicate roll "01" (first seen on row 2)`},
	}, res.Rejected)
}

func TestParseRosterHeaderOnly(t *testing.T) {
	res, err := ParseRoster(workbook(t, [][]interface{}{{"Roll", "Name"}}))
	require.NoError(t, err)
	assert.Empty(t, res.Students)
	assert.NotNil(t, res.Students)
	assert.Empty(t, res.Rejected)
}

func TestParseRosterInvalidFile(t *testing.T) {
	_, err := ParseRoster(strings.NewReader("roll,name\n1,Ann\n"))
	assert.ErrorIs(t, err, ErrInvalidWorkbook)
}

func TestParseRowsMissingBoth(t *testing.T) {
	res := parseRows([][]string{{"Roll", "Name"}, {"", " "}, {" ", "x"}})
	assert.Empty(t, res.Students)
	assert.Equal(t, []RejectedRow{{Row: 3, Reason: "missing roll"}}, res.Rejected)
}
