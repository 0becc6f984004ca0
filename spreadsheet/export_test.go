package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"attendance-server-go/models"
)

func TestExportFilename(t *testing.T) {
	today := time.Date(2024, 5, 6, 23, 59, 0, 0, time.UTC)
	tests := []struct {
		name  string
		class string
		want  string
	}{
		{name: "plain", class: "Math", want: "Math_attendance_2024-05-06.xlsx"},
		{name: "spaces", class: "Grade 5  B", want: "Grade_5_B_attendance_2024-05-06.xlsx"},
		{name: "tab", class: "Grade\t5", want: "Grade_5_attendance_2024-05-06.xlsx"},
		{name: "no class", class: "", want: "Unknown_attendance_2024-05-06.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportFilename(tt.class, today))
		})
	}
}

func TestRows(t *testing.T) {
	roster := []models.Student{{Name: "Ann", Roll: "1"}, {Name: "Ben", Roll: "2"}, {Name: "Cy", Roll: "3"}}
	view := map[string]map[string]models.Status{
		"2024-01-10": {"1": models.Present, "9": models.Present},
	}
	rows := Rows("Math", []string{"2024-01-10", "2024-01-11"}, roster, view)

	require.Len(t, rows, 1+2*3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"Math", "2024-01-10", "1", "Ann", "Present"}, rows[1])
	assert.Equal(t, []string{"Math", "2024-01-10", "2", "Ben", "Absent"}, rows[2])
	assert.Equal(t, []string{"Math", "2024-01-11", "3", "Cy", "Absent"}, rows[6])

	empty := Rows("", nil, roster, nil)
	assert.Equal(t, [][]string{Header}, empty)
}

func TestExportWorkbook(t *testing.T) {
	roster := []models.Student{{Name: "Ann", Roll: "007"}}
	view := map[string]map[string]models.Status{"2024-01-10": {"007": models.Present}}

	f, err := Export("Math", []string{"2024-01-10"}, roster, view)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	back, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer back.Close()
	rows, err := back.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Class", "Date", "Roll", "Name", "Status"},
		{"Math", "2024-01-10", "007", "Ann", "Present"},
	}, rows)
}
