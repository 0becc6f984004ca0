package spreadsheet

import (
	"fmt"
	"regexp"
	"time"

	"github.com/xuri/excelize/v2"

	"attendance-server-go/models"
)

// SheetName is the single sheet written on export.
const SheetName = "Attendance"

// Header is the first row of every export.
var Header = []string{"Class", "Date", "Roll", "Name", "Status"}

var whitespaceRun = regexp.MustCompile(`\s+`)

func className(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}

// ExportFilename is {ClassName}_attendance_{YYYY-MM-DD}.xlsx with whitespace
// runs in the class name replaced by underscores.
func ExportFilename(name string, today time.Time) string {
	return fmt.Sprintf("%s_attendance_%s.xlsx",
		whitespaceRun.ReplaceAllString(className(name), "_"),
		today.Format("2006-01-02"))
}

// Rows builds the export table, header included: one row per date and
// roster student, in date then roster order. Unset marks export as Absent.
func Rows(name string, isos []string, roster []models.Student, view map[string]map[string]models.Status) [][]string {
	rows := make([][]string, 0, 1+len(isos)*len(roster))
	rows = append(rows, append([]string(nil), Header...))
	for _, iso := range isos {
		for _, s := range roster {
			st, ok := view[iso][s.Roll]
			if !ok {
				st = models.Absent
			}
			rows = append(rows, []string{className(name), iso, s.Roll, s.Name, string(st)})
		}
	}
	return rows
}

// Export writes Rows into a new single-sheet workbook. The caller owns the
// returned file and must Close it.
func Export(name string, isos []string, roster []models.Student, view map[string]map[string]models.Status) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range Rows(name, isos, roster, view) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return f, nil
}
