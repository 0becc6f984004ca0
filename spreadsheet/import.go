package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"attendance-server-go/models"
)

// RejectedRow explains why a sheet row did not make it into the roster.
// Row is the 1-based row number as shown by spreadsheet programs.
type RejectedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult is the parsed roster plus every row that was turned away.
type ImportResult struct {
	Students []models.Student `json:"students"`
	Rejected []RejectedRow    `json:"rejected"`
}

// ErrInvalidWorkbook is returned when the upload cannot be read as a workbook.
var ErrInvalidWorkbook = errors.New("invalid workbook")

type rosterRow struct {
	Roll string `validate:"required"`
	Name string `validate:"required"`
}

var validate = validator.New()

// ParseRoster reads the first sheet of an xlsx workbook. Row 1 is a header
// and is ignored; later rows are read positionally as [roll, name]. Blank
// rows are skipped, rows missing a cell or repeating an earlier roll are
// rejected.
func ParseRoster(r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: failed to open excel file: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return ImportResult{}, fmt.Errorf("%w: excel file does not contain any sheets", ErrInvalidWorkbook)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: failed to get rows from sheet %s: %v", ErrInvalidWorkbook, sheetName, err)
	}
	return parseRows(rows), nil
}

func parseRows(rows [][]string) ImportResult {
	res := ImportResult{Students: []models.Student{}, Rejected: []RejectedRow{}}
	seen := make(map[string]int)

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		var rr rosterRow
		if len(row) > 0 {
			rr.Roll = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			rr.Name = strings.TrimSpace(row[1])
		}
		if rr.Roll == "" && rr.Name == "" {
			continue
		}

		if err := validate.Struct(rr); err != nil {
			res.Rejected = append(res.Rejected, RejectedRow{Row: i + 1, Reason: reason(err)})
			continue
		}
		if first, dup := seen[rr.Roll]; dup {
			res.Rejected = append(res.Rejected, RejectedRow{
				Row:    i + 1,
				Reason: fmt.Sprintf("duplicate roll %q (first seen on row %d)", rr.Roll, first),
			})
			continue
		}
		seen[rr.Roll] = i + 1
		res.Students = append(res.Students, models.Student{Name: rr.Name, Roll: rr.Roll})
	}
	return res
}

func reason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return "missing " + strings.Join(missing, " and ")
}
