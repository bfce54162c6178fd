package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetFixture is one worksheet: the first row is the header
type SheetFixture struct {
	Name string
	Rows [][]any
}

// BuildWorkbook renders sheets into xlsx bytes
func BuildWorkbook(t testing.TB, sheets ...SheetFixture) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("create sheet %s: %v", sheet.Name, err)
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				t.Fatalf("write row %d of %s: %v", r+1, sheet.Name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// WriteWorkbook writes sheets to dir/name and returns the path
func WriteWorkbook(t testing.TB, dir, name string, sheets ...SheetFixture) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, BuildWorkbook(t, sheets...), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// COQMonths returns first-of-month dates from Jan 2020 through Apr 2025
func COQMonths() []time.Time {
	var months []time.Time
	for m := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC); !m.After(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// COQRatio returns the fixture fractions of the i-th month
func COQRatio(i int) (p, a, f float64) {
	return 0.10 + 0.001*float64(i), 0.40, 0.30 - 0.001*float64(i)
}

// COQSheets returns the five-sheet dashboard workbook used across tests.
// Months on the ratio sheet are native dates; the efficiency sheet uses text months.
func COQSheets() []SheetFixture {
	months := COQMonths()

	ratios := [][]any{{"MONTH", "Prevention_Ratio", "Appraisal_Ratio", "Failure_Ratio"}}
	efficiency := [][]any{{"MONTH", "COQ_Efficiency"}}
	for i, m := range months {
		p, a, f := COQRatio(i)
		ratios = append(ratios, []any{m, p, a, f})
		efficiency = append(efficiency, []any{m.Format("Jan 06"), 1.5 + 0.02*float64(i)})
	}

	recent := [][]any{{"MONTH", "Prevention_Ratio", "Appraisal_Ratio", "Failure_Ratio"}}
	for i := len(months) - 3; i < len(months); i++ {
		p, a, f := COQRatio(i)
		recent = append(recent, []any{months[i], p, a, f})
	}

	return []SheetFixture{
		{Name: "Sheet1", Rows: ratios},
		{Name: "Sheet2", Rows: recent},
		{Name: "Sheet3", Rows: [][]any{
			{"Unnamed: 0", "3개월 평균", "3개월 추세"},
			{"P", 0.162, 5.2},
			{"A", 0.4, 0},
			{"F", 0.238, -3.1},
		}},
		{Name: "Sheet4", Rows: efficiency},
		{Name: "Sheet5", Rows: [][]any{
			{"year", "avg", "class"},
			{2020, 2.7, "안정"},
			{2021, 2.6, ""},
			{2022, 2.1, "중립"},
			{2023, 1.7, "개선"},
			{2024, 2.2, ""},
			{2025, 1.6, ""},
		}},
	}
}
