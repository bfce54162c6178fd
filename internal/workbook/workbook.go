package workbook

import (
	"fmt"
	"strconv"
	"strings"
)

// Sheet is one worksheet. The first non-empty row is the header.
type Sheet struct {
	Name   string
	Header []string
	// Rows holds data rows. Cells are float64, string or nil.
	Rows [][]any
	// Lines holds the 1-based source row of each data row
	Lines []int
}

// Workbook is an immutable set of named sheets
type Workbook struct {
	Source string
	Format string
	sheets []*Sheet
}

// NewWorkbook assembles a workbook from decoded sheets
func NewWorkbook(source, format string, sheets []*Sheet) *Workbook {
	return &Workbook{Source: source, Format: format, sheets: sheets}
}

// Sheet finds a sheet by exact name, then by trimmed case-insensitive name
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for _, s := range w.sheets {
		if s.Name == name {
			return s, true
		}
	}
	key := normalizeHeader(name)
	for _, s := range w.sheets {
		if normalizeHeader(s.Name) == key {
			return s, true
		}
	}
	return nil, false
}

// SheetNames returns sheet names in workbook order
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

// buildSheet converts raw string rows into a Sheet, mapping each cell with value
func buildSheet(name string, raw [][]string, value func(string) any) *Sheet {
	sheet := &Sheet{Name: name}
	headerSeen := false
	for i, row := range raw {
		if isBlankRow(row) {
			continue
		}
		if !headerSeen {
			sheet.Header = make([]string, len(row))
			for c, h := range row {
				sheet.Header[c] = strings.TrimSpace(h)
			}
			headerSeen = true
			continue
		}
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = value(v)
		}
		sheet.Rows = append(sheet.Rows, cells)
		sheet.Lines = append(sheet.Lines, i+1)
	}
	return sheet
}

// buildTypedSheet is buildSheet for sources that already carry typed values
func buildTypedSheet(name string, raw [][]any) *Sheet {
	sheet := &Sheet{Name: name}
	headerSeen := false
	for i, row := range raw {
		cells := make([]any, len(row))
		blank := true
		for c, v := range row {
			switch val := v.(type) {
			case string:
				cells[c] = cellValue(val)
			case bool:
				cells[c] = strconv.FormatBool(val)
			default:
				cells[c] = v
			}
			if cells[c] != nil {
				blank = false
			}
		}
		if blank {
			continue
		}
		if !headerSeen {
			sheet.Header = make([]string, len(cells))
			for c, v := range cells {
				sheet.Header[c] = headerText(v)
			}
			headerSeen = true
			continue
		}
		sheet.Rows = append(sheet.Rows, cells)
		sheet.Lines = append(sheet.Lines, i+1)
	}
	return sheet
}

// cellValue turns numeric text into float64, blank text into nil
func cellValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if looksNumeric(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// textValue keeps text as written, blank text as nil. Used for csv, where the
// configured number format decides how numeric text reads.
func textValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// looksNumeric rejects words ParseFloat would accept, such as "NaN" or "inf"
func looksNumeric(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func headerText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// normalizeHeader folds case and collapses whitespace
func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
