package workbook

import (
	"fmt"

	"coqboard/internal/config"
	apperrors "coqboard/internal/errors"
)

// Table is a sheet with its declared columns resolved to positions
type Table struct {
	Sheet  string
	fields map[string]int
	rows   []Record
}

// Record is one data row of a bound table
type Record struct {
	line   int
	cells  []any
	fields map[string]int
}

// Rows returns the data rows in sheet order
func (t *Table) Rows() []Record { return t.rows }

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether a field resolved to a column
func (t *Table) Has(field string) bool {
	_, ok := t.fields[field]
	return ok
}

// Value returns the cell for a field, nil when the field is unbound or the row is short
func (r Record) Value(field string) any {
	idx, ok := r.fields[field]
	if !ok || idx >= len(r.cells) {
		return nil
	}
	return r.cells[idx]
}

// Line returns the 1-based source row number
func (r Record) Line() int { return r.line }

// Bind resolves the mapping's columns against the sheet header. Every required
// field must be present; optional fields bind when the header has them.
func Bind(sheet *Sheet, mapping config.SheetMapping, required, optional []string) (*Table, error) {
	fields := make(map[string]int, len(required)+len(optional))

	for _, field := range required {
		col, ok := mapping.Column(field)
		if !ok {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("sheet %q: no column declared for %s", sheet.Name, field), nil)
		}
		idx := headerIndex(sheet.Header, col)
		if idx < 0 {
			missing := &apperrors.MissingColumnError{Sheet: sheet.Name, Field: field, Column: col}
			return nil, apperrors.NewSchemaError("workbook does not match declared schema", missing).
				WithContext("sheet", sheet.Name).
				WithContext("column", col)
		}
		fields[field] = idx
	}

	for _, field := range optional {
		col, ok := mapping.Column(field)
		if !ok {
			continue
		}
		if idx := headerIndex(sheet.Header, col); idx >= 0 {
			fields[field] = idx
		}
	}

	t := &Table{Sheet: sheet.Name, fields: fields, rows: make([]Record, len(sheet.Rows))}
	for i, row := range sheet.Rows {
		t.rows[i] = Record{line: sheet.Lines[i], cells: row, fields: fields}
	}
	return t, nil
}

// BindRole binds the sheet a schema declares for role. A missing optional
// sheet returns ok=false and no error.
func BindRole(wb *Workbook, schema config.SchemaConfig, role config.SheetRole) (*Table, bool, error) {
	mapping := schema.Mapping(role)
	sheet, found := wb.Sheet(mapping.Sheet)
	if !found {
		if mapping.Optional {
			return nil, false, nil
		}
		missing := &apperrors.MissingSheetError{Sheet: mapping.Sheet}
		return nil, false, apperrors.NewSchemaError("workbook does not match declared schema", missing).
			WithContext("sheet", mapping.Sheet)
	}

	t, err := Bind(sheet, mapping, config.RequiredFields[role], config.OptionalFields[role])
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func headerIndex(header []string, col string) int {
	for i, h := range header {
		if h == col {
			return i
		}
	}
	key := normalizeHeader(col)
	for i, h := range header {
		if normalizeHeader(h) == key {
			return i
		}
	}
	return -1
}
