package workbook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"coqboard/internal/config"
	apperrors "coqboard/internal/errors"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
)

// Decode parses workbook bytes. The format is sniffed from magic bytes,
// then the name's extension, then the configured format.
func Decode(data []byte, name, format, csvSheet string) (*Workbook, error) {
	if len(data) == 0 {
		return nil, apperrors.NewParsingError("workbook is empty", nil)
	}

	switch detectFormat(data, name, format) {
	case config.FormatXLSX:
		return decodeXLSX(data, name)
	case config.FormatXLS:
		return decodeXLS(data, name)
	case config.FormatCSV:
		return decodeCSV(data, name, csvSheet)
	default:
		return nil, apperrors.NewParsingError("unrecognized workbook format", nil).
			WithContext("source", name)
	}
}

func detectFormat(data []byte, name, configured string) string {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return config.FormatXLSX
	case bytes.HasPrefix(data, oleMagic):
		return config.FormatXLS
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return config.FormatXLSX
	case ".xls":
		return config.FormatXLS
	case ".csv", ".txt":
		return config.FormatCSV
	}

	if configured != "" && configured != config.FormatAuto {
		return configured
	}
	return ""
}

func decodeXLSX(data []byte, name string) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewParsingError("invalid xlsx workbook", err)
	}
	defer f.Close()

	var sheets []*Sheet
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("reading sheet %q", sheetName), err)
		}
		sheets = append(sheets, buildSheet(sheetName, rows, cellValue))
	}
	return NewWorkbook(name, config.FormatXLSX, sheets), nil
}

func decodeXLS(data []byte, name string) (wb *Workbook, err error) {
	// the BIFF reader panics on some malformed records
	defer func() {
		if r := recover(); r != nil {
			wb = nil
			err = apperrors.NewParsingError("invalid xls workbook", fmt.Errorf("%v", r))
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, apperrors.NewParsingError("invalid xls workbook", err)
	}

	var sheets []*Sheet
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := range cells {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, buildSheet(ws.Name, rows, cellValue))
	}
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("xls workbook has no sheets", nil)
	}
	return NewWorkbook(name, config.FormatXLS, sheets), nil
}

func decodeCSV(data []byte, name, sheetName string) (*Workbook, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("invalid csv workbook", err)
		}
		// the reader skips blank lines; pad so row indexes stay line numbers
		line, _ := r.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("csv workbook has no rows", nil)
	}
	if sheetName == "" {
		sheetName = config.DefaultWorkbookSheet
	}
	return NewWorkbook(name, config.FormatCSV, []*Sheet{buildSheet(sheetName, rows, textValue)}), nil
}
