// Package workbook fetches the dashboard spreadsheet and exposes its sheets.
//
// A locator selects the source:
//
//	https://host/coq.xlsx     single GET, non-2xx is a fetch error
//	/data/coq.xlsx            local file (file:// URLs too)
//	gsheets://<spreadsheet>   Google Sheets API, unformatted values
//
// Bytes are decoded as xlsx (excelize), legacy xls (extrame/xls) or csv.
// Undecodable bytes are a parse error. Bind attaches a declared column
// mapping to a sheet and fails with a schema error naming the first
// declared column missing from the header.
package workbook
