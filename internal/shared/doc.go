// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides:
//
//   - a buffered slog handler for asserting on log output
//   - workbook fixtures built with excelize, including the standard
//     five-sheet dashboard workbook
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    data := testutil.BuildWorkbook(t, testutil.COQSheets()...)
//	    // feed data to a loader
//	}
package shared
