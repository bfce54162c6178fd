// Package normalize converts raw workbook cells into canonical values.
//
// Month cells arrive as native dates, spreadsheet day serials (1899-12-30
// epoch) or free text such as "2020-01-15", "Jan 20" or "2021년 3월". Every
// accepted form maps to the first day of its month in UTC. Numeric cells
// arrive as numbers or text; text is read according to a NumberFormat.
package normalize
