// Package exporter writes the COQ overview as CSV files.
//
// CSVWriter handles the file mechanics (directory creation, UTF-8 BOM for
// Excel, headers). The record builders turn an overview into header/record
// pairs, and ExportOverview writes the four standard files into a directory:
//
//	ratios.csv      month, prevention, appraisal, failure (percent)
//	efficiency.csv  month, efficiency index
//	timeline.csv    year, status, average
//	summary.csv     category, recent average, delta vs reference
package exporter
