// Package exporter turns a filtered salary subset into downloadable files.
//
// Two formats are supported:
//
// Workbook: an Excel file with a Salaries sheet holding the filtered rows
// and a Summary sheet holding the metric panel and generated insights.
//
// CSV: the filtered rows as plain CSV, optionally prefixed with a UTF-8 BOM
// so Excel recognizes the encoding.
package exporter
