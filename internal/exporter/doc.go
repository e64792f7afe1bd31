// Package exporter renders the dashboard's chart-ready tables to files.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers and
// UTF-8 BOM for Excel compatibility, plus one export function per
// aggregation view (KPIs, yearly series, top products, heatmap, volume).
//
// WorkbookWriter: Renders the full set of views into a single Excel
// workbook, one sheet per view.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("exports")
//	err := writer.ExportKPIs("kpis.csv", ds.KPIs())
//
//	workbook := exporter.NewWorkbookWriter("exports")
//	err = workbook.Export("dashboard.xlsx", ds)
package exporter
