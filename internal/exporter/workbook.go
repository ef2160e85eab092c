package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salarypulse/internal/dataprocessing"
	"salarypulse/internal/insights"
	"salarypulse/pkg/contracts/domain"
)

const (
	salariesSheet = "Salaries"
	summarySheet  = "Summary"
)

// canonicalHeaders is the column order of the Salaries sheet and of CSV
// exports. Extra source columns follow in table order.
var canonicalHeaders = []string{
	"year",
	"seniority",
	"employment_type",
	"job_title",
	"salary_local",
	"currency",
	"salary_usd",
	"residence_country",
	"work_mode",
	"company_location",
	"company_size",
}

// BuildWorkbook assembles an Excel workbook for a filtered subset: the rows
// on the Salaries sheet, the metric panel and insights on the Summary sheet.
// The caller owns the returned file and must Close it.
func BuildWorkbook(table *domain.Table, snapshot dataprocessing.Snapshot, findings []insights.Insight) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), salariesSheet)

	headers := headerRow(table)
	if err := f.SetSheetRow(salariesSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, r := range tableRecords(table) {
		row := recordRow(r, table.ExtraColumns)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(salariesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := writeSummarySheet(f, snapshot, findings); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteWorkbook builds the workbook and streams it to w.
func WriteWorkbook(w io.Writer, table *domain.Table, snapshot dataprocessing.Snapshot, findings []insights.Insight) error {
	f, err := BuildWorkbook(table, snapshot, findings)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, snapshot dataprocessing.Snapshot, findings []insights.Insight) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	panel := []struct {
		label string
		value interface{}
	}{
		{"Records", snapshot.RecordCount},
		{"Mean salary (USD)", snapshot.MeanSalary},
		{"Median salary (USD)", snapshot.MedianSalary},
		{"Minimum salary (USD)", snapshot.MinSalary},
		{"Maximum salary (USD)", snapshot.MaxSalary},
		{"Standard deviation", snapshot.StdDev},
		{"25th percentile", snapshot.P25},
		{"75th percentile", snapshot.P75},
		{"Most frequent title", snapshot.TopTitle},
		{"Distinct titles", snapshot.DistinctTitles},
		{"Year-over-year change (%)", snapshot.YoYChangePct},
	}

	row := 1
	for _, entry := range panel {
		values := []interface{}{entry.label, entry.value}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("address summary row %d: %w", row, err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("write summary row %d: %w", row, err)
		}
		row++
	}

	row++ // blank separator line
	for _, finding := range findings {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("address insight row %d: %w", row, err)
		}
		values := []interface{}{finding.Message}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("write insight row %d: %w", row, err)
		}
		row++
	}
	return nil
}

func headerRow(table *domain.Table) []interface{} {
	out := make([]interface{}, 0, len(canonicalHeaders)+len(extraColumns(table)))
	for _, h := range canonicalHeaders {
		out = append(out, h)
	}
	for _, h := range extraColumns(table) {
		out = append(out, h)
	}
	return out
}

func recordRow(r domain.SalaryRecord, extras []string) []interface{} {
	out := []interface{}{
		r.Year,
		r.Seniority,
		r.EmploymentType,
		r.JobTitle,
		r.SalaryLocal,
		r.Currency,
		r.SalaryUSD,
		r.ResidenceCountry,
		r.WorkMode,
		r.CompanyLocation,
		r.CompanySize,
	}
	for _, col := range extras {
		out = append(out, r.Extra[col])
	}
	return out
}

func tableRecords(table *domain.Table) []domain.SalaryRecord {
	if table == nil {
		return nil
	}
	return table.Records
}

func extraColumns(table *domain.Table) []string {
	if table == nil {
		return nil
	}
	return table.ExtraColumns
}
