package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"salarypulse/pkg/contracts/domain"
)

// CSVOptions configures CSV export behavior.
type CSVOptions struct {
	// BOMPrefix writes a UTF-8 BOM before the data so Excel recognizes
	// the encoding.
	BOMPrefix bool
}

// WriteCSV streams the table's rows to w as CSV, canonical columns first,
// extra source columns after.
func WriteCSV(w io.Writer, table *domain.Table, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	headers := make([]string, 0, len(canonicalHeaders)+len(extraColumns(table)))
	headers = append(headers, canonicalHeaders...)
	headers = append(headers, extraColumns(table)...)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range tableRecords(table) {
		if err := writer.Write(csvRow(r, extraColumns(table))); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvRow(r domain.SalaryRecord, extras []string) []string {
	out := []string{
		strconv.Itoa(r.Year),
		r.Seniority,
		r.EmploymentType,
		r.JobTitle,
		formatFloat(r.SalaryLocal),
		r.Currency,
		formatFloat(r.SalaryUSD),
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

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
