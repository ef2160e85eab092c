package dataset

import (
	"strconv"
	"strings"

	"salarypulse/pkg/contracts/domain"
)

// RawTable is the untyped result of a fetch: a header row plus data rows,
// all cells still text.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// requiredColumns are the canonical fields every usable source must carry.
var requiredColumns = []string{
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

// MissingColumns returns the canonical columns absent from the raw header,
// after renaming. A non-empty result means the source cannot be normalized.
func (raw *RawTable) MissingColumns() []string {
	present := make(map[string]bool, len(raw.Headers))
	for _, h := range raw.Headers {
		present[renameHeader(h)] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func renameHeader(h string) string {
	h = strings.TrimSpace(h)
	if canonical, ok := columnRenames[h]; ok {
		return canonical
	}
	return h
}

// Normalize converts a raw table into the canonical domain schema:
// headers are renamed, coded categorical values are translated to display
// labels (unmapped codes pass through), known job titles get their canonical
// form, the year is coerced to an integer, and any row with an empty cell or
// an unparseable numeric field is dropped outright.
//
// The transformation is pure; the same raw table always yields the same
// result, in source row order.
func Normalize(raw *RawTable) *domain.Table {
	if raw == nil || len(raw.Headers) == 0 {
		return &domain.Table{}
	}

	index := make(map[string]int, len(raw.Headers))
	var extraColumns []string
	for i, h := range raw.Headers {
		canonical := renameHeader(h)
		index[canonical] = i
		if !isRequiredColumn(canonical) {
			extraColumns = append(extraColumns, canonical)
		}
	}

	table := &domain.Table{
		Records:      make([]domain.SalaryRecord, 0, len(raw.Rows)),
		ExtraColumns: extraColumns,
	}

	for _, row := range raw.Rows {
		record, ok := normalizeRow(row, index, extraColumns)
		if !ok {
			continue
		}
		table.Records = append(table.Records, record)
	}

	return table
}

// normalizeRow builds one record, reporting ok=false when the row must be
// dropped (empty cell, missing cell, or numeric coercion failure).
func normalizeRow(row []string, index map[string]int, extraColumns []string) (domain.SalaryRecord, bool) {
	cell := func(column string) (string, bool) {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}

	// Every cell must be populated, extras included. The source encodes
	// missing data as empty cells and partial rows are not retained.
	for column := range index {
		if _, ok := cell(column); !ok {
			return domain.SalaryRecord{}, false
		}
	}

	rawYear, _ := cell("year")
	year, ok := parseYear(rawYear)
	if !ok {
		return domain.SalaryRecord{}, false
	}

	rawLocal, _ := cell("salary_local")
	salaryLocal, err := strconv.ParseFloat(rawLocal, 64)
	if err != nil {
		return domain.SalaryRecord{}, false
	}

	rawUSD, _ := cell("salary_usd")
	salaryUSD, err := strconv.ParseFloat(rawUSD, 64)
	if err != nil {
		return domain.SalaryRecord{}, false
	}

	seniority, _ := cell("seniority")
	employment, _ := cell("employment_type")
	title, _ := cell("job_title")
	currency, _ := cell("currency")
	residence, _ := cell("residence_country")
	workMode, _ := cell("work_mode")
	companyLocation, _ := cell("company_location")
	companySize, _ := cell("company_size")

	record := domain.SalaryRecord{
		Year:             year,
		Seniority:        translateValue(seniorityLabels, seniority),
		EmploymentType:   translateValue(employmentLabels, employment),
		JobTitle:         CanonicalTitle(title),
		SalaryLocal:      salaryLocal,
		Currency:         currency,
		SalaryUSD:        salaryUSD,
		ResidenceCountry: residence,
		WorkMode:         translateValue(workModeLabels, workMode),
		CompanyLocation:  companyLocation,
		CompanySize:      translateValue(companySizeLabels, companySize),
	}

	if len(extraColumns) > 0 {
		record.Extra = make(map[string]string, len(extraColumns))
		for _, column := range extraColumns {
			v, _ := cell(column)
			record.Extra[column] = v
		}
	}

	return record, true
}

// parseYear coerces a year cell to an integer, tolerating the float form
// ("2023.0") some spreadsheet exports produce.
func parseYear(v string) (int, bool) {
	if year, err := strconv.Atoi(v); err == nil {
		return year, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func isRequiredColumn(column string) bool {
	for _, c := range requiredColumns {
		if c == column {
			return true
		}
	}
	return false
}
