package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salarypulse/pkg/contracts/domain"
)

var sourceHeaders = []string{
	"work_year", "experience_level", "employment_type", "job_title",
	"salary", "salary_currency", "salary_in_usd", "employee_residence",
	"remote_ratio", "company_location", "company_size",
}

func sourceRow(overrides map[string]string) []string {
	row := map[string]string{
		"work_year":          "2023",
		"experience_level":   "SE",
		"employment_type":    "FT",
		"job_title":          "Data Scientist",
		"salary":             "120000",
		"salary_currency":    "USD",
		"salary_in_usd":      "120000",
		"employee_residence": "US",
		"remote_ratio":       "100",
		"company_location":   "US",
		"company_size":       "M",
	}
	for k, v := range overrides {
		row[k] = v
	}

	out := make([]string, len(sourceHeaders))
	for i, h := range sourceHeaders {
		out[i] = row[h]
	}
	return out
}

func TestNormalizeTranslatesCodes(t *testing.T) {
	raw := &RawTable{
		Headers: sourceHeaders,
		Rows: [][]string{
			sourceRow(nil),
			sourceRow(map[string]string{
				"experience_level": "EN",
				"employment_type":  "PT",
				"remote_ratio":     "0",
				"company_size":     "S",
			}),
		},
	}

	table := Normalize(raw)
	require.Equal(t, 2, table.Len())

	first := table.Records[0]
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, domain.SenioritySenior, first.Seniority)
	assert.Equal(t, domain.EmploymentFullTime, first.EmploymentType)
	assert.Equal(t, domain.WorkModeRemote, first.WorkMode)
	assert.Equal(t, domain.CompanySizeMedium, first.CompanySize)
	assert.Equal(t, 120000.0, first.SalaryUSD)

	second := table.Records[1]
	assert.Equal(t, domain.SeniorityJunior, second.Seniority)
	assert.Equal(t, domain.EmploymentPartTime, second.EmploymentType)
	assert.Equal(t, domain.WorkModeOnSite, second.WorkMode)
	assert.Equal(t, domain.CompanySizeSmall, second.CompanySize)
}

func TestNormalizeUnmappedValuesPassThrough(t *testing.T) {
	raw := &RawTable{
		Headers: sourceHeaders,
		Rows: [][]string{
			sourceRow(map[string]string{
				"experience_level": "XX",
				"remote_ratio":     "75",
			}),
		},
	}

	table := Normalize(raw)
	require.Equal(t, 1, table.Len())

	// Codes outside the dictionaries are displayed raw, not rejected.
	assert.Equal(t, "XX", table.Records[0].Seniority)
	assert.Equal(t, "75", table.Records[0].WorkMode)
}

func TestNormalizeCanonicalTitles(t *testing.T) {
	raw := &RawTable{
		Headers: sourceHeaders,
		Rows: [][]string{
			sourceRow(map[string]string{"job_title": "ML Engineer"}),
			sourceRow(map[string]string{"job_title": "Quantum Sommelier"}),
		},
	}

	table := Normalize(raw)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Machine Learning Engineer", table.Records[0].JobTitle)
	assert.Equal(t, "Quantum Sommelier", table.Records[1].JobTitle)
}

func TestNormalizeDropsIncompleteRows(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"empty salary", sourceRow(map[string]string{"salary_in_usd": ""})},
		{"empty title", sourceRow(map[string]string{"job_title": ""})},
		{"non-numeric year", sourceRow(map[string]string{"work_year": "soon"})},
		{"non-numeric salary", sourceRow(map[string]string{"salary_in_usd": "lots"})},
		{"short row", sourceRow(nil)[:5]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &RawTable{
				Headers: sourceHeaders,
				Rows:    [][]string{sourceRow(nil), tt.row},
			}

			table := Normalize(raw)
			assert.Equal(t, 1, table.Len(), "incomplete row must be dropped")
		})
	}
}

func TestNormalizeOutputHasNoEmptyFields(t *testing.T) {
	raw := &RawTable{
		Headers: sourceHeaders,
		Rows: [][]string{
			sourceRow(nil),
			sourceRow(map[string]string{"salary_currency": ""}),
			sourceRow(map[string]string{"employee_residence": ""}),
			sourceRow(map[string]string{"work_year": "2024.0"}),
		},
	}

	table := Normalize(raw)
	require.Equal(t, 2, table.Len())

	for _, r := range table.Records {
		assert.NotZero(t, r.Year)
		assert.NotEmpty(t, r.Seniority)
		assert.NotEmpty(t, r.EmploymentType)
		assert.NotEmpty(t, r.JobTitle)
		assert.NotEmpty(t, r.Currency)
		assert.NotZero(t, r.SalaryUSD)
		assert.NotEmpty(t, r.ResidenceCountry)
		assert.NotEmpty(t, r.WorkMode)
		assert.NotEmpty(t, r.CompanyLocation)
		assert.NotEmpty(t, r.CompanySize)
	}

	// Spreadsheet-style float years coerce to int.
	assert.Equal(t, 2024, table.Records[1].Year)
}

func TestNormalizeExtraColumns(t *testing.T) {
	headers := append(append([]string{}, sourceHeaders...), "source_survey")
	row := append(sourceRow(nil), "2023-wave")

	table := Normalize(&RawTable{Headers: headers, Rows: [][]string{row}})

	require.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"source_survey"}, table.ExtraColumns)
	assert.Equal(t, "2023-wave", table.Records[0].Extra["source_survey"])
}

func TestMissingColumns(t *testing.T) {
	raw := &RawTable{Headers: []string{"work_year", "job_title"}}

	missing := raw.MissingColumns()
	assert.Contains(t, missing, "salary_usd")
	assert.Contains(t, missing, "seniority")
	assert.NotContains(t, missing, "year")
	assert.NotContains(t, missing, "job_title")

	full := &RawTable{Headers: sourceHeaders}
	assert.Empty(t, full.MissingColumns())
}
