package domain

import "sort"

// Seniority levels in display form, ordered from junior to executive.
// SeniorityRank fixes the presentation order for per-level views.
const (
	SeniorityJunior    = "junior"
	SeniorityMid       = "mid"
	SenioritySenior    = "senior"
	SeniorityExecutive = "executive"
)

// SeniorityRank maps a seniority label to its display rank.
// Unknown labels sort after the known ones.
var SeniorityRank = map[string]int{
	SeniorityJunior:    0,
	SeniorityMid:       1,
	SenioritySenior:    2,
	SeniorityExecutive: 3,
}

// Employment type display labels.
const (
	EmploymentFullTime  = "full-time"
	EmploymentPartTime  = "part-time"
	EmploymentContract  = "contract"
	EmploymentFreelance = "freelance"
)

// Company size display labels.
const (
	CompanySizeSmall  = "small"
	CompanySizeMedium = "medium"
	CompanySizeLarge  = "large"
)

// Work mode display labels derived from the source's remote_ratio codes
// (0, 50, 100). Codes outside that set pass through as the raw numeric
// text rather than being coerced into a bucket.
const (
	WorkModeOnSite = "on-site"
	WorkModeHybrid = "hybrid"
	WorkModeRemote = "remote"
)

// SalaryRecord is one normalized row of the salary dataset. Every field is
// guaranteed non-empty after normalization; rows that fail that guarantee
// never reach a Table.
type SalaryRecord struct {
	Year             int     `json:"year"`
	Seniority        string  `json:"seniority"`
	EmploymentType   string  `json:"employment_type"`
	JobTitle         string  `json:"job_title"`
	SalaryLocal      float64 `json:"salary_local"`
	Currency         string  `json:"currency"`
	SalaryUSD        float64 `json:"salary_usd"`
	ResidenceCountry string  `json:"residence_country"`
	WorkMode         string  `json:"work_mode"`
	CompanyLocation  string  `json:"company_location"`
	CompanySize      string  `json:"company_size"`

	// Extra holds columns the source added beyond the canonical schema.
	// They are carried through for tabular display and export only.
	Extra map[string]string `json:"extra,omitempty"`
}

// Table is an immutable, ordered collection of normalized salary records.
// Order follows the source file; it carries no meaning beyond fixing
// deterministic tie-breaks.
type Table struct {
	Records []SalaryRecord `json:"records"`

	// ExtraColumns lists the non-canonical source columns present on the
	// records, in source order.
	ExtraColumns []string `json:"extra_columns,omitempty"`
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Empty reports whether the table holds no records.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Years returns the distinct years present, in ascending order.
func (t *Table) Years() []int {
	return distinctInts(t, func(r SalaryRecord) int { return r.Year })
}

// distinctInts collects sorted distinct int values from the table.
func distinctInts(t *Table, key func(SalaryRecord) int) []int {
	if t.Empty() {
		return nil
	}
	seen := make(map[int]struct{}, 8)
	var out []int
	for _, r := range t.Records {
		v := key(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// DistinctStrings returns the sorted distinct values of key over the table.
func (t *Table) DistinctStrings(key func(SalaryRecord) string) []string {
	if t.Empty() {
		return nil
	}
	seen := make(map[string]struct{}, 16)
	var out []string
	for _, r := range t.Records {
		v := key(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
