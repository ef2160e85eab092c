package domain

// FilterCriteria is the conjunctive multi-field predicate applied to a
// Table. Years, Seniorities, EmploymentTypes and CompanySizes are inclusion
// lists: an empty list matches nothing, so callers wanting no restriction
// must pass the full observed domain (the UI defaults to exactly that).
// JobTitles is the exception: an empty list means no title restriction.
type FilterCriteria struct {
	Years           []int    `json:"years" validate:"required"`
	Seniorities     []string `json:"seniorities" validate:"required"`
	EmploymentTypes []string `json:"employment_types" validate:"required"`
	CompanySizes    []string `json:"company_sizes" validate:"required"`
	JobTitles       []string `json:"job_titles,omitempty"`
}

// Matches reports whether a record passes every inclusion test.
func (c FilterCriteria) Matches(r SalaryRecord) bool {
	if !containsInt(c.Years, r.Year) {
		return false
	}
	if !containsString(c.Seniorities, r.Seniority) {
		return false
	}
	if !containsString(c.EmploymentTypes, r.EmploymentType) {
		return false
	}
	if !containsString(c.CompanySizes, r.CompanySize) {
		return false
	}
	if len(c.JobTitles) > 0 && !containsString(c.JobTitles, r.JobTitle) {
		return false
	}
	return true
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// FilterOptions describes the observed domain of each filterable field,
// used by the UI shell to default every filter to "everything".
type FilterOptions struct {
	Years           []int    `json:"years"`
	Seniorities     []string `json:"seniorities"`
	EmploymentTypes []string `json:"employment_types"`
	CompanySizes    []string `json:"company_sizes"`
	JobTitles       []string `json:"job_titles"`
}

// AllOf builds criteria spanning the full observed domain of a table,
// i.e. a filter that keeps every record.
func AllOf(t *Table) FilterCriteria {
	return FilterCriteria{
		Years:           t.Years(),
		Seniorities:     t.DistinctStrings(func(r SalaryRecord) string { return r.Seniority }),
		EmploymentTypes: t.DistinctStrings(func(r SalaryRecord) string { return r.EmploymentType }),
		CompanySizes:    t.DistinctStrings(func(r SalaryRecord) string { return r.CompanySize }),
	}
}
