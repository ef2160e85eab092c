package dataset

import "salarypulse/pkg/contracts/domain"

// columnRenames maps raw source headers to canonical field names. Headers
// not present here pass through unchanged and end up as Extra columns.
var columnRenames = map[string]string{
	"work_year":          "year",
	"experience_level":   "seniority",
	"employment_type":    "employment_type",
	"job_title":          "job_title",
	"salary":             "salary_local",
	"salary_currency":    "currency",
	"salary_in_usd":      "salary_usd",
	"employee_residence": "residence_country",
	"remote_ratio":       "work_mode",
	"company_location":   "company_location",
	"company_size":       "company_size",
}

// Value dictionaries for the coded categorical columns. A code missing from
// its dictionary passes through as-is; the source may grow values faster
// than this table and displaying them raw beats rejecting the row.
var (
	seniorityLabels = map[string]string{
		"EN": domain.SeniorityJunior,
		"MI": domain.SeniorityMid,
		"SE": domain.SenioritySenior,
		"EX": domain.SeniorityExecutive,
	}

	employmentLabels = map[string]string{
		"FT": domain.EmploymentFullTime,
		"PT": domain.EmploymentPartTime,
		"CT": domain.EmploymentContract,
		"FL": domain.EmploymentFreelance,
	}

	companySizeLabels = map[string]string{
		"S": domain.CompanySizeSmall,
		"M": domain.CompanySizeMedium,
		"L": domain.CompanySizeLarge,
	}

	// workModeLabels buckets the remote_ratio percentage codes. Codes other
	// than 0/50/100 are kept as the raw numeric text.
	workModeLabels = map[string]string{
		"0":   domain.WorkModeOnSite,
		"50":  domain.WorkModeHybrid,
		"100": domain.WorkModeRemote,
	}
)

// canonicalTitles fixes the display form of the job titles that dominate the
// dataset, collapsing the abbreviated variants the source mixes in. Titles
// outside this set are kept verbatim.
var canonicalTitles = map[string]string{
	"Data Scientist":                        "Data Scientist",
	"Data Engineer":                         "Data Engineer",
	"Data Analyst":                          "Data Analyst",
	"Machine Learning Engineer":             "Machine Learning Engineer",
	"ML Engineer":                           "Machine Learning Engineer",
	"Research Scientist":                    "Research Scientist",
	"Data Science Manager":                  "Data Science Manager",
	"Data Architect":                        "Data Architect",
	"Analytics Engineer":                    "Analytics Engineer",
	"Business Intelligence Developer":       "Business Intelligence Developer",
	"BI Developer":                          "Business Intelligence Developer",
	"Data Science Consultant":               "Data Science Consultant",
	"Head of Data":                          "Head of Data",
	"Principal Data Scientist":              "Principal Data Scientist",
	"Applied Scientist":                     "Applied Scientist",
	"Research Team Lead":                    "Research Team Lead",
	"Analytics Engineering Manager":         "Analytics Engineering Manager",
	"Data Science Tech Lead":                "Data Science Tech Lead",
	"Applied AI ML Lead":                    "Applied AI ML Lead",
	"Head of Applied AI":                    "Head of Applied AI",
	"Head of Machine Learning":              "Head of Machine Learning",
	"Machine Learning Performance Engineer": "Machine Learning Performance Engineer",
	"Director of Product Management":        "Director of Product Management",
	"Engineering Manager":                   "Engineering Manager",
	"AWS Data Architect":                    "AWS Data Architect",
}

// translateValue looks v up in labels, returning v itself when unmapped.
func translateValue(labels map[string]string, v string) string {
	if mapped, ok := labels[v]; ok {
		return mapped
	}
	return v
}

// CanonicalTitle returns the display form for a known job title, or the
// title verbatim when it is not in the known set.
func CanonicalTitle(title string) string {
	return translateValue(canonicalTitles, title)
}
