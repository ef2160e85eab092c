package dataprocessing

import (
	"sort"

	"salarypulse/pkg/contracts/domain"
)

// DataScientistTitle is the job title whose geographic salary spread feeds
// the country map view.
const DataScientistTitle = "Data Scientist"

// HistogramBins fixes the bucket count of the salary distribution view.
const HistogramBins = 30

// TopTitleLimit caps the top-titles ranking.
const TopTitleLimit = 10

// TitleMean is one bar of the top-titles ranking.
type TitleMean struct {
	JobTitle   string  `json:"job_title"`
	MeanSalary float64 `json:"mean_salary"`
}

// TopTitles ranks job titles by mean salary_usd, keeps the TopTitleLimit
// largest, and presents them ascending by mean so the chart's longest bar
// lands on top. Nil on empty input.
func TopTitles(table *domain.Table) []TitleMean {
	if table.Empty() {
		return nil
	}

	means := groupMeans(table, func(r domain.SalaryRecord) string { return r.JobTitle })

	ranked := make([]TitleMean, 0, len(means))
	for title, m := range means {
		ranked = append(ranked, TitleMean{JobTitle: title, MeanSalary: m})
	}

	// Largest first to apply the limit, title as deterministic tie-break.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MeanSalary != ranked[j].MeanSalary {
			return ranked[i].MeanSalary > ranked[j].MeanSalary
		}
		return ranked[i].JobTitle < ranked[j].JobTitle
	})
	if len(ranked) > TopTitleLimit {
		ranked = ranked[:TopTitleLimit]
	}

	// Present ascending.
	for i, j := 0, len(ranked)-1; i < j; i, j = i+1, j-1 {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	}
	return ranked
}

// HistogramBin is one bucket of the salary distribution.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram buckets salary_usd into HistogramBins fixed-width bins spanning
// [min, max]. Nil on empty input; a single distinct value still yields the
// full bin count, with everything in the first bin.
func Histogram(table *domain.Table) []HistogramBin {
	if table.Empty() {
		return nil
	}

	min, max := table.Records[0].SalaryUSD, table.Records[0].SalaryUSD
	for _, r := range table.Records {
		if r.SalaryUSD < min {
			min = r.SalaryUSD
		}
		if r.SalaryUSD > max {
			max = r.SalaryUSD
		}
	}

	width := (max - min) / HistogramBins
	if width == 0 {
		width = 1
	}

	bins := make([]HistogramBin, HistogramBins)
	for i := range bins {
		bins[i].Lower = min + float64(i)*width
		bins[i].Upper = min + float64(i+1)*width
	}

	for _, r := range table.Records {
		i := int((r.SalaryUSD - min) / width)
		if i >= HistogramBins {
			i = HistogramBins - 1
		}
		bins[i].Count++
	}
	return bins
}

// WorkModeCount is one slice of the work-mode proportion view.
type WorkModeCount struct {
	WorkMode string `json:"work_mode"`
	Count    int    `json:"count"`
}

// WorkModeCounts counts records per work-mode bucket, largest first. Nil on
// empty input.
func WorkModeCounts(table *domain.Table) []WorkModeCount {
	if table.Empty() {
		return nil
	}

	counts := make(map[string]int, 4)
	for _, r := range table.Records {
		counts[r.WorkMode]++
	}

	out := make([]WorkModeCount, 0, len(counts))
	for mode, n := range counts {
		out = append(out, WorkModeCount{WorkMode: mode, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].WorkMode < out[j].WorkMode
	})
	return out
}

// CountryMean is one country's mean salary for the geographic view.
type CountryMean struct {
	Country    string  `json:"country"`
	MeanSalary float64 `json:"mean_salary"`
}

// CountryMeans computes the mean salary_usd per residence country for
// records with the Data Scientist title, sorted by country code. Nil when
// the subset holds no Data Scientist rows.
func CountryMeans(table *domain.Table) []CountryMean {
	if table.Empty() {
		return nil
	}

	subset := &domain.Table{}
	for _, r := range table.Records {
		if r.JobTitle == DataScientistTitle {
			subset.Records = append(subset.Records, r)
		}
	}
	if subset.Empty() {
		return nil
	}

	means := groupMeans(subset, func(r domain.SalaryRecord) string { return r.ResidenceCountry })

	out := make([]CountryMean, 0, len(means))
	for country, m := range means {
		out = append(out, CountryMean{Country: country, MeanSalary: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

// SeniorityStats is the five-number salary summary for one seniority level.
type SeniorityStats struct {
	Seniority string  `json:"seniority"`
	Min       float64 `json:"min"`
	P25       float64 `json:"p25"`
	Median    float64 `json:"median"`
	P75       float64 `json:"p75"`
	Max       float64 `json:"max"`
	Count     int     `json:"count"`
}

// SeniorityDistribution summarizes salary_usd per seniority level, ordered
// by career rank (junior before executive), never alphabetically. Levels
// outside the known rank order sort last, alphabetically among themselves.
// Nil on empty input.
func SeniorityDistribution(table *domain.Table) []SeniorityStats {
	if table.Empty() {
		return nil
	}

	grouped := make(map[string][]float64, 4)
	for _, r := range table.Records {
		grouped[r.Seniority] = append(grouped[r.Seniority], r.SalaryUSD)
	}

	out := make([]SeniorityStats, 0, len(grouped))
	for level, salaries := range grouped {
		sort.Float64s(salaries)
		out = append(out, SeniorityStats{
			Seniority: level,
			Min:       salaries[0],
			P25:       Percentile(salaries, 25),
			Median:    Percentile(salaries, 50),
			P75:       Percentile(salaries, 75),
			Max:       salaries[len(salaries)-1],
			Count:     len(salaries),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		ri, iKnown := domain.SeniorityRank[out[i].Seniority]
		rj, jKnown := domain.SeniorityRank[out[j].Seniority]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return out[i].Seniority < out[j].Seniority
		}
	})
	return out
}

// YearStats is one point of the temporal trend.
type YearStats struct {
	Year   int     `json:"year"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Count  int     `json:"count"`
}

// YearlyTrend computes per-year mean, median, and count of salary_usd in
// ascending year order. Nil unless at least two distinct years are present.
func YearlyTrend(table *domain.Table) []YearStats {
	years := table.Years()
	if len(years) < 2 {
		return nil
	}

	grouped := make(map[int][]float64, len(years))
	for _, r := range table.Records {
		grouped[r.Year] = append(grouped[r.Year], r.SalaryUSD)
	}

	out := make([]YearStats, 0, len(years))
	for _, year := range years {
		salaries := grouped[year]
		sort.Float64s(salaries)
		out = append(out, YearStats{
			Year:   year,
			Mean:   meanOf(salaries),
			Median: Percentile(salaries, 50),
			Count:  len(salaries),
		})
	}
	return out
}

// WorkModeMean is one bar of the pay-by-work-mode comparison.
type WorkModeMean struct {
	WorkMode   string  `json:"work_mode"`
	MeanSalary float64 `json:"mean_salary"`
}

// WorkModePay computes the mean salary_usd per work-mode bucket, descending
// by mean. Nil on empty input.
func WorkModePay(table *domain.Table) []WorkModeMean {
	if table.Empty() {
		return nil
	}

	means := groupMeans(table, func(r domain.SalaryRecord) string { return r.WorkMode })

	out := make([]WorkModeMean, 0, len(means))
	for mode, m := range means {
		out = append(out, WorkModeMean{WorkMode: mode, MeanSalary: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanSalary != out[j].MeanSalary {
			return out[i].MeanSalary > out[j].MeanSalary
		}
		return out[i].WorkMode < out[j].WorkMode
	})
	return out
}

// groupMeans computes the mean salary_usd per key over the table.
func groupMeans(table *domain.Table, key func(domain.SalaryRecord) string) map[string]float64 {
	sums := make(map[string]float64, 16)
	counts := make(map[string]int, 16)
	for _, r := range table.Records {
		k := key(r)
		sums[k] += r.SalaryUSD
		counts[k]++
	}

	means := make(map[string]float64, len(sums))
	for k, sum := range sums {
		means[k] = sum / float64(counts[k])
	}
	return means
}
