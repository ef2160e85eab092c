package dataprocessing

import (
	"math"
	"sort"

	"salarypulse/pkg/contracts/domain"
)

// Snapshot is an immutable statistical summary of one filtered subset,
// computed over the salary_usd column. It is recomputed on every filter
// change and never cached.
type Snapshot struct {
	MeanSalary   float64 `json:"mean_salary"`
	MedianSalary float64 `json:"median_salary"`
	MinSalary    float64 `json:"min_salary"`
	MaxSalary    float64 `json:"max_salary"`
	StdDev       float64 `json:"std_dev"`
	P25          float64 `json:"p25"`
	P75          float64 `json:"p75"`
	RecordCount  int     `json:"record_count"`

	// TopTitle is the most frequent job title. Ties break to the title
	// first encountered in table order.
	TopTitle       string `json:"top_title"`
	DistinctTitles int    `json:"distinct_titles"`

	// YoYChangePct is the percentage change between the mean salaries of
	// the two largest distinct years present. Zero when fewer than two
	// years are present or the prior year's mean is zero.
	YoYChangePct float64 `json:"yoy_change_pct"`
}

// ComputeSnapshot summarizes a subset. An empty subset yields the zero
// Snapshot; this function never fails.
func ComputeSnapshot(table *domain.Table) Snapshot {
	if table.Empty() {
		return Snapshot{}
	}

	salaries := make([]float64, 0, table.Len())
	for _, r := range table.Records {
		salaries = append(salaries, r.SalaryUSD)
	}
	sorted := append([]float64(nil), salaries...)
	sort.Float64s(sorted)

	mean := meanOf(salaries)

	return Snapshot{
		MeanSalary:     mean,
		MedianSalary:   Percentile(sorted, 50),
		MinSalary:      sorted[0],
		MaxSalary:      sorted[len(sorted)-1],
		StdDev:         stdDevOf(salaries, mean),
		P25:            Percentile(sorted, 25),
		P75:            Percentile(sorted, 75),
		RecordCount:    table.Len(),
		TopTitle:       mostFrequentTitle(table),
		DistinctTitles: len(table.DistinctStrings(func(r domain.SalaryRecord) string { return r.JobTitle })),
		YoYChangePct:   yearOverYearChange(table),
	}
}

// Percentile computes the p-th percentile of sorted (ascending) values by
// linear interpolation between order statistics. For [10,20,30,40], P25 is
// 17.5 and P75 is 32.5.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDevOf computes the population standard deviation.
func stdDevOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// mostFrequentTitle returns the modal job title; ties break to the title
// encountered first in table order.
func mostFrequentTitle(table *domain.Table) string {
	counts := make(map[string]int, 32)
	firstSeen := make(map[string]int, 32)

	for i, r := range table.Records {
		if _, ok := firstSeen[r.JobTitle]; !ok {
			firstSeen[r.JobTitle] = i
		}
		counts[r.JobTitle]++
	}

	var top string
	bestCount := -1
	for title, count := range counts {
		switch {
		case count > bestCount:
			top, bestCount = title, count
		case count == bestCount && firstSeen[title] < firstSeen[top]:
			top = title
		}
	}
	return top
}

// yearOverYearChange compares the mean salaries of the two largest distinct
// years in the subset (not necessarily adjacent calendar years).
func yearOverYearChange(table *domain.Table) float64 {
	years := table.Years()
	if len(years) < 2 {
		return 0
	}

	latest := years[len(years)-1]
	prior := years[len(years)-2]

	latestMean := meanForYear(table, latest)
	priorMean := meanForYear(table, prior)
	if priorMean == 0 {
		return 0
	}

	return (latestMean - priorMean) / priorMean * 100
}

func meanForYear(table *domain.Table, year int) float64 {
	var sum float64
	var n int
	for _, r := range table.Records {
		if r.Year == year {
			sum += r.SalaryUSD
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
