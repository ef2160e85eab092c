package insights

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"salarypulse/internal/dataprocessing"
	"salarypulse/pkg/contracts/domain"
)

// Kind identifies which rule produced an insight. Values are stable and safe
// to key UI treatment on.
type Kind string

const (
	KindNoData         Kind = "no_data"
	KindYoYGrowth      Kind = "yoy_growth"
	KindYoYDecline     Kind = "yoy_decline"
	KindHighDispersion Kind = "high_dispersion"
	KindRightSkew      Kind = "right_skew"
	KindRemotePremium  Kind = "remote_premium"
	KindOnSitePremium  Kind = "onsite_premium"
	KindSeniorityGap   Kind = "seniority_gap"
	KindFallback       Kind = "fallback"
)

// Insight is one finding about the current subset.
type Insight struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Dispersion above this coefficient of variation is called out.
const highDispersionCV = 50.0

// Remote and on-site means must differ by more than this percentage before
// the work-mode rule fires.
const workModeGapPct = 5.0

// Generate runs the rule battery over a filtered subset. An empty subset
// short-circuits to exactly one no-data insight; a non-empty subset where no
// rule fired yields exactly one fallback prompt.
func Generate(table *domain.Table, snapshot dataprocessing.Snapshot) []Insight {
	if table.Empty() {
		return []Insight{{
			Kind:    KindNoData,
			Message: "No data available for the selected filters.",
		}}
	}

	var out []Insight
	for _, rule := range rules {
		if insight, fired := rule(table, snapshot); fired {
			out = append(out, insight)
		}
	}

	if len(out) == 0 {
		out = append(out, Insight{
			Kind:    KindFallback,
			Message: "Explore the charts below for more detail on this selection.",
		})
	}
	return out
}

type rule func(*domain.Table, dataprocessing.Snapshot) (Insight, bool)

var rules = []rule{
	yearOverYearRule,
	dispersionRule,
	skewRule,
	workModeGapRule,
	seniorityGapRule,
}

func yearOverYearRule(_ *domain.Table, s dataprocessing.Snapshot) (Insight, bool) {
	switch {
	case s.YoYChangePct > 0:
		return Insight{
			Kind:    KindYoYGrowth,
			Message: fmt.Sprintf("Salaries grew %.1f%% over the previous year.", s.YoYChangePct),
		}, true
	case s.YoYChangePct < 0:
		return Insight{
			Kind:    KindYoYDecline,
			Message: fmt.Sprintf("Salaries fell %.1f%% over the previous year.", -s.YoYChangePct),
		}, true
	default:
		return Insight{}, false
	}
}

func dispersionRule(_ *domain.Table, s dataprocessing.Snapshot) (Insight, bool) {
	if s.MeanSalary <= 0 {
		return Insight{}, false
	}
	cv := s.StdDev / s.MeanSalary * 100
	if cv <= highDispersionCV {
		return Insight{}, false
	}
	return Insight{
		Kind: KindHighDispersion,
		Message: fmt.Sprintf(
			"Salaries are highly dispersed (CV %.1f%%), with large gaps between individual values.", cv),
	}, true
}

func skewRule(_ *domain.Table, s dataprocessing.Snapshot) (Insight, bool) {
	if s.MeanSalary <= s.MedianSalary {
		return Insight{}, false
	}
	if s.MeanSalary-s.MedianSalary <= 0.1*s.MeanSalary {
		return Insight{}, false
	}
	return Insight{
		Kind: KindRightSkew,
		Message: fmt.Sprintf(
			"The mean ($%s) sits well above the median ($%s): a few very high salaries pull the average up.",
			dollars(s.MeanSalary), dollars(s.MedianSalary)),
	}, true
}

func workModeGapRule(table *domain.Table, _ dataprocessing.Snapshot) (Insight, bool) {
	var remoteSum, onsiteSum float64
	var remoteN, onsiteN int
	for _, r := range table.Records {
		switch r.WorkMode {
		case domain.WorkModeRemote:
			remoteSum += r.SalaryUSD
			remoteN++
		case domain.WorkModeOnSite:
			onsiteSum += r.SalaryUSD
			onsiteN++
		}
	}
	if remoteN == 0 || onsiteN == 0 {
		return Insight{}, false
	}

	remote := remoteSum / float64(remoteN)
	onsite := onsiteSum / float64(onsiteN)
	if remote <= 0 || onsite <= 0 {
		return Insight{}, false
	}

	gap := (remote - onsite) / onsite * 100
	if math.Abs(gap) <= workModeGapPct {
		return Insight{}, false
	}
	if gap > 0 {
		return Insight{
			Kind: KindRemotePremium,
			Message: fmt.Sprintf(
				"Remote professionals earn on average %.1f%% more than on-site professionals.", gap),
		}, true
	}
	return Insight{
		Kind: KindOnSitePremium,
		Message: fmt.Sprintf(
			"On-site professionals earn on average %.1f%% more than remote professionals.", -gap),
	}, true
}

func seniorityGapRule(table *domain.Table, _ dataprocessing.Snapshot) (Insight, bool) {
	sums := make(map[string]float64, 4)
	counts := make(map[string]int, 4)
	for _, r := range table.Records {
		sums[r.Seniority] += r.SalaryUSD
		counts[r.Seniority]++
	}
	if len(sums) < 2 {
		return Insight{}, false
	}

	var highLevel, lowLevel string
	var highMean, lowMean float64
	for level := range sums {
		mean := sums[level] / float64(counts[level])
		if highLevel == "" || mean > highMean {
			highLevel, highMean = level, mean
		}
		if lowLevel == "" || mean < lowMean {
			lowLevel, lowMean = level, mean
		}
	}
	if lowMean <= 0 {
		return Insight{}, false
	}

	gap := (highMean - lowMean) / lowMean * 100
	return Insight{
		Kind: KindSeniorityGap,
		Message: fmt.Sprintf(
			"%s professionals earn on average %.1f%% more than %s professionals ($%s vs $%s).",
			capitalize(highLevel), gap, lowLevel, dollars(highMean), dollars(lowMean)),
	}, true
}

func dollars(v float64) string {
	return humanize.CommafWithDigits(v, 0)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
