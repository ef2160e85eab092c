// Command report runs the full analysis pipeline once and prints a terminal
// report: metric panel, insights and the top-title ranking for the selected
// filters. With -excel it also writes the filtered subset as a workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"salarypulse/internal/config"
	"salarypulse/internal/dataprocessing"
	"salarypulse/internal/dataset"
	"salarypulse/internal/exporter"
	"salarypulse/internal/infrastructure"
	"salarypulse/internal/insights"
	"salarypulse/pkg/contracts/domain"
)

func main() {
	source := flag.String("source", config.DefaultDatasetSource, "dataset source (http(s) URL or local csv/xlsx path)")
	years := flag.String("year", "", "comma-separated years to include (default all)")
	seniorities := flag.String("seniority", "", "comma-separated seniority levels to include (default all)")
	employments := flag.String("employment", "", "comma-separated employment types to include (default all)")
	sizes := flag.String("size", "", "comma-separated company sizes to include (default all)")
	titles := flag.String("title", "", "comma-separated job titles to include (default all)")
	excelPath := flag.String("excel", "", "write the filtered subset as an Excel workbook to this path")
	timeout := flag.Duration("timeout", config.DefaultFetchTimeout, "fetch timeout")
	flag.Parse()

	if err := run(*source, *years, *seniorities, *employments, *sizes, *titles, *excelPath, *timeout); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func run(source, years, seniorities, employments, sizes, titles, excelPath string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(infrastructure.ContextWithTraceID(context.Background()), timeout)
	defer cancel()

	// Keep the terminal report clean: only warnings reach stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	loader := dataset.NewLoader(config.DatasetConfig{Source: source, FetchTimeout: timeout}, logger, nil)

	spinner, _ := pterm.DefaultSpinner.Start("Loading dataset from ", source)
	table, err := loader.Load(ctx, source)
	if err != nil {
		spinner.Fail("Dataset load failed")
		return err
	}
	spinner.Success(fmt.Sprintf("Loaded %d records", table.Len()))

	criteria, err := buildCriteria(table, years, seniorities, employments, sizes, titles)
	if err != nil {
		return err
	}

	filtered := dataprocessing.Filter(table, criteria)
	snapshot := dataprocessing.ComputeSnapshot(filtered)
	findings := insights.Generate(filtered, snapshot)

	printMetricPanel(snapshot)
	printInsights(findings)
	printTopTitles(dataprocessing.TopTitles(filtered))

	if excelPath != "" {
		if err := writeWorkbook(excelPath, filtered, snapshot, findings); err != nil {
			return err
		}
		pterm.Success.Printfln("Workbook written to %s", excelPath)
	}
	return nil
}

func buildCriteria(table *domain.Table, years, seniorities, employments, sizes, titles string) (domain.FilterCriteria, error) {
	criteria := domain.AllOf(table)

	if years != "" {
		parsed, err := splitInts(years)
		if err != nil {
			return criteria, fmt.Errorf("invalid -year value: %w", err)
		}
		criteria.Years = parsed
	}
	if seniorities != "" {
		criteria.Seniorities = splitList(seniorities)
	}
	if employments != "" {
		criteria.EmploymentTypes = splitList(employments)
	}
	if sizes != "" {
		criteria.CompanySizes = splitList(sizes)
	}
	if titles != "" {
		criteria.JobTitles = splitList(titles)
	}
	return criteria, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func splitInts(s string) ([]int, error) {
	out := make([]int, 0, 4)
	for _, p := range splitList(s) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not a year", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func printMetricPanel(s dataprocessing.Snapshot) {
	pterm.DefaultSection.Println("Salary metrics (USD)")

	rows := pterm.TableData{
		{"Metric", "Value"},
		{"Records", humanize.Comma(int64(s.RecordCount))},
		{"Mean", money(s.MeanSalary)},
		{"Median", money(s.MedianSalary)},
		{"Minimum", money(s.MinSalary)},
		{"Maximum", money(s.MaxSalary)},
		{"Std deviation", money(s.StdDev)},
		{"25th percentile", money(s.P25)},
		{"75th percentile", money(s.P75)},
		{"Most frequent title", s.TopTitle},
		{"Distinct titles", humanize.Comma(int64(s.DistinctTitles))},
		{"YoY change", fmt.Sprintf("%.1f%%", s.YoYChangePct)},
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func printInsights(findings []insights.Insight) {
	pterm.DefaultSection.Println("Insights")
	for _, f := range findings {
		pterm.Info.Println(f.Message)
	}
}

func printTopTitles(ranked []dataprocessing.TitleMean) {
	if len(ranked) == 0 {
		return
	}
	pterm.DefaultSection.Println("Top job titles by mean salary")

	rows := pterm.TableData{{"Job title", "Mean salary (USD)"}}
	// Highest paid first in the terminal listing.
	for i := len(ranked) - 1; i >= 0; i-- {
		rows = append(rows, []string{ranked[i].JobTitle, money(ranked[i].MeanSalary)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func writeWorkbook(path string, table *domain.Table, snapshot dataprocessing.Snapshot, findings []insights.Insight) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := exporter.WriteWorkbook(f, table, snapshot, findings); err != nil {
		return err
	}
	return f.Sync()
}

func money(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 0)
}
