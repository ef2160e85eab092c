package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salarypulse/pkg/contracts/domain"
)

func TestPercentileLinearInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.InDelta(t, 17.5, Percentile(sorted, 25), 1e-9)
	assert.InDelta(t, 25.0, Percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 32.5, Percentile(sorted, 75), 1e-9)
	assert.InDelta(t, 10.0, Percentile(sorted, 0), 1e-9)
	assert.InDelta(t, 40.0, Percentile(sorted, 100), 1e-9)
}

func TestPercentileSingleValue(t *testing.T) {
	assert.InDelta(t, 42.0, Percentile([]float64{42}, 25), 1e-9)
	assert.InDelta(t, 42.0, Percentile([]float64{42}, 75), 1e-9)
}

func TestComputeSnapshotEmptyTable(t *testing.T) {
	snap := ComputeSnapshot(&domain.Table{})

	assert.Equal(t, 0, snap.RecordCount)
	assert.Zero(t, snap.MeanSalary)
	assert.Zero(t, snap.MedianSalary)
	assert.Empty(t, snap.TopTitle)
}

func TestComputeSnapshotBasics(t *testing.T) {
	table := testTable(
		testRecord(2023, domain.SeniorityJunior, "Data Analyst", domain.WorkModeOnSite, "US", 10),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 20),
		testRecord(2023, domain.SenioritySenior, "Data Scientist", domain.WorkModeRemote, "US", 30),
		testRecord(2023, domain.SeniorityExecutive, "Data Scientist", domain.WorkModeRemote, "US", 40),
	)

	snap := ComputeSnapshot(table)

	assert.Equal(t, 4, snap.RecordCount)
	assert.InDelta(t, 25.0, snap.MeanSalary, 1e-9)
	assert.InDelta(t, 25.0, snap.MedianSalary, 1e-9)
	assert.InDelta(t, 10.0, snap.MinSalary, 1e-9)
	assert.InDelta(t, 40.0, snap.MaxSalary, 1e-9)
	assert.InDelta(t, 17.5, snap.P25, 1e-9)
	assert.InDelta(t, 32.5, snap.P75, 1e-9)
	assert.Equal(t, 2, snap.DistinctTitles)
}

func TestComputeSnapshotPopulationStdDev(t *testing.T) {
	table := testTable(
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 2),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 4),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 4),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 4),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 5),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 5),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 7),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 9),
	)

	snap := ComputeSnapshot(table)

	// Population variance of {2,4,4,4,5,5,7,9} is 4.
	assert.InDelta(t, 2.0, snap.StdDev, 1e-9)
	assert.True(t, !math.IsNaN(snap.StdDev))
}

func TestTopTitleTieBreaksOnFirstEncountered(t *testing.T) {
	table := testTable(
		testRecord(2023, domain.SeniorityMid, "Data Engineer", domain.WorkModeOnSite, "US", 1),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 1),
		testRecord(2023, domain.SeniorityMid, "Data Engineer", domain.WorkModeOnSite, "US", 1),
		testRecord(2023, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 1),
	)

	snap := ComputeSnapshot(table)
	assert.Equal(t, "Data Engineer", snap.TopTitle)
}

func TestYearOverYearChange(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.SalaryRecord
		want    float64
	}{
		{
			name: "fifty percent increase",
			records: []domain.SalaryRecord{
				testRecord(2020, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 100),
				testRecord(2021, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 150),
			},
			want: 50.0,
		},
		{
			name: "uses two largest distinct years",
			records: []domain.SalaryRecord{
				testRecord(2019, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 10),
				testRecord(2020, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 100),
				testRecord(2021, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 120),
			},
			want: 20.0,
		},
		{
			name: "single year yields zero",
			records: []domain.SalaryRecord{
				testRecord(2021, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 100),
				testRecord(2021, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 200),
			},
			want: 0,
		},
		{
			name: "zero prior mean yields zero",
			records: []domain.SalaryRecord{
				testRecord(2020, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 0),
				testRecord(2021, domain.SeniorityMid, "Data Analyst", domain.WorkModeOnSite, "US", 100),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := ComputeSnapshot(testTable(tt.records...))
			assert.InDelta(t, tt.want, snap.YoYChangePct, 1e-9)
		})
	}
}

func TestComputeSnapshotNilTable(t *testing.T) {
	snap := ComputeSnapshot(nil)
	require.Equal(t, 0, snap.RecordCount)
}
