package config

import "time"

// Application constants.
const (
	AppName    = "SalaryPulse"
	AppVersion = "1.2.0"

	// DefaultDatasetSource is the published data-jobs salary CSV.
	DefaultDatasetSource = "https://raw.githubusercontent.com/guilhermeonrails/data-jobs/refs/heads/main/salaries.csv"

	// DefaultFetchTimeout bounds a single dataset fetch.
	DefaultFetchTimeout = 60 * time.Second
)
