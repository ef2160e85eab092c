package dataprocessing

import (
	"salarypulse/pkg/contracts/domain"
)

// Filter returns the subset of table matching criteria, preserving source
// order. An empty result is a valid table, not an error. The scan is O(n);
// at the tens of thousands of rows this dataset reaches, index structures
// would cost more than they save.
func Filter(table *domain.Table, criteria domain.FilterCriteria) *domain.Table {
	out := &domain.Table{}
	if table == nil {
		return out
	}
	out.ExtraColumns = table.ExtraColumns

	for _, r := range table.Records {
		if criteria.Matches(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
