package model

import "time"

// ExportReport is the payload handed to the export generators: the filtered
// records plus the derived figures echoed on summary sheets.
type ExportReport struct {
	GeneratedAt time.Time
	Criteria    FilterCriteria
	Records     []ContractRecord
	Summary     Summary
	ByMethod    []CategoryStat
}
