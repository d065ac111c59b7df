package model

import "time"

// CategoryStat is the count and amount total for one grouping key, usually a
// procurement method.
type CategoryStat struct {
	Key    string  `json:"key"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// YearStat is the count and amount total for one performance-start year.
type YearStat struct {
	Year   int     `json:"year"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// Summary carries the scalar metrics shown next to a filtered table. Mean is
// computed over records with a parseable amount; when none have one it is 0.
type Summary struct {
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
	MeanAmount  float64 `json:"mean_amount"`
}

// DatasetOverview describes the full dataset before any filtering: the
// summary scalars plus the observed ranges used to seed filter controls.
type DatasetOverview struct {
	Summary         Summary    `json:"summary"`
	EarliestSigning *time.Time `json:"earliest_signing"`
	LatestSigning   *time.Time `json:"latest_signing"`
	MinAmount       *float64   `json:"min_amount"`
	MaxAmount       *float64   `json:"max_amount"`
}

// FilterOptions lists the distinct values offered by the filter controls.
// Methods is scoped to the departments the caller already selected.
type FilterOptions struct {
	Departments     []string   `json:"departments"`
	Methods         []string   `json:"methods"`
	EarliestSigning *time.Time `json:"earliest_signing"`
	LatestSigning   *time.Time `json:"latest_signing"`
	MinAmount       *float64   `json:"min_amount"`
	MaxAmount       *float64   `json:"max_amount"`
}
