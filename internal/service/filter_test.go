package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-analytics/internal/model"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func amount(v float64) *float64 {
	return &v
}

func sampleRecords() []model.ContractRecord {
	return []model.ContractRecord{
		{Name: "alpha", SigningDate: date(2023, 1, 10), PerformanceStart: date(2023, 2, 1), PerformanceEnd: date(2027, 2, 1), Amount: amount(100), Department: "A", ProcurementMethod: "X"},
		{Name: "beta", SigningDate: date(2024, 6, 20), PerformanceStart: date(2024, 7, 1), PerformanceEnd: date(2025, 1, 1), Amount: amount(200), Department: "A", ProcurementMethod: "Y"},
		{Name: "gamma", SigningDate: date(2025, 3, 5), PerformanceStart: date(2025, 4, 1), PerformanceEnd: date(2028, 4, 1), Amount: amount(50), Department: "B", ProcurementMethod: "X"},
	}
}

func TestFilterRecordsFullRangeReturnsEverything(t *testing.T) {
	records := sampleRecords()
	criteria := model.FilterCriteria{
		SigningFrom: date(2023, 1, 10),
		SigningTo:   date(2025, 3, 5),
		AmountMin:   amount(50),
		AmountMax:   amount(200),
		Departments: []string{"A", "B"},
		Methods:     []string{"X", "Y"},
	}

	filtered := FilterRecords(records, criteria)
	assert.ElementsMatch(t, records, filtered, "full observed ranges plus full universe sets must keep every record")
}

func TestFilterRecordsConjunction(t *testing.T) {
	records := sampleRecords()
	criteria := model.FilterCriteria{
		SigningFrom: date(2023, 1, 1),
		SigningTo:   date(2024, 12, 31),
		AmountMin:   amount(150),
		Departments: []string{"A"},
	}

	filtered := FilterRecords(records, criteria)
	require.Len(t, filtered, 1)
	assert.Equal(t, "beta", filtered[0].Name, "only the record passing all four predicates survives")
}

func TestFilterRecordsSpecExample(t *testing.T) {
	records := []model.ContractRecord{
		{Amount: amount(100), Department: "A", ProcurementMethod: "X"},
		{Amount: amount(200), Department: "A", ProcurementMethod: "Y"},
		{Amount: amount(50), Department: "B", ProcurementMethod: "X"},
	}

	filtered := FilterRecords(records, model.FilterCriteria{Departments: []string{"A"}})
	require.Len(t, filtered, 2)
	assert.Equal(t, 300.0, Summarize(filtered).TotalAmount)
}

func TestFilterRecordsEmptyResultIsNotNil(t *testing.T) {
	filtered := FilterRecords(sampleRecords(), model.FilterCriteria{Departments: []string{"Z"}})
	require.NotNil(t, filtered, "empty result must stay distinguishable from no filter")
	assert.Len(t, filtered, 0)
}

func TestFilterRecordsDoesNotMutateSource(t *testing.T) {
	records := sampleRecords()
	FilterRecords(records, model.FilterCriteria{Departments: []string{"A"}})
	assert.Equal(t, sampleRecords(), records)
}

func TestSelectOngoingIgnoresDateAndAmountRanges(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	ongoing := SelectOngoing(sampleRecords(), nil, nil, now)
	require.Len(t, ongoing, 2)
	for _, record := range ongoing {
		assert.True(t, record.PerformanceEnd.After(now))
	}
}

func TestSelectOngoingAppliesSets(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	ongoing := SelectOngoing(sampleRecords(), []string{"B"}, []string{"X"}, now)
	require.Len(t, ongoing, 1)
	assert.Equal(t, "gamma", ongoing[0].Name)

	// A record already past its performance end never shows up, whatever the
	// other filters say.
	none := SelectOngoing(sampleRecords(), []string{"A"}, []string{"Y"}, now)
	assert.Len(t, none, 0)
}
