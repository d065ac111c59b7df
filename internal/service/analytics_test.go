package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-analytics/internal/export"
	"github.com/nurpe/contract-analytics/internal/model"
)

type stubSource struct {
	records []model.ContractRecord
	err     error
}

func (s *stubSource) Records() ([]model.ContractRecord, error) {
	return s.records, s.err
}

func newTestService(records []model.ContractRecord, now time.Time) *AnalyticsService {
	svc := NewAnalyticsService(
		&stubSource{records: records},
		export.NewCSVGenerator(),
		export.NewXLSXGenerator(),
		export.NewPDFGenerator(),
	)
	svc.now = func() time.Time { return now }
	return svc
}

func TestFilterRejectsInvertedRanges(t *testing.T) {
	svc := newTestService(sampleRecords(), time.Now())

	_, err := svc.Filter(FilterInput{Criteria: model.FilterCriteria{
		SigningFrom: date(2025, 1, 1),
		SigningTo:   date(2024, 1, 1),
	}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Filter(FilterInput{Criteria: model.FilterCriteria{
		AmountMin: amount(100),
		AmountMax: amount(10),
	}})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFilterEmptyResultIsValid(t *testing.T) {
	svc := newTestService(sampleRecords(), time.Now())

	result, err := svc.Filter(FilterInput{Criteria: model.FilterCriteria{Departments: []string{"nope"}}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Summary.Count)
	assert.NotNil(t, result.Records)
}

func TestAggregateUnknownGroupBy(t *testing.T) {
	svc := newTestService(sampleRecords(), time.Now())

	_, err := svc.Aggregate(AggregateInput{GroupBy: "by_vibes"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestOngoingSortedByPerformanceEnd(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	svc := newTestService(sampleRecords(), now)

	result, err := svc.Ongoing(OngoingInput{})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "alpha", result.Records[0].Name)
	assert.Equal(t, "gamma", result.Records[1].Name)
	require.Len(t, result.Yearly, 2)
	assert.Less(t, result.Yearly[0].Year, result.Yearly[1].Year)
}

func TestExportDeniedForViewers(t *testing.T) {
	svc := newTestService(sampleRecords(), time.Now())

	_, err := svc.ExportCSV(ExportInput{Principal: model.Principal{Role: "VIEWER"}})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestExportCSVFileNameCarriesDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	svc := newTestService(sampleRecords(), now)

	result, err := svc.ExportCSV(ExportInput{Principal: model.Principal{Role: "ANALYST"}})
	require.NoError(t, err)
	assert.Equal(t, "subcontract-records-20260830.csv", result.FileName)
	assert.True(t, strings.HasPrefix(result.ContentType, "text/csv"))
}

func TestExportCSVEmptyResultHeaderOnly(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	svc := newTestService(sampleRecords(), now)

	result, err := svc.ExportCSV(ExportInput{
		Criteria:  model.FilterCriteria{Departments: []string{"nope"}},
		Principal: model.Principal{Role: "ANALYST"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	assert.Len(t, lines, 1, "empty filtered set exports the header row only")
	assert.Contains(t, lines[0], "procurement_method")
}

func TestOptionsScopesMethodsToDepartments(t *testing.T) {
	svc := newTestService(sampleRecords(), time.Now())

	all, err := svc.Options(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, all.Departments)
	assert.Equal(t, []string{"X", "Y"}, all.Methods)

	scoped, err := svc.Options([]string{"B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, scoped.Methods, "method options follow the selected departments")
}

func TestOverviewObservedRanges(t *testing.T) {
	svc := newTestService(sampleRecords(), time.Now())

	overview, err := svc.Overview()
	require.NoError(t, err)
	assert.Equal(t, int64(3), overview.Summary.Count)
	require.NotNil(t, overview.EarliestSigning)
	require.NotNil(t, overview.MaxAmount)
	assert.Equal(t, *date(2023, 1, 10), *overview.EarliestSigning)
	assert.Equal(t, *date(2025, 3, 5), *overview.LatestSigning)
	assert.Equal(t, 50.0, *overview.MinAmount)
	assert.Equal(t, 200.0, *overview.MaxAmount)
}
