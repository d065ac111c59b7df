package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/nurpe/contract-analytics/internal/model"
)

// RecordSource serves the cached contract dataset.
type RecordSource interface {
	Records() ([]model.ContractRecord, error)
}

// Export generators, one per output format.
type CSVExporter interface {
	Generate(report model.ExportReport) ([]byte, error)
}

type XLSXExporter interface {
	Generate(report model.ExportReport) ([]byte, error)
}

type PDFExporter interface {
	Generate(report model.ExportReport) ([]byte, error)
}

type AnalyticsService struct {
	source RecordSource
	csv    CSVExporter
	xlsx   XLSXExporter
	pdf    PDFExporter
	now    func() time.Time
}

func NewAnalyticsService(source RecordSource, csv CSVExporter, xlsx XLSXExporter, pdf PDFExporter) *AnalyticsService {
	return &AnalyticsService{
		source: source,
		csv:    csv,
		xlsx:   xlsx,
		pdf:    pdf,
		now:    time.Now,
	}
}

type FilterInput struct {
	Criteria model.FilterCriteria
}

type FilterResult struct {
	Records []model.ContractRecord
	Summary model.Summary
}

type GroupBy string

const (
	GroupMethodCount  GroupBy = "method_count"
	GroupMethodAmount GroupBy = "method_amount"
)

type AggregateInput struct {
	Criteria model.FilterCriteria
	GroupBy  GroupBy
}

type OngoingInput struct {
	Departments []string
	Methods     []string
}

type OngoingResult struct {
	Records []model.ContractRecord
	Yearly  []model.YearStat
	Summary model.Summary
}

type ExportInput struct {
	Criteria  model.FilterCriteria
	Principal model.Principal
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Overview describes the full dataset: summary scalars plus the observed
// signing-date and amount ranges used to seed the filter controls.
func (s *AnalyticsService) Overview() (*model.DatasetOverview, error) {
	records, err := s.source.Records()
	if err != nil {
		return nil, err
	}

	overview := &model.DatasetOverview{Summary: Summarize(records)}
	for i := range records {
		record := records[i]
		if record.SigningDate != nil {
			if overview.EarliestSigning == nil || record.SigningDate.Before(*overview.EarliestSigning) {
				overview.EarliestSigning = record.SigningDate
			}
			if overview.LatestSigning == nil || record.SigningDate.After(*overview.LatestSigning) {
				overview.LatestSigning = record.SigningDate
			}
		}
		if record.Amount != nil {
			if overview.MinAmount == nil || *record.Amount < *overview.MinAmount {
				overview.MinAmount = record.Amount
			}
			if overview.MaxAmount == nil || *record.Amount > *overview.MaxAmount {
				overview.MaxAmount = record.Amount
			}
		}
	}
	return overview, nil
}

// Options lists the distinct filter values. When departments are given, the
// procurement methods are restricted to those observed within them, the way
// the original dashboard narrows its category list.
func (s *AnalyticsService) Options(departments []string) (*model.FilterOptions, error) {
	records, err := s.source.Records()
	if err != nil {
		return nil, err
	}
	overview, err := s.Overview()
	if err != nil {
		return nil, err
	}

	scope := model.FilterCriteria{Departments: departments}
	departmentSet := map[string]struct{}{}
	methodSet := map[string]struct{}{}
	for _, record := range records {
		departmentSet[record.Department] = struct{}{}
		if scope.Matches(record) && record.ProcurementMethod != "" {
			methodSet[record.ProcurementMethod] = struct{}{}
		}
	}

	return &model.FilterOptions{
		Departments:     sortedKeys(departmentSet),
		Methods:         sortedKeys(methodSet),
		EarliestSigning: overview.EarliestSigning,
		LatestSigning:   overview.LatestSigning,
		MinAmount:       overview.MinAmount,
		MaxAmount:       overview.MaxAmount,
	}, nil
}

// Filter runs the conjunctive filter and summarizes the result. A filter
// matching nothing is a valid zero-record result, not an error.
func (s *AnalyticsService) Filter(input FilterInput) (*FilterResult, error) {
	criteria, err := normalizeCriteria(input.Criteria)
	if err != nil {
		return nil, err
	}
	records, err := s.source.Records()
	if err != nil {
		return nil, err
	}

	filtered := FilterRecords(records, criteria)
	return &FilterResult{
		Records: filtered,
		Summary: Summarize(filtered),
	}, nil
}

// Aggregate filters and then groups by procurement method, ordered for the
// requested view.
func (s *AnalyticsService) Aggregate(input AggregateInput) ([]model.CategoryStat, error) {
	criteria, err := normalizeCriteria(input.Criteria)
	if err != nil {
		return nil, err
	}
	records, err := s.source.Records()
	if err != nil {
		return nil, err
	}

	filtered := FilterRecords(records, criteria)
	switch input.GroupBy {
	case GroupMethodCount:
		return CountByMethod(filtered), nil
	case GroupMethodAmount:
		return AmountByMethod(filtered), nil
	default:
		return nil, fmt.Errorf("%w: unknown group_by %q", ErrInvalidInput, input.GroupBy)
	}
}

// Ongoing selects the records still being performed at the current instant.
// Only the department and method sets apply here; the signing-date and
// amount ranges do not.
func (s *AnalyticsService) Ongoing(input OngoingInput) (*OngoingResult, error) {
	records, err := s.source.Records()
	if err != nil {
		return nil, err
	}

	ongoing := SelectOngoing(records, input.Departments, input.Methods, s.now())
	sort.SliceStable(ongoing, func(i, j int) bool {
		return ongoing[i].PerformanceEnd.Before(*ongoing[j].PerformanceEnd)
	})

	return &OngoingResult{
		Records: ongoing,
		Yearly:  OngoingByYear(ongoing),
		Summary: Summarize(ongoing),
	}, nil
}

func (s *AnalyticsService) ExportCSV(input ExportInput) (*ExportResult, error) {
	report, err := s.buildReport(input)
	if err != nil {
		return nil, err
	}
	content, err := s.csv.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName:    s.buildFileName(*report, "csv"),
		ContentType: "text/csv; charset=utf-8",
		Content:     content,
	}, nil
}

func (s *AnalyticsService) ExportXLSX(input ExportInput) (*ExportResult, error) {
	report, err := s.buildReport(input)
	if err != nil {
		return nil, err
	}
	content, err := s.xlsx.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName:    s.buildFileName(*report, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}, nil
}

func (s *AnalyticsService) ExportPDF(input ExportInput) (*ExportResult, error) {
	report, err := s.buildReport(input)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName:    s.buildFileName(*report, "pdf"),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func (s *AnalyticsService) buildReport(input ExportInput) (*model.ExportReport, error) {
	if input.Principal.IsViewer() {
		return nil, ErrPermissionDenied
	}
	criteria, err := normalizeCriteria(input.Criteria)
	if err != nil {
		return nil, err
	}
	records, err := s.source.Records()
	if err != nil {
		return nil, err
	}

	filtered := FilterRecords(records, criteria)
	return &model.ExportReport{
		GeneratedAt: s.now(),
		Criteria:    criteria,
		Records:     filtered,
		Summary:     Summarize(filtered),
		ByMethod:    AmountByMethod(filtered),
	}, nil
}

func (s *AnalyticsService) buildFileName(report model.ExportReport, ext string) string {
	return fmt.Sprintf("subcontract-records-%s.%s", report.GeneratedAt.Format("20060102"), ext)
}

func normalizeCriteria(criteria model.FilterCriteria) (model.FilterCriteria, error) {
	if criteria.SigningFrom != nil {
		from := dateOnly(*criteria.SigningFrom)
		criteria.SigningFrom = &from
	}
	if criteria.SigningTo != nil {
		to := dateOnly(*criteria.SigningTo)
		criteria.SigningTo = &to
	}
	if criteria.SigningFrom != nil && criteria.SigningTo != nil && criteria.SigningFrom.After(*criteria.SigningTo) {
		return criteria, fmt.Errorf("%w: signing_from must be before or equal to signing_to", ErrInvalidInput)
	}
	if criteria.AmountMin != nil && criteria.AmountMax != nil && *criteria.AmountMin > *criteria.AmountMax {
		return criteria, fmt.Errorf("%w: amount_min must not exceed amount_max", ErrInvalidInput)
	}
	return criteria, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
