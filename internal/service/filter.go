package service

import (
	"time"

	"github.com/nurpe/contract-analytics/internal/model"
)

// FilterRecords returns the records satisfying every predicate of the
// criteria. The source slice is never mutated; the result is non-nil even
// when nothing matches, so an empty result stays distinguishable from "not
// filtered yet" (a nil slice).
func FilterRecords(records []model.ContractRecord, criteria model.FilterCriteria) []model.ContractRecord {
	result := make([]model.ContractRecord, 0, len(records))
	for _, record := range records {
		if criteria.Matches(record) {
			result = append(result, record)
		}
	}
	return result
}

// SelectOngoing returns records whose performance end is strictly after now
// and whose department and procurement method pass the given sets. The
// signing-date and amount ranges deliberately do not apply here: the ongoing
// view answers "what is still active now", not "what was signed in this
// window".
func SelectOngoing(records []model.ContractRecord, departments, methods []string, now time.Time) []model.ContractRecord {
	criteria := model.FilterCriteria{
		Departments: departments,
		Methods:     methods,
	}
	result := make([]model.ContractRecord, 0, len(records))
	for _, record := range records {
		if record.Ongoing(now) && criteria.Matches(record) {
			result = append(result, record)
		}
	}
	return result
}
