package model

import "time"

// FilterCriteria is a conjunctive filter over the record set. Every field is
// optional: a nil bound leaves that side of the range open, an empty set
// means no restriction on that field.
type FilterCriteria struct {
	SigningFrom *time.Time
	SigningTo   *time.Time
	AmountMin   *float64
	AmountMax   *float64
	Departments []string
	Methods     []string
}

// DateRangeActive reports whether the signing-date range restricts anything.
// An active range excludes records without a signing date.
func (c FilterCriteria) DateRangeActive() bool {
	return c.SigningFrom != nil || c.SigningTo != nil
}

// AmountRangeActive reports whether the amount range restricts anything.
// An active range excludes records without a parseable amount.
func (c FilterCriteria) AmountRangeActive() bool {
	return c.AmountMin != nil || c.AmountMax != nil
}

// Matches evaluates all four predicates against the record. Range endpoints
// are inclusive.
func (c FilterCriteria) Matches(r ContractRecord) bool {
	if c.DateRangeActive() {
		if r.SigningDate == nil {
			return false
		}
		if c.SigningFrom != nil && r.SigningDate.Before(*c.SigningFrom) {
			return false
		}
		if c.SigningTo != nil && r.SigningDate.After(*c.SigningTo) {
			return false
		}
	}
	if c.AmountRangeActive() {
		if r.Amount == nil {
			return false
		}
		if c.AmountMin != nil && *r.Amount < *c.AmountMin {
			return false
		}
		if c.AmountMax != nil && *r.Amount > *c.AmountMax {
			return false
		}
	}
	if !memberOf(c.Departments, r.Department) {
		return false
	}
	if !memberOf(c.Methods, r.ProcurementMethod) {
		return false
	}
	return true
}

func memberOf(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, item := range set {
		if item == value {
			return true
		}
	}
	return false
}
