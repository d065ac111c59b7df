package model

import "time"

// DefaultDepartment is assigned to records whose department cell is empty.
const DefaultDepartment = "Unknown"

// ContractRecord is one row of the subcontracting contract dataset. Fields
// that may be absent or unparseable in the source workbook are pointers; a
// nil value means the cell was empty or failed coercion. Records are
// immutable snapshots loaded once per process.
type ContractRecord struct {
	Name              string     `json:"name"`
	SigningDate       *time.Time `json:"signing_date"`
	PerformanceStart  *time.Time `json:"performance_start"`
	PerformanceEnd    *time.Time `json:"performance_end"`
	Amount            *float64   `json:"contract_amount"`
	Department        string     `json:"department"`
	ProcurementMethod string     `json:"procurement_method"`
}

// Ongoing reports whether the record's performance period is still open at
// the given instant. Records without a performance end date are never
// ongoing.
func (r ContractRecord) Ongoing(now time.Time) bool {
	return r.PerformanceEnd != nil && r.PerformanceEnd.After(now)
}
