package dataset

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contract-analytics/internal/model"
)

// ErrSourceMissing means the backing workbook or sheet cannot be located.
// This is fatal: no filtering can run without the dataset.
var ErrSourceMissing = errors.New("dataset source missing")

// Loader reads the contract workbook once and serves the same immutable
// slice to every caller. Malformed cells are coerced to nil and never abort
// a row.
type Loader struct {
	path  string
	sheet string
	log   zerolog.Logger

	once    sync.Once
	records []model.ContractRecord
	err     error
}

func NewLoader(path, sheet string, log zerolog.Logger) *Loader {
	return &Loader{path: path, sheet: sheet, log: log}
}

// Records returns the cached record set, loading it on first use.
func (l *Loader) Records() ([]model.ContractRecord, error) {
	l.once.Do(func() {
		l.records, l.err = l.load()
	})
	return l.records, l.err
}

func (l *Loader) load() ([]model.ContractRecord, error) {
	if _, err := os.Stat(l.path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, l.path)
	}

	file, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceMissing, l.path, err)
	}
	defer file.Close()

	rows, err := file.GetRows(l.sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrSourceMissing, l.sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrSourceMissing, l.sheet)
	}

	columns := mapColumns(rows[0])
	records := make([]model.ContractRecord, 0, len(rows)-1)
	malformed := 0

	for i, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		record := model.ContractRecord{
			Name:              cell(row, columns.name),
			ProcurementMethod: cell(row, columns.method),
		}

		record.SigningDate = l.coerceDate(cell(row, columns.signing), i, "signing date", &malformed)
		record.PerformanceStart = l.coerceDate(cell(row, columns.start), i, "performance start", &malformed)
		record.PerformanceEnd = l.coerceDate(cell(row, columns.end), i, "performance end", &malformed)
		record.Amount = l.coerceAmount(cell(row, columns.amount), i, &malformed)

		record.Department = cell(row, columns.department)
		if record.Department == "" {
			record.Department = model.DefaultDepartment
		}

		records = append(records, record)
	}

	l.log.Info().
		Str("path", l.path).
		Str("sheet", l.sheet).
		Int("records", len(records)).
		Int("malformed_fields", malformed).
		Msg("dataset loaded")

	return records, nil
}

func (l *Loader) coerceDate(raw string, row int, field string, malformed *int) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		*malformed++
		l.log.Debug().Int("row", row).Str("field", field).Str("value", raw).Msg("unparseable date coerced to null")
		return nil
	}
	return &parsed
}

func (l *Loader) coerceAmount(raw string, row int, malformed *int) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := ParseAmount(raw)
	if err != nil {
		*malformed++
		l.log.Debug().Int("row", row).Str("value", raw).Msg("unparseable amount coerced to null")
		return nil
	}
	return &parsed
}

type columnIndex struct {
	name       int
	signing    int
	start      int
	end        int
	amount     int
	department int
	method     int
}

// Column headers of the source workbook, with English aliases accepted for
// re-exported copies of the dataset.
var headerAliases = map[string]string{
	"合同名称":               "name",
	"name":               "name",
	"签订时间":               "signing",
	"signing date":       "signing",
	"signing_date":       "signing",
	"履行期限(起)":            "start",
	"performance start":  "start",
	"performance_start":  "start",
	"履行期限(止)":            "end",
	"performance end":    "end",
	"performance_end":    "end",
	"标的金额":               "amount",
	"contract amount":    "amount",
	"contract_amount":    "amount",
	"amount":             "amount",
	"承办部门":               "department",
	"department":         "department",
	"选商方式":               "method",
	"procurement method": "method",
	"procurement_method": "method",
}

func mapColumns(header []string) columnIndex {
	columns := columnIndex{name: -1, signing: -1, start: -1, end: -1, amount: -1, department: -1, method: -1}
	for i, h := range header {
		key, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		switch key {
		case "name":
			columns.name = i
		case "signing":
			columns.signing = i
		case "start":
			columns.start = i
		case "end":
			columns.end = i
		case "amount":
			columns.amount = i
		case "department":
			columns.department = i
		case "method":
			columns.method = i
		}
	}
	return columns
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func emptyRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC3339,
	"01-02-06",
	"01/02/2006",
	"2006年01月02日",
}

// ParseDate accepts the formats excelize renders date cells in, plus raw
// Excel serial numbers.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// ParseAmount parses a numeric cell, tolerating thousands separators.
func ParseAmount(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	return strconv.ParseFloat(raw, 64)
}
