package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/nurpe/contract-analytics/internal/model"
)

var csvHeader = []string{
	"name",
	"signing_date",
	"performance_start",
	"performance_end",
	"contract_amount",
	"department",
	"procurement_method",
}

type CSVGenerator struct{}

func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Generate writes the filtered records as UTF-8 CSV. The header row is
// always present, so an empty result set yields a header-only file.
func (g *CSVGenerator) Generate(report model.ExportReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, record := range report.Records {
		row := []string{
			record.Name,
			formatDate(record.SigningDate),
			formatDate(record.PerformanceStart),
			formatDate(record.PerformanceEnd),
			formatAmountPtr(record.Amount),
			record.Department,
			record.ProcurementMethod,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatAmountPtr(amount *float64) string {
	if amount == nil {
		return ""
	}
	return strconv.FormatFloat(*amount, 'f', -1, 64)
}
