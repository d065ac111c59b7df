package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contract-analytics/internal/model"
)

type XLSXGenerator struct{}

func NewXLSXGenerator() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate builds a workbook with a summary sheet (criteria echo, scalar
// metrics, per-method table) and a records sheet listing the filtered rows.
func (g *XLSXGenerator) Generate(report model.ExportReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	recordsSheet := "Records"
	file.NewSheet(recordsSheet)
	if err := g.writeRecords(file, recordsSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *XLSXGenerator) writeSummary(file *excelize.File, sheet string, report model.ExportReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Generated at")
	set("B1", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	set("A2", "Signing date from")
	set("B2", formatDate(report.Criteria.SigningFrom))
	set("A3", "Signing date to")
	set("B3", formatDate(report.Criteria.SigningTo))
	set("A4", "Amount range")
	set("B4", formatAmountRange(report.Criteria))
	set("A5", "Records")
	set("B5", report.Summary.Count)
	set("A6", "Total amount")
	set("B6", report.Summary.TotalAmount)
	set("A7", "Mean amount")
	set("B7", report.Summary.MeanAmount)

	tableRow := 9
	set(fmt.Sprintf("A%d", tableRow), "Procurement method")
	set(fmt.Sprintf("B%d", tableRow), "Contracts")
	set(fmt.Sprintf("C%d", tableRow), "Amount")

	for i, stat := range report.ByMethod {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), stat.Key)
		set(fmt.Sprintf("B%d", row), stat.Count)
		set(fmt.Sprintf("C%d", row), stat.Amount)
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "C", 18)
	return nil
}

func (g *XLSXGenerator) writeRecords(file *excelize.File, sheet string, report model.ExportReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	for i, header := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, record := range report.Records {
		row := i + 2
		set(fmt.Sprintf("A%d", row), record.Name)
		set(fmt.Sprintf("B%d", row), formatDate(record.SigningDate))
		set(fmt.Sprintf("C%d", row), formatDate(record.PerformanceStart))
		set(fmt.Sprintf("D%d", row), formatDate(record.PerformanceEnd))
		if record.Amount != nil {
			set(fmt.Sprintf("E%d", row), *record.Amount)
		}
		set(fmt.Sprintf("F%d", row), record.Department)
		set(fmt.Sprintf("G%d", row), record.ProcurementMethod)
	}

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "E", 16)
	_ = file.SetColWidth(sheet, "F", "G", 24)
	return nil
}

func formatAmountRange(criteria model.FilterCriteria) string {
	if criteria.AmountMin == nil && criteria.AmountMax == nil {
		return "unrestricted"
	}
	lower := "-"
	if criteria.AmountMin != nil {
		lower = fmt.Sprintf("%.2f", *criteria.AmountMin)
	}
	upper := "-"
	if criteria.AmountMax != nil {
		upper = fmt.Sprintf("%.2f", *criteria.AmountMax)
	}
	return fmt.Sprintf("%s to %s", lower, upper)
}
