package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/contract-analytics/internal/model"
)

type PDFGenerator struct {
	fontName string
}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{fontName: "Helvetica"}
}

// Generate renders a one-page summary report: the filter echo, scalar
// metrics and the per-method breakdown table.
func (g *PDFGenerator) Generate(report model.ExportReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Subcontracting Contract Report", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Filter", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Signing date: %s to %s", orDash(formatDate(report.Criteria.SigningFrom)), orDash(formatDate(report.Criteria.SigningTo))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Amount: %s", formatAmountRange(report.Criteria)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Departments: %s", setLabel(report.Criteria.Departments)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Procurement methods: %s", setLabel(report.Criteria.Methods)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Totals", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Records: %d", report.Summary.Count), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total amount: %s", formatMoney(report.Summary.TotalAmount)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Mean amount: %s", formatMoney(report.Summary.MeanAmount)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "By procurement method", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	headers := []string{"Procurement method", "Contracts", "Amount"}
	colWidths := []float64{100, 30, 50}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, stat := range report.ByMethod {
		row := []string{
			stat.Key,
			fmt.Sprintf("%d", stat.Count),
			formatMoney(stat.Amount),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cells []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func setLabel(values []string) string {
	if len(values) == 0 {
		return "all"
	}
	label := values[0]
	for _, value := range values[1:] {
		label += ", " + value
	}
	return label
}

func formatMoney(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
