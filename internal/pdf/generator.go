package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/WoodenTech/fleetcover/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// CommissionDocument renders a broker commission report with a per-policy
// table.
func (g *Generator) CommissionDocument(report model.CommissionReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Broker Commission Report", "", 1, "C", false, 0, "")

	broker := report.BrokerName
	if broker == "" {
		broker = report.BrokerID.String()
	}

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Broker: %s", broker), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s", formatDate(report.StartDate), formatDate(report.EndDate)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summaryLine(pdf, g.fontName, "Policies sold", fmt.Sprintf("%d", report.PoliciesSold))
	summaryLine(pdf, g.fontName, "Total commission earned", formatMoney(report.TotalCommissionEarned))
	summaryLine(pdf, g.fontName, "Average commission per policy", formatMoney(report.AverageCommissionPerPolicy))
	pdf.Ln(4)

	headers := []string{"Policy number", "Premium", "Commission", "Effective date"}
	colWidths := []float64{60, 40, 40, 40}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, row := range report.PolicyCommissions {
		drawTableRow(pdf, g.fontName, []string{
			row.PolicyNumber,
			formatMoney(row.PremiumAmount),
			formatMoney(row.CommissionAmount),
			formatDate(row.EffectiveDate),
		}, colWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BusinessDocument renders a provider business report summary page.
func (g *Generator) BusinessDocument(report model.BusinessReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Provider Business Report", "", 1, "C", false, 0, "")

	provider := report.ProviderName
	if provider == "" {
		provider = report.ProviderID.String()
	}

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Provider: %s", provider), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s", formatDate(report.StartDate), formatDate(report.EndDate)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summaryLine(pdf, g.fontName, "Total premium written", formatMoney(report.TotalPremiumWritten))
	summaryLine(pdf, g.fontName, "Total claims paid", formatMoney(report.TotalClaimsPaid))
	summaryLine(pdf, g.fontName, "Loss ratio", report.LossRatio.StringFixed(4))
	summaryLine(pdf, g.fontName, "Active policies", fmt.Sprintf("%d", report.ActivePolicies))
	summaryLine(pdf, g.fontName, "New policies", fmt.Sprintf("%d", report.NewPolicies))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func summaryLine(pdf *gofpdf.Fpdf, fontName, label, value string) {
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(90, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
