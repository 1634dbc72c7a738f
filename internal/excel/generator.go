package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/WoodenTech/fleetcover/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// CommissionWorkbook renders a broker commission report: summary block on
// top, one row per bound policy below.
func (g *Generator) CommissionWorkbook(report model.CommissionReport) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Commission"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	broker := report.BrokerName
	if broker == "" {
		broker = report.BrokerID.String()
	}

	set("A1", "Report")
	set("B1", "Broker commission")
	set("A2", "Broker")
	set("B2", broker)
	set("A3", "Period start")
	set("B3", formatDate(report.StartDate))
	set("A4", "Period end")
	set("B4", formatDate(report.EndDate))
	set("A5", "Policies sold")
	set("B5", report.PoliciesSold)
	set("A6", "Total commission earned")
	set("B6", formatMoney(report.TotalCommissionEarned))
	set("A7", "Average commission per policy")
	set("B7", formatMoney(report.AverageCommissionPerPolicy))

	tableRow := 9
	set(fmt.Sprintf("A%d", tableRow), "Policy number")
	set(fmt.Sprintf("B%d", tableRow), "Premium")
	set(fmt.Sprintf("C%d", tableRow), "Commission")
	set(fmt.Sprintf("D%d", tableRow), "Effective date")

	for i, row := range report.PolicyCommissions {
		line := tableRow + 1 + i
		set(fmt.Sprintf("A%d", line), row.PolicyNumber)
		set(fmt.Sprintf("B%d", line), formatMoney(row.PremiumAmount))
		set(fmt.Sprintf("C%d", line), formatMoney(row.CommissionAmount))
		set(fmt.Sprintf("D%d", line), formatDate(row.EffectiveDate))
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "D", 22)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BusinessWorkbook renders a provider business report as a single summary
// sheet.
func (g *Generator) BusinessWorkbook(report model.BusinessReport) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Business"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	provider := report.ProviderName
	if provider == "" {
		provider = report.ProviderID.String()
	}

	set("A1", "Report")
	set("B1", "Provider business")
	set("A2", "Provider")
	set("B2", provider)
	set("A3", "Period start")
	set("B3", formatDate(report.StartDate))
	set("A4", "Period end")
	set("B4", formatDate(report.EndDate))
	set("A5", "Total premium written")
	set("B5", formatMoney(report.TotalPremiumWritten))
	set("A6", "Total claims paid")
	set("B6", formatMoney(report.TotalClaimsPaid))
	set("A7", "Loss ratio")
	set("B7", report.LossRatio.StringFixed(4))
	set("A8", "Active policies")
	set("B8", report.ActivePolicies)
	set("A9", "New policies")
	set("B9", report.NewPolicies)

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 22)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
