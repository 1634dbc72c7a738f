package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WoodenTech/fleetcover/internal/model"
)

func TestCommissionDocument(t *testing.T) {
	g := NewGenerator()
	report := model.CommissionReport{
		BrokerID:              uuid.New(),
		BrokerName:            "Acme Brokerage",
		StartDate:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		PoliciesSold:          1,
		TotalCommissionEarned: decimal.NewFromInt(30),
		PolicyCommissions: []model.PolicyCommission{{
			PolicyNumber:     "POL-20260315-AAAA1111",
			PremiumAmount:    decimal.NewFromInt(330),
			CommissionAmount: decimal.NewFromInt(30),
			EffectiveDate:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		}},
	}

	content, err := g.CommissionDocument(report)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatalf("output is not a pdf, starts with %q", content[:min(8, len(content))])
	}
}

func TestBusinessDocument(t *testing.T) {
	g := NewGenerator()
	report := model.BusinessReport{
		ProviderID:          uuid.New(),
		StartDate:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		TotalPremiumWritten: decimal.NewFromInt(1500),
		TotalClaimsPaid:     decimal.NewFromInt(300),
		LossRatio:           decimal.RequireFromString("0.2"),
	}

	content, err := g.BusinessDocument(report)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatalf("output is not a pdf, starts with %q", content[:min(8, len(content))])
	}
}
