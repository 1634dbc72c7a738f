package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/WoodenTech/fleetcover/internal/model"
)

type fakeExcelGenerator struct{}

func (fakeExcelGenerator) CommissionWorkbook(model.CommissionReport) ([]byte, error) {
	return []byte("xlsx-commission"), nil
}

func (fakeExcelGenerator) BusinessWorkbook(model.BusinessReport) ([]byte, error) {
	return []byte("xlsx-business"), nil
}

type fakePDFGenerator struct{}

func (fakePDFGenerator) CommissionDocument(model.CommissionReport) ([]byte, error) {
	return []byte("pdf-commission"), nil
}

func (fakePDFGenerator) BusinessDocument(model.BusinessReport) ([]byte, error) {
	return []byte("pdf-business"), nil
}

func newReportService(policies *fakePolicyStore, users *fakeUserStore) *ReportService {
	return NewReportService(policies, users, fakeExcelGenerator{}, fakePDFGenerator{}, zerolog.Nop())
}

func reportWindow() (time.Time, time.Time) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

func TestCommissionReportAggregates(t *testing.T) {
	brokerID := uuid.New()
	start, end := reportWindow()
	inWindow := start.AddDate(0, 3, 0)
	policies := newFakePolicyStore(nil,
		&model.Policy{
			PolicyNumber:     "POL-A",
			BrokerID:         brokerID,
			PremiumAmount:    dec("330"),
			BrokerCommission: dec("30"),
			EffectiveDate:    inWindow,
			Status:           model.PolicyStatusActive,
		},
		&model.Policy{
			PolicyNumber:     "POL-B",
			BrokerID:         brokerID,
			PremiumAmount:    dec("500"),
			BrokerCommission: dec("50"),
			EffectiveDate:    inWindow,
			Status:           model.PolicyStatusActive,
		},
		// outside the window, must not count
		&model.Policy{
			BrokerID:         brokerID,
			BrokerCommission: dec("999"),
			EffectiveDate:    start.AddDate(-1, 0, 0),
		},
	)
	users := newFakeUserStore(&model.User{ID: brokerID, CompanyName: "Acme Brokerage", Role: model.UserRoleBroker})
	svc := newReportService(policies, users)

	report, err := svc.CommissionReport(context.Background(), brokerID, start, end)
	if err != nil {
		t.Fatalf("commission report: %v", err)
	}

	if report.PoliciesSold != 2 {
		t.Fatalf("expected 2 policies, got %d", report.PoliciesSold)
	}
	if !report.TotalCommissionEarned.Equal(dec("80")) {
		t.Fatalf("total commission %s, want 80", report.TotalCommissionEarned)
	}
	if !report.AverageCommissionPerPolicy.Equal(dec("40")) {
		t.Fatalf("average commission %s, want 40", report.AverageCommissionPerPolicy)
	}
	if report.BrokerName != "Acme Brokerage" {
		t.Fatalf("broker name %q", report.BrokerName)
	}
	if len(report.PolicyCommissions) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report.PolicyCommissions))
	}
}

func TestCommissionReportEmptyWindow(t *testing.T) {
	brokerID := uuid.New()
	start, end := reportWindow()
	svc := newReportService(newFakePolicyStore(nil), newFakeUserStore())

	report, err := svc.CommissionReport(context.Background(), brokerID, start, end)
	if err != nil {
		t.Fatalf("commission report: %v", err)
	}
	if report.PoliciesSold != 0 || !report.AverageCommissionPerPolicy.IsZero() {
		t.Fatalf("empty window must report zero: %+v", report)
	}
}

func TestCommissionReportInvalidWindow(t *testing.T) {
	start, end := reportWindow()
	svc := newReportService(newFakePolicyStore(nil), newFakeUserStore())

	if _, err := svc.CommissionReport(context.Background(), uuid.New(), end, start); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted window, got %v", err)
	}
	if _, err := svc.CommissionReport(context.Background(), uuid.Nil, start, end); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil broker, got %v", err)
	}
}

func TestBusinessReportLossRatio(t *testing.T) {
	providerID := uuid.New()
	start, end := reportWindow()
	inWindow := start.AddDate(0, 1, 0)
	policies := newFakePolicyStore(nil,
		&model.Policy{
			ProviderID:    providerID,
			PremiumAmount: dec("1000"),
			EffectiveDate: inWindow,
			Status:        model.PolicyStatusActive,
			Claims: []model.Claim{
				{ClaimAmount: dec("200")},
				{ClaimAmount: dec("100")},
			},
		},
		&model.Policy{
			ProviderID:    providerID,
			PremiumAmount: dec("500"),
			EffectiveDate: inWindow,
			Status:        model.PolicyStatusCancelled,
		},
	)
	svc := newReportService(policies, newFakeUserStore())

	report, err := svc.BusinessReport(context.Background(), providerID, start, end)
	if err != nil {
		t.Fatalf("business report: %v", err)
	}

	if !report.TotalPremiumWritten.Equal(dec("1500")) {
		t.Fatalf("premium written %s, want 1500", report.TotalPremiumWritten)
	}
	if !report.TotalClaimsPaid.Equal(dec("300")) {
		t.Fatalf("claims paid %s, want 300", report.TotalClaimsPaid)
	}
	if !report.LossRatio.Equal(dec("0.2")) {
		t.Fatalf("loss ratio %s, want 0.2", report.LossRatio)
	}
	if report.ActivePolicies != 1 || report.NewPolicies != 2 {
		t.Fatalf("active=%d new=%d", report.ActivePolicies, report.NewPolicies)
	}
}

func TestBusinessReportZeroPremium(t *testing.T) {
	providerID := uuid.New()
	start, end := reportWindow()
	svc := newReportService(newFakePolicyStore(nil), newFakeUserStore())

	report, err := svc.BusinessReport(context.Background(), providerID, start, end)
	if err != nil {
		t.Fatalf("business report: %v", err)
	}
	if !report.LossRatio.IsZero() {
		t.Fatalf("loss ratio must be zero with no premium, got %s", report.LossRatio)
	}
}

func TestExportCommissionFormats(t *testing.T) {
	brokerID := uuid.New()
	start, end := reportWindow()
	users := newFakeUserStore(&model.User{ID: brokerID, CompanyName: "Acme Brokerage"})
	svc := newReportService(newFakePolicyStore(nil), users)

	xlsx, err := svc.ExportCommission(context.Background(), brokerID, start, end, "")
	if err != nil {
		t.Fatalf("export xlsx: %v", err)
	}
	if xlsx.ContentType != contentTypeXLSX || string(xlsx.Content) != "xlsx-commission" {
		t.Fatalf("unexpected xlsx result: %+v", xlsx)
	}
	if xlsx.FileName != "commission-Acme-Brokerage-20260101-20261231.xlsx" {
		t.Fatalf("unexpected file name %q", xlsx.FileName)
	}

	pdf, err := svc.ExportCommission(context.Background(), brokerID, start, end, "PDF")
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if pdf.ContentType != contentTypePDF || string(pdf.Content) != "pdf-commission" {
		t.Fatalf("unexpected pdf result: %+v", pdf)
	}

	if _, err := svc.ExportCommission(context.Background(), brokerID, start, end, "csv"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for csv, got %v", err)
	}
}

func TestExportBusinessFallsBackToProviderID(t *testing.T) {
	providerID := uuid.New()
	start, end := reportWindow()
	svc := newReportService(newFakePolicyStore(nil), newFakeUserStore())

	result, err := svc.ExportBusiness(context.Background(), providerID, start, end, "xlsx")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "business-" + sanitizeFileName(providerID.String()) + "-20260101-20261231.xlsx"
	if result.FileName != want {
		t.Fatalf("file name %q, want %q", result.FileName, want)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Acme Brokerage":   "Acme-Brokerage",
		"a/b\\c":           "a-b-c",
		"--trimmed--":      "trimmed",
		"":                 "",
		"already-clean_99": "already-clean_99",
	}
	for input, want := range cases {
		if got := sanitizeFileName(input); got != want {
			t.Fatalf("sanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}
