package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/WoodenTech/fleetcover/internal/model"
)

type ExcelGenerator interface {
	CommissionWorkbook(report model.CommissionReport) ([]byte, error)
	BusinessWorkbook(report model.BusinessReport) ([]byte, error)
}

type PDFGenerator interface {
	CommissionDocument(report model.CommissionReport) ([]byte, error)
	BusinessDocument(report model.BusinessReport) ([]byte, error)
}

type ReportService struct {
	policies PolicyStore
	users    UserStore
	excel    ExcelGenerator
	pdf      PDFGenerator
	log      zerolog.Logger
}

func NewReportService(policies PolicyStore, users UserStore, excel ExcelGenerator, pdf PDFGenerator, log zerolog.Logger) *ReportService {
	return &ReportService{
		policies: policies,
		users:    users,
		excel:    excel,
		pdf:      pdf,
		log:      log,
	}
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// CommissionReport aggregates a broker's bound policies over the window.
// Zero matching policies is a valid empty report, not an error.
func (s *ReportService) CommissionReport(ctx context.Context, brokerID uuid.UUID, start, end time.Time) (*model.CommissionReport, error) {
	if err := validateWindow(brokerID, start, end); err != nil {
		return nil, err
	}

	policies, err := s.policies.ListByBrokerBetween(ctx, brokerID, start, end)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	rows := make([]model.PolicyCommission, 0, len(policies))
	for _, p := range policies {
		total = total.Add(p.BrokerCommission)
		rows = append(rows, model.PolicyCommission{
			PolicyID:         p.ID,
			PolicyNumber:     p.PolicyNumber,
			PremiumAmount:    p.PremiumAmount,
			CommissionAmount: p.BrokerCommission,
			EffectiveDate:    p.EffectiveDate,
		})
	}

	average := decimal.Zero
	if len(policies) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(policies))))
	}

	return &model.CommissionReport{
		BrokerID:                   brokerID,
		BrokerName:                 s.resolveUserName(ctx, brokerID),
		StartDate:                  start,
		EndDate:                    end,
		PoliciesSold:               len(policies),
		TotalCommissionEarned:      total,
		AverageCommissionPerPolicy: average,
		PolicyCommissions:          rows,
	}, nil
}

// BusinessReport aggregates a provider's written business. LossRatio is zero
// when no premium was written, never a division error.
func (s *ReportService) BusinessReport(ctx context.Context, providerID uuid.UUID, start, end time.Time) (*model.BusinessReport, error) {
	if err := validateWindow(providerID, start, end); err != nil {
		return nil, err
	}

	policies, err := s.policies.ListByProviderBetween(ctx, providerID, start, end)
	if err != nil {
		return nil, err
	}

	totalPremium := decimal.Zero
	totalClaims := decimal.Zero
	active := 0
	for _, p := range policies {
		totalPremium = totalPremium.Add(p.PremiumAmount)
		for _, c := range p.Claims {
			totalClaims = totalClaims.Add(c.ClaimAmount)
		}
		if p.Status == model.PolicyStatusActive {
			active++
		}
	}

	lossRatio := decimal.Zero
	if totalPremium.IsPositive() {
		lossRatio = totalClaims.Div(totalPremium)
	}

	return &model.BusinessReport{
		ProviderID:          providerID,
		ProviderName:        s.resolveUserName(ctx, providerID),
		StartDate:           start,
		EndDate:             end,
		TotalPremiumWritten: totalPremium,
		TotalClaimsPaid:     totalClaims,
		LossRatio:           lossRatio,
		ActivePolicies:      active,
		NewPolicies:         len(policies),
	}, nil
}

func (s *ReportService) ExportCommission(ctx context.Context, brokerID uuid.UUID, start, end time.Time, format string) (*ExportResult, error) {
	report, err := s.CommissionReport(ctx, brokerID, start, end)
	if err != nil {
		return nil, err
	}

	name := report.BrokerName
	if name == "" {
		name = brokerID.String()
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "xlsx":
		content, err := s.excel.CommissionWorkbook(*report)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			FileName:    buildFileName("commission", name, start, end, "xlsx"),
			ContentType: contentTypeXLSX,
			Content:     content,
		}, nil
	case "pdf":
		content, err := s.pdf.CommissionDocument(*report)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			FileName:    buildFileName("commission", name, start, end, "pdf"),
			ContentType: contentTypePDF,
			Content:     content,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}

func (s *ReportService) ExportBusiness(ctx context.Context, providerID uuid.UUID, start, end time.Time, format string) (*ExportResult, error) {
	report, err := s.BusinessReport(ctx, providerID, start, end)
	if err != nil {
		return nil, err
	}

	name := report.ProviderName
	if name == "" {
		name = providerID.String()
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "xlsx":
		content, err := s.excel.BusinessWorkbook(*report)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			FileName:    buildFileName("business", name, start, end, "xlsx"),
			ContentType: contentTypeXLSX,
			Content:     content,
		}, nil
	case "pdf":
		content, err := s.pdf.BusinessDocument(*report)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			FileName:    buildFileName("business", name, start, end, "pdf"),
			ContentType: contentTypePDF,
			Content:     content,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}

func (s *ReportService) resolveUserName(ctx context.Context, id uuid.UUID) string {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Err(err).Str("user_id", id.String()).Msg("resolve user failed")
		}
		return ""
	}
	return user.DisplayName()
}

func validateWindow(target uuid.UUID, start, end time.Time) error {
	if target == uuid.Nil {
		return fmt.Errorf("%w: target id is required", ErrInvalidInput)
	}
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start must be before or equal to end", ErrInvalidInput)
	}
	return nil
}

func buildFileName(kind, target string, start, end time.Time, ext string) string {
	cleaned := sanitizeFileName(target)
	if cleaned == "" {
		cleaned = "report"
	}
	period := fmt.Sprintf("%s-%s", start.Format("20060102"), end.Format("20060102"))
	return fmt.Sprintf("%s-%s-%s.%s", kind, cleaned, period, ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
