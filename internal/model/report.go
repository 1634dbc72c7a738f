package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PolicyCommission is one row of a broker commission report.
type PolicyCommission struct {
	PolicyID         uuid.UUID       `json:"policy_id"`
	PolicyNumber     string          `json:"policy_number"`
	PremiumAmount    decimal.Decimal `json:"premium_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	EffectiveDate    time.Time       `json:"effective_date"`
}

type CommissionReport struct {
	BrokerID                   uuid.UUID          `json:"broker_id"`
	BrokerName                 string             `json:"broker_name"`
	StartDate                  time.Time          `json:"start_date"`
	EndDate                    time.Time          `json:"end_date"`
	PoliciesSold               int                `json:"policies_sold"`
	TotalCommissionEarned      decimal.Decimal    `json:"total_commission_earned"`
	AverageCommissionPerPolicy decimal.Decimal    `json:"average_commission_per_policy"`
	PolicyCommissions          []PolicyCommission `json:"policy_commissions"`
}

type BusinessReport struct {
	ProviderID          uuid.UUID       `json:"provider_id"`
	ProviderName        string          `json:"provider_name"`
	StartDate           time.Time       `json:"start_date"`
	EndDate             time.Time       `json:"end_date"`
	TotalPremiumWritten decimal.Decimal `json:"total_premium_written"`
	TotalClaimsPaid     decimal.Decimal `json:"total_claims_paid"`
	LossRatio           decimal.Decimal `json:"loss_ratio"`
	ActivePolicies      int             `json:"active_policies"`
	NewPolicies         int             `json:"new_policies"`
}
