package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "PENDING"
	QuoteStatusGenerated QuoteStatus = "GENERATED"
	QuoteStatusSent      QuoteStatus = "SENT"
	QuoteStatusAccepted  QuoteStatus = "ACCEPTED"
	QuoteStatusDeclined  QuoteStatus = "DECLINED"
	QuoteStatusExpired   QuoteStatus = "EXPIRED"
	QuoteStatusConverted QuoteStatus = "CONVERTED"
)

// Coverage is one selected coverage line on a quote, and later the frozen
// coverage snapshot on a bound policy.
type Coverage struct {
	Type        CoverageType    `json:"type"`
	Limit       decimal.Decimal `json:"limit"`
	Deductible  decimal.Decimal `json:"deductible"`
	Premium     decimal.Decimal `json:"premium"`
	Description string          `json:"description"`
}

// Quote carries a priced coverage proposal. TotalPremium equals
// BasePremium + BrokerMarkup at creation and is never recomputed.
type Quote struct {
	ID                uuid.UUID       `json:"id"`
	QuoteNumber       string          `json:"quote_number"`
	FleetManagerID    uuid.UUID       `json:"fleet_manager_id"`
	BrokerID          uuid.UUID       `json:"broker_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	VehicleIDs        []string        `json:"vehicle_ids"`
	SelectedCoverages []Coverage      `json:"selected_coverages"`
	BasePremium       decimal.Decimal `json:"base_premium"`
	BrokerMarkup      decimal.Decimal `json:"broker_markup"`
	TotalPremium      decimal.Decimal `json:"total_premium"`
	ValidUntil        time.Time       `json:"valid_until"`
	Status            QuoteStatus     `json:"status"`
	DeclineReason     string          `json:"decline_reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// QuoteFilter selects quotes by equality on the set fields.
type QuoteFilter struct {
	FleetManagerID *uuid.UUID
	BrokerID       *uuid.UUID
	Status         *QuoteStatus
}
