package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PolicyStatus string

const (
	PolicyStatusPending   PolicyStatus = "PENDING"
	PolicyStatusActive    PolicyStatus = "ACTIVE"
	PolicyStatusExpired   PolicyStatus = "EXPIRED"
	PolicyStatusCancelled PolicyStatus = "CANCELLED"
	PolicyStatusSuspended PolicyStatus = "SUSPENDED"
)

type ClaimStatus string

const (
	ClaimStatusPending     ClaimStatus = "PENDING"
	ClaimStatusUnderReview ClaimStatus = "UNDER_REVIEW"
	ClaimStatusApproved    ClaimStatus = "APPROVED"
	ClaimStatusDenied      ClaimStatus = "DENIED"
	ClaimStatusSettled     ClaimStatus = "SETTLED"
	ClaimStatusClosed      ClaimStatus = "CLOSED"
)

type Claim struct {
	ClaimNumber string          `json:"claim_number"`
	VehicleID   string          `json:"vehicle_id"`
	DateOfLoss  time.Time       `json:"date_of_loss"`
	ClaimAmount decimal.Decimal `json:"claim_amount"`
	Status      ClaimStatus     `json:"status"`
	Description string          `json:"description"`
	AdjusterID  string          `json:"adjuster_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

type DocumentType string

const (
	DocumentTypeCertificate DocumentType = "POLICY_CERTIFICATE"
	DocumentTypeProof       DocumentType = "PROOF_OF_INSURANCE"
	DocumentTypeClaimForm   DocumentType = "CLAIM_FORM"
	DocumentTypeEndorsement DocumentType = "ENDORSEMENT"
	DocumentTypeOther       DocumentType = "OTHER"
)

type PolicyDocument struct {
	Name       string       `json:"name"`
	Type       DocumentType `json:"type"`
	URL        string       `json:"url"`
	UploadedAt time.Time    `json:"uploaded_at"`
}

// Policy is the bound snapshot of an accepted quote. PremiumAmount and
// BrokerCommission are frozen copies of the quote's total and markup at bind
// time; they are never recomputed or edited in place.
type Policy struct {
	ID               uuid.UUID        `json:"id"`
	PolicyNumber     string           `json:"policy_number"`
	QuoteID          uuid.UUID        `json:"quote_id"`
	FleetManagerID   uuid.UUID        `json:"fleet_manager_id"`
	BrokerID         uuid.UUID        `json:"broker_id"`
	ProviderID       uuid.UUID        `json:"provider_id"`
	ProductID        uuid.UUID        `json:"product_id"`
	VehicleIDs       []string         `json:"vehicle_ids"`
	CoverageDetails  []Coverage       `json:"coverage_details"`
	PremiumAmount    decimal.Decimal  `json:"premium_amount"`
	BrokerCommission decimal.Decimal  `json:"broker_commission"`
	EffectiveDate    time.Time        `json:"effective_date"`
	ExpirationDate   time.Time        `json:"expiration_date"`
	Status           PolicyStatus     `json:"status"`
	Claims           []Claim          `json:"claims"`
	Documents        []PolicyDocument `json:"documents"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// PolicyFilter selects policies by equality on the set fields.
type PolicyFilter struct {
	FleetManagerID *uuid.UUID
	BrokerID       *uuid.UUID
	ProviderID     *uuid.UUID
	Status         *PolicyStatus
}
