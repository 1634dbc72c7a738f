package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VehicleType string

const (
	VehicleTypeCar       VehicleType = "CAR"
	VehicleTypeTruck     VehicleType = "TRUCK"
	VehicleTypeVan       VehicleType = "VAN"
	VehicleTypeBus       VehicleType = "BUS"
	VehicleTypeTrailer   VehicleType = "TRAILER"
	VehicleTypeSpecialty VehicleType = "SPECIALTY"
)

type CoverageType string

const (
	CoverageTypeLiability       CoverageType = "LIABILITY"
	CoverageTypeCollision       CoverageType = "COLLISION"
	CoverageTypeComprehensive   CoverageType = "COMPREHENSIVE"
	CoverageTypeCargo           CoverageType = "CARGO"
	CoverageTypeUninsuredMotor  CoverageType = "UNINSURED_MOTORIST"
	CoverageTypeMedicalPayments CoverageType = "MEDICAL_PAYMENTS"
)

type RatingCategory string

const (
	RatingCategoryVehicleAge       RatingCategory = "VEHICLE_AGE"
	RatingCategoryDriverExperience RatingCategory = "DRIVER_EXPERIENCE"
	RatingCategoryLocation         RatingCategory = "LOCATION"
	RatingCategoryUsage            RatingCategory = "USAGE"
	RatingCategorySafety           RatingCategory = "SAFETY"
	RatingCategoryIndustry         RatingCategory = "INDUSTRY"
	RatingCategoryClaimsHistory    RatingCategory = "CLAIMS_HISTORY"
	RatingCategoryFleetSize        RatingCategory = "FLEET_SIZE"
)

type UnderwritingAction string

const (
	UnderwritingAccept         UnderwritingAction = "ACCEPT"
	UnderwritingDecline        UnderwritingAction = "DECLINE"
	UnderwritingInspection     UnderwritingAction = "REQUIRE_INSPECTION"
	UnderwritingApplyDiscount  UnderwritingAction = "APPLY_DISCOUNT"
	UnderwritingApplySurcharge UnderwritingAction = "APPLY_SURCHARGE"
)

// CoverageOption describes a coverage a product offers, with the limit and
// deductible amounts a fleet manager may select from.
type CoverageOption struct {
	Type              CoverageType      `json:"type"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	LimitOptions      []decimal.Decimal `json:"limit_options"`
	DeductibleOptions []decimal.Decimal `json:"deductible_options"`
	IsRequired        bool              `json:"is_required"`
	BaseRate          decimal.Decimal   `json:"base_rate"`
}

// RatingFactor is a named multiplier applied to the base premium. Factors are
// averaged, not compounded, when a product carries more than one.
type RatingFactor struct {
	Name                   string          `json:"name"`
	Category               RatingCategory  `json:"category"`
	Multiplier             decimal.Decimal `json:"multiplier"`
	Description            string          `json:"description"`
	ApplicableVehicleTypes []VehicleType   `json:"applicable_vehicle_types"`
}

type UnderwritingRule struct {
	Name     string             `json:"name"`
	Criteria string             `json:"criteria"`
	Action   UnderwritingAction `json:"action"`
	Value    decimal.Decimal    `json:"value"`
	IsActive bool               `json:"is_active"`
}

type Product struct {
	ID                     uuid.UUID          `json:"id"`
	ProviderID             uuid.UUID          `json:"provider_id"`
	ProductCode            string             `json:"product_code"`
	Name                   string             `json:"name"`
	Description            string             `json:"description"`
	BaseRate               decimal.Decimal    `json:"base_rate"`
	BrokerMarkupPercentage decimal.Decimal    `json:"broker_markup_percentage"`
	CoverageOptions        []CoverageOption   `json:"coverage_options"`
	RatingFactors          []RatingFactor     `json:"rating_factors"`
	UnderwritingRules      []UnderwritingRule `json:"underwriting_rules"`
	SupportedVehicleTypes  []VehicleType      `json:"supported_vehicle_types"`
	SupportedIndustryTypes []string           `json:"supported_industry_types"`
	AvailableStates        []string           `json:"available_states"`
	MinimumFleetSize       int                `json:"minimum_fleet_size"`
	MaximumFleetSize       int                `json:"maximum_fleet_size"`
	IsActive               bool               `json:"is_active"`
	EffectiveDate          time.Time          `json:"effective_date"`
	ExpirationDate         *time.Time         `json:"expiration_date,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// AvailableAt reports whether the product's validity window covers ts.
func (p *Product) AvailableAt(ts time.Time) bool {
	if ts.Before(p.EffectiveDate) {
		return false
	}
	if p.ExpirationDate != nil && ts.After(*p.ExpirationDate) {
		return false
	}
	return true
}

// ProductSearchCriteria narrows the active product catalog. Zero-valued
// fields are ignored.
type ProductSearchCriteria struct {
	ProviderIDs  []uuid.UUID
	VehicleTypes []VehicleType
	States       []string
	FleetSize    int
	MaxBaseRate  *decimal.Decimal
}

// RatingFactorUpdate retargets one named factor's multiplier.
type RatingFactorUpdate struct {
	FactorName    string
	NewMultiplier decimal.Decimal
}
