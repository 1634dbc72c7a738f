package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserRole string

const (
	UserRoleFleetManager UserRole = "FLEET_MANAGER"
	UserRoleBroker       UserRole = "BROKER"
	UserRoleProvider     UserRole = "PROVIDER"
)

// User is a tagged variant over the three participant roles. Role-specific
// fields are pointers and set only when Role matches; this service only
// reads users (account management lives elsewhere).
type User struct {
	ID          uuid.UUID
	Email       string
	FirstName   string
	LastName    string
	CompanyName string
	Role        UserRole
	IsActive    bool

	// FLEET_MANAGER
	FleetSize    *int
	IndustryType *string

	// BROKER
	BrokerLicenseNumber *string
	CommissionRate      *decimal.Decimal

	// PROVIDER
	ProviderLicenseNumber *string
	FinancialRating       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) DisplayName() string {
	if u.CompanyName != "" {
		return u.CompanyName
	}
	return u.FirstName + " " + u.LastName
}
