package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WoodenTech/fleetcover/internal/model"
)

// Store contracts consumed by the services and satisfied by the repository
// package. Tests substitute in-memory fakes.

type ProductStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, activeOnly bool) ([]model.Product, error)
	Search(ctx context.Context, criteria model.ProductSearchCriteria) ([]model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Replace(ctx context.Context, product *model.Product) (bool, error)
}

type QuoteStore interface {
	Insert(ctx context.Context, quote *model.Quote) error
	Get(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	List(ctx context.Context, filter model.QuoteFilter) ([]model.Quote, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.QuoteStatus, reason string) (bool, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type PolicyStore interface {
	CreateFromQuote(ctx context.Context, policy *model.Policy) error
	Get(ctx context.Context, id uuid.UUID) (*model.Policy, error)
	List(ctx context.Context, filter model.PolicyFilter) ([]model.Policy, error)
	ListByBrokerBetween(ctx context.Context, brokerID uuid.UUID, start, end time.Time) ([]model.Policy, error)
	ListByProviderBetween(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]model.Policy, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.PolicyStatus) (bool, error)
	Renew(ctx context.Context, id uuid.UUID, newExpiration time.Time) (bool, error)
	AppendClaim(ctx context.Context, id uuid.UUID, claim model.Claim) (bool, error)
	ReplaceClaims(ctx context.Context, id uuid.UUID, claims []model.Claim) (bool, error)
}

type UserStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
}
