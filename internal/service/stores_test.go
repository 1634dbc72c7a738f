package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WoodenTech/fleetcover/internal/events"
	"github.com/WoodenTech/fleetcover/internal/model"
	"github.com/WoodenTech/fleetcover/internal/repository"
)

// In-memory store fakes shared by the service tests. They mirror the
// repository semantics the services rely on: gorm.ErrRecordNotFound for
// missing rows and compare-and-set status transitions.

type fakeProductStore struct {
	products map[uuid.UUID]*model.Product
}

func newFakeProductStore(products ...*model.Product) *fakeProductStore {
	s := &fakeProductStore{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) Get(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProductStore) List(_ context.Context, activeOnly bool) ([]model.Product, error) {
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeProductStore) Search(_ context.Context, criteria model.ProductSearchCriteria) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if criteria.FleetSize > 0 && (criteria.FleetSize < p.MinimumFleetSize || criteria.FleetSize > p.MaximumFleetSize) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeProductStore) Create(_ context.Context, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now().UTC()
	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *fakeProductStore) Replace(_ context.Context, product *model.Product) (bool, error) {
	if _, ok := s.products[product.ID]; !ok {
		return false, nil
	}
	copied := *product
	s.products[product.ID] = &copied
	return true, nil
}

type fakeQuoteStore struct {
	quotes map[uuid.UUID]*model.Quote
}

func newFakeQuoteStore(quotes ...*model.Quote) *fakeQuoteStore {
	s := &fakeQuoteStore{quotes: make(map[uuid.UUID]*model.Quote)}
	for _, q := range quotes {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		s.quotes[q.ID] = q
	}
	return s
}

func (s *fakeQuoteStore) Insert(_ context.Context, quote *model.Quote) error {
	quote.ID = uuid.New()
	quote.CreatedAt = time.Now().UTC()
	quote.UpdatedAt = quote.CreatedAt
	copied := *quote
	s.quotes[quote.ID] = &copied
	return nil
}

func (s *fakeQuoteStore) Get(_ context.Context, id uuid.UUID) (*model.Quote, error) {
	q, ok := s.quotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *q
	return &copied, nil
}

func (s *fakeQuoteStore) List(_ context.Context, filter model.QuoteFilter) ([]model.Quote, error) {
	out := make([]model.Quote, 0)
	for _, q := range s.quotes {
		if filter.BrokerID != nil && q.BrokerID != *filter.BrokerID {
			continue
		}
		if filter.FleetManagerID != nil && q.FleetManagerID != *filter.FleetManagerID {
			continue
		}
		if filter.Status != nil && q.Status != *filter.Status {
			continue
		}
		out = append(out, *q)
	}
	return out, nil
}

func (s *fakeQuoteStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.QuoteStatus, reason string) (bool, error) {
	q, ok := s.quotes[id]
	if !ok || q.Status != from {
		return false, nil
	}
	q.Status = to
	if reason != "" {
		q.DeclineReason = reason
	}
	q.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (s *fakeQuoteStore) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for _, q := range s.quotes {
		if q.Status == model.QuoteStatusGenerated && q.ValidUntil.Before(now) {
			q.Status = model.QuoteStatusExpired
			count++
		}
	}
	return count, nil
}

type fakePolicyStore struct {
	policies map[uuid.UUID]*model.Policy
	quotes   *fakeQuoteStore
}

func newFakePolicyStore(quotes *fakeQuoteStore, policies ...*model.Policy) *fakePolicyStore {
	s := &fakePolicyStore{policies: make(map[uuid.UUID]*model.Policy), quotes: quotes}
	for _, p := range policies {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		s.policies[p.ID] = p
	}
	return s
}

// CreateFromQuote mimics the transactional insert: the quote flip and the
// policy insert succeed or fail together.
func (s *fakePolicyStore) CreateFromQuote(ctx context.Context, policy *model.Policy) error {
	if s.quotes != nil {
		flipped, err := s.quotes.UpdateStatus(ctx, policy.QuoteID, model.QuoteStatusAccepted, model.QuoteStatusConverted, "")
		if err != nil {
			return err
		}
		if !flipped {
			return repository.ErrQuoteStateChanged
		}
	}
	policy.ID = uuid.New()
	policy.CreatedAt = time.Now().UTC()
	policy.UpdatedAt = policy.CreatedAt
	copied := *policy
	s.policies[policy.ID] = &copied
	return nil
}

func (s *fakePolicyStore) Get(_ context.Context, id uuid.UUID) (*model.Policy, error) {
	p, ok := s.policies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	copied.Claims = append([]model.Claim(nil), p.Claims...)
	return &copied, nil
}

func (s *fakePolicyStore) List(_ context.Context, filter model.PolicyFilter) ([]model.Policy, error) {
	out := make([]model.Policy, 0)
	for _, p := range s.policies {
		if filter.BrokerID != nil && p.BrokerID != *filter.BrokerID {
			continue
		}
		if filter.FleetManagerID != nil && p.FleetManagerID != *filter.FleetManagerID {
			continue
		}
		if filter.ProviderID != nil && p.ProviderID != *filter.ProviderID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakePolicyStore) ListByBrokerBetween(_ context.Context, brokerID uuid.UUID, start, end time.Time) ([]model.Policy, error) {
	out := make([]model.Policy, 0)
	for _, p := range s.policies {
		if p.BrokerID == brokerID && !p.EffectiveDate.Before(start) && !p.EffectiveDate.After(end) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePolicyStore) ListByProviderBetween(_ context.Context, providerID uuid.UUID, start, end time.Time) ([]model.Policy, error) {
	out := make([]model.Policy, 0)
	for _, p := range s.policies {
		if p.ProviderID == providerID && !p.EffectiveDate.Before(start) && !p.EffectiveDate.After(end) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePolicyStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.PolicyStatus) (bool, error) {
	p, ok := s.policies[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (s *fakePolicyStore) Renew(_ context.Context, id uuid.UUID, newExpiration time.Time) (bool, error) {
	p, ok := s.policies[id]
	if !ok || p.Status != model.PolicyStatusActive {
		return false, nil
	}
	p.ExpirationDate = newExpiration
	return true, nil
}

func (s *fakePolicyStore) AppendClaim(_ context.Context, id uuid.UUID, claim model.Claim) (bool, error) {
	p, ok := s.policies[id]
	if !ok {
		return false, nil
	}
	p.Claims = append(p.Claims, claim)
	return true, nil
}

func (s *fakePolicyStore) ReplaceClaims(_ context.Context, id uuid.UUID, claims []model.Claim) (bool, error) {
	p, ok := s.policies[id]
	if !ok {
		return false, nil
	}
	p.Claims = claims
	return true, nil
}

type fakeUserStore struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) lastType() string {
	if len(p.events) == 0 {
		return ""
	}
	return p.events[len(p.events)-1].Type
}
