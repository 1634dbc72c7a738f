package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/WoodenTech/fleetcover/internal/config"
	"github.com/WoodenTech/fleetcover/internal/events"
	"github.com/WoodenTech/fleetcover/internal/metrics"
	"github.com/WoodenTech/fleetcover/internal/model"
	"github.com/WoodenTech/fleetcover/internal/repository"
)

type PolicyService struct {
	policies  PolicyStore
	quotes    QuoteStore
	products  ProductStore
	cfg       *config.Config
	metrics   *metrics.Registry
	publisher events.Publisher
	log       zerolog.Logger
}

func NewPolicyService(
	policies PolicyStore,
	quotes QuoteStore,
	products ProductStore,
	cfg *config.Config,
	reg *metrics.Registry,
	publisher events.Publisher,
	log zerolog.Logger,
) *PolicyService {
	return &PolicyService{
		policies:  policies,
		quotes:    quotes,
		products:  products,
		cfg:       cfg,
		metrics:   reg,
		publisher: publisher,
		log:       log,
	}
}

// BindPolicyFromQuote converts an accepted quote into an active policy. This
// is the only path that mints a policy from a quote. Preconditions: the quote
// exists, belongs to brokerID and is ACCEPTED; any mismatch (and a flip lost
// to a concurrent bind) surfaces as ErrCannotBind with a nil policy. The
// policy insert and the quote's CONVERTED flip commit in one transaction.
func (s *PolicyService) BindPolicyFromQuote(ctx context.Context, quoteID, brokerID uuid.UUID) (*model.Policy, error) {
	started := time.Now()

	quote, err := s.quotes.Get(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCannotBind
		}
		return nil, err
	}
	if quote.BrokerID != brokerID || quote.Status != model.QuoteStatusAccepted {
		return nil, ErrCannotBind
	}

	product, err := s.products.Get(ctx, quote.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product for quote %s: %w", quoteID, ErrNotFound)
		}
		return nil, err
	}

	now := time.Now().UTC()
	policy := &model.Policy{
		PolicyNumber:     refNumber("POL", now),
		QuoteID:          quote.ID,
		FleetManagerID:   quote.FleetManagerID,
		BrokerID:         quote.BrokerID,
		ProviderID:       product.ProviderID,
		ProductID:        quote.ProductID,
		VehicleIDs:       quote.VehicleIDs,
		CoverageDetails:  quote.SelectedCoverages,
		PremiumAmount:    quote.TotalPremium,
		BrokerCommission: quote.BrokerMarkup,
		EffectiveDate:    now,
		ExpirationDate:   now.AddDate(0, s.cfg.Policies.TermMonths, 0),
		Status:           model.PolicyStatusActive,
		Claims:           []model.Claim{},
		Documents:        []model.PolicyDocument{},
	}

	if err := s.policies.CreateFromQuote(ctx, policy); err != nil {
		if errors.Is(err, repository.ErrQuoteStateChanged) {
			return nil, ErrCannotBind
		}
		return nil, fmt.Errorf("bind policy: %w", err)
	}

	s.metrics.PoliciesBound.Inc()
	s.metrics.BindDurationSec.Observe(time.Since(started).Seconds())
	s.publish(ctx, events.Event{
		Type:     events.TypePolicyBound,
		QuoteID:  &quote.ID,
		PolicyID: &policy.ID,
		Number:   policy.PolicyNumber,
		Status:   string(policy.Status),
	})
	s.log.Info().
		Str("policy_number", policy.PolicyNumber).
		Str("quote_number", quote.QuoteNumber).
		Str("premium", policy.PremiumAmount.String()).
		Msg("policy bound")

	return policy, nil
}

func (s *PolicyService) GetPolicy(ctx context.Context, id uuid.UUID) (*model.Policy, error) {
	policy, err := s.policies.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return policy, nil
}

func (s *PolicyService) ListPolicies(ctx context.Context, filter model.PolicyFilter) ([]model.Policy, error) {
	return s.policies.List(ctx, filter)
}

// CancelPolicy flips ACTIVE to CANCELLED. False when the policy is missing or
// not active.
func (s *PolicyService) CancelPolicy(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	updated, err := s.policies.UpdateStatus(ctx, id, model.PolicyStatusActive, model.PolicyStatusCancelled)
	if err != nil {
		return false, err
	}
	if updated {
		s.metrics.PoliciesCancelled.Inc()
		s.publish(ctx, events.Event{
			Type:     events.TypePolicyCancelled,
			PolicyID: &id,
			Status:   string(model.PolicyStatusCancelled),
		})
		s.log.Info().Str("policy_id", id.String()).Str("reason", reason).Msg("policy cancelled")
	}
	return updated, nil
}

// RenewPolicy extends an active policy's expiration date.
func (s *PolicyService) RenewPolicy(ctx context.Context, id uuid.UUID, newExpiration time.Time) (bool, error) {
	if !newExpiration.After(time.Now().UTC()) {
		return false, fmt.Errorf("%w: new expiration must be in the future", ErrInvalidInput)
	}
	updated, err := s.policies.Renew(ctx, id, newExpiration)
	if err != nil {
		return false, err
	}
	if updated {
		s.publish(ctx, events.Event{
			Type:     events.TypePolicyRenewed,
			PolicyID: &id,
			Status:   string(model.PolicyStatusActive),
		})
	}
	return updated, nil
}

// AddClaim assigns a claim number and appends the claim to the policy.
func (s *PolicyService) AddClaim(ctx context.Context, policyID uuid.UUID, claim model.Claim) (*model.Claim, error) {
	if claim.ClaimAmount.IsNegative() {
		return nil, fmt.Errorf("%w: claim_amount must not be negative", ErrInvalidInput)
	}

	now := time.Now().UTC()
	claim.ClaimNumber = refNumber("CLM", now)
	claim.CreatedAt = now
	if claim.Status == "" {
		claim.Status = model.ClaimStatusPending
	}

	added, err := s.policies.AppendClaim(ctx, policyID, claim)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrNotFound
	}
	return &claim, nil
}

// UpdateClaim replaces the claim with the matching number. False when the
// policy or the claim is absent.
func (s *PolicyService) UpdateClaim(ctx context.Context, policyID uuid.UUID, claimNumber string, update model.Claim) (bool, error) {
	policy, err := s.policies.Get(ctx, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	found := false
	for i := range policy.Claims {
		if policy.Claims[i].ClaimNumber == claimNumber {
			update.ClaimNumber = claimNumber
			update.CreatedAt = policy.Claims[i].CreatedAt
			policy.Claims[i] = update
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	return s.policies.ReplaceClaims(ctx, policyID, policy.Claims)
}

func (s *PolicyService) ListClaims(ctx context.Context, policyID uuid.UUID) ([]model.Claim, error) {
	policy, err := s.GetPolicy(ctx, policyID)
	if err != nil {
		return nil, err
	}
	return policy.Claims, nil
}

func (s *PolicyService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", event.Type).Msg("publish event failed")
	}
}
