package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/WoodenTech/fleetcover/internal/events"
	"github.com/WoodenTech/fleetcover/internal/metrics"
	"github.com/WoodenTech/fleetcover/internal/model"
)

func acceptedQuote(product *model.Product) *model.Quote {
	return &model.Quote{
		QuoteNumber:    "QTE-20260801-ABCDEF01",
		FleetManagerID: uuid.New(),
		BrokerID:       uuid.New(),
		ProductID:      product.ID,
		VehicleIDs:     []string{"v1", "v2"},
		SelectedCoverages: []model.Coverage{
			{Type: model.CoverageTypeLiability, Premium: dec("50")},
		},
		BasePremium:  dec("300"),
		BrokerMarkup: dec("30"),
		TotalPremium: dec("330"),
		ValidUntil:   time.Now().UTC().Add(24 * time.Hour),
		Status:       model.QuoteStatusAccepted,
	}
}

func newPolicyService(policies *fakePolicyStore, quotes QuoteStore, products *fakeProductStore, pub *capturePublisher) *PolicyService {
	return NewPolicyService(policies, quotes, products, testConfig(), metrics.NewRegistry(), pub, zerolog.Nop())
}

func TestBindPolicyFromQuote(t *testing.T) {
	product := testProduct()
	quote := acceptedQuote(product)
	quotes := newFakeQuoteStore(quote)
	policies := newFakePolicyStore(quotes)
	pub := &capturePublisher{}
	svc := newPolicyService(policies, quotes, newFakeProductStore(product), pub)

	policy, err := svc.BindPolicyFromQuote(context.Background(), quote.ID, quote.BrokerID)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if !policy.PremiumAmount.Equal(quote.TotalPremium) {
		t.Fatalf("premium %s is not the quote total %s", policy.PremiumAmount, quote.TotalPremium)
	}
	if !policy.BrokerCommission.Equal(quote.BrokerMarkup) {
		t.Fatalf("commission %s is not the quote markup %s", policy.BrokerCommission, quote.BrokerMarkup)
	}
	if policy.Status != model.PolicyStatusActive {
		t.Fatalf("expected ACTIVE, got %s", policy.Status)
	}
	if policy.ProviderID != product.ProviderID {
		t.Fatalf("provider %s, want %s", policy.ProviderID, product.ProviderID)
	}
	if !strings.HasPrefix(policy.PolicyNumber, "POL-") {
		t.Fatalf("unexpected policy number %q", policy.PolicyNumber)
	}

	wantExpiry := policy.EffectiveDate.AddDate(0, 12, 0)
	if !policy.ExpirationDate.Equal(wantExpiry) {
		t.Fatalf("expiration %s, want %s", policy.ExpirationDate, wantExpiry)
	}

	if quotes.quotes[quote.ID].Status != model.QuoteStatusConverted {
		t.Fatalf("quote status is %s, want CONVERTED", quotes.quotes[quote.ID].Status)
	}
	if pub.lastType() != events.TypePolicyBound {
		t.Fatalf("expected %s event, got %q", events.TypePolicyBound, pub.lastType())
	}
}

func TestBindRejectsMissingQuote(t *testing.T) {
	quotes := newFakeQuoteStore()
	svc := newPolicyService(newFakePolicyStore(quotes), quotes, newFakeProductStore(), &capturePublisher{})

	_, err := svc.BindPolicyFromQuote(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrCannotBind) {
		t.Fatalf("expected ErrCannotBind, got %v", err)
	}
}

func TestBindRejectsWrongBroker(t *testing.T) {
	product := testProduct()
	quote := acceptedQuote(product)
	quotes := newFakeQuoteStore(quote)
	svc := newPolicyService(newFakePolicyStore(quotes), quotes, newFakeProductStore(product), &capturePublisher{})

	_, err := svc.BindPolicyFromQuote(context.Background(), quote.ID, uuid.New())
	if !errors.Is(err, ErrCannotBind) {
		t.Fatalf("expected ErrCannotBind, got %v", err)
	}
	if quotes.quotes[quote.ID].Status != model.QuoteStatusAccepted {
		t.Fatal("quote must stay ACCEPTED when bind is refused")
	}
}

func TestBindRejectsNonAcceptedQuote(t *testing.T) {
	product := testProduct()
	for _, status := range []model.QuoteStatus{
		model.QuoteStatusGenerated,
		model.QuoteStatusDeclined,
		model.QuoteStatusExpired,
		model.QuoteStatusConverted,
	} {
		quote := acceptedQuote(product)
		quote.Status = status
		quotes := newFakeQuoteStore(quote)
		svc := newPolicyService(newFakePolicyStore(quotes), quotes, newFakeProductStore(product), &capturePublisher{})

		if _, err := svc.BindPolicyFromQuote(context.Background(), quote.ID, quote.BrokerID); !errors.Is(err, ErrCannotBind) {
			t.Fatalf("status %s: expected ErrCannotBind, got %v", status, err)
		}
	}
}

// staleReadQuoteStore serves an ACCEPTED snapshot while the underlying quote
// has already moved on, the shape of a lost concurrent bind.
type staleReadQuoteStore struct {
	*fakeQuoteStore
}

func (s *staleReadQuoteStore) Get(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	quote, err := s.fakeQuoteStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	quote.Status = model.QuoteStatusAccepted
	return quote, nil
}

func TestBindLosesRaceToConcurrentBind(t *testing.T) {
	product := testProduct()
	quote := acceptedQuote(product)
	quote.Status = model.QuoteStatusConverted
	quotes := newFakeQuoteStore(quote)
	policies := newFakePolicyStore(quotes)
	svc := newPolicyService(policies, &staleReadQuoteStore{quotes}, newFakeProductStore(product), &capturePublisher{})

	_, err := svc.BindPolicyFromQuote(context.Background(), quote.ID, quote.BrokerID)
	if !errors.Is(err, ErrCannotBind) {
		t.Fatalf("expected ErrCannotBind on lost race, got %v", err)
	}
	if len(policies.policies) != 0 {
		t.Fatalf("no policy must exist after a lost race, found %d", len(policies.policies))
	}
}

func TestCancelPolicyOnlyWhenActive(t *testing.T) {
	policy := &model.Policy{Status: model.PolicyStatusActive}
	policies := newFakePolicyStore(nil, policy)
	pub := &capturePublisher{}
	svc := newPolicyService(policies, newFakeQuoteStore(), newFakeProductStore(), pub)

	ok, err := svc.CancelPolicy(context.Background(), policy.ID, "fleet sold")
	if err != nil || !ok {
		t.Fatalf("cancel: ok=%v err=%v", ok, err)
	}
	if policies.policies[policy.ID].Status != model.PolicyStatusCancelled {
		t.Fatalf("status is %s", policies.policies[policy.ID].Status)
	}
	if pub.lastType() != events.TypePolicyCancelled {
		t.Fatalf("expected %s event, got %q", events.TypePolicyCancelled, pub.lastType())
	}

	ok, err = svc.CancelPolicy(context.Background(), policy.ID, "again")
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if ok {
		t.Fatal("second cancel must be a no-op")
	}
}

func TestRenewPolicy(t *testing.T) {
	policy := &model.Policy{
		Status:         model.PolicyStatusActive,
		ExpirationDate: time.Now().UTC().AddDate(0, 1, 0),
	}
	policies := newFakePolicyStore(nil, policy)
	svc := newPolicyService(policies, newFakeQuoteStore(), newFakeProductStore(), &capturePublisher{})

	future := time.Now().UTC().AddDate(1, 0, 0)
	ok, err := svc.RenewPolicy(context.Background(), policy.ID, future)
	if err != nil || !ok {
		t.Fatalf("renew: ok=%v err=%v", ok, err)
	}
	if !policies.policies[policy.ID].ExpirationDate.Equal(future) {
		t.Fatalf("expiration not extended: %s", policies.policies[policy.ID].ExpirationDate)
	}
}

func TestRenewPolicyRejectsPastDate(t *testing.T) {
	policy := &model.Policy{Status: model.PolicyStatusActive}
	policies := newFakePolicyStore(nil, policy)
	svc := newPolicyService(policies, newFakeQuoteStore(), newFakeProductStore(), &capturePublisher{})

	_, err := svc.RenewPolicy(context.Background(), policy.ID, time.Now().UTC().Add(-time.Hour))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddClaim(t *testing.T) {
	policy := &model.Policy{Status: model.PolicyStatusActive}
	policies := newFakePolicyStore(nil, policy)
	svc := newPolicyService(policies, newFakeQuoteStore(), newFakeProductStore(), &capturePublisher{})

	claim, err := svc.AddClaim(context.Background(), policy.ID, model.Claim{
		VehicleID:   "v1",
		ClaimAmount: dec("1500"),
		Description: "rear-end collision",
	})
	if err != nil {
		t.Fatalf("add claim: %v", err)
	}
	if !strings.HasPrefix(claim.ClaimNumber, "CLM-") {
		t.Fatalf("unexpected claim number %q", claim.ClaimNumber)
	}
	if claim.Status != model.ClaimStatusPending {
		t.Fatalf("expected PENDING, got %s", claim.Status)
	}
	if len(policies.policies[policy.ID].Claims) != 1 {
		t.Fatalf("claim not appended")
	}
}

func TestAddClaimRejectsNegativeAmount(t *testing.T) {
	policy := &model.Policy{Status: model.PolicyStatusActive}
	policies := newFakePolicyStore(nil, policy)
	svc := newPolicyService(policies, newFakeQuoteStore(), newFakeProductStore(), &capturePublisher{})

	_, err := svc.AddClaim(context.Background(), policy.ID, model.Claim{ClaimAmount: dec("-1")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddClaimUnknownPolicy(t *testing.T) {
	policies := newFakePolicyStore(nil)
	svc := newPolicyService(policies, newFakeQuoteStore(), newFakeProductStore(), &capturePublisher{})

	_, err := svc.AddClaim(context.Background(), uuid.New(), model.Claim{ClaimAmount: dec("10")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateClaim(t *testing.T) {
	created := time.Now().UTC().Add(-48 * time.Hour)
	policy := &model.Policy{
		Status: model.PolicyStatusActive,
		Claims: []model.Claim{{
			ClaimNumber: "CLM-20260801-11111111",
			ClaimAmount: dec("1500"),
			Status:      model.ClaimStatusPending,
			CreatedAt:   created,
		}},
	}
	policies := newFakePolicyStore(nil, policy)
	svc := newPolicyService(policies, newFakeQuoteStore(), newFakeProductStore(), &capturePublisher{})

	ok, err := svc.UpdateClaim(context.Background(), policy.ID, "CLM-20260801-11111111", model.Claim{
		ClaimAmount: dec("1200"),
		Status:      model.ClaimStatusApproved,
	})
	if err != nil || !ok {
		t.Fatalf("update claim: ok=%v err=%v", ok, err)
	}

	got := policies.policies[policy.ID].Claims[0]
	if got.Status != model.ClaimStatusApproved || !got.ClaimAmount.Equal(dec("1200")) {
		t.Fatalf("claim not updated: %+v", got)
	}
	if got.ClaimNumber != "CLM-20260801-11111111" || !got.CreatedAt.Equal(created) {
		t.Fatal("claim number and created_at must survive an update")
	}
}

func TestUpdateClaimUnknownNumber(t *testing.T) {
	policy := &model.Policy{Status: model.PolicyStatusActive}
	policies := newFakePolicyStore(nil, policy)
	svc := newPolicyService(policies, newFakeQuoteStore(), newFakeProductStore(), &capturePublisher{})

	ok, err := svc.UpdateClaim(context.Background(), policy.ID, "CLM-MISSING", model.Claim{})
	if err != nil {
		t.Fatalf("update claim: %v", err)
	}
	if ok {
		t.Fatal("unknown claim number must report false")
	}
}

func TestListClaims(t *testing.T) {
	policy := &model.Policy{
		Status: model.PolicyStatusActive,
		Claims: []model.Claim{{ClaimNumber: "CLM-1"}, {ClaimNumber: "CLM-2"}},
	}
	policies := newFakePolicyStore(nil, policy)
	svc := newPolicyService(policies, newFakeQuoteStore(), newFakeProductStore(), &capturePublisher{})

	claims, err := svc.ListClaims(context.Background(), policy.ID)
	if err != nil {
		t.Fatalf("list claims: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}

	if _, err := svc.ListClaims(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
