package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/WoodenTech/fleetcover/internal/model"
)

// ErrQuoteStateChanged reports that the source quote left ACCEPTED between
// the bind precondition check and the transactional flip. The policy insert
// is rolled back with it.
var ErrQuoteStateChanged = errors.New("quote no longer accepted")

type PolicyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

type policyRow struct {
	ID               uuid.UUID
	PolicyNumber     string
	QuoteID          uuid.UUID
	FleetManagerID   uuid.UUID
	BrokerID         uuid.UUID
	ProviderID       uuid.UUID
	ProductID        uuid.UUID
	VehicleIDs       []byte
	CoverageDetails  []byte
	PremiumAmount    decimal.Decimal
	BrokerCommission decimal.Decimal
	EffectiveDate    time.Time
	ExpirationDate   time.Time
	Status           model.PolicyStatus
	Claims           []byte
	Documents        []byte
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const policyColumns = `
	id,
	policy_number,
	quote_id,
	fleet_manager_id,
	broker_id,
	provider_id,
	product_id,
	vehicle_ids,
	coverage_details,
	premium_amount,
	broker_commission,
	effective_date,
	expiration_date,
	status,
	claims,
	documents,
	created_at,
	updated_at
`

// CreateFromQuote persists a freshly bound policy and flips its source quote
// from ACCEPTED to CONVERTED in the same transaction. Either both writes
// commit or neither does; a quote raced out of ACCEPTED rolls the policy
// back and returns ErrQuoteStateChanged.
func (r *PolicyRepository) CreateFromQuote(ctx context.Context, policy *model.Policy) error {
	vehicleIDs, err := marshalList(policy.VehicleIDs)
	if err != nil {
		return err
	}
	coverages, err := marshalList(policy.CoverageDetails)
	if err != nil {
		return err
	}
	claims, err := marshalList(policy.Claims)
	if err != nil {
		return err
	}
	documents, err := marshalList(policy.Documents)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if policy.ID == uuid.Nil {
		policy.ID = uuid.New()
	}
	policy.CreatedAt = now
	policy.UpdatedAt = now

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO insurance_policies (
				id,
				policy_number,
				quote_id,
				fleet_manager_id,
				broker_id,
				provider_id,
				product_id,
				vehicle_ids,
				coverage_details,
				premium_amount,
				broker_commission,
				effective_date,
				expiration_date,
				status,
				claims,
				documents,
				created_at,
				updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			policy.ID,
			policy.PolicyNumber,
			policy.QuoteID,
			policy.FleetManagerID,
			policy.BrokerID,
			policy.ProviderID,
			policy.ProductID,
			vehicleIDs,
			coverages,
			policy.PremiumAmount,
			policy.BrokerCommission,
			policy.EffectiveDate,
			policy.ExpirationDate,
			policy.Status,
			claims,
			documents,
			policy.CreatedAt,
			policy.UpdatedAt,
		).Error; err != nil {
			return err
		}

		flip := tx.Exec(`
			UPDATE quotes
			SET status = ?, updated_at = NOW()
			WHERE id = ? AND status = ?
		`, model.QuoteStatusConverted, policy.QuoteID, model.QuoteStatusAccepted)
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return ErrQuoteStateChanged
		}
		return nil
	})
}

func (r *PolicyRepository) Get(ctx context.Context, id uuid.UUID) (*model.Policy, error) {
	var row policyRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+policyColumns+`
		FROM insurance_policies
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return policyFromRow(row)
}

func (r *PolicyRepository) List(ctx context.Context, filter model.PolicyFilter) ([]model.Policy, error) {
	baseQuery := `SELECT ` + policyColumns + ` FROM insurance_policies`
	var args []interface{}
	var filters []string

	if filter.FleetManagerID != nil {
		filters = append(filters, "fleet_manager_id = ?")
		args = append(args, *filter.FleetManagerID)
	}
	if filter.BrokerID != nil {
		filters = append(filters, "broker_id = ?")
		args = append(args, *filter.BrokerID)
	}
	if filter.ProviderID != nil {
		filters = append(filters, "provider_id = ?")
		args = append(args, *filter.ProviderID)
	}
	if filter.Status != nil {
		filters = append(filters, "status = ?")
		args = append(args, *filter.Status)
	}
	if len(filters) > 0 {
		baseQuery += " WHERE " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	var rows []policyRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return policiesFromRows(rows)
}

func (r *PolicyRepository) ListByBrokerBetween(ctx context.Context, brokerID uuid.UUID, start, end time.Time) ([]model.Policy, error) {
	var rows []policyRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+policyColumns+`
		FROM insurance_policies
		WHERE broker_id = ?
			AND effective_date >= ?
			AND effective_date <= ?
		ORDER BY effective_date ASC
	`, brokerID, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return policiesFromRows(rows)
}

func (r *PolicyRepository) ListByProviderBetween(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]model.Policy, error) {
	var rows []policyRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+policyColumns+`
		FROM insurance_policies
		WHERE provider_id = ?
			AND effective_date >= ?
			AND effective_date <= ?
		ORDER BY effective_date ASC
	`, providerID, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return policiesFromRows(rows)
}

// UpdateStatus is the same compare-and-swap shape as the quote transition.
func (r *PolicyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.PolicyStatus) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE insurance_policies
		SET status = ?, updated_at = NOW()
		WHERE id = ? AND status = ?
	`, to, id, from)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PolicyRepository) Renew(ctx context.Context, id uuid.UUID, newExpiration time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE insurance_policies
		SET expiration_date = ?, updated_at = NOW()
		WHERE id = ? AND status = ?
	`, newExpiration, id, model.PolicyStatusActive)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AppendClaim pushes a claim onto the policy's claims list atomically via
// jsonb concatenation.
func (r *PolicyRepository) AppendClaim(ctx context.Context, id uuid.UUID, claim model.Claim) (bool, error) {
	data, err := marshalList([]model.Claim{claim})
	if err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).Exec(`
		UPDATE insurance_policies
		SET claims = claims || ?::jsonb, updated_at = NOW()
		WHERE id = ?
	`, data, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PolicyRepository) ReplaceClaims(ctx context.Context, id uuid.UUID, claims []model.Claim) (bool, error) {
	data, err := marshalList(claims)
	if err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).Exec(`
		UPDATE insurance_policies
		SET claims = ?, updated_at = NOW()
		WHERE id = ?
	`, data, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func policyFromRow(row policyRow) (*model.Policy, error) {
	policy := &model.Policy{
		ID:               row.ID,
		PolicyNumber:     row.PolicyNumber,
		QuoteID:          row.QuoteID,
		FleetManagerID:   row.FleetManagerID,
		BrokerID:         row.BrokerID,
		ProviderID:       row.ProviderID,
		ProductID:        row.ProductID,
		PremiumAmount:    row.PremiumAmount,
		BrokerCommission: row.BrokerCommission,
		EffectiveDate:    row.EffectiveDate,
		ExpirationDate:   row.ExpirationDate,
		Status:           row.Status,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if err := unmarshalList(row.VehicleIDs, &policy.VehicleIDs); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.CoverageDetails, &policy.CoverageDetails); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.Claims, &policy.Claims); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.Documents, &policy.Documents); err != nil {
		return nil, err
	}
	return policy, nil
}

func policiesFromRows(rows []policyRow) ([]model.Policy, error) {
	policies := make([]model.Policy, 0, len(rows))
	for _, row := range rows {
		policy, err := policyFromRow(row)
		if err != nil {
			return nil, err
		}
		policies = append(policies, *policy)
	}
	return policies, nil
}
