package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/WoodenTech/fleetcover/internal/model"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

type quoteRow struct {
	ID                uuid.UUID
	QuoteNumber       string
	FleetManagerID    uuid.UUID
	BrokerID          uuid.UUID
	ProductID         uuid.UUID
	VehicleIDs        []byte
	SelectedCoverages []byte
	BasePremium       decimal.Decimal
	BrokerMarkup      decimal.Decimal
	TotalPremium      decimal.Decimal
	ValidUntil        time.Time
	Status            model.QuoteStatus
	DeclineReason     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const quoteColumns = `
	id,
	quote_number,
	fleet_manager_id,
	broker_id,
	product_id,
	vehicle_ids,
	selected_coverages,
	base_premium,
	broker_markup,
	total_premium,
	valid_until,
	status,
	decline_reason,
	created_at,
	updated_at
`

func (r *QuoteRepository) Insert(ctx context.Context, quote *model.Quote) error {
	vehicleIDs, err := marshalList(quote.VehicleIDs)
	if err != nil {
		return err
	}
	coverages, err := marshalList(quote.SelectedCoverages)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	quote.CreatedAt = now
	quote.UpdatedAt = now

	return r.db.WithContext(ctx).Exec(`
		INSERT INTO quotes (
			id,
			quote_number,
			fleet_manager_id,
			broker_id,
			product_id,
			vehicle_ids,
			selected_coverages,
			base_premium,
			broker_markup,
			total_premium,
			valid_until,
			status,
			decline_reason,
			created_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		quote.ID,
		quote.QuoteNumber,
		quote.FleetManagerID,
		quote.BrokerID,
		quote.ProductID,
		vehicleIDs,
		coverages,
		quote.BasePremium,
		quote.BrokerMarkup,
		quote.TotalPremium,
		quote.ValidUntil,
		quote.Status,
		quote.DeclineReason,
		quote.CreatedAt,
		quote.UpdatedAt,
	).Error
}

func (r *QuoteRepository) Get(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var row quoteRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return quoteFromRow(row)
}

func (r *QuoteRepository) List(ctx context.Context, filter model.QuoteFilter) ([]model.Quote, error) {
	baseQuery := `SELECT ` + quoteColumns + ` FROM quotes`
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
	if filter.Status != nil {
		filters = append(filters, "status = ?")
		args = append(args, *filter.Status)
	}
	if len(filters) > 0 {
		baseQuery += " WHERE " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	var rows []quoteRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	quotes := make([]model.Quote, 0, len(rows))
	for _, row := range rows {
		quote, err := quoteFromRow(row)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *quote)
	}
	return quotes, nil
}

// UpdateStatus flips a quote from one status to another. The source-status
// guard makes the update a compare-and-swap: concurrent transitions on the
// same quote resolve to exactly one winner, the rest observe false.
func (r *QuoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.QuoteStatus, reason string) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE quotes
		SET status = ?, decline_reason = ?, updated_at = NOW()
		WHERE id = ? AND status = ?
	`, to, reason, id, from)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ExpireStale flips every GENERATED quote whose validity window has passed.
func (r *QuoteRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE quotes
		SET status = ?, updated_at = NOW()
		WHERE status = ? AND valid_until < ?
	`, model.QuoteStatusExpired, model.QuoteStatusGenerated, now)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func quoteFromRow(row quoteRow) (*model.Quote, error) {
	quote := &model.Quote{
		ID:             row.ID,
		QuoteNumber:    row.QuoteNumber,
		FleetManagerID: row.FleetManagerID,
		BrokerID:       row.BrokerID,
		ProductID:      row.ProductID,
		BasePremium:    row.BasePremium,
		BrokerMarkup:   row.BrokerMarkup,
		TotalPremium:   row.TotalPremium,
		ValidUntil:     row.ValidUntil,
		Status:         row.Status,
		DeclineReason:  row.DeclineReason,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if err := unmarshalList(row.VehicleIDs, &quote.VehicleIDs); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.SelectedCoverages, &quote.SelectedCoverages); err != nil {
		return nil, err
	}
	return quote, nil
}
