package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/WoodenTech/fleetcover/internal/model"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type productRow struct {
	ID                     uuid.UUID
	ProviderID             uuid.UUID
	ProductCode            string
	Name                   string
	Description            string
	BaseRate               decimal.Decimal
	BrokerMarkupPercentage decimal.Decimal
	CoverageOptions        []byte
	RatingFactors          []byte
	UnderwritingRules      []byte
	SupportedVehicleTypes  []byte
	SupportedIndustryTypes []byte
	AvailableStates        []byte
	MinimumFleetSize       int
	MaximumFleetSize       int
	IsActive               bool
	EffectiveDate          time.Time
	ExpirationDate         *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

const productColumns = `
	id,
	provider_id,
	product_code,
	name,
	description,
	base_rate,
	broker_markup_percentage,
	coverage_options,
	rating_factors,
	underwriting_rules,
	supported_vehicle_types,
	supported_industry_types,
	available_states,
	minimum_fleet_size,
	maximum_fleet_size,
	is_active,
	effective_date,
	expiration_date,
	created_at,
	updated_at
`

func (r *ProductRepository) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var row productRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+productColumns+`
		FROM insurance_products
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return productFromRow(row)
}

func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM insurance_products`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	var rows []productRow
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return productsFromRows(rows)
}

// Search filters the active catalog. Scalar criteria are pushed into SQL;
// vehicle type and state membership are checked after unmarshalling the
// JSONB lists.
func (r *ProductRepository) Search(ctx context.Context, criteria model.ProductSearchCriteria) ([]model.Product, error) {
	baseQuery := `
		SELECT ` + productColumns + `
		FROM insurance_products
		WHERE is_active
	`
	var args []interface{}
	var filters []string

	if len(criteria.ProviderIDs) > 0 {
		placeholders := make([]string, len(criteria.ProviderIDs))
		for i := range criteria.ProviderIDs {
			placeholders[i] = "?"
			args = append(args, criteria.ProviderIDs[i])
		}
		filters = append(filters, fmt.Sprintf("provider_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if criteria.FleetSize > 0 {
		filters = append(filters, "minimum_fleet_size <= ?", "maximum_fleet_size >= ?")
		args = append(args, criteria.FleetSize, criteria.FleetSize)
	}
	if criteria.MaxBaseRate != nil {
		filters = append(filters, "base_rate <= ?")
		args = append(args, *criteria.MaxBaseRate)
	}

	if len(filters) > 0 {
		baseQuery += " AND " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY name ASC"

	var rows []productRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	products, err := productsFromRows(rows)
	if err != nil {
		return nil, err
	}

	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if len(criteria.VehicleTypes) > 0 && !containsAnyVehicleType(p.SupportedVehicleTypes, criteria.VehicleTypes) {
			continue
		}
		if len(criteria.States) > 0 && !containsAnyString(p.AvailableStates, criteria.States) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	cols, err := marshalProductLists(product)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	return r.db.WithContext(ctx).Exec(`
		INSERT INTO insurance_products (
			id,
			provider_id,
			product_code,
			name,
			description,
			base_rate,
			broker_markup_percentage,
			coverage_options,
			rating_factors,
			underwriting_rules,
			supported_vehicle_types,
			supported_industry_types,
			available_states,
			minimum_fleet_size,
			maximum_fleet_size,
			is_active,
			effective_date,
			expiration_date,
			created_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		product.ID,
		product.ProviderID,
		product.ProductCode,
		product.Name,
		product.Description,
		product.BaseRate,
		product.BrokerMarkupPercentage,
		cols.coverageOptions,
		cols.ratingFactors,
		cols.underwritingRules,
		cols.vehicleTypes,
		cols.industryTypes,
		cols.states,
		product.MinimumFleetSize,
		product.MaximumFleetSize,
		product.IsActive,
		product.EffectiveDate,
		product.ExpirationDate,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

// Replace overwrites the mutable rating fields of an existing product and
// reports whether a row matched.
func (r *ProductRepository) Replace(ctx context.Context, product *model.Product) (bool, error) {
	cols, err := marshalProductLists(product)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE insurance_products
		SET
			base_rate = ?,
			broker_markup_percentage = ?,
			coverage_options = ?,
			rating_factors = ?,
			underwriting_rules = ?,
			is_active = ?,
			expiration_date = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		product.BaseRate,
		product.BrokerMarkupPercentage,
		cols.coverageOptions,
		cols.ratingFactors,
		cols.underwritingRules,
		product.IsActive,
		product.ExpirationDate,
		product.ID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type productListColumns struct {
	coverageOptions   []byte
	ratingFactors     []byte
	underwritingRules []byte
	vehicleTypes      []byte
	industryTypes     []byte
	states            []byte
}

func marshalProductLists(product *model.Product) (productListColumns, error) {
	var cols productListColumns
	var err error
	if cols.coverageOptions, err = marshalList(product.CoverageOptions); err != nil {
		return cols, err
	}
	if cols.ratingFactors, err = marshalList(product.RatingFactors); err != nil {
		return cols, err
	}
	if cols.underwritingRules, err = marshalList(product.UnderwritingRules); err != nil {
		return cols, err
	}
	if cols.vehicleTypes, err = marshalList(product.SupportedVehicleTypes); err != nil {
		return cols, err
	}
	if cols.industryTypes, err = marshalList(product.SupportedIndustryTypes); err != nil {
		return cols, err
	}
	if cols.states, err = marshalList(product.AvailableStates); err != nil {
		return cols, err
	}
	return cols, nil
}

func productFromRow(row productRow) (*model.Product, error) {
	product := &model.Product{
		ID:                     row.ID,
		ProviderID:             row.ProviderID,
		ProductCode:            row.ProductCode,
		Name:                   row.Name,
		Description:            row.Description,
		BaseRate:               row.BaseRate,
		BrokerMarkupPercentage: row.BrokerMarkupPercentage,
		MinimumFleetSize:       row.MinimumFleetSize,
		MaximumFleetSize:       row.MaximumFleetSize,
		IsActive:               row.IsActive,
		EffectiveDate:          row.EffectiveDate,
		ExpirationDate:         row.ExpirationDate,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}
	if err := unmarshalList(row.CoverageOptions, &product.CoverageOptions); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.RatingFactors, &product.RatingFactors); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.UnderwritingRules, &product.UnderwritingRules); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.SupportedVehicleTypes, &product.SupportedVehicleTypes); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.SupportedIndustryTypes, &product.SupportedIndustryTypes); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.AvailableStates, &product.AvailableStates); err != nil {
		return nil, err
	}
	return product, nil
}

func productsFromRows(rows []productRow) ([]model.Product, error) {
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		product, err := productFromRow(row)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func marshalList(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb column: %w", err)
	}
	if string(data) == "null" {
		data = []byte("[]")
	}
	return data, nil
}

func unmarshalList(data []byte, target interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshal jsonb column: %w", err)
	}
	return nil
}

func containsAnyVehicleType(have []model.VehicleType, want []model.VehicleType) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func containsAnyString(have []string, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
