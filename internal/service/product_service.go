package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/WoodenTech/fleetcover/internal/model"
)

type ProductService struct {
	products ProductStore
	log      zerolog.Logger
}

func NewProductService(products ProductStore, log zerolog.Logger) *ProductService {
	return &ProductService{products: products, log: log}
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, activeOnly bool) ([]model.Product, error) {
	return s.products.List(ctx, activeOnly)
}

func (s *ProductService) SearchProducts(ctx context.Context, criteria model.ProductSearchCriteria) ([]model.Product, error) {
	if criteria.FleetSize < 0 {
		return nil, fmt.Errorf("%w: fleet_size must not be negative", ErrInvalidInput)
	}
	return s.products.Search(ctx, criteria)
}

func (s *ProductService) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	if product.ProviderID == uuid.Nil {
		return nil, fmt.Errorf("%w: provider_id is required", ErrInvalidInput)
	}
	if product.Name == "" || product.ProductCode == "" {
		return nil, fmt.Errorf("%w: name and product_code are required", ErrInvalidInput)
	}
	if product.BaseRate.IsNegative() {
		return nil, fmt.Errorf("%w: base_rate must not be negative", ErrInvalidInput)
	}
	if product.MinimumFleetSize < 1 {
		product.MinimumFleetSize = 1
	}
	if product.MaximumFleetSize < product.MinimumFleetSize {
		return nil, fmt.Errorf("%w: maximum_fleet_size below minimum_fleet_size", ErrInvalidInput)
	}
	for _, factor := range product.RatingFactors {
		if !factor.Multiplier.IsPositive() {
			return nil, fmt.Errorf("%w: rating factor %q multiplier must be positive", ErrInvalidInput, factor.Name)
		}
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info().Str("product_code", product.ProductCode).Msg("product created")
	return product, nil
}

// UpdateProductRates lets a provider retarget the base rate and individual
// factor multipliers of one of its own products. Unknown factor names are
// skipped, matching the reference behavior. False means the product does not
// exist or belongs to a different provider.
func (s *ProductService) UpdateProductRates(
	ctx context.Context,
	providerID, productID uuid.UUID,
	newBaseRate decimal.Decimal,
	factorUpdates []model.RatingFactorUpdate,
) (bool, error) {
	if newBaseRate.IsNegative() {
		return false, fmt.Errorf("%w: base_rate must not be negative", ErrInvalidInput)
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if product.ProviderID != providerID {
		return false, nil
	}

	product.BaseRate = newBaseRate
	for _, update := range factorUpdates {
		for i := range product.RatingFactors {
			if product.RatingFactors[i].Name == update.FactorName {
				product.RatingFactors[i].Multiplier = update.NewMultiplier
			}
		}
	}

	return s.products.Replace(ctx, product)
}
