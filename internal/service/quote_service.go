package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/WoodenTech/fleetcover/internal/config"
	"github.com/WoodenTech/fleetcover/internal/events"
	"github.com/WoodenTech/fleetcover/internal/metrics"
	"github.com/WoodenTech/fleetcover/internal/model"
	"github.com/WoodenTech/fleetcover/internal/rating"
)

var oneHundred = decimal.NewFromInt(100)

type QuoteService struct {
	products  ProductStore
	quotes    QuoteStore
	cfg       *config.Config
	metrics   *metrics.Registry
	publisher events.Publisher
	log       zerolog.Logger
}

func NewQuoteService(
	products ProductStore,
	quotes QuoteStore,
	cfg *config.Config,
	reg *metrics.Registry,
	publisher events.Publisher,
	log zerolog.Logger,
) *QuoteService {
	return &QuoteService{
		products:  products,
		quotes:    quotes,
		cfg:       cfg,
		metrics:   reg,
		publisher: publisher,
		log:       log,
	}
}

type CreateQuoteInput struct {
	FleetManagerID     uuid.UUID
	BrokerID           uuid.UUID
	ProductID          uuid.UUID
	VehicleIDs         []string
	RequestedCoverages []model.Coverage
}

// CreateQuote prices the request against the product and persists the quote
// in GENERATED status. TotalPremium is BasePremium + BrokerMarkup by
// construction and never recomputed afterwards.
func (s *QuoteService) CreateQuote(ctx context.Context, input CreateQuoteInput) (*model.Quote, error) {
	if input.FleetManagerID == uuid.Nil || input.BrokerID == uuid.Nil {
		return nil, fmt.Errorf("%w: fleet manager and broker ids are required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	product, err := s.resolveProduct(ctx, input.ProductID, now)
	if err != nil {
		return nil, err
	}

	basePremium := rating.ComputePremium(product, input.VehicleIDs, input.RequestedCoverages)
	brokerMarkup := basePremium.Mul(product.BrokerMarkupPercentage).Div(oneHundred)
	totalPremium := basePremium.Add(brokerMarkup)

	quote := &model.Quote{
		QuoteNumber:       refNumber("QTE", now),
		FleetManagerID:    input.FleetManagerID,
		BrokerID:          input.BrokerID,
		ProductID:         product.ID,
		VehicleIDs:        input.VehicleIDs,
		SelectedCoverages: input.RequestedCoverages,
		BasePremium:       basePremium,
		BrokerMarkup:      brokerMarkup,
		TotalPremium:      totalPremium,
		ValidUntil:        now.AddDate(0, 0, s.cfg.Quotes.ValidityDays),
		Status:            model.QuoteStatusGenerated,
	}

	if err := s.quotes.Insert(ctx, quote); err != nil {
		return nil, fmt.Errorf("insert quote: %w", err)
	}

	s.metrics.QuotesCreated.Inc()
	s.publish(ctx, events.Event{
		Type:    events.TypeQuoteCreated,
		QuoteID: &quote.ID,
		Number:  quote.QuoteNumber,
		Status:  string(quote.Status),
	})
	s.log.Info().
		Str("quote_number", quote.QuoteNumber).
		Str("total_premium", quote.TotalPremium.String()).
		Msg("quote created")

	return quote, nil
}

// PreviewQuote prices a request without persisting anything. The result has
// no number, id or status.
func (s *QuoteService) PreviewQuote(ctx context.Context, productID uuid.UUID, vehicleIDs []string, coverages []model.Coverage) (*model.Quote, error) {
	now := time.Now().UTC()
	product, err := s.resolveProduct(ctx, productID, now)
	if err != nil {
		return nil, err
	}

	basePremium := rating.ComputePremium(product, vehicleIDs, coverages)
	brokerMarkup := basePremium.Mul(product.BrokerMarkupPercentage).Div(oneHundred)

	return &model.Quote{
		ProductID:         product.ID,
		VehicleIDs:        vehicleIDs,
		SelectedCoverages: coverages,
		BasePremium:       basePremium,
		BrokerMarkup:      brokerMarkup,
		TotalPremium:      basePremium.Add(brokerMarkup),
		ValidUntil:        now.AddDate(0, 0, s.cfg.Quotes.ValidityDays),
	}, nil
}

func (s *QuoteService) GetQuote(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	quote, err := s.quotes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) ListQuotes(ctx context.Context, filter model.QuoteFilter) ([]model.Quote, error) {
	return s.quotes.List(ctx, filter)
}

// AcceptQuote flips GENERATED to ACCEPTED. A false result means no quote was
// in a state to accept; callers must check it rather than expect an error.
func (s *QuoteService) AcceptQuote(ctx context.Context, id uuid.UUID) (bool, error) {
	updated, err := s.quotes.UpdateStatus(ctx, id, model.QuoteStatusGenerated, model.QuoteStatusAccepted, "")
	if err != nil {
		return false, err
	}
	if updated {
		s.metrics.QuotesAccepted.Inc()
		s.publish(ctx, events.Event{
			Type:    events.TypeQuoteAccepted,
			QuoteID: &id,
			Status:  string(model.QuoteStatusAccepted),
		})
	}
	return updated, nil
}

// DeclineQuote records a free-text reason alongside the transition.
func (s *QuoteService) DeclineQuote(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	updated, err := s.quotes.UpdateStatus(ctx, id, model.QuoteStatusGenerated, model.QuoteStatusDeclined, reason)
	if err != nil {
		return false, err
	}
	if updated {
		s.metrics.QuotesDeclined.Inc()
		s.publish(ctx, events.Event{
			Type:    events.TypeQuoteDeclined,
			QuoteID: &id,
			Status:  string(model.QuoteStatusDeclined),
		})
	}
	return updated, nil
}

func (s *QuoteService) ExpireQuote(ctx context.Context, id uuid.UUID) (bool, error) {
	updated, err := s.quotes.UpdateStatus(ctx, id, model.QuoteStatusGenerated, model.QuoteStatusExpired, "")
	if err != nil {
		return false, err
	}
	if updated {
		s.metrics.QuotesExpired.Inc()
		s.publish(ctx, events.Event{
			Type:    events.TypeQuoteExpired,
			QuoteID: &id,
			Status:  string(model.QuoteStatusExpired),
		})
	}
	return updated, nil
}

// ExpireStaleQuotes is one pass of the validity sweep: every GENERATED quote
// past its valid_until flips to EXPIRED.
func (s *QuoteService) ExpireStaleQuotes(ctx context.Context) (int64, error) {
	count, err := s.quotes.ExpireStale(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.metrics.QuotesExpired.Add(float64(count))
		s.log.Info().Int64("count", count).Msg("expired stale quotes")
	}
	return count, nil
}

// RunExpirySweep drives ExpireStaleQuotes on the configured interval until
// the context is cancelled.
func (s *QuoteService) RunExpirySweep(ctx context.Context) {
	interval := s.cfg.Quotes.SweepInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ExpireStaleQuotes(ctx); err != nil {
				s.log.Error().Err(err).Msg("expiry sweep failed")
			}
		}
	}
}

func (s *QuoteService) resolveProduct(ctx context.Context, productID uuid.UUID, now time.Time) (*model.Product, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, err
	}
	if s.cfg.Quotes.RejectInactiveProducts {
		if !product.IsActive || !product.AvailableAt(now) {
			return nil, fmt.Errorf("%w: product %s is not available", ErrNotFound, productID)
		}
	}
	return product, nil
}

func (s *QuoteService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", event.Type).Msg("publish event failed")
	}
}
