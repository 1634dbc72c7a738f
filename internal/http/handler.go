package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/WoodenTech/fleetcover/internal/model"
	"github.com/WoodenTech/fleetcover/internal/service"
)

type Handler struct {
	products *service.ProductService
	quotes   *service.QuoteService
	policies *service.PolicyService
	reports  *service.ReportService
	log      zerolog.Logger
}

func NewHandler(
	products *service.ProductService,
	quotes *service.QuoteService,
	policies *service.PolicyService,
	reports *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		products: products,
		quotes:   quotes,
		policies: policies,
		reports:  reports,
		log:      log,
	}
}

func (h *Handler) Register(router *gin.Engine) {
	products := router.Group("/products")
	products.POST("", h.createProduct)
	products.GET("", h.listProducts)
	products.GET("/:id", h.getProduct)
	products.POST("/search", h.searchProducts)
	products.PUT("/:id/rates", h.updateProductRates)

	quotes := router.Group("/quotes")
	quotes.POST("", h.createQuote)
	quotes.POST("/preview", h.previewQuote)
	quotes.GET("", h.listQuotes)
	quotes.GET("/:id", h.getQuote)
	quotes.POST("/:id/accept", h.acceptQuote)
	quotes.POST("/:id/decline", h.declineQuote)
	quotes.POST("/:id/expire", h.expireQuote)

	policies := router.Group("/policies")
	policies.POST("/bind", h.bindPolicy)
	policies.GET("", h.listPolicies)
	policies.GET("/:id", h.getPolicy)
	policies.POST("/:id/cancel", h.cancelPolicy)
	policies.POST("/:id/renew", h.renewPolicy)
	policies.POST("/:id/claims", h.addClaim)
	policies.PUT("/:id/claims/:claimNumber", h.updateClaim)
	policies.GET("/:id/claims", h.listClaims)

	reports := router.Group("/reports")
	reports.GET("/commission", h.commissionReport)
	reports.GET("/commission/export", h.exportCommission)
	reports.GET("/business", h.businessReport)
	reports.GET("/business/export", h.exportBusiness)
}

type createProductRequest struct {
	ProviderID             string                   `json:"provider_id" binding:"required"`
	ProductCode            string                   `json:"product_code" binding:"required"`
	Name                   string                   `json:"name" binding:"required"`
	Description            string                   `json:"description"`
	BaseRate               decimal.Decimal          `json:"base_rate"`
	BrokerMarkupPercentage decimal.Decimal          `json:"broker_markup_percentage"`
	CoverageOptions        []model.CoverageOption   `json:"coverage_options"`
	RatingFactors          []model.RatingFactor     `json:"rating_factors"`
	UnderwritingRules      []model.UnderwritingRule `json:"underwriting_rules"`
	SupportedVehicleTypes  []model.VehicleType      `json:"supported_vehicle_types"`
	SupportedIndustryTypes []string                 `json:"supported_industry_types"`
	AvailableStates        []string                 `json:"available_states"`
	MinimumFleetSize       int                      `json:"minimum_fleet_size"`
	MaximumFleetSize       int                      `json:"maximum_fleet_size"`
	EffectiveDate          string                   `json:"effective_date"`
	ExpirationDate         string                   `json:"expiration_date"`
}

func (h *Handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	providerID, err := uuid.Parse(strings.TrimSpace(req.ProviderID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider_id"})
		return
	}

	product := &model.Product{
		ProviderID:             providerID,
		ProductCode:            req.ProductCode,
		Name:                   req.Name,
		Description:            req.Description,
		BaseRate:               req.BaseRate,
		BrokerMarkupPercentage: req.BrokerMarkupPercentage,
		CoverageOptions:        req.CoverageOptions,
		RatingFactors:          req.RatingFactors,
		UnderwritingRules:      req.UnderwritingRules,
		SupportedVehicleTypes:  req.SupportedVehicleTypes,
		SupportedIndustryTypes: req.SupportedIndustryTypes,
		AvailableStates:        req.AvailableStates,
		MinimumFleetSize:       req.MinimumFleetSize,
		MaximumFleetSize:       req.MaximumFleetSize,
		IsActive:               true,
		EffectiveDate:          time.Now().UTC(),
	}
	if req.MaximumFleetSize == 0 {
		product.MaximumFleetSize = 1000
	}
	if req.EffectiveDate != "" {
		effective, err := parseDate(req.EffectiveDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid effective_date"})
			return
		}
		product.EffectiveDate = effective
	}
	if req.ExpirationDate != "" {
		expiration, err := parseDate(req.ExpirationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiration_date"})
			return
		}
		product.ExpirationDate = &expiration
	}

	created, err := h.products.CreateProduct(c.Request.Context(), product)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listProducts(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	products, err := h.products.ListProducts(c.Request.Context(), activeOnly)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type searchProductsRequest struct {
	ProviderIDs  []string            `json:"provider_ids"`
	VehicleTypes []model.VehicleType `json:"vehicle_types"`
	States       []string            `json:"states"`
	FleetSize    int                 `json:"fleet_size"`
	MaxBaseRate  *decimal.Decimal    `json:"max_base_rate"`
}

func (h *Handler) searchProducts(c *gin.Context) {
	var req searchProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criteria := model.ProductSearchCriteria{
		VehicleTypes: req.VehicleTypes,
		States:       req.States,
		FleetSize:    req.FleetSize,
		MaxBaseRate:  req.MaxBaseRate,
	}
	for _, raw := range req.ProviderIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
			return
		}
		criteria.ProviderIDs = append(criteria.ProviderIDs, id)
	}

	products, err := h.products.SearchProducts(c.Request.Context(), criteria)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type updateRatesRequest struct {
	ProviderID    string          `json:"provider_id" binding:"required"`
	NewBaseRate   decimal.Decimal `json:"new_base_rate"`
	FactorUpdates []struct {
		FactorName    string          `json:"factor_name"`
		NewMultiplier decimal.Decimal `json:"new_multiplier"`
	} `json:"factor_updates"`
}

func (h *Handler) updateProductRates(c *gin.Context) {
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req updateRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	providerID, err := uuid.Parse(strings.TrimSpace(req.ProviderID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider_id"})
		return
	}

	updates := make([]model.RatingFactorUpdate, 0, len(req.FactorUpdates))
	for _, u := range req.FactorUpdates {
		updates = append(updates, model.RatingFactorUpdate{
			FactorName:    u.FactorName,
			NewMultiplier: u.NewMultiplier,
		})
	}

	updated, err := h.products.UpdateProductRates(c.Request.Context(), providerID, productID, req.NewBaseRate, updates)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found for provider"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

type createQuoteRequest struct {
	FleetManagerID     string           `json:"fleet_manager_id" binding:"required"`
	BrokerID           string           `json:"broker_id" binding:"required"`
	ProductID          string           `json:"product_id" binding:"required"`
	VehicleIDs         []string         `json:"vehicle_ids"`
	RequestedCoverages []model.Coverage `json:"requested_coverages"`
}

func (h *Handler) createQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fleetManagerID, err := uuid.Parse(strings.TrimSpace(req.FleetManagerID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fleet_manager_id"})
		return
	}
	brokerID, err := uuid.Parse(strings.TrimSpace(req.BrokerID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid broker_id"})
		return
	}
	productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
		return
	}

	quote, err := h.quotes.CreateQuote(c.Request.Context(), service.CreateQuoteInput{
		FleetManagerID:     fleetManagerID,
		BrokerID:           brokerID,
		ProductID:          productID,
		VehicleIDs:         req.VehicleIDs,
		RequestedCoverages: req.RequestedCoverages,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

type previewQuoteRequest struct {
	ProductID  string           `json:"product_id" binding:"required"`
	VehicleIDs []string         `json:"vehicle_ids"`
	Coverages  []model.Coverage `json:"coverages"`
}

func (h *Handler) previewQuote(c *gin.Context) {
	var req previewQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
		return
	}

	quote, err := h.quotes.PreviewQuote(c.Request.Context(), productID, req.VehicleIDs, req.Coverages)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) listQuotes(c *gin.Context) {
	var filter model.QuoteFilter
	if raw := c.Query("fleet_manager_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fleet_manager_id"})
			return
		}
		filter.FleetManagerID = &id
	}
	if raw := c.Query("broker_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid broker_id"})
			return
		}
		filter.BrokerID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := model.QuoteStatus(strings.ToUpper(raw))
		filter.Status = &status
	}

	quotes, err := h.quotes.ListQuotes(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

func (h *Handler) getQuote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quotes.GetQuote(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) acceptQuote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.transition(c, func() (bool, error) {
		return h.quotes.AcceptQuote(c.Request.Context(), id)
	})
}

type declineQuoteRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) declineQuote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req declineQuoteRequest
	// reason is free text and optional; an empty body declines without one
	_ = c.ShouldBindJSON(&req)
	h.transition(c, func() (bool, error) {
		return h.quotes.DeclineQuote(c.Request.Context(), id, req.Reason)
	})
}

func (h *Handler) expireQuote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.transition(c, func() (bool, error) {
		return h.quotes.ExpireQuote(c.Request.Context(), id)
	})
}

type bindPolicyRequest struct {
	QuoteID  string `json:"quote_id" binding:"required"`
	BrokerID string `json:"broker_id" binding:"required"`
}

func (h *Handler) bindPolicy(c *gin.Context) {
	var req bindPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quoteID, err := uuid.Parse(strings.TrimSpace(req.QuoteID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote_id"})
		return
	}
	brokerID, err := uuid.Parse(strings.TrimSpace(req.BrokerID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid broker_id"})
		return
	}

	policy, err := h.policies.BindPolicyFromQuote(c.Request.Context(), quoteID, brokerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, policy)
}

func (h *Handler) listPolicies(c *gin.Context) {
	var filter model.PolicyFilter
	if raw := c.Query("fleet_manager_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fleet_manager_id"})
			return
		}
		filter.FleetManagerID = &id
	}
	if raw := c.Query("broker_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid broker_id"})
			return
		}
		filter.BrokerID = &id
	}
	if raw := c.Query("provider_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider_id"})
			return
		}
		filter.ProviderID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := model.PolicyStatus(strings.ToUpper(raw))
		filter.Status = &status
	}

	policies, err := h.policies.ListPolicies(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

func (h *Handler) getPolicy(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	policy, err := h.policies.GetPolicy(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

type cancelPolicyRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) cancelPolicy(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req cancelPolicyRequest
	_ = c.ShouldBindJSON(&req)
	h.transition(c, func() (bool, error) {
		return h.policies.CancelPolicy(c.Request.Context(), id, req.Reason)
	})
}

type renewPolicyRequest struct {
	NewExpirationDate string `json:"new_expiration_date" binding:"required"`
}

func (h *Handler) renewPolicy(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req renewPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newExpiration, err := parseDate(req.NewExpirationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid new_expiration_date"})
		return
	}
	h.transition(c, func() (bool, error) {
		return h.policies.RenewPolicy(c.Request.Context(), id, newExpiration)
	})
}

type addClaimRequest struct {
	VehicleID   string          `json:"vehicle_id" binding:"required"`
	DateOfLoss  string          `json:"date_of_loss" binding:"required"`
	ClaimAmount decimal.Decimal `json:"claim_amount"`
	Description string          `json:"description"`
	AdjusterID  string          `json:"adjuster_id"`
}

func (h *Handler) addClaim(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req addClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dateOfLoss, err := parseDate(req.DateOfLoss)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_loss"})
		return
	}

	claim, err := h.policies.AddClaim(c.Request.Context(), id, model.Claim{
		VehicleID:   req.VehicleID,
		DateOfLoss:  dateOfLoss,
		ClaimAmount: req.ClaimAmount,
		Description: req.Description,
		AdjusterID:  req.AdjusterID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, claim)
}

type updateClaimRequest struct {
	VehicleID   string          `json:"vehicle_id"`
	DateOfLoss  string          `json:"date_of_loss"`
	ClaimAmount decimal.Decimal `json:"claim_amount"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	AdjusterID  string          `json:"adjuster_id"`
}

func (h *Handler) updateClaim(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	claimNumber := c.Param("claimNumber")

	var req updateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claim := model.Claim{
		VehicleID:   req.VehicleID,
		ClaimAmount: req.ClaimAmount,
		Status:      model.ClaimStatus(strings.ToUpper(req.Status)),
		Description: req.Description,
		AdjusterID:  req.AdjusterID,
	}
	if req.DateOfLoss != "" {
		dateOfLoss, err := parseDate(req.DateOfLoss)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_loss"})
			return
		}
		claim.DateOfLoss = dateOfLoss
	}

	h.transition(c, func() (bool, error) {
		return h.policies.UpdateClaim(c.Request.Context(), id, claimNumber, claim)
	})
}

func (h *Handler) listClaims(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	claims, err := h.policies.ListClaims(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

func (h *Handler) commissionReport(c *gin.Context) {
	brokerID, start, end, ok := h.reportWindow(c, "broker_id")
	if !ok {
		return
	}
	report, err := h.reports.CommissionReport(c.Request.Context(), brokerID, start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) exportCommission(c *gin.Context) {
	brokerID, start, end, ok := h.reportWindow(c, "broker_id")
	if !ok {
		return
	}
	result, err := h.reports.ExportCommission(c.Request.Context(), brokerID, start, end, c.Query("format"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.sendExport(c, result)
}

func (h *Handler) businessReport(c *gin.Context) {
	providerID, start, end, ok := h.reportWindow(c, "provider_id")
	if !ok {
		return
	}
	report, err := h.reports.BusinessReport(c.Request.Context(), providerID, start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) exportBusiness(c *gin.Context) {
	providerID, start, end, ok := h.reportWindow(c, "provider_id")
	if !ok {
		return
	}
	result, err := h.reports.ExportBusiness(c.Request.Context(), providerID, start, end, c.Query("format"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.sendExport(c, result)
}

func (h *Handler) sendExport(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) reportWindow(c *gin.Context, idParam string) (uuid.UUID, time.Time, time.Time, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Query(idParam)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + idParam})
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	start, err := parseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end"})
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	return id, start, end, true
}

// transition renders a status-flip result: 200 when it applied, 409 when no
// record was in a state to transition.
func (h *Handler) transition(c *gin.Context, fn func() (bool, error)) {
	updated, err := fn()
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusConflict, gin.H{"updated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCannotBind):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
