package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/pagination"
	"marketplace/internal/services"
)

// InvestmentHandler handles investment transaction requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// CreateInvestmentRequest represents the request payload for placing an investment.
type CreateInvestmentRequest struct {
	AssetID       string          `json:"asset_id" binding:"required,uuid"`
	ProductID     *string         `json:"product_id" binding:"omitempty,uuid"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required,payment_method"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// CancelInvestmentRequest represents the request payload for cancelling an investment.
type CancelInvestmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// listInvestmentsQuery holds list filters bound from the query string.
type listInvestmentsQuery struct {
	pagination.PageRequest
	Status  string `form:"status" binding:"omitempty,investment_status"`
	AssetID string `form:"asset_id" binding:"omitempty,uuid"`
}

// CreateInvestment handles placing a new investment order.
// @Summary     Create investment
// @Description Validate and place an investment order for the authenticated customer
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateInvestmentRequest true "Investment details"
// @Success     201 {object} models.Investment "Investment created"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investment, err := h.investmentService.CreateInvestment(services.CreateInvestmentInput{
		CustomerID:    customerID,
		AssetID:       req.AssetID,
		ProductID:     req.ProductID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		IPAddress:     c.ClientIP(),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"investment": investment})
}

// GetInvestments handles listing the customer's investments.
// @Summary     List investments
// @Description Get a paginated list of the authenticated customer's investments
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       status    query string false "Filter by investment status"
// @Param       asset_id  query string false "Filter by asset"
// @Success     200 {object} pagination.PageResponse[models.Investment] "Paginated investments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [get]
func (h *InvestmentHandler) GetInvestments(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listInvestmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.InvestmentFilter
	if query.Status != "" {
		status := models.InvestmentStatus(query.Status)
		filter.Status = &status
	}
	if query.AssetID != "" {
		filter.AssetID = &query.AssetID
	}

	result, err := h.investmentService.GetCustomerInvestments(customerID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvestment handles fetching a single investment.
// @Summary     Get investment
// @Description Get one of the authenticated customer's investments by ID
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} models.Investment "Investment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [get]
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.GetInvestmentByID(customerID, investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// CancelInvestment handles cancelling a pending investment.
// @Summary     Cancel investment
// @Description Cancel a PENDING or PROCESSING investment and reverse its holding
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true  "Investment ID"
// @Param       request body CancelInvestmentRequest false "Cancellation reason"
// @Success     200 {object} models.Investment "Cancelled investment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     422 {object} ErrorResponse "Investment not cancellable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id}/cancel [post]
func (h *InvestmentHandler) CancelInvestment(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CancelInvestmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	investment, err := h.investmentService.CancelInvestment(customerID, investmentID, req.Reason, c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}
