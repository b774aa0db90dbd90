package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/pagination"
	"marketplace/internal/services"
)

// PartnerHandler handles partner institution requests.
type PartnerHandler struct {
	partnerService services.PartnerServicer
}

// NewPartnerHandler creates a new PartnerHandler.
func NewPartnerHandler(partnerService services.PartnerServicer) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// CreatePartnerRequest represents the request payload for onboarding a partner.
type CreatePartnerRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Code         string `json:"code" binding:"required,min=2,max=20"`
	Description  string `json:"description" binding:"max=1000"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	LogoURL      string `json:"logo_url" binding:"omitempty,url"`
}

// CreatePartner handles onboarding a new partner.
// @Summary     Create partner
// @Description Onboard a new partner institution
// @Tags        partners
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePartnerRequest true "Partner details"
// @Success     201 {object} models.Partner "Partner created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate code"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partners [post]
func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	partner, err := h.partnerService.CreatePartner(req.Name, req.Code, req.Description, req.ContactEmail, req.LogoURL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"partner": partner})
}

// GetPartners handles listing partners.
// @Summary     List partners
// @Description Get a paginated list of partner institutions
// @Tags        partners
// @Accept      json
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Partner] "Paginated partners"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partners [get]
func (h *PartnerHandler) GetPartners(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.partnerService.ListPartners(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPartner handles fetching a single partner.
// @Summary     Get partner
// @Description Get a partner institution by ID
// @Tags        partners
// @Accept      json
// @Produce     json
// @Param       id path string true "Partner ID"
// @Success     200 {object} models.Partner "Partner"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Partner not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partners/{id} [get]
func (h *PartnerHandler) GetPartner(c *gin.Context) {
	partnerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	partner, err := h.partnerService.GetPartnerByID(partnerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"partner": partner})
}
