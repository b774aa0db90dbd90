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

// ProductHandler handles partner product listing requests.
type ProductHandler struct {
	productService services.ProductServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.ProductServicer) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest represents the request payload for creating a product.
type CreateProductRequest struct {
	PartnerID     string          `json:"partner_id" binding:"required,uuid"`
	AssetID       string          `json:"asset_id" binding:"required,uuid"`
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Description   string          `json:"description" binding:"max=1000"`
	Category      string          `json:"category" binding:"max=100"`
	MinInvestment decimal.Decimal `json:"min_investment"`
}

// UpdateProductStatusRequest represents a product status transition.
type UpdateProductStatusRequest struct {
	Status models.ProductStatus `json:"status" binding:"required,oneof=DRAFT PENDING_APPROVAL APPROVED REJECTED ARCHIVED"`
}

// listProductsQuery holds product list filters bound from the query string.
type listProductsQuery struct {
	pagination.PageRequest
	PartnerID string `form:"partner_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT PENDING_APPROVAL APPROVED REJECTED ARCHIVED"`
}

// CreateProduct handles creating a new product listing.
// @Summary     Create product
// @Description Create a new product listing for a partner's asset
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProductRequest true "Product details"
// @Success     201 {object} models.Product "Product created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Partner or asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(
		req.PartnerID, req.AssetID, req.Name, req.Description, req.Category, req.MinInvestment,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// GetProducts handles listing products.
// @Summary     List products
// @Description Get a paginated list of products, optionally filtered by partner and status
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       partner_id query string false "Filter by partner"
// @Param       status     query string false "Filter by status"
// @Success     200 {object} pagination.PageResponse[models.Product] "Paginated products"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products [get]
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var query listProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var partnerID *string
	if query.PartnerID != "" {
		partnerID = &query.PartnerID
	}
	var status *models.ProductStatus
	if query.Status != "" {
		s := models.ProductStatus(query.Status)
		status = &s
	}

	result, err := h.productService.ListProducts(query.PageRequest, partnerID, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct handles fetching a single product.
// @Summary     Get product
// @Description Get a product by ID
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id path string true "Product ID"
// @Success     200 {object} models.Product "Product"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UpdateProductStatus handles moving a product through its lifecycle.
// @Summary     Update product status
// @Description Transition a product's publication status
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                     true "Product ID"
// @Param       request body UpdateProductStatusRequest true "New status"
// @Success     200 {object} models.Product "Updated product"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products/{id}/status [put]
func (h *ProductHandler) UpdateProductStatus(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProductStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.UpdateProductStatus(productID, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}
