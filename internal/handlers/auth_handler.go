package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/services"
)

// AuthHandler handles customer registration and authentication.
type AuthHandler struct {
	customerService services.CustomerServicer
	auditService    services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(customerService services.CustomerServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{customerService: customerService, auditService: auditService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	FirstName   string `json:"first_name" binding:"max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"max=20"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CustomerResponse represents the customer data in the response
type CustomerResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	KYCStatus string `json:"kyc_status"`
}

// AuthResponse represents the authentication response with tokens
type AuthResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	Customer     CustomerResponse `json:"customer"`
}

func (h *AuthHandler) issueTokens(c *gin.Context, customer *models.Customer, status int) {
	accessToken, err := middleware.GenerateAccessToken(customer)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	refreshToken, err := middleware.GenerateRefreshToken(customer)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := h.customerService.StoreRefreshTokenHash(customer.ID, middleware.HashToken(refreshToken)); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(status, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"customer": gin.H{
			"id":         customer.ID,
			"email":      customer.Email,
			"first_name": customer.FirstName,
			"last_name":  customer.LastName,
			"kyc_status": customer.KYCStatus,
		},
	})
}

// Register handles customer registration
// @Summary     Register a new customer
// @Description Register a new customer with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Customer registration data"
// @Success     201 {object} AuthResponse "Customer registered and tokens generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(req.Email, req.Password, req.FirstName, req.LastName, req.PhoneNumber)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(customer.ID, "CUSTOMER_REGISTERED", "customer", customer.ID, c.ClientIP(), nil)

	h.issueTokens(c, customer, http.StatusCreated)
}

// Login handles customer login
// @Summary     Login customer
// @Description Authenticate a customer and get access and refresh tokens
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Customer login credentials"
// @Success     200 {object} AuthResponse "Customer authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	customer, err := h.customerService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(customer.ID, "CUSTOMER_LOGIN", "customer", customer.ID, c.ClientIP(), nil)

	h.issueTokens(c, customer, http.StatusOK)
}

// Refresh rotates a refresh token for a new token pair
// @Summary     Refresh tokens
// @Description Exchange a valid refresh token for a new access and refresh token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} AuthResponse "New token pair"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid refresh token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	storedHash, err := h.customerService.GetRefreshTokenHash(claims.CustomerID)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	// Only the most recently issued refresh token is accepted
	presentedHash := middleware.HashToken(req.RefreshToken)
	if storedHash == "" || subtle.ConstantTimeCompare([]byte(storedHash), []byte(presentedHash)) != 1 {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	customer, err := h.customerService.GetCustomerByID(claims.CustomerID)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	h.issueTokens(c, customer, http.StatusOK)
}

// GetProfile returns the customer's profile
// @Summary     Get customer profile
// @Description Get the authenticated customer's profile information
// @Tags        customer
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CustomerResponse "Customer profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	customer, err := h.customerService.GetCustomerByID(customerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": gin.H{
			"id":            customer.ID,
			"email":         customer.Email,
			"first_name":    customer.FirstName,
			"last_name":     customer.LastName,
			"phone_number":  customer.PhoneNumber,
			"status":        customer.Status,
			"kyc_status":    customer.KYCStatus,
			"last_login_at": customer.LastLoginAt,
		},
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
