package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
)

// customerService handles customer account business logic.
type customerService struct {
	db *gorm.DB
}

// NewCustomerService creates a new CustomerServicer.
func NewCustomerService(db *gorm.DB) CustomerServicer {
	return &customerService{db: db}
}

// CreateCustomer registers a new customer. New accounts start ACTIVE with
// KYC status PENDING, so they can invest small amounts before verification.
func (s *customerService) CreateCustomer(email, password, firstName, lastName, phoneNumber string) (*models.Customer, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	s.db.Model(&models.Customer{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	customer := &models.Customer{
		Email:       strings.ToLower(email),
		Password:    string(hashedPassword),
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: phoneNumber,
		Status:      models.CustomerStatusActive,
		KYCStatus:   models.KYCStatusPending,
	}

	if err := s.db.Create(customer).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return customer, nil
}

// GetCustomerByEmail retrieves a customer by email
func (s *customerService) GetCustomerByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &customer, nil
}

// GetCustomerByID retrieves a customer by ID
func (s *customerService) GetCustomerByID(id string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &customer, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *customerService) VerifyPassword(customer *models.Customer, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(password))
	return err == nil
}

// AttemptLogin verifies credentials and records the login. Failed attempts
// are counted on the account; a wrong password never reveals whether the
// email exists.
func (s *customerService) AttemptLogin(email, password string) (*models.Customer, error) {
	customer, err := s.GetCustomerByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !s.VerifyPassword(customer, password) {
		s.db.Model(customer).UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + 1"))
		return nil, apperrors.ErrInvalidCredentials
	}

	if customer.Status == models.CustomerStatusSuspended || customer.Status == models.CustomerStatusClosed {
		return nil, apperrors.ErrCustomerInactive
	}

	now := time.Now()
	if err := s.db.Model(customer).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"last_login_at":         now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	customer.LastLoginAt = &now

	return customer, nil
}

// StoreRefreshTokenHash persists the hash of the customer's current refresh
// token, invalidating any previously issued one.
func (s *customerService) StoreRefreshTokenHash(customerID, tokenHash string) error {
	result := s.db.Model(&models.Customer{}).Where("id = ?", customerID).
		Update("refresh_token_hash", tokenHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCustomerNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for a customer.
func (s *customerService) GetRefreshTokenHash(customerID string) (string, error) {
	customer, err := s.GetCustomerByID(customerID)
	if err != nil {
		return "", err
	}
	return customer.RefreshTokenHash, nil
}

// UpdateKYCStatus transitions a customer's KYC status. Moving to VERIFIED
// stamps the verification time; any other transition clears it.
func (s *customerService) UpdateKYCStatus(customerID string, status models.KYCStatus) (*models.Customer, error) {
	customer, err := s.GetCustomerByID(customerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"kyc_status": status}
	if status == models.KYCStatusVerified {
		now := time.Now()
		updates["kyc_verified_at"] = now
		customer.KYCVerifiedAt = &now
	} else {
		updates["kyc_verified_at"] = nil
		customer.KYCVerifiedAt = nil
	}

	if err := s.db.Model(customer).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	customer.KYCStatus = status

	return customer, nil
}
