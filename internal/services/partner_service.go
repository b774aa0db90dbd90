package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/pagination"
)

// partnerService handles partner institution management.
type partnerService struct {
	db *gorm.DB
}

// NewPartnerService creates a new PartnerServicer.
func NewPartnerService(db *gorm.DB) PartnerServicer {
	return &partnerService{db: db}
}

// CreatePartner onboards a new partner institution.
func (s *partnerService) CreatePartner(name, code, description, contactEmail, logoURL string) (*models.Partner, error) {
	if name == "" || code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and code are required")
	}

	code = strings.ToUpper(code)

	var count int64
	s.db.Model(&models.Partner{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateCode
	}

	partner := &models.Partner{
		Name:         name,
		Code:         code,
		Description:  description,
		ContactEmail: strings.ToLower(contactEmail),
		LogoURL:      logoURL,
		Status:       models.PartnerStatusActive,
	}

	if err := s.db.Create(partner).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return partner, nil
}

// GetPartnerByID retrieves a partner by ID
func (s *partnerService) GetPartnerByID(id string) (*models.Partner, error) {
	var partner models.Partner
	if err := s.db.Where("id = ?", id).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPartnerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &partner, nil
}

// ListPartners returns a paginated list of partners ordered by name.
func (s *partnerService) ListPartners(page pagination.PageRequest) (*pagination.PageResponse[models.Partner], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Partner{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var partners []models.Partner
	if err := s.db.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&partners).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(partners, page.Page, page.PageSize, totalItems)
	return &result, nil
}
