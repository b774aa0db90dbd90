package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/pagination"
)

// productService handles partner product listings.
type productService struct {
	db *gorm.DB
}

// NewProductService creates a new ProductServicer.
func NewProductService(db *gorm.DB) ProductServicer {
	return &productService{db: db}
}

// CreateProduct registers a new product in DRAFT status. The partner and
// the underlying asset must both exist.
func (s *productService) CreateProduct(partnerID, assetID, name, description, category string, minInvestment decimal.Decimal) (*models.Product, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var count int64
	s.db.Model(&models.Partner{}).Where("id = ?", partnerID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrPartnerNotFound
	}

	var asset models.Asset
	if err := s.db.Where("id = ?", assetID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	product := &models.Product{
		PartnerID:     partnerID,
		AssetID:       assetID,
		Name:          name,
		Description:   description,
		Category:      category,
		MinInvestment: minInvestment,
		Status:        models.ProductStatusDraft,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return product, nil
}

// GetProductByID retrieves a product with its partner and asset.
func (s *productService) GetProductByID(id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Partner").Preload("Asset").Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

// ListProducts returns a paginated list of products, optionally filtered
// by partner and status.
func (s *productService) ListProducts(page pagination.PageRequest, partnerID *string, status *models.ProductStatus) (*pagination.PageResponse[models.Product], error) {
	page.Defaults()

	base := s.db.Model(&models.Product{})
	if partnerID != nil {
		base = base.Where("partner_id = ?", *partnerID)
	}
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var products []models.Product
	if err := base.Preload("Asset").Order("created_at DESC").
		Scopes(pagination.Paginate(page)).Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(products, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateProductStatus moves a product through its publication lifecycle.
func (s *productService) UpdateProductStatus(productID string, status models.ProductStatus) (*models.Product, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(product).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	product.Status = status

	return product, nil
}
