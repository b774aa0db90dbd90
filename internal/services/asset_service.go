package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/pagination"
)

// assetService handles the asset catalog and NAV/price updates.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// CreateAsset lists a new asset under a partner. The initial price, when
// positive, is also recorded as the first price history entry.
func (s *assetService) CreateAsset(
	partnerID, code, name, description string,
	assetType models.AssetType,
	currency string,
	price, minInvestment decimal.Decimal,
	riskLevel models.RiskLevel,
) (*models.Asset, error) {
	if code == "" || name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "code and name are required")
	}

	var count int64
	s.db.Model(&models.Partner{}).Where("id = ?", partnerID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrPartnerNotFound
	}

	code = strings.ToUpper(code)
	s.db.Model(&models.Asset{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateCode
	}

	if currency == "" {
		currency = "PHP"
	}
	if riskLevel == "" {
		riskLevel = models.RiskLevelMedium
	}

	asset := &models.Asset{
		PartnerID:     partnerID,
		Code:          code,
		Name:          name,
		Description:   description,
		AssetType:     assetType,
		Currency:      currency,
		Price:         price,
		MinInvestment: minInvestment,
		RiskLevel:     riskLevel,
		Status:        models.AssetStatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(asset).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if price.IsPositive() {
			entry := &models.AssetPrice{
				AssetID:    asset.ID,
				Price:      price,
				RecordedAt: time.Now(),
			}
			if txErr := tx.Create(entry).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// GetAssetByID retrieves an asset with its partner.
func (s *assetService) GetAssetByID(id string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Preload("Partner").Where("id = ?", id).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// GetAssetByCode retrieves an asset by its marketplace code.
func (s *assetService) GetAssetByCode(code string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Where("code = ?", strings.ToUpper(code)).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// ListAssets returns a paginated list of assets matching the filter.
func (s *assetService) ListAssets(page pagination.PageRequest, filter AssetFilter) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	base := s.db.Model(&models.Asset{})
	if filter.AssetType != nil {
		base = base.Where("asset_type = ?", *filter.AssetType)
	}
	if filter.RiskLevel != nil {
		base = base.Where("risk_level = ?", *filter.RiskLevel)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.PartnerID != nil {
		base = base.Where("partner_id = ?", *filter.PartnerID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := base.Order("code ASC").Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdatePrice publishes a new NAV/unit price for an asset: the asset's
// current price is replaced and the value is appended to the price history.
// Price updates must be positive; suspending an asset is a status change,
// not a zero price.
func (s *assetService) UpdatePrice(assetID string, price decimal.Decimal, recordedAt time.Time) (*models.Asset, error) {
	if !price.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be a positive number")
	}

	asset, err := s.GetAssetByID(assetID)
	if err != nil {
		return nil, err
	}

	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(asset).Update("price", price).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		entry := &models.AssetPrice{
			AssetID:    asset.ID,
			Price:      price,
			RecordedAt: recordedAt,
		}
		if txErr := tx.Create(entry).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	asset.Price = price

	return asset, nil
}

// GetPriceHistory returns the asset's price history, newest first.
func (s *assetService) GetPriceHistory(assetID string, page pagination.PageRequest) (*pagination.PageResponse[models.AssetPrice], error) {
	if _, err := s.GetAssetByID(assetID); err != nil {
		return nil, err
	}

	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.AssetPrice{}).Where("asset_id = ?", assetID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prices []models.AssetPrice
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(prices, page.Page, page.PageSize, totalItems)
	return &result, nil
}
