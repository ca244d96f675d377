package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/infrastructure/persistence/models"
)

// GormStorefrontRepository implements StorefrontRepository using GORM
type GormStorefrontRepository struct {
	db *gorm.DB
}

// NewGormStorefrontRepository creates a new GormStorefrontRepository
func NewGormStorefrontRepository(db *gorm.DB) *GormStorefrontRepository {
	return &GormStorefrontRepository{db: db}
}

// FindByID finds a storefront by ID
func (r *GormStorefrontRepository) FindByID(ctx context.Context, id int64) (*integration.Storefront, error) {
	var model models.StorefrontModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrStorefrontNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns all storefronts with the active flag set
func (r *GormStorefrontRepository) FindActive(ctx context.Context) ([]integration.Storefront, error) {
	var storefrontModels []models.StorefrontModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&storefrontModels).Error; err != nil {
		return nil, err
	}

	storefronts := make([]integration.Storefront, len(storefrontModels))
	for i, model := range storefrontModels {
		storefronts[i] = *model.ToDomain()
	}
	return storefronts, nil
}

// FindActiveByPlatform returns active storefronts for one platform
func (r *GormStorefrontRepository) FindActiveByPlatform(ctx context.Context, platform integration.PlatformCode) ([]integration.Storefront, error) {
	var storefrontModels []models.StorefrontModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND platform = ?", true, platform.String()).
		Order("id ASC").
		Find(&storefrontModels).Error; err != nil {
		return nil, err
	}

	storefronts := make([]integration.Storefront, len(storefrontModels))
	for i, model := range storefrontModels {
		storefronts[i] = *model.ToDomain()
	}
	return storefronts, nil
}

// Save creates or updates a storefront
func (r *GormStorefrontRepository) Save(ctx context.Context, storefront *integration.Storefront) error {
	model := models.StorefrontModelFromDomain(storefront)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	storefront.ID = model.ID
	return nil
}

// Ensure GormStorefrontRepository implements StorefrontRepository
var _ integration.StorefrontRepository = (*GormStorefrontRepository)(nil)
