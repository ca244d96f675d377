package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/infrastructure/persistence/models"
)

// GormMappingRepository implements MappingRepository using GORM
type GormMappingRepository struct {
	db *gorm.DB
}

// NewGormMappingRepository creates a new GormMappingRepository
func NewGormMappingRepository(db *gorm.DB) *GormMappingRepository {
	return &GormMappingRepository{db: db}
}

// FindByInternal resolves the mapping for an ERP entity on one storefront
func (r *GormMappingRepository) FindByInternal(ctx context.Context, storefrontID int64, entityType integration.EntityType, internalID int64) (*integration.Mapping, error) {
	var model models.MappingModel
	if err := r.db.WithContext(ctx).
		Where("storefront_id = ? AND entity_type = ? AND internal_id = ?", storefrontID, entityType.String(), internalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternal resolves the mapping for a platform entity on one storefront
func (r *GormMappingRepository) FindByExternal(ctx context.Context, storefrontID int64, entityType integration.EntityType, externalID string) (*integration.Mapping, error) {
	var model models.MappingModel
	if err := r.db.WithContext(ctx).
		Where("storefront_id = ? AND entity_type = ? AND external_id = ?", storefrontID, entityType.String(), externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindProductMappings returns every product mapping for an ERP product
func (r *GormMappingRepository) FindProductMappings(ctx context.Context, productID int64) ([]integration.Mapping, error) {
	var mappingModels []models.MappingModel
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND internal_id = ?", integration.EntityTypeProduct.String(), productID).
		Order("storefront_id ASC").
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}

	mappings := make([]integration.Mapping, len(mappingModels))
	for i, model := range mappingModels {
		mappings[i] = *model.ToDomain()
	}
	return mappings, nil
}

// CountByType counts mappings of one entity type on a storefront
func (r *GormMappingRepository) CountByType(ctx context.Context, storefrontID int64, entityType integration.EntityType) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MappingModel{}).
		Where("storefront_id = ? AND entity_type = ?", storefrontID, entityType.String()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Upsert inserts the mapping or refreshes the external ID on natural-key
// conflict
func (r *GormMappingRepository) Upsert(ctx context.Context, mapping *integration.Mapping) error {
	model := models.MappingModelFromDomain(mapping)
	now := time.Now()
	model.LastSyncedAt = &now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "storefront_id"},
			{Name: "entity_type"},
			{Name: "internal_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"external_id", "last_synced_at", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	mapping.ID = model.ID
	mapping.LastSyncedAt = model.LastSyncedAt
	return nil
}

// DeleteByInternal removes the mapping for an ERP entity on one storefront
func (r *GormMappingRepository) DeleteByInternal(ctx context.Context, storefrontID int64, entityType integration.EntityType, internalID int64) error {
	result := r.db.WithContext(ctx).
		Delete(&models.MappingModel{}, "storefront_id = ? AND entity_type = ? AND internal_id = ?",
			storefrontID, entityType.String(), internalID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrMappingNotFound
	}
	return nil
}

// DeleteByStorefront removes all mappings owned by a storefront
func (r *GormMappingRepository) DeleteByStorefront(ctx context.Context, storefrontID int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.MappingModel{}, "storefront_id = ?", storefrontID).Error
}

// Ensure GormMappingRepository implements MappingRepository
var _ integration.MappingRepository = (*GormMappingRepository)(nil)

// ---------------------------------------------------------------------------
// Sync log repository
// ---------------------------------------------------------------------------

// GormSyncLogRepository implements SyncLogRepository using GORM
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new GormSyncLogRepository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// Append writes one log record
func (r *GormSyncLogRepository) Append(ctx context.Context, log *integration.SyncLog) error {
	return r.db.WithContext(ctx).Create(models.SyncLogModelFromDomain(log)).Error
}

// FindRecent returns the most recent records for a storefront scope
func (r *GormSyncLogRepository) FindRecent(ctx context.Context, integrationKey string, limit int) ([]integration.SyncLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logModels []models.SyncLogModel
	if err := r.db.WithContext(ctx).
		Where("integration_key = ?", integrationKey).
		Order("created_at DESC").
		Limit(limit).
		Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]integration.SyncLog, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

// Ensure GormSyncLogRepository implements SyncLogRepository
var _ integration.SyncLogRepository = (*GormSyncLogRepository)(nil)
