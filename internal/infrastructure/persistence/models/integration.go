package models

import (
	"encoding/json"
	"time"

	"github.com/oceanerp/backend/internal/domain/integration"
)

// StorefrontModel is the GORM model for marketplace storefront connections
type StorefrontModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Platform  string `gorm:"size:20;not null;index"`
	Name      string `gorm:"size:255;not null"`
	APIKey    string `gorm:"size:512;not null"`
	APISecret string `gorm:"size:512;not null"`
	APIToken  string `gorm:"size:1024"`
	Config    string `gorm:"type:jsonb;default:'{}'"`
	IsActive  bool   `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (StorefrontModel) TableName() string {
	return "ecommerce_storefronts"
}

// ToDomain converts the model to a domain entity
func (m *StorefrontModel) ToDomain() *integration.Storefront {
	var config integration.StorefrontConfig
	if m.Config != "" {
		_ = json.Unmarshal([]byte(m.Config), &config)
	}
	return &integration.Storefront{
		ID:        m.ID,
		Platform:  integration.PlatformCode(m.Platform),
		Name:      m.Name,
		APIKey:    m.APIKey,
		APISecret: m.APISecret,
		APIToken:  m.APIToken,
		Config:    config,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// StorefrontModelFromDomain converts a domain entity to the model
func StorefrontModelFromDomain(s *integration.Storefront) *StorefrontModel {
	config, _ := json.Marshal(s.Config)
	return &StorefrontModel{
		ID:        s.ID,
		Platform:  s.Platform.String(),
		Name:      s.Name,
		APIKey:    s.APIKey,
		APISecret: s.APISecret,
		APIToken:  s.APIToken,
		Config:    string(config),
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// MappingModel is the GORM model for integration mappings. The natural key
// (storefront_id, entity_type, internal_id) is unique; upserts land on it.
type MappingModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	StorefrontID int64  `gorm:"not null;uniqueIndex:idx_mapping_natural,priority:1"`
	Platform     string `gorm:"size:20;not null;index"`
	EntityType   string `gorm:"size:20;not null;uniqueIndex:idx_mapping_natural,priority:2"`
	InternalID   int64  `gorm:"not null;uniqueIndex:idx_mapping_natural,priority:3;index:idx_mapping_internal"`
	ExternalID   string `gorm:"size:128;not null;index:idx_mapping_external"`
	LastSyncedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (MappingModel) TableName() string {
	return "integration_mappings"
}

// ToDomain converts the model to a domain entity
func (m *MappingModel) ToDomain() *integration.Mapping {
	return &integration.Mapping{
		ID:           m.ID,
		StorefrontID: m.StorefrontID,
		Platform:     integration.PlatformCode(m.Platform),
		EntityType:   integration.EntityType(m.EntityType),
		InternalID:   m.InternalID,
		ExternalID:   m.ExternalID,
		LastSyncedAt: m.LastSyncedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// MappingModelFromDomain converts a domain entity to the model
func MappingModelFromDomain(mapping *integration.Mapping) *MappingModel {
	return &MappingModel{
		ID:           mapping.ID,
		StorefrontID: mapping.StorefrontID,
		Platform:     mapping.Platform.String(),
		EntityType:   mapping.EntityType.String(),
		InternalID:   mapping.InternalID,
		ExternalID:   mapping.ExternalID,
		LastSyncedAt: mapping.LastSyncedAt,
		CreatedAt:    mapping.CreatedAt,
		UpdatedAt:    mapping.UpdatedAt,
	}
}

// SyncLogModel is the GORM model for the append-only sync audit trail
type SyncLogModel struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	IntegrationKey string `gorm:"size:64;not null;index"`
	Action         string `gorm:"size:64;not null"`
	Status         string `gorm:"size:16;not null"`
	Details        string `gorm:"type:jsonb;default:'{}'"`
	CreatedAt      time.Time
}

// TableName returns the table name for GORM
func (SyncLogModel) TableName() string {
	return "sync_logs"
}

// ToDomain converts the model to a domain entity
func (m *SyncLogModel) ToDomain() *integration.SyncLog {
	return &integration.SyncLog{
		ID:             m.ID,
		IntegrationKey: m.IntegrationKey,
		Action:         m.Action,
		Status:         m.Status,
		Details:        m.Details,
		CreatedAt:      m.CreatedAt,
	}
}

// SyncLogModelFromDomain converts a domain entity to the model
func SyncLogModelFromDomain(log *integration.SyncLog) *SyncLogModel {
	return &SyncLogModel{
		ID:             log.ID,
		IntegrationKey: log.IntegrationKey,
		Action:         log.Action,
		Status:         log.Status,
		Details:        log.Details,
		CreatedAt:      log.CreatedAt,
	}
}
